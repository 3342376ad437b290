package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"solvextra/internal/model"
)

// ReportRepo handles MongoDB operations for audit reports
type ReportRepo interface {
	Create(ctx context.Context, report *model.AuditReport) error
	GetByID(ctx context.Context, auditID string) (*model.AuditReport, error)
	ListByForm(ctx context.Context, formID string) ([]*model.AuditReport, error)
	ListByAgent(ctx context.Context, agent string) ([]*model.AuditReport, error)
	List(ctx context.Context) ([]*model.AuditReport, error)
	// Replace swaps the whole document so answers and score always move
	// together; callers never patch a report field by field.
	Replace(ctx context.Context, report *model.AuditReport) error
}

type reportRepo struct {
	collection *mongo.Collection
}

// NewReportRepo creates a new report repository
func NewReportRepo(db *mongo.Database) ReportRepo {
	return &reportRepo{
		collection: db.Collection("audit_reports"),
	}
}

func (r *reportRepo) Create(ctx context.Context, report *model.AuditReport) error {
	_, err := r.collection.InsertOne(ctx, report)
	return err
}

func (r *reportRepo) GetByID(ctx context.Context, auditID string) (*model.AuditReport, error) {
	var report model.AuditReport
	err := r.collection.FindOne(ctx, bson.M{"_id": auditID}).Decode(&report)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepo) ListByForm(ctx context.Context, formID string) ([]*model.AuditReport, error) {
	return r.find(ctx, bson.M{"formId": formID})
}

func (r *reportRepo) ListByAgent(ctx context.Context, agent string) ([]*model.AuditReport, error) {
	return r.find(ctx, bson.M{"agent": agent})
}

func (r *reportRepo) List(ctx context.Context) ([]*model.AuditReport, error) {
	return r.find(ctx, bson.M{})
}

func (r *reportRepo) find(ctx context.Context, filter bson.M) ([]*model.AuditReport, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reports []*model.AuditReport
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportRepo) Replace(ctx context.Context, report *model.AuditReport) error {
	opts := options.Replace().SetUpsert(false)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": report.AuditID}, report, opts)
	return err
}
