package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"solvextra/internal/engine"
	"solvextra/internal/model"
	"solvextra/internal/repository"
)

// ReviewService is the master-auditor (ATA) surface: it re-validates
// already-scored reports, using the stricter historical fatal rule.
type ReviewService struct {
	reportRepo repository.ReportRepo
}

// NewReviewService creates a new review service
func NewReviewService(reportRepo repository.ReportRepo) *ReviewService {
	return &ReviewService{reportRepo: reportRepo}
}

func (s *ReviewService) Get(ctx context.Context, auditID string) (*model.AuditReport, error) {
	return s.reportRepo.GetByID(ctx, auditID)
}

func (s *ReviewService) List(ctx context.Context) ([]*model.AuditReport, error) {
	return s.reportRepo.List(ctx)
}

func (s *ReviewService) ListByForm(ctx context.Context, formID string) ([]*model.AuditReport, error) {
	return s.reportRepo.ListByForm(ctx, formID)
}

func (s *ReviewService) ListByAgent(ctx context.Context, agent string) ([]*model.AuditReport, error) {
	return s.reportRepo.ListByAgent(ctx, agent)
}

// FatalCheck runs the review-time fatal re-detection over a persisted
// report, covering both stored shapes.
func (s *ReviewService) FatalCheck(ctx context.Context, auditID string) (bool, error) {
	report, err := s.reportRepo.GetByID(ctx, auditID)
	if err != nil {
		return false, fmt.Errorf("failed to load report: %w", err)
	}
	if report == nil {
		return false, ErrReportNotFound
	}
	return engine.AuditedFatalCheck(report), nil
}

// Rescore recomputes a report's score from its persisted answers and
// applies the review-time fatal rule on top: if the stricter check trips,
// the score is zeroed even where live scoring would only have deducted.
// Answers and score are replaced together.
func (s *ReviewService) Rescore(ctx context.Context, auditID, reviewer string) (*model.AuditReport, error) {
	stored, err := s.reportRepo.GetByID(ctx, auditID)
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	if stored == nil {
		return nil, ErrReportNotFound
	}

	flat := engine.FlattenReport(stored)
	result := engine.LiveScore(flat)

	rescored := *stored
	rescored.Score = result.Score
	rescored.MaxScore = int(math.Round(engine.TotalWeightage(flat)))
	rescored.HasFatal = result.HasFatal

	if engine.AuditedFatalCheck(stored) {
		rescored.Score = 0
		rescored.HasFatal = true
	}

	rescored.EditHistory = append(append([]model.EditRecord{}, stored.EditHistory...), model.EditRecord{
		Timestamp: time.Now(),
		Editor:    reviewer,
		Action:    model.EditActionATARescore,
	})

	if err := s.reportRepo.Replace(ctx, &rescored); err != nil {
		return nil, fmt.Errorf("failed to replace report: %w", err)
	}
	return &rescored, nil
}
