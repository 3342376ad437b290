package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"solvextra/internal/cache"
	"solvextra/internal/engine"
	"solvextra/internal/model"
	"solvextra/internal/repository"
)

var (
	ErrFormNotFound    = errors.New("form not found")
	ErrSessionNotFound = errors.New("audit session not found")
	ErrReportNotFound  = errors.New("audit report not found")
	ErrNotSessionOwner = errors.New("audit session belongs to another auditor")
)

// AuditService drives the audit lifecycle: open a session against a form,
// record answers (running the repeatable-section lifecycle on each), and
// submit the scored report.
type AuditService struct {
	formRepo   repository.FormRepo
	reportRepo repository.ReportRepo
	sessions   cache.AuditSessionCache
}

// NewAuditService creates a new audit service
func NewAuditService(formRepo repository.FormRepo, reportRepo repository.ReportRepo, sessions cache.AuditSessionCache) *AuditService {
	return &AuditService{
		formRepo:   formRepo,
		reportRepo: reportRepo,
		sessions:   sessions,
	}
}

// Start opens a new audit session for a form and caches it
func (s *AuditService) Start(ctx context.Context, formID, agent, auditor string) (*engine.Session, error) {
	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to load form: %w", err)
	}
	if form == nil {
		return nil, ErrFormNotFound
	}

	session := engine.NewSession(uuid.New().String(), form, agent, auditor)
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to cache session: %w", err)
	}
	return session, nil
}

// Answer records one answer, runs the repetition lifecycle, and returns the
// resulting visible layout for the client to render.
func (s *AuditService) Answer(ctx context.Context, sessionID, auditor, questionID, value string) (engine.VisibleLayout, error) {
	session, err := s.ownedSession(ctx, sessionID, auditor)
	if err != nil {
		return engine.VisibleLayout{}, err
	}

	session.SetAnswer(questionID, value)
	if err := s.sessions.Set(ctx, session); err != nil {
		return engine.VisibleLayout{}, fmt.Errorf("failed to persist session: %w", err)
	}
	return session.Visible(), nil
}

// Visible resolves the current visible layout of a session
func (s *AuditService) Visible(ctx context.Context, sessionID, auditor string) (engine.VisibleLayout, error) {
	session, err := s.ownedSession(ctx, sessionID, auditor)
	if err != nil {
		return engine.VisibleLayout{}, err
	}
	return session.Visible(), nil
}

// Submit scores the session's visible answer set and persists the report.
// Visibility is decided here once and for all: the report carries only the
// questions that were visible at submission time.
func (s *AuditService) Submit(ctx context.Context, sessionID, auditor string) (*model.AuditReport, error) {
	session, err := s.ownedSession(ctx, sessionID, auditor)
	if err != nil {
		return nil, err
	}

	snapshot := session.Snapshot()
	layout := snapshot.Visible()
	flat := engine.FlattenVisible(layout, snapshot.Answers)
	result := engine.LiveScore(flat)

	now := time.Now()
	report := &model.AuditReport{
		AuditID:        snapshot.ID,
		FormID:         snapshot.FormID,
		FormName:       snapshot.Form.Name,
		Agent:          snapshot.Agent,
		Auditor:        snapshot.Auditor,
		SectionAnswers: engine.BuildSectionAnswers(layout, snapshot.Answers),
		Score:          result.Score,
		MaxScore:       int(math.Round(engine.TotalWeightage(flat))),
		HasFatal:       result.HasFatal,
		EditHistory: []model.EditRecord{
			{Timestamp: now, Editor: auditor, Action: model.EditActionSubmit},
		},
		SubmittedAt: now,
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to persist report: %w", err)
	}

	// Best effort: the session has served its purpose either way
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return report, nil
	}
	return report, nil
}

// EditAnswers applies an admin edit to a persisted report. The new answer
// set and the score recomputed from it replace the stored document in one
// swap; a report is never stored with answers and score out of step.
func (s *AuditService) EditAnswers(ctx context.Context, auditID, editor string, sectionAnswers []model.SectionAnswers) (*model.AuditReport, error) {
	stored, err := s.reportRepo.GetByID(ctx, auditID)
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	if stored == nil {
		return nil, ErrReportNotFound
	}

	edited := *stored
	edited.SectionAnswers = sectionAnswers
	edited.LegacyAnswers = nil

	flat := engine.FlattenReport(&edited)
	result := engine.LiveScore(flat)
	edited.Score = result.Score
	edited.MaxScore = int(math.Round(engine.TotalWeightage(flat)))
	edited.HasFatal = result.HasFatal
	edited.EditHistory = append(append([]model.EditRecord{}, stored.EditHistory...), model.EditRecord{
		Timestamp: time.Now(),
		Editor:    editor,
		Action:    model.EditActionAdminEdit,
	})

	if err := s.reportRepo.Replace(ctx, &edited); err != nil {
		return nil, fmt.Errorf("failed to replace report: %w", err)
	}
	return &edited, nil
}

func (s *AuditService) ownedSession(ctx context.Context, sessionID, auditor string) (*engine.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.Auditor != auditor {
		return nil, ErrNotSessionOwner
	}
	return session, nil
}
