package service

import (
	"context"
	"fmt"

	"solvextra/internal/model"
	"solvextra/internal/repository"
)

// FormService owns form definition CRUD. Malformed definitions are rejected
// here, at the boundary; once stored, a form is taken as-is by the engine.
type FormService struct {
	formRepo repository.FormRepo
}

// NewFormService creates a new form service
func NewFormService(formRepo repository.FormRepo) *FormService {
	return &FormService{formRepo: formRepo}
}

func (s *FormService) Create(ctx context.Context, form *model.FormDefinition) (string, error) {
	if err := model.ValidateForm(form); err != nil {
		return "", err
	}
	id, err := s.formRepo.Create(ctx, form)
	if err != nil {
		return "", fmt.Errorf("failed to create form: %w", err)
	}
	return id, nil
}

func (s *FormService) GetByID(ctx context.Context, id string) (*model.FormDefinition, error) {
	return s.formRepo.GetByID(ctx, id)
}

func (s *FormService) List(ctx context.Context) ([]*model.FormDefinition, error) {
	return s.formRepo.List(ctx)
}

func (s *FormService) Update(ctx context.Context, form *model.FormDefinition) error {
	if err := model.ValidateForm(form); err != nil {
		return err
	}
	return s.formRepo.Update(ctx, form)
}

func (s *FormService) Delete(ctx context.Context, id string) error {
	return s.formRepo.Delete(ctx, id)
}
