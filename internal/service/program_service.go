package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/school-portal/admin-api/internal/models"
	appErrors "github.com/school-portal/admin-api/pkg/errors"
)

type programRepository interface {
	List(ctx context.Context) ([]models.Program, error)
	GetByID(ctx context.Context, id string) (*models.Program, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, program *models.Program) error
	Update(ctx context.Context, program *models.Program) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

// CreateProgramRequest captures fields for creating a program. The code is
// derived from the name, never supplied by the caller.
type CreateProgramRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Major       string `json:"major"`
}

// UpdateProgramRequest modifies program fields. Codes are immutable.
type UpdateProgramRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Major       string `json:"major"`
}

// ProgramService handles academic program workflows.
type ProgramService struct {
	repo      programRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewProgramService creates a program service.
func NewProgramService(repo programRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ProgramService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramService{repo: repo, cache: cache, validator: validate, logger: logger, now: time.Now}
}

// List returns programs matching the filter.
func (s *ProgramService) List(ctx context.Context, filter models.ProgramFilter) ([]models.Program, *models.Pagination, error) {
	var programs []models.Program
	hit, _ := s.cache.Get(ctx, cacheKeyPrograms, &programs)
	if !hit {
		var err error
		programs, err = s.repo.List(ctx)
		if err != nil {
			return nil, nil, appErrors.WrapStore(err, "failed to list programs")
		}
		_ = s.cache.Set(ctx, cacheKeyPrograms, programs, 0)
	}

	filtered := FilterPrograms(programs, filter)
	pagination := &models.Pagination{Page: 1, PageSize: len(filtered), TotalCount: len(programs)}
	return filtered, pagination, nil
}

// Get returns one program.
func (s *ProgramService) Get(ctx context.Context, id string) (*models.Program, error) {
	program, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
		}
		return nil, appErrors.WrapStore(err, "failed to load program")
	}
	return program, nil
}

// Create adds a program with a generated code. A duplicate code is reported
// as a conflict before any write happens.
func (s *ProgramService) Create(ctx context.Context, req CreateProgramRequest) (*models.Program, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid program payload")
	}

	code := GenerateProgramCode(req.Name, s.now())
	exists, err := s.repo.ExistsByCode(ctx, code)
	if err != nil {
		return nil, appErrors.WrapStore(err, "failed to check program code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a program with code "+code+" already exists")
	}

	program := &models.Program{
		Name:        req.Name,
		Code:        code,
		Description: req.Description,
		Major:       req.Major,
		Active:      true,
	}

	if err := s.repo.Create(ctx, program); err != nil {
		return nil, appErrors.WrapStore(err, "failed to create program")
	}

	s.invalidate(ctx)
	return program, nil
}

// Update modifies a program. The stored code is left untouched even when the
// name changes.
func (s *ProgramService) Update(ctx context.Context, id string, req UpdateProgramRequest) (*models.Program, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid program payload")
	}

	program, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	program.Name = req.Name
	program.Description = req.Description
	program.Major = req.Major

	if err := s.repo.Update(ctx, program); err != nil {
		return nil, appErrors.WrapStore(err, "failed to update program")
	}

	s.invalidate(ctx)
	return program, nil
}

// Toggle flips a program's active flag.
func (s *ProgramService) Toggle(ctx context.Context, id string, active bool) (*models.Program, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return nil, appErrors.WrapStore(err, "failed to toggle program")
	}
	s.invalidate(ctx)
	return s.Get(ctx, id)
}

// Delete removes a program.
func (s *ProgramService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.WrapStore(err, "failed to delete program")
	}
	s.invalidate(ctx)
	return nil
}

func (s *ProgramService) invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, cacheKeyPrograms)
	s.cache.Invalidate(ctx, cachePatternDashboard)
}
