package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/school-portal/admin-api/internal/models"
	"github.com/school-portal/admin-api/pkg/authprovider"
	appErrors "github.com/school-portal/admin-api/pkg/errors"
	"github.com/school-portal/admin-api/pkg/storage"
)

type userRepository interface {
	List(ctx context.Context) ([]models.UserProfile, error)
	FindByID(ctx context.Context, id string) (*models.UserProfile, error)
	FindByEmail(ctx context.Context, email string) (*models.UserProfile, error)
	Create(ctx context.Context, user *models.UserProfile) error
	Update(ctx context.Context, user *models.UserProfile) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

// CreateUserRequest captures fields for creating a user account.
type CreateUserRequest struct {
	Email      string          `json:"email" validate:"required,email"`
	Password   string          `json:"password" validate:"required,min=8"`
	Role       models.UserRole `json:"role" validate:"required,oneof=student instructor registrar program_head admin superadmin"`
	FirstName  string          `json:"first_name" validate:"required"`
	MiddleName *string         `json:"middle_name"`
	LastName   string          `json:"last_name" validate:"required"`
	Suffix     *string         `json:"suffix"`

	StudentNumber    *string `json:"student_number"`
	ProgramCode      *string `json:"program_code"`
	YearLevel        *string `json:"year_level"`
	SectionName      *string `json:"section_name"`
	EnrollmentStatus *string `json:"enrollment_status"`
	Department       *string `json:"department"`
}

// UpdateUserRequest modifies profile fields. Email and password changes go
// through separate flows.
type UpdateUserRequest struct {
	Role       models.UserRole `json:"role" validate:"required,oneof=student instructor registrar program_head admin superadmin"`
	FirstName  string          `json:"first_name" validate:"required"`
	MiddleName *string         `json:"middle_name"`
	LastName   string          `json:"last_name" validate:"required"`
	Suffix     *string         `json:"suffix"`

	StudentNumber    *string `json:"student_number"`
	ProgramCode      *string `json:"program_code"`
	YearLevel        *string `json:"year_level"`
	SectionName      *string `json:"section_name"`
	EnrollmentStatus *string `json:"enrollment_status"`
	Department       *string `json:"department"`
}

// UserService handles account and profile workflows.
type UserService struct {
	repo      userRepository
	store     storage.ObjectStore
	bucket    string
	provider  *authprovider.Client
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	avatarTTL time.Duration
}

// NewUserService creates a user service.
func NewUserService(repo userRepository, store storage.ObjectStore, bucket string, provider *authprovider.Client, cache *CacheService, metrics *MetricsService, avatarTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if avatarTTL <= 0 {
		avatarTTL = time.Hour
	}
	return &UserService{
		repo:      repo,
		store:     store,
		bucket:    bucket,
		provider:  provider,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		avatarTTL: avatarTTL,
	}
}

// List returns the filtered user view with avatars resolved.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.UserProfile, *models.Pagination, error) {
	var users []models.UserProfile
	hit, _ := s.cache.Get(ctx, cacheKeyUsers, &users)
	if !hit {
		var err error
		users, err = s.repo.List(ctx)
		if err != nil {
			return nil, nil, appErrors.WrapStore(err, "failed to list users")
		}
		_ = s.cache.Set(ctx, cacheKeyUsers, users, 0)
	}

	for i := range users {
		s.resolveAvatar(&users[i])
	}

	filtered := FilterUsers(users, filter)
	pagination := &models.Pagination{Page: 1, PageSize: len(filtered), TotalCount: len(users)}
	return filtered, pagination, nil
}

// resolveAvatar fills exactly one of AvatarURL and AvatarInitials. A signing
// failure degrades to the initials placeholder.
func (s *UserService) resolveAvatar(user *models.UserProfile) {
	user.AvatarURL = nil
	user.AvatarInitials = nil

	if user.AvatarRef != nil && *user.AvatarRef != "" {
		if storage.IsDataURI(*user.AvatarRef) {
			user.AvatarURL = user.AvatarRef
			return
		}
		path := storage.ExtractObjectPath(*user.AvatarRef, s.bucket)
		if path != "" {
			url, err := s.store.SignedURL(path, s.avatarTTL)
			if err == nil {
				user.AvatarURL = &url
				return
			}
			s.logger.Warn("avatar signing failed", zap.String("user_id", user.ID), zap.Error(err))
			s.metrics.RecordSoftWarning("avatar_signing")
		}
	}

	initials := user.Initials()
	user.AvatarInitials = &initials
}

// Get returns one user with the avatar resolved.
func (s *UserService) Get(ctx context.Context, id string) (*models.UserProfile, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.WrapStore(err, "failed to load user")
	}
	s.resolveAvatar(user)
	return user, nil
}

// Create adds a user account. Emails are unique case-insensitively.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*models.UserProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.WrapStore(err, "failed to check email")
	}
	if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.UserProfile{
		Email:            email,
		PasswordHash:     string(hash),
		Role:             req.Role,
		FirstName:        req.FirstName,
		MiddleName:       req.MiddleName,
		LastName:         req.LastName,
		Suffix:           req.Suffix,
		Active:           true,
		StudentNumber:    req.StudentNumber,
		ProgramCode:      req.ProgramCode,
		YearLevel:        req.YearLevel,
		SectionName:      req.SectionName,
		EnrollmentStatus: req.EnrollmentStatus,
		Department:       req.Department,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, appErrors.WrapStore(err, "failed to create user")
	}

	s.invalidate(ctx)
	s.resolveAvatar(user)
	return user, nil
}

// Update modifies profile fields.
func (s *UserService) Update(ctx context.Context, id string, req UpdateUserRequest) (*models.UserProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Role = req.Role
	user.FirstName = req.FirstName
	user.MiddleName = req.MiddleName
	user.LastName = req.LastName
	user.Suffix = req.Suffix
	user.StudentNumber = req.StudentNumber
	user.ProgramCode = req.ProgramCode
	user.YearLevel = req.YearLevel
	user.SectionName = req.SectionName
	user.EnrollmentStatus = req.EnrollmentStatus
	user.Department = req.Department

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, appErrors.WrapStore(err, "failed to update user")
	}

	s.invalidate(ctx)
	s.resolveAvatar(user)
	return user, nil
}

// Toggle flips a user's active flag.
func (s *UserService) Toggle(ctx context.Context, id string, active bool) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return appErrors.WrapStore(err, "failed to toggle user")
	}
	s.invalidate(ctx)
	return nil
}

// UploadAvatar stores the avatar image and records the object path.
func (s *UserService) UploadAvatar(ctx context.Context, id, filename, contentType string, data []byte) (*models.UserProfile, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("avatars/%s/%s", id, filename)
	opts := storage.UploadOptions{ContentType: contentType, CacheControl: "3600", Upsert: true}
	if err := s.store.Upload(ctx, path, data, opts); err != nil {
		return nil, appErrors.WrapStore(err, "failed to upload avatar")
	}

	user.AvatarRef = &path
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, appErrors.WrapStore(err, "failed to record avatar")
	}

	s.invalidate(ctx)
	s.resolveAvatar(user)
	return user, nil
}

// Delete issues the best-effort auth provider account delete, removes the
// profile row, then best-effort cleans up the stored avatar. Neither cleanup
// failure blocks or reverses the row delete.
func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if s.provider.Enabled() {
		if err := s.provider.DeleteAccount(ctx, id); err != nil {
			s.logger.Warn("auth provider account cleanup failed",
				zap.String("user_id", id),
				zap.Error(err))
			s.metrics.RecordSoftWarning("auth_provider_delete")
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.WrapStore(err, "failed to delete user")
	}

	if user.AvatarRef != nil && !storage.IsDataURI(*user.AvatarRef) {
		if path := storage.ExtractObjectPath(*user.AvatarRef, s.bucket); path != "" {
			if err := s.store.Remove(ctx, []string{path}); err != nil {
				s.logger.Warn("avatar cleanup failed",
					zap.String("user_id", id),
					zap.String("path", path),
					zap.Error(err))
				s.metrics.RecordSoftWarning("user_avatar_delete")
			}
		}
	}

	s.cache.Invalidate(ctx, cachePatternEverything)
	return nil
}

func (s *UserService) invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, cacheKeyUsers)
	s.cache.Invalidate(ctx, cachePatternDashboard)
}
