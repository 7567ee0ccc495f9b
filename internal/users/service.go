package users

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/bestimator/bestimator-backend/pkg/db/models"
	pkgerrors "github.com/bestimator/bestimator-backend/pkg/errors"
)

type repository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, row *models.User) (*models.User, error)
	Update(ctx context.Context, id string, fields map[string]any) (int64, error)
	Deactivate(ctx context.Context, id string) (int64, error)
	IsActive(ctx context.Context, id string) (bool, error)
}

// Profile carries the identity fields asserted by the auth token. The user id
// is the identity provider's subject and is never generated locally.
type Profile struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
}

// UpdateInput holds the mutable profile fields. Nil pointers leave the
// stored value untouched.
type UpdateInput struct {
	FirstName       *string
	LastName        *string
	CompanyName     *string
	PhoneNumber     *string
	Address         *string
	ProfileImageURL *string
}

type Service interface {
	FindOrCreate(ctx context.Context, profile Profile) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id string, input UpdateInput) (*models.User, error)
	Deactivate(ctx context.Context, id string) error
	IsActive(ctx context.Context, id string) (bool, error)
}

type service struct {
	repo repository
}

func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("users: repository is required")
	}
	return &service{repo: repo}, nil
}

// FindOrCreate resolves the caller's user row, provisioning it on first
// sight. An existing row wins over the token's profile fields.
func (s *service) FindOrCreate(ctx context.Context, profile Profile) (*models.User, error) {
	if strings.TrimSpace(profile.UserID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	existing, err := s.repo.FindByID(ctx, profile.UserID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "failed to look up user")
	}

	row := &models.User{
		UserID:    profile.UserID,
		Email:     profile.Email,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		IsActive:  true,
	}
	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "failed to create user")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id string) (*models.User, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "failed to load user")
	}
	return row, nil
}

func (s *service) List(ctx context.Context) ([]models.User, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "failed to list users")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, id string, input UpdateInput) (*models.User, error) {
	fields := map[string]any{}
	if input.FirstName != nil {
		fields["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		fields["last_name"] = *input.LastName
	}
	if input.CompanyName != nil {
		fields["company_name"] = *input.CompanyName
	}
	if input.PhoneNumber != nil {
		fields["phone_number"] = *input.PhoneNumber
	}
	if input.Address != nil {
		fields["address"] = *input.Address
	}
	if input.ProfileImageURL != nil {
		fields["profile_image_url"] = *input.ProfileImageURL
	}
	if len(fields) == 0 {
		return s.Get(ctx, id)
	}

	affected, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "failed to update user")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return s.Get(ctx, id)
}

func (s *service) Deactivate(ctx context.Context, id string) error {
	affected, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "failed to deactivate user")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return nil
}

func (s *service) IsActive(ctx context.Context, id string) (bool, error) {
	active, err := s.repo.IsActive(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return false, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "failed to check user status")
	}
	return active, nil
}
