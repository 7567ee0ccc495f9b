package clients

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bestimator/bestimator-backend/pkg/db/models"
	pkgerrors "github.com/bestimator/bestimator-backend/pkg/errors"
)

type repository interface {
	Create(ctx context.Context, row *models.Client) (*models.Client, error)
	FindByID(ctx context.Context, userID, clientID string) (*models.Client, error)
	ListByUser(ctx context.Context, userID string) ([]models.Client, error)
	Update(ctx context.Context, userID, clientID string, fields map[string]any) (int64, error)
	Delete(ctx context.Context, userID, clientID string) (int64, error)
}

// CreateInput carries the fields accepted when registering a client.
type CreateInput struct {
	Email       string
	FirstName   string
	LastName    string
	CompanyName string
}

// UpdateInput holds optional field overrides; nil means keep.
type UpdateInput struct {
	Email       *string
	FirstName   *string
	LastName    *string
	CompanyName *string
}

type Service interface {
	Create(ctx context.Context, userID string, input CreateInput) (*models.Client, error)
	Get(ctx context.Context, userID, clientID string) (*models.Client, error)
	List(ctx context.Context, userID string) ([]models.Client, error)
	Update(ctx context.Context, userID, clientID string, input UpdateInput) (*models.Client, error)
	Delete(ctx context.Context, userID, clientID string) error
}

type service struct {
	repo repository
}

func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("clients: repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, userID string, input CreateInput) (*models.Client, error) {
	if strings.TrimSpace(input.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client email is required")
	}
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client first and last name are required")
	}

	row := &models.Client{
		ClientID:    uuid.NewString(),
		UserID:      userID,
		Email:       input.Email,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		CompanyName: input.CompanyName,
	}
	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "failed to create client")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, userID, clientID string) (*models.Client, error) {
	row, err := s.repo.FindByID(ctx, userID, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "failed to load client")
	}
	return row, nil
}

func (s *service) List(ctx context.Context, userID string) ([]models.Client, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "failed to list clients")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, userID, clientID string, input UpdateInput) (*models.Client, error) {
	fields := map[string]any{}
	if input.Email != nil {
		if strings.TrimSpace(*input.Email) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "client email cannot be blank")
		}
		fields["email"] = *input.Email
	}
	if input.FirstName != nil {
		fields["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		fields["last_name"] = *input.LastName
	}
	if input.CompanyName != nil {
		fields["company_name"] = *input.CompanyName
	}
	if len(fields) == 0 {
		return s.Get(ctx, userID, clientID)
	}

	affected, err := s.repo.Update(ctx, userID, clientID, fields)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "failed to update client")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
	}
	return s.Get(ctx, userID, clientID)
}

func (s *service) Delete(ctx context.Context, userID, clientID string) error {
	affected, err := s.repo.Delete(ctx, userID, clientID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "failed to delete client")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
	}
	return nil
}
