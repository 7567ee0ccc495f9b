package reference

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/bestimator/bestimator-backend/pkg/db/models"
	pkgerrors "github.com/bestimator/bestimator-backend/pkg/errors"
)

type repository interface {
	ListJobTypes(ctx context.Context) ([]models.JobType, error)
	FindJobTypeByID(ctx context.Context, id int) (*models.JobType, error)
	FindJobTypeByName(ctx context.Context, name string) (*models.JobType, error)
	CreateJobType(ctx context.Context, row *models.JobType) (*models.JobType, error)
	UpdateJobType(ctx context.Context, id int, name string) (int64, error)
	DeleteJobType(ctx context.Context, id int) (int64, error)

	ListUnits(ctx context.Context) ([]models.Unit, error)
	FindUnitByID(ctx context.Context, id int) (*models.Unit, error)
	CreateUnit(ctx context.Context, row *models.Unit) (*models.Unit, error)
	UpdateUnit(ctx context.Context, id int, name string) (int64, error)
	DeleteUnit(ctx context.Context, id int) (int64, error)

	ListProvinceWeights(ctx context.Context) ([]models.ProvinceWeight, error)
	FindProvinceWeightByID(ctx context.Context, id int) (*models.ProvinceWeight, error)
	CreateProvinceWeight(ctx context.Context, row *models.ProvinceWeight) (*models.ProvinceWeight, error)
	UpdateProvinceWeight(ctx context.Context, row *models.ProvinceWeight) (int64, error)
	DeleteProvinceWeight(ctx context.Context, id int) (int64, error)
}

// Service exposes lookup and admin maintenance of reference data.
type Service interface {
	ListJobTypes(ctx context.Context) ([]models.JobType, error)
	GetJobType(ctx context.Context, id int) (*models.JobType, error)
	GetJobTypeByName(ctx context.Context, name string) (*models.JobType, error)
	CreateJobType(ctx context.Context, name string) (*models.JobType, error)
	UpdateJobType(ctx context.Context, id int, name string) error
	DeleteJobType(ctx context.Context, id int) (bool, error)

	ListUnits(ctx context.Context) ([]models.Unit, error)
	GetUnit(ctx context.Context, id int) (*models.Unit, error)
	CreateUnit(ctx context.Context, name string) (*models.Unit, error)
	UpdateUnit(ctx context.Context, id int, name string) error
	DeleteUnit(ctx context.Context, id int) (bool, error)

	ListProvinceWeights(ctx context.Context) ([]models.ProvinceWeight, error)
	GetProvinceWeight(ctx context.Context, id int) (*models.ProvinceWeight, error)
	CreateProvinceWeight(ctx context.Context, row *models.ProvinceWeight) (*models.ProvinceWeight, error)
	UpdateProvinceWeight(ctx context.Context, row *models.ProvinceWeight) error
	DeleteProvinceWeight(ctx context.Context, id int) (bool, error)
}

type service struct {
	repo repository
}

// NewService builds a reference-data service.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reference repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListJobTypes(ctx context.Context) ([]models.JobType, error) {
	rows, err := s.repo.ListJobTypes(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "list job types")
	}
	return rows, nil
}

func (s *service) GetJobType(ctx context.Context, id int) (*models.JobType, error) {
	row, err := s.repo.FindJobTypeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "job type not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "lookup job type")
	}
	return row, nil
}

func (s *service) GetJobTypeByName(ctx context.Context, name string) (*models.JobType, error) {
	row, err := s.repo.FindJobTypeByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s job type not found", name))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "lookup job type by name")
	}
	return row, nil
}

func (s *service) CreateJobType(ctx context.Context, name string) (*models.JobType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "job_type is required")
	}
	row, err := s.repo.CreateJobType(ctx, &models.JobType{Name: name})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "create job type")
	}
	return row, nil
}

func (s *service) UpdateJobType(ctx context.Context, id int, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "job_type is required")
	}
	affected, err := s.repo.UpdateJobType(ctx, id, name)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "update job type")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "job type not found")
	}
	return nil
}

func (s *service) DeleteJobType(ctx context.Context, id int) (bool, error) {
	affected, err := s.repo.DeleteJobType(ctx, id)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "delete job type")
	}
	return affected > 0, nil
}

func (s *service) ListUnits(ctx context.Context) ([]models.Unit, error) {
	rows, err := s.repo.ListUnits(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "list units")
	}
	return rows, nil
}

func (s *service) GetUnit(ctx context.Context, id int) (*models.Unit, error) {
	row, err := s.repo.FindUnitByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "unit not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "lookup unit")
	}
	return row, nil
}

func (s *service) CreateUnit(ctx context.Context, name string) (*models.Unit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit_name is required")
	}
	row, err := s.repo.CreateUnit(ctx, &models.Unit{Name: name})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "create unit")
	}
	return row, nil
}

func (s *service) UpdateUnit(ctx context.Context, id int, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit_name is required")
	}
	affected, err := s.repo.UpdateUnit(ctx, id, name)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "update unit")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "unit not found")
	}
	return nil
}

func (s *service) DeleteUnit(ctx context.Context, id int) (bool, error) {
	affected, err := s.repo.DeleteUnit(ctx, id)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "delete unit")
	}
	return affected > 0, nil
}

func (s *service) ListProvinceWeights(ctx context.Context) ([]models.ProvinceWeight, error) {
	rows, err := s.repo.ListProvinceWeights(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "list province weights")
	}
	return rows, nil
}

func (s *service) GetProvinceWeight(ctx context.Context, id int) (*models.ProvinceWeight, error) {
	row, err := s.repo.FindProvinceWeightByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "province weight not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "lookup province weight")
	}
	return row, nil
}

func (s *service) CreateProvinceWeight(ctx context.Context, row *models.ProvinceWeight) (*models.ProvinceWeight, error) {
	if strings.TrimSpace(row.Province) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "province is required")
	}
	created, err := s.repo.CreateProvinceWeight(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "create province weight")
	}
	return created, nil
}

func (s *service) UpdateProvinceWeight(ctx context.Context, row *models.ProvinceWeight) error {
	if strings.TrimSpace(row.Province) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "province is required")
	}
	affected, err := s.repo.UpdateProvinceWeight(ctx, row)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "update province weight")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "province weight not found")
	}
	return nil
}

func (s *service) DeleteProvinceWeight(ctx context.Context, id int) (bool, error) {
	affected, err := s.repo.DeleteProvinceWeight(ctx, id)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "delete province weight")
	}
	return affected > 0, nil
}
