package estimates

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bestimator/bestimator-backend/pkg/db/models"
	"github.com/bestimator/bestimator-backend/pkg/enums"
	pkgerrors "github.com/bestimator/bestimator-backend/pkg/errors"
	"github.com/bestimator/bestimator-backend/pkg/types"
)

func setupEstimatesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := []string{
		`CREATE TABLE users (
  user_id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  first_name TEXT NOT NULL DEFAULT '',
  last_name TEXT NOT NULL DEFAULT '',
  company_name TEXT NOT NULL DEFAULT '',
  phone_number TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  profile_image_url TEXT NOT NULL DEFAULT '',
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE clients (
  client_id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  email TEXT NOT NULL,
  first_name TEXT NOT NULL DEFAULT '',
  last_name TEXT NOT NULL DEFAULT '',
  company_name TEXT NOT NULL DEFAULT ''
);`,
		`CREATE TABLE job_types (
  job_type_id INTEGER PRIMARY KEY AUTOINCREMENT,
  job_type TEXT NOT NULL UNIQUE
);`,
		`CREATE TABLE units (
  unit_id INTEGER PRIMARY KEY AUTOINCREMENT,
  unit_name TEXT NOT NULL UNIQUE
);`,
		`CREATE TABLE province_weights (
  province_weight_id INTEGER PRIMARY KEY AUTOINCREMENT,
  province TEXT NOT NULL UNIQUE,
  province_weight TEXT NOT NULL,
  province_tax_rate TEXT NOT NULL
);`,
		`CREATE TABLE materials (
  material_id TEXT PRIMARY KEY,
  product_id TEXT,
  name TEXT NOT NULL UNIQUE,
  product_title TEXT NOT NULL DEFAULT '',
  job_type_id INTEGER NOT NULL,
  price TEXT NOT NULL,
  coverage TEXT,
  unit_id INTEGER NOT NULL,
  image_url TEXT,
  rating TEXT,
  product_url TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE estimates (
  estimate_id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  client_id TEXT NOT NULL,
  job_type_id INTEGER NOT NULL,
  province_weight_id INTEGER NOT NULL,
  costs TEXT,
  additional_costs TEXT,
  status TEXT NOT NULL DEFAULT 'Draft',
  notes TEXT,
  valid_until DATETIME NOT NULL,
  total_cost TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE estimate_materials (
  estimate_material_id TEXT PRIMARY KEY,
  estimate_id TEXT NOT NULL,
  material_id TEXT NOT NULL CHECK (material_id <> ''),
  quantity TEXT NOT NULL,
  initial_unit_cost TEXT NOT NULL,
  current_unit_cost TEXT,
  total_cost TEXT NOT NULL
);`,
	}
	for _, stmt := range schema {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

type estimateFixture struct {
	userID     string
	clientID   string
	jobTypeID  int
	provinceID int
	materialID string
}

func seedEstimateFixture(t *testing.T, conn *gorm.DB) estimateFixture {
	t.Helper()

	userID := "user_" + uuid.NewString()
	require.NoError(t, conn.Create(&models.User{
		UserID:   userID,
		Email:    uuid.NewString() + "@example.com",
		IsActive: true,
	}).Error)

	clientID := uuid.NewString()
	require.NoError(t, conn.Create(&models.Client{
		ClientID:  clientID,
		UserID:    userID,
		Email:     uuid.NewString() + "@example.com",
		FirstName: "Jo",
		LastName:  "Tremblay",
	}).Error)

	jobType := &models.JobType{Name: "Painting " + uuid.NewString()}
	require.NoError(t, conn.Create(jobType).Error)

	unit := &models.Unit{Name: "Gallon " + uuid.NewString()}
	require.NoError(t, conn.Create(unit).Error)

	province := &models.ProvinceWeight{
		Province: "Ontario " + uuid.NewString(),
		Weight:   decimal.RequireFromString("1.00"),
		TaxRate:  decimal.RequireFromString("13.00"),
	}
	require.NoError(t, conn.Create(province).Error)

	coverage := decimal.RequireFromString("400")
	materialID := uuid.NewString()
	require.NoError(t, conn.Create(&models.Material{
		MaterialID: materialID,
		Name:       "Eggshell " + uuid.NewString(),
		JobTypeID:  jobType.JobTypeID,
		UnitID:     unit.UnitID,
		Price:      decimal.RequireFromString("45.97"),
		Coverage:   &coverage,
	}).Error)

	return estimateFixture{
		userID:     userID,
		clientID:   clientID,
		jobTypeID:  jobType.JobTypeID,
		provinceID: province.ProvinceWeightID,
		materialID: materialID,
	}
}

func newEstimateRow(fx estimateFixture) *models.Estimate {
	return &models.Estimate{
		UserID:           fx.userID,
		ClientID:         fx.clientID,
		JobTypeID:        fx.jobTypeID,
		ProvinceWeightID: fx.provinceID,
		Status:           enums.EstimateStatusDraft,
		ValidUntil:       time.Now().Add(30 * 24 * time.Hour),
		TotalCost:        decimal.RequireFromString("51.95"),
		AdditionalCosts:  types.DecimalMap{},
	}
}

func TestCreatePersistsHeaderAndLines(t *testing.T) {
	conn := setupEstimatesTestDB(t)
	fx := seedEstimateFixture(t, conn)
	repo := NewRepository(conn)

	row := newEstimateRow(fx)
	created, err := repo.Create(context.Background(), row, []LineInput{{
		MaterialID:      fx.materialID,
		Quantity:        decimal.RequireFromString("1"),
		InitialUnitCost: decimal.RequireFromString("45.97"),
		TotalCost:       decimal.RequireFromString("45.97"),
	}})
	require.NoError(t, err)

	require.NotEmpty(t, created.EstimateID)
	require.Len(t, created.Materials, 1)
	line := created.Materials[0]
	require.Equal(t, fx.materialID, line.MaterialID)
	require.True(t, line.InitialUnitCost.Equal(decimal.RequireFromString("45.97")))
	require.True(t, line.CurrentUnitCost.Equal(line.InitialUnitCost))
	require.NotNil(t, created.Client)
	require.Equal(t, fx.clientID, created.Client.ClientID)
}

func TestCreateAggregatesInvalidReferences(t *testing.T) {
	conn := setupEstimatesTestDB(t)
	fx := seedEstimateFixture(t, conn)
	repo := NewRepository(conn)

	row := newEstimateRow(fx)
	row.ClientID = "missing-client"
	row.ProvinceWeightID = 9999

	_, err := repo.Create(context.Background(), row, nil)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeReference, typed.Code())

	details, ok := typed.Details().([]string)
	require.True(t, ok)
	require.Len(t, details, 2)

	var count int64
	require.NoError(t, conn.Model(&models.Estimate{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCreateRollsBackHeaderWhenLineInsertFails(t *testing.T) {
	conn := setupEstimatesTestDB(t)
	fx := seedEstimateFixture(t, conn)
	repo := NewRepository(conn)

	row := newEstimateRow(fx)
	fixedID := uuid.NewString()
	row.EstimateID = fixedID

	// A blank material id violates the line-item check constraint, failing
	// the bulk insert after the header insert succeeded.
	_, err := repo.Create(context.Background(), row, []LineInput{{
		MaterialID:      "",
		Quantity:        decimal.RequireFromString("1"),
		InitialUnitCost: decimal.RequireFromString("45.97"),
		TotalCost:       decimal.RequireFromString("45.97"),
	}})
	require.Error(t, err)

	var count int64
	require.NoError(t, conn.Model(&models.Estimate{}).Where("estimate_id = ?", fixedID).Count(&count).Error)
	require.Zero(t, count, "header must not survive a failed line insert")
}

func TestGetScopedByOwnerHidesForeignEstimates(t *testing.T) {
	conn := setupEstimatesTestDB(t)
	fx := seedEstimateFixture(t, conn)
	repo := NewRepository(conn)

	created, err := repo.Create(context.Background(), newEstimateRow(fx), nil)
	require.NoError(t, err)

	owner := fx.userID
	found, err := repo.FindByID(context.Background(), created.EstimateID, &owner)
	require.NoError(t, err)
	require.Equal(t, created.EstimateID, found.EstimateID)

	other := "user_someone_else"
	_, err = repo.FindByID(context.Background(), created.EstimateID, &other)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteRemovesLinesWithHeader(t *testing.T) {
	conn := setupEstimatesTestDB(t)
	fx := seedEstimateFixture(t, conn)
	repo := NewRepository(conn)

	created, err := repo.Create(context.Background(), newEstimateRow(fx), []LineInput{{
		MaterialID:      fx.materialID,
		Quantity:        decimal.RequireFromString("2"),
		InitialUnitCost: decimal.RequireFromString("45.97"),
		TotalCost:       decimal.RequireFromString("91.94"),
	}})
	require.NoError(t, err)

	deleted, err := repo.Delete(context.Background(), created.EstimateID, nil)
	require.NoError(t, err)
	require.True(t, deleted)

	var lines int64
	require.NoError(t, conn.Model(&models.EstimateMaterial{}).Where("estimate_id = ?", created.EstimateID).Count(&lines).Error)
	require.Zero(t, lines)

	deleted, err = repo.Delete(context.Background(), created.EstimateID, nil)
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestDeleteScopedByOwner(t *testing.T) {
	conn := setupEstimatesTestDB(t)
	fx := seedEstimateFixture(t, conn)
	repo := NewRepository(conn)

	created, err := repo.Create(context.Background(), newEstimateRow(fx), nil)
	require.NoError(t, err)

	other := "user_someone_else"
	deleted, err := repo.Delete(context.Background(), created.EstimateID, &other)
	require.NoError(t, err)
	require.False(t, deleted)

	owner := fx.userID
	deleted, err = repo.Delete(context.Background(), created.EstimateID, &owner)
	require.NoError(t, err)
	require.True(t, deleted)
}

func TestUpdateAppliesOnlySuppliedFields(t *testing.T) {
	conn := setupEstimatesTestDB(t)
	fx := seedEstimateFixture(t, conn)
	repo := NewRepository(conn)

	row := newEstimateRow(fx)
	row.Notes = "original notes"
	created, err := repo.Create(context.Background(), row, nil)
	require.NoError(t, err)

	affected, err := repo.Update(context.Background(), created.EstimateID, map[string]any{
		"status": enums.EstimateStatusSent,
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)

	found, err := repo.FindByID(context.Background(), created.EstimateID, nil)
	require.NoError(t, err)
	require.Equal(t, enums.EstimateStatusSent, found.Status)
	require.Equal(t, "original notes", found.Notes)
}
