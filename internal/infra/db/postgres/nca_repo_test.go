package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/kangopak/ohisee-api/internal/domain/nca"
)

var ncaTestColumns = []string{
	"id", "nca_number", "raised_by_user_id", "wo_id", "nc_type", "nc_type_other",
	"supplier_name", "nc_product_description", "supplier_wo_batch",
	"quantity", "quantity_unit", "carton_numbers", "nc_description",
	"machine_status", "machine_down_since", "estimated_downtime",
	"root_cause_analysis", "corrective_action", "disposition_discard",
	"confidential", "status", "created_at", "close_out_due_date", "close_out_date",
}

func TestNCARepositorySave(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewNCARepository(db)
	created := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO ncas").
		WithArgs(
			domain.ID("nca-1"), "NCA-2026-00000041", "op-7", sqlmock.AnyArg(),
			"raw-material", sqlmock.AnyArg(),
			sqlmock.AnyArg(), "250g stand-up pouch", sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			"operational", sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), false,
			false, "submitted", created, sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Save(context.Background(), &domain.NCA{
		ID:                 "nca-1",
		Number:             "NCA-2026-00000041",
		RaisedByUserID:     "op-7",
		NCType:             domain.TypeRawMaterial,
		ProductDescription: "250g stand-up pouch",
		Description:        "Gauge variation found on reel 4 at 09:15, approx 200m affected, batch B-88.",
		MachineStatus:      domain.MachineOperational,
		Status:             domain.StatusSubmitted,
		CreatedAt:          created,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNCARepositoryGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewNCARepository(db)
	created := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(ncaTestColumns).AddRow(
		"nca-1", "NCA-2026-00000041", "op-7", nil, "raw-material", nil,
		"Flexofilm", "250g stand-up pouch", "FF-9912",
		150.0, "units", nil, "Gauge variation found on reel 4.",
		"operational", nil, nil,
		nil, nil, false,
		false, "submitted", created, nil, nil,
	)
	mock.ExpectQuery("SELECT (.+) FROM ncas WHERE id=").
		WithArgs(domain.ID("nca-1")).
		WillReturnRows(rows)

	n, err := repo.Get(context.Background(), "nca-1")

	require.NoError(t, err)
	assert.Equal(t, "NCA-2026-00000041", n.Number)
	assert.Equal(t, "Flexofilm", n.SupplierName)
	assert.Equal(t, "FF-9912", n.SupplierWOBatch)
	require.NotNil(t, n.Quantity)
	assert.Equal(t, 150.0, *n.Quantity)
	assert.Empty(t, n.WorkOrderID, "NULL columns map to zero values")
	assert.Nil(t, n.CloseOutDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNCARepositoryGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewNCARepository(db)
	mock.ExpectQuery("SELECT (.+) FROM ncas WHERE id=").
		WithArgs(domain.ID("missing")).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestNCARepositorySetStatusByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewNCARepository(db)
	mock.ExpectExec("UPDATE ncas").
		WithArgs("submitted", "op-7", pq.Array([]string{"nca-1", "nca-2"})).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err = repo.SetStatusByOwner(context.Background(), "op-7",
		[]domain.ID{"nca-1", "nca-2"}, domain.StatusSubmitted)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNCARepositorySetStatusByOwnerNoIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewNCARepository(db)
	require.NoError(t, repo.SetStatusByOwner(context.Background(), "op-7", nil, domain.StatusSubmitted))
	assert.NoError(t, mock.ExpectationsWereMet(), "no ids means no round trip")
}

func TestNCARepositoryListFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewNCARepository(db)
	mock.ExpectQuery("SELECT (.+) FROM ncas WHERE 1=1 AND status = (.+) AND supplier_name ILIKE (.+) ORDER BY created_at DESC").
		WithArgs("submitted", "Flexofilm", 20).
		WillReturnRows(sqlmock.NewRows(ncaTestColumns))

	out, err := repo.List(context.Background(), domain.Filter{
		Status:       domain.StatusSubmitted,
		SupplierName: "Flexofilm",
		Limit:        20,
	})

	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}
