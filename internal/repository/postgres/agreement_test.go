package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"proprental-backend/internal/domain"
)

var agreementColumns = []string{"id", "registration_number", "start_date", "end_date", "payment_frequency", "contractor_id", "penalty_rate", "status", "signed_date", "cancellation_date", "cancellation_reason"}

var itemColumns = []string{"room_id", "purpose", "rent_until", "rent_amount", "is_early_terminated", "actual_vacation_date", "early_termination_reason"}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func testAgreement(t *testing.T) *domain.Agreement {
	t.Helper()
	a, err := domain.NewAgreement(1, "AG-2026-001", date(2026, 2, 1), date(2027, 2, 1), domain.PaymentMonthly, 7, decimal.RequireFromString("0.1"), date(2026, 1, 1))
	assert.NoError(t, err)
	item, err := domain.NewRentedItem(10, domain.PurposeOffice, date(2027, 1, 1), decimal.NewFromInt(100), date(2026, 1, 1))
	assert.NoError(t, err)
	assert.NoError(t, a.AddRentedItem(item))
	return a
}

func TestAgreementRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAgreementRepository(db)
		a := testAgreement(t)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO agreements").
			WithArgs(a.ID, a.RegistrationNumber, a.StartDate, a.EndDate, a.PaymentFrequency, a.ContractorID, a.PenaltyRate, a.Status, nil, nil, "").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO rented_items").
			WithArgs(a.ID, int32(10), domain.PurposeOffice, date(2027, 1, 1), decimal.NewFromInt(100), false, nil, "").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.Create(ctx, a))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate registration number", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAgreementRepository(db)
		a := testAgreement(t)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO agreements").
			WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()

		var ce *domain.ConflictError
		assert.ErrorAs(t, repo.Create(ctx, a), &ce)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAgreementRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Found with items", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAgreementRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM agreements WHERE id").
			WithArgs(int32(1)).
			WillReturnRows(sqlmock.NewRows(agreementColumns).
				AddRow(int32(1), "AG-2026-001", date(2026, 2, 1), date(2027, 2, 1), "MONTHLY", int32(7), "0.1", "ACTIVE", date(2026, 2, 1), nil, ""))
		mock.ExpectQuery("SELECT (.+) FROM rented_items WHERE agreement_id").
			WithArgs(int32(1)).
			WillReturnRows(sqlmock.NewRows(itemColumns).
				AddRow(int32(10), "OFFICE", date(2027, 1, 1), "100", false, nil, ""))

		a, err := repo.GetByID(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, "AG-2026-001", a.RegistrationNumber)
		assert.Equal(t, domain.AgreementStatusActive, a.Status)
		assert.Len(t, a.RentedItems, 1)
		assert.Equal(t, int32(10), a.RentedItems[0].RoomID)
		assert.True(t, a.RentedItems[0].RentAmount.Equal(decimal.NewFromInt(100)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing row", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAgreementRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM agreements WHERE id").
			WithArgs(int32(99)).
			WillReturnRows(sqlmock.NewRows(agreementColumns))

		_, err := repo.GetByID(ctx, 99)
		var nfe *domain.NotFoundError
		assert.ErrorAs(t, err, &nfe)
		assert.Equal(t, int32(99), nfe.ID)
	})
}

func TestAgreementRepository_List(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewAgreementRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM agreements ORDER BY id").
		WillReturnRows(sqlmock.NewRows(agreementColumns).
			AddRow(int32(1), "AG-2026-001", date(2026, 2, 1), date(2027, 2, 1), "MONTHLY", int32(7), "0.1", "ACTIVE", date(2026, 2, 1), nil, "").
			AddRow(int32(2), "AG-2026-002", date(2026, 3, 1), date(2027, 3, 1), "QUARTERLY", int32(8), "0.05", "DRAFT", nil, nil, ""))
	mock.ExpectQuery("SELECT (.+) FROM rented_items WHERE agreement_id").
		WithArgs(int32(1)).
		WillReturnRows(sqlmock.NewRows(itemColumns))
	mock.ExpectQuery("SELECT (.+) FROM rented_items WHERE agreement_id").
		WithArgs(int32(2)).
		WillReturnRows(sqlmock.NewRows(itemColumns))

	agreements, err := repo.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, agreements, 2)
	assert.Equal(t, domain.PaymentQuarterly, agreements[1].PaymentFrequency)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAgreementRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Rewrites the item set", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAgreementRepository(db)
		a := testAgreement(t)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE agreements SET").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM rented_items").
			WithArgs(a.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO rented_items").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.Update(ctx, a))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing agreement", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAgreementRepository(db)
		a := testAgreement(t)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE agreements SET").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		var nfe *domain.NotFoundError
		assert.ErrorAs(t, repo.Update(ctx, a), &nfe)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAgreementRepository_Delete(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewAgreementRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM rented_items").
		WithArgs(int32(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM agreements").
		WithArgs(int32(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.Delete(ctx, 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAgreementRepository_NextID(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewAgreementRepository(db)

	mock.ExpectQuery(`SELECT COALESCE\(MAX\(id\), 0\) \+ 1 FROM agreements`).
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(int32(4)))

	id, err := repo.NextID(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int32(4), id)
}
