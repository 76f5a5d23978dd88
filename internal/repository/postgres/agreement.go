package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"proprental-backend/internal/domain"
	"proprental-backend/internal/repository"
)

type agreementRepository struct {
	db *sql.DB
}

func NewAgreementRepository(db *sql.DB) repository.AgreementRepository {
	return &agreementRepository{db: db}
}

// Create inserts the agreement and its rented items in one transaction. Ids
// are allocated by the caller via NextID, not by the database.
func (r *agreementRepository) Create(ctx context.Context, a *domain.Agreement) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO agreements (id, registration_number, start_date, end_date, payment_frequency, contractor_id, penalty_rate, status, signed_date, cancellation_date, cancellation_reason)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = tx.ExecContext(ctx, query, a.ID, a.RegistrationNumber, a.StartDate, a.EndDate, a.PaymentFrequency, a.ContractorID, a.PenaltyRate, a.Status, a.SignedDate, a.CancellationDate, a.CancellationReason)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ConflictError{Message: fmt.Sprintf("registration number %s is already in use", a.RegistrationNumber)}
		}
		return err
	}
	if err := insertRentedItems(ctx, tx, a.ID, a.RentedItems); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *agreementRepository) GetByID(ctx context.Context, id int32) (*domain.Agreement, error) {
	a := &domain.Agreement{}
	query := `SELECT id, registration_number, start_date, end_date, payment_frequency, contractor_id, penalty_rate, status, signed_date, cancellation_date, cancellation_reason FROM agreements WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.RegistrationNumber, &a.StartDate, &a.EndDate, &a.PaymentFrequency, &a.ContractorID, &a.PenaltyRate, &a.Status, &a.SignedDate, &a.CancellationDate, &a.CancellationReason)
	if err != nil {
		return nil, notFound("agreement", id, err)
	}
	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	a.RentedItems = items
	return a, nil
}

func (r *agreementRepository) List(ctx context.Context) ([]domain.Agreement, error) {
	query := `SELECT id, registration_number, start_date, end_date, payment_frequency, contractor_id, penalty_rate, status, signed_date, cancellation_date, cancellation_reason FROM agreements ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agreements []domain.Agreement
	for rows.Next() {
		var a domain.Agreement
		if err := rows.Scan(&a.ID, &a.RegistrationNumber, &a.StartDate, &a.EndDate, &a.PaymentFrequency, &a.ContractorID, &a.PenaltyRate, &a.Status, &a.SignedDate, &a.CancellationDate, &a.CancellationReason); err != nil {
			return nil, err
		}
		agreements = append(agreements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range agreements {
		items, err := r.loadItems(ctx, agreements[i].ID)
		if err != nil {
			return nil, err
		}
		agreements[i].RentedItems = items
	}
	return agreements, nil
}

// Update replaces the agreement row and rewrites its rented items; the item
// set is small enough that a delete-and-reinsert beats diffing.
func (r *agreementRepository) Update(ctx context.Context, a *domain.Agreement) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `UPDATE agreements SET registration_number=$1, start_date=$2, end_date=$3, payment_frequency=$4, contractor_id=$5, penalty_rate=$6, status=$7, signed_date=$8, cancellation_date=$9, cancellation_reason=$10 WHERE id=$11`
	res, err := tx.ExecContext(ctx, query, a.RegistrationNumber, a.StartDate, a.EndDate, a.PaymentFrequency, a.ContractorID, a.PenaltyRate, a.Status, a.SignedDate, a.CancellationDate, a.CancellationReason, a.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &domain.NotFoundError{Entity: "agreement", ID: a.ID}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM rented_items WHERE agreement_id = $1`, a.ID); err != nil {
		return err
	}
	if err := insertRentedItems(ctx, tx, a.ID, a.RentedItems); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *agreementRepository) Delete(ctx context.Context, id int32) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rented_items WHERE agreement_id = $1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM agreements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &domain.NotFoundError{Entity: "agreement", ID: id}
	}
	return tx.Commit()
}

func (r *agreementRepository) NextID(ctx context.Context) (int32, error) {
	var next int32
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM agreements`).Scan(&next)
	return next, err
}

func (r *agreementRepository) loadItems(ctx context.Context, agreementID int32) ([]domain.RentedItem, error) {
	query := `SELECT room_id, purpose, rent_until, rent_amount, is_early_terminated, actual_vacation_date, early_termination_reason FROM rented_items WHERE agreement_id = $1 ORDER BY room_id`
	rows, err := r.db.QueryContext(ctx, query, agreementID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.RentedItem
	for rows.Next() {
		var item domain.RentedItem
		if err := rows.Scan(&item.RoomID, &item.Purpose, &item.RentUntil, &item.RentAmount, &item.IsEarlyTerminated, &item.ActualVacationDate, &item.EarlyTerminationReason); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func insertRentedItems(ctx context.Context, tx *sql.Tx, agreementID int32, items []domain.RentedItem) error {
	query := `INSERT INTO rented_items (agreement_id, room_id, purpose, rent_until, rent_amount, is_early_terminated, actual_vacation_date, early_termination_reason)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i := range items {
		item := &items[i]
		if _, err := tx.ExecContext(ctx, query, agreementID, item.RoomID, item.Purpose, item.RentUntil, item.RentAmount, item.IsEarlyTerminated, item.ActualVacationDate, item.EarlyTerminationReason); err != nil {
			return err
		}
	}
	return nil
}
