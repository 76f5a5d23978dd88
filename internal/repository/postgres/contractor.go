package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"proprental-backend/internal/domain"
	"proprental-backend/internal/repository"
)

// contractorRepository serves one contractor variant; the two variants live
// in separate tables with the same shape. Detail records are flattened into
// columns and the variant tag decides which set is read back. Agreement
// back-references are stored as an integer array.
type contractorRepository struct {
	db    *sql.DB
	table string
}

func NewContractorRepository(db *sql.DB, table string) repository.IndividualContractorRepository {
	return &contractorRepository{db: db, table: table}
}

func (r *contractorRepository) Create(ctx context.Context, c *domain.Contractor) error {
	query := fmt.Sprintf(`INSERT INTO %s (id, type, phone, registration_date, is_active, agreement_ids,
	          full_name, passport_series, passport_number, passport_issue_date, passport_issued_by,
	          company_name, director_name, legal_address, tax_id, bank_name, bank_account_number)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`, r.table)
	args := flattenContractor(c)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return &domain.ConflictError{Message: fmt.Sprintf("phone %s is already registered", c.Phone)}
		}
		return err
	}
	return nil
}

func (r *contractorRepository) GetByID(ctx context.Context, id int32) (*domain.Contractor, error) {
	query := fmt.Sprintf(`SELECT id, type, phone, registration_date, is_active, agreement_ids,
	          full_name, passport_series, passport_number, passport_issue_date, passport_issued_by,
	          company_name, director_name, legal_address, tax_id, bank_name, bank_account_number
	          FROM %s WHERE id = $1`, r.table)
	c, err := scanContractor(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound("contractor", id, err)
	}
	return c, nil
}

func (r *contractorRepository) List(ctx context.Context) ([]domain.Contractor, error) {
	query := fmt.Sprintf(`SELECT id, type, phone, registration_date, is_active, agreement_ids,
	          full_name, passport_series, passport_number, passport_issue_date, passport_issued_by,
	          company_name, director_name, legal_address, tax_id, bank_name, bank_account_number
	          FROM %s ORDER BY id`, r.table)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contractors []domain.Contractor
	for rows.Next() {
		c, err := scanContractor(rows)
		if err != nil {
			return nil, err
		}
		contractors = append(contractors, *c)
	}
	return contractors, rows.Err()
}

func (r *contractorRepository) Update(ctx context.Context, c *domain.Contractor) error {
	query := fmt.Sprintf(`UPDATE %s SET phone=$2, is_active=$3, agreement_ids=$4,
	          full_name=$5, passport_series=$6, passport_number=$7, passport_issue_date=$8, passport_issued_by=$9,
	          company_name=$10, director_name=$11, legal_address=$12, tax_id=$13, bank_name=$14, bank_account_number=$15
	          WHERE id = $1`, r.table)
	args := flattenContractor(c)
	// Drop type and registration_date, both immutable after creation.
	updateArgs := append([]interface{}{args[0]}, args[2])
	updateArgs = append(updateArgs, args[4:]...)
	res, err := r.db.ExecContext(ctx, query, updateArgs...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &domain.NotFoundError{Entity: "contractor", ID: c.ID}
	}
	return nil
}

func (r *contractorRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &domain.NotFoundError{Entity: "contractor", ID: id}
	}
	return nil
}

func (r *contractorRepository) NextID(ctx context.Context) (int32, error) {
	var next int32
	err := r.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COALESCE(MAX(id), 0) + 1 FROM %s`, r.table)).Scan(&next)
	return next, err
}

func flattenContractor(c *domain.Contractor) []interface{} {
	var fullName, series, number, issuedBy sql.NullString
	var issueDate sql.NullTime
	var company, director, address, taxID, bank, acct sql.NullString
	if c.Individual != nil {
		fullName = sql.NullString{String: c.Individual.FullName, Valid: true}
		series = sql.NullString{String: c.Individual.Passport.Series, Valid: true}
		number = sql.NullString{String: c.Individual.Passport.Number, Valid: true}
		issueDate = sql.NullTime{Time: c.Individual.Passport.IssueDate, Valid: true}
		issuedBy = sql.NullString{String: c.Individual.Passport.IssuedBy, Valid: true}
	}
	if c.LegalEntity != nil {
		company = sql.NullString{String: c.LegalEntity.CompanyName, Valid: true}
		director = sql.NullString{String: c.LegalEntity.DirectorName, Valid: true}
		address = sql.NullString{String: c.LegalEntity.LegalAddress, Valid: true}
		taxID = sql.NullString{String: c.LegalEntity.TaxID, Valid: true}
		bank = sql.NullString{String: c.LegalEntity.Bank.BankName, Valid: true}
		acct = sql.NullString{String: c.LegalEntity.Bank.AccountNumber, Valid: true}
	}
	return []interface{}{
		c.ID, c.Type, c.Phone, c.RegistrationDate, c.IsActive, pq.Int32Array(c.AgreementIDs),
		fullName, series, number, issueDate, issuedBy,
		company, director, address, taxID, bank, acct,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanContractor(row rowScanner) (*domain.Contractor, error) {
	var c domain.Contractor
	var ids pq.Int32Array
	var fullName, series, number, issuedBy sql.NullString
	var issueDate sql.NullTime
	var company, director, address, taxID, bank, acct sql.NullString
	err := row.Scan(&c.ID, &c.Type, &c.Phone, &c.RegistrationDate, &c.IsActive, &ids,
		&fullName, &series, &number, &issueDate, &issuedBy,
		&company, &director, &address, &taxID, &bank, &acct)
	if err != nil {
		return nil, err
	}
	c.AgreementIDs = []int32(ids)
	switch c.Type {
	case domain.ContractorIndividual:
		c.Individual = &domain.IndividualDetails{
			FullName: fullName.String,
			Passport: domain.PassportData{
				Series:    series.String,
				Number:    number.String,
				IssueDate: issueDate.Time,
				IssuedBy:  issuedBy.String,
			},
		}
	case domain.ContractorLegalEntity:
		c.LegalEntity = &domain.LegalEntityDetails{
			CompanyName:  company.String,
			DirectorName: director.String,
			LegalAddress: address.String,
			TaxID:        taxID.String,
			Bank:         domain.BankDetails{BankName: bank.String, AccountNumber: acct.String},
		}
	}
	return &c, nil
}
