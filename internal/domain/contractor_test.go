package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validPassport(t *testing.T) PassportData {
	t.Helper()
	p, err := NewPassportData("1234", "567890", date(2020, 5, 1), "City Dept 77", date(2026, 1, 1))
	assert.NoError(t, err)
	return p
}

func TestNewPassportData(t *testing.T) {
	t.Run("Series must be four digits", func(t *testing.T) {
		_, err := NewPassportData("12", "567890", date(2020, 5, 1), "City Dept", date(2026, 1, 1))
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("Issue date cannot be in the future", func(t *testing.T) {
		_, err := NewPassportData("1234", "567890", date(2027, 5, 1), "City Dept", date(2026, 1, 1))
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
		assert.Equal(t, "passport_issue_date", ve.Field)
	})

	t.Run("Equality is by series and number", func(t *testing.T) {
		a := validPassport(t)
		b, err := NewPassportData("1234", "567890", date(2021, 1, 1), "Other Dept", date(2026, 1, 1))
		assert.NoError(t, err)
		assert.True(t, a.Equal(b))
	})
}

func TestNewIndividualContractor(t *testing.T) {
	now := date(2026, 1, 1)

	t.Run("Success", func(t *testing.T) {
		c, err := NewIndividualContractor(1, "+7 903 1112233", "Ivanov Ivan Ivanovich", validPassport(t), now)
		assert.NoError(t, err)
		assert.Equal(t, ContractorIndividual, c.Type)
		assert.True(t, c.IsActive)
		assert.Equal(t, "Ivanov Ivan Ivanovich", c.DisplayName())
		assert.Nil(t, c.LegalEntity)
	})

	t.Run("Full name needs three parts", func(t *testing.T) {
		_, err := NewIndividualContractor(1, "+7 903 1112233", "Ivanov Ivan", validPassport(t), now)
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
		assert.Equal(t, "full_name", ve.Field)
	})
}

func TestNewLegalEntityContractor(t *testing.T) {
	now := date(2026, 1, 1)
	bank, err := NewBankDetails("First Bank", "40702810000000000001")
	assert.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		c, err := NewLegalEntityContractor(2, "+7 495 0001122", "Acme LLC", "Petrov P P", "3 Lenina St", "7701234567", bank, now)
		assert.NoError(t, err)
		assert.Equal(t, ContractorLegalEntity, c.Type)
		assert.Equal(t, "Acme LLC", c.DisplayName())
		assert.Nil(t, c.Individual)
	})

	t.Run("Tax id must be 10 or 12 digits", func(t *testing.T) {
		_, err := NewLegalEntityContractor(2, "+7 495 0001122", "Acme LLC", "Petrov P P", "3 Lenina St", "77012", bank, now)
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
		assert.Equal(t, "tax_id", ve.Field)

		_, err = NewLegalEntityContractor(2, "+7 495 0001122", "Acme LLC", "Petrov P P", "3 Lenina St", "77012345678x", bank, now)
		assert.ErrorAs(t, err, &ve)
	})
}

func TestContractor_AgreementLinks(t *testing.T) {
	c, err := NewIndividualContractor(1, "+7 903 1112233", "Ivanov Ivan Ivanovich", validPassport(t), date(2026, 1, 1))
	assert.NoError(t, err)

	assert.NoError(t, c.AddAgreement(10))
	assert.True(t, c.HasAgreement(10))

	var ce *ConflictError
	assert.ErrorAs(t, c.AddAgreement(10), &ce)

	assert.NoError(t, c.RemoveAgreement(10))
	var nfe *NotFoundError
	assert.ErrorAs(t, c.RemoveAgreement(10), &nfe)
}

func TestContractor_ActiveAgreementCeiling(t *testing.T) {
	now := date(2026, 6, 1)
	c, err := NewIndividualContractor(1, "+7 903 1112233", "Ivanov Ivan Ivanovich", validPassport(t), date(2026, 1, 1))
	assert.NoError(t, err)

	agreements := make(map[int32]*Agreement)
	for i := int32(1); i <= MaxActiveAgreements; i++ {
		a, err := NewAgreement(i, "AG-"+string(rune('A'+i)), date(2026, 2, 1), date(2027, 2, 1), PaymentMonthly, 1, decimal.Zero, date(2026, 1, 1))
		assert.NoError(t, err)
		item, err := NewRentedItem(i, PurposeOffice, date(2027, 1, 1), decimal.NewFromInt(100), date(2026, 1, 1))
		assert.NoError(t, err)
		assert.NoError(t, a.AddRentedItem(item))
		assert.NoError(t, a.Sign(date(2026, 2, 1)))
		agreements[i] = a
		assert.NoError(t, c.AddAgreement(i))
	}

	assert.Equal(t, MaxActiveAgreements, c.ActiveAgreementCount(agreements, now))
	assert.False(t, c.CanCreateNewAgreement(agreements, now))

	t.Run("Cancelled agreements free capacity", func(t *testing.T) {
		assert.NoError(t, agreements[1].Cancel("vacated", now))
		assert.Equal(t, MaxActiveAgreements-1, c.ActiveAgreementCount(agreements, now))
		assert.True(t, c.CanCreateNewAgreement(agreements, now))
	})

	t.Run("Deactivated contractor cannot sign", func(t *testing.T) {
		assert.NoError(t, c.Deactivate("payment disputes"))
		assert.False(t, c.CanCreateNewAgreement(agreements, now))
		c.Activate()
		assert.True(t, c.CanCreateNewAgreement(agreements, now))
	})

	t.Run("Dangling references are ignored", func(t *testing.T) {
		assert.NoError(t, c.AddAgreement(999))
		assert.Equal(t, MaxActiveAgreements-1, c.ActiveAgreementCount(agreements, now))
	})
}

func TestContractor_ChangePhone(t *testing.T) {
	c, err := NewIndividualContractor(1, "+7 903 1112233", "Ivanov Ivan Ivanovich", validPassport(t), time.Now())
	assert.NoError(t, err)

	assert.NoError(t, c.ChangePhone("+7 903 9998877"))
	assert.Equal(t, "+7 903 9998877", c.Phone)

	var ve *ValidationError
	assert.ErrorAs(t, c.ChangePhone(" "), &ve)
}
