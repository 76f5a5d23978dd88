package memory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"proprental-backend/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newAgreement(t *testing.T, id int32, regNum string) *domain.Agreement {
	t.Helper()
	a, err := domain.NewAgreement(id, regNum, date(2026, 2, 1), date(2027, 2, 1), domain.PaymentMonthly, 1, decimal.RequireFromString("0.1"), date(2026, 1, 1))
	assert.NoError(t, err)
	item, err := domain.NewRentedItem(10, domain.PurposeOffice, date(2027, 1, 1), decimal.NewFromInt(100), date(2026, 1, 1))
	assert.NoError(t, err)
	assert.NoError(t, a.AddRentedItem(item))
	return a
}

func newRoom(t *testing.T, id int32, buildingID int32, number string) *domain.Room {
	t.Helper()
	r, err := domain.NewRoom(id, number, decimal.NewFromInt(20), 1, domain.FinishingStandard, false)
	assert.NoError(t, err)
	r.BuildingID = buildingID
	return r
}

func newContractor(t *testing.T, id int32, phone string) *domain.Contractor {
	t.Helper()
	passport, err := domain.NewPassportData("1234", "567890", date(2020, 5, 1), "City Dept 77", date(2026, 1, 1))
	assert.NoError(t, err)
	c, err := domain.NewIndividualContractor(id, phone, "Ivanov Ivan Ivanovich", passport, date(2026, 1, 1))
	assert.NoError(t, err)
	return c
}

func TestAgreementStore_CRUD(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore("")
	assert.NoError(t, err)

	id, err := store.Agreements.NextID(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int32(1), id)

	a := newAgreement(t, 1, "AG-2026-001")
	assert.NoError(t, store.Agreements.Create(ctx, a))

	t.Run("Registration numbers are unique", func(t *testing.T) {
		dup := newAgreement(t, 2, "AG-2026-001")
		var ce *domain.ConflictError
		assert.ErrorAs(t, store.Agreements.Create(ctx, dup), &ce)
	})

	t.Run("Stored state does not alias the caller", func(t *testing.T) {
		a.RegistrationNumber = "MUTATED"
		got, err := store.Agreements.GetByID(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, "AG-2026-001", got.RegistrationNumber)
		assert.Len(t, got.RentedItems, 1)

		got.RentedItems[0].Purpose = domain.PurposeWarehouse
		again, err := store.Agreements.GetByID(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, domain.PurposeOffice, again.RentedItems[0].Purpose)
	})

	t.Run("Update round trip", func(t *testing.T) {
		got, err := store.Agreements.GetByID(ctx, 1)
		assert.NoError(t, err)
		assert.NoError(t, got.Sign(date(2026, 2, 1)))
		assert.NoError(t, store.Agreements.Update(ctx, got))

		signed, err := store.Agreements.GetByID(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, domain.AgreementStatusActive, signed.Status)
		assert.NotNil(t, signed.SignedDate)
	})

	t.Run("NextID follows the highest id", func(t *testing.T) {
		assert.NoError(t, store.Agreements.Create(ctx, newAgreement(t, 7, "AG-2026-007")))
		id, err := store.Agreements.NextID(ctx)
		assert.NoError(t, err)
		assert.Equal(t, int32(8), id)
	})

	t.Run("Delete", func(t *testing.T) {
		assert.NoError(t, store.Agreements.Delete(ctx, 7))
		var nfe *domain.NotFoundError
		_, err := store.Agreements.GetByID(ctx, 7)
		assert.ErrorAs(t, err, &nfe)
		assert.ErrorAs(t, store.Agreements.Delete(ctx, 7), &nfe)
	})
}

func TestRoomStore_UniquePerBuilding(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore("")
	assert.NoError(t, err)

	assert.NoError(t, store.Rooms.Create(ctx, newRoom(t, 1, 1, "101")))
	assert.NoError(t, store.Rooms.Create(ctx, newRoom(t, 2, 2, "101"))) // same number, other building

	var ce *domain.ConflictError
	assert.ErrorAs(t, store.Rooms.Create(ctx, newRoom(t, 3, 1, "101")), &ce)

	inFirst, err := store.Rooms.ListByBuilding(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, inFirst, 1)
}

func TestBuildingStore_RoomsNotPersisted(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore("")
	assert.NoError(t, err)

	b, err := domain.NewBuilding(1, "Central", "12 Main St", 3, "+7 495 1234567")
	assert.NoError(t, err)
	assert.NoError(t, b.AddRoom(newRoom(t, 1, 0, "101")))
	assert.NoError(t, store.Buildings.Create(ctx, b))

	got, err := store.Buildings.GetByID(ctx, 1)
	assert.NoError(t, err)
	assert.Empty(t, got.Rooms)
	assert.Len(t, b.Rooms, 1) // the caller's aggregate is untouched
}

func TestContractorStore_PhoneUnique(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore("")
	assert.NoError(t, err)

	assert.NoError(t, store.IndividualContractors.Create(ctx, newContractor(t, 1, "+7 903 1112233")))

	var ce *domain.ConflictError
	assert.ErrorAs(t, store.IndividualContractors.Create(ctx, newContractor(t, 2, "+7 903 1112233")), &ce)

	// the variants are separate stores with separate phone spaces
	bank, err := domain.NewBankDetails("First Bank", "40702810000000000001")
	assert.NoError(t, err)
	legal, err := domain.NewLegalEntityContractor(3, "+7 903 1112233", "Acme LLC", "Petrov P P", "3 Lenina St", "7701234567", bank, date(2026, 1, 1))
	assert.NoError(t, err)
	assert.NoError(t, store.LegalEntityContractors.Create(ctx, legal))
}

func TestStore_SnapshotReload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewStore(dir)
	assert.NoError(t, err)

	a := newAgreement(t, 1, "AG-2026-001")
	assert.NoError(t, a.Sign(date(2026, 2, 1)))
	assert.NoError(t, store.Agreements.Create(ctx, a))
	assert.NoError(t, store.Rooms.Create(ctx, newRoom(t, 1, 1, "101")))
	assert.NoError(t, store.IndividualContractors.Create(ctx, newContractor(t, 1, "+7 903 1112233")))

	assert.FileExists(t, filepath.Join(dir, "agreements.json"))

	reloaded, err := NewStore(dir)
	assert.NoError(t, err)

	got, err := reloaded.Agreements.GetByID(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, "AG-2026-001", got.RegistrationNumber)
	assert.Equal(t, domain.AgreementStatusActive, got.Status)
	assert.Len(t, got.RentedItems, 1)
	assert.True(t, got.RentedItems[0].RentAmount.Equal(decimal.NewFromInt(100)))

	room, err := reloaded.Rooms.GetByID(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, "101", room.RoomNumber)

	contractor, err := reloaded.IndividualContractors.GetByID(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, "Ivanov Ivan Ivanovich", contractor.DisplayName())

	nextID, err := reloaded.Agreements.NextID(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int32(2), nextID)
}
