// internal/services/blacklist_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankhub/credit-backend/internal/models"
	"github.com/bankhub/credit-backend/internal/utils"
)

func seedBlacklistEntry(t *testing.T, svc *BlacklistService) *models.BlacklistEntry {
	t.Helper()

	email := "debtor@example.com"
	phone := "+380509999999"
	entry, err := svc.Create(&CreateBlacklistEntryRequest{
		FullName:    "Ivan Franko",
		TaxNumber:   "9876543210",
		Email:       &email,
		Phone:       &phone,
		Reason:      models.BlacklistReasonNonPayment,
		Description: "Defaulted on a consumer loan",
	}, "manager@bankhub.ua")
	require.NoError(t, err)
	return entry
}

func TestIsBlacklistedMatchesAnyIdentifier(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock(t)
	svc := NewBlacklistService(db, clk)

	seedBlacklistEntry(t, svc)

	cases := []struct {
		name      string
		taxNumber string
		email     string
		phone     string
		want      bool
	}{
		{"tax number only", "9876543210", "", "", true},
		{"email only", "", "debtor@example.com", "", true},
		{"phone only", "", "", "+380509999999", true},
		{"tax number plus unrelated email", "9876543210", "clean@example.com", "", true},
		{"no identifiers match", "1111111111", "clean@example.com", "+380501111111", false},
		{"all identifiers blank", "", "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.IsBlacklisted(tc.taxNumber, tc.email, tc.phone)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIsBlacklistedIdempotent(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock(t)
	svc := NewBlacklistService(db, clk)

	seedBlacklistEntry(t, svc)

	for i := 0; i < 3; i++ {
		got, err := svc.IsBlacklisted("9876543210", "", "")
		require.NoError(t, err)
		assert.True(t, got)
	}
}

func TestCreateRejectsDuplicateActiveEntry(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock(t)
	svc := NewBlacklistService(db, clk)

	seedBlacklistEntry(t, svc)

	_, err := svc.Create(&CreateBlacklistEntryRequest{
		FullName:    "Ivan Franko",
		TaxNumber:   "9876543210",
		Reason:      models.BlacklistReasonFraud,
		Description: "Second attempt",
	}, "manager@bankhub.ua")
	assert.Error(t, err)
}

func TestCreateValidatesTaxNumber(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock(t)
	svc := NewBlacklistService(db, clk)

	_, err := svc.Create(&CreateBlacklistEntryRequest{
		FullName:    "Ivan Franko",
		TaxNumber:   "12345", // not 10 digits
		Reason:      models.BlacklistReasonFraud,
		Description: "Bad identifier",
	}, "manager@bankhub.ua")
	assert.Error(t, err)
}

func TestRemoveDeactivatesGate(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock(t)
	svc := NewBlacklistService(db, clk)

	entry := seedBlacklistEntry(t, svc)

	removed, err := svc.Remove(entry.ID, "Debt repaid in full")
	require.NoError(t, err)
	assert.False(t, removed.IsActive)
	require.NotNil(t, removed.RemovedDate)
	require.NotNil(t, removed.RemovalReason)
	assert.Equal(t, "Debt repaid in full", *removed.RemovalReason)

	// The history stays but the gate no longer matches.
	got, err := svc.IsBlacklisted("9876543210", "debtor@example.com", "+380509999999")
	require.NoError(t, err)
	assert.False(t, got)
}

func TestRestoreReactivatesUnlessDuplicate(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock(t)
	svc := NewBlacklistService(db, clk)

	entry := seedBlacklistEntry(t, svc)
	_, err := svc.Remove(entry.ID, "Mistaken identity")
	require.NoError(t, err)

	restored, err := svc.Restore(entry.ID)
	require.NoError(t, err)
	assert.True(t, restored.IsActive)
	assert.Nil(t, restored.RemovedDate)

	// A second active entry for the same person blocks another restore.
	_, err = svc.Remove(entry.ID, "again")
	require.NoError(t, err)
	_, err = svc.Create(&CreateBlacklistEntryRequest{
		FullName:    "Ivan Franko",
		TaxNumber:   "9876543210",
		Reason:      models.BlacklistReasonCreditFraud,
		Description: "New case",
	}, "manager@bankhub.ua")
	require.NoError(t, err)

	_, err = svc.Restore(entry.ID)
	assert.Error(t, err)
}

func TestCheckPersonListsMatches(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock(t)
	svc := NewBlacklistService(db, clk)

	seedBlacklistEntry(t, svc)

	matches, err := svc.CheckPerson("9876543210", "", "")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, models.BlacklistReasonNonPayment, matches[0].Reason)
	assert.Equal(t, "Non-payment of debt", matches[0].Label)

	matches, err = svc.CheckPerson("1111111111", "", "")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSearchFiltersInactive(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock(t)
	svc := NewBlacklistService(db, clk)

	entry := seedBlacklistEntry(t, svc)
	_, err := svc.Remove(entry.ID, "cleanup")
	require.NoError(t, err)

	page := utils.PaginationParams{Page: 1, Limit: 20}

	active, total, err := svc.Search(BlacklistSearchParams{PaginationParams: page})
	require.NoError(t, err)
	assert.Empty(t, active)
	assert.Zero(t, total)

	all, total, err := svc.Search(BlacklistSearchParams{PaginationParams: page, ShowInactive: true})
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, int64(1), total)
}
