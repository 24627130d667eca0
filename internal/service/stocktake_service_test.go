package service

import (
	"context"
	"testing"

	"github.com/AhmadAdewumi/inventro/internal/dto"
	"github.com/AhmadAdewumi/inventro/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stocktakeFixture struct {
	svc           StocktakeService
	stocktakes    *stubStocktakeRepo
	variants      *stubVariantRepo
	ledger        *stubLedgerRepo
	notifications *stubNotificationRepo
	actorID       uuid.UUID
}

func newStocktakeFixture(variants ...*model.Variant) *stocktakeFixture {
	f := &stocktakeFixture{
		variants:      newStubVariantRepo(variants...),
		ledger:        &stubLedgerRepo{},
		notifications: &stubNotificationRepo{},
		actorID:       uuid.New(),
	}
	f.stocktakes = newStubStocktakeRepo(f.variants)
	f.svc = NewStocktakeService(f.stocktakes, f.variants, f.ledger, f.notifications)
	return f
}

func (f *stocktakeFixture) start(t *testing.T) uuid.UUID {
	t.Helper()
	resp, err := f.svc.Start(context.Background(), f.actorID, dto.StartStocktakeRequest{Note: "monthly count"})
	require.NoError(t, err)
	return uuid.MustParse(resp.ID)
}

func TestStart_SnapshotsActiveVariants(t *testing.T) {
	active := testVariant("COLA-05", "779001", "2.50", 12)
	retired := testVariant("OLD-01", "779009", "1.00", 3)
	retired.IsActive = false
	f := newStocktakeFixture(active, retired)

	resp, err := f.svc.Start(context.Background(), f.actorID, dto.StartStocktakeRequest{})
	require.NoError(t, err)

	assert.Equal(t, model.StocktakeInProgress, resp.Status)
	assert.Equal(t, 1, resp.ItemCount, "inactive variants are not counted")

	session, err := f.stocktakes.FindSessionByID(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	require.Len(t, session.Items, 1)
	assert.Equal(t, active.ID, session.Items[0].VariantID)
	assert.Equal(t, 12, session.Items[0].ExpectedQuantity)
	assert.Equal(t, 0, session.Items[0].CountedQuantity, "counts start blind")
}

func TestStart_NoActiveVariants(t *testing.T) {
	f := newStocktakeFixture()
	_, err := f.svc.Start(context.Background(), f.actorID, dto.StartStocktakeRequest{})
	assert.Error(t, err)
}

func TestRecordCount(t *testing.T) {
	v := testVariant("COLA-05", "779001", "2.50", 12)
	f := newStocktakeFixture(v)
	sessionID := f.start(t)

	item, err := f.svc.RecordCount(context.Background(), sessionID, dto.RecordCountRequest{
		Barcode: "779001", Quantity: 9,
	})
	require.NoError(t, err)
	assert.Equal(t, 12, item.ExpectedQuantity)
	assert.Equal(t, 9, item.CountedQuantity)
	assert.Equal(t, -3, item.Variance)

	// Recounting overwrites.
	item, err = f.svc.RecordCount(context.Background(), sessionID, dto.RecordCountRequest{
		Barcode: "779001", Quantity: 11,
	})
	require.NoError(t, err)
	assert.Equal(t, 11, item.CountedQuantity)

	_, err = f.svc.RecordCount(context.Background(), sessionID, dto.RecordCountRequest{
		Barcode: "000000", Quantity: 1,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not part of this session")
}

func TestApprove_ReconcilesVariances(t *testing.T) {
	short := testVariant("COLA-05", "779001", "2.50", 12)
	over := testVariant("CHIP-01", "779002", "4.00", 5)
	exact := testVariant("AGUA-01", "779003", "1.00", 8)
	f := newStocktakeFixture(short, over, exact)
	sessionID := f.start(t)

	for _, c := range []struct {
		barcode string
		count   int
	}{
		{"779001", 9}, {"779002", 7}, {"779003", 8},
	} {
		_, err := f.svc.RecordCount(context.Background(), sessionID, dto.RecordCountRequest{Barcode: c.barcode, Quantity: c.count})
		require.NoError(t, err)
	}

	resp, err := f.svc.Approve(context.Background(), f.actorID, sessionID)
	require.NoError(t, err)

	assert.Equal(t, model.StocktakeCompleted, resp.Status)
	require.NotNil(t, resp.CompletedAt)
	assert.Equal(t, 9, short.StockQuantity)
	assert.Equal(t, 7, over.StockQuantity)
	assert.Equal(t, 8, exact.StockQuantity)

	shortEntries := f.ledger.byVariant(short.ID)
	require.Len(t, shortEntries, 1)
	assert.Equal(t, model.LedgerLoss, shortEntries[0].Action)
	assert.Equal(t, -3, shortEntries[0].QuantityChange)
	assert.Equal(t, 9, shortEntries[0].StockAfter)

	overEntries := f.ledger.byVariant(over.ID)
	require.Len(t, overEntries, 1)
	assert.Equal(t, model.LedgerRestock, overEntries[0].Action)
	assert.Equal(t, 2, overEntries[0].QuantityChange)

	assert.Empty(t, f.ledger.byVariant(exact.ID), "no entry when count matches")

	require.Len(t, f.notifications.notifications, 1)
	assert.Equal(t, model.NotifStocktakeDone, f.notifications.notifications[0].Title)
}

func TestApprove_CorrectionIsRelativeToLiveStock(t *testing.T) {
	v := testVariant("COLA-05", "779001", "2.50", 12)
	f := newStocktakeFixture(v)
	sessionID := f.start(t)

	_, err := f.svc.RecordCount(context.Background(), sessionID, dto.RecordCountRequest{Barcode: "779001", Quantity: 10})
	require.NoError(t, err)

	// A sale happens while the count is open: live stock is now 11 while the
	// snapshot still says 12. The correction must bridge 11 -> 10, not 12 -> 10.
	v.StockQuantity = 11

	_, err = f.svc.Approve(context.Background(), f.actorID, sessionID)
	require.NoError(t, err)

	assert.Equal(t, 10, v.StockQuantity)
	entries := f.ledger.byVariant(v.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, -1, entries[0].QuantityChange)
	assert.Equal(t, 10, entries[0].StockAfter)
}

func TestApprove_OnlyOnce(t *testing.T) {
	v := testVariant("COLA-05", "779001", "2.50", 12)
	f := newStocktakeFixture(v)
	sessionID := f.start(t)

	_, err := f.svc.Approve(context.Background(), f.actorID, sessionID)
	require.NoError(t, err)

	_, err = f.svc.Approve(context.Background(), f.actorID, sessionID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already completed")

	// Counts are closed after approval too.
	_, err = f.svc.RecordCount(context.Background(), sessionID, dto.RecordCountRequest{Barcode: "779001", Quantity: 1})
	require.Error(t, err)
}

func TestDiscard(t *testing.T) {
	v := testVariant("COLA-05", "779001", "2.50", 12)
	f := newStocktakeFixture(v)
	sessionID := f.start(t)

	require.NoError(t, f.svc.Discard(context.Background(), sessionID))
	_, err := f.svc.FindSession(context.Background(), sessionID)
	assert.Error(t, err)

	// Completed sessions are audit history and cannot be discarded.
	sessionID = f.start(t)
	_, err = f.svc.Approve(context.Background(), f.actorID, sessionID)
	require.NoError(t, err)
	err = f.svc.Discard(context.Background(), sessionID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "completed")
}
