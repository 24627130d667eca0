package service

import (
	"context"
	"testing"

	"github.com/AhmadAdewumi/inventro/internal/dto"
	"github.com/AhmadAdewumi/inventro/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type procurementFixture struct {
	svc           ProcurementService
	pos           *stubPurchaseOrderRepo
	suppliers     *stubSupplierRepo
	variants      *stubVariantRepo
	ledger        *stubLedgerRepo
	costs         *stubCostHistoryRepo
	notifications *stubNotificationRepo
	alerts        *stubDispatcher
	supplier      *model.Supplier
	actorID       uuid.UUID
}

func newProcurementFixture(variants ...*model.Variant) *procurementFixture {
	f := &procurementFixture{
		pos:           newStubPurchaseOrderRepo(),
		variants:      newStubVariantRepo(variants...),
		ledger:        &stubLedgerRepo{},
		costs:         &stubCostHistoryRepo{},
		notifications: &stubNotificationRepo{},
		alerts:        &stubDispatcher{},
		supplier:      &model.Supplier{Name: "Acme Wholesale", IsActive: true},
		actorID:       uuid.New(),
	}
	f.suppliers = newStubSupplierRepo(f.supplier)
	f.svc = NewProcurementService(f.pos, f.suppliers, f.variants, f.ledger, f.costs, f.notifications, f.alerts)
	return f
}

func (f *procurementFixture) draft(t *testing.T, lines ...dto.PurchaseOrderLineRequest) uuid.UUID {
	t.Helper()
	resp, err := f.svc.CreateDraft(context.Background(), f.actorID, dto.CreatePurchaseOrderRequest{
		SupplierID: f.supplier.ID.String(),
		Lines:      lines,
	})
	require.NoError(t, err)
	return uuid.MustParse(resp.ID)
}

func TestWeightedAverageCost(t *testing.T) {
	cases := []struct {
		name     string
		onHand   int
		oldCost  string
		qty      int
		unitCost string
		want     string
	}{
		{"empty shelf takes shipment cost", 0, "2.00", 10, "3.50", "3.50"},
		{"negative on hand treated as empty", -2, "2.00", 10, "3.50", "3.50"},
		{"equal quantities average evenly", 10, "2.00", 10, "3.00", "2.50"},
		{"weighting favors the larger lot", 30, "2.00", 10, "6.00", "3.00"},
		{"result rounds to cents", 3, "1.00", 1, "2.00", "1.25"},
		{"uneven weights", 7, "1.10", 3, "2.45", "1.51"}, // (7.70 + 7.35) / 10
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := weightedAverageCost(tc.onHand, dec(tc.oldCost), tc.qty, dec(tc.unitCost))
			assert.True(t, got.Equal(dec(tc.want)), "got %s want %s", got, tc.want)
		})
	}
}

func TestCreateDraft(t *testing.T) {
	v := testVariant("COLA-05", "779001", "2.50", 0)
	f := newProcurementFixture(v)

	resp, err := f.svc.CreateDraft(context.Background(), f.actorID, dto.CreatePurchaseOrderRequest{
		SupplierID: f.supplier.ID.String(),
		Lines: []dto.PurchaseOrderLineRequest{
			{VariantID: v.ID.String(), Quantity: 10, UnitCost: dec("1.20")},
			{VariantID: v.ID.String(), Quantity: 5, UnitCost: dec("1.00")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, model.POStatusDraft, resp.Status)
	assert.True(t, resp.TotalCost.Equal(dec("17.00")), "got %s", resp.TotalCost)
	assert.Equal(t, "Acme Wholesale", resp.Supplier)
	// Drafting moves no stock.
	assert.Equal(t, 0, v.StockQuantity)
	assert.Empty(t, f.ledger.entries)
}

func TestCreateDraft_InactiveSupplier(t *testing.T) {
	v := testVariant("COLA-05", "779001", "2.50", 0)
	f := newProcurementFixture(v)
	f.supplier.IsActive = false

	_, err := f.svc.CreateDraft(context.Background(), f.actorID, dto.CreatePurchaseOrderRequest{
		SupplierID: f.supplier.ID.String(),
		Lines:      []dto.PurchaseOrderLineRequest{{VariantID: v.ID.String(), Quantity: 1, UnitCost: decimal.Zero}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inactive")
}

func TestReceive_MovesStockAndCostBasis(t *testing.T) {
	v := testVariant("COLA-05", "779001", "2.50", 10)
	v.CostPrice = dec("2.00")
	f := newProcurementFixture(v)
	id := f.draft(t, dto.PurchaseOrderLineRequest{VariantID: v.ID.String(), Quantity: 10, UnitCost: dec("3.00")})

	resp, err := f.svc.Receive(context.Background(), f.actorID, id)
	require.NoError(t, err)

	assert.Equal(t, model.POStatusReceived, resp.Status)
	require.NotNil(t, resp.ReceivedAt)
	assert.Equal(t, 20, v.StockQuantity)
	assert.True(t, v.CostPrice.Equal(dec("2.50")), "got %s", v.CostPrice)

	entries := f.ledger.byVariant(v.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, model.LedgerRestock, entries[0].Action)
	assert.Equal(t, 10, entries[0].QuantityChange)
	assert.Equal(t, 20, entries[0].StockAfter)
	assert.Contains(t, entries[0].Note, "avg cost 2.50")

	require.Len(t, f.costs.rows, 1)
	assert.True(t, f.costs.rows[0].OldCost.Equal(dec("2.00")))
	assert.True(t, f.costs.rows[0].NewCost.Equal(dec("2.50")))

	require.Len(t, f.notifications.notifications, 1)
	assert.Equal(t, model.NotifStockReceived, f.notifications.notifications[0].Title)
	assert.Len(t, f.alerts.alerts, 1)
}

func TestReceive_NoCostHistoryWhenCostUnchanged(t *testing.T) {
	v := testVariant("COLA-05", "779001", "2.50", 10)
	v.CostPrice = dec("2.00")
	f := newProcurementFixture(v)
	id := f.draft(t, dto.PurchaseOrderLineRequest{VariantID: v.ID.String(), Quantity: 5, UnitCost: dec("2.00")})

	_, err := f.svc.Receive(context.Background(), f.actorID, id)
	require.NoError(t, err)
	assert.Empty(t, f.costs.rows)
	assert.True(t, v.CostPrice.Equal(dec("2.00")))
}

func TestReceive_ExactlyOnce(t *testing.T) {
	v := testVariant("COLA-05", "779001", "2.50", 0)
	f := newProcurementFixture(v)
	id := f.draft(t, dto.PurchaseOrderLineRequest{VariantID: v.ID.String(), Quantity: 10, UnitCost: dec("1.00")})

	_, err := f.svc.Receive(context.Background(), f.actorID, id)
	require.NoError(t, err)
	require.Equal(t, 10, v.StockQuantity)

	_, err = f.svc.Receive(context.Background(), f.actorID, id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already received")
	assert.Equal(t, 10, v.StockQuantity, "stock must not double-apply")
	assert.Len(t, f.ledger.byVariant(v.ID), 1)
}

func TestReceive_CanceledRejected(t *testing.T) {
	v := testVariant("COLA-05", "779001", "2.50", 0)
	f := newProcurementFixture(v)
	id := f.draft(t, dto.PurchaseOrderLineRequest{VariantID: v.ID.String(), Quantity: 10, UnitCost: dec("1.00")})
	require.NoError(t, f.svc.Cancel(context.Background(), id))

	_, err := f.svc.Receive(context.Background(), f.actorID, id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "canceled")
	assert.Equal(t, 0, v.StockQuantity)
}

func TestPurchaseOrderStatusMachine(t *testing.T) {
	v := testVariant("COLA-05", "779001", "2.50", 0)
	f := newProcurementFixture(v)
	id := f.draft(t, dto.PurchaseOrderLineRequest{VariantID: v.ID.String(), Quantity: 1, UnitCost: dec("1.00")})

	require.NoError(t, f.svc.Place(context.Background(), id))

	// Placing twice fails; the order is no longer a draft.
	err := f.svc.Place(context.Background(), id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `status "ordered"`)

	// Ordered can still be canceled.
	require.NoError(t, f.svc.Cancel(context.Background(), id))

	// Canceled is terminal.
	assert.Error(t, f.svc.Cancel(context.Background(), id))
	assert.Error(t, f.svc.Place(context.Background(), id))
}

func TestCancel_ReceivedRejected(t *testing.T) {
	v := testVariant("COLA-05", "779001", "2.50", 0)
	f := newProcurementFixture(v)
	id := f.draft(t, dto.PurchaseOrderLineRequest{VariantID: v.ID.String(), Quantity: 1, UnitCost: dec("1.00")})

	_, err := f.svc.Receive(context.Background(), f.actorID, id)
	require.NoError(t, err)

	err = f.svc.Cancel(context.Background(), id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `status "received"`)
}
