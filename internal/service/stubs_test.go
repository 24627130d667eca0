package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/AhmadAdewumi/inventro/internal/dto"
	"github.com/AhmadAdewumi/inventro/internal/model"
	"github.com/AhmadAdewumi/inventro/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs. Every DB() returns nil, which makes runTx call
// the unit of work directly, so the services exercise the same code path as
// in production minus the actual transaction.

// ── Variants ──────────────────────────────────────────────────────────────────

type stubVariantRepo struct {
	variants  map[uuid.UUID]*model.Variant
	lockOrder []uuid.UUID
	saveErr   error
}

func newStubVariantRepo(variants ...*model.Variant) *stubVariantRepo {
	r := &stubVariantRepo{variants: make(map[uuid.UUID]*model.Variant)}
	for _, v := range variants {
		r.add(v)
	}
	return r
}

func (r *stubVariantRepo) add(v *model.Variant) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.variants[v.ID] = v
}

func (r *stubVariantRepo) Create(_ context.Context, v *model.Variant) error {
	for _, existing := range r.variants {
		if existing.SKU == v.SKU || existing.Barcode == v.Barcode {
			return errors.New("duplicate key")
		}
	}
	r.add(v)
	return nil
}

func (r *stubVariantRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Variant, error) {
	v, ok := r.variants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *stubVariantRepo) FindByBarcode(_ context.Context, barcode string) (*model.Variant, error) {
	for _, v := range r.variants {
		if v.Barcode == barcode {
			return v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubVariantRepo) List(_ context.Context, _ dto.VariantFilter) ([]model.Variant, int64, error) {
	out := make([]model.Variant, 0, len(r.variants))
	for _, v := range r.variants {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *stubVariantRepo) ListActive(_ context.Context) ([]model.Variant, error) {
	out := make([]model.Variant, 0, len(r.variants))
	for _, v := range r.variants {
		if v.IsActive {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (r *stubVariantRepo) CountBelowThreshold(_ context.Context) (int64, error) {
	var n int64
	for _, v := range r.variants {
		if v.IsActive && v.StockQuantity <= v.LowStockThreshold {
			n++
		}
	}
	return n, nil
}

func (r *stubVariantRepo) Update(_ context.Context, v *model.Variant) error {
	r.variants[v.ID] = v
	return nil
}

func (r *stubVariantRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	v, ok := r.variants[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.IsActive = false
	return nil
}

func (r *stubVariantRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	v, ok := r.variants[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.IsActive = true
	return nil
}

func (r *stubVariantRepo) LockByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Variant, error) {
	v, ok := r.variants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	r.lockOrder = append(r.lockOrder, id)
	return v, nil
}

func (r *stubVariantRepo) SaveTx(_ *gorm.DB, v *model.Variant) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.variants[v.ID] = v
	return nil
}

func (r *stubVariantRepo) DB() *gorm.DB { return nil }

var _ repository.VariantRepository = (*stubVariantRepo)(nil)

// ── Ledger ────────────────────────────────────────────────────────────────────

type stubLedgerRepo struct {
	entries []model.LedgerEntry
}

func (r *stubLedgerRepo) CreateTx(_ *gorm.DB, e *model.LedgerEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = time.Now()
	r.entries = append(r.entries, *e)
	return nil
}

func (r *stubLedgerRepo) List(_ context.Context, filter repository.LedgerFilter) ([]model.LedgerEntry, int64, error) {
	var out []model.LedgerEntry
	for _, e := range r.entries {
		if filter.VariantID != nil && e.VariantID != *filter.VariantID {
			continue
		}
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (r *stubLedgerRepo) ListByVariant(_ context.Context, variantID uuid.UUID) ([]model.LedgerEntry, error) {
	var out []model.LedgerEntry
	for _, e := range r.entries {
		if e.VariantID == variantID {
			out = append(out, e)
		}
	}
	return out, nil
}

// byVariant filters the captured entries for assertions.
func (r *stubLedgerRepo) byVariant(id uuid.UUID) []model.LedgerEntry {
	out, _ := r.ListByVariant(context.Background(), id)
	return out
}

var _ repository.LedgerRepository = (*stubLedgerRepo)(nil)

// ── Orders ────────────────────────────────────────────────────────────────────

type stubOrderRepo struct {
	orders   map[uuid.UUID]*model.Order
	variants *stubVariantRepo
}

func newStubOrderRepo(variants *stubVariantRepo) *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[uuid.UUID]*model.Order), variants: variants}
}

func (r *stubOrderRepo) CreateTx(_ *gorm.DB, o *model.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.CreatedAt = time.Now()
	for i := range o.Lines {
		if o.Lines[i].ID == uuid.Nil {
			o.Lines[i].ID = uuid.New()
		}
		o.Lines[i].OrderID = o.ID
	}
	r.orders[o.ID] = o
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	// Mimic the preload of Lines.Variant.
	if r.variants != nil {
		for i := range o.Lines {
			if o.Lines[i].Variant == nil {
				o.Lines[i].Variant = r.variants.variants[o.Lines[i].VariantID]
			}
		}
	}
	return o, nil
}

func (r *stubOrderRepo) List(_ context.Context, _ dto.OrderFilter) ([]model.Order, int64, error) {
	out := make([]model.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	o, ok := r.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	return nil
}

func (r *stubOrderRepo) SaveLineTx(_ *gorm.DB, _ *model.OrderLine) error { return nil }

func (r *stubOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.orders, id)
	return nil
}

func (r *stubOrderRepo) RevenueForDay(_ context.Context, _ time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (r *stubOrderRepo) ProfitForDay(_ context.Context, _ time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (r *stubOrderRepo) TopSellers(_ context.Context, _ int) ([]dto.TopSellerRow, error) {
	return nil, nil
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

var _ repository.OrderRepository = (*stubOrderRepo)(nil)

// ── Customers ─────────────────────────────────────────────────────────────────

type stubCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
}

func newStubCustomerRepo(customers ...*model.Customer) *stubCustomerRepo {
	r := &stubCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
	for _, c := range customers {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		r.customers[c.ID] = c
	}
	return r
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	for _, existing := range r.customers {
		if existing.Phone == c.Phone {
			return errors.New("duplicate key")
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCustomerRepo) List(_ context.Context) ([]model.Customer, error) {
	out := make([]model.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCustomerRepo) LockByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Customer, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubCustomerRepo) SaveTx(_ *gorm.DB, c *model.Customer) error {
	r.customers[c.ID] = c
	return nil
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// ── Notifications ─────────────────────────────────────────────────────────────

type stubNotificationRepo struct {
	notifications []model.Notification
}

func (r *stubNotificationRepo) CreateTx(_ *gorm.DB, n *model.Notification) error {
	return r.Create(context.Background(), n)
}

func (r *stubNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.CreatedAt = time.Now()
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *stubNotificationRepo) HasUnread(_ context.Context, title, substr string) (bool, error) {
	for _, n := range r.notifications {
		if !n.IsRead && n.Title == title && strings.Contains(n.Message, substr) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubNotificationRepo) List(_ context.Context, unreadOnly bool) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range r.notifications {
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *stubNotificationRepo) MarkRead(_ context.Context, id uuid.UUID) error {
	for i := range r.notifications {
		if r.notifications[i].ID == id {
			r.notifications[i].IsRead = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

var _ repository.NotificationRepository = (*stubNotificationRepo)(nil)

// ── Promotions ────────────────────────────────────────────────────────────────

type stubPromotionRepo struct {
	promos []*model.Promotion
}

func (r *stubPromotionRepo) Create(_ context.Context, p *model.Promotion) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.promos = append(r.promos, p)
	return nil
}

func (r *stubPromotionRepo) List(_ context.Context, includeInactive bool) ([]model.Promotion, error) {
	var out []model.Promotion
	for _, p := range r.promos {
		if !includeInactive && !p.IsActive {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubPromotionRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	for _, p := range r.promos {
		if p.ID == id {
			p.IsActive = active
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubPromotionRepo) FindBest(_ context.Context, variantID uuid.UUID, quantity int) (*model.Promotion, error) {
	var best *model.Promotion
	for _, p := range r.promos {
		if !p.IsActive || p.MinQuantity > quantity {
			continue
		}
		if p.VariantID != nil && *p.VariantID != variantID {
			continue
		}
		if best == nil || p.DiscountPercent.GreaterThan(best.DiscountPercent) {
			best = p
		}
	}
	return best, nil
}

var _ repository.PromotionRepository = (*stubPromotionRepo)(nil)

// ── Purchase orders ───────────────────────────────────────────────────────────

type stubPurchaseOrderRepo struct {
	pos map[uuid.UUID]*model.PurchaseOrder
}

func newStubPurchaseOrderRepo() *stubPurchaseOrderRepo {
	return &stubPurchaseOrderRepo{pos: make(map[uuid.UUID]*model.PurchaseOrder)}
}

func (r *stubPurchaseOrderRepo) Create(_ context.Context, po *model.PurchaseOrder) error {
	if po.ID == uuid.Nil {
		po.ID = uuid.New()
	}
	po.CreatedAt = time.Now()
	for i := range po.Lines {
		if po.Lines[i].ID == uuid.Nil {
			po.Lines[i].ID = uuid.New()
		}
		po.Lines[i].PurchaseOrderID = po.ID
	}
	r.pos[po.ID] = po
	return nil
}

func (r *stubPurchaseOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	po, ok := r.pos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return po, nil
}

func (r *stubPurchaseOrderRepo) List(_ context.Context, _ dto.PurchaseOrderFilter) ([]model.PurchaseOrder, int64, error) {
	out := make([]model.PurchaseOrder, 0, len(r.pos))
	for _, po := range r.pos {
		out = append(out, *po)
	}
	return out, int64(len(out)), nil
}

func (r *stubPurchaseOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	po, ok := r.pos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	po.Status = status
	return nil
}

func (r *stubPurchaseOrderRepo) LockByIDTx(_ *gorm.DB, id uuid.UUID) (*model.PurchaseOrder, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubPurchaseOrderRepo) SaveTx(_ *gorm.DB, po *model.PurchaseOrder) error {
	r.pos[po.ID] = po
	return nil
}

func (r *stubPurchaseOrderRepo) DB() *gorm.DB { return nil }

var _ repository.PurchaseOrderRepository = (*stubPurchaseOrderRepo)(nil)

// ── Suppliers ─────────────────────────────────────────────────────────────────

type stubSupplierRepo struct {
	suppliers map[uuid.UUID]*model.Supplier
}

func newStubSupplierRepo(suppliers ...*model.Supplier) *stubSupplierRepo {
	r := &stubSupplierRepo{suppliers: make(map[uuid.UUID]*model.Supplier)}
	for _, s := range suppliers {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		r.suppliers[s.ID] = s
	}
	return r
}

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSupplierRepo) List(_ context.Context) ([]model.Supplier, error) {
	out := make([]model.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSupplierRepo) Update(_ context.Context, s *model.Supplier) error {
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	s, ok := r.suppliers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.IsActive = false
	return nil
}

var _ repository.SupplierRepository = (*stubSupplierRepo)(nil)

// ── Cost history ──────────────────────────────────────────────────────────────

type stubCostHistoryRepo struct {
	rows []model.CostHistory
}

func (r *stubCostHistoryRepo) CreateTx(_ *gorm.DB, h *model.CostHistory) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	h.CreatedAt = time.Now()
	r.rows = append(r.rows, *h)
	return nil
}

func (r *stubCostHistoryRepo) ListByVariant(_ context.Context, variantID uuid.UUID, _, _ int) ([]model.CostHistory, int64, error) {
	var out []model.CostHistory
	for _, h := range r.rows {
		if h.VariantID == variantID {
			out = append(out, h)
		}
	}
	return out, int64(len(out)), nil
}

var _ repository.CostHistoryRepository = (*stubCostHistoryRepo)(nil)

// ── Stocktakes ────────────────────────────────────────────────────────────────

type stubStocktakeRepo struct {
	sessions map[uuid.UUID]*model.StocktakeSession
	variants *stubVariantRepo
}

func newStubStocktakeRepo(variants *stubVariantRepo) *stubStocktakeRepo {
	return &stubStocktakeRepo{sessions: make(map[uuid.UUID]*model.StocktakeSession), variants: variants}
}

func (r *stubStocktakeRepo) CreateSessionTx(_ *gorm.DB, s *model.StocktakeSession) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now()
	r.sessions[s.ID] = s
	return nil
}

func (r *stubStocktakeRepo) BulkCreateItemsTx(_ *gorm.DB, items []model.StocktakeItem) error {
	if len(items) == 0 {
		return nil
	}
	session, ok := r.sessions[items[0].SessionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
	}
	session.Items = items
	return nil
}

func (r *stubStocktakeRepo) FindSessionByID(_ context.Context, id uuid.UUID) (*model.StocktakeSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubStocktakeRepo) ListSessions(_ context.Context) ([]model.StocktakeSession, error) {
	out := make([]model.StocktakeSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubStocktakeRepo) FindItem(_ context.Context, sessionID uuid.UUID, barcode string) (*model.StocktakeItem, error) {
	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	v, err := r.variants.FindByBarcode(context.Background(), barcode)
	if err != nil {
		return nil, err
	}
	for i := range session.Items {
		if session.Items[i].VariantID == v.ID {
			return &session.Items[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubStocktakeRepo) SaveItem(_ context.Context, _ *model.StocktakeItem) error { return nil }

func (r *stubStocktakeRepo) LockSessionTx(_ *gorm.DB, id uuid.UUID) (*model.StocktakeSession, error) {
	return r.FindSessionByID(context.Background(), id)
}

func (r *stubStocktakeRepo) SaveSessionTx(_ *gorm.DB, s *model.StocktakeSession) error {
	r.sessions[s.ID] = s
	return nil
}

func (r *stubStocktakeRepo) DeleteSession(_ context.Context, id uuid.UUID) error {
	delete(r.sessions, id)
	return nil
}

func (r *stubStocktakeRepo) DB() *gorm.DB { return nil }

var _ repository.StocktakeRepository = (*stubStocktakeRepo)(nil)

// ── Alert dispatcher ──────────────────────────────────────────────────────────

type stubDispatcher struct {
	alerts []string
}

func (d *stubDispatcher) EnqueueAlert(_ context.Context, title, message string) {
	d.alerts = append(d.alerts, title+": "+message)
}

var _ AlertDispatcher = (*stubDispatcher)(nil)
