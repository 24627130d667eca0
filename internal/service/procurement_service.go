package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AhmadAdewumi/inventro/internal/dto"
	"github.com/AhmadAdewumi/inventro/internal/model"
	"github.com/AhmadAdewumi/inventro/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProcurementService manages suppliers and the purchase order lifecycle:
// draft -> ordered -> received, with cancel allowed before receiving.
// Receiving is the only operation that moves stock, and it moves the cost
// basis to a weighted average at the same time.
type ProcurementService interface {
	CreateSupplier(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error)
	ListSuppliers(ctx context.Context) ([]dto.SupplierResponse, error)
	DeactivateSupplier(ctx context.Context, id uuid.UUID) error

	CreateDraft(ctx context.Context, actorID uuid.UUID, req dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error)
	Place(ctx context.Context, id uuid.UUID) error
	Cancel(ctx context.Context, id uuid.UUID) error
	// Receive books every line into stock exactly once. A purchase order that
	// is already received or canceled is rejected, never double-applied.
	Receive(ctx context.Context, actorID, id uuid.UUID) (*dto.PurchaseOrderResponse, error)
	FindPurchaseOrder(ctx context.Context, id uuid.UUID) (*dto.PurchaseOrderResponse, error)
	ListPurchaseOrders(ctx context.Context, filter dto.PurchaseOrderFilter) (*dto.PurchaseOrderListResponse, error)

	CostHistory(ctx context.Context, variantID uuid.UUID, page, limit int) ([]dto.CostHistoryResponse, int64, error)
}

type procurementService struct {
	pos           repository.PurchaseOrderRepository
	suppliers     repository.SupplierRepository
	variants      repository.VariantRepository
	ledger        repository.LedgerRepository
	costs         repository.CostHistoryRepository
	notifications repository.NotificationRepository
	alerts        AlertDispatcher
}

func NewProcurementService(
	pos repository.PurchaseOrderRepository,
	suppliers repository.SupplierRepository,
	variants repository.VariantRepository,
	ledger repository.LedgerRepository,
	costs repository.CostHistoryRepository,
	notifications repository.NotificationRepository,
	alerts AlertDispatcher,
) ProcurementService {
	return &procurementService{
		pos:           pos,
		suppliers:     suppliers,
		variants:      variants,
		ledger:        ledger,
		costs:         costs,
		notifications: notifications,
		alerts:        alerts,
	}
}

func (s *procurementService) CreateSupplier(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	supplier := &model.Supplier{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		IsActive:      true,
	}
	if err := s.suppliers.Create(ctx, supplier); err != nil {
		return nil, err
	}
	resp := supplierToResponse(supplier)
	return &resp, nil
}

func (s *procurementService) ListSuppliers(ctx context.Context) ([]dto.SupplierResponse, error) {
	suppliers, err := s.suppliers.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SupplierResponse, len(suppliers))
	for i := range suppliers {
		resp[i] = supplierToResponse(&suppliers[i])
	}
	return resp, nil
}

func (s *procurementService) DeactivateSupplier(ctx context.Context, id uuid.UUID) error {
	return s.suppliers.Deactivate(ctx, id)
}

func (s *procurementService) CreateDraft(ctx context.Context, actorID uuid.UUID, req dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, errors.New("invalid supplier_id")
	}
	supplier, err := s.suppliers.FindByID(ctx, supplierID)
	if err != nil {
		return nil, errors.New("supplier not found")
	}
	if !supplier.IsActive {
		return nil, fmt.Errorf("supplier %s is inactive", supplier.Name)
	}

	total := decimal.Zero
	lines := make([]model.PurchaseOrderLine, 0, len(req.Lines))
	for _, lr := range req.Lines {
		vid, err := uuid.Parse(lr.VariantID)
		if err != nil {
			return nil, errors.New("invalid variant_id")
		}
		if _, err := s.variants.FindByID(ctx, vid); err != nil {
			return nil, fmt.Errorf("variant %s not found", vid)
		}
		if lr.UnitCost.IsNegative() {
			return nil, errors.New("unit_cost must not be negative")
		}
		line := model.PurchaseOrderLine{
			VariantID: vid,
			Quantity:  lr.Quantity,
			UnitCost:  lr.UnitCost,
		}
		total = total.Add(line.LineTotal())
		lines = append(lines, line)
	}

	po := &model.PurchaseOrder{
		SupplierID:  supplierID,
		CreatedByID: actorID,
		Status:      model.POStatusDraft,
		TotalCost:   total.Round(2),
		Note:        req.Note,
		Lines:       lines,
	}
	if err := s.pos.Create(ctx, po); err != nil {
		return nil, err
	}
	po.Supplier = supplier
	return purchaseOrderToResponse(po), nil
}

func (s *procurementService) Place(ctx context.Context, id uuid.UUID) error {
	po, err := s.pos.FindByID(ctx, id)
	if err != nil {
		return errors.New("purchase order not found")
	}
	if po.Status != model.POStatusDraft {
		return fmt.Errorf("cannot place a purchase order in status %q", po.Status)
	}
	return s.pos.UpdateStatus(ctx, id, model.POStatusOrdered)
}

func (s *procurementService) Cancel(ctx context.Context, id uuid.UUID) error {
	po, err := s.pos.FindByID(ctx, id)
	if err != nil {
		return errors.New("purchase order not found")
	}
	if po.Status != model.POStatusDraft && po.Status != model.POStatusOrdered {
		return fmt.Errorf("cannot cancel a purchase order in status %q", po.Status)
	}
	return s.pos.UpdateStatus(ctx, id, model.POStatusCanceled)
}

func (s *procurementService) Receive(ctx context.Context, actorID, id uuid.UUID) (*dto.PurchaseOrderResponse, error) {
	var (
		po    *model.PurchaseOrder
		alert string
	)
	err := runTx(ctx, s.pos.DB(), func(tx *gorm.DB) error {
		// The header lock serializes concurrent receives: the second caller
		// blocks here, then sees status "received" and fails.
		var err error
		po, err = s.pos.LockByIDTx(tx, id)
		if err != nil {
			return errors.New("purchase order not found")
		}
		switch po.Status {
		case model.POStatusReceived:
			return errors.New("purchase order already received")
		case model.POStatusCanceled:
			return errors.New("purchase order is canceled")
		}

		variantIDs := make([]uuid.UUID, 0, len(po.Lines))
		for i := range po.Lines {
			variantIDs = append(variantIDs, po.Lines[i].VariantID)
		}
		locked := make(map[uuid.UUID]*model.Variant, len(variantIDs))
		for _, vid := range sortedUnique(variantIDs) {
			v, err := s.variants.LockByIDTx(tx, vid)
			if err != nil {
				return fmt.Errorf("variant %s: %w", vid, err)
			}
			locked[v.ID] = v
		}

		for i := range po.Lines {
			line := &po.Lines[i]
			v := locked[line.VariantID]

			newCost := weightedAverageCost(v.StockQuantity, v.CostPrice, line.Quantity, line.UnitCost)
			if !newCost.Equal(v.CostPrice) {
				if err := s.costs.CreateTx(tx, &model.CostHistory{
					VariantID:       v.ID,
					PurchaseOrderID: po.ID,
					OldCost:         v.CostPrice,
					NewCost:         newCost,
				}); err != nil {
					return err
				}
			}
			v.CostPrice = newCost
			v.StockQuantity += line.Quantity

			if err := s.ledger.CreateTx(tx, &model.LedgerEntry{
				VariantID:      v.ID,
				ActorID:        &actorID,
				Action:         model.LedgerRestock,
				QuantityChange: line.Quantity,
				StockAfter:     v.StockQuantity,
				Note:           fmt.Sprintf("PO %s received (avg cost %s)", po.ID, newCost.StringFixed(2)),
			}); err != nil {
				return err
			}
		}
		for _, vid := range sortedUnique(variantIDs) {
			if err := s.variants.SaveTx(tx, locked[vid]); err != nil {
				return err
			}
		}

		now := time.Now()
		po.Status = model.POStatusReceived
		po.ReceivedAt = &now
		if err := s.pos.SaveTx(tx, po); err != nil {
			return err
		}

		supplierName := po.ID.String()
		if supplier, err := s.suppliers.FindByID(ctx, po.SupplierID); err == nil {
			supplierName = supplier.Name
			po.Supplier = supplier
		}
		alert = fmt.Sprintf("Delivery from %s booked in: %d line(s), total %s", supplierName, len(po.Lines), po.TotalCost.StringFixed(2))
		return s.notifications.CreateTx(tx, &model.Notification{
			Title:   model.NotifStockReceived,
			Message: alert,
			Link:    "/procurement/" + po.ID.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	if s.alerts != nil {
		s.alerts.EnqueueAlert(ctx, model.NotifStockReceived, alert)
	}
	return purchaseOrderToResponse(po), nil
}

func (s *procurementService) FindPurchaseOrder(ctx context.Context, id uuid.UUID) (*dto.PurchaseOrderResponse, error) {
	po, err := s.pos.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("purchase order not found")
	}
	return purchaseOrderToResponse(po), nil
}

func (s *procurementService) ListPurchaseOrders(ctx context.Context, filter dto.PurchaseOrderFilter) (*dto.PurchaseOrderListResponse, error) {
	pos, total, err := s.pos.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.PurchaseOrderListResponse{
		Data:  make([]dto.PurchaseOrderResponse, len(pos)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range pos {
		resp.Data[i] = *purchaseOrderToResponse(&pos[i])
	}
	return resp, nil
}

func (s *procurementService) CostHistory(ctx context.Context, variantID uuid.UUID, page, limit int) ([]dto.CostHistoryResponse, int64, error) {
	rows, total, err := s.costs.ListByVariant(ctx, variantID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]dto.CostHistoryResponse, len(rows))
	for i, row := range rows {
		resp[i] = dto.CostHistoryResponse{
			VariantID:       row.VariantID.String(),
			PurchaseOrderID: row.PurchaseOrderID.String(),
			OldCost:         row.OldCost,
			NewCost:         row.NewCost,
			CreatedAt:       row.CreatedAt.Format(time.RFC3339),
		}
	}
	return resp, total, nil
}

// weightedAverageCost blends the on-hand value with the incoming shipment.
// With nothing on hand the shipment's unit cost becomes the new basis.
func weightedAverageCost(onHand int, oldCost decimal.Decimal, qty int, unitCost decimal.Decimal) decimal.Decimal {
	if onHand <= 0 {
		return unitCost.Round(2)
	}
	oldQty := decimal.NewFromInt(int64(onHand))
	newQty := decimal.NewFromInt(int64(qty))
	totalValue := oldCost.Mul(oldQty).Add(unitCost.Mul(newQty))
	return totalValue.Div(oldQty.Add(newQty)).Round(2)
}

func supplierToResponse(sp *model.Supplier) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:            sp.ID.String(),
		Name:          sp.Name,
		ContactPerson: sp.ContactPerson,
		Email:         sp.Email,
		Phone:         sp.Phone,
		Address:       sp.Address,
		IsActive:      sp.IsActive,
	}
}

func purchaseOrderToResponse(po *model.PurchaseOrder) *dto.PurchaseOrderResponse {
	resp := &dto.PurchaseOrderResponse{
		ID:         po.ID.String(),
		SupplierID: po.SupplierID.String(),
		Status:     po.Status,
		TotalCost:  po.TotalCost,
		Note:       po.Note,
		CreatedAt:  po.CreatedAt.Format(time.RFC3339),
		Lines:      make([]dto.PurchaseOrderLineResponse, len(po.Lines)),
	}
	if po.Supplier != nil {
		resp.Supplier = po.Supplier.Name
	}
	if po.ReceivedAt != nil {
		ts := po.ReceivedAt.Format(time.RFC3339)
		resp.ReceivedAt = &ts
	}
	for i := range po.Lines {
		line := &po.Lines[i]
		lr := dto.PurchaseOrderLineResponse{
			VariantID: line.VariantID.String(),
			Quantity:  line.Quantity,
			UnitCost:  line.UnitCost,
			LineTotal: line.LineTotal(),
		}
		if line.Variant != nil {
			lr.SKU = line.Variant.SKU
		}
		resp.Lines[i] = lr
	}
	return resp
}
