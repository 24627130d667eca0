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

// SaleService processes checkouts and quotes. A checkout is a single unit of
// work: order, lines, stock decrements, ledger entries and wallet settlement
// all commit together or not at all.
type SaleService interface {
	Checkout(ctx context.Context, cashierID uuid.UUID, req dto.CheckoutRequest) (*dto.OrderResponse, error)
	FindOrder(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	ListOrders(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error)
	// DeleteQuote hard-deletes a quote. Completed and refunded orders are
	// audit history and can never be deleted.
	DeleteQuote(ctx context.Context, id uuid.UUID) error
}

type saleService struct {
	orders        repository.OrderRepository
	variants      repository.VariantRepository
	customers     repository.CustomerRepository
	ledger        repository.LedgerRepository
	notifications repository.NotificationRepository
	pricing       PricingService
	alerts        AlertDispatcher
}

func NewSaleService(
	orders repository.OrderRepository,
	variants repository.VariantRepository,
	customers repository.CustomerRepository,
	ledger repository.LedgerRepository,
	notifications repository.NotificationRepository,
	pricing PricingService,
	alerts AlertDispatcher,
) SaleService {
	return &saleService{
		orders:        orders,
		variants:      variants,
		customers:     customers,
		ledger:        ledger,
		notifications: notifications,
		pricing:       pricing,
		alerts:        alerts,
	}
}

type pendingAlert struct {
	title   string
	message string
}

func (s *saleService) Checkout(ctx context.Context, cashierID uuid.UUID, req dto.CheckoutRequest) (*dto.OrderResponse, error) {
	payment := req.PaymentMethod
	status := model.OrderStatusCompleted
	if req.IsQuote {
		// Quotes price the cart without committing anything: no stock, no
		// ledger, no settlement, and the payment method is forced to "none".
		payment = model.PaymentNone
		status = model.OrderStatusQuote
	}

	var customerID *uuid.UUID
	if req.CustomerID != nil {
		cid, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, errors.New("invalid customer_id")
		}
		if _, err := s.customers.FindByID(ctx, cid); err != nil {
			return nil, errors.New("customer not found")
		}
		customerID = &cid
	}
	if (payment == model.PaymentDebt || payment == model.PaymentWallet) && customerID == nil {
		return nil, fmt.Errorf("payment method %q requires a customer", payment)
	}

	// Phase 1: resolve every barcode before touching anything. The same
	// barcode may appear on several lines (different discounts).
	resolved := make(map[string]*model.Variant, len(req.Lines))
	for _, line := range req.Lines {
		if _, ok := resolved[line.Barcode]; ok {
			continue
		}
		v, err := s.variants.FindByBarcode(ctx, line.Barcode)
		if err != nil {
			return nil, fmt.Errorf("unknown barcode %q", line.Barcode)
		}
		if !v.IsActive {
			return nil, fmt.Errorf("%s is no longer sold", v.SKU)
		}
		resolved[line.Barcode] = v
	}

	variantIDs := make([]uuid.UUID, 0, len(resolved))
	for _, v := range resolved {
		variantIDs = append(variantIDs, v.ID)
	}

	var (
		order  *model.Order
		queued []pendingAlert
	)

	err := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		queued = queued[:0]

		// Phase 2: take row locks in ascending ID order. Quotes skip
		// locking entirely — they never mutate stock.
		locked := make(map[uuid.UUID]*model.Variant, len(resolved))
		if req.IsQuote {
			for _, v := range resolved {
				locked[v.ID] = v
			}
		} else {
			for _, id := range sortedUnique(variantIDs) {
				v, err := s.variants.LockByIDTx(tx, id)
				if err != nil {
					return fmt.Errorf("variant %s: %w", id, err)
				}
				locked[v.ID] = v
			}
		}

		// Phase 3: price and validate against the locked stock. remaining
		// tracks availability across duplicate-barcode lines.
		remaining := make(map[uuid.UUID]int, len(locked))
		for id, v := range locked {
			remaining[id] = v.StockQuantity
		}

		total := decimal.Zero
		lines := make([]model.OrderLine, 0, len(req.Lines))
		for _, lr := range req.Lines {
			v := locked[resolved[lr.Barcode].ID]
			if !req.IsQuote {
				if remaining[v.ID] < lr.Quantity {
					return fmt.Errorf("insufficient stock for %s: %d left, %d requested", v.SKU, remaining[v.ID], lr.Quantity)
				}
				remaining[v.ID] -= lr.Quantity
			}
			unitPrice, err := s.pricing.ResolveUnitPrice(ctx, v, lr.Quantity, lr.DiscountPercent)
			if err != nil {
				return err
			}
			lines = append(lines, model.OrderLine{
				VariantID: v.ID,
				Quantity:  lr.Quantity,
				UnitPrice: unitPrice,
			})
			total = total.Add(unitPrice.Mul(decimal.NewFromInt(int64(lr.Quantity))))
		}

		order = &model.Order{
			CashierID:     cashierID,
			CustomerID:    customerID,
			TotalAmount:   total,
			Status:        status,
			PaymentMethod: payment,
		}
		order.Lines = lines
		if err := s.orders.CreateTx(tx, order); err != nil {
			return err
		}
		if req.IsQuote {
			return nil
		}

		// Phase 4: apply. One ledger entry per line, written with the stock
		// level after that line's decrement.
		for i := range order.Lines {
			line := &order.Lines[i]
			v := locked[line.VariantID]
			v.StockQuantity -= line.Quantity
			if err := s.ledger.CreateTx(tx, &model.LedgerEntry{
				VariantID:      v.ID,
				ActorID:        &cashierID,
				Action:         model.LedgerSale,
				QuantityChange: -line.Quantity,
				StockAfter:     v.StockQuantity,
				Note:           fmt.Sprintf("Sale %s", order.ID),
			}); err != nil {
				return err
			}
		}
		for _, id := range sortedUnique(variantIDs) {
			if err := s.variants.SaveTx(tx, locked[id]); err != nil {
				return err
			}
		}

		for _, id := range sortedUnique(variantIDs) {
			v := locked[id]
			if v.StockQuantity > v.LowStockThreshold {
				continue
			}
			// One open alert per SKU at a time.
			exists, err := s.notifications.HasUnread(ctx, model.NotifLowStock, v.SKU)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			msg := fmt.Sprintf("%s is down to %d units (threshold %d)", v.SKU, v.StockQuantity, v.LowStockThreshold)
			if err := s.notifications.CreateTx(tx, &model.Notification{
				Title:   model.NotifLowStock,
				Message: msg,
				Link:    "/inventory",
			}); err != nil {
				return err
			}
			queued = append(queued, pendingAlert{title: model.NotifLowStock, message: msg})
		}

		return s.settle(tx, payment, customerID, total)
	})
	if err != nil {
		return nil, err
	}

	// Outbound alerts go out only once the transaction is durable.
	if s.alerts != nil {
		for _, a := range queued {
			s.alerts.EnqueueAlert(ctx, a.title, a.message)
		}
	}

	resp := s.orderToResponse(order, resolved)
	return resp, nil
}

// settle applies the wallet movement for debt and wallet payments. Debt pushes
// the balance negative; wallet requires enough credit to cover the total.
func (s *saleService) settle(tx *gorm.DB, payment string, customerID *uuid.UUID, total decimal.Decimal) error {
	if payment != model.PaymentDebt && payment != model.PaymentWallet {
		return nil
	}
	customer, err := s.customers.LockByIDTx(tx, *customerID)
	if err != nil {
		return errors.New("customer not found")
	}
	if payment == model.PaymentWallet && customer.WalletBalance.LessThan(total) {
		return fmt.Errorf("insufficient wallet balance: %s available, %s required",
			customer.WalletBalance.StringFixed(2), total.StringFixed(2))
	}
	customer.WalletBalance = customer.WalletBalance.Sub(total)
	return s.customers.SaveTx(tx, customer)
}

func (s *saleService) FindOrder(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("order not found")
	}
	return s.orderToResponse(order, nil), nil
}

func (s *saleService) ListOrders(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.OrderListResponse{
		Data:  make([]dto.OrderResponse, len(orders)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range orders {
		resp.Data[i] = *s.orderToResponse(&orders[i], nil)
	}
	return resp, nil
}

func (s *saleService) DeleteQuote(ctx context.Context, id uuid.UUID) error {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return errors.New("order not found")
	}
	if order.Status != model.OrderStatusQuote {
		return errors.New("only quotes can be deleted")
	}
	return s.orders.Delete(ctx, id)
}

// orderToResponse renders an order. resolved (barcode -> variant, as built
// during checkout) supplies variant details for freshly created orders whose
// lines were not loaded through a preload; pass nil for loaded orders.
func (s *saleService) orderToResponse(o *model.Order, resolved map[string]*model.Variant) *dto.OrderResponse {
	byID := make(map[uuid.UUID]*model.Variant, len(resolved))
	for _, v := range resolved {
		byID[v.ID] = v
	}

	resp := &dto.OrderResponse{
		ID:            o.ID.String(),
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		TotalAmount:   o.TotalAmount,
		CreatedAt:     o.CreatedAt.Format(time.RFC3339),
		Lines:         make([]dto.OrderLineResponse, len(o.Lines)),
	}
	if o.CustomerID != nil {
		cid := o.CustomerID.String()
		resp.CustomerID = &cid
	}
	for i := range o.Lines {
		line := &o.Lines[i]
		v := line.Variant
		if v == nil {
			v = byID[line.VariantID]
		}
		lr := dto.OrderLineResponse{
			ID:               line.ID.String(),
			Quantity:         line.Quantity,
			UnitPrice:        line.UnitPrice,
			RefundedQuantity: line.RefundedQuantity,
			LineTotal:        line.LineTotal(),
		}
		if v != nil {
			lr.Variant = v.NameSuffix
			lr.Barcode = v.Barcode
			if v.Product != nil {
				lr.Product = v.Product.Name
			}
		}
		resp.Lines[i] = lr
	}
	return resp
}
