package service

import (
	"context"
	"errors"

	"github.com/AhmadAdewumi/inventro/internal/dto"
	"github.com/AhmadAdewumi/inventro/internal/model"
	"github.com/AhmadAdewumi/inventro/internal/repository"

	"github.com/google/uuid"
)

// CatalogService maintains products and their sellable variants. Variants
// with sale history are deactivated rather than deleted, keeping every ledger
// and order line resolvable.
type CatalogService interface {
	CreateVariant(ctx context.Context, actorID uuid.UUID, req dto.CreateVariantRequest) (*dto.VariantResponse, error)
	UpdateVariant(ctx context.Context, id uuid.UUID, req dto.UpdateVariantRequest) (*dto.VariantResponse, error)
	FindVariant(ctx context.Context, id uuid.UUID) (*dto.VariantResponse, error)
	ListVariants(ctx context.Context, filter dto.VariantFilter) (*dto.VariantListResponse, error)
	DeactivateVariant(ctx context.Context, id uuid.UUID) error
	ReactivateVariant(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	products repository.ProductRepository
	variants repository.VariantRepository
	ledger   repository.LedgerRepository
}

func NewCatalogService(
	products repository.ProductRepository,
	variants repository.VariantRepository,
	ledger repository.LedgerRepository,
) CatalogService {
	return &catalogService{products: products, variants: variants, ledger: ledger}
}

// CreateVariant attaches the variant to an existing product of the same name
// or creates the product on the fly. Opening stock is booked through the
// ledger so the variant's history replays from zero like any other.
func (s *catalogService) CreateVariant(ctx context.Context, actorID uuid.UUID, req dto.CreateVariantRequest) (*dto.VariantResponse, error) {
	category := req.Category
	if category == "" {
		category = "General"
	}
	product, err := s.products.FirstOrCreateByName(ctx, req.Name, category)
	if err != nil {
		return nil, err
	}

	suffix := req.NameSuffix
	if suffix == "" {
		suffix = "Standard"
	}
	v := &model.Variant{
		ProductID:     product.ID,
		SKU:           req.SKU,
		Barcode:       req.Barcode,
		NameSuffix:    suffix,
		Price:         req.Price.Round(2),
		CostPrice:     req.CostPrice.Round(2),
		TaxRate:       req.TaxRate,
		StockQuantity: req.Stock,
		IsActive:      true,
	}
	if v.Price.IsNegative() {
		return nil, errors.New("price must not be negative")
	}
	if err := s.variants.Create(ctx, v); err != nil {
		return nil, errors.New("SKU or barcode already in use")
	}

	if req.Stock > 0 {
		if err := s.ledger.CreateTx(s.variants.DB(), &model.LedgerEntry{
			VariantID:      v.ID,
			ActorID:        &actorID,
			Action:         model.LedgerRestock,
			QuantityChange: req.Stock,
			StockAfter:     req.Stock,
			Note:           "Opening stock",
		}); err != nil {
			return nil, err
		}
	}

	v.Product = product
	resp := variantToResponse(v)
	return &resp, nil
}

func (s *catalogService) UpdateVariant(ctx context.Context, id uuid.UUID, req dto.UpdateVariantRequest) (*dto.VariantResponse, error) {
	v, err := s.variants.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("variant not found")
	}
	if req.NameSuffix != nil {
		v.NameSuffix = *req.NameSuffix
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, errors.New("price must not be negative")
		}
		v.Price = req.Price.Round(2)
	}
	if req.TaxRate != nil {
		v.TaxRate = *req.TaxRate
	}
	if req.LowStockThreshold != nil {
		v.LowStockThreshold = *req.LowStockThreshold
	}
	if err := s.variants.Update(ctx, v); err != nil {
		return nil, err
	}
	resp := variantToResponse(v)
	return &resp, nil
}

func (s *catalogService) FindVariant(ctx context.Context, id uuid.UUID) (*dto.VariantResponse, error) {
	v, err := s.variants.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("variant not found")
	}
	resp := variantToResponse(v)
	return &resp, nil
}

func (s *catalogService) ListVariants(ctx context.Context, filter dto.VariantFilter) (*dto.VariantListResponse, error) {
	variants, total, err := s.variants.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.VariantListResponse{
		Data:  make([]dto.VariantResponse, len(variants)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range variants {
		resp.Data[i] = variantToResponse(&variants[i])
	}
	return resp, nil
}

func (s *catalogService) DeactivateVariant(ctx context.Context, id uuid.UUID) error {
	return s.variants.Deactivate(ctx, id)
}

func (s *catalogService) ReactivateVariant(ctx context.Context, id uuid.UUID) error {
	return s.variants.Reactivate(ctx, id)
}

func variantToResponse(v *model.Variant) dto.VariantResponse {
	resp := dto.VariantResponse{
		ID:                v.ID.String(),
		SKU:               v.SKU,
		Barcode:           v.Barcode,
		NameSuffix:        v.NameSuffix,
		Price:             v.Price,
		CostPrice:         v.CostPrice,
		TaxRate:           v.TaxRate,
		StockQuantity:     v.StockQuantity,
		LowStockThreshold: v.LowStockThreshold,
		IsActive:          v.IsActive,
	}
	if v.Product != nil {
		resp.Product = v.Product.Name
		resp.Category = v.Product.Category
	}
	return resp
}
