package service

import (
	"context"
	"errors"

	"github.com/AhmadAdewumi/inventro/internal/dto"
	"github.com/AhmadAdewumi/inventro/internal/model"
	"github.com/AhmadAdewumi/inventro/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PricingService resolves the effective unit price of a variant at sale time
// and manages the promotion rules that feed into it.
type PricingService interface {
	// ResolveUnitPrice applies the best matching promotion for the quantity,
	// then the manual discount, compounding multiplicatively, and rounds the
	// result to 2 decimal places. The variant's base price is never mutated.
	ResolveUnitPrice(ctx context.Context, v *model.Variant, quantity int, manualDiscount decimal.Decimal) (decimal.Decimal, error)

	CreatePromotion(ctx context.Context, req dto.CreatePromotionRequest) (*dto.PromotionResponse, error)
	ListPromotions(ctx context.Context, includeInactive bool) ([]dto.PromotionResponse, error)
	SetPromotionActive(ctx context.Context, id uuid.UUID, active bool) error
}

type pricingService struct {
	promos repository.PromotionRepository
}

func NewPricingService(promos repository.PromotionRepository) PricingService {
	return &pricingService{promos: promos}
}

func (s *pricingService) ResolveUnitPrice(ctx context.Context, v *model.Variant, quantity int, manualDiscount decimal.Decimal) (decimal.Decimal, error) {
	if manualDiscount.IsNegative() || manualDiscount.GreaterThan(hundred) {
		return decimal.Zero, errors.New("manual discount must be between 0 and 100")
	}

	price := v.Price

	// Best promotion = highest discount among active rules whose minimum
	// quantity is met, variant-specific or store-wide.
	promo, err := s.promos.FindBest(ctx, v.ID, quantity)
	if err != nil {
		return decimal.Zero, err
	}
	if promo != nil {
		price = price.Mul(hundred.Sub(promo.DiscountPercent)).Div(hundred)
	}

	if manualDiscount.IsPositive() {
		price = price.Mul(hundred.Sub(manualDiscount)).Div(hundred)
	}

	return price.Round(2), nil
}

func (s *pricingService) CreatePromotion(ctx context.Context, req dto.CreatePromotionRequest) (*dto.PromotionResponse, error) {
	if req.DiscountPercent.LessThanOrEqual(decimal.Zero) || req.DiscountPercent.GreaterThan(hundred) {
		return nil, errors.New("discount_percent must be between 0 and 100")
	}

	promo := &model.Promotion{
		Name:            req.Name,
		IsActive:        true,
		MinQuantity:     req.MinQuantity,
		DiscountPercent: req.DiscountPercent,
	}
	if promo.MinQuantity < 1 {
		promo.MinQuantity = 1
	}
	if req.VariantID != nil {
		vid, err := uuid.Parse(*req.VariantID)
		if err != nil {
			return nil, errors.New("invalid variant_id")
		}
		promo.VariantID = &vid
	}

	if err := s.promos.Create(ctx, promo); err != nil {
		return nil, err
	}
	resp := promotionToResponse(promo)
	return &resp, nil
}

func (s *pricingService) ListPromotions(ctx context.Context, includeInactive bool) ([]dto.PromotionResponse, error) {
	promos, err := s.promos.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PromotionResponse, len(promos))
	for i := range promos {
		resp[i] = promotionToResponse(&promos[i])
	}
	return resp, nil
}

func (s *pricingService) SetPromotionActive(ctx context.Context, id uuid.UUID, active bool) error {
	return s.promos.SetActive(ctx, id, active)
}

func promotionToResponse(p *model.Promotion) dto.PromotionResponse {
	resp := dto.PromotionResponse{
		ID:              p.ID.String(),
		Name:            p.Name,
		IsActive:        p.IsActive,
		MinQuantity:     p.MinQuantity,
		DiscountPercent: p.DiscountPercent,
	}
	if p.VariantID != nil {
		vid := p.VariantID.String()
		resp.VariantID = &vid
	}
	return resp
}
