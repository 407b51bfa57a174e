package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dely/internal/models"
	"dely/internal/repositories"
)

var ErrProductUnavailable = errors.New("product is not available")

// CartSummary is the cart listing plus its running totals.
type CartSummary struct {
	Items    []*models.CartItem `json:"items"`
	Subtotal decimal.Decimal    `json:"subtotal"`
	Count    int                `json:"count"`
}

type CartServiceInterface interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*CartSummary, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	UpdateItem(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

type cartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) CartServiceInterface {
	return &cartService{cartRepo: cartRepo, productRepo: productRepo}
}

func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartSummary, error) {
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &CartSummary{Items: items, Subtotal: decimal.Zero}
	if summary.Items == nil {
		summary.Items = []*models.CartItem{}
	}
	for _, item := range items {
		summary.Subtotal = summary.Subtotal.Add(item.LineTotal())
		summary.Count += item.Quantity
	}
	return summary, nil
}

func (s *cartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return errors.New("quantity must be positive")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil || !product.IsAvailable {
		return ErrProductUnavailable
	}
	if quantity < product.MinOrderQuantity {
		return fmt.Errorf("minimum order quantity for %s is %d", product.Name, product.MinOrderQuantity)
	}
	if quantity > product.StockQuantity {
		return fmt.Errorf("only %d units of %s in stock", product.StockQuantity, product.Name)
	}

	return s.cartRepo.Upsert(ctx, userID, productID, quantity)
}

func (s *cartService) UpdateItem(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return s.cartRepo.Delete(ctx, userID, productID)
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil || !product.IsAvailable {
		return ErrProductUnavailable
	}
	if quantity > product.StockQuantity {
		return fmt.Errorf("only %d units of %s in stock", product.StockQuantity, product.Name)
	}

	return s.cartRepo.UpdateQuantity(ctx, userID, productID, quantity)
}

func (s *cartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	return s.cartRepo.Delete(ctx, userID, productID)
}

func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return s.cartRepo.Clear(ctx, userID)
}
