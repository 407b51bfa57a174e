package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/random"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"dely/internal/caching"
	"dely/internal/common"
	"dely/internal/config"
	"dely/internal/models"
	"dely/internal/repositories"
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrOrderNotFound  = errors.New("order not found")
	ErrOrderTerminal  = errors.New("order can no longer be cancelled")
	ErrMissingAddress = errors.New("delivery address is required")
)

// Free delivery kicks in at the subtotal threshold; below it a flat
// charge applies. The order tax is a flat estimate; the invoice
// pipeline computes the real HSN-based breakup.
var (
	freeDeliveryThreshold = decimal.NewFromInt(1000)
	deliveryChargeFlat    = decimal.NewFromInt(50)
	orderTaxRate          = decimal.RequireFromString("0.18")
)

// CreateOrderInput carries everything the checkout endpoint accepts.
type CreateOrderInput struct {
	DeliveryLocationID *uuid.UUID              `json:"delivery_location_id"`
	DeliveryAddress    *models.DeliveryAddress `json:"delivery_address"`
	PaymentMethod      string                  `json:"payment_method"`
	Notes              string                  `json:"notes"`
}

// OrderWithItems pairs an order with its line items for detail views.
type OrderWithItems struct {
	*models.Order
	Items []*models.OrderItem `json:"items"`
}

// TrackingInfo is the payload of the order tracking endpoint.
type TrackingInfo struct {
	OrderNumber    string     `json:"order_number"`
	Status         string     `json:"status"`
	TrackingNumber *string    `json:"tracking_number"`
	UpdatedAt      time.Time  `json:"updated_at"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
}

type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*models.Order, error)
	GetOrderForUser(ctx context.Context, userID uuid.UUID, identifier string) (*OrderWithItems, error)
	ListOrdersForUser(ctx context.Context, userID uuid.UUID, status *string, limit, offset int) ([]*models.Order, int, error)
	CancelOrder(ctx context.Context, userID uuid.UUID, identifier string, reason *string) error
	TrackOrder(ctx context.Context, userID uuid.UUID, identifier string) (*TrackingInfo, error)

	// Admin operations, no user scoping.
	GetOrder(ctx context.Context, identifier string) (*OrderWithItems, error)
	ListOrders(ctx context.Context, status *string, limit, offset int) ([]*models.Order, int, error)
	UpdateStatus(ctx context.Context, identifier, status string, trackingNumber *string) (*models.Order, error)
}

type orderService struct {
	orderRepo            repositories.OrderRepository
	orderItemRepo        repositories.OrderItemRepository
	cartRepo             repositories.CartRepository
	productRepo          repositories.ProductRepository
	deliveryLocationRepo repositories.DeliveryLocationRepository
	cache                caching.CacheService
	log                  *logrus.Logger
}

// NewOrderService creates a new order service instance
func NewOrderService(
	orderRepo repositories.OrderRepository,
	orderItemRepo repositories.OrderItemRepository,
	cartRepo repositories.CartRepository,
	productRepo repositories.ProductRepository,
	deliveryLocationRepo repositories.DeliveryLocationRepository,
	cache caching.CacheService,
) OrderServiceInterface {
	return &orderService{
		orderRepo:            orderRepo,
		orderItemRepo:        orderItemRepo,
		cartRepo:             cartRepo,
		productRepo:          productRepo,
		deliveryLocationRepo: deliveryLocationRepo,
		cache:                cache,
		log:                  config.GetLogger(),
	}
}

// invalidateInvoice drops the cached invoice payload after an order
// mutation so the next fetch rebuilds from current state. Cache errors
// are logged, not surfaced; the write already succeeded.
func (s *orderService) invalidateInvoice(ctx context.Context, orderID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteInvoiceJSON(ctx, orderID); err != nil {
		s.log.WithError(err).WithField("order_id", orderID).Warn("invoice cache invalidation failed")
	}
}

// invalidateProducts drops cached product entries whose stock just
// changed with the checkout transaction.
func (s *orderService) invalidateProducts(ctx context.Context, items []*models.OrderItem) {
	if s.cache == nil {
		return
	}
	for _, item := range items {
		if item.ProductID == nil {
			continue
		}
		if err := s.cache.DeleteProduct(ctx, *item.ProductID); err != nil {
			s.log.WithError(err).WithField("product_id", *item.ProductID).Warn("product cache invalidation failed")
		}
	}
}

// generateOrderNumber builds DELY{unix-timestamp}{6 digits}. The random
// tail keeps concurrent checkouts in the same second distinct.
func generateOrderNumber() string {
	return fmt.Sprintf("DELY%d%s", time.Now().Unix(), random.String(6, random.Numeric))
}

func (s *orderService) resolveAddress(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (models.DeliveryAddress, error) {
	if input.DeliveryLocationID != nil {
		location, err := s.deliveryLocationRepo.GetByIDForUser(ctx, *input.DeliveryLocationID, userID)
		if err != nil {
			return models.DeliveryAddress{}, err
		}
		if location == nil {
			return models.DeliveryAddress{}, ErrMissingAddress
		}
		return location.ToDeliveryAddress(), nil
	}
	if input.DeliveryAddress == nil || input.DeliveryAddress.Line1() == "" {
		return models.DeliveryAddress{}, ErrMissingAddress
	}
	return *input.DeliveryAddress, nil
}

// CreateOrder turns the user's cart into an order. Stock checks happen
// here; the decrement itself rides the insert transaction so a failed
// checkout never eats inventory.
func (s *orderService) CreateOrder(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*models.Order, error) {
	address, err := s.resolveAddress(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	cartItems, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, ErrEmptyCart
	}

	subtotal := decimal.Zero
	discount := decimal.Zero
	orderID := uuid.New()
	items := make([]*models.OrderItem, 0, len(cartItems))
	for _, ci := range cartItems {
		p := ci.Product
		if p == nil || !p.IsAvailable {
			return nil, fmt.Errorf("product in cart is no longer available")
		}
		if ci.Quantity > p.StockQuantity {
			return nil, fmt.Errorf("only %d units of %s in stock", p.StockQuantity, p.Name)
		}

		qty := decimal.NewFromInt(int64(ci.Quantity))
		lineSubtotal := p.SellingPrice.Mul(qty)
		subtotal = subtotal.Add(lineSubtotal)
		if saved := p.MRP.Sub(p.SellingPrice); saved.IsPositive() {
			discount = discount.Add(saved.Mul(qty))
		}

		productID := p.ID
		items = append(items, &models.OrderItem{
			ID:          uuid.New(),
			OrderID:     orderID,
			ProductID:   &productID,
			ProductName: p.Name,
			Quantity:    ci.Quantity,
			Price:       p.SellingPrice,
			Subtotal:    lineSubtotal,
		})
	}

	deliveryCharge := deliveryChargeFlat
	if subtotal.GreaterThanOrEqual(freeDeliveryThreshold) {
		deliveryCharge = decimal.Zero
	}
	tax := subtotal.Mul(orderTaxRate)
	total := subtotal.Add(tax).Add(deliveryCharge)

	order := &models.Order{
		ID:              orderID,
		OrderNumber:     generateOrderNumber(),
		UserID:          &userID,
		Status:          models.OrderStatusPending,
		PaymentMethod:   common.StringPtr(input.PaymentMethod),
		PaymentStatus:   models.PaymentStatusPending,
		DeliveryAddress: address,
		Subtotal:        subtotal,
		Discount:        discount,
		DeliveryCharge:  deliveryCharge,
		Tax:             tax,
		Total:           total,
		Notes:           common.StringPtr(input.Notes),
		CreatedAt:       time.Now(),
	}

	if err := s.orderRepo.CreateWithItems(ctx, order, items); err != nil {
		return nil, err
	}
	s.invalidateProducts(ctx, items)

	s.log.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"user_id":      userID,
		"total":        order.Total.String(),
	}).Info("order created")

	return order, nil
}

func (s *orderService) withItems(ctx context.Context, order *models.Order) (*OrderWithItems, error) {
	items, err := s.orderItemRepo.ListByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.OrderItem{}
	}
	return &OrderWithItems{Order: order, Items: items}, nil
}

func (s *orderService) getScoped(ctx context.Context, userID uuid.UUID, identifier string) (*models.Order, error) {
	order, err := s.orderRepo.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserID == nil || *order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) GetOrderForUser(ctx context.Context, userID uuid.UUID, identifier string) (*OrderWithItems, error) {
	order, err := s.getScoped(ctx, userID, identifier)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, order)
}

func (s *orderService) ListOrdersForUser(ctx context.Context, userID uuid.UUID, status *string, limit, offset int) ([]*models.Order, int, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.CountByUser(ctx, userID, status)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *orderService) CancelOrder(ctx context.Context, userID uuid.UUID, identifier string, reason *string) error {
	order, err := s.getScoped(ctx, userID, identifier)
	if err != nil {
		return err
	}
	if order.IsTerminal() {
		return ErrOrderTerminal
	}

	if err := s.orderRepo.MarkCancelled(ctx, order.ID, reason); err != nil {
		return err
	}
	s.invalidateInvoice(ctx, order.ID)

	s.log.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"reason":       common.SafeString(reason),
	}).Info("order cancelled")
	return nil
}

func (s *orderService) TrackOrder(ctx context.Context, userID uuid.UUID, identifier string) (*TrackingInfo, error) {
	order, err := s.getScoped(ctx, userID, identifier)
	if err != nil {
		return nil, err
	}
	return &TrackingInfo{
		OrderNumber:    order.OrderNumber,
		Status:         order.Status,
		TrackingNumber: order.TrackingNumber,
		UpdatedAt:      order.UpdatedAt,
		CancelledAt:    order.CancelledAt,
	}, nil
}

func (s *orderService) GetOrder(ctx context.Context, identifier string) (*OrderWithItems, error) {
	order, err := s.orderRepo.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return s.withItems(ctx, order)
}

func (s *orderService) ListOrders(ctx context.Context, status *string, limit, offset int) ([]*models.Order, int, error) {
	orders, err := s.orderRepo.List(ctx, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, status)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, identifier, status string, trackingNumber *string) (*models.Order, error) {
	order, err := s.orderRepo.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if trackingNumber != nil && *trackingNumber != "" {
		if err := s.orderRepo.UpdateTracking(ctx, order.ID, *trackingNumber); err != nil {
			return nil, err
		}
		order.TrackingNumber = trackingNumber
		s.invalidateInvoice(ctx, order.ID)
	}

	if err := s.orderRepo.UpdateStatus(ctx, order.ID, status); err != nil {
		return nil, err
	}
	order.Status = status
	s.invalidateInvoice(ctx, order.ID)

	s.log.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"status":       status,
		"tracking":     common.SafeString(trackingNumber),
	}).Info("order status updated")

	return order, nil
}
