package service

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"
	"storefront/internal/notify"
	"storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// Sentinel errors the handlers map to HTTP status codes
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

type OrderItemPayload struct {
	Type      *string `json:"type"`
	ProductID *uint   `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Detail    string  `json:"detail"`
}

type CreateOrderRequest struct {
	Items []OrderItemPayload `json:"items" binding:"required"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// StatusNotifier delivers order status notifications without blocking the
// caller. Implementations either dispatch directly on a goroutine or publish
// to a message queue.
type StatusNotifier interface {
	NotifyOrderStatusAsync(evt notify.OrderStatusEvent)
}

// StatusBroadcaster pushes order status changes to connected clients.
type StatusBroadcaster interface {
	BroadcastOrderStatus(orderID, ownerID uint, status string)
}

type OrderService interface {
	Create(ctx context.Context, userID uint, req CreateOrderRequest) (*model.Order, error)
	GetByID(ctx context.Context, id, requesterID uint, isAdmin bool) (*model.Order, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id uint, status string) (*model.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	txManager   repository.TransactionManager
	notifier    StatusNotifier
	broadcaster StatusBroadcaster
}

// NewOrderService wires the order flow. notifier and broadcaster may be nil
// when the corresponding channel is not configured.
func NewOrderService(orderRepo repository.OrderRepository, txManager repository.TransactionManager, notifier StatusNotifier, broadcaster StatusBroadcaster) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		txManager:   txManager,
		notifier:    notifier,
		broadcaster: broadcaster,
	}
}

const orderItemNameMaxLen = 200

// normalizeOrderItems applies the snapshot rules: names are bounded, prices
// never negative, quantities at least one. The order total is recomputed
// server-side and never trusted from the client.
func normalizeOrderItems(payloads []OrderItemPayload) ([]model.OrderItem, decimal.Decimal) {
	items := make([]model.OrderItem, 0, len(payloads))
	total := decimal.Zero

	for _, p := range payloads {
		name := p.Name
		if name == "" {
			name = "Item"
		}
		if runes := []rune(name); len(runes) > orderItemNameMaxLen {
			name = string(runes[:orderItemNameMaxLen])
		}

		price := decimal.NewFromFloat(p.UnitPrice)
		if price.IsNegative() {
			price = decimal.Zero
		}

		qty := p.Quantity
		if qty < 1 {
			qty = 1
		}

		total = total.Add(price.Mul(decimal.NewFromInt(int64(qty))))
		items = append(items, model.OrderItem{
			Type:      p.Type,
			ProductID: p.ProductID,
			Name:      name,
			UnitPrice: price,
			Quantity:  qty,
			Detail:    p.Detail,
		})
	}

	return items, total
}

func (s *orderService) Create(ctx context.Context, userID uint, req CreateOrderRequest) (*model.Order, error) {
	if len(req.Items) == 0 {
		return nil, errors.New("order needs at least one item")
	}

	items, total := normalizeOrderItems(req.Items)

	order := &model.Order{
		UserID: userID,
		Status: model.OrderStatusPending,
		Total:  total,
		Items:  items,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.orderRepo.Create(txCtx, order)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return order, nil
}

func (s *orderService) GetByID(ctx context.Context, id, requesterID uint, isAdmin bool) (*model.Order, error) {
	order, err := s.orderRepo.FindByIDWithItems(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if !isAdmin && order.UserID != requesterID {
		return nil, ErrForbidden
	}
	return order, nil
}

func (s *orderService) ListByUser(ctx context.Context, userID uint) ([]model.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

func (s *orderService) ListAll(ctx context.Context) ([]model.Order, error) {
	return s.orderRepo.ListAll(ctx)
}

// UpdateStatus transitions an order and kicks off customer notification.
// Notification is strictly fire-and-forget: the response never waits on, nor
// fails because of, email or SMS delivery.
func (s *orderService) UpdateStatus(ctx context.Context, id uint, status string) (*model.Order, error) {
	valid := false
	for _, allowed := range model.AllowedOrderStatuses {
		if status == allowed {
			valid = true
			break
		}
	}
	if !valid {
		return nil, errors.New("invalid status")
	}

	order, err := s.orderRepo.FindByIDWithUser(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = status

	if s.notifier != nil && order.User != nil {
		s.notifier.NotifyOrderStatusAsync(notify.OrderStatusEvent{
			OrderID:  order.ID,
			Status:   status,
			Username: order.User.Username,
			Email:    order.User.Email,
			Phone:    order.User.Phone,
		})
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastOrderStatus(order.ID, order.UserID, status)
	}

	return order, nil
}
