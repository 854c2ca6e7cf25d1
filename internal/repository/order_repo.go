package repository

import (
	"context"

	"storefront/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByIDWithItems(ctx context.Context, id uint) (*model.Order, error)
	FindByIDWithUser(ctx context.Context, id uint) (*model.Order, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	ListByUser(ctx context.Context, userID uint) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	ListProductLinkedItems(ctx context.Context) ([]model.OrderItem, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *orderRepository) FindByIDWithItems(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	if err := GetDB(ctx, r.db).
		Preload("Items").
		Preload("User").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByIDWithUser(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	if err := GetDB(ctx, r.db).
		Preload("User").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return GetDB(ctx, r.db).Model(&model.Order{}).Where("id = ?", id).Update("status", status).Error
}

func (r *orderRepository) ListByUser(ctx context.Context, userID uint) ([]model.Order, error) {
	var orders []model.Order
	if err := GetDB(ctx, r.db).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := GetDB(ctx, r.db).
		Preload("Items").
		Preload("User").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListProductLinkedItems returns every order item carrying a product
// reference, in one bulk read. This feeds the sales export aggregation.
func (r *orderRepository) ListProductLinkedItems(ctx context.Context) ([]model.OrderItem, error) {
	var items []model.OrderItem
	if err := GetDB(ctx, r.db).
		Where("product_id IS NOT NULL").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
