package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order status constants. Status names are the customer-facing Spanish labels.
const (
	OrderStatusPending   = "Pendiente"
	OrderStatusProcessed = "Procesado"
	OrderStatusShipped   = "Enviado"
	OrderStatusDelivered = "Entregado"
	OrderStatusCancelled = "Cancelado"
)

// AllowedOrderStatuses lists every valid order status transition target
var AllowedOrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessed,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Order represents a placed order owned by a user
type Order struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	User      *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status    string          `gorm:"type:varchar(50);not null;default:'Pendiente'" json:"status"`
	Total     decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total"`
	Items     []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// OrderItem is a line item within an order. Name and UnitPrice are snapshots
// taken at purchase time; ProductID is nil for ad-hoc items (e.g. custom kits).
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	Type      *string         `gorm:"type:varchar(50)" json:"type"`
	ProductID *uint           `gorm:"index" json:"product_id"`
	Name      string          `gorm:"type:varchar(200);not null" json:"name"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Quantity  int             `gorm:"type:int;not null" json:"quantity"`
	Detail    string          `gorm:"type:text" json:"detail,omitempty"`
}
