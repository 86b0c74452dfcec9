package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	OrderStatusPending        = "pending"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusShipped        = "shipped"
	OrderStatusOutForDelivery = "out-for-delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

// OrderStatuses lists every status in fulfilment order, cancelled last.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

var PaymentMethods = []string{"paypal", "credit_card", "mada", "apple_pay"}

var PaymentStatuses = []string{"pending", "completed", "failed", "refunded", "COMPLETED", "PENDING", "FAILED"}

type OrderItem struct {
	ProductID string  `bson:"product" json:"product"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Price     float64 `bson:"price" json:"price"`
}

type ShippingAddress struct {
	Name    string `bson:"name" json:"name"`
	Address string `bson:"address" json:"address"`
	Email   string `bson:"email" json:"email"`
}

type PaymentInfo struct {
	Method        string            `bson:"method" json:"method" gorm:"size:32"`
	TransactionID string            `bson:"transactionId" json:"transactionId" gorm:"size:128"`
	Status        string            `bson:"status" json:"status" gorm:"size:32"`
	Amount        float64           `bson:"amount" json:"amount"`
	Currency      string            `bson:"currency" json:"currency" gorm:"size:8"`
	Details       datatypes.JSONMap `bson:"details,omitempty" json:"details,omitempty"`
}

type Order struct {
	ID                string                         `bson:"_id" json:"_id" gorm:"primaryKey;size:24"`
	UserID            string                         `bson:"user" json:"user" gorm:"index;size:24;not null"`
	Items             datatypes.JSONSlice[OrderItem] `bson:"items" json:"items"`
	TotalAmount       float64                        `bson:"totalAmount" json:"totalAmount"`
	ShippingAddress   ShippingAddress                `bson:"shippingAddress" json:"shippingAddress" gorm:"embedded;embeddedPrefix:shipping_"`
	PaymentInfo       PaymentInfo                    `bson:"paymentInfo" json:"paymentInfo" gorm:"embedded;embeddedPrefix:payment_"`
	Status            string                         `bson:"status" json:"status" gorm:"index;size:32"`
	TrackingNumber    *string                        `bson:"trackingNumber,omitempty" json:"trackingNumber,omitempty"`
	EstimatedDelivery *time.Time                     `bson:"estimatedDelivery,omitempty" json:"estimatedDelivery,omitempty"`
	OrderDate         time.Time                      `bson:"orderDate" json:"orderDate" gorm:"index"`
	CreatedAt         time.Time                      `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time                      `bson:"updatedAt" json:"updatedAt"`
}

// StatusRank is the position of status in the fulfilment sequence, or -1.
func StatusRank(status string) int {
	for i, s := range OrderStatuses {
		if s == status {
			return i
		}
	}
	return -1
}

func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled
}
