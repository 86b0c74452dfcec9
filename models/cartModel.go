package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type CartItem struct {
	ProductID string  `bson:"product" json:"product"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Price     float64 `bson:"price" json:"price"`
	Color     string  `bson:"color,omitempty" json:"color,omitempty"`
}

type Cart struct {
	ID        string                        `bson:"_id" json:"_id" gorm:"primaryKey;size:24"`
	UserID    string                        `bson:"user" json:"user" gorm:"uniqueIndex;size:24;not null"`
	Items     datatypes.JSONSlice[CartItem] `bson:"items" json:"items"`
	Total     float64                       `bson:"total" json:"total"`
	CreatedAt time.Time                     `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time                     `bson:"updatedAt" json:"updatedAt"`
}

func (c *Cart) find(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddItem merges quantity into an existing line for the product or appends a
// new line. The price snapshot is refreshed either way.
func (c *Cart) AddItem(productID string, quantity int, price float64, color string) {
	if i := c.find(productID); i >= 0 {
		c.Items[i].Quantity += quantity
		c.Items[i].Price = price
		if color != "" {
			c.Items[i].Color = color
		}
	} else {
		c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: quantity, Price: price, Color: color})
	}
	c.RecalculateTotal()
}

// SetQuantity replaces the quantity of an existing line. It reports false when
// the product is not in the cart.
func (c *Cart) SetQuantity(productID string, quantity int, price float64) bool {
	i := c.find(productID)
	if i < 0 {
		return false
	}
	c.Items[i].Quantity = quantity
	c.Items[i].Price = price
	c.RecalculateTotal()
	return true
}

func (c *Cart) RemoveItem(productID string) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	c.Items = kept
	c.RecalculateTotal()
}

func (c *Cart) Clear() {
	c.Items = datatypes.JSONSlice[CartItem]{}
	c.Total = 0
}

func (c *Cart) ProductIDs() []string {
	ids := make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

func (c *Cart) RecalculateTotal() {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	c.Total = total.InexactFloat64()
}
