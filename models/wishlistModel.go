package models

import "time"

type WishlistEntry struct {
	ID        string    `bson:"_id" json:"_id" gorm:"primaryKey;size:24"`
	UserID    string    `bson:"userId" json:"userId" gorm:"uniqueIndex:idx_wishlist_user_product;size:24;not null"`
	ProductID string    `bson:"productId" json:"productId" gorm:"uniqueIndex:idx_wishlist_user_product;size:24;not null"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt" gorm:"index"`
}
