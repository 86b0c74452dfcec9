package models

import (
	"time"

	"gorm.io/datatypes"
)

type Address struct {
	ID         string `bson:"_id" json:"_id"`
	Street     string `bson:"street" json:"street"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state" json:"state"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	Country    string `bson:"country" json:"country"`
	IsDefault  bool   `bson:"isDefault" json:"isDefault"`
}

type PaymentMethod struct {
	ID          string `bson:"_id" json:"_id"`
	CardType    string `bson:"cardType" json:"cardType"`
	Last4Digits string `bson:"last4Digits" json:"last4Digits"`
	ExpiryDate  string `bson:"expiryDate" json:"expiryDate"`
	IsDefault   bool   `bson:"isDefault" json:"isDefault"`
}

type User struct {
	ID             string                             `bson:"_id" json:"_id" gorm:"primaryKey;size:24"`
	Username       string                             `bson:"username" json:"username" gorm:"uniqueIndex;size:64;not null"`
	Email          string                             `bson:"email" json:"email" gorm:"uniqueIndex;size:255;not null"`
	Password       string                             `bson:"password" json:"-" gorm:"not null"`
	Addresses      datatypes.JSONSlice[Address]       `bson:"addresses" json:"addresses"`
	PaymentMethods datatypes.JSONSlice[PaymentMethod] `bson:"paymentMethods" json:"paymentMethods"`
	IsAdmin        bool                               `bson:"isAdmin" json:"isAdmin"`
	CreatedAt      time.Time                          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time                          `bson:"updatedAt" json:"updatedAt"`
}

// UserSummary is the public part of a user returned by auth endpoints and
// embedded in admin order listings.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Email: u.Email, IsAdmin: u.IsAdmin}
}
