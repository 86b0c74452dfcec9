package models

import (
	"time"

	"gorm.io/datatypes"
)

// PlaceholderImage is shown for products that have no images.
const PlaceholderImage = "https://via.placeholder.com/150x150?text=No+Image"

type Product struct {
	ID          string                      `bson:"_id" json:"_id" gorm:"primaryKey;size:24"`
	Title       string                      `bson:"title" json:"title" gorm:"not null"`
	Price       float64                     `bson:"price" json:"price" gorm:"index"`
	Colors      datatypes.JSONSlice[string] `bson:"colors" json:"colors"`
	Description string                      `bson:"description" json:"description"`
	Images      ImageList                   `bson:"images" json:"images"`
	Category    string                      `bson:"category" json:"category" gorm:"index;size:128"`
	Stock       int                         `bson:"stock" json:"stock"`
	Rating      float64                     `bson:"rating" json:"rating"`
	Brand       string                      `bson:"brand" json:"brand" gorm:"index;size:128"`
	CreatedAt   time.Time                   `bson:"createdAt" json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time                   `bson:"updatedAt" json:"updatedAt"`
}

// DisplayImage returns the first product image or the placeholder.
func (p *Product) DisplayImage() string {
	if img, ok := p.Images.First(); ok {
		return img
	}
	return PlaceholderImage
}
