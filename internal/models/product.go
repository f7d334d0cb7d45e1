// internal/models/product.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryAccessories Category = "accessories"
	CategoryGifts       Category = "gifts"
)

func (c Category) Valid() bool {
	return c == CategoryAccessories || c == CategoryGifts
}

// Subcategory vocabularies are static enumerations, one per category. A
// subcategory is never carried across categories.
var subcategories = map[Category][]string{
	CategoryAccessories: {"earrings", "necklaces", "bracelets", "rings", "hair"},
	CategoryGifts:       {"hampers", "frames", "candles", "keepsakes"},
}

func Subcategories(c Category) []string {
	return subcategories[c]
}

func ValidSubcategory(c Category, sub string) bool {
	for _, s := range subcategories[c] {
		if s == sub {
			return true
		}
	}
	return false
}

// Product is the remote catalog entity. The JSON tags are the wire contract
// shared by the console and the store; the gorm tags are only exercised by
// the store's persistence layer.
//
// Image and Price are legacy fields kept for consumers that predate ImageURL
// and OriginalPrice. AvailableQuantity is only interpreted for accessories;
// absence means "unlimited".
type Product struct {
	ID                string         `json:"id" gorm:"type:uuid;primaryKey"`
	Title             string         `json:"title" gorm:"size:255;not null"`
	Description       string         `json:"description,omitempty" gorm:"type:text"`
	Category          Category       `json:"category" gorm:"size:20;not null;index"`
	Subcategory       string         `json:"subcategory,omitempty" gorm:"size:50"`
	Price             string         `json:"price,omitempty" gorm:"size:50"`
	OriginalPrice     string         `json:"originalPrice,omitempty" gorm:"size:50"`
	OfferPrice        string         `json:"offerPrice,omitempty" gorm:"size:50"`
	Badge             string         `json:"badge,omitempty" gorm:"size:50"`
	Image             string         `json:"image,omitempty" gorm:"type:text"`
	ImageURL          string         `json:"imageUrl,omitempty" gorm:"type:text"`
	AvailableQuantity *int           `json:"availableQuantity,omitempty"`
	CreatedAt         time.Time      `json:"createdAt,omitempty"`
	UpdatedAt         time.Time      `json:"updatedAt,omitempty"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ImageRef resolves the dual image fields: imageUrl takes precedence over
// the legacy image field, whichever is non-empty is authoritative.
func (p *Product) ImageRef() string {
	if p.ImageURL != "" {
		return p.ImageURL
	}
	return p.Image
}

// DisplayPrice resolves the dual price fields the same way: originalPrice
// over the legacy price.
func (p *Product) DisplayPrice() string {
	if p.OriginalPrice != "" {
		return p.OriginalPrice
	}
	return p.Price
}

// Catalog is the full two-category snapshot returned by GET /products. The
// console replaces it wholesale on every load, never patches it.
type Catalog struct {
	Accessories []Product `json:"accessories"`
	Gifts       []Product `json:"gifts"`
}

// Find looks a product up by id in either list.
func (c *Catalog) Find(id string) (*Product, bool) {
	for i := range c.Accessories {
		if c.Accessories[i].ID == id {
			return &c.Accessories[i], true
		}
	}
	for i := range c.Gifts {
		if c.Gifts[i].ID == id {
			return &c.Gifts[i], true
		}
	}
	return nil, false
}
