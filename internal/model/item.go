package model

import "github.com/google/uuid"

// Item is a sellable product belonging to exactly one shop. Code is the
// shop-scoped business identifier (unique per shop, enforced at write time
// in the service on top of the composite index).
type Item struct {
	BaseModel
	Code                string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_items_shop_code" json:"item_id" validate:"required"`
	Name                string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Type                string    `gorm:"type:varchar(100);not null" json:"type" validate:"required"`
	NumOfItems          int       `gorm:"default:0" json:"num_of_items"` // Stock on hand
	SellingPricePerUnit float64   `gorm:"not null" json:"selling_price_per_unit" validate:"gte=0"`
	ActualPricePerUnit  float64   `gorm:"not null" json:"actual_price_per_unit" validate:"gte=0"`
	ShopID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_items_shop_code" json:"shop_id" validate:"uuid_required"`
	Shop                *Shop     `gorm:"foreignKey:ShopID" json:"shop,omitempty" validate:"-"`

	// Relations
	OrderDetails []OrderDetail `gorm:"foreignKey:ItemID" json:"order_details,omitempty" validate:"-"`
}
