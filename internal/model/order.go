package model

import "github.com/google/uuid"

type OrderStatus string

const (
	StatusInProgress OrderStatus = "inprogress"
	StatusDone       OrderStatus = "done"
	StatusCancel     OrderStatus = "cancel"
)

// PaymentCancel is forced onto an order's payment type when it is cancelled
const PaymentCancel = "cancel"

// Valid reports whether s is one of the known lifecycle states
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusInProgress, StatusDone, StatusCancel:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s
func (s OrderStatus) Terminal() bool {
	return s == StatusDone || s == StatusCancel
}

// Order is the sale header. It belongs to one shop and one cashier and owns
// its order details; deleting an order cascades to the details.
type Order struct {
	BaseModel
	CashierID         uuid.UUID   `gorm:"type:uuid;not null;index" json:"cashier_id"`
	Cashier           *User       `gorm:"foreignKey:CashierID" json:"cashier,omitempty"`
	ShopID            uuid.UUID   `gorm:"type:uuid;not null;index" json:"shop_id"`
	Shop              *Shop       `gorm:"foreignKey:ShopID" json:"shop,omitempty"`
	TotalSellingPrice float64     `gorm:"not null" json:"total_selling_price"`
	TotalActualPrice  float64     `gorm:"not null" json:"total_actual_price"`
	Status            OrderStatus `gorm:"type:varchar(20);not null;default:'inprogress';index" json:"status"`
	PaymentType       string      `gorm:"type:varchar(50);not null;default:'inprogress'" json:"payment_type"`
	Comment           string      `gorm:"type:varchar(255)" json:"comment,omitempty"`
	KotID             string      `gorm:"type:varchar(255);index" json:"kot_id,omitempty"` // Kitchen-order-ticket correlation id

	// Relations
	OrderDetails []OrderDetail `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_details,omitempty"`
}

// OrderDetail is one line of an order. NumOfItems and TotalPricePerUnits are
// snapshots taken at order time: later price changes on the item must never
// alter a recorded line.
type OrderDetail struct {
	BaseModel
	OrderID            uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ItemID             uuid.UUID `gorm:"type:uuid;not null;index" json:"item_id"`
	Item               *Item     `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Type               string    `gorm:"type:varchar(100);not null" json:"type"`
	NeededAmount       float64   `gorm:"default:0" json:"needed_amount"`
	NumOfItems         int       `gorm:"not null" json:"num_of_items"`
	TotalPricePerUnits float64   `gorm:"not null" json:"total_price_per_units"` // Line total, price-snapshotted
}
