package model

// Shop is a point-of-sale location. Items, users and orders hang off it;
// deleting a shop cascades to all of them.
type Shop struct {
	BaseModel
	Name   string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Branch string `gorm:"type:varchar(255)" json:"branch"`

	// Relations
	Users  []User  `gorm:"foreignKey:ShopID;constraint:OnDelete:CASCADE" json:"users,omitempty"`
	Items  []Item  `gorm:"foreignKey:ShopID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Orders []Order `gorm:"foreignKey:ShopID;constraint:OnDelete:CASCADE" json:"orders,omitempty"`
}
