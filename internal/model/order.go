package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentOnline   PaymentMethod = "online" // proof-of-payment upload
	PaymentPhysical PaymentMethod = "irl"    // paid in person
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentOnline || m == PaymentPhysical
}

func (m PaymentMethod) RequiresProof() bool {
	return m == PaymentOnline
}

type CartOrder struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	UserID      string       `gorm:"size:64;index;not null" json:"user_id"`
	Quantity    int          `gorm:"not null" json:"quantity"`
	VariantID   uint         `gorm:"not null" json:"variant_id"`
	SizeID      *uint        `json:"size_id"`
	ShopID      uint         `gorm:"not null" json:"shop_id"`
	MerchID     uint         `gorm:"not null" json:"merch_id"`
	Merchandise *Merchandise `gorm:"foreignKey:MerchID" json:"merchandises,omitempty"`
	Shop        *Shop        `json:"shops,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

func (CartOrder) TableName() string { return "cart_orders" }

// LineTotal is the display total of the entry: the selected unit original
// price times quantity. Zero when the snapshot is not loaded.
func (c *CartOrder) LineTotal() decimal.Decimal {
	if c.Merchandise == nil {
		return decimal.Zero
	}
	v := c.Merchandise.Variant(c.VariantID)
	if v == nil {
		return decimal.Zero
	}
	original, _ := v.Prices(c.SizeID)
	return original.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// OrderStatus is created empty so a new order has a status row to point at.
type OrderStatus struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

func (OrderStatus) TableName() string { return "order_statuses" }

type Order struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          string    `gorm:"size:64;index;not null" json:"user_id"`
	Quantity        int       `gorm:"not null" json:"quantity"`
	OnlinePayment   bool      `gorm:"not null" json:"online_payment"`
	PhysicalPayment bool      `gorm:"not null" json:"physical_payment"`
	VariantID       uint      `gorm:"not null" json:"variant_id"`
	MerchID         uint      `gorm:"index;not null" json:"merch_id"`
	ShopID          uint      `gorm:"index;not null" json:"shop_id"`
	SizeID          *uint     `json:"size_id"`
	StatusID        uint      `gorm:"not null" json:"status_id"`
	CreatedAt       time.Time `json:"created_at"`
}

func (Order) TableName() string { return "orders" }

type Payment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PictureURL string    `gorm:"size:512;not null" json:"picture_url"`
	OrderID    uint      `gorm:"index;not null" json:"order_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Payment) TableName() string { return "payments" }

// OrderFlag marks an order for manual resolution.
type OrderFlag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"uniqueIndex;not null" json:"order_id"`
	Reason    string    `gorm:"size:64;not null" json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

func (OrderFlag) TableName() string { return "order_flags" }

const FlagMissingPaymentProof = "missing_payment_proof"
