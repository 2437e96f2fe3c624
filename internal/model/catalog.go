package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"size:128;not null" json:"name"`
	PictureURL string `gorm:"size:512" json:"picture_url"`
}

func (Category) TableName() string { return "categories" }

type College struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:128;not null" json:"name"`
}

func (College) TableName() string { return "colleges" }

type Program struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	CollegeID uint   `gorm:"index;not null" json:"college_id"`
	Name      string `gorm:"size:128;not null" json:"name"`
}

func (Program) TableName() string { return "programs" }

type Shop struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	Name      string   `gorm:"size:128;not null" json:"name"`
	Acronym   string   `gorm:"size:32" json:"acronym"`
	LogoURL   string   `gorm:"size:512" json:"logo_url"`
	Email     string   `gorm:"size:128" json:"email"`
	SocmedURL string   `gorm:"size:512" json:"socmed_url"`
	CollegeID *uint    `gorm:"index" json:"college_id"`
	College   *College `json:"colleges,omitempty"`
}

func (Shop) TableName() string { return "shops" }

// Officer links a user to a shop they manage.
type Officer struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"size:64;index;not null" json:"user_id"`
	ShopID uint   `gorm:"index;not null" json:"shop_id"`
	Shop   *Shop  `json:"shops,omitempty"`
}

func (Officer) TableName() string { return "officers" }

type Merchandise struct {
	ID                   uint                  `gorm:"primaryKey" json:"id"`
	Name                 string                `gorm:"size:256;index;not null" json:"name"`
	Description          string                `gorm:"type:text" json:"description"`
	ReceivingInformation string                `gorm:"type:text" json:"receiving_information"`
	OnlinePayment        bool                  `gorm:"not null;default:false" json:"online_payment"`
	PhysicalPayment      bool                  `gorm:"not null;default:false" json:"physical_payment"`
	ShopID               uint                  `gorm:"index;not null" json:"shop_id"`
	Shop                 *Shop                 `json:"shops,omitempty"`
	Pictures             []MerchandisePicture  `gorm:"foreignKey:MerchID" json:"merchandise_pictures"`
	Variants             []Variant             `gorm:"foreignKey:MerchID" json:"variants"`
	Categories           []MerchandiseCategory `gorm:"foreignKey:MerchID" json:"merchandise_categories"`
	CreatedAt            time.Time             `json:"created_at"`
}

func (Merchandise) TableName() string { return "merchandises" }

// FirstVariantPrice is the sort key of the price modes. Records without
// variants sort as zero.
func (m *Merchandise) FirstVariantPrice() decimal.Decimal {
	if len(m.Variants) == 0 {
		return decimal.Zero
	}
	return m.Variants[0].OriginalPrice
}

func (m *Merchandise) Variant(id uint) *Variant {
	for i := range m.Variants {
		if m.Variants[i].ID == id {
			return &m.Variants[i]
		}
	}
	return nil
}

func (m *Merchandise) HasCategory(catIDs map[uint]struct{}) bool {
	for _, link := range m.Categories {
		if _, ok := catIDs[link.CatID]; ok {
			return true
		}
	}
	return false
}

type MerchandisePicture struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	MerchID    uint   `gorm:"index;not null" json:"merch_id"`
	PictureURL string `gorm:"size:512;not null" json:"picture_url"`
}

func (MerchandisePicture) TableName() string { return "merchandise_pictures" }

type Variant struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	MerchID         uint            `gorm:"index;not null" json:"merch_id"`
	Name            string          `gorm:"size:128;not null" json:"name"`
	PictureURL      string          `gorm:"size:512" json:"picture_url"`
	OriginalPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"original_price"`
	MembershipPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"membership_price"`
	Sizes           []Size          `gorm:"foreignKey:VariantID" json:"sizes"`
}

func (Variant) TableName() string { return "variants" }

func (v *Variant) Sized() bool { return len(v.Sizes) > 0 }

func (v *Variant) Size(id uint) *Size {
	for i := range v.Sizes {
		if v.Sizes[i].ID == id {
			return &v.Sizes[i]
		}
	}
	return nil
}

// DefaultSizeID is the size preselected when the variant is chosen: the
// first size of a sized variant, nil otherwise.
func (v *Variant) DefaultSizeID() *uint {
	if !v.Sized() {
		return nil
	}
	id := v.Sizes[0].ID
	return &id
}

// Prices returns the original and membership unit prices for the selection.
// A selected size overrides the variant prices.
func (v *Variant) Prices(sizeID *uint) (original, membership decimal.Decimal) {
	if sizeID != nil {
		if s := v.Size(*sizeID); s != nil {
			return s.OriginalPrice, s.MembershipPrice
		}
	}
	return v.OriginalPrice, v.MembershipPrice
}

type Size struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	VariantID       uint            `gorm:"index;not null" json:"variant_id"`
	Name            string          `gorm:"size:64;not null" json:"name"`
	OriginalPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"original_price"`
	MembershipPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"membership_price"`
}

func (Size) TableName() string { return "sizes" }

type MerchandiseCategory struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	MerchID uint `gorm:"index;not null" json:"merch_id"`
	CatID   uint `gorm:"index;not null" json:"cat_id"`
}

func (MerchandiseCategory) TableName() string { return "merchandise_categories" }
