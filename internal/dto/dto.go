package dto

import (
	"bytes"
	"encoding/json"

	"campus-merch-store/internal/model"

	"github.com/shopspring/decimal"
)

// Quantity holds a quantity as typed by the buyer. The storefront sends a
// number or the raw text of the input field; both are accepted.
type Quantity string

func (q *Quantity) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*q = Quantity(s)
		return nil
	}
	*q = Quantity(b)
	return nil
}

type AddToCartRequest struct {
	MerchID   uint     `json:"merch_id"`
	VariantID uint     `json:"variant_id"`
	SizeID    *uint    `json:"size_id"`
	Quantity  Quantity `json:"quantity"`
}

type SetVariantRequest struct {
	VariantID uint `json:"variant_id"`
}

type SetSizeRequest struct {
	SizeID uint `json:"size_id"`
}

type SetQuantityRequest struct {
	Quantity Quantity `json:"quantity"`
}

type CartEntry struct {
	*model.CartOrder
	LineTotal decimal.Decimal `json:"line_total"`
}

func NewCartEntry(c *model.CartOrder) CartEntry {
	return CartEntry{CartOrder: c, LineTotal: c.LineTotal()}
}

type CartResponse struct {
	CartOrders []CartEntry `json:"cart_orders"`
}

func NewCartResponse(entries []*model.CartOrder) CartResponse {
	resp := CartResponse{CartOrders: make([]CartEntry, 0, len(entries))}
	for _, e := range entries {
		resp.CartOrders = append(resp.CartOrders, NewCartEntry(e))
	}
	return resp
}

type OrderResponse struct {
	Order *model.Order `json:"order"`
}

type BatchCheckoutResult struct {
	CartOrderID uint         `json:"cart_order_id"`
	Order       *model.Order `json:"order,omitempty"`
	Error       string       `json:"error,omitempty"`
}

type BatchCheckoutResponse struct {
	Results []BatchCheckoutResult `json:"results"`
}

type ProfileRequest struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	StudentNumber string `json:"student_number"`
	ContactNumber string `json:"contact_number"`
	CollegeID     uint   `json:"college_id"`
	ProgramID     uint   `json:"program_id"`
	Year          int    `json:"year"`
	Section       int    `json:"section"`
}

type MembershipRequest struct {
	ShopID uint `json:"shop_id"`
}

type MembershipResponse struct {
	ShopID  uint `json:"shop_id"`
	Created bool `json:"created"`
}
