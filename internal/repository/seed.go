package repository

import (
	"context"
	"fmt"
	"time"

	"campus-merch-store/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DemoOfficerID manages the first demo shop.
const DemoOfficerID = "6f1c0d2e-8a57-4c1b-9f3e-2d7a1b5c4e90"

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 9, 0, 0, 0, time.UTC)
}

func uintPtr(v uint) *uint { return &v }

// Seed writes a small demo catalog with fixed ids. Rows that already exist
// are left alone, so it is safe to run on every start.
func Seed(ctx context.Context, db *gorm.DB) error {
	price := decimal.NewFromInt

	tables := []interface{}{
		&[]model.College{
			{ID: 1, Name: "College of Engineering"},
			{ID: 2, Name: "College of Science"},
		},
		&[]model.Program{
			{ID: 1, CollegeID: 1, Name: "BS Computer Engineering"},
			{ID: 2, CollegeID: 1, Name: "BS Civil Engineering"},
			{ID: 3, CollegeID: 2, Name: "BS Biology"},
		},
		&[]model.Category{
			{ID: 1, Name: "Apparel", PictureURL: "/static/categories/apparel.png"},
			{ID: 2, Name: "Accessories", PictureURL: "/static/categories/accessories.png"},
			{ID: 3, Name: "Stickers", PictureURL: "/static/categories/stickers.png"},
		},
		&[]model.Shop{
			{ID: 1, Name: "Engineering Student Council", Acronym: "ESC", Email: "esc@campus.edu", CollegeID: uintPtr(1)},
			{ID: 2, Name: "Science Society", Acronym: "SCISOC", Email: "scisoc@campus.edu", CollegeID: uintPtr(2)},
		},
		&[]model.Officer{
			{ID: 1, UserID: DemoOfficerID, ShopID: 1},
		},
		&[]model.Merchandise{
			{ID: 1, Name: "Org Shirt", ShopID: 1, OnlinePayment: true, PhysicalPayment: true, CreatedAt: day(3),
				Description: "Cotton shirt with the council seal.", ReceivingInformation: "Claim at the council office."},
			{ID: 2, Name: "Department Lanyard", ShopID: 1, PhysicalPayment: true, CreatedAt: day(1),
				ReceivingInformation: "Claim at the council office."},
			{ID: 3, Name: "Sticker Pack", ShopID: 2, OnlinePayment: true, CreatedAt: day(2)},
			{ID: 4, Name: "Science Week Shirt", ShopID: 2, OnlinePayment: true, PhysicalPayment: true, CreatedAt: day(4)},
			{ID: 5, Name: "Tote Bag", ShopID: 1, OnlinePayment: true, PhysicalPayment: true, CreatedAt: day(5)},
		},
		&[]model.MerchandisePicture{
			{ID: 1, MerchID: 1, PictureURL: "/static/merch/shirt-front.png"},
			{ID: 2, MerchID: 1, PictureURL: "/static/merch/shirt-back.png"},
			{ID: 3, MerchID: 3, PictureURL: "/static/merch/stickers.png"},
			{ID: 4, MerchID: 4, PictureURL: "/static/merch/scishirt.png"},
		},
		&[]model.Variant{
			{ID: 1, MerchID: 1, Name: "Black", OriginalPrice: price(350), MembershipPrice: price(300)},
			{ID: 2, MerchID: 1, Name: "White", OriginalPrice: price(360), MembershipPrice: price(310)},
			{ID: 3, MerchID: 2, Name: "Blue", OriginalPrice: price(120), MembershipPrice: price(100)},
			{ID: 4, MerchID: 3, Name: "Holo", OriginalPrice: price(80), MembershipPrice: price(60)},
			{ID: 5, MerchID: 4, Name: "Green", OriginalPrice: price(10), MembershipPrice: price(8)},
		},
		&[]model.Size{
			{ID: 1, VariantID: 1, Name: "S", OriginalPrice: price(350), MembershipPrice: price(300)},
			{ID: 2, VariantID: 1, Name: "M", OriginalPrice: price(350), MembershipPrice: price(300)},
			{ID: 3, VariantID: 1, Name: "XL", OriginalPrice: price(380), MembershipPrice: price(330)},
			{ID: 4, VariantID: 2, Name: "M", OriginalPrice: price(360), MembershipPrice: price(310)},
			{ID: 5, VariantID: 5, Name: "S", OriginalPrice: price(10), MembershipPrice: price(8)},
		},
		&[]model.MerchandiseCategory{
			{ID: 1, MerchID: 1, CatID: 1},
			{ID: 2, MerchID: 2, CatID: 2},
			{ID: 3, MerchID: 3, CatID: 2},
			{ID: 4, MerchID: 3, CatID: 3},
			{ID: 5, MerchID: 4, CatID: 1},
			{ID: 6, MerchID: 5, CatID: 2},
		},
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rows := range tables {
			err := tx.Omit(clause.Associations).
				Clauses(clause.OnConflict{DoNothing: true}).
				Create(rows).Error
			if err != nil {
				return fmt.Errorf("seed %T: %w", rows, err)
			}
		}
		return nil
	})
}
