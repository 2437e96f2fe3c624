package repository

import (
	"context"
	"testing"
	"time"

	"campus-merch-store/internal/model"
	"campus-merch-store/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const buyerID = "3c2f8a5e-1d4b-4e6f-9a7c-0b1d2e3f4a5b"

func seededDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := testutil.NewDB(t)
	require.NoError(t, Seed(context.Background(), db))
	return db
}

func merchIDs(merch []*model.Merchandise) []uint {
	ids := make([]uint, len(merch))
	for i, m := range merch {
		ids[i] = m.ID
	}
	return ids
}

func TestSeed_Idempotent(t *testing.T) {
	db := seededDB(t)
	require.NoError(t, Seed(context.Background(), db))

	var count int64
	require.NoError(t, db.Model(&model.Merchandise{}).Count(&count).Error)
	assert.EqualValues(t, 5, count)
}

func TestMerchandiseRepository_Search(t *testing.T) {
	ctx := context.Background()
	repo := NewMerchandiseRepository(seededDB(t))

	t.Run("no query returns everything with details", func(t *testing.T) {
		merch, err := repo.Search(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, []uint{1, 2, 3, 4, 5}, merchIDs(merch))

		shirt := merch[0]
		require.NotNil(t, shirt.Shop)
		assert.Equal(t, "ESC", shirt.Shop.Acronym)
		require.NotNil(t, shirt.Shop.College)
		assert.Equal(t, "College of Engineering", shirt.Shop.College.Name)
		require.Len(t, shirt.Variants, 2)
		assert.Equal(t, uint(1), shirt.Variants[0].ID)
		require.Len(t, shirt.Variants[0].Sizes, 3)
		assert.Equal(t, "S", shirt.Variants[0].Sizes[0].Name)
		assert.Len(t, shirt.Pictures, 2)
		assert.Len(t, shirt.Categories, 1)

		assert.Empty(t, merch[1].Pictures)
		assert.Empty(t, merch[4].Variants)
	})

	t.Run("query is a case-insensitive substring", func(t *testing.T) {
		merch, err := repo.Search(ctx, "  SHIRT ")
		require.NoError(t, err)
		assert.Equal(t, []uint{1, 4}, merchIDs(merch))
	})

	t.Run("no match is an empty list", func(t *testing.T) {
		merch, err := repo.Search(ctx, "hoodie")
		require.NoError(t, err)
		assert.NotNil(t, merch)
		assert.Empty(t, merch)
	})
}

func TestMerchandiseRepository_FindByID(t *testing.T) {
	ctx := context.Background()
	repo := NewMerchandiseRepository(seededDB(t))

	m, err := repo.FindByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Sticker Pack", m.Name)
	assert.Len(t, m.Categories, 2)

	_, err = repo.FindByID(ctx, 99)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestShopRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewShopRepository(seededDB(t))

	shops, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, shops, 2)
	require.NotNil(t, shops[1].College)
	assert.Equal(t, "College of Science", shops[1].College.Name)

	managed, err := repo.ManagedBy(ctx, DemoOfficerID)
	require.NoError(t, err)
	require.Len(t, managed, 1)
	assert.Equal(t, uint(1), managed[0].ID)

	managed, err = repo.ManagedBy(ctx, buyerID)
	require.NoError(t, err)
	assert.Empty(t, managed)
}

func TestCollegeRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCollegeRepository(seededDB(t))

	programs, err := repo.ListPrograms(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, programs, 2)

	p, err := repo.FindProgram(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, uint(2), p.CollegeID)
}

func TestCartRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCartRepository(seededDB(t))

	entry := &model.CartOrder{UserID: buyerID, Quantity: 2, VariantID: 1, SizeID: uintPtr(1), ShopID: 1, MerchID: 1}
	require.NoError(t, repo.Create(ctx, entry))
	require.NotZero(t, entry.ID)
	require.NoError(t, repo.Create(ctx, &model.CartOrder{UserID: "someone-else", Quantity: 1, VariantID: 3, ShopID: 1, MerchID: 2}))

	entries, err := repo.ListByUser(ctx, buyerID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].Merchandise)
	assert.Len(t, entries[0].Merchandise.Variants, 2)
	require.NotNil(t, entries[0].Shop)
	assert.Equal(t, "ESC", entries[0].Shop.Acronym)

	entry.VariantID = 2
	entry.SizeID = nil
	entry.Quantity = 5
	require.NoError(t, repo.UpdateSelection(ctx, entry))

	got, err := repo.FindByID(ctx, buyerID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(2), got.VariantID)
	assert.Nil(t, got.SizeID)
	assert.Equal(t, 5, got.Quantity)

	require.NoError(t, repo.UpdateSelection(ctx, entry), "unchanged selection still matches the row")

	_, err = repo.FindByID(ctx, "someone-else", entry.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	foreign := *entry
	foreign.UserID = "someone-else"
	assert.ErrorIs(t, repo.UpdateSelection(ctx, &foreign), gorm.ErrRecordNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "someone-else", entry.ID), gorm.ErrRecordNotFound)
	require.NoError(t, repo.Delete(ctx, buyerID, entry.ID))
	assert.ErrorIs(t, repo.Delete(ctx, buyerID, entry.ID), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.UpdateSelection(ctx, entry), gorm.ErrRecordNotFound)
}

func TestOrderRepository_MissingPaymentAndFlag(t *testing.T) {
	ctx := context.Background()
	db := seededDB(t)
	repo := NewOrderRepository(db)

	newOrder := func(online bool) *model.Order {
		status, err := repo.CreateStatus(ctx)
		require.NoError(t, err)
		o := &model.Order{UserID: buyerID, Quantity: 1, OnlinePayment: online, PhysicalPayment: !online,
			VariantID: 4, MerchID: 3, ShopID: 2, StatusID: status.ID}
		require.NoError(t, repo.Create(ctx, o))
		return o
	}

	orphan := newOrder(true)
	paid := newOrder(true)
	newOrder(false)
	require.NoError(t, repo.CreatePayment(ctx, &model.Payment{OrderID: paid.ID, PictureURL: "http://x/p.jpg"}))

	found, err := repo.FindMissingPayment(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, orphan.ID, found[0].ID)

	found, err = repo.FindMissingPayment(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, found)

	created, err := repo.Flag(ctx, orphan.ID, model.FlagMissingPaymentProof)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Flag(ctx, orphan.ID, model.FlagMissingPaymentProof)
	require.NoError(t, err)
	assert.False(t, created)

	var flags int64
	require.NoError(t, db.Model(&model.OrderFlag{}).Count(&flags).Error)
	assert.EqualValues(t, 1, flags)
}

func TestProfileRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	db := seededDB(t)
	repo := NewProfileRepository(db)

	require.NoError(t, repo.Upsert(ctx, &model.Profile{ID: buyerID, FirstName: "Ana", CollegeID: 1, ProgramID: 1, Year: 1}))
	require.NoError(t, repo.Upsert(ctx, &model.Profile{ID: buyerID, FirstName: "Ana", LastName: "Cruz", CollegeID: 2, ProgramID: 3, Year: 2}))

	var count int64
	require.NoError(t, db.Model(&model.Profile{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	p, err := repo.Get(ctx, buyerID)
	require.NoError(t, err)
	assert.Equal(t, "Cruz", p.LastName)
	assert.Equal(t, uint(3), p.ProgramID)
	assert.Equal(t, 2, p.Year)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMembershipRepository_Request(t *testing.T) {
	ctx := context.Background()
	db := seededDB(t)
	repo := NewMembershipRepository(db)

	created, err := repo.Request(ctx, buyerID, 1)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Request(ctx, buyerID, 1)
	require.NoError(t, err)
	assert.False(t, created)

	created, err = repo.Request(ctx, buyerID, 2)
	require.NoError(t, err)
	assert.True(t, created)

	var count int64
	require.NoError(t, db.Model(&model.MembershipRequest{}).Where("shop_id = ?", 1).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	require.NoError(t, db.Model(&model.MembershipRequest{}).Where("user_id = ?", buyerID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}
