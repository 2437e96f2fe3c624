package repository

import (
	"context"

	"campus-merch-store/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	Create(ctx context.Context, entry *model.CartOrder) error
	// ListByUser returns the user's entries with the merchandise snapshot
	// (variants and sizes) and the owning shop loaded.
	ListByUser(ctx context.Context, userID string) ([]*model.CartOrder, error)
	FindByID(ctx context.Context, userID string, entryID uint) (*model.CartOrder, error)
	// UpdateSelection persists quantity, variant, size and shop of the entry.
	UpdateSelection(ctx context.Context, entry *model.CartOrder) error
	Delete(ctx context.Context, userID string, entryID uint) error
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{db: db}
}

func (r *cartRepoImpl) Create(ctx context.Context, entry *model.CartOrder) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error
}

func (r *cartRepoImpl) withSnapshot(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Merchandise.Variants", orderByID).
		Preload("Merchandise.Variants.Sizes", orderByID).
		Preload("Merchandise.Pictures", orderByID).
		Preload("Shop")
}

func (r *cartRepoImpl) ListByUser(ctx context.Context, userID string) ([]*model.CartOrder, error) {
	entries := []*model.CartOrder{}
	err := r.withSnapshot(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *cartRepoImpl) FindByID(ctx context.Context, userID string, entryID uint) (*model.CartOrder, error) {
	var entry model.CartOrder
	err := r.withSnapshot(ctx).
		Where("id = ? AND user_id = ?", entryID, userID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *cartRepoImpl) UpdateSelection(ctx context.Context, entry *model.CartOrder) error {
	res := r.db.WithContext(ctx).Model(&model.CartOrder{}).
		Where("id = ? AND user_id = ?", entry.ID, entry.UserID).
		Updates(map[string]interface{}{
			"quantity":   entry.Quantity,
			"variant_id": entry.VariantID,
			"size_id":    entry.SizeID,
			"shop_id":    entry.ShopID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// MySQL counts changed rows, so an unchanged selection also reports zero.
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CartOrder{}).
		Where("id = ? AND user_id = ?", entry.ID, entry.UserID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *cartRepoImpl) Delete(ctx context.Context, userID string, entryID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", entryID, userID).
		Delete(&model.CartOrder{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
