package repository

import (
	"context"
	"strings"

	"campus-merch-store/internal/model"

	"gorm.io/gorm"
)

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

type CategoryRepository interface {
	List(ctx context.Context) ([]*model.Category, error)
}

type categoryRepoImpl struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepoImpl{db: db}
}

func (r *categoryRepoImpl) List(ctx context.Context) ([]*model.Category, error) {
	var categories []*model.Category
	err := r.db.WithContext(ctx).Order("id ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

type ShopRepository interface {
	List(ctx context.Context) ([]*model.Shop, error)
	Get(ctx context.Context, shopID uint) (*model.Shop, error)
	ManagedBy(ctx context.Context, userID string) ([]*model.Shop, error)
}

type shopRepoImpl struct {
	db *gorm.DB
}

func NewShopRepository(db *gorm.DB) ShopRepository {
	return &shopRepoImpl{db: db}
}

func (r *shopRepoImpl) List(ctx context.Context) ([]*model.Shop, error) {
	var shops []*model.Shop
	err := r.db.WithContext(ctx).
		Preload("College").
		Order("id ASC").
		Find(&shops).Error
	if err != nil {
		return nil, err
	}
	return shops, nil
}

func (r *shopRepoImpl) Get(ctx context.Context, shopID uint) (*model.Shop, error) {
	var shop model.Shop
	err := r.db.WithContext(ctx).
		Preload("College").
		Where("id = ?", shopID).
		First(&shop).Error
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *shopRepoImpl) ManagedBy(ctx context.Context, userID string) ([]*model.Shop, error) {
	var officers []*model.Officer
	err := r.db.WithContext(ctx).
		Preload("Shop").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&officers).Error
	if err != nil {
		return nil, err
	}

	shops := make([]*model.Shop, 0, len(officers))
	for _, o := range officers {
		if o.Shop != nil {
			shops = append(shops, o.Shop)
		}
	}
	return shops, nil
}

type MerchandiseRepository interface {
	// Search returns every merchandise with its nested collections, narrowed
	// by a case-insensitive name match when nameQuery is not empty.
	Search(ctx context.Context, nameQuery string) ([]*model.Merchandise, error)
	FindByID(ctx context.Context, merchID uint) (*model.Merchandise, error)
}

type merchandiseRepoImpl struct {
	db *gorm.DB
}

func NewMerchandiseRepository(db *gorm.DB) MerchandiseRepository {
	return &merchandiseRepoImpl{db: db}
}

func (r *merchandiseRepoImpl) withDetail(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Pictures", orderByID).
		Preload("Variants", orderByID).
		Preload("Variants.Sizes", orderByID).
		Preload("Shop").
		Preload("Shop.College").
		Preload("Categories", orderByID)
}

func (r *merchandiseRepoImpl) Search(ctx context.Context, nameQuery string) ([]*model.Merchandise, error) {
	q := r.withDetail(ctx)
	if nameQuery = strings.TrimSpace(nameQuery); nameQuery != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(nameQuery)+"%")
	}

	merch := []*model.Merchandise{}
	if err := q.Order("id ASC").Find(&merch).Error; err != nil {
		return nil, err
	}
	return merch, nil
}

func (r *merchandiseRepoImpl) FindByID(ctx context.Context, merchID uint) (*model.Merchandise, error) {
	var m model.Merchandise
	err := r.withDetail(ctx).
		Where("id = ?", merchID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

type CollegeRepository interface {
	ListColleges(ctx context.Context) ([]*model.College, error)
	ListPrograms(ctx context.Context, collegeID uint) ([]*model.Program, error)
	FindProgram(ctx context.Context, programID uint) (*model.Program, error)
}

type collegeRepoImpl struct {
	db *gorm.DB
}

func NewCollegeRepository(db *gorm.DB) CollegeRepository {
	return &collegeRepoImpl{db: db}
}

func (r *collegeRepoImpl) ListColleges(ctx context.Context) ([]*model.College, error) {
	var colleges []*model.College
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&colleges).Error; err != nil {
		return nil, err
	}
	return colleges, nil
}

func (r *collegeRepoImpl) ListPrograms(ctx context.Context, collegeID uint) ([]*model.Program, error) {
	var programs []*model.Program
	err := r.db.WithContext(ctx).
		Where("college_id = ?", collegeID).
		Order("id ASC").
		Find(&programs).Error
	if err != nil {
		return nil, err
	}
	return programs, nil
}

func (r *collegeRepoImpl) FindProgram(ctx context.Context, programID uint) (*model.Program, error) {
	var p model.Program
	if err := r.db.WithContext(ctx).Where("id = ?", programID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}
