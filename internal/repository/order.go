package repository

import (
	"context"
	"time"

	"campus-merch-store/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository writes the records of a submitted order. Each call is its
// own statement; a submission spans several calls and is not atomic.
type OrderRepository interface {
	CreateStatus(ctx context.Context) (*model.OrderStatus, error)
	Create(ctx context.Context, order *model.Order) error
	CreatePayment(ctx context.Context, payment *model.Payment) error
	// FindMissingPayment lists online-payment orders created before the
	// cutoff that have no payment row.
	FindMissingPayment(ctx context.Context, before time.Time) ([]*model.Order, error)
	// Flag records a reason against the order once. It reports whether a new
	// flag was written.
	Flag(ctx context.Context, orderID uint, reason string) (bool, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) CreateStatus(ctx context.Context) (*model.OrderStatus, error) {
	status := &model.OrderStatus{}
	if err := r.db.WithContext(ctx).Create(status).Error; err != nil {
		return nil, err
	}
	return status, nil
}

func (r *orderRepoImpl) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) CreatePayment(ctx context.Context, payment *model.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *orderRepoImpl) FindMissingPayment(ctx context.Context, before time.Time) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("orders.*").
		Joins("LEFT JOIN payments ON payments.order_id = orders.id").
		Where(`
			orders.online_payment = ?
			AND payments.id IS NULL
			AND orders.created_at < ?
		`,
			true,
			before,
		).
		Order("orders.id ASC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) Flag(ctx context.Context, orderID uint, reason string) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			DoNothing: true,
		}).
		Create(&model.OrderFlag{OrderID: orderID, Reason: reason})

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
