package service

import (
	"context"
	"fmt"
	"time"

	"campus-merch-store/internal/model"
	"campus-merch-store/internal/repository"

	"go.uber.org/zap"
)

// Reconciler finds online-payment orders that never got a payment row and
// flags them for manual resolution. Orders are never changed or removed.
type Reconciler struct {
	orderRepo repository.OrderRepository
	grace     time.Duration
	now       func() time.Time
	log       *zap.Logger
}

func NewReconciler(orderRepo repository.OrderRepository, grace time.Duration, log *zap.Logger) *Reconciler {
	return &Reconciler{
		orderRepo: orderRepo,
		grace:     grace,
		now:       time.Now,
		log:       log,
	}
}

// FindOrphans lists orders older than the grace period that are missing
// their payment proof.
func (r *Reconciler) FindOrphans(ctx context.Context) ([]*model.Order, error) {
	orders, err := r.orderRepo.FindMissingPayment(ctx, r.now().Add(-r.grace))
	if err != nil {
		return nil, fmt.Errorf("find orders without payment: %w", err)
	}
	return orders, nil
}

// Reconcile flags every orphan once and returns how many new flags it wrote.
func (r *Reconciler) Reconcile(ctx context.Context) (int, error) {
	orphans, err := r.FindOrphans(ctx)
	if err != nil {
		return 0, err
	}

	flagged := 0
	for _, o := range orphans {
		created, err := r.orderRepo.Flag(ctx, o.ID, model.FlagMissingPaymentProof)
		if err != nil {
			return flagged, fmt.Errorf("flag order %d: %w", o.ID, err)
		}
		if created {
			flagged++
			r.log.Warn("order flagged",
				zap.Uint("order_id", o.ID),
				zap.String("user_id", o.UserID),
				zap.String("reason", model.FlagMissingPaymentProof),
			)
		}
	}
	return flagged, nil
}

// Run reconciles every interval until ctx is done.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.Reconcile(ctx); err != nil {
				r.log.Error("reconcile orders", zap.Error(err))
			}
		}
	}
}
