package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"campus-merch-store/internal/model"
	"campus-merch-store/internal/repository"

	"go.uber.org/zap"
)

// ClampQuantity applies the quantity floor of 1.
func ClampQuantity(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// ParseQuantity reads a quantity typed by the buyer. Input that is not a
// number becomes 1; fractions are truncated.
func ParseQuantity(raw string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) {
		return 1
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return ClampQuantity(int(f))
}

// CartSession is a local copy of one buyer's cart. Each edit is applied to
// the copy, written to the store, and undone on the copy when the write
// fails. Not safe for concurrent use.
type CartSession struct {
	repo    repository.CartRepository
	log     *zap.Logger
	entries []*model.CartOrder
}

func NewCartSession(repo repository.CartRepository, log *zap.Logger, entries []*model.CartOrder) *CartSession {
	return &CartSession{
		repo:    repo,
		log:     log,
		entries: entries,
	}
}

func (s *CartSession) Entries() []*model.CartOrder {
	return s.entries
}

func (s *CartSession) find(entryID uint) (int, *model.CartOrder, error) {
	for i, e := range s.entries {
		if e.ID == entryID {
			return i, e, nil
		}
	}
	return -1, nil, fmt.Errorf("cart order %d: %w", entryID, ErrNotFound)
}

func (s *CartSession) apply(ctx context.Context, entry *model.CartOrder, mutate func(*model.CartOrder)) error {
	prev := *entry
	mutate(entry)

	if err := s.repo.UpdateSelection(ctx, entry); err != nil {
		*entry = prev
		s.log.Error("persist cart order",
			zap.Uint("cart_order_id", entry.ID),
			zap.Error(err),
		)
		return fmt.Errorf("update cart order %d: %w", entry.ID, notFound(err))
	}
	return nil
}

// SetVariant switches the entry to another variant of the same merchandise
// and resets the size to the variant's first size, or none when unsized.
func (s *CartSession) SetVariant(ctx context.Context, entryID, variantID uint) (*model.CartOrder, error) {
	_, entry, err := s.find(entryID)
	if err != nil {
		return nil, err
	}
	if entry.Merchandise == nil {
		return nil, fmt.Errorf("cart order %d has no merchandise loaded: %w", entryID, ErrNotFound)
	}

	v := entry.Merchandise.Variant(variantID)
	if v == nil {
		return nil, fmt.Errorf("variant %d: %w", variantID, ErrVariantMismatch)
	}

	err = s.apply(ctx, entry, func(e *model.CartOrder) {
		e.VariantID = v.ID
		e.SizeID = v.DefaultSizeID()
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *CartSession) SetSize(ctx context.Context, entryID, sizeID uint) (*model.CartOrder, error) {
	_, entry, err := s.find(entryID)
	if err != nil {
		return nil, err
	}

	var v *model.Variant
	if entry.Merchandise != nil {
		v = entry.Merchandise.Variant(entry.VariantID)
	}
	if v == nil || v.Size(sizeID) == nil {
		return nil, fmt.Errorf("size %d: %w", sizeID, ErrSizeMismatch)
	}

	err = s.apply(ctx, entry, func(e *model.CartOrder) {
		id := sizeID
		e.SizeID = &id
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *CartSession) SetQuantity(ctx context.Context, entryID uint, quantity int) (*model.CartOrder, error) {
	_, entry, err := s.find(entryID)
	if err != nil {
		return nil, err
	}

	err = s.apply(ctx, entry, func(e *model.CartOrder) {
		e.Quantity = ClampQuantity(quantity)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Remove drops the entry locally and deletes it. A failed delete puts the
// entry back where it was.
func (s *CartSession) Remove(ctx context.Context, entryID uint) error {
	idx, entry, err := s.find(entryID)
	if err != nil {
		return err
	}

	s.entries = append(s.entries[:idx:idx], s.entries[idx+1:]...)

	if err := s.repo.Delete(ctx, entry.UserID, entry.ID); err != nil {
		s.entries = append(s.entries[:idx:idx], append([]*model.CartOrder{entry}, s.entries[idx:]...)...)
		s.log.Error("delete cart order",
			zap.Uint("cart_order_id", entry.ID),
			zap.Error(err),
		)
		return fmt.Errorf("delete cart order %d: %w", entry.ID, notFound(err))
	}
	return nil
}
