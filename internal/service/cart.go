package service

import (
	"context"
	"fmt"

	"campus-merch-store/internal/auth"
	"campus-merch-store/internal/model"
	"campus-merch-store/internal/repository"

	"go.uber.org/zap"
)

// resolveSelection checks that variantID belongs to m and pairs it with a
// size: the requested one for a sized variant (its first size when none is
// given), none for an unsized variant.
func resolveSelection(m *model.Merchandise, variantID uint, sizeID *uint) (*model.Variant, *uint, error) {
	v := m.Variant(variantID)
	if v == nil {
		return nil, nil, fmt.Errorf("variant %d of merchandise %d: %w", variantID, m.ID, ErrVariantMismatch)
	}
	if !v.Sized() {
		return v, nil, nil
	}
	if sizeID == nil {
		return v, v.DefaultSizeID(), nil
	}
	if v.Size(*sizeID) == nil {
		return nil, nil, fmt.Errorf("size %d of variant %d: %w", *sizeID, v.ID, ErrSizeMismatch)
	}
	id := *sizeID
	return v, &id, nil
}

type AddToCartInput struct {
	MerchID   uint
	VariantID uint
	SizeID    *uint
	Quantity  int
}

type CartService interface {
	AddToCart(ctx context.Context, in AddToCartInput) (*model.CartOrder, error)
	ListCart(ctx context.Context) ([]*model.CartOrder, error)
	// Session loads the actor's cart for editing.
	Session(ctx context.Context) (*CartSession, error)
	SetVariant(ctx context.Context, entryID, variantID uint) (*model.CartOrder, error)
	SetSize(ctx context.Context, entryID, sizeID uint) (*model.CartOrder, error)
	SetQuantity(ctx context.Context, entryID uint, quantity int) (*model.CartOrder, error)
	Remove(ctx context.Context, entryID uint) error
}

type cartServiceImpl struct {
	actors    auth.ActorResolver
	cartRepo  repository.CartRepository
	merchRepo repository.MerchandiseRepository
	log       *zap.Logger
}

func NewCartService(
	actors auth.ActorResolver,
	cartRepo repository.CartRepository,
	merchRepo repository.MerchandiseRepository,
	log *zap.Logger,
) CartService {
	return &cartServiceImpl{
		actors:    actors,
		cartRepo:  cartRepo,
		merchRepo: merchRepo,
		log:       log,
	}
}

func (s *cartServiceImpl) AddToCart(ctx context.Context, in AddToCartInput) (*model.CartOrder, error) {
	actor, err := s.actors.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	m, err := s.merchRepo.FindByID(ctx, in.MerchID)
	if err != nil {
		return nil, fmt.Errorf("get merchandise %d: %w", in.MerchID, notFound(err))
	}

	v, sizeID, err := resolveSelection(m, in.VariantID, in.SizeID)
	if err != nil {
		return nil, err
	}

	entry := &model.CartOrder{
		UserID:    actor.ID,
		Quantity:  ClampQuantity(in.Quantity),
		VariantID: v.ID,
		SizeID:    sizeID,
		ShopID:    m.ShopID,
		MerchID:   m.ID,
	}
	if err := s.cartRepo.Create(ctx, entry); err != nil {
		s.log.Error("add to cart", zap.String("user_id", actor.ID), zap.Uint("merch_id", m.ID), zap.Error(err))
		return nil, fmt.Errorf("store cart order: %w", err)
	}

	s.log.Info("added to cart",
		zap.String("user_id", actor.ID),
		zap.Uint("cart_order_id", entry.ID),
		zap.Uint("merch_id", m.ID),
	)
	return entry, nil
}

func (s *cartServiceImpl) ListCart(ctx context.Context) ([]*model.CartOrder, error) {
	actor, err := s.actors.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.cartRepo.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	return entries, nil
}

func (s *cartServiceImpl) Session(ctx context.Context) (*CartSession, error) {
	entries, err := s.ListCart(ctx)
	if err != nil {
		return nil, err
	}
	return NewCartSession(s.cartRepo, s.log, entries), nil
}

func (s *cartServiceImpl) SetVariant(ctx context.Context, entryID, variantID uint) (*model.CartOrder, error) {
	session, err := s.Session(ctx)
	if err != nil {
		return nil, err
	}
	return session.SetVariant(ctx, entryID, variantID)
}

func (s *cartServiceImpl) SetSize(ctx context.Context, entryID, sizeID uint) (*model.CartOrder, error) {
	session, err := s.Session(ctx)
	if err != nil {
		return nil, err
	}
	return session.SetSize(ctx, entryID, sizeID)
}

func (s *cartServiceImpl) SetQuantity(ctx context.Context, entryID uint, quantity int) (*model.CartOrder, error) {
	session, err := s.Session(ctx)
	if err != nil {
		return nil, err
	}
	return session.SetQuantity(ctx, entryID, quantity)
}

func (s *cartServiceImpl) Remove(ctx context.Context, entryID uint) error {
	session, err := s.Session(ctx)
	if err != nil {
		return err
	}
	return session.Remove(ctx, entryID)
}
