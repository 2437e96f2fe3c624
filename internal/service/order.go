package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"campus-merch-store/internal/auth"
	"campus-merch-store/internal/client"
	"campus-merch-store/internal/model"
	"campus-merch-store/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const PaymentBucket = "payment-picture"

// PaymentObjectKey names the stored proof of an order. The timestamp keeps
// keys of repeated uploads for one order apart.
func PaymentObjectKey(orderID uint, at time.Time) string {
	return fmt.Sprintf("payment_%d_%d", orderID, at.UnixMilli())
}

// Checkout is the buyer's payment choice for one order.
type Checkout struct {
	PaymentMethod model.PaymentMethod
	// Proof is the payment proof image. Required for online payment.
	Proof io.Reader
}

type DirectOrder struct {
	MerchID   uint
	VariantID uint
	SizeID    *uint
	Quantity  int
	Checkout
}

type CartCheckout struct {
	CartOrderID uint
	Checkout
}

// CheckoutResult reports one entry of a batch checkout.
type CheckoutResult struct {
	CartOrderID uint         `json:"cart_order_id"`
	Order       *model.Order `json:"order,omitempty"`
	Err         error        `json:"-"`
}

type OrderService interface {
	SubmitDirect(ctx context.Context, in DirectOrder) (*model.Order, error)
	SubmitCartOrder(ctx context.Context, in CartCheckout) (*model.Order, error)
	// SubmitCartOrders runs one independent submission per entry. Repeated
	// entry ids are submitted once, with the first checkout given. Results
	// come back in input order; a failed entry never affects the others.
	SubmitCartOrders(ctx context.Context, in []CartCheckout) []CheckoutResult
}

type orderServiceImpl struct {
	actors       auth.ActorResolver
	merchRepo    repository.MerchandiseRepository
	cartRepo     repository.CartRepository
	orderRepo    repository.OrderRepository
	store        client.ObjectStore
	events       client.OrderEventPublisher
	proofs       *ProofProcessor
	batchWorkers int
	now          func() time.Time
	log          *zap.Logger
}

func NewOrderService(
	actors auth.ActorResolver,
	merchRepo repository.MerchandiseRepository,
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	store client.ObjectStore,
	events client.OrderEventPublisher,
	proofs *ProofProcessor,
	batchWorkers int,
	log *zap.Logger,
) OrderService {
	if batchWorkers < 1 {
		batchWorkers = 1
	}
	return &orderServiceImpl{
		actors:       actors,
		merchRepo:    merchRepo,
		cartRepo:     cartRepo,
		orderRepo:    orderRepo,
		store:        store,
		events:       events,
		proofs:       proofs,
		batchWorkers: batchWorkers,
		now:          time.Now,
		log:          log,
	}
}

// orderLine is what gets ordered, resolved and validated.
type orderLine struct {
	merch     *model.Merchandise
	variantID uint
	sizeID    *uint
	quantity  int
}

// preparePayment validates the payment choice against the merchandise and
// normalises the proof. It runs before anything is written.
func (s *orderServiceImpl) preparePayment(m *model.Merchandise, co Checkout) ([]byte, error) {
	switch co.PaymentMethod {
	case model.PaymentOnline:
		if !m.OnlinePayment {
			return nil, fmt.Errorf("%w: %s", ErrPaymentMethodUnavailable, co.PaymentMethod)
		}
	case model.PaymentPhysical:
		if !m.PhysicalPayment {
			return nil, fmt.Errorf("%w: %s", ErrPaymentMethodUnavailable, co.PaymentMethod)
		}
		return nil, nil
	default:
		return nil, ErrPaymentMethodRequired
	}

	if co.Proof == nil {
		return nil, ErrProofRequired
	}
	return s.proofs.Normalize(co.Proof)
}

func (s *orderServiceImpl) SubmitDirect(ctx context.Context, in DirectOrder) (*model.Order, error) {
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

	proof, err := s.preparePayment(m, in.Checkout)
	if err != nil {
		return nil, err
	}

	line := orderLine{merch: m, variantID: v.ID, sizeID: sizeID, quantity: ClampQuantity(in.Quantity)}
	return s.place(ctx, actor, line, in.PaymentMethod, proof)
}

func (s *orderServiceImpl) SubmitCartOrder(ctx context.Context, in CartCheckout) (*model.Order, error) {
	actor, err := s.actors.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := s.cartRepo.FindByID(ctx, actor.ID, in.CartOrderID)
	if err != nil {
		return nil, fmt.Errorf("get cart order %d: %w", in.CartOrderID, notFound(err))
	}
	if entry.Merchandise == nil {
		return nil, fmt.Errorf("merchandise of cart order %d: %w", entry.ID, ErrNotFound)
	}

	proof, err := s.preparePayment(entry.Merchandise, in.Checkout)
	if err != nil {
		return nil, err
	}

	line := orderLine{
		merch:     entry.Merchandise,
		variantID: entry.VariantID,
		sizeID:    entry.SizeID,
		quantity:  ClampQuantity(entry.Quantity),
	}
	order, err := s.place(ctx, actor, line, in.PaymentMethod, proof)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.Delete(ctx, actor.ID, entry.ID); err != nil {
		s.log.Warn("remove checked out cart order",
			zap.Uint("cart_order_id", entry.ID),
			zap.Uint("order_id", order.ID),
			zap.Error(err),
		)
	}
	return order, nil
}

func (s *orderServiceImpl) SubmitCartOrders(ctx context.Context, in []CartCheckout) []CheckoutResult {
	in = uniqueCartCheckouts(in)
	results := make([]CheckoutResult, len(in))

	var g errgroup.Group
	g.SetLimit(s.batchWorkers)
	for i, co := range in {
		i, co := i, co
		g.Go(func() error {
			order, err := s.SubmitCartOrder(ctx, co)
			results[i] = CheckoutResult{CartOrderID: co.CartOrderID, Order: order, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// place writes status, order and payment in sequence. Nothing is undone when
// a later step fails: a failed payment insert leaves the order without proof.
func (s *orderServiceImpl) place(ctx context.Context, actor *auth.Actor, line orderLine, method model.PaymentMethod, proof []byte) (*model.Order, error) {
	log := s.log.With(zap.String("user_id", actor.ID), zap.Uint("merch_id", line.merch.ID))

	status, err := s.orderRepo.CreateStatus(ctx)
	if err != nil {
		log.Error("create order status", zap.Error(err))
		return nil, fmt.Errorf("create order status: %w", err)
	}

	order := &model.Order{
		UserID:          actor.ID,
		Quantity:        line.quantity,
		OnlinePayment:   method == model.PaymentOnline,
		PhysicalPayment: method == model.PaymentPhysical,
		VariantID:       line.variantID,
		MerchID:         line.merch.ID,
		ShopID:          line.merch.ShopID,
		SizeID:          line.sizeID,
		StatusID:        status.ID,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		log.Error("create order", zap.Uint("status_id", status.ID), zap.Error(err))
		return nil, fmt.Errorf("store order in db: %w", err)
	}
	log = log.With(zap.Uint("order_id", order.ID))

	if err := s.events.PublishOrderCreated(ctx, order); err != nil {
		log.Warn("publish order created", zap.Error(err))
	}

	if method.RequiresProof() {
		key := PaymentObjectKey(order.ID, s.now())
		if err := s.store.Upload(ctx, PaymentBucket, key, bytes.NewReader(proof)); err != nil {
			log.Error("upload payment proof", zap.String("key", key), zap.Error(err))
		}

		payment := &model.Payment{
			PictureURL: s.store.PublicURL(PaymentBucket, key),
			OrderID:    order.ID,
		}
		if err := s.orderRepo.CreatePayment(ctx, payment); err != nil {
			log.Error("create payment", zap.Error(err))
			return nil, fmt.Errorf("store payment for order %d: %w", order.ID, err)
		}
	}

	log.Info("order placed", zap.String("payment_method", string(method)))
	return order, nil
}

// uniqueCartCheckouts drops later repeats of a cart order id so one entry
// never runs two chains at once.
func uniqueCartCheckouts(in []CartCheckout) []CartCheckout {
	seen := make(map[uint]struct{}, len(in))
	out := make([]CartCheckout, 0, len(in))
	for _, co := range in {
		if _, ok := seen[co.CartOrderID]; ok {
			continue
		}
		seen[co.CartOrderID] = struct{}{}
		out = append(out, co)
	}
	return out
}
