package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
	"testing"

	"campus-merch-store/internal/auth"
	"campus-merch-store/internal/config"
	"campus-merch-store/internal/model"
	"campus-merch-store/internal/repository"
	"campus-merch-store/internal/testutil"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

const buyerID = "3c2f8a5e-1d4b-4e6f-9a7c-0b1d2e3f4a5b"

var errInjected = errors.New("injected failure")

func buyerCtx() context.Context {
	return auth.WithActor(context.Background(), &auth.Actor{ID: buyerID, Email: "ana@campus.edu"})
}

func uptr(v uint) *uint { return &v }

func seededDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := testutil.NewDB(t)
	require.NoError(t, repository.Seed(context.Background(), db))
	return db
}

func countRows(t *testing.T, db *gorm.DB, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}

func pngProof(t *testing.T, w, h int) *bytes.Reader {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return bytes.NewReader(buf.Bytes())
}

type memObject struct {
	bucket, key string
	data        []byte
}

type memStore struct {
	mu        sync.Mutex
	objects   []memObject
	uploadErr error
}

func (s *memStore) Upload(_ context.Context, bucket, key string, body io.Reader) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = append(s.objects, memObject{bucket: bucket, key: key, data: data})
	return nil
}

func (s *memStore) PublicURL(bucket, key string) string {
	return "http://files.test/" + bucket + "/" + key
}

type recordingPublisher struct {
	mu     sync.Mutex
	orders []uint
	err    error
}

func (p *recordingPublisher) PublishOrderCreated(_ context.Context, o *model.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.orders = append(p.orders, o.ID)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

// failingPaymentRepo is the real order repository with payment inserts
// failing.
type failingPaymentRepo struct {
	repository.OrderRepository
}

func (failingPaymentRepo) CreatePayment(context.Context, *model.Payment) error {
	return errInjected
}

// failingCartRepo is the real cart repository with writes failing.
type failingCartRepo struct {
	repository.CartRepository
}

func (failingCartRepo) UpdateSelection(context.Context, *model.CartOrder) error {
	return errInjected
}

func (failingCartRepo) Delete(context.Context, string, uint) error {
	return errInjected
}

type fixture struct {
	db        *gorm.DB
	store     *memStore
	events    *recordingPublisher
	cartRepo  repository.CartRepository
	orderRepo repository.OrderRepository
	merchRepo repository.MerchandiseRepository
	cart      CartService
	orders    *orderServiceImpl
	log       *zap.Logger
}

type fixtureOption func(*fixture)

func withOrderRepo(wrap func(repository.OrderRepository) repository.OrderRepository) fixtureOption {
	return func(f *fixture) { f.orderRepo = wrap(f.orderRepo) }
}

func withLogger(log *zap.Logger) fixtureOption {
	return func(f *fixture) { f.log = log }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	db := seededDB(t)
	f := &fixture{
		db:        db,
		store:     &memStore{},
		events:    &recordingPublisher{},
		cartRepo:  repository.NewCartRepository(db),
		orderRepo: repository.NewOrderRepository(db),
		merchRepo: repository.NewMerchandiseRepository(db),
		log:       zaptest.NewLogger(t),
	}
	for _, opt := range opts {
		opt(f)
	}

	f.cart = NewCartService(auth.ContextResolver{}, f.cartRepo, f.merchRepo, f.log)
	proofs := NewProofProcessor(&config.Storage{MaxProofBytes: 1 << 20, MaxProofSide: 64})
	f.orders = NewOrderService(auth.ContextResolver{}, f.merchRepo, f.cartRepo, f.orderRepo,
		f.store, f.events, proofs, 2, f.log).(*orderServiceImpl)
	return f
}

func otherBuyerCtx() context.Context {
	return auth.WithActor(context.Background(), &auth.Actor{ID: "8d0e6c4b-2a19-4f7e-b3d5-9c1a0e2f4b6d"})
}
