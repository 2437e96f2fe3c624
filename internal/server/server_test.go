package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"campus-merch-store/internal/auth"
	"campus-merch-store/internal/client"
	"campus-merch-store/internal/config"
	"campus-merch-store/internal/model"
	"campus-merch-store/internal/repository"
	"campus-merch-store/internal/service"
	"campus-merch-store/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

const (
	secret  = "test-secret"
	buyerID = "3c2f8a5e-1d4b-4e6f-9a7c-0b1d2e3f4a5b"
)

type testServer struct {
	srv   *Server
	db    *gorm.DB
	token string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zaptest.NewLogger(t)

	db := testutil.NewDB(t)
	require.NoError(t, repository.Seed(context.Background(), db))

	cfg := &config.Config{
		HTTP:      config.HTTPServer{BodyLimit: "2M"},
		Storage:   config.Storage{Root: t.TempDir(), PublicBaseURL: "http://localhost/storage", MaxProofBytes: 1 << 20, MaxProofSide: 256},
		Order:     config.Order{BatchWorkers: 2},
		RateLimit: config.RateLimit{OrdersPerSecond: 100},
	}
	store, err := client.NewLocalObjectStore(&cfg.Storage)
	require.NoError(t, err)

	merchRepo := repository.NewMerchandiseRepository(db)
	cartRepo := repository.NewCartRepository(db)
	shopRepo := repository.NewShopRepository(db)
	actors := auth.ContextResolver{}

	svc := Services{
		Catalog: service.NewCatalogService(repository.NewCategoryRepository(db), shopRepo, merchRepo),
		Cart:    service.NewCartService(actors, cartRepo, merchRepo, log),
		Order: service.NewOrderService(actors, merchRepo, cartRepo, repository.NewOrderRepository(db),
			store, client.NewOrderEventPublisher(&cfg.Kafka), service.NewProofProcessor(&cfg.Storage), cfg.Order.BatchWorkers, log),
		Profile: service.NewProfileService(actors, repository.NewProfileRepository(db), repository.NewMembershipRepository(db),
			repository.NewCollegeRepository(db), shopRepo, log),
	}

	tokens := auth.NewTokenParser(secret, "")
	token, err := tokens.Issue(&auth.Actor{ID: buyerID, Email: "ana@campus.edu"}, time.Hour)
	require.NoError(t, err)

	return &testServer{srv: NewServer(cfg, log, tokens, svc), db: db, token: token}
}

func (ts *testServer) do(t *testing.T, method, path, contentType string, body []byte, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}
	rec := httptest.NewRecorder()
	ts.srv.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) json(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	return ts.do(t, method, path, "application/json", []byte(body), true)
}

func multipartBody(t *testing.T, fields map[string]string, files map[string][]byte) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for k, data := range files {
		fw, err := w.CreateFormFile(k, k+".png")
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes(), w.FormDataContentType()
}

func pngBytes(t *testing.T) []byte {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 6, 6))))
	return buf.Bytes()
}

func TestPublicRoutes(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/health", "", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/merchandises?query=shirt&category=1,2&shop=2", "", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	var merch []model.Merchandise
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &merch))
	require.Len(t, merch, 1)
	assert.Equal(t, "Science Week Shirt", merch[0].Name)

	rec = ts.do(t, http.MethodGet, "/api/merchandises?sort=popular", "", nil, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/merchandises?category=x", "", nil, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/merchandises/1", "", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail struct {
		Merchandise      model.Merchandise `json:"merchandise"`
		DefaultSelection service.Selection `json:"default_selection"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, model.PaymentPhysical, detail.DefaultSelection.PaymentMethod)
	assert.Len(t, detail.Merchandise.Variants, 2)

	rec = ts.do(t, http.MethodGet, "/api/merchandises/999", "", nil, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/shops/2/merchandises?sort=ascending", "", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &merch))
	assert.Len(t, merch, 2)

	rec = ts.do(t, http.MethodGet, "/api/colleges/1/programs", "", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/cart", "", nil, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	ts.srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartAndCheckoutFlow(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.json(t, http.MethodPost, "/api/cart", `{"merch_id":4,"variant_id":5,"size_id":5,"quantity":"2"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var entry struct {
		ID        uint   `json:"id"`
		Quantity  int    `json:"quantity"`
		LineTotal string `json:"line_total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	assert.Equal(t, 2, entry.Quantity)

	rec = ts.json(t, http.MethodPatch, "/api/cart/"+itoa(entry.ID)+"/quantity", `{"quantity":"abc"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	assert.Equal(t, 1, entry.Quantity)

	rec = ts.json(t, http.MethodPatch, "/api/cart/"+itoa(entry.ID)+"/quantity", `{"quantity":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	assert.Equal(t, 3, entry.Quantity)
	assert.Equal(t, "30", entry.LineTotal)

	rec = ts.json(t, http.MethodPatch, "/api/cart/"+itoa(entry.ID)+"/size", `{"size_id":1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body, ct := multipartBody(t, map[string]string{"payment_method": "online"}, nil)
	rec = ts.do(t, http.MethodPost, "/api/cart/"+itoa(entry.ID)+"/checkout", ct, body, true)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body, ct = multipartBody(t, map[string]string{"payment_method": "online"}, map[string][]byte{"proof": pngBytes(t)})
	rec = ts.do(t, http.MethodPost, "/api/cart/"+itoa(entry.ID)+"/checkout", ct, body, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var payment model.Payment
	require.NoError(t, ts.db.First(&payment).Error)
	assert.True(t, strings.HasPrefix(payment.PictureURL, "http://localhost/storage/payment-picture/payment_"))

	rec = ts.json(t, http.MethodGet, "/api/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"cart_orders":[]}`, rec.Body.String())
}

func TestBatchCheckout(t *testing.T) {
	ts := newTestServer(t)

	var ids []uint
	for _, body := range []string{
		`{"merch_id":2,"variant_id":3,"quantity":1}`,
		`{"merch_id":3,"variant_id":4,"quantity":1}`,
	} {
		rec := ts.json(t, http.MethodPost, "/api/cart", body)
		require.Equal(t, http.StatusCreated, rec.Code)
		var e struct {
			ID uint `json:"id"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
		ids = append(ids, e.ID)
	}

	body, ct := multipartBody(t, map[string]string{
		"orders":                           itoa(ids[0]) + "," + itoa(ids[1]),
		"payment_method_" + itoa(ids[0]):   "irl",
		"payment_method_" + itoa(ids[1]):   "online",
	}, nil)
	rec := ts.do(t, http.MethodPost, "/api/cart/checkout", ct, body, true)
	require.Equal(t, http.StatusMultiStatus, rec.Code)

	var resp struct {
		Results []struct {
			CartOrderID uint         `json:"cart_order_id"`
			Order       *model.Order `json:"order"`
			Error       string       `json:"error"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	assert.NotNil(t, resp.Results[0].Order)
	assert.Empty(t, resp.Results[0].Error)
	assert.Nil(t, resp.Results[1].Order)
	assert.Contains(t, resp.Results[1].Error, "proof of payment required")
}

func TestProfileAndMembership(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.json(t, http.MethodGet, "/api/profile", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.json(t, http.MethodPut, "/api/profile", `{"first_name":"Ana","college_id":1,"program_id":3}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = ts.json(t, http.MethodPut, "/api/profile", `{"first_name":"Ana","college_id":1,"program_id":1,"year":2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.json(t, http.MethodPost, "/api/memberships", `{"shop_id":1}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	rec = ts.json(t, http.MethodPost, "/api/memberships", `{"shop_id":1}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"shop_id":1,"created":false}`, rec.Body.String())

	rec = ts.json(t, http.MethodGet, "/api/managed-shops", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
