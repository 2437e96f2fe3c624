package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"campus-merch-store/internal/model"
	"campus-merch-store/internal/repository"
)

type SortMode string

const (
	SortDate       SortMode = "date"
	SortAscending  SortMode = "ascending"
	SortDescending SortMode = "descending"
)

// ParseSortMode accepts the three storefront modes. Empty means date.
func ParseSortMode(raw string) (SortMode, error) {
	switch mode := SortMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case "":
		return SortDate, nil
	case SortDate, SortAscending, SortDescending:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSort, raw)
	}
}

// ParseIDList reads a comma separated id list such as "1,4,7". Blank items
// are skipped.
func ParseIDList(raw string) ([]uint, error) {
	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 0)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func idSet(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// FilterByCategories keeps records linked to at least one of catIDs. An
// empty selection keeps everything.
func FilterByCategories(merch []*model.Merchandise, catIDs []uint) []*model.Merchandise {
	if len(catIDs) == 0 {
		return merch
	}
	set := idSet(catIDs)
	out := make([]*model.Merchandise, 0, len(merch))
	for _, m := range merch {
		if m.HasCategory(set) {
			out = append(out, m)
		}
	}
	return out
}

// FilterByShops keeps records owned by one of shopIDs. An empty selection
// keeps everything.
func FilterByShops(merch []*model.Merchandise, shopIDs []uint) []*model.Merchandise {
	if len(shopIDs) == 0 {
		return merch
	}
	set := idSet(shopIDs)
	out := make([]*model.Merchandise, 0, len(merch))
	for _, m := range merch {
		if _, ok := set[m.ShopID]; ok {
			out = append(out, m)
		}
	}
	return out
}

// SortMerchandises returns a sorted copy. Ties keep their input order.
func SortMerchandises(merch []*model.Merchandise, mode SortMode) []*model.Merchandise {
	out := make([]*model.Merchandise, len(merch))
	copy(out, merch)

	var less func(a, b *model.Merchandise) bool
	switch mode {
	case SortAscending:
		less = func(a, b *model.Merchandise) bool {
			return a.FirstVariantPrice().LessThan(b.FirstVariantPrice())
		}
	case SortDescending:
		less = func(a, b *model.Merchandise) bool {
			return a.FirstVariantPrice().GreaterThan(b.FirstVariantPrice())
		}
	default:
		less = func(a, b *model.Merchandise) bool {
			return a.CreatedAt.After(b.CreatedAt)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

type SearchCriteria struct {
	Query       string
	CategoryIDs []uint
	ShopIDs     []uint
	Sort        SortMode
}

// Selection is what the product page starts with before the buyer changes
// anything.
type Selection struct {
	VariantID     *uint               `json:"variant_id"`
	SizeID        *uint               `json:"size_id"`
	Quantity      int                 `json:"quantity"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`
}

// DefaultSelection picks the first variant, its first size when sized, and
// in-person payment when the merchandise accepts it.
func DefaultSelection(m *model.Merchandise) Selection {
	sel := Selection{Quantity: 1, PaymentMethod: model.PaymentOnline}
	if m.PhysicalPayment {
		sel.PaymentMethod = model.PaymentPhysical
	}
	if len(m.Variants) > 0 {
		v := &m.Variants[0]
		id := v.ID
		sel.VariantID = &id
		sel.SizeID = v.DefaultSizeID()
	}
	return sel
}

type CatalogService interface {
	ListCategories(ctx context.Context) ([]*model.Category, error)
	ListShops(ctx context.Context) ([]*model.Shop, error)
	GetShop(ctx context.Context, shopID uint) (*model.Shop, error)
	Search(ctx context.Context, criteria SearchCriteria) ([]*model.Merchandise, error)
	// ShopCatalog is Search restricted to one shop.
	ShopCatalog(ctx context.Context, shopID uint, criteria SearchCriteria) ([]*model.Merchandise, error)
	GetMerchandise(ctx context.Context, merchID uint) (*model.Merchandise, error)
}

type catalogServiceImpl struct {
	categoryRepo repository.CategoryRepository
	shopRepo     repository.ShopRepository
	merchRepo    repository.MerchandiseRepository
}

func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	shopRepo repository.ShopRepository,
	merchRepo repository.MerchandiseRepository,
) CatalogService {
	return &catalogServiceImpl{
		categoryRepo: categoryRepo,
		shopRepo:     shopRepo,
		merchRepo:    merchRepo,
	}
}

func (s *catalogServiceImpl) ListCategories(ctx context.Context) ([]*model.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *catalogServiceImpl) ListShops(ctx context.Context) ([]*model.Shop, error) {
	shops, err := s.shopRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shops: %w", err)
	}
	return shops, nil
}

func (s *catalogServiceImpl) GetShop(ctx context.Context, shopID uint) (*model.Shop, error) {
	shop, err := s.shopRepo.Get(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("get shop %d: %w", shopID, notFound(err))
	}
	return shop, nil
}

func (s *catalogServiceImpl) Search(ctx context.Context, criteria SearchCriteria) ([]*model.Merchandise, error) {
	if criteria.Sort == "" {
		criteria.Sort = SortDate
	}
	if _, err := ParseSortMode(string(criteria.Sort)); err != nil {
		return nil, err
	}

	merch, err := s.merchRepo.Search(ctx, criteria.Query)
	if err != nil {
		return nil, fmt.Errorf("fetch merchandises: %w", err)
	}

	merch = FilterByCategories(merch, criteria.CategoryIDs)
	merch = FilterByShops(merch, criteria.ShopIDs)
	return SortMerchandises(merch, criteria.Sort), nil
}

func (s *catalogServiceImpl) ShopCatalog(ctx context.Context, shopID uint, criteria SearchCriteria) ([]*model.Merchandise, error) {
	if _, err := s.GetShop(ctx, shopID); err != nil {
		return nil, err
	}
	criteria.ShopIDs = []uint{shopID}
	return s.Search(ctx, criteria)
}

func (s *catalogServiceImpl) GetMerchandise(ctx context.Context, merchID uint) (*model.Merchandise, error) {
	m, err := s.merchRepo.FindByID(ctx, merchID)
	if err != nil {
		return nil, fmt.Errorf("get merchandise %d: %w", merchID, notFound(err))
	}
	return m, nil
}
