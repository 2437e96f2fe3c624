package handler

import (
	"net/http"

	"campus-merch-store/internal/model"
	"campus-merch-store/internal/service"

	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

func criteriaFromQuery(c echo.Context) (service.SearchCriteria, error) {
	criteria := service.SearchCriteria{Query: c.QueryParam("query")}

	var err error
	if criteria.CategoryIDs, err = service.ParseIDList(c.QueryParam("category")); err != nil {
		return criteria, echo.NewHTTPError(http.StatusBadRequest, "category: "+err.Error())
	}
	if criteria.ShopIDs, err = service.ParseIDList(c.QueryParam("shop")); err != nil {
		return criteria, echo.NewHTTPError(http.StatusBadRequest, "shop: "+err.Error())
	}
	if criteria.Sort, err = service.ParseSortMode(c.QueryParam("sort")); err != nil {
		return criteria, httpError(err)
	}
	return criteria, nil
}

func (h *CatalogHandler) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()

	categories, err := h.catalogService.ListCategories(ctx)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, categories)
}

func (h *CatalogHandler) ListShops(c echo.Context) error {
	ctx := c.Request().Context()

	shops, err := h.catalogService.ListShops(ctx)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, shops)
}

func (h *CatalogHandler) GetShop(c echo.Context) error {
	ctx := c.Request().Context()

	shopID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	shop, err := h.catalogService.GetShop(ctx, shopID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, shop)
}

func (h *CatalogHandler) ShopMerchandises(c echo.Context) error {
	ctx := c.Request().Context()

	shopID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	criteria, err := criteriaFromQuery(c)
	if err != nil {
		return err
	}

	merch, err := h.catalogService.ShopCatalog(ctx, shopID, criteria)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, merch)
}

func (h *CatalogHandler) SearchMerchandises(c echo.Context) error {
	ctx := c.Request().Context()

	criteria, err := criteriaFromQuery(c)
	if err != nil {
		return err
	}

	merch, err := h.catalogService.Search(ctx, criteria)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, merch)
}

type merchandiseDetail struct {
	Merchandise      *model.Merchandise `json:"merchandise"`
	DefaultSelection service.Selection  `json:"default_selection"`
}

func (h *CatalogHandler) GetMerchandise(c echo.Context) error {
	ctx := c.Request().Context()

	merchID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	m, err := h.catalogService.GetMerchandise(ctx, merchID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, merchandiseDetail{
		Merchandise:      m,
		DefaultSelection: service.DefaultSelection(m),
	})
}
