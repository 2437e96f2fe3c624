package handler

import (
	"net/http"

	"campus-merch-store/internal/dto"
	"campus-merch-store/internal/service"

	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func (h *CartHandler) ListCart(c echo.Context) error {
	ctx := c.Request().Context()

	entries, err := h.cartService.ListCart(ctx)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.NewCartResponse(entries))
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	entry, err := h.cartService.AddToCart(ctx, service.AddToCartInput{
		MerchID:   req.MerchID,
		VariantID: req.VariantID,
		SizeID:    req.SizeID,
		Quantity:  service.ParseQuantity(string(req.Quantity)),
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, dto.NewCartEntry(entry))
}

func (h *CartHandler) SetVariant(c echo.Context) error {
	ctx := c.Request().Context()

	entryID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.SetVariantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	entry, err := h.cartService.SetVariant(ctx, entryID, req.VariantID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.NewCartEntry(entry))
}

func (h *CartHandler) SetSize(c echo.Context) error {
	ctx := c.Request().Context()

	entryID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.SetSizeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	entry, err := h.cartService.SetSize(ctx, entryID, req.SizeID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.NewCartEntry(entry))
}

func (h *CartHandler) SetQuantity(c echo.Context) error {
	ctx := c.Request().Context()

	entryID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.SetQuantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	entry, err := h.cartService.SetQuantity(ctx, entryID, service.ParseQuantity(string(req.Quantity)))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.NewCartEntry(entry))
}

func (h *CartHandler) Remove(c echo.Context) error {
	ctx := c.Request().Context()

	entryID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.cartService.Remove(ctx, entryID); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
