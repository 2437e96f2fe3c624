package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"campus-merch-store/internal/dto"
	"campus-merch-store/internal/model"
	"campus-merch-store/internal/service"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// openProof opens the named multipart file. A missing file is not an error;
// the workflow decides whether proof is required.
func openProof(c echo.Context, field string) (io.ReadCloser, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+field)
	}
	return fh.Open()
}

func checkout(method string, proof io.ReadCloser) service.Checkout {
	co := service.Checkout{PaymentMethod: model.PaymentMethod(method)}
	if proof != nil {
		co.Proof = proof
	}
	return co
}

func optionalUint(raw, field string) (*uint, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+field)
	}
	id := uint(v)
	return &id, nil
}

func requiredUint(raw, field string) (uint, error) {
	v, err := optionalUint(raw, field)
	if err != nil {
		return 0, err
	}
	if v == nil || *v == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, field+" is required")
	}
	return *v, nil
}

func (h *OrderHandler) SubmitDirect(c echo.Context) error {
	ctx := c.Request().Context()

	merchID, err := requiredUint(c.FormValue("merch_id"), "merch_id")
	if err != nil {
		return err
	}
	variantID, err := requiredUint(c.FormValue("variant_id"), "variant_id")
	if err != nil {
		return err
	}
	sizeID, err := optionalUint(c.FormValue("size_id"), "size_id")
	if err != nil {
		return err
	}

	proof, err := openProof(c, "proof")
	if err != nil {
		return err
	}
	if proof != nil {
		defer proof.Close()
	}

	order, err := h.orderService.SubmitDirect(ctx, service.DirectOrder{
		MerchID:   merchID,
		VariantID: variantID,
		SizeID:    sizeID,
		Quantity:  service.ParseQuantity(c.FormValue("quantity")),
		Checkout:  checkout(c.FormValue("payment_method"), proof),
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, dto.OrderResponse{Order: order})
}

func (h *OrderHandler) SubmitCartOrder(c echo.Context) error {
	ctx := c.Request().Context()

	entryID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	proof, err := openProof(c, "proof")
	if err != nil {
		return err
	}
	if proof != nil {
		defer proof.Close()
	}

	order, err := h.orderService.SubmitCartOrder(ctx, service.CartCheckout{
		CartOrderID: entryID,
		Checkout:    checkout(c.FormValue("payment_method"), proof),
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, dto.OrderResponse{Order: order})
}

// SubmitCartOrders checks out several cart entries at once. The form carries
// "orders" (comma separated cart order ids) and, per id, payment_method_<id>
// and proof_<id>.
func (h *OrderHandler) SubmitCartOrders(c echo.Context) error {
	ctx := c.Request().Context()

	entryIDs, err := service.ParseIDList(c.FormValue("orders"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "orders: "+err.Error())
	}
	if len(entryIDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "orders is required")
	}

	var proofs []io.Closer
	defer func() {
		for _, p := range proofs {
			p.Close()
		}
	}()

	in := make([]service.CartCheckout, 0, len(entryIDs))
	for _, id := range entryIDs {
		proof, err := openProof(c, fmt.Sprintf("proof_%d", id))
		if err != nil {
			return err
		}
		if proof != nil {
			proofs = append(proofs, proof)
		}
		in = append(in, service.CartCheckout{
			CartOrderID: id,
			Checkout:    checkout(c.FormValue(fmt.Sprintf("payment_method_%d", id)), proof),
		})
	}

	results := h.orderService.SubmitCartOrders(ctx, in)

	resp := dto.BatchCheckoutResponse{Results: make([]dto.BatchCheckoutResult, len(results))}
	status := http.StatusOK
	for i, r := range results {
		resp.Results[i] = dto.BatchCheckoutResult{CartOrderID: r.CartOrderID, Order: r.Order}
		if r.Err != nil {
			resp.Results[i].Error = r.Err.Error()
			status = http.StatusMultiStatus
		}
	}

	return c.JSON(status, resp)
}
