package handler

import (
	"net/http"

	"campus-merch-store/internal/dto"
	"campus-merch-store/internal/service"

	"github.com/labstack/echo/v4"
)

type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

func (h *ProfileHandler) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()

	p, err := h.profileService.GetProfile(ctx)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) SaveProfile(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	p, err := h.profileService.SaveProfile(ctx, service.ProfileInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		StudentNumber: req.StudentNumber,
		ContactNumber: req.ContactNumber,
		CollegeID:     req.CollegeID,
		ProgramID:     req.ProgramID,
		Year:          req.Year,
		Section:       req.Section,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) RequestMembership(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.MembershipRequest
	if err := c.Bind(&req); err != nil || req.ShopID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "shop_id is required")
	}

	created, err := h.profileService.RequestMembership(ctx, req.ShopID)
	if err != nil {
		return httpError(err)
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, dto.MembershipResponse{ShopID: req.ShopID, Created: created})
}

func (h *ProfileHandler) ListColleges(c echo.Context) error {
	ctx := c.Request().Context()

	colleges, err := h.profileService.ListColleges(ctx)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, colleges)
}

func (h *ProfileHandler) ListPrograms(c echo.Context) error {
	ctx := c.Request().Context()

	collegeID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	programs, err := h.profileService.ListPrograms(ctx, collegeID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, programs)
}

func (h *ProfileHandler) ManagedShops(c echo.Context) error {
	ctx := c.Request().Context()

	shops, err := h.profileService.ManagedShops(ctx)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, shops)
}
