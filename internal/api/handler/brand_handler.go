package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brandscape/brandscape-api/internal/core/domain"
	"github.com/brandscape/brandscape-api/internal/core/ports"
)

type BrandHandler struct {
	service ports.BrandService
}

func NewBrandHandler(service ports.BrandService) *BrandHandler {
	return &BrandHandler{service: service}
}

type updateBrandRequest struct {
	Name     string `json:"name" validate:"max=200"`
	Bio      string `json:"bio" validate:"max=2000"`
	Category string `json:"category" validate:"max=100"`
}

// GetProfile returns the caller's brand profile.
//
// @Summary      Get own brand profile
// @Tags         brands
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  brandResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/brands/profile [get]
func (h *BrandHandler) GetProfile(c echo.Context) error {
	brandID, err := ctxBrandID(c)
	if err != nil {
		return err
	}
	b, err := h.service.Profile(c.Request().Context(), brandID)
	if err != nil {
		return err
	}
	resp, err := toBrandResponse(b)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// UpdateProfile edits name, bio or category of the caller's brand.
//
// @Summary      Update own brand profile
// @Tags         brands
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateBrandRequest  true  "Fields to update"
// @Success      200   {object}  brandResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/brands/profile [put]
func (h *BrandHandler) UpdateProfile(c echo.Context) error {
	brandID, err := ctxBrandID(c)
	if err != nil {
		return err
	}
	var req updateBrandRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	b, err := h.service.UpdateProfile(c.Request().Context(), brandID, domain.BrandProfileUpdate(req))
	if err != nil {
		return err
	}
	resp, err := toBrandResponse(b)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}
