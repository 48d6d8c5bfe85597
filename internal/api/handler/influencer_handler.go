package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brandscape/brandscape-api/internal/core/ports"
)

type InfluencerHandler struct {
	service ports.InfluencerService
}

func NewInfluencerHandler(service ports.InfluencerService) *InfluencerHandler {
	return &InfluencerHandler{service: service}
}

// Top lists the highest-engagement influencers.
//
// @Summary      Top influencers
// @Tags         influencers
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Max results (default 10, max 100)"
// @Success      200    {array}   influencerResponse
// @Router       /api/influencers/top [get]
func (h *InfluencerHandler) Top(c echo.Context) error {
	items, err := h.service.Top(c.Request().Context(), queryInt64(c, "limit"))
	if err != nil {
		return err
	}
	resp, err := toInfluencerResponses(items)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// Get returns one influencer by id.
//
// @Summary      Get influencer
// @Tags         influencers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Influencer id"
// @Success      200  {object}  influencerResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/influencers/{id} [get]
func (h *InfluencerHandler) Get(c echo.Context) error {
	inf, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	resp, err := toInfluencerResponse(inf)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// SearchByCategory matches category as a case-insensitive substring.
//
// @Summary      Search influencers by category
// @Tags         influencers
// @Produce      json
// @Security     BearerAuth
// @Param        category  path      string  true   "Category fragment"
// @Param        limit     query     int     false  "Max results (default 10, max 100)"
// @Success      200       {array}   influencerResponse
// @Router       /api/influencers/search/category/{category} [get]
func (h *InfluencerHandler) SearchByCategory(c echo.Context) error {
	items, err := h.service.SearchByCategory(c.Request().Context(), c.Param("category"), queryInt64(c, "limit"))
	if err != nil {
		return err
	}
	resp, err := toInfluencerResponses(items)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}
