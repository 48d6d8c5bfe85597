package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brandscape/brandscape-api/internal/core/domain"
	"github.com/brandscape/brandscape-api/internal/core/ports"
)

type DashboardHandler struct {
	service ports.InfluencerService
}

func NewDashboardHandler(service ports.InfluencerService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

type dashboardPageResponse struct {
	Influencers      []*domain.DashboardInfluencer `json:"influencers"`
	CurrentPage      int64                         `json:"currentPage"`
	TotalPages       int64                         `json:"totalPages"`
	TotalInfluencers int64                         `json:"totalInfluencers"`
}

// List returns one page of dashboard influencers ranked by engagement rate,
// then followers.
//
// @Summary      List dashboard influencers
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page, 1-based (default 1)"
// @Param        limit  query     int  false  "Page size (default 30, max 100)"
// @Success      200    {object}  dashboardPageResponse
// @Router       /api/dashboard-influencers [get]
func (h *DashboardHandler) List(c echo.Context) error {
	page, err := h.service.Dashboard(c.Request().Context(), ports.PageRequest{
		Page:  queryInt64(c, "page"),
		Limit: queryInt64(c, "limit"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboardPageResponse{
		Influencers:      page.Influencers,
		CurrentPage:      page.Page,
		TotalPages:       page.TotalPages,
		TotalInfluencers: page.Total,
	})
}

// Search matches the query against name, username and category.
//
// @Summary      Search dashboard influencers
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        query  query     string  true   "Search text"
// @Param        limit  query     int     false  "Max results (default 30, max 100)"
// @Success      200    {array}   domain.DashboardInfluencer
// @Failure      400    {object}  map[string]string
// @Router       /api/dashboard-influencers/search [get]
func (h *DashboardHandler) Search(c echo.Context) error {
	items, err := h.service.SearchDashboard(c.Request().Context(), c.QueryParam("query"), queryInt64(c, "limit"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// ByUsername returns one dashboard influencer.
//
// @Summary      Get dashboard influencer by username
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Influencer username"
// @Success      200       {object}  domain.DashboardInfluencer
// @Failure      404       {object}  map[string]string
// @Router       /api/dashboard-influencers/username/{username} [get]
func (h *DashboardHandler) ByUsername(c echo.Context) error {
	inf, err := h.service.DashboardByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, inf)
}
