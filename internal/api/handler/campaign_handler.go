package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/brandscape/brandscape-api/internal/core/domain"
	"github.com/brandscape/brandscape-api/internal/core/ports"
)

const headerIdempotencyKey = "Idempotency-Key"

type CampaignHandler struct {
	service ports.CampaignService
}

func NewCampaignHandler(service ports.CampaignService) *CampaignHandler {
	return &CampaignHandler{service: service}
}

type targetAudienceRequest struct {
	AgeGroups []string `json:"ageGroups"`
	Locations []string `json:"locations"`
	Gender    string   `json:"gender"`
}

type createCampaignRequest struct {
	Name           string                `json:"name"        validate:"required,max=200"`
	Category       string                `json:"category"    validate:"required,max=100"`
	Description    string                `json:"description" validate:"max=5000"`
	Budget         float64               `json:"budget"      validate:"gte=0"`
	TargetAudience targetAudienceRequest `json:"targetAudience"`
}

// Create registers a campaign for the caller's brand and snapshots its top
// matched influencers.
//
// @Summary      Create campaign
// @Description  A repeated Idempotency-Key returns the campaign it first created.
// @Description  Each matched influencer carries its current profile.
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                 false  "Client-generated key"
// @Param        body             body      createCampaignRequest  true   "Campaign"
// @Success      201              {object}  domain.Campaign
// @Failure      400              {object}  map[string]string
// @Failure      404              {object}  map[string]any
// @Failure      409              {object}  map[string]string
// @Router       /api/campaigns [post]
func (h *CampaignHandler) Create(c echo.Context) error {
	brandID, err := ctxBrandID(c)
	if err != nil {
		return err
	}
	var req createCampaignRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	campaign, err := h.service.Create(c.Request().Context(), ports.CreateCampaignInput{
		BrandID:        brandID,
		Name:           strings.TrimSpace(req.Name),
		Category:       strings.TrimSpace(req.Category),
		Description:    req.Description,
		Budget:         req.Budget,
		TargetAudience: domain.TargetAudience(req.TargetAudience),
		IdempotencyKey: strings.TrimSpace(c.Request().Header.Get(headerIdempotencyKey)),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, campaign)
}

// ListMine returns the caller's campaigns, newest first.
//
// @Summary      List own campaigns
// @Tags         campaigns
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Campaign
// @Router       /api/campaigns/brand/all [get]
func (h *CampaignHandler) ListMine(c echo.Context) error {
	brandID, err := ctxBrandID(c)
	if err != nil {
		return err
	}
	items, err := h.service.ListForBrand(c.Request().Context(), brandID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Get returns one campaign owned by the caller.
//
// @Summary      Get campaign
// @Tags         campaigns
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Campaign id"
// @Success      200  {object}  domain.Campaign
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/campaigns/{id} [get]
func (h *CampaignHandler) Get(c echo.Context) error {
	brandID, err := ctxBrandID(c)
	if err != nil {
		return err
	}
	campaign, err := h.service.Get(c.Request().Context(), brandID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, campaign)
}

// Delete removes one campaign owned by the caller.
//
// @Summary      Delete campaign
// @Tags         campaigns
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Campaign id"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/campaigns/{id} [delete]
func (h *CampaignHandler) Delete(c echo.Context) error {
	brandID, err := ctxBrandID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), brandID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Campaign deleted successfully"})
}
