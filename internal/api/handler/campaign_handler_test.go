package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/brandscape/brandscape-api/internal/api/middleware"
	"github.com/brandscape/brandscape-api/internal/core/domain"
	"github.com/brandscape/brandscape-api/internal/core/ports"
)

func TestCampaignHandler_Create_Success(t *testing.T) {
	stub := &stubCampaignService{
		createFn: func(_ context.Context, in ports.CreateCampaignInput) (*domain.Campaign, error) {
			if in.BrandID != "b1" || in.Name != "Spring" || in.Category != "Fashion" || in.Budget != 500 {
				t.Fatalf("unexpected input: %+v", in)
			}
			if in.IdempotencyKey != "key-1" {
				t.Fatalf("expected idempotency key to be forwarded, got %q", in.IdempotencyKey)
			}
			if len(in.TargetAudience.Locations) != 1 || in.TargetAudience.Locations[0] != "MX" {
				t.Fatalf("unexpected audience: %+v", in.TargetAudience)
			}
			return &domain.Campaign{
				ID: "c1", BrandID: in.BrandID, Name: in.Name, Category: in.Category,
				Status: domain.CampaignActive, CreatedAt: time.Now(),
				TopInfluencers: []domain.TopInfluencer{{InfluencerUsername: "ana", Source: domain.SourceInfluencers}},
			}, nil
		},
	}
	h := NewCampaignHandler(stub)

	c, rec := newContext(http.MethodPost, "/api/campaigns",
		`{"name":" Spring ","category":"Fashion","budget":500,"targetAudience":{"locations":["MX"]}}`)
	c.Request().Header.Set("Idempotency-Key", "key-1")
	asBrand(c, "b1")

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["status"] != "active" {
		t.Fatalf("unexpected status: %v", resp["status"])
	}
	if top, ok := resp["topInfluencers"].([]any); !ok || len(top) != 1 {
		t.Fatalf("expected one top influencer, got %v", resp["topInfluencers"])
	}
}

func TestCampaignHandler_Create_MissingName(t *testing.T) {
	stub := &stubCampaignService{
		createFn: func(context.Context, ports.CreateCampaignInput) (*domain.Campaign, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewCampaignHandler(stub)

	c, _ := newContext(http.MethodPost, "/api/campaigns", `{"category":"Fashion"}`)
	asBrand(c, "b1")

	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestCampaignHandler_Create_NegativeBudget(t *testing.T) {
	h := NewCampaignHandler(&stubCampaignService{})

	c, _ := newContext(http.MethodPost, "/api/campaigns", `{"name":"N","category":"C","budget":-1}`)
	asBrand(c, "b1")

	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestCampaignHandler_Create_RequiresBrandRole(t *testing.T) {
	h := NewCampaignHandler(&stubCampaignService{})

	c, _ := newContext(http.MethodPost, "/api/campaigns", `{"name":"N","category":"C"}`)
	c.Set(middleware.KeyUserID, "u2")
	c.Set(middleware.KeyRole, domain.RoleInfluencer)

	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestCampaignHandler_Delete_OtherBrand(t *testing.T) {
	stub := &stubCampaignService{
		deleteFn: func(_ context.Context, brandID, id string) error {
			if brandID != "b2" || id != "c1" {
				t.Fatalf("unexpected args: %s %s", brandID, id)
			}
			return domain.ErrForbidden
		},
	}
	h := NewCampaignHandler(stub)

	c, rec := newContext(http.MethodDelete, "/api/campaigns/c1", "")
	c.SetParamNames("id")
	c.SetParamValues("c1")
	asBrand(c, "b2")

	if err := h.Delete(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("nothing should be written on error, got %s", rec.Body.String())
	}
}

func TestCampaignHandler_Delete_Success(t *testing.T) {
	stub := &stubCampaignService{
		deleteFn: func(context.Context, string, string) error { return nil },
	}
	h := NewCampaignHandler(stub)

	c, rec := newContext(http.MethodDelete, "/api/campaigns/c1", "")
	c.SetParamNames("id")
	c.SetParamValues("c1")
	asBrand(c, "b1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] != "Campaign deleted successfully" {
		t.Fatalf("unexpected body: %v", resp)
	}
}

func TestCampaignHandler_ListMine(t *testing.T) {
	stub := &stubCampaignService{
		listFn: func(_ context.Context, brandID string) ([]*domain.Campaign, error) {
			if brandID != "b1" {
				t.Fatalf("unexpected brand: %s", brandID)
			}
			return []*domain.Campaign{{ID: "c2"}, {ID: "c1"}}, nil
		},
	}
	h := NewCampaignHandler(stub)

	c, rec := newContext(http.MethodGet, "/api/campaigns/brand/all", "")
	asBrand(c, "b1")

	if err := h.ListMine(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 || resp[0]["_id"] != "c2" {
		t.Fatalf("unexpected list: %v", resp)
	}
}
