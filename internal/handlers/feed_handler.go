package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/civihub/backend/internal/feed"
	"github.com/civihub/backend/internal/metrics"
	"github.com/civihub/backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	aggregator *feed.Aggregator
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(aggregator *feed.Aggregator) *FeedHandler {
	return &FeedHandler{aggregator: aggregator}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
	g.GET("/feed/map", h.GetMapFeed)
}

// feedQueryParams is the shared parameter set of both feed endpoints.
// The bounding box is required; everything else has defaults. Pointer
// fields keep "missing" distinguishable from a legitimate zero
// coordinate.
type feedQueryParams struct {
	MinLon  *float64 `query:"minLon" validate:"required"`
	MinLat  *float64 `query:"minLat" validate:"required"`
	MaxLon  *float64 `query:"maxLon" validate:"required"`
	MaxLat  *float64 `query:"maxLat" validate:"required"`
	Kinds   string   `query:"kinds"`
	OrgIDs  string   `query:"orgIds"`
	Page    int      `query:"page"`
	Limit   int      `query:"limit"`
	Cluster bool     `query:"cluster"`
}

func (p *feedQueryParams) toRawQuery() feed.RawQuery {
	return feed.RawQuery{
		MinLon:  *p.MinLon,
		MinLat:  *p.MinLat,
		MaxLon:  *p.MaxLon,
		MaxLat:  *p.MaxLat,
		Kinds:   splitList(p.Kinds),
		OrgIDs:  splitList(p.OrgIDs),
		Page:    p.Page,
		Limit:   p.Limit,
		Cluster: p.Cluster,
	}
}

// splitList parses a comma-separated query value, dropping empty parts.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetFeed returns the paginated list-mode feed for the current user.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.RequestDuration.WithLabelValues("list").Observe(time.Since(start).Seconds())
	}()

	var params feedQueryParams
	if err := c.Bind(&params); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&params); err != nil {
		return err
	}

	resp, err := h.aggregator.List(c.Request().Context(), middleware.GetUserID(c), params.toRawQuery())
	if err != nil {
		return feedError(err)
	}
	if resp.Items == nil {
		resp.Items = []feed.ItemView{}
	}
	return c.JSON(http.StatusOK, resp)
}

// GetMapFeed returns the map-mode feed: clustered markers when
// cluster=true, the flat located-item list otherwise.
func (h *FeedHandler) GetMapFeed(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.RequestDuration.WithLabelValues("map").Observe(time.Since(start).Seconds())
	}()

	var params feedQueryParams
	if err := c.Bind(&params); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&params); err != nil {
		return err
	}

	resp, err := h.aggregator.Map(c.Request().Context(), middleware.GetUserID(c), params.toRawQuery())
	if err != nil {
		return feedError(err)
	}
	if resp.Clustered {
		if resp.Clusters == nil {
			resp.Clusters = []feed.ClusterView{}
		}
		return c.JSON(http.StatusOK, echo.Map{"clusters": resp.Clusters})
	}
	if resp.Items == nil {
		resp.Items = []feed.ItemView{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": resp.Items})
}

// feedError maps pipeline errors onto HTTP statuses: validation errors
// are client errors, store failures are retryable server errors. A store
// outage must never degrade into an empty 200.
func feedError(err error) error {
	switch {
	case errors.Is(err, feed.ErrInvalidBoundingBox), errors.Is(err, feed.ErrInvalidKind):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, feed.ErrStoreUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "feed store unavailable")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
