package feed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/civihub/backend/internal/models"
	"github.com/civihub/backend/internal/repositories"
)

// ItemView is the response shape of a feed item, with display fields of
// the owning organization joined in.
type ItemView struct {
	ID              string          `json:"id"`
	OrgID           string          `json:"orgId"`
	OrgName         string          `json:"orgName"`
	OrgLogoURL      *string         `json:"orgLogoUrl,omitempty"`
	OrgPrimaryColor *string         `json:"orgPrimaryColor,omitempty"`
	Kind            models.FeedKind `json:"kind"`
	Title           string          `json:"title"`
	Summary         *string         `json:"summary,omitempty"`
	Description     *string         `json:"description,omitempty"`
	Location        *[2]float64     `json:"location,omitempty"`
	StartsAt        *time.Time      `json:"startsAt,omitempty"`
	EndsAt          *time.Time      `json:"endsAt,omitempty"`
	URL             *string         `json:"url,omitempty"`
	ImageURL        *string         `json:"imageUrl,omitempty"`
	Data            json.RawMessage `json:"data,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ClusterView is the response shape of one map cluster.
type ClusterView struct {
	Centroid [2]float64 `json:"centroid"`
	Count    int        `json:"count"`
	Item     *ItemView  `json:"item,omitempty"`
}

// ListResponse is the list-mode envelope.
type ListResponse struct {
	Items      []ItemView `json:"items"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"totalPages"`
	HasMore    bool       `json:"hasMore"`
}

// MapResponse is the map-mode result. Exactly one of Clusters or Items
// is meaningful, selected by Clustered.
type MapResponse struct {
	Clustered bool
	Clusters  []ClusterView
	Items     []ItemView
}

// Aggregator runs the whole pipeline for one request: normalize,
// resolve visibility, query, then cluster or paginate. It is the only
// component that knows about the map/list split.
type Aggregator struct {
	resolver  *Resolver
	engine    *QueryEngine
	orgs      repositories.OrganizationRepository
	gridCells int

	// listIncludesUnlocated keeps items without a location visible in
	// list mode. Map mode always drops them.
	listIncludesUnlocated bool
}

// NewAggregator wires the pipeline. gridCells < 1 falls back to
// DefaultGridCells.
func NewAggregator(resolver *Resolver, engine *QueryEngine, orgs repositories.OrganizationRepository, gridCells int, listIncludesUnlocated bool) *Aggregator {
	if gridCells < 1 {
		gridCells = DefaultGridCells
	}
	return &Aggregator{
		resolver:              resolver,
		engine:                engine,
		orgs:                  orgs,
		gridCells:             gridCells,
		listIncludesUnlocated: listIncludesUnlocated,
	}
}

// List serves a list-mode request: paginated flat items.
func (a *Aggregator) List(ctx context.Context, userID string, raw RawQuery) (*ListResponse, error) {
	q, err := NormalizeQuery(raw)
	if err != nil {
		return nil, err
	}

	orgIDs, err := a.resolver.ResolveOrgIDs(ctx, userID, q.OrgIDs)
	if err != nil {
		return nil, err
	}

	items, total, err := a.engine.Query(ctx, q, orgIDs, a.listIncludesUnlocated)
	if err != nil {
		return nil, err
	}

	pageItems, meta := Paginate(items, total, q.Page, q.Limit)
	views, err := a.buildViews(ctx, pageItems)
	if err != nil {
		return nil, err
	}

	return &ListResponse{
		Items:      views,
		Total:      meta.Total,
		Page:       meta.Page,
		Limit:      meta.Limit,
		TotalPages: meta.TotalPages,
		HasMore:    meta.HasMore,
	}, nil
}

// Map serves a map-mode request: clustered markers when q.Cluster is
// set, a flat located-item list otherwise.
func (a *Aggregator) Map(ctx context.Context, userID string, raw RawQuery) (*MapResponse, error) {
	q, err := NormalizeQuery(raw)
	if err != nil {
		return nil, err
	}

	orgIDs, err := a.resolver.ResolveOrgIDs(ctx, userID, q.OrgIDs)
	if err != nil {
		return nil, err
	}

	items, _, err := a.engine.Query(ctx, q, orgIDs, false)
	if err != nil {
		return nil, err
	}

	if !q.Cluster {
		views, err := a.buildViews(ctx, items)
		if err != nil {
			return nil, err
		}
		return &MapResponse{Items: views}, nil
	}

	clusters := ClusterItems(items, q.Bounds, a.gridCells)

	var singles []Item
	for _, c := range clusters {
		if c.Item != nil {
			singles = append(singles, *c.Item)
		}
	}
	singleViews, err := a.buildViews(ctx, singles)
	if err != nil {
		return nil, err
	}
	viewByID := make(map[string]*ItemView, len(singleViews))
	for i := range singleViews {
		viewByID[singleViews[i].ID] = &singleViews[i]
	}

	out := make([]ClusterView, len(clusters))
	for i, c := range clusters {
		out[i] = ClusterView{Centroid: c.Centroid, Count: c.Count}
		if c.Item != nil {
			out[i].Item = viewByID[c.Item.ID]
		}
	}
	return &MapResponse{Clustered: true, Clusters: out}, nil
}

// buildViews joins organization display fields onto the given items,
// one org lookup per request.
func (a *Aggregator) buildViews(ctx context.Context, items []Item) ([]ItemView, error) {
	orgIDSet := make(map[string]bool)
	for _, item := range items {
		orgIDSet[item.OrganizationID] = true
	}
	orgIDs := make([]string, 0, len(orgIDSet))
	for id := range orgIDSet {
		orgIDs = append(orgIDs, id)
	}

	orgs, err := a.orgs.GetByIDs(ctx, orgIDs)
	if err != nil {
		return nil, storeError("load organizations", err)
	}
	orgByID := make(map[string]models.Organization, len(orgs))
	for _, org := range orgs {
		orgByID[org.ID] = org
	}

	views := make([]ItemView, len(items))
	for i, item := range items {
		org := orgByID[item.OrganizationID]
		view := ItemView{
			ID:              item.ID,
			OrgID:           item.OrganizationID,
			OrgName:         org.Name,
			OrgLogoURL:      org.LogoURL,
			OrgPrimaryColor: org.PrimaryColor,
			Kind:            item.Kind,
			Title:           item.Title,
			Summary:         item.Summary,
			Description:     item.Description,
			StartsAt:        item.StartsAt,
			EndsAt:          item.EndsAt,
			URL:             item.URL,
			ImageURL:        item.ImageURL,
			Data:            item.Data,
			CreatedAt:       item.CreatedAt,
			UpdatedAt:       item.UpdatedAt,
		}
		if item.Point != nil {
			view.Location = &[2]float64{item.Point.Lon, item.Point.Lat}
		}
		views[i] = view
	}
	return views, nil
}
