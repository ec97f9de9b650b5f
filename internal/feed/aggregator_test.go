package feed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/civihub/backend/internal/models"
	"github.com/civihub/backend/internal/repositories"
)

func strptr(s string) *string { return &s }

func seedOrg(store *repositories.MemoryStore, id string, status models.OrgStatus) {
	store.AddOrganization(models.Organization{
		ID:     id,
		Name:   "Org " + id,
		Status: status,
	})
}

func seedItem(store *repositories.MemoryStore, id, orgID string, kind models.FeedKind, location *string, published bool, createdAt time.Time) {
	store.AddFeedItem(models.FeedItem{
		ID:             id,
		OrganizationID: orgID,
		Kind:           kind,
		Title:          "Title " + id,
		Location:       location,
		IsPublished:    published,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	})
}

func newTestAggregator(store *repositories.MemoryStore) *Aggregator {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	resolver := NewResolver(store)
	engine := NewQueryEngine(store, logger)
	return NewAggregator(resolver, engine, store, DefaultGridCells, true)
}

// The canonical scenario: a viewport over Los Angeles, an EVENT filter,
// a user following one approved organization. The NEWS item is excluded
// by kind, the unapproved organization's event regardless of anything.
func TestAggregatorList_EndToEnd(t *testing.T) {
	store := repositories.NewMemoryStore()
	seedOrg(store, "epi-1", models.OrgStatusApproved)
	seedOrg(store, "x-1", models.OrgStatusPending)
	store.AddFollow("u1", "epi-1")

	now := time.Unix(1700000000, 0)
	seedItem(store, "ev-1", "epi-1", models.KindEvent, strptr("POINT(-118.24 34.05)"), true, now)
	seedItem(store, "nw-1", "epi-1", models.KindNews, strptr("POINT(-118.30 34.02)"), true, now)
	seedItem(store, "ev-x", "x-1", models.KindEvent, strptr("POINT(-118.25 34.04)"), true, now)

	agg := newTestAggregator(store)
	raw := RawQuery{
		MinLon: -118.5, MinLat: 34.0, MaxLon: -118.2, MaxLat: 34.1,
		Kinds: []string{"EVENT"},
	}
	resp, err := agg.List(context.Background(), "u1", raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Total != 1 || len(resp.Items) != 1 {
		t.Fatalf("expected exactly one item, got total=%d len=%d", resp.Total, len(resp.Items))
	}
	item := resp.Items[0]
	if item.ID != "ev-1" {
		t.Errorf("got item %s, want ev-1", item.ID)
	}
	if item.OrgName != "Org epi-1" {
		t.Errorf("organization fields not joined: %q", item.OrgName)
	}
	if item.Location == nil || item.Location[0] != -118.24 || item.Location[1] != 34.05 {
		t.Errorf("location = %v, want [-118.24 34.05]", item.Location)
	}
}

func TestAggregatorList_UnpublishedAndUnapprovedNeverAppear(t *testing.T) {
	store := repositories.NewMemoryStore()
	seedOrg(store, "good", models.OrgStatusApproved)
	seedOrg(store, "suspended", models.OrgStatusSuspended)

	now := time.Unix(1700000000, 0)
	seedItem(store, "draft", "good", models.KindNews, strptr("POINT(1 1)"), false, now)
	seedItem(store, "hidden", "suspended", models.KindNews, strptr("POINT(1 1)"), true, now)
	seedItem(store, "visible", "good", models.KindNews, strptr("POINT(1 1)"), true, now)

	agg := newTestAggregator(store)
	raw := RawQuery{MinLon: 0, MinLat: 0, MaxLon: 2, MaxLat: 2}

	// Even naming both orgs explicitly must not resurrect the
	// unpublished or unapproved items.
	raw.OrgIDs = []string{"good", "suspended"}
	resp, err := agg.List(context.Background(), "anyone", raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Total != 1 || resp.Items[0].ID != "visible" {
		t.Errorf("expected only the published approved item, got %+v", resp.Items)
	}
}

func TestAggregatorList_NoVisibilityMeansNothing(t *testing.T) {
	store := repositories.NewMemoryStore()
	seedOrg(store, "org-a", models.OrgStatusApproved)
	seedItem(store, "i1", "org-a", models.KindNews, strptr("POINT(1 1)"), true, time.Unix(1700000000, 0))

	agg := newTestAggregator(store)
	raw := RawQuery{MinLon: 0, MinLat: 0, MaxLon: 2, MaxLat: 2}
	resp, err := agg.List(context.Background(), "follows-nobody", raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Total != 0 || len(resp.Items) != 0 {
		t.Errorf("no follows and no explicit filter must yield nothing, got total=%d", resp.Total)
	}
	if resp.TotalPages != 0 || resp.HasMore {
		t.Errorf("empty result metadata wrong: %+v", resp)
	}
}

func TestAggregatorList_OrderingAndTieBreak(t *testing.T) {
	store := repositories.NewMemoryStore()
	seedOrg(store, "org-a", models.OrgStatusApproved)
	store.AddFollow("u1", "org-a")

	older := time.Unix(1600000000, 0)
	same := time.Unix(1700000000, 0)
	seedItem(store, "b-item", "org-a", models.KindNews, strptr("POINT(1 1)"), true, same)
	seedItem(store, "a-item", "org-a", models.KindNews, strptr("POINT(1 1)"), true, same)
	seedItem(store, "old", "org-a", models.KindNews, strptr("POINT(1 1)"), true, older)

	agg := newTestAggregator(store)
	raw := RawQuery{MinLon: 0, MinLat: 0, MaxLon: 2, MaxLat: 2}
	resp, err := agg.List(context.Background(), "u1", raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := make([]string, len(resp.Items))
	for i, item := range resp.Items {
		got[i] = item.ID
	}
	want := []string{"a-item", "b-item", "old"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestAggregatorList_UnlocatedItemsStayInListMode(t *testing.T) {
	store := repositories.NewMemoryStore()
	seedOrg(store, "org-a", models.OrgStatusApproved)
	store.AddFollow("u1", "org-a")

	now := time.Unix(1700000000, 0)
	seedItem(store, "located", "org-a", models.KindEvent, strptr("POINT(1 1)"), true, now)
	seedItem(store, "listonly", "org-a", models.KindProject, nil, true, now.Add(time.Hour))

	agg := newTestAggregator(store)
	raw := RawQuery{MinLon: 0, MinLat: 0, MaxLon: 2, MaxLat: 2}

	resp, err := agg.List(context.Background(), "u1", raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("list mode should include the unlocated item, got total=%d", resp.Total)
	}
	if resp.Items[0].ID != "listonly" || resp.Items[0].Location != nil {
		t.Errorf("unlocated item malformed in response: %+v", resp.Items[0])
	}

	mapResp, err := agg.Map(context.Background(), "u1", raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mapResp.Items) != 1 || mapResp.Items[0].ID != "located" {
		t.Errorf("map mode must drop unlocated items, got %+v", mapResp.Items)
	}
}

func TestAggregatorList_MalformedLocationDoesNotFailRequest(t *testing.T) {
	store := repositories.NewMemoryStore()
	seedOrg(store, "org-a", models.OrgStatusApproved)
	store.AddFollow("u1", "org-a")

	now := time.Unix(1700000000, 0)
	seedItem(store, "ok", "org-a", models.KindNews, strptr("POINT(1 1)"), true, now)
	seedItem(store, "broken", "org-a", models.KindNews, strptr("POINT(1,1)"), true, now)

	agg := newTestAggregator(store)
	raw := RawQuery{MinLon: 0, MinLat: 0, MaxLon: 2, MaxLat: 2}

	resp, err := agg.List(context.Background(), "u1", raw)
	if err != nil {
		t.Fatalf("a bad stored location must not fail the query: %v", err)
	}
	// The broken item degrades to unlocated: present in the list,
	// location omitted.
	if resp.Total != 2 {
		t.Fatalf("got total=%d, want 2", resp.Total)
	}
	for _, item := range resp.Items {
		if item.ID == "broken" && item.Location != nil {
			t.Errorf("broken location should be dropped, got %v", item.Location)
		}
	}

	mapResp, err := agg.Map(context.Background(), "u1", raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mapResp.Items) != 1 || mapResp.Items[0].ID != "ok" {
		t.Errorf("map mode must exclude the unparseable item, got %+v", mapResp.Items)
	}
}

func TestAggregatorMap_Clustered(t *testing.T) {
	store := repositories.NewMemoryStore()
	seedOrg(store, "org-a", models.OrgStatusApproved)
	store.AddFollow("u1", "org-a")

	now := time.Unix(1700000000, 0)
	// Two items in the same corner cell, one alone in the opposite one.
	seedItem(store, "c1", "org-a", models.KindEvent, strptr("POINT(0.1 0.1)"), true, now)
	seedItem(store, "c2", "org-a", models.KindEvent, strptr("POINT(0.2 0.2)"), true, now)
	seedItem(store, "solo", "org-a", models.KindEvent, strptr("POINT(7.9 7.9)"), true, now)

	agg := newTestAggregator(store)
	raw := RawQuery{MinLon: 0, MinLat: 0, MaxLon: 8, MaxLat: 8, Cluster: true}
	resp, err := agg.Map(context.Background(), "u1", raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Clustered {
		t.Fatal("expected clustered response")
	}
	if len(resp.Clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(resp.Clusters))
	}

	total := 0
	for _, c := range resp.Clusters {
		total += c.Count
		switch c.Count {
		case 1:
			if c.Item == nil || c.Item.ID != "solo" {
				t.Errorf("singleton cluster should carry the solo item view, got %+v", c.Item)
			}
			if c.Item != nil && c.Item.OrgName != "Org org-a" {
				t.Errorf("cluster item view missing org join: %+v", c.Item)
			}
		case 2:
			if c.Item != nil {
				t.Errorf("pair cluster must not carry an item")
			}
		}
	}
	if total != 3 {
		t.Errorf("cluster counts sum to %d, want 3", total)
	}
}

type failingItemRepo struct{ err error }

func (f *failingItemRepo) List(ctx context.Context, c repositories.Criteria) ([]models.FeedItem, error) {
	return nil, f.err
}

func TestAggregator_StoreFailurePropagates(t *testing.T) {
	store := repositories.NewMemoryStore()
	store.AddFollow("u1", "org-a")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	resolver := NewResolver(store)
	engine := NewQueryEngine(&failingItemRepo{err: errors.New("dial tcp: refused")}, logger)
	agg := NewAggregator(resolver, engine, store, DefaultGridCells, true)

	raw := RawQuery{MinLon: 0, MinLat: 0, MaxLon: 2, MaxLat: 2}
	if _, err := agg.List(context.Background(), "u1", raw); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("list: expected ErrStoreUnavailable, got %v", err)
	}
	if _, err := agg.Map(context.Background(), "u1", raw); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("map: expected ErrStoreUnavailable, got %v", err)
	}
}

func TestAggregator_InvalidInputRejected(t *testing.T) {
	agg := newTestAggregator(repositories.NewMemoryStore())

	if _, err := agg.List(context.Background(), "u1", RawQuery{MinLon: 2, MaxLon: 1, MinLat: 0, MaxLat: 1}); !errors.Is(err, ErrInvalidBoundingBox) {
		t.Errorf("expected ErrInvalidBoundingBox, got %v", err)
	}
	raw := RawQuery{MinLon: 0, MinLat: 0, MaxLon: 1, MaxLat: 1, Kinds: []string{"WEBINAR"}}
	if _, err := agg.Map(context.Background(), "u1", raw); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("expected ErrInvalidKind, got %v", err)
	}
}

func TestAggregator_CancelledContextAborts(t *testing.T) {
	store := repositories.NewMemoryStore()
	seedOrg(store, "org-a", models.OrgStatusApproved)
	store.AddFollow("u1", "org-a")
	agg := newTestAggregator(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	raw := RawQuery{MinLon: 0, MinLat: 0, MaxLon: 2, MaxLat: 2}
	if _, err := agg.List(ctx, "u1", raw); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
