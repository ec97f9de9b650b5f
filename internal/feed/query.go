package feed

import (
	"context"
	"log/slog"

	"github.com/civihub/backend/internal/metrics"
	"github.com/civihub/backend/internal/models"
	"github.com/civihub/backend/internal/repositories"
)

// Item is a feed item with its location parsed, ready for geo filtering
// and clustering. Point is nil for unlocated items.
type Item struct {
	models.FeedItem
	Point *models.Point
}

// QueryEngine retrieves the candidate items for a normalized query and
// visibility set.
type QueryEngine struct {
	items  repositories.FeedItemRepository
	logger *slog.Logger
}

// NewQueryEngine creates a QueryEngine. A nil logger falls back to the
// default slog logger.
func NewQueryEngine(items repositories.FeedItemRepository, logger *slog.Logger) *QueryEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryEngine{items: items, logger: logger}
}

// Query returns the ordered items matching q within the visibility set,
// along with the match count. The count is taken from the same filtered
// sequence as the items, so the two cannot diverge.
//
// includeUnlocated controls whether items without a location survive the
// bounding-box filter: list mode includes them, map mode does not.
//
// An empty visibility set short-circuits to an empty result; it never
// widens into a scan of every organization.
func (e *QueryEngine) Query(ctx context.Context, q Query, orgIDs []string, includeUnlocated bool) ([]Item, int, error) {
	if len(orgIDs) == 0 {
		return nil, 0, nil
	}

	criteria := repositories.Criteria{
		OrgIDs:          orgIDs,
		Kinds:           q.Kinds,
		PublishedOnly:   true,
		ApprovedOrgOnly: true,
	}
	rows, err := e.items.List(ctx, criteria)
	if err != nil {
		return nil, 0, storeError("list feed items", err)
	}

	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		item := Item{FeedItem: row}
		if row.Location != nil {
			p, err := models.ParsePoint(*row.Location)
			if err != nil {
				// A bad location string must not fail the whole
				// query; the item is treated as unlocated.
				metrics.LocationParseFailures.Inc()
				e.logger.Warn("unparseable feed item location",
					"item_id", row.ID, "location", *row.Location, "error", err)
			} else {
				item.Point = &p
			}
		}

		if item.Point != nil {
			if !q.Bounds.Contains(*item.Point) {
				continue
			}
		} else if !includeUnlocated {
			continue
		}
		items = append(items, item)
	}
	return items, len(items), nil
}
