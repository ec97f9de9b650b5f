package repositories

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/civihub/backend/internal/models"
	"gorm.io/gorm"
)

// Criteria is the immutable predicate set for a feed item read. It is
// assembled once by the query engine and translated in a single step
// into the store's query language; there is no incremental builder to
// mutate halfway through.
type Criteria struct {
	// OrgIDs is the resolved visibility set. An empty set must be
	// short-circuited by the caller before reaching the store.
	OrgIDs []string
	// Kinds restricts to the given item kinds when non-empty.
	Kinds []models.FeedKind
	// PublishedOnly keeps unpublished items out of the result.
	PublishedOnly bool
	// ApprovedOrgOnly keeps items of non-approved organizations out.
	ApprovedOrgOnly bool
}

// FeedItemRepository defines read access to stored feed items.
type FeedItemRepository interface {
	// List returns every item matching c, ordered by created_at
	// descending with id ascending as tie-break, in one consistent
	// read.
	List(ctx context.Context, c Criteria) ([]models.FeedItem, error)
}

// PostgresFeedItemRepository implements FeedItemRepository for PostgreSQL.
type PostgresFeedItemRepository struct {
	db *gorm.DB
}

// NewPostgresFeedItemRepository creates a new PostgresFeedItemRepository.
func NewPostgresFeedItemRepository(db *gorm.DB) *PostgresFeedItemRepository {
	return &PostgresFeedItemRepository{db: db}
}

// translate turns a Criteria value into a SQL conjunction. This is the
// only place predicates become store-specific syntax.
func translate(c Criteria) sq.And {
	pred := sq.And{
		sq.Eq{"feed_items.organization_id": c.OrgIDs},
	}
	if c.PublishedOnly {
		pred = append(pred, sq.Eq{"feed_items.is_published": true})
	}
	if c.ApprovedOrgOnly {
		pred = append(pred, sq.Eq{"organizations.status": string(models.OrgStatusApproved)})
	}
	if len(c.Kinds) > 0 {
		kinds := make([]string, len(c.Kinds))
		for i, k := range c.Kinds {
			kinds[i] = string(k)
		}
		pred = append(pred, sq.Eq{"feed_items.kind": kinds})
	}
	return pred
}

func (r *PostgresFeedItemRepository) List(ctx context.Context, c Criteria) ([]models.FeedItem, error) {
	query, args, err := sq.
		Select("feed_items.*").
		From("feed_items").
		Join("organizations ON organizations.id = feed_items.organization_id").
		Where(translate(c)).
		OrderBy("feed_items.created_at DESC", "feed_items.id ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var items []models.FeedItem
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
