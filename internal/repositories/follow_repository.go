package repositories

import (
	"context"

	"github.com/civihub/backend/internal/models"
	"gorm.io/gorm"
)

// FollowRepository defines read access to the user→organization follow
// relation.
type FollowRepository interface {
	// GetFollowedOrgIDs returns the ids of every organization the user
	// follows, in a stable order.
	GetFollowedOrgIDs(ctx context.Context, userID string) ([]string, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL.
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository.
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

func (r *PostgresFollowRepository) GetFollowedOrgIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ?", userID).
		Order("org_id ASC").
		Pluck("org_id", &ids).Error
	return ids, err
}
