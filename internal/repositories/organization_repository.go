package repositories

import (
	"context"

	"github.com/civihub/backend/internal/models"
	"gorm.io/gorm"
)

// OrganizationRepository defines read access to organizations.
type OrganizationRepository interface {
	// GetByIDs returns the organizations with the given ids. Missing
	// ids are skipped, not an error.
	GetByIDs(ctx context.Context, ids []string) ([]models.Organization, error)
}

// PostgresOrganizationRepository implements OrganizationRepository for
// PostgreSQL.
type PostgresOrganizationRepository struct {
	db *gorm.DB
}

// NewPostgresOrganizationRepository creates a new PostgresOrganizationRepository.
func NewPostgresOrganizationRepository(db *gorm.DB) *PostgresOrganizationRepository {
	return &PostgresOrganizationRepository{db: db}
}

func (r *PostgresOrganizationRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Organization, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var orgs []models.Organization
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&orgs).Error
	return orgs, err
}
