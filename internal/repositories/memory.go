package repositories

import (
	"context"
	"sort"
	"sync"

	"github.com/civihub/backend/internal/models"
)

// MemoryStore is an in-memory implementation of FeedItemRepository,
// FollowRepository and OrganizationRepository. Thread-safe via RWMutex.
// Used in tests and for running the server without a database.
type MemoryStore struct {
	mu      sync.RWMutex
	items   map[string]models.FeedItem
	orgs    map[string]models.Organization
	follows []models.Follow
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]models.FeedItem),
		orgs:  make(map[string]models.Organization),
	}
}

// AddOrganization inserts or replaces an organization.
func (s *MemoryStore) AddOrganization(org models.Organization) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orgs[org.ID] = org
}

// AddFeedItem inserts or replaces a feed item.
func (s *MemoryStore) AddFeedItem(item models.FeedItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
}

// AddFollow records that userID follows orgID.
func (s *MemoryStore) AddFollow(userID, orgID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.follows = append(s.follows, models.Follow{UserID: userID, OrgID: orgID})
}

func (s *MemoryStore) List(ctx context.Context, c Criteria) ([]models.FeedItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed := make(map[string]bool, len(c.OrgIDs))
	for _, id := range c.OrgIDs {
		allowed[id] = true
	}
	kinds := make(map[models.FeedKind]bool, len(c.Kinds))
	for _, k := range c.Kinds {
		kinds[k] = true
	}

	var out []models.FeedItem
	for _, item := range s.items {
		if !allowed[item.OrganizationID] {
			continue
		}
		if c.PublishedOnly && !item.IsPublished {
			continue
		}
		if c.ApprovedOrgOnly {
			org, ok := s.orgs[item.OrganizationID]
			if !ok || org.Status != models.OrgStatusApproved {
				continue
			}
		}
		if len(kinds) > 0 && !kinds[item.Kind] {
			continue
		}
		out = append(out, item)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) GetFollowedOrgIDs(ctx context.Context, userID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for _, f := range s.follows {
		if f.UserID == userID {
			ids = append(ids, f.OrgID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryStore) GetByIDs(ctx context.Context, ids []string) ([]models.Organization, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var orgs []models.Organization
	for _, id := range ids {
		if org, ok := s.orgs[id]; ok {
			orgs = append(orgs, org)
		}
	}
	return orgs, nil
}
