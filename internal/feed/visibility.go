package feed

import (
	"context"

	"github.com/civihub/backend/internal/repositories"
)

// Resolver decides which organizations' items a request may see.
type Resolver struct {
	follows repositories.FollowRepository
}

// NewResolver creates a Resolver over the follow relation.
func NewResolver(follows repositories.FollowRepository) *Resolver {
	return &Resolver{follows: follows}
}

// ResolveOrgIDs returns the visibility set for userID. An explicit
// non-empty org filter always wins over follow state; otherwise the set
// of followed organizations is used. The result may be empty, and an
// empty set means "nothing visible" — callers must never widen it to an
// unfiltered scan.
func (r *Resolver) ResolveOrgIDs(ctx context.Context, userID string, explicit []string) ([]string, error) {
	if len(explicit) > 0 {
		out := make([]string, len(explicit))
		copy(out, explicit)
		return out, nil
	}
	ids, err := r.follows.GetFollowedOrgIDs(ctx, userID)
	if err != nil {
		return nil, storeError("resolve follows", err)
	}
	return ids, nil
}
