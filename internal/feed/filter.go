package feed

import (
	"fmt"

	"github.com/civihub/backend/internal/models"
)

// Pagination defaults. Out-of-range values are clamped rather than
// rejected: a sloppy page/limit is a correctable mistake, a malformed
// bounding box is not. The clamping is deliberate, documented policy.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// BoundingBox is a map viewport in degrees.
type BoundingBox struct {
	MinLon float64 `json:"min_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLon float64 `json:"max_lon"`
	MaxLat float64 `json:"max_lat"`
}

// Contains reports whether p lies inside the box. Boundaries are
// inclusive.
func (b BoundingBox) Contains(p models.Point) bool {
	return p.Lon >= b.MinLon && p.Lon <= b.MaxLon &&
		p.Lat >= b.MinLat && p.Lat <= b.MaxLat
}

// Width returns the longitudinal extent of the box in degrees.
func (b BoundingBox) Width() float64 { return b.MaxLon - b.MinLon }

// Height returns the latitudinal extent of the box in degrees.
func (b BoundingBox) Height() float64 { return b.MaxLat - b.MinLat }

// RawQuery carries the caller-supplied parameters before validation.
type RawQuery struct {
	MinLon  float64
	MinLat  float64
	MaxLon  float64
	MaxLat  float64
	Kinds   []string
	OrgIDs  []string
	Page    int
	Limit   int
	Cluster bool
}

// Query is a validated, normalized feed query.
type Query struct {
	Bounds  BoundingBox
	Kinds   []models.FeedKind
	OrgIDs  []string
	Page    int
	Limit   int
	Cluster bool
}

// NormalizeQuery validates the bounding box and kind filter and applies
// pagination defaults. Coordinate errors and unknown kinds reject the
// request; page and limit are clamped per the policy above.
func NormalizeQuery(raw RawQuery) (Query, error) {
	box := BoundingBox{
		MinLon: raw.MinLon,
		MinLat: raw.MinLat,
		MaxLon: raw.MaxLon,
		MaxLat: raw.MaxLat,
	}
	if box.MinLon > box.MaxLon || box.MinLat > box.MaxLat {
		return Query{}, fmt.Errorf("%w: min exceeds max", ErrInvalidBoundingBox)
	}
	if box.MinLon < -180 || box.MaxLon > 180 || box.MinLat < -90 || box.MaxLat > 90 {
		return Query{}, fmt.Errorf("%w: coordinates out of range", ErrInvalidBoundingBox)
	}

	var kinds []models.FeedKind
	for _, k := range raw.Kinds {
		kind := models.FeedKind(k)
		if !kind.Valid() {
			return Query{}, fmt.Errorf("%w: %q", ErrInvalidKind, k)
		}
		kinds = append(kinds, kind)
	}

	page := raw.Page
	if page < 1 {
		page = DefaultPage
	}
	limit := raw.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Query{
		Bounds:  box,
		Kinds:   kinds,
		OrgIDs:  raw.OrgIDs,
		Page:    page,
		Limit:   limit,
		Cluster: raw.Cluster,
	}, nil
}
