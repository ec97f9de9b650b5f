package feed

import "math"

// PageMeta is the pagination metadata computed from a match count. The
// count must come from the same predicate set as the sliced sequence;
// Paginate takes both from one call site to keep them coupled.
type PageMeta struct {
	Total      int
	Page       int
	Limit      int
	TotalPages int
	HasMore    bool
}

// Paginate slices the already-ordered, already-filtered sequence.
// A page past the end yields an empty slice with HasMore=false, not an
// error. total == 0 yields TotalPages == 0.
func Paginate(items []Item, total, page, limit int) ([]Item, PageMeta) {
	totalPages := 0
	if total > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	meta := PageMeta{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}

	start := (page - 1) * limit
	if start >= len(items) {
		return []Item{}, meta
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], meta
}
