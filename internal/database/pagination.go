package database

import "math"

// PageOffset returns the number of rows to skip for a 1-based page. Pages below 1 map to
// offset 0, and offsets that would overflow saturate at math.MaxInt32 so the query returns
// an empty page instead of hitting a negative OFFSET.
func PageOffset(page, limit int) int {
	if page < 1 || limit < 1 {
		return 0
	}
	if page-1 > math.MaxInt32/limit {
		return math.MaxInt32
	}
	return (page - 1) * limit
}
