package httputil

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/riotkit-org/backup-repository/internal/database"
)

const (
	// DefaultPageLimit is used when the limit query parameter is absent.
	DefaultPageLimit = 20
	// MaxPageLimit caps the number of elements returned in a single page.
	MaxPageLimit = 1000
	// MaxPageNumber caps the requested page number.
	MaxPageNumber = 1_000_000
)

// Page describes a 1-based page of results.
type Page struct {
	Number int `json:"page"`
	Limit  int `json:"limit"`
}

// Offset returns the number of rows to skip for the page.
func (p Page) Offset() int {
	return database.PageOffset(p.Number, p.Limit)
}

// ParsePagination parses the page and limit query parameters.
// Page defaults to 1 and cannot exceed MaxPageNumber, limit defaults to DefaultPageLimit and cannot exceed MaxPageLimit.
func ParsePagination(c *gin.Context) (Page, error) {
	number, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || number < 1 {
		return Page{}, fmt.Errorf("invalid page parameter: must be a positive integer")
	}
	if number > MaxPageNumber {
		return Page{}, fmt.Errorf("invalid page parameter: cannot exceed %d", MaxPageNumber)
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageLimit)))
	if err != nil || limit < 1 || limit > MaxPageLimit {
		return Page{}, fmt.Errorf("invalid limit parameter: must be between 1 and %d", MaxPageLimit)
	}

	return Page{Number: number, Limit: limit}, nil
}
