package httputil_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/riotkit-org/backup-repository/internal/httputil"
)

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		url            string
		expectedPage   int
		expectedLimit  int
		expectedOffset int
		errorMsg       string
	}{
		{
			name:           "default values",
			url:            "/",
			expectedPage:   1,
			expectedLimit:  httputil.DefaultPageLimit,
			expectedOffset: 0,
		},
		{
			name:           "third page",
			url:            "/?page=3&limit=10",
			expectedPage:   3,
			expectedLimit:  10,
			expectedOffset: 20,
		},
		{
			name:           "max limit",
			url:            "/?limit=1000",
			expectedPage:   1,
			expectedLimit:  1000,
			expectedOffset: 0,
		},
		{
			name:     "page zero",
			url:      "/?page=0",
			errorMsg: "invalid page parameter: must be a positive integer",
		},
		{
			name:     "page not an integer",
			url:      "/?page=abc",
			errorMsg: "invalid page parameter: must be a positive integer",
		},
		{
			name:     "limit too large",
			url:      "/?limit=1001",
			errorMsg: "invalid limit parameter: must be between 1 and 1000",
		},
		{
			name:     "page too large",
			url:      "/?page=1000001",
			errorMsg: "invalid page parameter: cannot exceed 1000000",
		},
		{
			name:     "page overflowing int",
			url:      "/?page=99999999999999999999",
			errorMsg: "invalid page parameter: must be a positive integer",
		},
		{
			name:           "last allowed page",
			url:            "/?page=1000000&limit=1000",
			expectedPage:   1000000,
			expectedLimit:  1000,
			expectedOffset: 999999000,
		},
		{
			name:     "limit zero",
			url:      "/?limit=0",
			errorMsg: "invalid limit parameter: must be between 1 and 1000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, tt.url, nil)

			page, err := httputil.ParsePagination(c)

			if tt.errorMsg != "" {
				assert.EqualError(t, err, tt.errorMsg)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedPage, page.Number)
			assert.Equal(t, tt.expectedLimit, page.Limit)
			assert.Equal(t, tt.expectedOffset, page.Offset())
		})
	}
}
