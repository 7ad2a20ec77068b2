package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perform(t *testing.T, inbound string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var seen string
	r := gin.New()
	r.Use(Middleware())
	r.GET("/", func(c *gin.Context) {
		seen = Value(c)
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if inbound != "" {
		req.Header.Set(Header, inbound)
	}
	r.ServeHTTP(rec, req)
	return rec, seen
}

func TestMiddlewareAssignsID(t *testing.T) {
	rec, seen := perform(t, "")

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(Header))
	assert.Len(t, seen, 32)
}

func TestMiddlewareReusesInboundID(t *testing.T) {
	rec, seen := perform(t, "upstream-abc-123")

	assert.Equal(t, "upstream-abc-123", seen)
	assert.Equal(t, "upstream-abc-123", rec.Header().Get(Header))
}

func TestMiddlewareRejectsMalformedInboundID(t *testing.T) {
	_, seen := perform(t, "bad id\nwith newline")

	require.NotEmpty(t, seen)
	assert.NotContains(t, seen, "\n")
	assert.Len(t, seen, 32)
}
