package httptransport

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewServerAppliesConfig(t *testing.T) {
	handler := http.NewServeMux()
	srv := NewServer(DefaultServerConfig(":9999"), handler)

	require.Equal(t, ":9999", srv.Addr)
	require.Equal(t, 2*time.Second, srv.ReadHeaderTimeout)
	require.Equal(t, 10*time.Second, srv.WriteTimeout)
	require.Same(t, handler, srv.Handler)
}

func TestLogRequests(t *testing.T) {
	var lines []string
	logf := func(format string, args ...any) { lines = append(lines, fmt.Sprintf(format, args...)) }

	h := LogRequests(logf, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/stats", nil))

	require.Equal(t, []string{"GET /v1/stats"}, lines)
}
