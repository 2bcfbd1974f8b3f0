package httpserver

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type testRegistrar struct{}

func (testRegistrar) RegisterRoutes(r chi.Router) {
	r.Get("/hello", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello"))
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
}

func setupTestServer(t *testing.T) *BaseServer {
	t.Helper()

	srv, err := New(&HTTPServerConfig{
		ListenAddr:               "localhost:0",
		Log:                      slog.New(slog.NewTextHandler(io.Discard, nil)),
		DrainDuration:            time.Millisecond,
		GracefulShutdownDuration: time.Second,
		ReadTimeout:              time.Second,
		WriteTimeout:             time.Second,
	}, testRegistrar{})
	require.NoError(t, err)
	return srv
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	req.RemoteAddr = "10.0.0.1:40001"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestServer_Liveness(t *testing.T) {
	srv := setupTestServer(t)

	w := get(t, srv.Router(), "/livez")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"alive"}`, w.Body.String())
}

func TestServer_DrainUndrain(t *testing.T) {
	srv := setupTestServer(t)
	router := srv.Router()

	require.Equal(t, http.StatusOK, get(t, router, "/readyz").Code)

	require.Equal(t, http.StatusOK, get(t, router, "/drain").Code)
	require.Equal(t, http.StatusServiceUnavailable, get(t, router, "/readyz").Code)

	// Draining twice reports the current state without flapping.
	w := get(t, router, "/drain")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"already draining"}`, w.Body.String())

	require.Equal(t, http.StatusOK, get(t, router, "/undrain").Code)
	require.Equal(t, http.StatusOK, get(t, router, "/readyz").Code)
}

func TestServer_RegistrarRoutesServed(t *testing.T) {
	srv := setupTestServer(t)

	w := get(t, srv.Router(), "/hello")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "hello", w.Body.String())
}

func TestServer_RegistrarCatchAllDoesNotShadowHealth(t *testing.T) {
	srv := setupTestServer(t)

	// testRegistrar installs a NotFound catch-all; health endpoints must
	// still resolve to their own handlers.
	require.Equal(t, http.StatusOK, get(t, srv.Router(), "/livez").Code)
	require.Equal(t, http.StatusNotFound, get(t, srv.Router(), "/nope").Code)
}
