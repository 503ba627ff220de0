package httpserver

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/iden3/go-iden3-crypto/babyjub"
	"github.com/ruteri/maci-signup/api"
	"github.com/ruteri/maci-signup/api/enrollmenthandler"
	"github.com/ruteri/maci-signup/cryptoutils"
	"github.com/ruteri/maci-signup/enrollment"
	"github.com/ruteri/maci-signup/interfaces"
	"github.com/ruteri/maci-signup/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := enrollment.NewService(registry.NewMockRegistryClientFactory(), nil, logger)
	handler := enrollmenthandler.NewHandler(service, logger).WithSigner(&bind.TransactOpts{})

	srv, err := New(&api.HTTPServerConfig{
		ListenAddr:               "127.0.0.1:0",
		Log:                      logger,
		GracefulShutdownDuration: time.Second,
	}, handler, nil)
	require.NoError(t, err)
	return srv
}

func getStatus(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var body struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body.Status
}

func TestNew_RequiresLogger(t *testing.T) {
	_, err := New(&api.HTTPServerConfig{}, nil, nil)
	assert.Error(t, err)
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	code, status := getStatus(t, h, "/livez")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alive", status)

	code, status = getStatus(t, h, "/readyz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", status)
}

func TestDrainUndrain(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	_, status := getStatus(t, h, "/drain")
	assert.Equal(t, "draining", status)
	assert.False(t, srv.IsReady())

	_, status = getStatus(t, h, "/drain")
	assert.Equal(t, "already draining", status)

	code, status := getStatus(t, h, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not ready", status)

	// The liveness check is unaffected by draining
	code, _ = getStatus(t, h, "/livez")
	assert.Equal(t, http.StatusOK, code)

	_, status = getStatus(t, h, "/undrain")
	assert.Equal(t, "ready", status)
	_, status = getStatus(t, h, "/undrain")
	assert.Equal(t, "already ready", status)
	assert.True(t, srv.IsReady())
}

func TestEnrollmentRoutesMounted(t *testing.T) {
	srv := newTestServer(t)

	sk := babyjub.NewRandPrivKey()
	pk := cryptoutils.PublicKeyFromBabyJub(sk.Public())
	addr := interfaces.ContractAddress{0x01}

	w := httptest.NewRecorder()
	path := "/api/signup/" + addr.String() + "/" + url.PathEscape(cryptoutils.SerializePublicKey(pk))
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result interfaces.LookupResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.IsRegistered)
}

func TestShutdownWithoutStart(t *testing.T) {
	srv := newTestServer(t)
	srv.Shutdown()
	assert.False(t, srv.IsReady())
}
