package prometheus

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/geth-sharding/shared"
	logTest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Verifies that Service implements the Service interface.
var _ = shared.Service(&Service{})

// stubService reports a fixed health status.
type stubService struct {
	status error
}

func (s *stubService) Start()        {}
func (s *stubService) Stop() error   { return nil }
func (s *stubService) Status() error { return s.status }

func TestLifecycle(t *testing.T) {
	hook := logTest.NewGlobal()
	registry := shared.NewServiceRegistry()
	prometheusService := NewPrometheusService("127.0.0.1:0", registry)

	prometheusService.Start()
	require.Eventually(t, func() bool {
		for _, entry := range hook.AllEntries() {
			if entry.Message == "Starting service" {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)

	assert.NoError(t, prometheusService.Status())
	require.NoError(t, prometheusService.Stop())
}

func TestHealthz_AllServicesHealthy(t *testing.T) {
	registry := shared.NewServiceRegistry()
	require.NoError(t, registry.RegisterService("shard-db", &stubService{}))
	require.NoError(t, registry.RegisterService("observer", &stubService{}))
	service := NewPrometheusService("127.0.0.1:0", registry)

	recorder := httptest.NewRecorder()
	service.healthzHandler(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	body, err := io.ReadAll(recorder.Body)
	require.NoError(t, err)
	assert.Equal(t, "observer: OK\nshard-db: OK\n", string(body))
}

func TestHealthz_ReportsUnhealthyService(t *testing.T) {
	registry := shared.NewServiceRegistry()
	require.NoError(t, registry.RegisterService("shard-db", &stubService{status: errors.New("disk gone")}))
	require.NoError(t, registry.RegisterService("observer", &stubService{}))
	service := NewPrometheusService("127.0.0.1:0", registry)

	recorder := httptest.NewRecorder()
	service.healthzHandler(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	body, err := io.ReadAll(recorder.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "shard-db: ERROR disk gone")
	assert.Contains(t, string(body), "observer: OK")
}
