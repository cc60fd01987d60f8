package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveAPICountsByRouteAndStatus(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("GET", "/api/services", 200, 10*time.Millisecond)
	m.ObserveAPI("GET", "/api/services", 200, 20*time.Millisecond)
	m.ObserveAPI("POST", "/api/services", 400, time.Millisecond)

	if got := testutil.ToFloat64(m.apiRequests.WithLabelValues("GET", "/api/services", "200")); got != 2 {
		t.Fatalf("GET 200 count: want=2 got=%v", got)
	}
	if got := testutil.ToFloat64(m.apiRequests.WithLabelValues("POST", "/api/services", "400")); got != 1 {
		t.Fatalf("POST 400 count: want=1 got=%v", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", 200, time.Millisecond)
	m.ObserveRAGRequest("chat", "ok", time.Millisecond)
	m.ObserveUpload("csv", "created")
	m.SetObjectStorageModeActive("gcs")
	if m.Registry() != nil {
		t.Fatalf("expected nil registry")
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := NewMetrics()
	m.ObserveUpload("csv", "created")
	m.SetObjectStorageModeActive("minio")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`ragdash_source_uploads_total{file_type="csv",outcome="created"} 1`,
		`ragdash_object_storage_mode_active{mode="minio"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}
