package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordCountsRequests(t *testing.T) {
	c := New()
	c.Record(http.MethodGet, "/api/departments", http.StatusOK, 10*time.Millisecond)
	c.Record(http.MethodGet, "/api/departments", http.StatusOK, 5*time.Millisecond)
	c.Record(http.MethodPost, "", http.StatusNotFound, time.Millisecond)

	if got := testutil.ToFloat64(c.requests.WithLabelValues(http.MethodGet, "/api/departments", "200")); got != 2 {
		t.Fatalf("expected 2 requests, got %v", got)
	}
	if got := testutil.ToFloat64(c.requests.WithLabelValues(http.MethodPost, "unmatched", "404")); got != 1 {
		t.Fatalf("expected unmatched route label, got %v", got)
	}
}

func TestEventCounters(t *testing.T) {
	c := New()
	c.Published("departmentCreated")
	c.Dropped("departmentCreated")
	c.Dropped("departmentCreated")

	if got := testutil.ToFloat64(c.eventsPublished.WithLabelValues("departmentCreated")); got != 1 {
		t.Fatalf("expected 1 published, got %v", got)
	}
	if got := testutil.ToFloat64(c.eventsDropped.WithLabelValues("departmentCreated")); got != 2 {
		t.Fatalf("expected 2 dropped, got %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := New()
	c.Published("policyCreated")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `hrms_events_published_total{event="policyCreated"} 1`) {
		t.Fatalf("expected event counter in output")
	}
}
