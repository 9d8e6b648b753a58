package observability

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := InitRegistry()

	// record one sample per family so they show up in the scrape
	ObserveHTTP("/api/dashboard/stats", "GET", 200, 12*time.Millisecond)
	ObserveDB("count_properties", time.Now().Add(-3*time.Millisecond), nil)
	ObserveDB("sold_revenue", time.Now(), errors.New("conn reset"))
	ObserveCache("stats", "miss")

	mh := MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, want := range []string{
		"estate_http_requests_total",
		`estate_db_query_duration_seconds_count{query="count_properties"}`,
		`estate_db_query_errors_total{error="*errors.errorString",query="sold_revenue"}`,
		`estate_cache_events_total{cache="stats",event="miss"}`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output", want)
		}
	}
}

func TestLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "production")
	l.Debug().Msg("hidden")
	l.Info().Str("op", "x").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line leaked in production: %s", out)
	}
	if !strings.Contains(out, `"op":"x"`) || !strings.Contains(out, `"service":"real-estate-api"`) {
		t.Fatalf("unexpected json line: %s", out)
	}

	buf.Reset()
	dev := newLogger(&buf, "dev")
	dev.Debug().Msg("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("dev logger should emit debug: %q", buf.String())
	}
}
