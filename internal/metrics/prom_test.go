package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterAndRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	Register(reg)

	before := testutil.ToFloat64(relayRequests.WithLabelValues(OutcomeFallback))
	RecordRelayOutcome(OutcomeFallback)
	if got := testutil.ToFloat64(relayRequests.WithLabelValues(OutcomeFallback)); got != before+1 {
		t.Fatalf("fallback count %v, want %v", got, before+1)
	}

	ObserveUpstream(false, 150*time.Millisecond)
	RecordUpstreamStatus("503")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"helpdesk_relay_requests_total",
		"helpdesk_upstream_request_duration_seconds",
		"helpdesk_upstream_responses_total",
	} {
		if !names[want] {
			t.Errorf("metric %s not gathered", want)
		}
	}
}
