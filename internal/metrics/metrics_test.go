package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"jira-telegram-bridge/internal/metrics"
)

func TestMustRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.MustRegister(reg)

	metrics.DeliveriesTotal.WithLabelValues("file", "success").Inc()
	metrics.EchoSuppressedTotal.Inc()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{"bridge_deliveries_total", "bridge_echo_suppressed_total"} {
		if !names[want] {
			t.Errorf("expected metric %s to be gathered", want)
		}
	}

	if got := testutil.ToFloat64(metrics.DeliveriesTotal.WithLabelValues("file", "success")); got < 1 {
		t.Errorf("expected delivery counter >= 1, got %v", got)
	}
}

func TestMustRegisterTwicePanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.MustRegister(reg)

	defer func() {
		if recover() == nil {
			t.Errorf("expected duplicate registration to panic")
		}
	}()
	metrics.MustRegister(reg)
}
