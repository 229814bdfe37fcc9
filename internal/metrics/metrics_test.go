package metrics_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lingosleuth/detectivebot/internal/metrics"
)

func TestNewRegistersNamespacedCollectors(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.UpdatesTotal.WithLabelValues("message").Inc()
	m.GamesFinished.WithLabelValues("win").Inc()
	m.ActiveSessions.Set(3)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	got := make(map[string]bool, len(families))
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "detectivebot_") {
			t.Errorf("metric %q is not namespaced", mf.GetName())
		}
		got[mf.GetName()] = true
	}

	for _, name := range []string{
		"detectivebot_updates_total",
		"detectivebot_games_finished_total",
		"detectivebot_active_sessions",
	} {
		if !got[name] {
			t.Errorf("metric %q not gathered", name)
		}
	}
}

func TestNopDoesNotTouchDefaultRegistry(t *testing.T) {
	t.Parallel()

	// Two instances would panic on duplicate registration if they shared a registry.
	metrics.Nop()
	metrics.Nop()
}
