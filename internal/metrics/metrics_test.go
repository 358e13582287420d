package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_ObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest("GET", 200, 20*time.Millisecond)
	m.ObserveRequest("GET", 200, 30*time.Millisecond)
	m.ObserveRequest("POST", 0, time.Second)

	if got := testutil.ToFloat64(m.Requests.WithLabelValues("GET", "200")); got != 2 {
		t.Errorf("requests{GET,200} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Requests.WithLabelValues("POST", "0")); got != 1 {
		t.Errorf("requests{POST,0} = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(m.RequestDuration); n != 2 {
		t.Errorf("duration series = %d, want 2", n)
	}
}

func TestMetrics_ObserveOperation(t *testing.T) {
	m := New()
	m.ObserveOperation("Create", "success")
	m.ObserveOperation("Create", "error")
	m.ObserveOperation("Create", "error")

	want := `
# HELP ft_operations_total Tracker operations by name and result.
# TYPE ft_operations_total counter
ft_operations_total{operation="Create",result="error"} 2
ft_operations_total{operation="Create",result="success"} 1
`
	if err := testutil.CollectAndCompare(m.Operations, strings.NewReader(want)); err != nil {
		t.Error(err)
	}
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.ObserveOperation("Refresh", "success")

	path := filepath.Join(t.TempDir(), "textfile", "ft.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `ft_operations_total{operation="Refresh",result="success"} 1`) {
		t.Errorf("textfile missing operation counter:\n%s", data)
	}
}

func TestMetrics_PrivateRegistry(t *testing.T) {
	// Two instances must not collide on registration.
	a, b := New(), New()
	a.ObserveOperation("Load", "success")
	if got := testutil.ToFloat64(b.Operations.WithLabelValues("Load", "success")); got != 0 {
		t.Errorf("second instance saw %v operations from the first", got)
	}
}
