package metrics_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/temirov/ctxcopy/internal/metrics"
)

func TestRecorderCounts(t *testing.T) {
	recorder := metrics.NewRecorder()
	recorder.RecordLoad(metrics.ResultSuccess, 3, 20*time.Millisecond)
	recorder.RecordSkipped("oversized")
	recorder.RecordSkipped("oversized")
	recorder.RecordCopy(metrics.ResultSuccess, 128)
	recorder.RecordCopy(metrics.ResultFailure, 64)

	expected := `
# HELP ctxcopy_copies_total Total number of copy attempts by result
# TYPE ctxcopy_copies_total counter
ctxcopy_copies_total{result="failure"} 1
ctxcopy_copies_total{result="success"} 1
# HELP ctxcopy_copied_bytes_total Total bytes written to the clipboard sink
# TYPE ctxcopy_copied_bytes_total counter
ctxcopy_copied_bytes_total 128
# HELP ctxcopy_files_loaded_total Total number of file records produced by loads
# TYPE ctxcopy_files_loaded_total counter
ctxcopy_files_loaded_total 3
# HELP ctxcopy_files_skipped_total Total number of walked files left out of the record list
# TYPE ctxcopy_files_skipped_total counter
ctxcopy_files_skipped_total{reason="oversized"} 2
`
	err := testutil.GatherAndCompare(recorder.Registry(), strings.NewReader(expected),
		"ctxcopy_copies_total", "ctxcopy_copied_bytes_total", "ctxcopy_files_loaded_total", "ctxcopy_files_skipped_total")
	if err != nil {
		t.Fatalf("unexpected metrics: %v", err)
	}
	count, err := testutil.GatherAndCount(recorder.Registry(), "ctxcopy_load_duration_seconds")
	if err != nil || count != 1 {
		t.Fatalf("expected one load duration series, got %d (%v)", count, err)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var recorder *metrics.Recorder
	recorder.RecordLoad(metrics.ResultSuccess, 1, time.Second)
	recorder.RecordSkipped("read_error")
	recorder.RecordCopy(metrics.ResultSuccess, 1)
}

func TestWriteToTextfile(t *testing.T) {
	recorder := metrics.NewRecorder()
	recorder.RecordLoad(metrics.ResultSuccess, 2, time.Millisecond)
	path := filepath.Join(t.TempDir(), "ctxcopy.prom")
	if err := recorder.WriteToTextfile(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `ctxcopy_loads_total{result="success"} 1`) {
		t.Fatalf("expected load counter in text file, got:\n%s", data)
	}
}
