package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRequest(t *testing.T) {
	s := New(nil)
	s.RecordRequest("/infer", "POST", "200", false, 10*time.Millisecond)
	s.RecordRequest("/infer", "POST", "500", true, 5*time.Millisecond)
	if got := testutil.ToFloat64(s.RequestsTotal.WithLabelValues("/infer", "POST", "200")); got != 1 {
		t.Fatalf("expected 1 request recorded, got %v", got)
	}
	if got := testutil.ToFloat64(s.RequestErrorsTotal.WithLabelValues("/infer", "500")); got != 1 {
		t.Fatalf("expected 1 error recorded, got %v", got)
	}
}

func TestRecordBatchFeedsWindow(t *testing.T) {
	s := New(nil)
	for _, size := range []int{2, 4, 6} {
		s.RecordBatch(size, time.Millisecond)
	}
	if avg := s.AverageBatchSizeValue(); avg != 4 {
		t.Fatalf("expected average 4, got %v", avg)
	}
	if got := testutil.ToFloat64(s.BatchesTotal); got != 3 {
		t.Fatalf("expected 3 batches, got %v", got)
	}
}

func TestBatchWindowEvictsOldest(t *testing.T) {
	w := newBatchWindow(3)
	w.add(1)
	w.add(2)
	w.add(3)
	if avg := w.average(); avg != 2 {
		t.Fatalf("expected average 2, got %v", avg)
	}
	w.add(9) // evicts the first 1
	if avg := w.average(); avg != float64(2+3+9)/3 {
		t.Fatalf("expected average after eviction, got %v", avg)
	}
}

func TestRecordInference(t *testing.T) {
	s := New(nil)
	s.RecordInference("resnet50", time.Millisecond)
	if got := testutil.ToFloat64(s.InferenceTotal.WithLabelValues("resnet50")); got != 1 {
		t.Fatalf("expected 1 inference recorded, got %v", got)
	}
}
