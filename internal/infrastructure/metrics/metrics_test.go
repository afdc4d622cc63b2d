package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestOutcome(t *testing.T) {
	if got := Outcome("", nil); got != "success" {
		t.Errorf("Outcome(nil) = %q", got)
	}
	if got := Outcome("capacity_exceeded", errors.New("full")); got != "capacity_exceeded" {
		t.Errorf("Outcome(code) = %q", got)
	}
	if got := Outcome("", errors.New("boom")); got != "error" {
		t.Errorf("Outcome(uncoded) = %q", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.CollectAndCount(APIRequestDuration)
	RecordAPIRequest("GET", "/metrics-test/{id}", 200, 5*time.Millisecond)
	if after := testutil.CollectAndCount(APIRequestDuration); after != before+1 {
		t.Errorf("series count = %d, want %d", after, before+1)
	}
}
