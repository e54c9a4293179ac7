package broadcast

import (
	"context"
	"errors"
	"testing"
)

func ids(n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(i + 1)
	}
	return out
}

func TestRunCountsOutcomes(t *testing.T) {
	failing := map[int64]bool{3: true, 7: true}
	send := func(id int64) error {
		if failing[id] {
			return errors.New("blocked")
		}
		return nil
	}

	p := Run(context.Background(), ids(10), send, 0, nil)
	if p.Sent != 10 || p.Succeeded != 8 || p.Failed != 2 {
		t.Fatalf("progress = %+v", p)
	}
}

func TestRunFailureDoesNotAbort(t *testing.T) {
	var reached []int64
	send := func(id int64) error {
		reached = append(reached, id)
		if id == 1 {
			return errors.New("first send fails")
		}
		return nil
	}

	p := Run(context.Background(), ids(5), send, 0, nil)
	if len(reached) != 5 {
		t.Fatalf("fan-out stopped early, reached %v", reached)
	}
	if p.Failed != 1 || p.Succeeded != 4 {
		t.Fatalf("progress = %+v", p)
	}
}

func TestRunProgressCadence(t *testing.T) {
	var snapshots []Progress
	send := func(int64) error { return nil }
	progress := func(p Progress) { snapshots = append(snapshots, p) }

	Run(context.Background(), ids(25), send, 0, progress)

	// Every tenth send plus the final one.
	if len(snapshots) != 3 {
		t.Fatalf("progress calls = %d, snapshots %v", len(snapshots), snapshots)
	}
	if snapshots[0].Sent != 10 || snapshots[1].Sent != 20 || snapshots[2].Sent != 25 {
		t.Fatalf("snapshots = %v", snapshots)
	}
}

func TestRunFinalProgressOnShortList(t *testing.T) {
	var snapshots []Progress
	Run(context.Background(), ids(3), func(int64) error { return nil }, 0,
		func(p Progress) { snapshots = append(snapshots, p) })
	if len(snapshots) != 1 || snapshots[0].Sent != 3 {
		t.Fatalf("snapshots = %v", snapshots)
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var sent int
	send := func(int64) error {
		sent++
		if sent == 2 {
			cancel()
		}
		return nil
	}

	p := Run(ctx, ids(10), send, 0, nil)
	if p.Sent != 2 {
		t.Fatalf("sent = %d after cancellation", p.Sent)
	}
}

func TestRunEmptyRecipients(t *testing.T) {
	p := Run(context.Background(), nil, func(int64) error {
		t.Fatal("send must not be called")
		return nil
	}, 0, nil)
	if p.Sent != 0 || p.Total != 0 {
		t.Fatalf("progress = %+v", p)
	}
}

func TestDeliveryPercent(t *testing.T) {
	cases := []struct {
		succeeded, total int
		want             float64
	}{
		{0, 0, 0},
		{0, 10, 0},
		{10, 10, 100},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{7, 8, 87.5},
	}
	for _, tc := range cases {
		if got := DeliveryPercent(tc.succeeded, tc.total); got != tc.want {
			t.Errorf("DeliveryPercent(%d, %d) = %v, want %v", tc.succeeded, tc.total, got, tc.want)
		}
	}
}
