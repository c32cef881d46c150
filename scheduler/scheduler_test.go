package scheduler

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeRunner struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
	ran   chan string
}

func (f *fakeRunner) Run(ctx context.Context, name string) (int64, error) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("run without deadline")
	}
	if f.ran != nil {
		f.ran <- name
	}
	if f.fail[name] {
		return 0, errors.New("boom")
	}
	return 1, nil
}

func TestNextRun(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		now  time.Time
		hour int
		loc  *time.Location
		want time.Time
	}{
		{"later today", time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC), 21, time.UTC, time.Date(2024, 6, 15, 21, 0, 0, 0, time.UTC)},
		{"already passed", time.Date(2024, 6, 15, 22, 0, 0, 0, time.UTC), 21, time.UTC, time.Date(2024, 6, 16, 21, 0, 0, 0, time.UTC)},
		{"exactly on the hour", time.Date(2024, 6, 15, 21, 0, 0, 0, time.UTC), 21, time.UTC, time.Date(2024, 6, 16, 21, 0, 0, 0, time.UTC)},
		{"midnight", time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC), 0, time.UTC, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"other zone", time.Date(2024, 6, 15, 16, 0, 0, 0, time.UTC), 22, kolkata, time.Date(2024, 6, 15, 22, 0, 0, 0, kolkata)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NextRun(tc.now, tc.hour, tc.loc); !got.Equal(tc.want) {
				t.Errorf("NextRun = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDueGroupsJobsAtTheSameHour(t *testing.T) {
	s := New(&fakeRunner{}, time.UTC, Job{"a", 22}, Job{"b", 21}, Job{"c", 21})
	at, jobs := s.due(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))

	if !at.Equal(time.Date(2024, 6, 15, 21, 0, 0, 0, time.UTC)) {
		t.Errorf("at = %v", at)
	}
	if !reflect.DeepEqual(jobs, []Job{{"b", 21}, {"c", 21}}) {
		t.Errorf("jobs = %v", jobs)
	}
}

func TestRunExecutesDueJobsSequentially(t *testing.T) {
	runner := &fakeRunner{ran: make(chan string, 4)}
	s := New(runner, time.UTC, Job{"first", 21}, Job{"second", 21})
	s.now = func() time.Time { return time.Date(2024, 6, 15, 20, 0, 0, 0, time.UTC) }

	fire := make(chan time.Time, 1)
	var waits []time.Duration
	var mu sync.Mutex
	s.after = func(d time.Duration) <-chan time.Time {
		mu.Lock()
		defer mu.Unlock()
		waits = append(waits, d)
		if len(waits) == 1 {
			fire <- time.Time{}
			return fire
		}
		return make(chan time.Time)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	for _, want := range []string{"first", "second"} {
		select {
		case got := <-runner.ran:
			if got != want {
				t.Errorf("ran %q, want %q", got, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("job %q never ran", want)
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}

	mu.Lock()
	defer mu.Unlock()
	if waits[0] != time.Hour {
		t.Errorf("first wait = %v, want 1h", waits[0])
	}
}

func TestRunJobCountsResults(t *testing.T) {
	runner := &fakeRunner{fail: map[string]bool{"broken": true}}
	s := New(runner, time.UTC)

	okBefore := testutil.ToFloat64(maintenanceRuns.WithLabelValues("healthy", "ok"))
	errBefore := testutil.ToFloat64(maintenanceRuns.WithLabelValues("broken", "error"))

	s.runJob(context.Background(), Job{Name: "healthy"})
	s.runJob(context.Background(), Job{Name: "broken"})

	if got := testutil.ToFloat64(maintenanceRuns.WithLabelValues("healthy", "ok")) - okBefore; got != 1 {
		t.Errorf("ok delta = %v", got)
	}
	if got := testutil.ToFloat64(maintenanceRuns.WithLabelValues("broken", "error")) - errBefore; got != 1 {
		t.Errorf("error delta = %v", got)
	}
}

func TestJobNamesOrderedByHour(t *testing.T) {
	s := New(&fakeRunner{}, nil, Job{"late", 23}, Job{"early", 0}, Job{"mid", 21})
	if got := s.JobNames(); !reflect.DeepEqual(got, []string{"early", "mid", "late"}) {
		t.Errorf("JobNames = %v", got)
	}
}

func TestRunWithoutJobsReturns(t *testing.T) {
	done := make(chan struct{})
	go func() {
		New(&fakeRunner{}, time.UTC).Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run with no jobs should return immediately")
	}
}
