package fetch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/handiism/f1rdf/internal/model"
	"github.com/handiism/f1rdf/internal/section"
	"github.com/handiism/f1rdf/internal/session"
)

var testKey = model.SelectionKey{Season: 2024, Round: 8}

func raceResults() *model.Table {
	t := model.NewTable("Position", "Driver")
	t.Append(1, "LEC")
	t.Append(2, "PIA")
	return t
}

func circuitInfo() *model.Record {
	return model.NewRecord().
		Set("name", "Monte Carlo").
		Set("location", model.NewRecord().Set("lat", 43.7347))
}

// fakeProvider is a Dispatch that also counts calls per section.
type fakeProvider struct {
	mu    sync.Mutex
	calls map[string]int
	funcs Dispatch
}

func newFakeProvider(funcs Dispatch) *fakeProvider {
	return &fakeProvider{calls: make(map[string]int), funcs: funcs}
}

func (f *fakeProvider) Fetch(ctx context.Context, id string, key model.SelectionKey) (model.Payload, error) {
	f.mu.Lock()
	f.calls[id]++
	f.mu.Unlock()
	return f.funcs.Fetch(ctx, id, key)
}

func scenarioProvider() *fakeProvider {
	return newFakeProvider(Dispatch{
		section.RaceResults: func(ctx context.Context, key model.SelectionKey) (model.Payload, error) {
			return model.TablePayload(raceResults()), nil
		},
		section.CircuitInfo: func(ctx context.Context, key model.SelectionKey) (model.Payload, error) {
			return model.RecordPayload(circuitInfo()), nil
		},
		section.SprintResults: func(ctx context.Context, key model.SelectionKey) (model.Payload, error) {
			return model.Payload{}, nil
		},
		section.LapTimes: func(ctx context.Context, key model.SelectionKey) (model.Payload, error) {
			return model.Payload{}, errors.New("timeout")
		},
		section.PitStops: func(ctx context.Context, key model.SelectionKey) (model.Payload, error) {
			return model.Payload{}, ErrNoData
		},
		section.DriverStandings: func(ctx context.Context, key model.SelectionKey) (model.Payload, error) {
			panic("boom")
		},
		section.StatusData: func(ctx context.Context, key model.SelectionKey) (model.Payload, error) {
			return model.RecordPayload(model.NewRecord().Set("x", 1)), nil
		},
	})
}

var cmpOpts = cmp.AllowUnexported(model.Record{})

func outcomesOf(c *session.Cache) map[string]model.Outcome {
	out := make(map[string]model.Outcome, c.Len())
	for _, id := range c.IDs() {
		out[id], _ = c.Get(id)
	}
	return out
}

func TestRunBatch_MixedScenario(t *testing.T) {
	provider := scenarioProvider()
	orch := NewOrchestrator(section.Default(), provider)

	var progress []Progress
	cache, err := orch.RunBatch(context.Background(),
		[]string{section.SprintResults, section.CircuitInfo, section.RaceResults},
		testKey,
		func(p Progress) { progress = append(progress, p) },
	)
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}

	if cache.Len() != 3 {
		t.Fatalf("cache has %d entries, want 3", cache.Len())
	}
	if cache.Key() != testKey {
		t.Errorf("cache key = %v, want %v", cache.Key(), testKey)
	}

	rr, _ := cache.Get(section.RaceResults)
	if rr.Status != model.StatusSuccess || rr.Payload.Table.Len() != 2 {
		t.Errorf("race_results = %v with %d rows, want success with 2 rows", rr.Status, rr.Payload.Table.Len())
	}
	ci, _ := cache.Get(section.CircuitInfo)
	if ci.Status != model.StatusSuccess || ci.Payload.Record == nil {
		t.Errorf("circuit_info = %v, want success with record", ci.Status)
	}
	sr, _ := cache.Get(section.SprintResults)
	if sr.Status != model.StatusEmpty {
		t.Errorf("sprint_results = %v, want empty", sr.Status)
	}

	// Progress follows registry order, not selection order.
	want := []Progress{
		{Completed: 1, Total: 3, SectionID: section.RaceResults, Status: model.StatusSuccess},
		{Completed: 2, Total: 3, SectionID: section.CircuitInfo, Status: model.StatusSuccess},
		{Completed: 3, Total: 3, SectionID: section.SprintResults, Status: model.StatusEmpty},
	}
	if diff := cmp.Diff(want, progress); diff != "" {
		t.Errorf("progress mismatch (-want +got):\n%s", diff)
	}
}

func TestRunBatch_SingleFailure(t *testing.T) {
	orch := NewOrchestrator(section.Default(), scenarioProvider())

	cache, err := orch.RunBatch(context.Background(), []string{section.LapTimes}, testKey, nil)
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}

	got, ok := cache.Get(section.LapTimes)
	if !ok {
		t.Fatal("lap_times missing from cache")
	}
	if diff := cmp.Diff(model.Failure("timeout"), got, cmpOpts); diff != "" {
		t.Errorf("lap_times outcome mismatch (-want +got):\n%s", diff)
	}
}

func TestRunBatch_FailureIsolation(t *testing.T) {
	ids := []string{section.RaceResults, section.CircuitInfo, section.SprintResults}
	ctx := context.Background()

	orch := NewOrchestrator(section.Default(), scenarioProvider())
	alone, err := orch.RunBatch(ctx, ids, testKey, nil)
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}

	withFailures, err := orch.RunBatch(ctx, append(ids, section.LapTimes, section.DriverStandings), testKey, nil)
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}

	for _, id := range ids {
		a, _ := alone.Get(id)
		b, _ := withFailures.Get(id)
		if diff := cmp.Diff(a, b, cmpOpts); diff != "" {
			t.Errorf("%s changed when failing sections joined the batch (-alone +with):\n%s", id, diff)
		}
	}
	if withFailures.Len() != 5 {
		t.Errorf("cache has %d entries, want 5", withFailures.Len())
	}
}

func TestRunBatch_OutcomeMapping(t *testing.T) {
	tests := []struct {
		id         string
		wantStatus model.Status
		wantMsg    string
	}{
		{section.RaceResults, model.StatusSuccess, ""},
		{section.SprintResults, model.StatusEmpty, ""},
		{section.PitStops, model.StatusEmpty, ""},
		{section.LapTimes, model.StatusFailure, "timeout"},
		{section.DriverStandings, model.StatusFailure, "provider panic: boom"},
		{section.StatusData, model.StatusFailure, "provider returned structured data for a tabular section"},
		{section.QualifyingResults, model.StatusFailure, `no fetcher registered for section "qualifying_results"`},
	}

	orch := NewOrchestrator(section.Default(), scenarioProvider())

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			cache, err := orch.RunBatch(context.Background(), []string{tt.id}, testKey, nil)
			if err != nil {
				t.Fatalf("RunBatch: %v", err)
			}
			got, _ := cache.Get(tt.id)
			if got.Status != tt.wantStatus {
				t.Errorf("status = %v, want %v", got.Status, tt.wantStatus)
			}
			if got.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", got.Message, tt.wantMsg)
			}
		})
	}
}

func TestRunBatch_Validation(t *testing.T) {
	provider := scenarioProvider()
	orch := NewOrchestrator(section.Default(), provider)

	if _, err := orch.RunBatch(context.Background(), nil, testKey, nil); !errors.Is(err, ErrNothingSelected) {
		t.Errorf("empty batch error = %v, want ErrNothingSelected", err)
	}
	if _, err := orch.RunBatch(context.Background(), []string{section.RaceResults, "bogus"}, testKey, nil); !errors.Is(err, ErrUnknownSection) {
		t.Errorf("unknown section error = %v, want ErrUnknownSection", err)
	}
	if len(provider.calls) != 0 {
		t.Errorf("provider called during validation failure: %v", provider.calls)
	}
}

func TestRunBatch_ProgressIsMonotonic(t *testing.T) {
	reg := section.Default()
	orch := NewOrchestrator(reg, scenarioProvider())

	var seen []int
	_, err := orch.RunBatch(context.Background(), reg.IDs(), testKey, func(p Progress) {
		if p.Total != reg.Len() {
			t.Errorf("Total = %d, want %d", p.Total, reg.Len())
		}
		seen = append(seen, p.Completed)
	})
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}

	if len(seen) != reg.Len() {
		t.Fatalf("progress called %d times, want %d", len(seen), reg.Len())
	}
	prev := 0
	for _, n := range seen {
		if n <= prev {
			t.Fatalf("progress not strictly increasing: %v", seen)
		}
		prev = n
	}
	if seen[len(seen)-1] != reg.Len() {
		t.Errorf("final progress = %d, want %d", seen[len(seen)-1], reg.Len())
	}
}

func TestRunBatch_CallsProviderOncePerSection(t *testing.T) {
	reg := section.Default()
	provider := scenarioProvider()
	orch := NewOrchestrator(reg, provider)

	if _, err := orch.RunBatch(context.Background(), reg.IDs(), testKey, nil); err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	for _, id := range reg.IDs() {
		if provider.calls[id] != 1 {
			t.Errorf("%s fetched %d times, want 1", id, provider.calls[id])
		}
	}
}

func TestRunBatch_ConcurrentMatchesSequential(t *testing.T) {
	reg := section.Default()
	slow := scenarioProvider()
	slow.funcs[section.RacesData] = func(ctx context.Context, key model.SelectionKey) (model.Payload, error) {
		time.Sleep(10 * time.Millisecond)
		return model.TablePayload(raceResults()), nil
	}

	sequential, err := NewOrchestrator(reg, slow).RunBatch(context.Background(), reg.IDs(), testKey, nil)
	if err != nil {
		t.Fatalf("sequential RunBatch: %v", err)
	}

	var mu sync.Mutex
	var seen []int
	parallel, err := NewOrchestrator(reg, slow, WithConcurrency(4)).RunBatch(context.Background(), reg.IDs(), testKey, func(p Progress) {
		mu.Lock()
		seen = append(seen, p.Completed)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("parallel RunBatch: %v", err)
	}

	if diff := cmp.Diff(outcomesOf(sequential), outcomesOf(parallel), cmpOpts); diff != "" {
		t.Errorf("parallel cache differs (-sequential +parallel):\n%s", diff)
	}
	for i, n := range seen {
		if n != i+1 {
			t.Fatalf("parallel progress not monotonic: %v", seen)
		}
	}
}

func TestRunBatch_EmitsEvents(t *testing.T) {
	var events []ProgressEvent
	orch := NewOrchestrator(section.Default(), scenarioProvider(), WithEvents(func(e ProgressEvent) {
		events = append(events, e)
	}))

	if _, err := orch.RunBatch(context.Background(), []string{section.LapTimes}, testKey, nil); err != nil {
		t.Fatalf("RunBatch: %v", err)
	}

	var sawError bool
	for _, e := range events {
		if e.Level == LevelError && e.Message == "Error fetching Lap Times: timeout" {
			sawError = true
		}
	}
	if !sawError {
		t.Errorf("no error event for lap_times in %v", events)
	}
	if last := events[len(events)-1]; last.Level != LevelWarning {
		t.Errorf("final event level = %v, want warning", last.Level)
	}
}

func TestRun_StoresIntoSession(t *testing.T) {
	sess := session.New(section.Default())
	sess.SetScope(testKey)
	_ = sess.Toggle(section.RaceResults)
	_ = sess.Toggle(section.LapTimes)

	orch := NewOrchestrator(section.Default(), scenarioProvider())
	cache, err := Run(context.Background(), orch, sess, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sess.Cache() != cache {
		t.Error("Run did not store the cache in the session")
	}
}

func TestRun_NothingSelected(t *testing.T) {
	sess := session.New(section.Default())
	sess.SetScope(testKey)

	orch := NewOrchestrator(section.Default(), scenarioProvider())
	if _, err := Run(context.Background(), orch, sess, nil); !errors.Is(err, ErrNothingSelected) {
		t.Errorf("Run error = %v, want ErrNothingSelected", err)
	}
}

func TestRun_ScopeChangedDuringBatch(t *testing.T) {
	sess := session.New(section.Default())
	sess.SetScope(testKey)
	_ = sess.Toggle(section.RaceResults)

	provider := newFakeProvider(Dispatch{
		section.RaceResults: func(ctx context.Context, key model.SelectionKey) (model.Payload, error) {
			sess.SetScope(model.SelectionKey{Season: 2023, Round: 1})
			return model.TablePayload(raceResults()), nil
		},
	})

	_, err := Run(context.Background(), NewOrchestrator(section.Default(), provider), sess, nil)
	if !errors.Is(err, session.ErrStaleScope) {
		t.Fatalf("Run error = %v, want ErrStaleScope", err)
	}
	if sess.HasResults() {
		t.Error("stale batch results leaked into the new scope")
	}
}

func TestProgress_Fraction(t *testing.T) {
	if got := (Progress{Completed: 1, Total: 4}).Fraction(); got != 0.25 {
		t.Errorf("Fraction() = %v, want 0.25", got)
	}
	if got := (Progress{}).Fraction(); got != 0 {
		t.Errorf("zero Fraction() = %v, want 0", got)
	}
}
