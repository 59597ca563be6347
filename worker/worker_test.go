package worker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sheenazien8/lazydb/drivers"
)

type fakeProvider struct {
	mu       *sync.Mutex
	inFlight *int32
	maxSeen  *int32
	delay    time.Duration
	tables   []drivers.Table
	err      error
	panicMsg string
}

func (f *fakeProvider) enter() func() {
	n := atomic.AddInt32(f.inFlight, 1)
	f.mu.Lock()
	if n > *f.maxSeen {
		*f.maxSeen = n
	}
	f.mu.Unlock()
	return func() { atomic.AddInt32(f.inFlight, -1) }
}

func (f *fakeProvider) DatabaseType() string { return "fake" }

func (f *fakeProvider) TestConnection(ctx context.Context) error { return nil }

func (f *fakeProvider) Version(ctx context.Context) (string, error) {
	return "fake 1.0", nil
}

func (f *fakeProvider) GetSchemas(ctx context.Context) ([]string, error) {
	return []string{"public"}, nil
}

func (f *fakeProvider) Close() error { return nil }

func (f *fakeProvider) GetTables(ctx context.Context, schema string) ([]drivers.Table, error) {
	defer f.enter()()
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	time.Sleep(f.delay)
	return f.tables, f.err
}

func (f *fakeProvider) GetTableDetails(ctx context.Context, name, schema string) (drivers.Table, error) {
	defer f.enter()()
	t := drivers.NewTable(name, schema, drivers.TableTypeBase)
	t.DetailsLoaded = true
	return t, f.err
}

func (f *fakeProvider) GetRoutines(ctx context.Context, schema string) ([]drivers.Routine, error) {
	defer f.enter()()
	return []drivers.Routine{{Name: "f", Schema: schema}}, f.err
}

func (f *fakeProvider) ExecuteQuery(ctx context.Context, query string) (drivers.QueryResult, error) {
	defer f.enter()()
	time.Sleep(f.delay)
	if f.err != nil {
		return drivers.QueryResult{}, f.err
	}
	return drivers.QueryResult{Columns: []string{"q"}, Rows: [][]string{{query}}, TotalRows: 1}, nil
}

func newFake() *fakeProvider {
	return &fakeProvider{mu: &sync.Mutex{}, inFlight: new(int32), maxSeen: new(int32)}
}

func factory(f *fakeProvider) ProviderFactory {
	return func(ctx context.Context, p drivers.Params) (drivers.Provider, error) {
		return f, nil
	}
}

// recvN polls until n responses arrive or the deadline passes.
func recvN(t *testing.T, h *Handle, n int) []Response {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	var out []Response
	for len(out) < n {
		r, err := h.TryRecv()
		switch {
		case err == nil:
			out = append(out, r)
		case errors.Is(err, ErrEmpty):
			if time.Now().After(deadline) {
				t.Fatalf("timed out after %d of %d responses", len(out), n)
			}
			time.Sleep(time.Millisecond)
		default:
			t.Fatalf("TryRecv() error: %v", err)
		}
	}
	return out
}

func TestRequestIDsRoundTrip(t *testing.T) {
	h := Spawn(factory(newFake()), 0)
	defer h.Shutdown()

	target := ConnectionTarget{ProjectIdx: 0, ConnectionIdx: 1, ConnectionID: "c1"}
	cmds := []Command{
		FetchTables{RequestID: 1, Schema: "public", Target: target},
		FetchTableDetails{RequestID: 2, TableName: "users", Schema: "public", Target: TableTarget{ConnectionTarget: target, TableIdx: 3, TablesGeneration: 7}},
		ExecuteQuery{RequestID: 3, Query: "SELECT 1", ProjectIdx: 0},
	}
	for _, c := range cmds {
		if err := h.Send(c); err != nil {
			t.Fatalf("Send() error: %v", err)
		}
	}

	seen := map[uint64]bool{}
	for _, r := range recvN(t, h, 3) {
		seen[r.ID()] = true
		if r.Failed() {
			t.Errorf("response %d failed: %+v", r.ID(), r)
		}
		switch r := r.(type) {
		case TableDetailsLoaded:
			if r.Target.TableIdx != 3 || r.Target.TablesGeneration != 7 || r.Target.ConnectionID != "c1" {
				t.Errorf("target not echoed: %+v", r.Target)
			}
			if r.Table.Name != "users" || !r.Table.DetailsLoaded {
				t.Errorf("table = %+v", r.Table)
			}
		case QueryExecuted:
			if r.Result.Rows[0][0] != "SELECT 1" {
				t.Errorf("result = %+v", r.Result)
			}
		}
	}
	for _, id := range []uint64{1, 2, 3} {
		if !seen[id] {
			t.Errorf("missing response for request %d", id)
		}
	}
	if len(seen) != 3 {
		t.Errorf("got %d distinct ids, want 3", len(seen))
	}
}

func TestCommandsRunSerially(t *testing.T) {
	f := newFake()
	f.delay = 5 * time.Millisecond
	h := Spawn(factory(f), 0)
	defer h.Shutdown()

	for i := 1; i <= 5; i++ {
		h.Send(ExecuteQuery{RequestID: uint64(i), Query: "SELECT 1"})
	}
	responses := recvN(t, h, 5)

	if got := atomic.LoadInt32(f.maxSeen); got != 1 {
		t.Errorf("max concurrent provider calls = %d, want 1", got)
	}
	for i, r := range responses {
		if r.ID() != uint64(i+1) {
			t.Errorf("responses[%d].ID() = %d, want %d", i, r.ID(), i+1)
		}
	}
}

func TestProviderErrorCollapsedToString(t *testing.T) {
	f := newFake()
	f.err = &drivers.Error{Kind: drivers.KindQuery, Err: errors.New("relation does not exist")}
	h := Spawn(factory(f), 0)
	defer h.Shutdown()

	h.Send(FetchRoutines{RequestID: 9})
	r := recvN(t, h, 1)[0].(RoutinesLoaded)
	if !r.Failed() || r.Err != "Query failed: relation does not exist" {
		t.Errorf("Err = %q", r.Err)
	}

	// the worker keeps serving after a failure
	f.err = nil
	h.Send(FetchRoutines{RequestID: 10, Schema: "public"})
	r = recvN(t, h, 1)[0].(RoutinesLoaded)
	if r.Failed() || len(r.Routines) != 1 {
		t.Errorf("second response = %+v", r)
	}
}

func TestFactoryError(t *testing.T) {
	open := func(ctx context.Context, p drivers.Params) (drivers.Provider, error) {
		return nil, &drivers.Error{Kind: drivers.KindConnection, Err: errors.New("refused")}
	}
	h := Spawn(open, 0)
	defer h.Shutdown()

	h.Send(FetchTables{RequestID: 1})
	r := recvN(t, h, 1)[0].(TablesLoaded)
	if r.Err != "Connection failed: refused" {
		t.Errorf("Err = %q", r.Err)
	}
}

func TestProviderPanicRecovered(t *testing.T) {
	f := newFake()
	f.panicMsg = "boom"
	h := Spawn(factory(f), 0)
	defer h.Shutdown()

	h.Send(FetchTables{RequestID: 1})
	r := recvN(t, h, 1)[0].(TablesLoaded)
	if !strings.HasPrefix(r.Err, "Internal error: panic: boom") {
		t.Errorf("Err = %q", r.Err)
	}

	f.panicMsg = ""
	h.Send(FetchTables{RequestID: 2})
	if r := recvN(t, h, 1)[0]; r.Failed() {
		t.Errorf("worker did not recover: %+v", r)
	}
}

func TestTimeout(t *testing.T) {
	open := func(ctx context.Context, p drivers.Params) (drivers.Provider, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	h := Spawn(open, 10*time.Millisecond)
	defer h.Shutdown()

	h.Send(ExecuteQuery{RequestID: 1})
	r := recvN(t, h, 1)[0].(QueryExecuted)
	if !strings.Contains(r.Err, "deadline exceeded") {
		t.Errorf("Err = %q", r.Err)
	}
}

func TestTryRecvEmpty(t *testing.T) {
	h := Spawn(factory(newFake()), 0)
	defer h.Shutdown()

	if _, err := h.TryRecv(); !errors.Is(err, ErrEmpty) {
		t.Errorf("TryRecv() error = %v, want ErrEmpty", err)
	}
}

func TestShutdown(t *testing.T) {
	h := Spawn(factory(newFake()), 0)

	h.Send(ExecuteQuery{RequestID: 1, Query: "SELECT 1"})
	h.Shutdown()
	h.Shutdown()

	if err := h.Send(ExecuteQuery{RequestID: 2}); !errors.Is(err, ErrClosed) {
		t.Errorf("Send() after shutdown = %v, want ErrClosed", err)
	}

	// queued work finishes before the worker exits
	r, err := h.TryRecv()
	if err != nil || r.ID() != 1 {
		t.Fatalf("TryRecv() = %v, %v; want response 1", r, err)
	}
	if _, err := h.TryRecv(); !errors.Is(err, ErrClosed) {
		t.Errorf("TryRecv() after drain = %v, want ErrClosed", err)
	}
}
