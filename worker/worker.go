// Package worker runs database work off the UI goroutine. Commands are
// processed one at a time in arrival order; each produces exactly one
// Response, collected by the UI with the non-blocking TryRecv.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sheenazien8/lazydb/drivers"
	"github.com/sheenazien8/lazydb/logger"
)

var (
	// ErrClosed is returned once the worker has shut down.
	ErrClosed = errors.New("worker closed")
	// ErrEmpty means no response is ready yet.
	ErrEmpty = errors.New("no response ready")
)

// ProviderFactory opens a provider for one command. drivers.Open is the
// production factory.
type ProviderFactory func(ctx context.Context, p drivers.Params) (drivers.Provider, error)

// Handle is the UI side of the bridge.
type Handle struct {
	open      ProviderFactory
	timeout   time.Duration
	commands  *queue[Command]
	responses *queue[Response]
	done      chan struct{}
	once      sync.Once
}

// Spawn starts the worker goroutine. A zero timeout leaves provider calls
// unbounded.
func Spawn(open ProviderFactory, timeout time.Duration) *Handle {
	h := &Handle{
		open:      open,
		timeout:   timeout,
		commands:  newQueue[Command](),
		responses: newQueue[Response](),
		done:      make(chan struct{}),
	}
	go h.run()
	return h
}

// Send queues cmd without blocking.
func (h *Handle) Send(cmd Command) error {
	if !h.commands.push(cmd) {
		return ErrClosed
	}
	return nil
}

// TryRecv returns the next completed response, ErrEmpty if none is ready,
// or ErrClosed once the worker has exited and every response was taken.
func (h *Handle) TryRecv() (Response, error) {
	r, ok, closed := h.responses.tryPop()
	if ok {
		return r, nil
	}
	if closed {
		return nil, ErrClosed
	}
	return nil, ErrEmpty
}

// Shutdown stops accepting commands, lets queued ones finish and waits for
// the worker to exit. Safe to call more than once.
func (h *Handle) Shutdown() {
	h.once.Do(func() {
		h.commands.push(Shutdown{})
		h.commands.close()
	})
	<-h.done
}

func (h *Handle) run() {
	defer close(h.done)
	defer h.responses.close()

	for {
		cmd, ok := h.commands.pop()
		if !ok {
			return
		}
		if _, stop := cmd.(Shutdown); stop {
			logger.Debug("Worker shutting down", nil)
			return
		}
		if resp := h.dispatch(cmd); resp != nil {
			h.responses.push(resp)
		}
	}
}

func (h *Handle) dispatch(cmd Command) Response {
	ctx := context.Background()
	var cancel context.CancelFunc
	if h.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	switch c := cmd.(type) {
	case FetchTables:
		r := TablesLoaded{RequestID: c.RequestID, Target: c.Target}
		r.Err = h.call(ctx, c.RequestID, "fetch_tables", c.Params, func(p drivers.Provider) (err error) {
			r.Tables, err = p.GetTables(ctx, c.Schema)
			return err
		})
		return r

	case FetchTableDetails:
		r := TableDetailsLoaded{RequestID: c.RequestID, Target: c.Target}
		r.Err = h.call(ctx, c.RequestID, "fetch_table_details", c.Params, func(p drivers.Provider) (err error) {
			r.Table, err = p.GetTableDetails(ctx, c.TableName, c.Schema)
			return err
		})
		return r

	case FetchRoutines:
		r := RoutinesLoaded{RequestID: c.RequestID, Target: c.Target}
		r.Err = h.call(ctx, c.RequestID, "fetch_routines", c.Params, func(p drivers.Provider) (err error) {
			r.Routines, err = p.GetRoutines(ctx, c.Schema)
			return err
		})
		return r

	case ExecuteQuery:
		r := QueryExecuted{RequestID: c.RequestID, ProjectIdx: c.ProjectIdx}
		r.Err = h.call(ctx, c.RequestID, "execute_query", c.Params, func(p drivers.Provider) (err error) {
			r.Result, err = p.ExecuteQuery(ctx, c.Query)
			return err
		})
		return r

	default:
		logger.Warn("Worker received unknown command", map[string]any{
			"type": fmt.Sprintf("%T", cmd),
		})
		return nil
	}
}

// call opens a provider, runs fn and returns the failure as a string. A
// panic in the provider is reported as an internal error.
func (h *Handle) call(ctx context.Context, id uint64, op string, params drivers.Params, fn func(drivers.Provider) error) (msg string) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			msg = (&drivers.Error{Kind: drivers.KindInternal, Err: fmt.Errorf("panic: %v", r)}).Error()
			logger.Error("Provider panicked", map[string]any{
				"requestID": id,
				"op":        op,
				"panic":     fmt.Sprint(r),
			})
		}
	}()

	logger.Debug("Worker dispatch", map[string]any{
		"requestID": id,
		"op":        op,
		"driver":    params.Driver,
		"database":  params.Database,
	})

	p, err := h.open(ctx, params)
	if err != nil {
		return h.fail(id, op, err)
	}
	defer p.Close()

	if err := fn(p); err != nil {
		return h.fail(id, op, err)
	}

	logger.Debug("Worker done", map[string]any{
		"requestID": id,
		"op":        op,
		"elapsed":   time.Since(start).String(),
	})
	return ""
}

func (h *Handle) fail(id uint64, op string, err error) string {
	logger.Warn("Provider call failed", map[string]any{
		"requestID": id,
		"op":        op,
		"error":     err.Error(),
	})
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "unknown error"
}
