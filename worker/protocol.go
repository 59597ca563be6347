package worker

import (
	"github.com/sheenazien8/lazydb/drivers"
)

// ConnectionTarget locates a connection in the project tree. ConnectionID
// is the connection's stable ID at send time; indices alone can be reused
// after the tree is edited.
type ConnectionTarget struct {
	ProjectIdx    int
	ConnectionIdx int
	ConnectionID  string
}

// TableTarget locates a table. TablesGeneration is the connection's table
// list generation at send time.
type TableTarget struct {
	ConnectionTarget
	TableIdx         int
	TablesGeneration uint64
}

// Command is sent to the worker. The set of implementations is closed.
type Command interface {
	command()
}

type FetchTables struct {
	RequestID uint64
	Params    drivers.Params
	Schema    string
	Target    ConnectionTarget
}

type FetchTableDetails struct {
	RequestID uint64
	Params    drivers.Params
	TableName string
	Schema    string
	Target    TableTarget
}

type FetchRoutines struct {
	RequestID uint64
	Params    drivers.Params
	Schema    string
	Target    ConnectionTarget
}

type ExecuteQuery struct {
	RequestID  uint64
	Params     drivers.Params
	Query      string
	ProjectIdx int
}

// Shutdown stops the worker after the commands queued before it.
type Shutdown struct{}

func (FetchTables) command()       {}
func (FetchTableDetails) command() {}
func (FetchRoutines) command()     {}
func (ExecuteQuery) command()      {}
func (Shutdown) command()          {}

// Response answers exactly one non-shutdown Command. Err is empty on
// success; provider errors never cross the goroutine boundary as values.
type Response interface {
	ID() uint64
	Failed() bool
}

type TablesLoaded struct {
	RequestID uint64
	Target    ConnectionTarget
	Tables    []drivers.Table
	Err       string
}

type TableDetailsLoaded struct {
	RequestID uint64
	Target    TableTarget
	Table     drivers.Table
	Err       string
}

type RoutinesLoaded struct {
	RequestID uint64
	Target    ConnectionTarget
	Routines  []drivers.Routine
	Err       string
}

type QueryExecuted struct {
	RequestID  uint64
	ProjectIdx int
	Result     drivers.QueryResult
	Err        string
}

func (r TablesLoaded) ID() uint64       { return r.RequestID }
func (r TableDetailsLoaded) ID() uint64 { return r.RequestID }
func (r RoutinesLoaded) ID() uint64     { return r.RequestID }
func (r QueryExecuted) ID() uint64      { return r.RequestID }

func (r TablesLoaded) Failed() bool       { return r.Err != "" }
func (r TableDetailsLoaded) Failed() bool { return r.Err != "" }
func (r RoutinesLoaded) Failed() bool     { return r.Err != "" }
func (r QueryExecuted) Failed() bool      { return r.Err != "" }
