package app

import "github.com/sheenazien8/lazydb/worker"

// LoadingState tracks in-flight operations. Table and routine fetches are
// tracked per connection target; details and queries have a single slot.
type LoadingState struct {
	FetchingTables   map[worker.ConnectionTarget]struct{}
	FetchingDetails  *worker.TableTarget
	FetchingRoutines map[worker.ConnectionTarget]struct{}
	ExecutingQuery   bool
	Message          string
}

func (l LoadingState) IsLoading() bool {
	return len(l.FetchingTables) > 0 || l.FetchingDetails != nil || len(l.FetchingRoutines) > 0 || l.ExecutingQuery
}

func (l *LoadingState) Clear() {
	*l = LoadingState{}
}

func (l *LoadingState) startFetchingTables(t worker.ConnectionTarget) {
	if l.FetchingTables == nil {
		l.FetchingTables = make(map[worker.ConnectionTarget]struct{})
	}
	l.FetchingTables[t] = struct{}{}
	l.Message = "Loading tables..."
}

func (l *LoadingState) startFetchingDetails(t worker.TableTarget) {
	l.FetchingDetails = &t
	l.Message = "Loading table details..."
}

func (l *LoadingState) startFetchingRoutines(t worker.ConnectionTarget) {
	if l.FetchingRoutines == nil {
		l.FetchingRoutines = make(map[worker.ConnectionTarget]struct{})
	}
	l.FetchingRoutines[t] = struct{}{}
	l.Message = "Loading routines..."
}

func (l *LoadingState) startExecutingQuery() {
	l.ExecutingQuery = true
	l.Message = "Executing query..."
}

func (l *LoadingState) doneFetchingTables(t worker.ConnectionTarget) {
	delete(l.FetchingTables, t)
}

func (l *LoadingState) doneFetchingRoutines(t worker.ConnectionTarget) {
	delete(l.FetchingRoutines, t)
}

// doneFetchingDetails frees the details slot if it still belongs to t.
func (l *LoadingState) doneFetchingDetails(t worker.TableTarget) {
	if l.FetchingDetails != nil && *l.FetchingDetails == t {
		l.FetchingDetails = nil
	}
}

func pending(set map[worker.ConnectionTarget]struct{}, projectIdx, connIdx int) bool {
	for t := range set {
		if t.ProjectIdx == projectIdx && t.ConnectionIdx == connIdx {
			return true
		}
	}
	return false
}

// IsFetchingTablesFor reports whether a table list fetch is in flight for
// the connection at projectIdx/connIdx.
func (l LoadingState) IsFetchingTablesFor(projectIdx, connIdx int) bool {
	return pending(l.FetchingTables, projectIdx, connIdx)
}

func (l LoadingState) IsFetchingRoutinesFor(projectIdx, connIdx int) bool {
	return pending(l.FetchingRoutines, projectIdx, connIdx)
}

// finish clears the message once nothing else is outstanding.
func (l *LoadingState) finish() {
	if !l.IsLoading() {
		l.Message = ""
	}
}
