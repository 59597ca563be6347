package app

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sheenazien8/lazydb/history"
	"github.com/sheenazien8/lazydb/logger"
	"github.com/sheenazien8/lazydb/model"
)

const defaultTickInterval = 50 * time.Millisecond

type tickMsg time.Time

// Persister saves what the reducer marks dirty.
type Persister interface {
	SaveHistory(entries []history.Entry) error
	SaveProjects(projects []model.Project) error
}

type ProgramOptions struct {
	Store          Persister
	TickInterval   time.Duration
	PersistHistory bool
	ShowRowCount   bool
	// Clipboard defaults to the system clipboard.
	Clipboard func(text string) error
}

// Program drives an App from bubbletea: keys become Messages, and every
// tick drains the worker and flushes pending side effects.
type Program struct {
	App *App

	keys      KeyMap
	spinner   spinner.Model
	store     Persister
	tick      time.Duration
	persist   bool
	rowCounts bool
	copy      func(string) error

	width  int
	height int
}

func NewProgram(a *App, opts ProgramOptions) *Program {
	s := spinner.New()
	s.Spinner = spinner.Dot

	tick := opts.TickInterval
	if tick <= 0 {
		tick = defaultTickInterval
	}
	cp := opts.Clipboard
	if cp == nil {
		cp = clipboard.WriteAll
	}
	return &Program{
		App:       a,
		keys:      DefaultKeyMap(),
		spinner:   s,
		store:     opts.Store,
		tick:      tick,
		persist:   opts.PersistHistory,
		rowCounts: opts.ShowRowCount,
		copy:      cp,
	}
}

func (p *Program) tickCmd() tea.Cmd {
	return tea.Tick(p.tick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (p *Program) Init() tea.Cmd {
	return tea.Batch(p.tickCmd(), p.spinner.Tick)
}

func (p *Program) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case tickMsg:
		p.App.ProcessDBResponses()
		p.flush()
		return p, p.tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd

	case tea.KeyMsg:
		m, ok := p.keys.Translate(p.App, msg)
		if !ok {
			return p, nil
		}
		if p.App.Update(m) {
			p.flush()
			return p, tea.Quit
		}
		p.flush()
	}
	return p, nil
}

// flush performs the I/O the reducer deferred.
func (p *Program) flush() {
	a := p.App

	if a.HistoryDirty {
		a.HistoryDirty = false
		if p.persist && p.store != nil {
			if err := p.store.SaveHistory(a.History.Entries()); err != nil {
				logger.Error("Failed to save query history", map[string]any{"error": err.Error()})
			}
		}
	}

	if a.ProjectsDirty {
		a.ProjectsDirty = false
		if p.store != nil {
			if err := p.store.SaveProjects(a.Projects); err != nil {
				logger.Error("Failed to save projects", map[string]any{"error": err.Error()})
				a.Status = "Failed to save projects"
			}
		}
	}

	if text, label, ok := a.TakeYank(); ok {
		if err := p.copy(text); err != nil {
			logger.Error("Failed to copy to clipboard", map[string]any{"error": err.Error()})
			a.Status = "Clipboard unavailable"
			return
		}
		logger.Info("Copied to clipboard", map[string]any{"what": label, "length": len(text)})
		a.Status = "Copied " + label + " to clipboard"
	}
}
