package transact

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// EventType is the kind of change reported to listeners.
type EventType int

// see EventType
const (
	EventCommitted EventType = iota
	EventUndone
	EventRedone
	EventRolledBack
	EventTruncated
)

func (typ EventType) String() string {
	switch typ {
	case EventCommitted:
		return "Committed"
	case EventUndone:
		return "Undone"
	case EventRedone:
		return "Redone"
	case EventRolledBack:
		return "RolledBack"
	case EventTruncated:
		return "Truncated"
	}
	return fmt.Sprintf("EventType(%d)", typ)
}

// Event is reported to listeners after the history changed.
type Event struct {
	Type     EventType
	Session  string
	ID       uuid.UUID
	Requests []*Request
	Err      error
}

// entry is one undo step.
type entry struct {
	id   uuid.UUID
	name string
	reqs []*Request
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithRegisterer registers the manager's metrics.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(m *Manager) {
		m.reg = reg
	}
}

// WithMaxUndo bounds the number of undo steps, the oldest steps are dropped first. Zero means unbounded.
func WithMaxUndo(n int) Option {
	return func(m *Manager) {
		m.maxUndo = n
	}
}

// WithCompose enables merging a request that is committed on its own into the previous undo step, when both have the same type and the previous operation implements Composer.
func WithCompose(compose bool) Option {
	return func(m *Manager) {
		m.compose = compose
	}
}

// Manager holds the undo and redo history. All operations are mutually exclusive and at most one session can be open at a time.
type Manager struct {
	mu         sync.Mutex
	logger     *slog.Logger
	reg        prometheus.Registerer
	metrics    *Metrics
	maxUndo    int
	compose    bool
	undo       []*entry
	redo       []*entry
	composable *entry
	session    *Session
	listeners  []func(Event)
}

// NewManager returns an empty history.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.metrics = NewMetrics(m.reg)
	return m
}

// Metrics returns the manager's metrics.
func (m *Manager) Metrics() *Metrics {
	return m.metrics
}

// OnChange adds a listener that is called after every change of the history, outside of the manager's lock.
func (m *Manager) OnChange(f func(Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, f)
}

func (m *Manager) notify(events []Event) {
	if len(events) == 0 {
		return
	}
	m.mu.Lock()
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()
	for _, event := range events {
		for _, f := range listeners {
			f(event)
		}
	}
}

func (m *Manager) attrs(s *Session, r *Request) []any {
	attrs := []any{"request", r.Type(), "category", r.Category(), "description", r.Description()}
	if s != nil {
		attrs = append(attrs, "session", s.name)
	}
	return attrs
}

func (m *Manager) updateDepth() {
	m.metrics.UndoDepth.Set(float64(len(m.undo)))
	m.metrics.RedoDepth.Set(float64(len(m.redo)))
}

// StartSession opens a session. It fails with ErrState if another session is open.
func (m *Manager) StartSession(name string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != nil {
		return nil, Statef("session %q is open", m.session.name)
	}
	m.session = &Session{
		m:    m,
		id:   uuid.New(),
		name: name,
	}
	m.logger.Debug("start session", "session", name)
	return m.session, nil
}

// Session returns the open session or nil.
func (m *Manager) Session() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Commit commits a single request as its own undo step. A request that changed nothing is not pushed and leaves the redo stack intact.
func (m *Manager) Commit(r *Request) error {
	m.mu.Lock()
	if m.session != nil {
		m.mu.Unlock()
		return Statef("commit of %s while session %q is open", r.Type(), m.session.name)
	}
	if err := r.Commit(); err != nil {
		m.logger.Warn("commit failed", append(m.attrs(nil, r), "error", err)...)
		m.mu.Unlock()
		return err
	}
	if !r.Changed() {
		m.logger.Debug("commit without changes", m.attrs(nil, r)...)
		m.mu.Unlock()
		return nil
	}
	m.logger.Debug("commit", m.attrs(nil, r)...)
	events := m.pushComposed(&entry{id: r.ID(), name: r.Type(), reqs: []*Request{r}})
	m.mu.Unlock()
	m.notify(events)
	return nil
}

func (m *Manager) pushComposed(e *entry) []Event {
	if m.compose && m.composable != nil && len(m.undo) != 0 && m.undo[len(m.undo)-1] == m.composable && len(m.composable.reqs) == 1 && len(e.reqs) == 1 {
		if m.composable.reqs[0].compose(e.reqs[0]) {
			count(m.metrics.Commits, e.reqs)
			m.logger.Debug("compose", m.attrs(nil, e.reqs[0])...)
			return []Event{{Type: EventCommitted, Session: m.composable.name, ID: m.composable.id, Requests: m.composable.reqs}}
		}
	}
	events := m.push(e)
	m.composable = e
	return events
}

// push adds an entry to the undo stack and clears the redo stack.
func (m *Manager) push(e *entry) []Event {
	m.undo = append(m.undo, e)
	m.redo = nil
	m.composable = nil
	if 0 < m.maxUndo && m.maxUndo < len(m.undo) {
		n := len(m.undo) - m.maxUndo
		m.logger.Debug("drop oldest undo steps", "count", n)
		m.undo = slices.Delete(m.undo, 0, n)
	}
	count(m.metrics.Commits, e.reqs)
	m.updateDepth()
	return []Event{{Type: EventCommitted, Session: e.name, ID: e.id, Requests: e.reqs}}
}

// CanUndo returns true if there is a step to undo.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session == nil && len(m.undo) != 0
}

// CanRedo returns true if there is a step to redo.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session == nil && len(m.redo) != 0
}

// Len returns the number of undo and redo steps.
func (m *Manager) Len() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo), len(m.redo)
}

// Clear removes all steps. It fails if a session is open.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != nil {
		return Statef("clear while session %q is open", m.session.name)
	}
	m.undo, m.redo, m.composable = nil, nil, nil
	m.updateDepth()
	return nil
}

// Undo reverts the last step, undoing its requests in reverse order. If a request fails to undo, the requests of the step that were already undone are redone, the step is dropped together with the redo stack and the error wraps ErrRedoUnavailable.
func (m *Manager) Undo() error {
	m.mu.Lock()
	if m.session != nil {
		m.mu.Unlock()
		return Statef("undo while session %q is open", m.session.name)
	} else if len(m.undo) == 0 {
		m.mu.Unlock()
		return Statef("nothing to undo")
	}

	e := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.composable = nil

	var events []Event
	var err error
	for i := len(e.reqs) - 1; 0 <= i; i-- {
		if err = e.reqs[i].Undo(); err != nil {
			var errs []error
			for _, r := range e.reqs[i+1:] {
				if rerr := r.Redo(); rerr != nil {
					errs = append(errs, rerr)
				}
			}
			err = fmt.Errorf("undo of %s: %w: %w", e.name, errors.Join(append([]error{err}, errs...)...), ErrRedoUnavailable)
			events = m.truncate(e, err)
			break
		}
	}
	if err == nil {
		m.redo = append(m.redo, e)
		count(m.metrics.Undos, e.reqs)
		m.logger.Info("undo", "session", e.name, "requests", len(e.reqs))
		events = append(events, Event{Type: EventUndone, Session: e.name, ID: e.id, Requests: e.reqs})
	}
	m.updateDepth()
	m.mu.Unlock()
	m.notify(events)
	return err
}

// Redo reapplies the last undone step. If a request fails to redo, the requests of the step that were already redone are undone again, the step is dropped together with the rest of the redo stack and the error wraps ErrRedoUnavailable.
func (m *Manager) Redo() error {
	m.mu.Lock()
	if m.session != nil {
		m.mu.Unlock()
		return Statef("redo while session %q is open", m.session.name)
	} else if len(m.redo) == 0 {
		m.mu.Unlock()
		return Statef("nothing to redo")
	}

	e := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]

	var events []Event
	var err error
	for i, r := range e.reqs {
		if err = r.Redo(); err != nil {
			var errs []error
			for j := i - 1; 0 <= j; j-- {
				if rerr := e.reqs[j].Undo(); rerr != nil {
					errs = append(errs, rerr)
				}
			}
			err = fmt.Errorf("redo of %s: %w: %w", e.name, errors.Join(append([]error{err}, errs...)...), ErrRedoUnavailable)
			events = m.truncate(e, err)
			break
		}
	}
	if err == nil {
		m.undo = append(m.undo, e)
		count(m.metrics.Redos, e.reqs)
		m.logger.Info("redo", "session", e.name, "requests", len(e.reqs))
		events = append(events, Event{Type: EventRedone, Session: e.name, ID: e.id, Requests: e.reqs})
	}
	m.updateDepth()
	m.mu.Unlock()
	m.notify(events)
	return err
}

// truncate drops a failed step and the redo stack.
func (m *Manager) truncate(e *entry, err error) []Event {
	dropped := slices.Clone(e.reqs)
	for _, d := range m.redo {
		dropped = append(dropped, d.reqs...)
	}
	m.redo = nil
	count(m.metrics.Truncations, dropped)
	m.logger.Warn("history truncated", "session", e.name, "requests", len(dropped), "error", err)
	return []Event{{Type: EventTruncated, Session: e.name, ID: e.id, Requests: dropped, Err: err}}
}
