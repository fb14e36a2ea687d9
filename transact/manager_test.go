package transact

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/tdewolff/test"
)

func TestManagerUndoRedo(t *testing.T) {
	s := newStore(map[string]float64{"a": 60})
	m := NewManager(WithLogger(discard))
	test.That(t, !m.CanUndo())
	test.That(t, !m.CanRedo())
	test.That(t, errors.Is(m.Undo(), ErrState))
	test.That(t, errors.Is(m.Redo(), ErrState))

	test.Error(t, m.Commit(newSetValue(s, 100, "a")))
	test.T(t, s.value("a"), 100.0)
	test.That(t, m.CanUndo())

	test.Error(t, m.Undo())
	test.T(t, s.value("a"), 60.0)
	test.That(t, m.CanRedo())

	test.Error(t, m.Redo())
	test.T(t, s.value("a"), 100.0)

	// redo is idempotent over repeated cycles
	for i := 0; i < 3; i++ {
		test.Error(t, m.Undo())
		test.Error(t, m.Redo())
	}
	test.T(t, s.value("a"), 100.0)

	// a new commit clears the redo stack
	test.Error(t, m.Commit(newSetValue(s, 1, "a")))
	test.Error(t, m.Undo())
	test.Error(t, m.Commit(newSetValue(s, 2, "a")))
	test.That(t, !m.CanRedo())
	undo, redo := m.Len()
	test.T(t, undo, 2)
	test.T(t, redo, 0)

	// failed commits are not pushed
	test.That(t, errors.Is(m.Commit(newSetValue(s, -1, "a")), ErrValidation))
	undo, _ = m.Len()
	test.T(t, undo, 2)

	test.Error(t, m.Clear())
	test.That(t, !m.CanUndo())
}

func TestManagerUnchanged(t *testing.T) {
	s := newStore(map[string]float64{"a": 1, "b": 2})
	m := NewManager(WithLogger(discard))
	test.Error(t, m.Commit(newSetValue(s, 10, "a")))
	test.Error(t, m.Undo())

	// setting the current value is not an undo step and keeps the redo stack
	r := newSetValue(s, 1, "a")
	test.Error(t, m.Commit(r))
	test.T(t, r.State(), Committed)
	test.That(t, !r.Changed())
	undo, redo := m.Len()
	test.T(t, undo, 0)
	test.T(t, redo, 1)

	session, err := m.StartSession("same")
	test.Error(t, err)
	test.Error(t, session.Apply(newSetValue(s, 1, "a")))
	test.Error(t, session.Apply(newSetValue(s, 2, "b")))
	test.Error(t, session.Commit())
	undo, redo = m.Len()
	test.T(t, undo, 0)
	test.T(t, redo, 1)

	// one changing request makes the whole session a step
	session, err = m.StartSession("mixed")
	test.Error(t, err)
	test.Error(t, session.Apply(newSetValue(s, 2, "b")))
	test.Error(t, session.Apply(newSetValue(s, 5, "a")))
	test.Error(t, session.Commit())
	undo, redo = m.Len()
	test.T(t, undo, 1)
	test.T(t, redo, 0)
}

func TestManagerSession(t *testing.T) {
	s := newStore(map[string]float64{"a": 1, "b": 2})
	m := NewManager(WithLogger(discard))

	session, err := m.StartSession("move")
	test.Error(t, err)
	test.That(t, m.Session() == session)
	test.T(t, session.Name(), "move")
	_, err = m.StartSession("other")
	test.That(t, errors.Is(err, ErrState))
	test.That(t, errors.Is(m.Commit(newSetValue(s, 5, "a")), ErrState))
	test.That(t, errors.Is(m.Undo(), ErrState))
	test.That(t, errors.Is(m.Clear(), ErrState))
	test.That(t, !m.CanUndo())

	test.Error(t, session.Apply(newSetValue(s, 10, "a")))
	test.Error(t, session.Apply(newSetValue(s, 20, "b")))
	test.Error(t, session.Apply(newSetValue(s, 30, "a", "b")))
	test.T(t, len(session.Requests()), 3)
	test.Error(t, session.Commit())
	test.That(t, m.Session() == nil)
	test.That(t, errors.Is(session.Commit(), ErrState))
	test.That(t, errors.Is(session.Apply(newSetValue(s, 1, "a")), ErrState))

	undo, _ := m.Len()
	test.T(t, undo, 1)
	test.Error(t, m.Undo())
	test.T(t, s.value("a"), 1.0)
	test.T(t, s.value("b"), 2.0)
	test.Error(t, m.Redo())
	test.T(t, s.value("a"), 30.0)
	test.T(t, s.value("b"), 30.0)

	// empty sessions leave no trace
	session, err = m.StartSession("empty")
	test.Error(t, err)
	test.Error(t, session.Commit())
	undo, _ = m.Len()
	test.T(t, undo, 1)
}

func TestManagerSessionAtomic(t *testing.T) {
	s := newStore(map[string]float64{"a": 1, "b": 2})
	m := NewManager(WithLogger(discard))
	test.Error(t, m.Commit(newSetValue(s, 3, "a")))

	session, err := m.StartSession("batch")
	test.Error(t, err)
	r1, r2 := newSetValue(s, 10, "a"), newSetValue(s, 20, "b")
	test.Error(t, session.Apply(r1))
	test.Error(t, session.Apply(r2))
	err = session.Apply(newSetValue(s, -1, "a"))
	test.That(t, errors.Is(err, ErrValidation))
	test.T(t, s.value("a"), 3.0)
	test.T(t, s.value("b"), 2.0)
	test.T(t, r1.State(), Undone)
	test.T(t, r2.State(), Undone)
	test.That(t, m.Session() == nil)
	test.That(t, errors.Is(session.Commit(), ErrState))

	undo, redo := m.Len()
	test.T(t, undo, 1)
	test.T(t, redo, 0)

	// explicit abort
	session, err = m.StartSession("abort")
	test.Error(t, err)
	test.Error(t, session.Apply(newSetValue(s, 10, "b")))
	test.Error(t, session.Abort())
	test.T(t, s.value("b"), 2.0)
	test.That(t, errors.Is(session.Abort(), ErrState))
	_, err = m.StartSession("next")
	test.Error(t, err)
}

func TestManagerUndoPoisoned(t *testing.T) {
	s := newStore(map[string]float64{"a": 1, "b": 2, "c": 3})
	m := NewManager(WithLogger(discard))
	events := []Event{}
	m.OnChange(func(e Event) {
		events = append(events, e)
	})

	test.Error(t, m.Commit(newSetValue(s, 10, "a")))
	session, err := m.StartSession("batch")
	test.Error(t, err)
	test.Error(t, session.Apply(newSetValue(s, 30, "c")))
	test.Error(t, session.Apply(newSetValue(s, 20, "b")))
	test.Error(t, session.Commit())

	// undo b, then fail on c and redo b
	delete(s, "c")
	err = m.Undo()
	test.That(t, errors.Is(err, ErrReference), err)
	test.That(t, errors.Is(err, ErrRedoUnavailable), err)
	test.T(t, s.value("b"), 20.0)
	test.That(t, !m.CanRedo())
	undo, _ := m.Len()
	test.T(t, undo, 1)
	test.T(t, events[len(events)-1].Type, EventTruncated)
	test.T(t, len(events[len(events)-1].Requests), 2)

	// older history stays intact
	test.Error(t, m.Undo())
	test.T(t, s.value("a"), 1.0)
}

func TestManagerRedoPoisoned(t *testing.T) {
	s := newStore(map[string]float64{"a": 1, "b": 2})
	m := NewManager(WithLogger(discard))
	test.Error(t, m.Commit(newSetValue(s, 10, "a")))
	test.Error(t, m.Commit(newSetValue(s, 20, "b")))
	test.Error(t, m.Undo())
	test.Error(t, m.Undo())

	delete(s, "a")
	err := m.Redo()
	test.That(t, errors.Is(err, ErrReference), err)
	test.That(t, errors.Is(err, ErrRedoUnavailable), err)
	test.That(t, !m.CanRedo())
	test.That(t, !m.CanUndo())
	test.T(t, s.value("b"), 2.0)
	test.T(t, testutil.ToFloat64(m.Metrics().Truncations.WithLabelValues("test")), 2.0)
}

func TestManagerCompose(t *testing.T) {
	s := newStore(map[string]float64{"a": 1, "b": 2})
	m := NewManager(WithLogger(discard), WithCompose(true))
	test.Error(t, m.Commit(newSetValue(s, 10, "a")))
	test.Error(t, m.Commit(newSetValue(s, 20, "a")))
	test.Error(t, m.Commit(newSetValue(s, 30, "a")))
	undo, _ := m.Len()
	test.T(t, undo, 1)

	// different entities do not compose
	test.Error(t, m.Commit(newSetValue(s, 40, "b")))
	undo, _ = m.Len()
	test.T(t, undo, 2)

	test.Error(t, m.Undo())
	test.Error(t, m.Undo())
	test.T(t, s.value("a"), 1.0)
	test.Error(t, m.Redo())
	test.T(t, s.value("a"), 30.0)

	// no composition after undo or redo
	test.Error(t, m.Commit(newSetValue(s, 50, "a")))
	undo, _ = m.Len()
	test.T(t, undo, 2)
}

func TestManagerMaxUndo(t *testing.T) {
	s := newStore(map[string]float64{"a": 0})
	m := NewManager(WithLogger(discard), WithMaxUndo(2))
	for i := 1; i <= 4; i++ {
		test.Error(t, m.Commit(newSetValue(s, float64(i), "a")))
	}
	undo, _ := m.Len()
	test.T(t, undo, 2)
	test.Error(t, m.Undo())
	test.Error(t, m.Undo())
	test.T(t, s.value("a"), 2.0)
	test.That(t, !m.CanUndo())
}

func TestManagerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := newStore(map[string]float64{"a": 0})
	m := NewManager(WithLogger(discard), WithRegisterer(reg))
	test.Error(t, m.Commit(newSetValue(s, 1, "a")))
	test.Error(t, m.Commit(newSetValue(s, 2, "a")))
	test.Error(t, m.Undo())
	test.Error(t, m.Redo())
	session, err := m.StartSession("abort")
	test.Error(t, err)
	test.Error(t, session.Apply(newSetValue(s, 3, "a")))
	test.Error(t, session.Abort())

	test.T(t, testutil.ToFloat64(m.Metrics().Commits.WithLabelValues("test")), 2.0)
	test.T(t, testutil.ToFloat64(m.Metrics().Undos.WithLabelValues("test")), 1.0)
	test.T(t, testutil.ToFloat64(m.Metrics().Redos.WithLabelValues("test")), 1.0)
	test.T(t, testutil.ToFloat64(m.Metrics().Rollbacks.WithLabelValues("test")), 1.0)
	test.T(t, testutil.ToFloat64(m.Metrics().UndoDepth), 2.0)

	err = testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP floorplan_transact_undos_total Number of undone requests.
# TYPE floorplan_transact_undos_total counter
floorplan_transact_undos_total{category="test"} 1
`), "floorplan_transact_undos_total")
	test.Error(t, err)
}

func TestManagerEvents(t *testing.T) {
	s := newStore(map[string]float64{"a": 0})
	m := NewManager(WithLogger(discard))
	types := []EventType{}
	m.OnChange(func(e Event) {
		types = append(types, e.Type)
		// listeners run outside of the lock
		m.CanUndo()
	})
	test.Error(t, m.Commit(newSetValue(s, 1, "a")))
	test.Error(t, m.Undo())
	test.Error(t, m.Redo())
	session, _ := m.StartSession("s")
	test.That(t, session.Apply(newSetValue(s, -1, "a")) != nil)
	test.T(t, types, []EventType{EventCommitted, EventUndone, EventRedone, EventRolledBack})
}

func TestManagerConcurrent(t *testing.T) {
	s := newStore(map[string]float64{"a": 0})
	m := NewManager(WithLogger(discard))
	test.Error(t, m.Commit(newSetValue(s, 1, "a")))

	wg := sync.WaitGroup{}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if err := m.Undo(); err == nil {
					_ = m.Redo()
				}
			}
		}()
	}
	wg.Wait()
	test.That(t, m.CanUndo() || m.CanRedo())
}
