package transact

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Session is an atomic batch of requests that forms a single undo step. Requests are committed as they are applied; if any of them fails, all previously applied requests are undone in reverse order.
type Session struct {
	m    *Manager
	id   uuid.UUID
	name string
	reqs []*Request
	done bool
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Name returns the session name.
func (s *Session) Name() string {
	return s.name
}

// Requests returns the applied requests in order.
func (s *Session) Requests() []*Request {
	return s.reqs
}

// Apply commits a request as part of the session. If the commit fails, the session is rolled back and closed and the commit error is returned.
func (s *Session) Apply(r *Request) error {
	s.m.mu.Lock()
	if s.done {
		s.m.mu.Unlock()
		return Statef("apply to closed session %q", s.name)
	}

	var events []Event
	err := r.Commit()
	if err == nil {
		s.reqs = append(s.reqs, r)
		s.m.logger.Debug("apply", s.m.attrs(s, r)...)
	} else {
		s.m.logger.Warn("apply failed", append(s.m.attrs(s, r), "error", err)...)
		if rerr := s.rollback(); rerr != nil {
			err = errors.Join(err, rerr)
		}
		events = append(events, Event{Type: EventRolledBack, Session: s.name, ID: s.id, Requests: s.reqs, Err: err})
	}
	s.m.mu.Unlock()
	s.m.notify(events)
	return err
}

// Commit closes the session and pushes it as one entry on the undo stack, clearing the redo stack. A session in which no request changed anything leaves the history untouched.
func (s *Session) Commit() error {
	s.m.mu.Lock()
	if s.done {
		s.m.mu.Unlock()
		return Statef("commit of closed session %q", s.name)
	}
	s.close()

	var events []Event
	if slices.ContainsFunc(s.reqs, (*Request).Changed) {
		e := &entry{id: s.id, name: s.name, reqs: s.reqs}
		events = s.m.push(e)
		s.m.logger.Info("commit", "session", s.name, "requests", len(s.reqs))
	}
	s.m.mu.Unlock()
	s.m.notify(events)
	return nil
}

// Abort rolls back all applied requests in reverse order and closes the session.
func (s *Session) Abort() error {
	s.m.mu.Lock()
	if s.done {
		s.m.mu.Unlock()
		return Statef("abort of closed session %q", s.name)
	}
	err := s.rollback()
	events := []Event{{Type: EventRolledBack, Session: s.name, ID: s.id, Requests: s.reqs, Err: err}}
	s.m.mu.Unlock()
	s.m.notify(events)
	return err
}

func (s *Session) close() {
	s.done = true
	if s.m.session == s {
		s.m.session = nil
	}
}

// rollback undoes the applied requests in reverse order and closes the session. It continues past failures and returns them all.
func (s *Session) rollback() error {
	s.close()
	var errs []error
	for i := len(s.reqs) - 1; 0 <= i; i-- {
		r := s.reqs[i]
		if err := r.Undo(); err != nil {
			errs = append(errs, fmt.Errorf("rollback of %s: %w", r.Type(), err))
		}
	}
	count(s.m.metrics.Rollbacks, s.reqs)
	s.m.logger.Info("rollback", "session", s.name, "requests", len(s.reqs), "errors", len(errs))
	return errors.Join(errs...)
}
