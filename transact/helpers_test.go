package transact

import (
	"fmt"
	"io"
	"log/slog"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type thing struct {
	id    string
	Value float64
	Name  string
}

func (t *thing) ID() string {
	return t.id
}

func (t *thing) Dump() Fields {
	return Fields{"id": t.id, "value": t.Value, "name": t.Name}
}

func (t *thing) Load(fields Fields) error {
	if v, ok := fields["value"]; ok {
		f, ok := v.(float64)
		if !ok {
			return fmt.Errorf("bad value %T", v)
		}
		t.Value = f
	}
	if v, ok := fields["name"]; ok {
		t.Name = v.(string)
	}
	return nil
}

type store map[string]Entity

func (s store) Entity(id string) (Entity, bool) {
	e, ok := s[id]
	return e, ok
}

func (s store) Add(e Entity) error {
	if _, ok := s[e.ID()]; ok {
		return fmt.Errorf("duplicate %s", e.ID())
	}
	s[e.ID()] = e
	return nil
}

func (s store) Remove(id string) error {
	if _, ok := s[id]; !ok {
		return fmt.Errorf("missing %s", id)
	}
	delete(s, id)
	return nil
}

func (s store) value(id string) float64 {
	return s[id].(*thing).Value
}

func newStore(values map[string]float64) store {
	s := store{}
	for id, v := range values {
		s[id] = &thing{id: id, Value: v, Name: id}
	}
	return s
}

// setValue sets the value of entities in order.
type setValue struct {
	*StateRequest
	s        store
	ids      []string
	value    float64
	category string
}

func newSetValue(s store, value float64, ids ...string) *Request {
	return NewRequest("test.SetValue", &setValue{
		StateRequest: NewStateRequest(s, nil),
		s:            s,
		ids:          ids,
		value:        value,
		category:     "test",
	})
}

func (op *setValue) Commit() error {
	if op.value < 0 {
		return Validationf("negative value %v", op.value)
	}
	es := []*thing{}
	for _, id := range op.ids {
		e, ok := op.s.Entity(id)
		if !ok {
			return Referencef("%s", id)
		}
		es = append(es, e.(*thing))
	}
	for _, e := range es {
		if err := op.Transact(e); err != nil {
			return err
		}
		e.Value = op.value
	}
	return op.Capture()
}

func (op *setValue) Description() string {
	return fmt.Sprintf("set %v to %v", op.ids, op.value)
}

func (op *setValue) Category() string {
	return op.category
}

func (op *setValue) Compose(next Operation) bool {
	n, ok := next.(*setValue)
	if !ok || fmt.Sprint(n.ids) != fmt.Sprint(op.ids) {
		return false
	}
	return op.Merge(n.StateRequest)
}
