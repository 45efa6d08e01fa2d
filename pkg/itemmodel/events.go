package itemmodel

import (
	"fmt"
	"slices"
)

// Kind identifies the change an Event announces.
type Kind int

const (
	RowsInserted Kind = iota
	RowsRemoved
	RowsMoved
	ModelReset
	DataChanged
)

func (k Kind) String() string {
	switch k {
	case RowsInserted:
		return "insert"
	case RowsRemoved:
		return "remove"
	case RowsMoved:
		return "move"
	case ModelReset:
		return "reset"
	case DataChanged:
		return "data"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Phase tells whether an Event is sent before or after the mutation.
// Structural changes send a Begin and an End event; DataChanged is sent once,
// as End, after the cells were written.
type Phase int

const (
	Begin Phase = iota
	End
)

func (p Phase) String() string {
	if p == Begin {
		return "begin"
	}
	return "end"
}

// Event describes one change notification.
//
// For row changes Parent, First and Last name the affected rows. Moves also
// set DestParent and DestRow, where DestRow is the row in front of which the
// rows are placed as counted before the move. DataChanged sets TopLeft and
// BottomRight.
type Event struct {
	Kind  Kind
	Phase Phase

	Parent      Index
	First, Last int

	DestParent Index
	DestRow    int

	TopLeft, BottomRight Index
}

func (e Event) String() string {
	switch e.Kind {
	case RowsInserted, RowsRemoved:
		return fmt.Sprintf("%s %s %v [%d,%d]", e.Phase, e.Kind, e.Parent, e.First, e.Last)
	case RowsMoved:
		return fmt.Sprintf("%s %s %v [%d,%d] -> %v@%d", e.Phase, e.Kind, e.Parent, e.First, e.Last, e.DestParent, e.DestRow)
	case DataChanged:
		return fmt.Sprintf("%s %v..%v", e.Kind, e.TopLeft, e.BottomRight)
	default:
		return fmt.Sprintf("%s %s", e.Phase, e.Kind)
	}
}

// Observer receives change notifications from a model.
type Observer interface {
	ModelChanged(Event)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) ModelChanged(e Event) { f(e) }

// Recorder is an Observer that keeps every event it sees.
type Recorder struct {
	Events []Event
}

func (r *Recorder) ModelChanged(e Event) {
	r.Events = append(r.Events, e)
}

// Reset forgets the recorded events.
func (r *Recorder) Reset() {
	r.Events = nil
}

// Strings returns the recorded events formatted with Event.String.
func (r *Recorder) Strings() []string {
	out := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, e.String())
	}
	return out
}

type observerEntry struct {
	id int
	o  Observer
}

type observers struct {
	entries []observerEntry
	nextID  int
}

func (s *observers) add(o Observer) func() {
	s.nextID++
	id := s.nextID
	s.entries = append(s.entries, observerEntry{id: id, o: o})
	return func() {
		s.entries = slices.DeleteFunc(s.entries, func(e observerEntry) bool {
			return e.id == id
		})
	}
}

func (s *observers) emit(e Event) {
	// Observers may unsubscribe while being notified.
	for _, entry := range slices.Clone(s.entries) {
		entry.o.ModelChanged(e)
	}
}
