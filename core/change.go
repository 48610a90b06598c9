package core

import "github.com/google/uuid"

// ChangeField names the observable field that changed.
type ChangeField string

// Observable fields of a Project.
const (
	DirtyChanged        ChangeField = "dirty"
	TitleChanged        ChangeField = "title"
	NameChanged         ChangeField = "name"
	PathChanged         ChangeField = "path"
	DatasetAdded        ChangeField = "dataset.added"
	DatasetRemoved      ChangeField = "dataset.removed"
	DatasetValueChanged ChangeField = "dataset.value"
	DatasetRankChanged  ChangeField = "dataset.rank"
)

// Change is delivered to subscribers after the state it describes is committed.
type Change struct {
	Field      ChangeField
	SpecimenID uuid.UUID // Set for dataset changes
	Old        any
	New        any
}

type observer struct {
	id int
	fn func(Change)
}

// Subscribe registers fn for change notifications, delivered synchronously in
// subscription order on the mutating goroutine. The returned function cancels
// the subscription and is safe to call more than once.
func (p *Project) Subscribe(fn func(Change)) (cancel func()) {
	p.nextObserver++
	id := p.nextObserver
	p.observers = append(p.observers, observer{id: id, fn: fn})
	return func() {
		for i, o := range p.observers {
			if o.id == id {
				p.observers = append(p.observers[:i:i], p.observers[i+1:]...)
				return
			}
		}
	}
}

func (p *Project) emit(c Change) {
	for _, o := range p.observers {
		o.fn(c)
	}
}
