package reqlist

import (
	"github.com/ValentinKolb/txKV/lib/kverr"
	"github.com/ValentinKolb/txKV/lib/value"
)

// Operation is a single request in its wire form.
type Operation map[string]any

// Operation keys
const (
	OpRead   = "read"
	OpWrite  = "write"
	OpCommit = "commit"
)

// listState is the state of a request list
type listState uint8

const (
	stateOpen listState = iota
	stateCommitted
)

// List is an ordered list of operations.
// The zero value is not usable, create lists with New or NewSingleOp.
type List struct {
	ops      []Operation
	state    listState
	singleOp bool
}

// New creates an empty request list for transactions.
func New() *List {
	return &List{ops: make([]Operation, 0), state: stateOpen}
}

// NewSingleOp creates an empty request list that does not accept commits.
func NewSingleOp() *List {
	return &List{ops: make([]Operation, 0), state: stateOpen, singleOp: true}
}

// NewFrom creates a transactional request list starting with the operations of other.
func NewFrom(other *List) (*List, error) {
	l := New()
	if err := l.Extend(other); err != nil {
		return nil, err
	}
	return l, nil
}

// NewSingleOpFrom creates a single-op request list starting with the operations of other.
func NewSingleOpFrom(other *List) (*List, error) {
	l := NewSingleOp()
	if err := l.Extend(other); err != nil {
		return nil, err
	}
	return l, nil
}

// --------------------------------------------------------------------------
// Builder Methods
// --------------------------------------------------------------------------

// AddRead appends a read operation.
func (l *List) AddRead(key string) error {
	if l.state == stateCommitted {
		return kverr.IllegalState("no further request supported after a commit")
	}
	l.ops = append(l.ops, Operation{OpRead: key})
	return nil
}

// AddWrite appends a write operation. The value is encoded with value.Encode.
func (l *List) AddWrite(key string, v any) error {
	if l.state == stateCommitted {
		return kverr.IllegalState("no further request supported after a commit")
	}
	l.ops = append(l.ops, Operation{OpWrite: map[string]any{key: value.Encode(v)}})
	return nil
}

// AddCommit appends the commit operation and closes the list.
func (l *List) AddCommit() error {
	if l.singleOp {
		return kverr.IllegalState("no commit allowed in a single-op request list")
	}
	if l.state == stateCommitted {
		return kverr.IllegalState("only one commit per request list allowed")
	}
	l.ops = append(l.ops, Operation{OpCommit: ""})
	l.state = stateCommitted
	return nil
}

// Extend appends all operations of other in order.
// If other is committed, l is committed afterwards.
func (l *List) Extend(other *List) error {
	if other == nil {
		return nil
	}
	if l.state == stateCommitted {
		return kverr.IllegalState("no further request supported after a commit")
	}
	if other.state == stateCommitted && l.singleOp {
		return kverr.IllegalState("no commit allowed in a single-op request list")
	}
	l.ops = append(l.ops, other.ops...)
	if other.state == stateCommitted {
		l.state = stateCommitted
	}
	return nil
}

// --------------------------------------------------------------------------
// Observers
// --------------------------------------------------------------------------

// Requests returns the collected operations.
// The returned slice must not be modified.
func (l *List) Requests() []Operation {
	return l.ops
}

// IsCommit reports whether the list ends with a commit.
func (l *List) IsCommit() bool {
	return l.state == stateCommitted
}

// IsSingleOp reports whether the list was created with NewSingleOp.
func (l *List) IsSingleOp() bool {
	return l.singleOp
}

// IsEmpty reports whether the list holds no operations.
func (l *List) IsEmpty() bool {
	return len(l.ops) == 0
}

// Size returns the number of operations.
func (l *List) Size() int {
	return len(l.ops)
}
