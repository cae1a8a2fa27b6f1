package domain

type ChangeKind int

const (
	ChangeAdded ChangeKind = iota + 1
	ChangeRemoved
	ChangeUpdated
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeRemoved:
		return "removed"
	case ChangeUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

// Change is a store-level mutation of one record. A Change always carries
// at least one snapshot; the zero value is not a valid change.
type Change[T any] struct {
	kind     ChangeKind
	previous *T
	latest   *T
}

func Added[T any](latest T) Change[T] {
	return Change[T]{kind: ChangeAdded, latest: &latest}
}

func Removed[T any](previous T) Change[T] {
	return Change[T]{kind: ChangeRemoved, previous: &previous}
}

func Updated[T any](previous, latest T) Change[T] {
	return Change[T]{kind: ChangeUpdated, previous: &previous, latest: &latest}
}

// ChangeFrom builds a Change from optional snapshots as they come off a
// store. It returns false when both snapshots are nil.
func ChangeFrom[T any](previous, latest *T) (Change[T], bool) {
	switch {
	case previous == nil && latest == nil:
		return Change[T]{}, false
	case previous == nil:
		return Added(*latest), true
	case latest == nil:
		return Removed(*previous), true
	default:
		return Updated(*previous, *latest), true
	}
}

func (c Change[T]) Kind() ChangeKind { return c.kind }

func (c Change[T]) Previous() *T { return c.previous }

func (c Change[T]) Latest() *T { return c.latest }

// Snapshot renders the change in its wire form.
func (c Change[T]) Snapshot() Snapshot[T] {
	return Snapshot[T]{Previous: c.previous, Latest: c.latest}
}

// Snapshot is the wire form of a change. After per-subscriber filtering
// both fields may be nil, meaning "something you cannot see changed".
type Snapshot[T any] struct {
	Previous *T `json:"previous"`
	Latest   *T `json:"latest"`
}

type (
	GroupChannelChange = Change[GroupChannel]
	DMChannelChange    = Change[DMChannel]
	MemberChange       = Change[ChannelMember]
)
