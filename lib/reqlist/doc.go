// Package reqlist builds the ordered request lists that are sent to the store
// in a single round trip.
//
// A List holds read, write and commit operations in their wire form:
//
//	{"read": "key"}
//	{"write": {"key": {"type": "plain", "value": ...}}}
//	{"commit": ""}
//
// A List is either open or committed. Only an open list accepts operations;
// AddCommit is the transition to committed and fails on a list that already
// holds a commit. Extending a list with a committed list closes it as well.
//
// Single-op lists (NewSingleOp) are used where every operation commits on its
// own, so AddCommit always fails on them.
//
// All misuse is reported as a kverr.KindIllegalState error at the call site,
// before anything is sent:
//
//	l := reqlist.New()
//	_ = l.AddRead("a")
//	_ = l.AddWrite("b", "value")
//	_ = l.AddCommit()
//	err := l.AddRead("c") // kverr.ErrIllegalState
package reqlist
