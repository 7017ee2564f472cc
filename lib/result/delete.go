package result

import (
	"fmt"
	"github.com/ValentinKolb/txKV/lib/kverr"
	"math"
)

// Per-replica tokens of a delete result.
const (
	ReplicaOK       = "ok"
	ReplicaLocksSet = "locks_set"
	ReplicaUndef    = "undef"
)

// DeleteStatus is the overall outcome of a replicated delete.
type DeleteStatus uint8

const (
	DeleteOK      DeleteStatus = iota // all replicas answered
	DeleteTimeout                     // the store gave up waiting for some replicas
)

// String returns the string representation of a DeleteStatus.
func (s DeleteStatus) String() string {
	switch s {
	case DeleteOK:
		return "ok"
	case DeleteTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// DeleteOutcome is the interpreted result of a delete operation.
type DeleteOutcome struct {
	Status DeleteStatus
	// Ok is the number of replicas that deleted the key
	Ok int
	// Results is the raw per-replica result list
	Results []any
}

// DeleteResult is the tally of a per-replica delete result list.
type DeleteResult struct {
	Ok        int
	LocksSet  int
	Undefined int
}

// String returns a short summary of the tally.
func (r DeleteResult) String() string {
	return fmt.Sprintf("ok=%d, locks_set=%d, undefined=%d", r.Ok, r.LocksSet, r.Undefined)
}

// ProcessDelete interprets the result of a delete operation.
// A "failure": "timeout" field yields Status DeleteTimeout while Ok and
// Results still hold the partial outcome.
func ProcessDelete(raw any) (DeleteOutcome, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return DeleteOutcome{}, kverr.Unknown(raw)
	}
	okCount, hasOk := m["ok"]
	results, hasResults := m["results"]
	if !hasOk || !hasResults {
		return DeleteOutcome{}, kverr.Unknown(raw)
	}
	n, ok := toCount(okCount)
	if !ok {
		return DeleteOutcome{}, kverr.Unknown(raw)
	}
	list, ok := results.([]any)
	if !ok {
		return DeleteOutcome{}, kverr.Unknown(raw)
	}

	outcome := DeleteOutcome{Status: DeleteOK, Ok: n, Results: list}
	failure, hasFailure := m["failure"]
	if !hasFailure {
		return outcome, nil
	}
	if failure == ReasonTimeout {
		outcome.Status = DeleteTimeout
		return outcome, nil
	}
	return DeleteOutcome{}, kverr.Unknown(raw)
}

// NewDeleteResult tallies a per-replica result list.
// Any token other than "ok", "locks_set" and "undef" aborts the tally.
func NewDeleteResult(results any) (DeleteResult, error) {
	list, ok := results.([]any)
	if !ok {
		return DeleteResult{}, kverr.Unknownf(results, "unknown delete result")
	}
	var r DeleteResult
	for _, elem := range list {
		switch elem {
		case ReplicaOK:
			r.Ok++
		case ReplicaLocksSet:
			r.LocksSet++
		case ReplicaUndef:
			r.Undefined++
		default:
			return DeleteResult{}, kverr.Unknownf(results, "unknown reason %v", elem)
		}
	}
	return r, nil
}

// toCount converts a JSON number into a replica count
func toCount(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n < 0 || n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, n >= 0
	default:
		return 0, false
	}
}
