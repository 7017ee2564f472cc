package result

import (
	"github.com/ValentinKolb/txKV/lib/kverr"
	"github.com/ValentinKolb/txKV/lib/value"
)

// Status and reason tokens used by the store.
const (
	StatusOK   = "ok"
	StatusFail = "fail"

	ReasonTimeout    = "timeout"
	ReasonAbort      = "abort"
	ReasonNotFound   = "not_found"
	ReasonKeyChanged = "key_changed"
)

// --------------------------------------------------------------------------
// Single Operation Results
// --------------------------------------------------------------------------

// ProcessRead interprets the result of a read operation and returns the decoded value.
func ProcessRead(raw any) (any, error) {
	m, ok := raw.(map[string]any)
	if !ok || len(m) != 2 {
		return nil, kverr.Unknown(raw)
	}
	switch m["status"] {
	case StatusOK:
		w, ok := m["value"]
		if !ok {
			return nil, kverr.Unknown(raw)
		}
		v, err := value.Decode(w)
		if err != nil {
			return nil, kverr.Unknown(raw)
		}
		return v, nil
	case StatusFail:
		switch m["reason"] {
		case ReasonTimeout:
			return nil, kverr.Timeout(raw)
		case ReasonNotFound:
			return nil, kverr.NotFound(raw)
		}
	}
	return nil, kverr.Unknown(raw)
}

// ProcessWrite interprets the result of a write operation inside a transaction.
func ProcessWrite(raw any) error {
	return processStatus(raw, ReasonTimeout, ReasonAbort)
}

// ProcessCommit interprets the result of a commit operation (or a write that
// committed on its own).
func ProcessCommit(raw any) error {
	return processStatus(raw, ReasonTimeout, ReasonAbort)
}

// ProcessTestAndSet interprets the result of a test_and_set operation.
// A key_changed failure yields a KindKeyChanged error carrying the decoded current value.
func ProcessTestAndSet(raw any) error {
	if m, ok := raw.(map[string]any); ok && len(m) == 3 &&
		m["status"] == StatusFail && m["reason"] == ReasonKeyChanged {
		w, ok := m["value"]
		if !ok {
			return kverr.Unknown(raw)
		}
		old, err := value.Decode(w)
		if err != nil {
			return kverr.Unknown(raw)
		}
		return kverr.KeyChanged(raw, old)
	}
	return processStatus(raw, ReasonTimeout, ReasonAbort, ReasonNotFound)
}

// ProcessPublish interprets the result of a publish operation.
func ProcessPublish(raw any) error {
	if isOK(raw) {
		return nil
	}
	return kverr.Unknown(raw)
}

// ProcessSubscribe interprets the result of a subscribe operation.
func ProcessSubscribe(raw any) error {
	return ProcessCommit(raw)
}

// ProcessUnsubscribe interprets the result of an unsubscribe operation.
func ProcessUnsubscribe(raw any) error {
	return processStatus(raw, ReasonTimeout, ReasonAbort, ReasonNotFound)
}

// ProcessGetSubscribers interprets the result of a get_subscribers operation.
// An unknown topic yields an empty, non-nil list.
func ProcessGetSubscribers(raw any) ([]string, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, kverr.Unknown(raw)
	}
	subscribers := make([]string, 0, len(list))
	for _, elem := range list {
		s, ok := elem.(string)
		if !ok {
			return nil, kverr.Unknown(raw)
		}
		subscribers = append(subscribers, s)
	}
	return subscribers, nil
}

// ProcessNop interprets the result of a nop operation.
func ProcessNop(raw any) error {
	if raw == StatusOK {
		return nil
	}
	return kverr.Unknown(raw)
}

// --------------------------------------------------------------------------
// Batch Results
// --------------------------------------------------------------------------

// ProcessReqListTx interprets the result of a transactional req_list call.
// It returns the new transaction log and the per-operation results.
func ProcessReqListTx(raw any) (tlog any, results []any, err error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, nil, kverr.Unknown(raw)
	}
	tlog, ok = m["tlog"]
	if !ok {
		return nil, nil, kverr.Unknown(raw)
	}
	results, ok = m["results"].([]any)
	if !ok {
		return nil, nil, kverr.Unknown(raw)
	}
	return tlog, results, nil
}

// ProcessReqListSingleOp interprets the result of a req_list_commit_each call.
func ProcessReqListSingleOp(raw any) ([]any, error) {
	results, ok := raw.([]any)
	if !ok {
		return nil, kverr.Unknown(raw)
	}
	return results, nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// isOK checks whether raw is exactly {"status": "ok"}
func isOK(raw any) bool {
	m, ok := raw.(map[string]any)
	return ok && len(m) == 1 && m["status"] == StatusOK
}

// processStatus accepts {"status": "ok"} and maps {"status": "fail", "reason": r}
// to the error kind of r if r is one of the allowed reasons
func processStatus(raw any, allowed ...string) error {
	if isOK(raw) {
		return nil
	}
	m, ok := raw.(map[string]any)
	if !ok || len(m) != 2 || m["status"] != StatusFail {
		return kverr.Unknown(raw)
	}
	reason, ok := m["reason"].(string)
	if !ok {
		return kverr.Unknown(raw)
	}
	for _, a := range allowed {
		if reason != a {
			continue
		}
		switch reason {
		case ReasonTimeout:
			return kverr.Timeout(raw)
		case ReasonAbort:
			return kverr.Abort(raw)
		case ReasonNotFound:
			return kverr.NotFound(raw)
		}
	}
	return kverr.Unknown(raw)
}
