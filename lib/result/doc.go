// Package result interprets the raw result objects returned by the store.
//
// Every function in this package is pure and total: it either returns the
// success value of an operation or a *kverr.Error. Any payload that does not
// match the documented shape of its operation yields a KindUnknown error that
// carries the payload unmodified.
//
// Result shapes (as decoded from JSON):
//
//	{"status": "ok"}
//	{"status": "ok", "value": <wire value>}
//	{"status": "fail", "reason": "timeout" | "abort" | "not_found"}
//	{"status": "fail", "reason": "key_changed", "value": <wire value>}
//
// Batch results are {"tlog": <token>, "results": [...]} for transactional
// request lists and a bare list of entries for single-op request lists.
//
// Replicated deletes report {"ok": N, "results": ["ok" | "locks_set" | "undef", ...]}
// with an optional "failure": "timeout". NewDeleteResult turns the per-replica
// list into a tally.
package result
