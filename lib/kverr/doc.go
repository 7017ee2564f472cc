// Package kverr defines the error taxonomy shared by all txKV packages.
//
// Every failure surfaced by the client is a *Error carrying a Kind. The kinds
// map one-to-one onto the conditions the remote store can report plus the two
// local conditions (transport failure and builder misuse):
//
//   - KindTimeout: the operation timed out inside the store.
//   - KindAbort: the transaction (or single write) was aborted.
//   - KindNotFound: the key (or topic/subscriber) does not exist.
//   - KindKeyChanged: a test_and_set found a different value, carried in OldValue.
//   - KindUnknown: a result did not match its documented shape.
//   - KindConnection: the transport failed, nothing was interpreted.
//   - KindIllegalState: a request list was used the wrong way.
//
// The package exports one sentinel per kind so callers can branch with
// errors.Is, and errors.As gives access to the raw payload:
//
//	v, err := tx.Read("key")
//	switch {
//	case errors.Is(err, kverr.ErrNotFound):
//	  // create the key
//	case errors.Is(err, kverr.ErrTimeout):
//	  // retry
//	}
//
//	var kvErr *kverr.Error
//	if errors.As(err, &kvErr) && kvErr.Kind == kverr.KindKeyChanged {
//	  fmt.Println("current value:", kvErr.OldValue)
//	}
package kverr
