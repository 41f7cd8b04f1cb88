package session

import "errors"

// ErrUninitializedEngine is returned when a command targets an engine that
// has not been constructed yet — `buddy_malloc`/`buddy_free`/`buddy_dump`
// before `buddy_init`, per spec.md §7, and generalized here to `malloc`/
// `free`/`dump memory` before `init memory` for the same reason.
var ErrUninitializedEngine = errors.New("session: engine not initialized")
