// Package rpc exposes a session.Session over net/rpc, generalizing the
// teacher's rpc/client.go + rpc/server.go (which exposed one
// hybrid.Allocator's Allocate/Free over TCP) to a subset of the session's
// commands: init memory, malloc/free, buddy_init/buddy_malloc/buddy_free,
// access, and stats. Policy switching, dumps, and visualization are not
// exposed.
package rpc

// MallocRequest/MallocResponse mirror the teacher's AllocRequest/
// AllocResponse request-response pairing.
type MallocRequest struct {
	Size uint64
}

type MallocResponse struct {
	ID    int
	Error string
}

type FreeRequest struct {
	ID int
}

type FreeResponse struct {
	Error string
}

type BuddyInitRequest struct {
	Size uint64
}

type BuddyInitResponse struct{}

type AccessRequest struct {
	Address uint64
}

type AccessResponse struct {
	Hit bool
}

type StatsRequest struct{}

type StatsResponse struct {
	IsBuddy           bool
	Total             uint64
	Used              uint64
	Free              uint64
	UtilizationPct    float64
	InternalFragBytes uint64
	ExternalFragPct   float64
	AllocSuccess      uint64
	AllocFail         uint64
}
