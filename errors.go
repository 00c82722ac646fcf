package rhmap

import "github.com/theflywheel/rhmap/internal/table"

var (
	// ErrAllocationFailed is returned when the bucket array of a map cannot
	// be allocated. The map is left exactly as it was before the call.
	ErrAllocationFailed = table.ErrAllocationFailed

	// ErrInvalidCapacity is returned for a negative Reserve.
	ErrInvalidCapacity = table.ErrInvalidCapacity
)
