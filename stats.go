package jobswarm

// Stats counts internal events of every swarm in the process. It is only
// populated in builds with the debug tag; otherwise SnapshotStats returns
// zeros.
type Stats struct {
	Allocated int64 // job records allocated because the pool was empty
	Recycled  int64 // job records returned to the pool
	Parked    int64 // times a worker waited for the pending queue
	Coalesced int64 // Ready notifications folded into a pending one
}
