//go:build debug

package jobswarm

import (
	"sync/atomic"
)

var (
	allocated atomic.Int64
	recycled  atomic.Int64
	parked    atomic.Int64
	coalesced atomic.Int64
)

func statAllocated() { allocated.Add(1) }
func statRecycled()  { recycled.Add(1) }
func statParked()    { parked.Add(1) }
func statCoalesced() { coalesced.Add(1) }

func SnapshotStats() Stats {
	return Stats{
		Allocated: allocated.Load(),
		Recycled:  recycled.Load(),
		Parked:    parked.Load(),
		Coalesced: coalesced.Load(),
	}
}

func PrintStat() {
	println(
		"allocated / recycled / parked / coalesced :",
		allocated.Load(),
		recycled.Load(),
		parked.Load(),
		coalesced.Load(),
	)
}
