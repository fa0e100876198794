//go:build !debug

package jobswarm

func statAllocated() {}
func statRecycled()  {}
func statParked()    {}
func statCoalesced() {}

func SnapshotStats() Stats { return Stats{} }

func PrintStat() {}
