package space

import "math"

const bytesPerKB = 1024.0

// tableKB is the size of a table with 2^indexBits entries of bitsPerEntry bits.
func tableKB(indexBits, bitsPerEntry int) float64 {
	return math.Ldexp(float64(bitsPerEntry), indexBits) / 8 / bytesPerKB
}

// EstimatedMemoryKB is the single 1-bit table.
func (c OnebitConfig) EstimatedMemoryKB() float64 {
	return tableKB(c.TableBits, 1)
}

// EstimatedMemoryKB is the single table of 2-bit counters.
func (c TwobitConfig) EstimatedMemoryKB() float64 {
	return tableKB(c.TableBits, 2)
}

// EstimatedMemoryKB counts the pattern table only; the global history register is negligible.
func (c GshareConfig) EstimatedMemoryKB() float64 {
	return tableKB(c.TableBits, 2)
}

// EstimatedMemoryKB models the (PC, history) indexed table with 2-bit entries.
// CounterBits is not modelled.
func (c CorrelatingConfig) EstimatedMemoryKB() float64 {
	return tableKB(c.PCBits+c.HistoryBits, 2)
}

// EstimatedMemoryKB sums the local history table and the pattern history table.
func (c LocalConfig) EstimatedMemoryKB() float64 {
	return tableKB(c.LHTBits, c.HistoryBits) + tableKB(c.PHTBits, 2)
}

// EstimatedMemoryKB sums the selector, bimodal and gshare tables as independent
// 2-bit tables. Shared index/tag storage is not modelled.
func (c TournamentConfig) EstimatedMemoryKB() float64 {
	return tableKB(c.SelectorBits, 2) + tableKB(c.BimodalBits, 2) + tableKB(c.GshareTableBits, 2)
}

// EstimatedMemoryKB is zero: the simulator's defaults are not budgeted.
func (c DefaultConfig) EstimatedMemoryKB() float64 {
	return 0
}
