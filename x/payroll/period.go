package payroll

// PeriodStart returns the first block of the period that the current
// block belongs to. Periods are aligned to the genesis block.
//
// Periodicity must be positive and current must not be lower than
// genesis.
func PeriodStart(current, genesis, periodicity int64) int64 {
	return current - ((current - genesis) % periodicity)
}

// NextPeriodStart returns the first block of the period following the
// one that the current block belongs to.
func NextPeriodStart(current, genesis, periodicity int64) int64 {
	return PeriodStart(current, genesis, periodicity) + periodicity
}

// elapsedPeriods returns the number of full periods between two blocks.
func elapsedPeriods(from, to, periodicity int64) int64 {
	if to <= from {
		return 0
	}
	return (to - from) / periodicity
}
