package domain

import "time"

// Convert integer Unix seconds to the canonical UTC time.
func UnixSeconds(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

// Tolerance used when comparing recorded and simulated timestamps.
const TimeTolerance = time.Second

// Tolerance used when comparing reported and recomputed costs.
const CostTolerance = 1.0
