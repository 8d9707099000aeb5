package services

import "slices"

// Report whether a passenger needing code can board while the used seats stay
// occupied: some configuration must hold every used seat and still have a free
// seat of that code.
func equipmentFits(configurations [][]int, used []int, code int) bool {
	for _, configuration := range configurations {
		free, ok := removeSeats(configuration, used)
		if ok && slices.Contains(free, code) {
			return true
		}
	}
	return false
}

// Return the seats of configuration left after occupying used, or false when
// configuration cannot hold them all.
func removeSeats(configuration []int, used []int) ([]int, bool) {
	free := slices.Clone(configuration)
	for _, code := range used {
		i := slices.Index(free, code)
		if i < 0 {
			return nil, false
		}
		free = slices.Delete(free, i, i+1)
	}
	return free, true
}

// Remove one occurrence of code from used.
func releaseSeat(used []int, code int) []int {
	if i := slices.Index(used, code); i >= 0 {
		return slices.Delete(used, i, i+1)
	}
	return used
}
