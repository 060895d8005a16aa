package game

import "time"

// SweepStale removes participants idle for longer than staleAfter and returns
// their ids in join order.
func (s *State) SweepStale(now time.Time, staleAfter time.Duration) []string {
	var stale []string
	for _, id := range s.order {
		if now.Sub(s.participants[id].LastActivityAt) > staleAfter {
			stale = append(stale, id)
		}
	}
	for _, id := range stale {
		s.Remove(id)
	}
	return stale
}
