package trivia

import "sort"

// ScoreEntry is one participant's cumulative total in a snapshot.
type ScoreEntry struct {
	ParticipantID string `json:"participantId"`
	Points        int    `json:"points"`
}

// scoreboard accumulates per-participant points for one session. It is
// mutated only by the session's own goroutine, so it needs no locking.
type scoreboard struct {
	points map[string]int
	// order records first-credit order for deterministic tie-breaking.
	order []string
}

func newScoreboard() *scoreboard {
	return &scoreboard{points: make(map[string]int)}
}

// credit adds points for a participant. Points never decrease.
func (s *scoreboard) credit(participantID string, points int) {
	if _, ok := s.points[participantID]; !ok {
		s.order = append(s.order, participantID)
	}
	s.points[participantID] += points
}

// snapshot returns entries sorted by points descending; ties keep
// first-credited-first order. The second return is the highest score, so
// callers can mark every entry tied at the top.
func (s *scoreboard) snapshot() ([]ScoreEntry, int) {
	entries := make([]ScoreEntry, 0, len(s.order))
	for _, id := range s.order {
		entries = append(entries, ScoreEntry{ParticipantID: id, Points: s.points[id]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})
	max := 0
	if len(entries) > 0 {
		max = entries[0].Points
	}
	return entries, max
}
