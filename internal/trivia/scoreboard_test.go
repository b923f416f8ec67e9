package trivia

import "testing"

func TestScoreboardOrderingAndTies(t *testing.T) {
	s := newScoreboard()
	s.credit("a", 10)
	s.credit("b", 10)
	s.credit("c", 5)

	entries, max := s.snapshot()
	if max != 10 {
		t.Fatalf("expected max 10, got %d", max)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	// First-credited breaks the tie at the top; c trails.
	if entries[0].ParticipantID != "a" || entries[1].ParticipantID != "b" || entries[2].ParticipantID != "c" {
		t.Fatalf("unexpected order: %+v", entries)
	}
	if entries[0].Points != max || entries[1].Points != max {
		t.Fatalf("both leaders should sit at the max score: %+v", entries)
	}
	if entries[2].Points == max {
		t.Fatalf("c must not be tied at the top: %+v", entries)
	}
}

func TestScoreboardAccumulates(t *testing.T) {
	s := newScoreboard()
	s.credit("a", 3)
	s.credit("a", 2)

	entries, max := s.snapshot()
	if len(entries) != 1 || entries[0].Points != 5 || max != 5 {
		t.Fatalf("expected a=5, got %+v max=%d", entries, max)
	}
}

func TestScoreboardEmptySnapshot(t *testing.T) {
	entries, max := newScoreboard().snapshot()
	if len(entries) != 0 || max != 0 {
		t.Fatalf("expected empty snapshot, got %+v max=%d", entries, max)
	}
}
