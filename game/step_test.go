package game

import (
	"testing"
	"time"
)

func startedState(t *testing.T, cfg Config, ids ...string) *State {
	t.Helper()
	s := newTestState(cfg)
	for i, id := range ids {
		s.Upsert(id, "conn-"+id, time.Unix(int64(i), 0))
	}
	if !s.StartRound() {
		t.Fatalf("StartRound from idle returned false")
	}
	return s
}

func TestStartRoundResetsParticipantsAndSpawnsPickups(t *testing.T) {
	s := newTestState(DefaultConfig())
	s.Upsert("a", "c1", time.Unix(0, 0))
	s.Upsert("b", "c2", time.Unix(0, 0))
	b, _ := s.Participant("b")
	b.Score = 7
	b.Direction = Up
	b.Position = Position{3, 3}

	if !s.StartRound() {
		t.Fatalf("StartRound returned false")
	}
	if b.Score != 0 || b.Direction != Right || b.Position != (Position{DefaultGridWidth - 1, 0}) {
		t.Fatalf("b not reset: %+v", b)
	}
	if len(s.Pickups) != DefaultPickupCount {
		t.Fatalf("pickups = %d, want %d", len(s.Pickups), DefaultPickupCount)
	}
	cells := map[Position]bool{}
	for _, pk := range s.Pickups {
		if cells[pk.Position] {
			t.Fatalf("duplicate pickup at %+v", pk.Position)
		}
		cells[pk.Position] = true
		for _, p := range s.Participants() {
			if p.Position == pk.Position {
				t.Fatalf("pickup spawned on participant %s", p.ID)
			}
		}
	}

	before := append([]Pickup(nil), s.Pickups...)
	if s.StartRound() {
		t.Fatalf("second StartRound should be a no-op")
	}
	for i := range before {
		if s.Pickups[i] != before[i] {
			t.Fatalf("no-op StartRound changed pickups")
		}
	}
}

func TestApplyIntentIgnoredWhenIdleOrUnknown(t *testing.T) {
	s := newTestState(DefaultConfig())
	s.Upsert("a", "c1", time.Unix(0, 0))
	if s.ApplyIntent("a", Right) {
		t.Fatalf("intent applied while idle")
	}
	s.StartRound()
	if s.ApplyIntent("ghost", Right) {
		t.Fatalf("intent applied for unknown participant")
	}
	if s.ApplyIntent("a", Direction("sideways")) {
		t.Fatalf("intent applied for invalid direction")
	}
	p, _ := s.Participant("a")
	if p.Position != (Position{0, 0}) {
		t.Fatalf("position changed by ignored intents: %+v", p.Position)
	}
}

func TestApplyIntentWrapsAtEveryEdge(t *testing.T) {
	cfg := DefaultConfig()
	w, h := cfg.GridWidth, cfg.GridHeight
	cases := []struct {
		name string
		from Position
		dir  Direction
		want Position
	}{
		{"left from x=0", Position{0, 5}, Left, Position{w - 1, 5}},
		{"right from last column", Position{w - 1, 5}, Right, Position{0, 5}},
		{"up from y=0", Position{7, 0}, Up, Position{7, h - 1}},
		{"down from last row", Position{7, h - 1}, Down, Position{7, 0}},
		{"interior right", Position{3, 3}, Right, Position{4, 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := startedState(t, cfg, "a")
			s.Pickups = nil
			p, _ := s.Participant("a")
			p.Position = tc.from
			if !s.ApplyIntent("a", tc.dir) {
				t.Fatalf("intent rejected")
			}
			if p.Position != tc.want || p.Direction != tc.dir {
				t.Fatalf("got %+v facing %s, want %+v facing %s", p.Position, p.Direction, tc.want, tc.dir)
			}
		})
	}
}

func TestResolveCollisionsIsIdempotentWithoutMovement(t *testing.T) {
	s := startedState(t, DefaultConfig(), "a")
	p, _ := s.Participant("a")
	s.Pickups = []Pickup{{Position{1, 0}}, {Position{5, 5}}, {Position{9, 9}}}

	s.ApplyIntent("a", Right)
	if _, won := s.ResolveCollisions(); won {
		t.Fatalf("unexpected win")
	}
	if p.Score != 1 {
		t.Fatalf("score = %d, want 1", p.Score)
	}
	if len(s.Pickups) != 3 {
		t.Fatalf("pickup not replaced: %d", len(s.Pickups))
	}
	for _, pk := range s.Pickups {
		if pk.Position == p.Position {
			t.Fatalf("replacement landed on the collector")
		}
	}

	s.ResolveCollisions()
	s.ResolveCollisions()
	if p.Score != 1 {
		t.Fatalf("repeat resolution changed score to %d", p.Score)
	}
}

func TestResolveCollisionsTieBreakByJoinOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WinScore = 2
	s := startedState(t, cfg, "a", "b")
	a, _ := s.Participant("a")
	b, _ := s.Participant("b")
	a.Score, b.Score = 1, 1
	a.Position, b.Position = Position{4, 4}, Position{8, 8}
	s.Pickups = []Pickup{{Position{8, 8}}, {Position{4, 4}}, {Position{0, 9}}}

	winner, won := s.ResolveCollisions()
	if !won || winner != "a" {
		t.Fatalf("winner = %q,%v, want a", winner, won)
	}
	if s.Phase != Won {
		t.Fatalf("phase = %v, want won", s.Phase)
	}
	if b.Score != 1 {
		t.Fatalf("b resolved after the win: score %d", b.Score)
	}

	if _, again := s.ResolveCollisions(); again {
		t.Fatalf("second win reported")
	}
	if s.ApplyIntent("a", Down) {
		t.Fatalf("intent applied after win")
	}
	if !s.StartRound() {
		t.Fatalf("restart after win refused")
	}
}

func TestScenarioFirstToThreeWins(t *testing.T) {
	cfg := Config{GridWidth: 20, GridHeight: 15, WinScore: 3, PickupCount: 3}
	s := startedState(t, cfg, "a", "b")
	if len(s.Pickups) != 3 {
		t.Fatalf("pickups = %d, want 3", len(s.Pickups))
	}
	s.Pickups = []Pickup{{Position{1, 0}}, {Position{2, 0}}, {Position{2, 1}}}

	moves := []Direction{Right, Right, Down}
	var winner string
	for i, d := range moves {
		if !s.ApplyIntent("a", d) {
			t.Fatalf("move %d rejected", i)
		}
		id, won := s.ResolveCollisions()
		if won != (i == len(moves)-1) {
			t.Fatalf("move %d: won=%v", i, won)
		}
		winner = id
	}
	if winner != "a" {
		t.Fatalf("winner = %q, want a", winner)
	}

	a, _ := s.Participant("a")
	pos := a.Position
	if s.ApplyIntent("a", Left) || a.Position != pos {
		t.Fatalf("state mutated after win")
	}
}

func TestFreeCellFindsLastEmptyCell(t *testing.T) {
	cfg := Config{GridWidth: 3, GridHeight: 2, WinScore: 5, PickupCount: 1}
	s := startedState(t, cfg, "a")
	s.Pickups = []Pickup{{Position{1, 0}}, {Position{2, 0}}, {Position{0, 1}}, {Position{1, 1}}}
	got := s.freeCell()
	if got != (Position{2, 1}) {
		t.Fatalf("freeCell = %+v, want {2 1}", got)
	}
}
