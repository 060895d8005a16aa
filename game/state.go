package game

import (
	"math/rand/v2"
	"time"
)

// Internal truth authoritative game state

type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

func ParseDirection(s string) (Direction, bool) {
	switch d := Direction(s); d {
	case Up, Down, Left, Right:
		return d, true
	}
	return "", false
}

type Phase uint8

const (
	Idle Phase = iota
	InProgress
	Won
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	}
	return "unknown"
}

type Position struct {
	X, Y int
}

type Pickup struct {
	Position
}

type Participant struct {
	ID             string
	ConnID         string
	Position       Position
	Direction      Direction
	Score          int
	Name           string
	Color          string
	LastActivityAt time.Time
}

// State is owned by a single goroutine; nothing in this package locks.
type State struct {
	Phase   Phase
	Pickups []Pickup

	cfg          Config
	order        []string
	participants map[string]*Participant
	rng          *rand.Rand
}

// NewState builds an empty Idle session. A nil rng gets a randomly seeded one.
func NewState(cfg Config, rng *rand.Rand) *State {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &State{
		cfg:          cfg,
		participants: make(map[string]*Participant),
		rng:          rng,
	}
}

func (s *State) Config() Config {
	return s.cfg
}

func (s *State) InProgress() bool {
	return s.Phase == InProgress
}
