package room

import "cheesechase/protocol"

// Conn is one transport session. Send must not block the room.
type Conn interface {
	Send([]byte) error
	Format() protocol.Format
	Close() error
}

// Connect registers a transport for broadcasts; issued once after upgrade.
type Connect struct {
	ConnID string
	Conn   Conn
}

// Join binds participant ID to ConnID, creating the participant if needed.
type Join struct {
	ConnID string
	ID     string
	Name   string
	Reply  chan<- JoinResult // optional; lets in-process callers wait until the join is applied. Must be buffered.
}

type JoinResult struct {
	Participant protocol.ParticipantSnapshot
	Resumed     bool
}

type StartRound struct {
	ConnID string
}

// SetDirection: intent for one participant
type SetDirection struct {
	ConnID    string
	ID        string
	Direction string
}

type Heartbeat struct {
	ID string
}

// Leave: issued on disconnect
type Leave struct {
	ConnID string
}

// Query asks for a snapshot of the current round.
type Query struct {
	Reply chan<- protocol.RoundState
}

// graceExpired is posted by a pending-removal timer.
type graceExpired struct {
	ID     string
	ConnID string
}
