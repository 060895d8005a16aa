package protocol

const (
	// client -> server
	MsgJoin         = "join"
	MsgStartRound   = "startRound"
	MsgSetDirection = "setDirection"
	MsgHeartbeat    = "heartbeat"

	// server -> client
	MsgWelcome         = "welcome"
	MsgRoundState      = "roundState"
	MsgRosterChanged   = "rosterChanged"
	MsgRoundWon        = "roundWon"
	MsgParticipantLeft = "participantLeft"
)

const (
	ResyncHz       = 2  // periodic roundState while a round runs
	SendQueueDepth = 64 // per-connection outbound frames before the conn counts as stalled
)

// Envelope is the decoded frame. P holds the still-encoded payload in Format.
type Envelope struct {
	T      string
	P      []byte
	Format Format
}
