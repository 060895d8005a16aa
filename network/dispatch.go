package network

import (
	"errors"
	"fmt"
	"strings"

	"cheesechase/protocol"
	"cheesechase/room"
)

const maxNameRunes = 24

var (
	errUnknownMessage = errors.New("unknown message type")
	errMissingID      = errors.New("missing participant id")
)

// decodeCommand maps an inbound envelope onto the room command it stands for.
func decodeCommand(connID string, env protocol.Envelope) (any, error) {
	switch env.T {
	case protocol.MsgJoin:
		p, err := protocol.DecodePayload[protocol.Join](env)
		if err != nil {
			return nil, fmt.Errorf("join: %w", err)
		}
		if p.ID == "" {
			return nil, fmt.Errorf("join: %w", errMissingID)
		}
		return room.Join{ConnID: connID, ID: p.ID, Name: cleanName(p.Name)}, nil

	case protocol.MsgStartRound:
		return room.StartRound{ConnID: connID}, nil

	case protocol.MsgSetDirection:
		p, err := protocol.DecodePayload[protocol.SetDirection](env)
		if err != nil {
			return nil, fmt.Errorf("setDirection: %w", err)
		}
		if p.ID == "" {
			return nil, fmt.Errorf("setDirection: %w", errMissingID)
		}
		return room.SetDirection{ConnID: connID, ID: p.ID, Direction: p.Direction}, nil

	case protocol.MsgHeartbeat:
		p, err := protocol.DecodePayload[protocol.Heartbeat](env)
		if err != nil {
			return nil, fmt.Errorf("heartbeat: %w", err)
		}
		if p.ID == "" {
			return nil, fmt.Errorf("heartbeat: %w", errMissingID)
		}
		return room.Heartbeat{ID: p.ID}, nil
	}
	return nil, fmt.Errorf("%w: %q", errUnknownMessage, env.T)
}

func cleanName(s string) string {
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > maxNameRunes {
		s = string(r[:maxNameRunes])
	}
	return s
}
