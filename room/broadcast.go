package room

import (
	"cheesechase/game"
	"cheesechase/protocol"
)

// broadcast encodes once per wire format and fans out. Connections whose Send
// fails are dropped after the loop; the state change stays committed.
func (r *Room) broadcast(t string, payload any) {
	frames := make(map[protocol.Format][]byte, 2)
	var failed []string
	for id, c := range r.clients {
		f := c.Format()
		b, ok := frames[f]
		if !ok {
			var err error
			b, err = f.Encode(t, payload)
			if err != nil {
				r.log.Error("encode failed", "type", t, "format", f, "err", err)
				continue
			}
			frames[f] = b
		}
		if err := c.Send(b); err != nil {
			r.log.Warn("send failed", "type", t, "conn", id, "err", err)
			failed = append(failed, id)
		}
	}
	for _, id := range failed {
		r.dropConn(id)
	}
}

func (r *Room) sendTo(connID string, c Conn, t string, payload any) {
	b, err := c.Format().Encode(t, payload)
	if err != nil {
		r.log.Error("encode failed", "type", t, "conn", connID, "err", err)
		return
	}
	if err := c.Send(b); err != nil {
		r.log.Warn("send failed", "type", t, "conn", connID, "err", err)
		r.dropConn(connID)
	}
}

func (r *Room) buildRoundState() protocol.RoundState {
	snapshot := protocol.RoundState{
		InProgress:   r.state.InProgress(),
		Participants: r.participantSnapshots(),
		Pickups:      make([]protocol.PickupSnapshot, 0, len(r.state.Pickups)),
	}
	for _, pk := range r.state.Pickups {
		snapshot.Pickups = append(snapshot.Pickups, protocol.PickupSnapshot{X: pk.X, Y: pk.Y})
	}
	return snapshot
}

func (r *Room) buildRoster() protocol.RosterChanged {
	return protocol.RosterChanged{Participants: r.participantSnapshots()}
}

func (r *Room) participantSnapshots() []protocol.ParticipantSnapshot {
	ps := r.state.Participants()
	out := make([]protocol.ParticipantSnapshot, 0, len(ps))
	for _, p := range ps {
		out = append(out, participantSnapshot(p))
	}
	return out
}

func participantSnapshot(p game.Participant) protocol.ParticipantSnapshot {
	return protocol.ParticipantSnapshot{
		ID:        p.ID,
		Name:      p.Name,
		Color:     p.Color,
		X:         p.Position.X,
		Y:         p.Position.Y,
		Direction: string(p.Direction),
		Score:     p.Score,
	}
}
