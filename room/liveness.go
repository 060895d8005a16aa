package room

import (
	"time"

	"cheesechase/protocol"
)

// dropConn forgets a transport and starts the grace period for the participant it owned.
func (r *Room) dropConn(connID string) {
	if c, ok := r.clients[connID]; ok {
		delete(r.clients, connID)
		_ = c.Close()
	}
	id, ok := r.state.OwnerOf(connID)
	if !ok {
		return
	}
	r.schedule(id, connID)
}

func (r *Room) schedule(id, connID string) {
	r.cancelPending(id)
	r.pending[id] = time.AfterFunc(r.opts.GracePeriod, func() {
		r.Post(graceExpired{ID: id, ConnID: connID})
	})
	r.log.Debug("removal scheduled", "id", id, "conn", connID, "in", r.opts.GracePeriod)
}

func (r *Room) cancelPending(id string) {
	if t, ok := r.pending[id]; ok {
		t.Stop()
		delete(r.pending, id)
	}
}

// handleGraceExpired removes the participant only if the connection that
// triggered the timer still owns it. A reconnect in between rebinds ConnID.
func (r *Room) handleGraceExpired(c graceExpired) {
	p, ok := r.state.Participant(c.ID)
	if !ok {
		r.cancelPending(c.ID)
		return
	}
	if p.ConnID != c.ConnID {
		return
	}
	delete(r.pending, c.ID)
	r.log.Info("participant left", "id", c.ID, "conn", c.ConnID)
	r.removeParticipants(c.ID)
}

func (r *Room) sweepStale() {
	gone := r.state.SweepStale(r.now(), r.opts.StaleAfter)
	if len(gone) == 0 {
		return
	}
	for _, id := range gone {
		r.cancelPending(id)
	}
	r.log.Info("evicted stale participants", "ids", gone, "remaining", r.state.Len())
	r.announceRemoved(gone)
}

func (r *Room) removeParticipants(ids ...string) {
	var gone []string
	for _, id := range ids {
		if r.state.Remove(id) {
			gone = append(gone, id)
		}
	}
	r.announceRemoved(gone)
}

func (r *Room) announceRemoved(ids []string) {
	if len(ids) == 0 {
		return
	}
	for _, id := range ids {
		r.broadcast(protocol.MsgParticipantLeft, protocol.ParticipantLeft{ID: id})
	}
	r.broadcast(protocol.MsgRosterChanged, r.buildRoster())
}
