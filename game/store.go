package game

import (
	"slices"
	"time"
)

// Upsert registers a participant or, when the id is already known, rebinds it to connID.
// resumed reports whether an existing participant was returned.
func (s *State) Upsert(id, connID string, now time.Time) (p *Participant, resumed bool) {
	if p, ok := s.participants[id]; ok {
		p.ConnID = connID
		p.LastActivityAt = now
		return p, true
	}

	slot := len(s.order)
	p = &Participant{
		ID:             id,
		ConnID:         connID,
		Position:       StartingPosition(slot, s.cfg.GridWidth, s.cfg.GridHeight),
		Direction:      Right,
		Name:           DisplayName(slot),
		Color:          ColorFor(slot),
		LastActivityAt: now,
	}
	s.participants[id] = p
	s.order = append(s.order, id)
	return p, false
}

// Remove deletes a participant. The last one out resets the round.
func (s *State) Remove(id string) bool {
	if _, ok := s.participants[id]; !ok {
		return false
	}
	delete(s.participants, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	if len(s.order) == 0 {
		s.Phase = Idle
		s.Pickups = nil
	}
	return true
}

func (s *State) Touch(id string, now time.Time) bool {
	p, ok := s.participants[id]
	if !ok {
		return false
	}
	p.LastActivityAt = now
	return true
}

func (s *State) Participant(id string) (*Participant, bool) {
	p, ok := s.participants[id]
	return p, ok
}

// OwnerOf returns the id of the participant currently bound to connID.
func (s *State) OwnerOf(connID string) (string, bool) {
	if connID == "" {
		return "", false
	}
	for _, id := range s.order {
		if s.participants[id].ConnID == connID {
			return id, true
		}
	}
	return "", false
}

// Participants returns copies in join order.
func (s *State) Participants() []Participant {
	out := make([]Participant, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.participants[id])
	}
	return out
}

func (s *State) Len() int {
	return len(s.order)
}
