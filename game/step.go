package game

// StartRound seats everyone at their spawn corner and lays out fresh pickups.
// It reports false, changing nothing, while a round is already running.
func (s *State) StartRound() bool {
	if s.Phase == InProgress {
		return false
	}

	for i, id := range s.order {
		p := s.participants[id]
		p.Position = StartingPosition(i, s.cfg.GridWidth, s.cfg.GridHeight)
		p.Score = 0
		p.Direction = Right
	}

	s.Pickups = s.Pickups[:0]
	for range s.cfg.PickupCount {
		s.Pickups = append(s.Pickups, Pickup{Position: s.freeCell()})
	}
	s.Phase = InProgress
	return true
}

// ApplyIntent turns the participant and moves it one cell, wrapping at the edges.
func (s *State) ApplyIntent(id string, dir Direction) bool {
	if s.Phase != InProgress {
		return false
	}
	p, ok := s.participants[id]
	if !ok {
		return false
	}
	if _, ok := ParseDirection(string(dir)); !ok {
		return false
	}

	p.Direction = dir
	p.Position = s.step(p.Position, dir)
	return true
}

func (s *State) step(pos Position, dir Direction) Position {
	w, h := s.cfg.GridWidth, s.cfg.GridHeight
	switch dir {
	case Up:
		pos.Y = (pos.Y - 1 + h) % h
	case Down:
		pos.Y = (pos.Y + 1) % h
	case Left:
		pos.X = (pos.X - 1 + w) % w
	case Right:
		pos.X = (pos.X + 1) % w
	}
	return pos
}

// ResolveCollisions awards pickups in join order. The first participant to reach
// the win score ends the round and the pass.
func (s *State) ResolveCollisions() (winnerID string, won bool) {
	if s.Phase != InProgress {
		return "", false
	}

	for _, id := range s.order {
		p := s.participants[id]
		i := s.pickupAt(p.Position)
		if i < 0 {
			continue
		}
		p.Score++
		s.Pickups = append(s.Pickups[:i], s.Pickups[i+1:]...)
		s.Pickups = append(s.Pickups, Pickup{Position: s.freeCell()})

		if p.Score >= s.cfg.WinScore {
			s.Phase = Won
			return id, true
		}
	}
	return "", false
}

func (s *State) pickupAt(pos Position) int {
	for i, pk := range s.Pickups {
		if pk.Position == pos {
			return i
		}
	}
	return -1
}

func (s *State) occupied(pos Position) bool {
	if s.pickupAt(pos) >= 0 {
		return true
	}
	for _, p := range s.participants {
		if p.Position == pos {
			return true
		}
	}
	return false
}

// freeCell picks a random cell holding neither a pickup nor a participant.
// A full grid falls back to any random cell.
func (s *State) freeCell() Position {
	w, h := s.cfg.GridWidth, s.cfg.GridHeight
	for range placementProbes {
		pos := Position{X: s.rng.IntN(w), Y: s.rng.IntN(h)}
		if !s.occupied(pos) {
			return pos
		}
	}

	start := s.rng.IntN(w * h)
	for n := range w * h {
		c := (start + n) % (w * h)
		pos := Position{X: c % w, Y: c / w}
		if !s.occupied(pos) {
			return pos
		}
	}
	return Position{X: s.rng.IntN(w), Y: s.rng.IntN(h)}
}
