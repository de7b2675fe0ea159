package match

// The rules in this file are pure transitions: each takes the current
// state and returns the next one plus a flag telling whether anything
// changed. Callers decide what a no-op means for them (the service
// skips history pushes and persistence on unchanged states).

// TargetPoints resolves the win target for the current set. The deciding
// set uses the tie-break target when configured; sudden death overrides
// everything.
func TargetPoints(s State) int {
	if s.InSuddenDeath {
		return SuddenDeathTarget
	}
	if s.Config.MaxSets > 1 && s.CurrentSet == s.Config.MaxSets && s.Config.HasTieBreak {
		return s.Config.TieBreakPoints
	}
	return s.Config.PointsPerSet
}

// AddPoint scores one point for side. Scoring starts the match timer on
// the first point and hands the serve to the scoring team. A point that
// lands both teams on the deuce score under sudden-death rules is
// consumed by the 0-0 reset instead of being scored.
func AddPoint(s State, side Side) (State, bool) {
	if s.IsMatchOver {
		return s, false
	}

	next := s.Clone()
	if !next.IsTimerRunning && next.MatchDurationSeconds == 0 {
		next.IsTimerRunning = true
	}
	if next.ServingTeam == nil || *next.ServingTeam != side {
		serving := side
		next.ServingTeam = &serving
	}

	a, b := next.ScoreA, next.ScoreB
	if side == SideA {
		a++
	} else {
		b++
	}

	target := TargetPoints(next)
	if next.Config.DeuceType == DeuceTypeSuddenDeath3 && !next.InSuddenDeath &&
		a == target-1 && b == target-1 {
		next.ScoreA, next.ScoreB = 0, 0
		next.InSuddenDeath = true
		return next, true
	}

	scored, other := a, b
	if side == SideB {
		scored, other = b, a
	}

	var won bool
	if next.InSuddenDeath {
		won = scored >= SuddenDeathTarget
	} else {
		won = scored >= target && scored-other >= MinWinLead
	}
	if !won {
		next.ScoreA, next.ScoreB = a, b
		return next, true
	}

	return finishSet(next, side, a, b), true
}

// SubtractPoint takes one point back from side, floored at zero. Serve
// and timeout side-effects of the original point are not reverted.
func SubtractPoint(s State, side Side) (State, bool) {
	if s.IsMatchOver {
		return s, false
	}
	if s.Score(side) == 0 {
		return s, false
	}

	next := s.Clone()
	if side == SideA {
		next.ScoreA--
	} else {
		next.ScoreB--
	}
	return next, true
}

// ToggleService flips the serving team explicitly.
func ToggleService(s State) (State, bool) {
	if s.IsMatchOver {
		return s, false
	}

	next := s.Clone()
	serving := SideA
	if next.ServingTeam != nil && *next.ServingTeam == SideA {
		serving = SideB
	}
	next.ServingTeam = &serving
	return next, true
}

// UseTimeout burns one of side's two timeouts for the current set.
func UseTimeout(s State, side Side) (State, bool) {
	if s.IsMatchOver {
		return s, false
	}
	if s.TimeoutsUsed(side) >= MaxTimeoutsPerSet {
		return s, false
	}

	next := s.Clone()
	if side == SideA {
		next.TimeoutsA++
	} else {
		next.TimeoutsB++
	}
	return next, true
}

// ToggleSides flips the display orientation of the two courts.
func ToggleSides(s State) (State, bool) {
	next := s.Clone()
	next.SwappedSides = !next.SwappedSides
	return next, true
}

// Tick advances the elapsed-match clock by one second.
func Tick(s State) (State, bool) {
	if !s.IsTimerRunning {
		return s, false
	}

	next := s.Clone()
	next.MatchDurationSeconds++
	return next, true
}

// finishSet books the set for winner at the given final scores and
// resets the per-set fields. The final score stays on the board when
// the set also decides the match.
func finishSet(s State, winner Side, finalA, finalB int) State {
	s.History = append(s.History, SetResult{
		SetNumber: s.CurrentSet,
		ScoreA:    finalA,
		ScoreB:    finalB,
		Winner:    winner,
	})
	if winner == SideA {
		s.SetsA++
	} else {
		s.SetsB++
	}

	s.TimeoutsA, s.TimeoutsB = 0, 0
	s.InSuddenDeath = false
	s.ServingTeam = nil

	if s.SetsWon(winner) >= s.Config.SetsToWinMatch() {
		s.ScoreA, s.ScoreB = finalA, finalB
		s.IsMatchOver = true
		won := winner
		s.MatchWinner = &won
		s.IsTimerRunning = false
		return s
	}

	s.ScoreA, s.ScoreB = 0, 0
	s.CurrentSet++
	return s
}
