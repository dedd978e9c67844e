package game

import "fmt"

type RoundOutcome int

const (
	OutcomeInProgress RoundOutcome = iota
	OutcomeWiped
	OutcomeCleared
)

func (o RoundOutcome) String() string {
	switch o {
	case OutcomeInProgress:
		return "in_progress"
	case OutcomeWiped:
		return "wiped"
	case OutcomeCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// RoundOutcomeReason is a tally of one round, read from the live state and
// the round's log entries.
type RoundOutcomeReason struct {
	Outcome     RoundOutcome
	Run         string
	Ticks       int
	Survivors   int
	Players     int
	Monsters    int
	Shots       int
	Kills       int
	Deaths      int
	Transitions int
	Description string
}

// DetermineRoundOutcome classifies the round tagged run. A round is wiped once
// every player is dead and cleared while someone stands on a map whose
// monsters have all been shot.
func DetermineRoundOutcome(st *State, sl *SimLog, run string) RoundOutcomeReason {
	r := RoundOutcomeReason{
		Run:       run,
		Ticks:     st.Tick,
		Survivors: st.AlivePlayers(),
		Players:   len(st.Players),
		Monsters:  len(st.Monsters),
	}
	for _, e := range sl.Entries() {
		if e.Run != run {
			continue
		}
		switch {
		case e.Category == CatShot && e.Key == "fire":
			r.Shots++
		case e.Category == CatKill:
			r.Kills++
		case e.Category == CatDeath:
			r.Deaths++
		case e.Category == CatMap && e.Key == "exit":
			r.Transitions++
		}
	}

	switch {
	case r.Survivors == 0:
		r.Outcome = OutcomeWiped
		r.Description = fmt.Sprintf("all_players_down_after_%d_kills", r.Kills)
	case r.Monsters == 0 && r.Kills > 0:
		r.Outcome = OutcomeCleared
		r.Description = fmt.Sprintf("map_cleared_with_%d_of_%d_standing", r.Survivors, r.Players)
	default:
		r.Outcome = OutcomeInProgress
		r.Description = fmt.Sprintf("%d_monsters_remaining", r.Monsters)
	}
	return r
}

// Outcome tallies the current round.
func (s *Sim) Outcome() RoundOutcomeReason {
	return DetermineRoundOutcome(s.st, s.log, s.run)
}
