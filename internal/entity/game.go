package entity

import (
	"time"
)

const (
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"

	PVPType     = "pvp"
	WithBotType = "bot"

	BoardSize = 9
)

var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

type Move struct {
	Actor     Participant `json:"actor"`
	Position  int         `json:"position"`
	Timestamp time.Time   `json:"timestamp"`
}

// Game is one tic-tac-toe session. It is only mutated by applying moves or by ending it early.
type Game struct {
	ID         string       `json:"id"`
	Player1    Participant  `json:"player1"`
	Player2    Participant  `json:"player2"`
	Moves      []Move       `json:"moves"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt *time.Time   `json:"finished_at,omitempty"`
	Winner     *Participant `json:"winner,omitempty"`
	EndedEarly bool         `json:"ended_early,omitempty"`
}

func NewGame(id string, player1, player2 Participant, startedAt time.Time) *Game {
	return &Game{
		ID:        id,
		Player1:   player1,
		Player2:   player2,
		Moves:     []Move{},
		StartedAt: startedAt,
	}
}

func (that *Game) IsWithBot() bool {
	return that.Player2.IsBot()
}

func (that *Game) Type() string {
	if that.IsWithBot() {
		return WithBotType
	}
	return PVPType
}

func (that *Game) IsFinished() bool {
	return that.FinishedAt != nil
}

func (that *Game) IsOngoing() bool {
	return !that.IsFinished()
}

func (that *Game) Status() string {
	if that.IsFinished() {
		return StatusFinished
	}
	return StatusOngoing
}

// IsDraw reports a finished game without a winner, including games ended early.
func (that *Game) IsDraw() bool {
	return that.IsFinished() && that.Winner == nil
}

func (that *Game) HasParticipant(p Participant) bool {
	return that.Player1.Equal(p) || that.Player2.Equal(p)
}

// Participants returns the players in board evaluation order.
func (that *Game) Participants() [2]Participant {
	return [2]Participant{that.Player1, that.Player2}
}

func (that *Game) AddMove(actor Participant, position int, at time.Time) {
	that.Moves = append(that.Moves, Move{
		Actor:     actor,
		Position:  position,
		Timestamp: at,
	})
}

// Finish marks the game terminal. winner is nil for a draw.
func (that *Game) Finish(winner *Participant, at time.Time) {
	finishedAt := at
	that.FinishedAt = &finishedAt
	that.Winner = winner
}

// Results produces one result per human participant of a finished game.
func (that *Game) Results() []Result {
	if !that.IsFinished() {
		return nil
	}

	results := make([]Result, 0, len(that.Participants()))
	for _, player := range that.Participants() {
		if !player.IsHuman() {
			continue
		}

		outcome := OutcomeLoss
		switch {
		case that.Winner == nil:
			outcome = OutcomeDraw
		case that.Winner.Equal(player):
			outcome = OutcomeWin
		}

		results = append(results, Result{PlayerID: player.ID, Outcome: outcome})
	}

	return results
}

// Clone returns a deep copy.
func (that *Game) Clone() *Game {
	clone := *that
	clone.Moves = append(make([]Move, 0, len(that.Moves)), that.Moves...)

	if that.FinishedAt != nil {
		finishedAt := *that.FinishedAt
		clone.FinishedAt = &finishedAt
	}

	if that.Winner != nil {
		winner := *that.Winner
		clone.Winner = &winner
	}

	return &clone
}
