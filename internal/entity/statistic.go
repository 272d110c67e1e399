package entity

type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// Result is a single finished-game outcome for one human player.
type Result struct {
	PlayerID string  `json:"player_id"`
	Outcome  Outcome `json:"outcome"`
}

type Statistic struct {
	PlayerID    string `json:"player_id"`
	GamesPlayed int    `json:"games_played"`
	GamesWon    int    `json:"games_won"`
	GamesLost   int    `json:"games_lost"`
	GamesDraw   int    `json:"games_draw"`
}

func NewStatistic(playerID string) *Statistic {
	return &Statistic{PlayerID: playerID}
}

func (that *Statistic) Apply(outcome Outcome) {
	that.GamesPlayed++

	switch outcome {
	case OutcomeWin:
		that.GamesWon++
	case OutcomeLoss:
		that.GamesLost++
	case OutcomeDraw:
		that.GamesDraw++
	}
}
