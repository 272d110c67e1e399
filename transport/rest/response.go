package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

type errorResponse struct {
	Error string `json:"error"`
}

type gameResponse struct {
	ID         string                   `json:"id"`
	Type       string                   `json:"type"`
	Status     string                   `json:"status"`
	Player1    entity.Participant       `json:"player1"`
	Player2    entity.Participant       `json:"player2"`
	Board      [entity.BoardSize]string `json:"board"`
	Moves      []entity.Move            `json:"moves"`
	NextTurn   *entity.Participant      `json:"next_turn,omitempty"`
	Winner     *entity.Participant      `json:"winner,omitempty"`
	EndedEarly bool                     `json:"ended_early"`
	StartedAt  time.Time                `json:"started_at"`
	FinishedAt *time.Time               `json:"finished_at,omitempty"`
}

func newGameResponse(game *entity.Game) gameResponse {
	resp := gameResponse{
		ID:         game.ID,
		Type:       game.Type(),
		Status:     game.Status(),
		Player1:    game.Player1,
		Player2:    game.Player2,
		Board:      tictactoe.Render(game),
		Moves:      game.Moves,
		Winner:     game.Winner,
		EndedEarly: game.EndedEarly,
		StartedAt:  game.StartedAt,
		FinishedAt: game.FinishedAt,
	}

	if game.IsOngoing() {
		next := tictactoe.NextTurn(game)
		resp.NextTurn = &next
	}

	return resp
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound),
		errors.Is(err, apperror.ErrPlayerNotFound),
		errors.Is(err, apperror.ErrInvitationNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrNotInvitationReceiver),
		errors.Is(err, apperror.ErrNotInvitationMember):
		return http.StatusForbidden
	case errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, apperror.ErrGameFinished),
		errors.Is(err, apperror.ErrUserAlreadyExists),
		errors.Is(err, apperror.ErrInvitationNotPending),
		errors.Is(err, apperror.ErrTxConflict):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrInvalidCell),
		errors.Is(err, apperror.ErrInvalidBotConfiguration),
		errors.Is(err, apperror.ErrInvalidPlayers),
		errors.Is(err, apperror.ErrInvalidUsername),
		errors.Is(err, apperror.ErrSelfInvitation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (that *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		that.writeJSON(w, status, errorResponse{Error: http.StatusText(status)})
		return
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}
