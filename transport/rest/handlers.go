package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type gameUseCase interface {
	CreateGame(ctx context.Context, player1ID, player2ID string) (*entity.Game, error)
	CreateGameWithBot(ctx context.Context, username string) (*entity.Game, error)
	MakeTurn(ctx context.Context, gameID, username string, cell int) (*entity.Game, error)
	MakeTurnWithBot(ctx context.Context, gameID, username string, cell int) (*entity.Game, error)
	EndGame(ctx context.Context, gameID string) (*entity.Game, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
}

type userUseCase interface {
	Register(ctx context.Context, username string) (*entity.User, error)
	GetStatistic(ctx context.Context, username string) (*entity.Statistic, error)
	ListGames(ctx context.Context, username string) ([]*entity.Game, error)
}

type handlers struct {
	logger *slog.Logger

	games       gameUseCase
	users       userUseCase
	invitations invitationUseCase
}

type registerRequest struct {
	Username string `json:"username"`
}

type createGameRequest struct {
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
}

type createGameWithBotRequest struct {
	Username string `json:"username"`
}

type createGameWithBotResponse struct {
	GameID string `json:"game_id"`
}

type moveRequest struct {
	Username string `json:"username"`
	Position *int   `json:"position"`
}

func (that *handlers) registerUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !that.decode(w, r, &req) {
		return
	}

	user, err := that.users.Register(r.Context(), req.Username)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, user)
}

func (that *handlers) userStatistic(w http.ResponseWriter, r *http.Request) {
	stat, err := that.users.GetStatistic(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, stat)
}

func (that *handlers) userGames(w http.ResponseWriter, r *http.Request) {
	games, err := that.users.ListGames(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	resp := make([]gameResponse, 0, len(games))
	for _, game := range games {
		resp = append(resp, newGameResponse(game))
	}

	that.writeJSON(w, http.StatusOK, resp)
}

func (that *handlers) createGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if !that.decode(w, r, &req) {
		return
	}

	game, err := that.games.CreateGame(r.Context(), req.Player1, req.Player2)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, newGameResponse(game))
}

func (that *handlers) createGameWithBot(w http.ResponseWriter, r *http.Request) {
	var req createGameWithBotRequest
	if !that.decode(w, r, &req) {
		return
	}

	game, err := that.games.CreateGameWithBot(r.Context(), req.Username)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, createGameWithBotResponse{GameID: game.ID})
}

func (that *handlers) getGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newGameResponse(game))
}

func (that *handlers) makeTurn(w http.ResponseWriter, r *http.Request) {
	that.move(w, r, that.games.MakeTurn)
}

func (that *handlers) makeTurnWithBot(w http.ResponseWriter, r *http.Request) {
	that.move(w, r, that.games.MakeTurnWithBot)
}

func (that *handlers) move(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, gameID, username string, cell int) (*entity.Game, error),
) {
	var req moveRequest
	if !that.decode(w, r, &req) {
		return
	}

	if req.Position == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "position is required"})
		return
	}

	game, err := apply(r.Context(), chi.URLParam(r, "id"), req.Username, *req.Position)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newGameResponse(game))
}

func (that *handlers) endGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.EndGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newGameResponse(game))
}

func (that *handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return false
	}

	return true
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func (that *handlers) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		that.logger.Debug("request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"requestID", middleware.GetReqID(r.Context()),
		)
	})
}
