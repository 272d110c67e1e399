package rest

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type invitationUseCase interface {
	Send(ctx context.Context, senderUsername, receiverUsername string) (*entity.Invitation, error)
	ListReceived(ctx context.Context, username string) ([]*entity.Invitation, error)
	Accept(ctx context.Context, invitationID, username string) (*entity.Invitation, *entity.Game, error)
	Cancel(ctx context.Context, invitationID, username string) (*entity.Invitation, error)
}

type sendInvitationRequest struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
}

type invitationActionRequest struct {
	Username string `json:"username"`
}

type acceptInvitationResponse struct {
	Invitation *entity.Invitation `json:"invitation"`
	Game       gameResponse       `json:"game"`
}

func (that *handlers) sendInvitation(w http.ResponseWriter, r *http.Request) {
	var req sendInvitationRequest
	if !that.decode(w, r, &req) {
		return
	}

	invitation, err := that.invitations.Send(r.Context(), req.Sender, req.Receiver)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, invitation)
}

func (that *handlers) receivedInvitations(w http.ResponseWriter, r *http.Request) {
	invitations, err := that.invitations.ListReceived(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, invitations)
}

func (that *handlers) acceptInvitation(w http.ResponseWriter, r *http.Request) {
	var req invitationActionRequest
	if !that.decode(w, r, &req) {
		return
	}

	invitation, game, err := that.invitations.Accept(r.Context(), chi.URLParam(r, "id"), req.Username)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, acceptInvitationResponse{
		Invitation: invitation,
		Game:       newGameResponse(game),
	})
}

func (that *handlers) cancelInvitation(w http.ResponseWriter, r *http.Request) {
	var req invitationActionRequest
	if !that.decode(w, r, &req) {
		return
	}

	invitation, err := that.invitations.Cancel(r.Context(), chi.URLParam(r, "id"), req.Username)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, invitation)
}
