package apperror

import "errors"

var (
	ErrGameNotFound            = errors.New("game not found")
	ErrPlayerNotFound          = errors.New("player not found")
	ErrNotYourTurn             = errors.New("it's not your turn")
	ErrCellOccupied            = errors.New("cell is already occupied")
	ErrInvalidCell             = errors.New("invalid cell index")
	ErrGameFinished            = errors.New("game is already finished")
	ErrInvalidBotConfiguration = errors.New("game is not configured for this kind of opponent")
	ErrInvalidPlayers          = errors.New("a game needs two different players")
	ErrUserAlreadyExists       = errors.New("user already exists")
	ErrInvalidUsername         = errors.New("invalid username")
	ErrTxConflict              = errors.New("too many concurrent updates")

	ErrInvitationNotFound    = errors.New("invitation not found")
	ErrInvitationNotPending  = errors.New("invitation is not pending")
	ErrSelfInvitation        = errors.New("cannot invite yourself")
	ErrNotInvitationReceiver = errors.New("only the receiver can accept the invitation")
	ErrNotInvitationMember   = errors.New("only the sender or the receiver can cancel the invitation")
)
