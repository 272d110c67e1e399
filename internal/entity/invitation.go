package entity

import "time"

type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationAccepted  InvitationStatus = "accepted"
	InvitationCancelled InvitationStatus = "cancelled"
)

// Invitation asks the receiver to play a human game against the sender.
// Accepting it starts the game with the receiver as the opener.
type Invitation struct {
	ID         string           `json:"id"`
	SenderID   string           `json:"sender_id"`
	ReceiverID string           `json:"receiver_id"`
	Status     InvitationStatus `json:"status"`
	GameID     string           `json:"game_id,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

func NewInvitation(id, senderID, receiverID string, createdAt time.Time) *Invitation {
	return &Invitation{
		ID:         id,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     InvitationPending,
		CreatedAt:  createdAt,
	}
}

func (that *Invitation) IsPending() bool {
	return that.Status == InvitationPending
}

// Involves reports whether the user sent or received the invitation.
func (that *Invitation) Involves(userID string) bool {
	return that.SenderID == userID || that.ReceiverID == userID
}
