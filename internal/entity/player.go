package entity

type ParticipantKind string

const (
	KindHuman ParticipantKind = "human"
	KindBot   ParticipantKind = "bot"
)

// Participant occupies a player slot of a game: either a registered user or the bot.
type Participant struct {
	Kind ParticipantKind `json:"kind"`
	ID   string          `json:"id,omitempty"`
}

func Human(id string) Participant {
	return Participant{Kind: KindHuman, ID: id}
}

func Bot() Participant {
	return Participant{Kind: KindBot}
}

func (that Participant) IsBot() bool {
	return that.Kind == KindBot
}

func (that Participant) IsHuman() bool {
	return that.Kind == KindHuman
}

func (that Participant) Equal(other Participant) bool {
	if that.Kind != other.Kind {
		return false
	}

	return that.IsBot() || that.ID == other.ID
}

// String is used in logs and metric labels.
func (that Participant) String() string {
	if that.IsBot() {
		return string(KindBot)
	}
	return that.ID
}
