package game

// CardView is the render-facing view of a single card. When FaceUp
// is false a renderer paints the card back and the card contributes
// nothing to the hand value shown next to it.
type CardView struct {
	Suit   Suit `json:"suit"`
	Rank   Rank `json:"rank"`
	FaceUp bool `json:"faceUp"`
}

// Snapshot is the renderable view of one engine. The dealer's hole
// card never appears here before dealer play because it is not dealt
// until then.
type Snapshot struct {
	Phase       Phase      `json:"phase"`
	Bankroll    int        `json:"bankroll"`
	CurrentBet  int        `json:"currentBet"`
	Message     string     `json:"message"`
	Outcome     Outcome    `json:"outcome,omitempty"`
	PlayerHand  []CardView `json:"playerHand"`
	DealerHand  []CardView `json:"dealerHand"`
	PlayerValue int        `json:"playerValue"`
	DealerValue int        `json:"dealerValue"`
}

// Snapshot returns the current renderable state. Hand values are the
// visible totals, so the dealer's shown value only ever counts
// face-up cards.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Phase:       e.Phase,
		Bankroll:    e.Bankroll,
		CurrentBet:  e.CurrentBet,
		Message:     e.Message,
		Outcome:     e.Outcome,
		PlayerHand:  handView(e.PlayerHand),
		DealerHand:  handView(e.DealerHand),
		PlayerValue: e.PlayerHand.Value(),
		DealerValue: e.DealerHand.Value(),
	}
}

func handView(h *Hand) []CardView {
	view := make([]CardView, len(h.Cards))
	for i, card := range h.Cards {
		view[i] = CardView{Suit: card.Suit, Rank: card.Rank, FaceUp: card.FaceUp}
	}
	return view
}
