package game

// Hand is an ordered collection of cards belonging to one party.
type Hand struct {
	Cards    []Card `json:"cards"`
	IsDealer bool   `json:"isDealer"`
}

// NewHand creates an empty hand.
func NewHand(isDealer bool) *Hand {
	return &Hand{Cards: []Card{}, IsDealer: isDealer}
}

// AddCard appends a card to the hand.
func (h *Hand) AddCard(card Card) {
	h.Cards = append(h.Cards, card)
}

// Reveal turns every card in the hand face up. Calling it more than
// once has no further effect.
func (h *Hand) Reveal() {
	for i := range h.Cards {
		h.Cards[i].FaceUp = true
	}
}

// Clear empties the hand for a new round.
func (h *Hand) Clear() {
	h.Cards = []Card{}
}

// Value returns the hand's point total. It is re-derived on every
// call so it can never go stale after a card is added or flipped.
// Face-down cards contribute nothing.
func (h *Hand) Value() int {
	return scoreCards(h.Cards)
}

// scoreCards sums face-up cards with each ace as 11, then demotes
// aces to 1 one at a time while the total is over 21.
func scoreCards(cards []Card) int {
	score := 0
	aces := 0

	for _, card := range cards {
		if !card.FaceUp {
			continue
		}
		if card.Rank == Ace {
			aces++
		}
		score += card.Points()
	}

	for score > 21 && aces > 0 {
		score -= 10
		aces--
	}

	return score
}
