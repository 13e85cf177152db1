package game

import (
	"errors"
	"math/rand"
	"time"
)

// ErrEmptyShoe is returned when a card is drawn from an exhausted
// shoe. A fresh shoe is built at the top of every round, so with 52
// cards this is defensive only.
var ErrEmptyShoe = errors.New("shoe is empty")

// Shoe is a finite, shuffled source of cards for one round.
type Shoe struct {
	Cards []Card `json:"cards,omitempty"`
}

// NewShoe creates a shoe holding all 52 (suit, rank) combinations
// exactly once.
func NewShoe() *Shoe {
	shoe := &Shoe{}
	suits := []Suit{Hearts, Diamonds, Clubs, Spades}
	ranks := []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

	for _, suit := range suits {
		for _, rank := range ranks {
			shoe.Cards = append(shoe.Cards, Card{Suit: suit, Rank: rank})
		}
	}

	return shoe
}

// Shuffle randomizes the order of the remaining cards using
// Fisher-Yates. The randomness only needs to be fair, not
// cryptographic.
func (s *Shoe) Shuffle() {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for i := len(s.Cards) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		s.Cards[i], s.Cards[j] = s.Cards[j], s.Cards[i]
	}
}

// Draw removes and returns the last card in the shoe.
func (s *Shoe) Draw() (Card, error) {
	if len(s.Cards) == 0 {
		return Card{}, ErrEmptyShoe
	}

	card := s.Cards[len(s.Cards)-1]
	s.Cards = s.Cards[:len(s.Cards)-1]
	return card, nil
}

// Remaining returns the number of cards left in the shoe.
func (s *Shoe) Remaining() int {
	return len(s.Cards)
}
