package game

import (
	"errors"
	"fmt"
)

type Phase string

const (
	Betting    Phase = "betting"    // Bet editing, no cards dealt yet
	PlayerTurn Phase = "playerTurn" // Player decides to hit, stand or double
	DealerTurn Phase = "dealerTurn" // Dealer draws to 17+, then settles
	RoundOver  Phase = "roundOver"  // Round settled, bet editing allowed again
)

type Outcome string

const (
	OutcomeBlackjack  Outcome = "blackjack"
	OutcomePush       Outcome = "push"
	OutcomeWin        Outcome = "win"
	OutcomeLose       Outcome = "lose"
	OutcomeBust       Outcome = "bust"
	OutcomeDealerBust Outcome = "dealerBust"
)

var (
	// ErrInvalidPhase is returned when a command arrives in a phase
	// that does not accept it, or when double is attempted after the
	// first two cards.
	ErrInvalidPhase = errors.New("command not valid in current phase")

	// ErrInsufficientFunds is returned when a bet (or double's
	// matching stake) exceeds the bankroll.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidBet is returned when the bet amount is not positive.
	ErrInvalidBet = errors.New("bet must be positive")

	// ErrNoBet is returned when deal is attempted with no bet placed.
	ErrNoBet = errors.New("no bet placed")

	// ErrUnsupported is returned for split, insurance and surrender,
	// which this table does not offer.
	ErrUnsupported = errors.New("unsupported command")
)

// Command identifies one discrete player action. Keeping the set
// closed lets an input adapter map device events exhaustively.
type Command string

const (
	CmdPlaceBet  Command = "placeBet"
	CmdClearBet  Command = "clearBet"
	CmdDeal      Command = "deal"
	CmdHit       Command = "hit"
	CmdStand     Command = "stand"
	CmdDouble    Command = "double"
	CmdSplit     Command = "split"
	CmdInsurance Command = "insurance"
	CmdSurrender Command = "surrender"
)

// Engine is the blackjack rules engine for a single player against
// the dealer. It owns the shoe, both hands, the bankroll, the bet
// and the current phase, and processes every command to completion
// before returning. One engine serves one session; there is no
// engine-side locking because there is no concurrent access.
//
// Money follows an escrow model: the bet is deducted from the
// bankroll when placed, and settlement returns it (in whole, with
// winnings, or not at all). The bet figure itself is carried across
// rounds as the default next bet and is only zeroed by clearBet.
type Engine struct {
	Shoe       *Shoe   `json:"shoe,omitempty"`
	PlayerHand *Hand   `json:"playerHand"`
	DealerHand *Hand   `json:"dealerHand"`
	Phase      Phase   `json:"phase"`
	Bankroll   int     `json:"bankroll"`
	CurrentBet int     `json:"currentBet"`
	Message    string  `json:"message"`
	Outcome    Outcome `json:"outcome,omitempty"`
	LastPayout int     `json:"lastPayout,omitempty"`
}

// NewEngine creates an engine for a fresh session with the given
// starting bankroll.
func NewEngine(bankroll int) *Engine {
	shoe := NewShoe()
	shoe.Shuffle()

	return &Engine{
		Shoe:       shoe,
		PlayerHand: NewHand(false),
		DealerHand: NewHand(true),
		Phase:      Betting,
		Bankroll:   bankroll,
		CurrentBet: 0,
		Message:    "Place your bet!",
	}
}

// Apply dispatches a command to the engine. Amount is only consulted
// for placeBet. Any returned error leaves the engine in its prior
// valid state.
func (e *Engine) Apply(cmd Command, amount int) error {
	switch cmd {
	case CmdPlaceBet:
		return e.PlaceBet(amount)
	case CmdClearBet:
		return e.ClearBet()
	case CmdDeal:
		return e.Deal()
	case CmdHit:
		return e.Hit()
	case CmdStand:
		return e.Stand()
	case CmdDouble:
		return e.Double()
	case CmdSplit, CmdInsurance, CmdSurrender:
		e.Message = fmt.Sprintf("%s is not offered at this table.", cmd)
		return ErrUnsupported
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// PlaceBet moves amount from the bankroll into the escrowed bet.
// Valid while bets are editable (Betting or RoundOver). Repeated
// calls accumulate, chip-stacking style.
func (e *Engine) PlaceBet(amount int) error {
	if e.Phase != Betting && e.Phase != RoundOver {
		return ErrInvalidPhase
	}
	if amount <= 0 {
		return ErrInvalidBet
	}
	if amount > e.Bankroll {
		e.Message = "Not enough money for that bet."
		return ErrInsufficientFunds
	}

	e.Bankroll -= amount
	e.CurrentBet += amount
	e.Message = fmt.Sprintf("Bet: $%d. Deal to play or add more chips.", e.CurrentBet)
	return nil
}

// ClearBet returns the escrowed bet to the bankroll.
func (e *Engine) ClearBet() error {
	if e.Phase != Betting && e.Phase != RoundOver {
		return ErrInvalidPhase
	}

	e.Bankroll += e.CurrentBet
	e.CurrentBet = 0
	e.Message = "Bet cleared. Place your bet!"
	return nil
}

// Deal starts a round: two face-up cards to the player, one to the
// dealer. The dealer's hole card is deliberately not dealt yet, so a
// hidden card is never materialized in the dealer's hand. If the
// player's two cards make 21 the round settles immediately.
func (e *Engine) Deal() error {
	if e.Phase != Betting && e.Phase != RoundOver {
		return ErrInvalidPhase
	}
	if e.CurrentBet == 0 {
		e.Message = "Please place a bet first!"
		return ErrNoBet
	}

	if e.Phase == RoundOver {
		e.newRound()
	}

	if err := e.dealTo(e.PlayerHand); err != nil {
		return err
	}
	if err := e.dealTo(e.DealerHand); err != nil {
		return err
	}
	if err := e.dealTo(e.PlayerHand); err != nil {
		return err
	}

	if e.PlayerHand.Value() == 21 {
		return e.checkDealerBlackjack()
	}

	e.Phase = PlayerTurn
	e.Message = "Your turn! Hit or Stand?"
	return nil
}

// checkDealerBlackjack resolves a player blackjack. The hole card is
// drawn and evaluated hypothetically, never added to the dealer's
// hand, so the one-visible-dealer-card invariant holds through the
// settled round.
func (e *Engine) checkDealerBlackjack() error {
	hole, err := e.Shoe.Draw()
	if err != nil {
		return err
	}
	hole.FaceUp = true

	peek := make([]Card, 0, len(e.DealerHand.Cards)+1)
	peek = append(peek, e.DealerHand.Cards...)
	peek = append(peek, hole)

	if scoreCards(peek) == 21 {
		// Both blackjack. The bet stays escrowed on the table as the
		// default next bet.
		e.settle(OutcomePush, 0, "Both have Blackjack! Push.")
	} else {
		// Blackjack pays 3:2 on top of the returned stake.
		e.settle(OutcomeBlackjack, e.CurrentBet+e.CurrentBet*3/2, "Blackjack! You win!")
	}
	return nil
}

// Hit draws one card for the player. Busting ends the round with the
// escrowed bet forfeited; exactly 21 stands automatically.
func (e *Engine) Hit() error {
	if e.Phase != PlayerTurn {
		return ErrInvalidPhase
	}

	if err := e.dealTo(e.PlayerHand); err != nil {
		return err
	}

	switch value := e.PlayerHand.Value(); {
	case value > 21:
		e.settle(OutcomeBust, 0, "Bust! You lose.")
	case value == 21:
		return e.Stand()
	}
	return nil
}

// Stand ends the player's turn and plays the dealer's hand to
// completion before returning.
func (e *Engine) Stand() error {
	if e.Phase != PlayerTurn {
		return ErrInvalidPhase
	}

	e.Phase = DealerTurn
	return e.dealerPlay()
}

// Double doubles the escrowed bet on the player's first two cards,
// takes exactly one card, then stands. The matching stake has to be
// coverable by the remaining bankroll.
func (e *Engine) Double() error {
	if e.Phase != PlayerTurn {
		return ErrInvalidPhase
	}
	if len(e.PlayerHand.Cards) != 2 {
		e.Message = "Double is only allowed on your first two cards."
		return ErrInvalidPhase
	}
	if e.CurrentBet > e.Bankroll {
		e.Message = "Not enough money to double down."
		return ErrInsufficientFunds
	}

	e.Bankroll -= e.CurrentBet
	e.CurrentBet *= 2

	if err := e.Hit(); err != nil {
		return err
	}
	if e.Phase == PlayerTurn {
		return e.Stand()
	}
	return nil
}

// dealerPlay deals the hole card now, face up, then draws while the
// dealer's total is strictly below 17 and settles against the
// player's hand.
func (e *Engine) dealerPlay() error {
	if err := e.dealTo(e.DealerHand); err != nil {
		return err
	}
	e.DealerHand.Reveal()

	for e.DealerHand.Value() < 17 {
		if err := e.dealTo(e.DealerHand); err != nil {
			return err
		}
	}

	dealerValue := e.DealerHand.Value()
	playerValue := e.PlayerHand.Value()

	switch {
	case dealerValue > 21:
		e.settle(OutcomeDealerBust, e.CurrentBet*2, "Dealer busts! You win!")
	case dealerValue > playerValue:
		e.settle(OutcomeLose, 0, "Dealer wins!")
	case dealerValue < playerValue:
		e.settle(OutcomeWin, e.CurrentBet*2, "You win!")
	default:
		e.settle(OutcomePush, e.CurrentBet, "Push! It's a tie.")
	}
	return nil
}

// settle credits the payout, records the outcome and closes the
// round. A payout of 0 means the escrowed bet is forfeited (or, for
// a blackjack push, left on the table).
func (e *Engine) settle(outcome Outcome, payout int, message string) {
	e.Bankroll += payout
	e.Outcome = outcome
	e.LastPayout = payout
	e.Message = message
	e.Phase = RoundOver
}

// newRound rebuilds the shoe and clears both hands for another deal.
// Bankroll and the carried-over bet are preserved.
func (e *Engine) newRound() {
	e.Shoe = NewShoe()
	e.Shoe.Shuffle()
	e.PlayerHand.Clear()
	e.DealerHand.Clear()
	e.Phase = Betting
	e.Outcome = ""
	e.LastPayout = 0
	e.Message = "Place your bet!"
}

// dealTo draws one card from the shoe face up into the given hand.
func (e *Engine) dealTo(hand *Hand) error {
	card, err := e.Shoe.Draw()
	if err != nil {
		return err
	}
	card.FaceUp = true
	hand.AddCard(card)
	return nil
}
