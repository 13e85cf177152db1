package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(rank Rank) Card {
	return Card{Suit: Spades, Rank: rank}
}

// riggedShoe builds a shoe that yields the given cards in order.
// Draw takes from the end, so the first card to come out goes last.
func riggedShoe(drawOrder ...Card) *Shoe {
	cards := make([]Card, len(drawOrder))
	for i, c := range drawOrder {
		cards[len(cards)-1-i] = c
	}
	return &Shoe{Cards: cards}
}

func TestPlaceBetEscrowsFromBankroll(t *testing.T) {
	e := NewEngine(1000)

	require.NoError(t, e.PlaceBet(100))
	assert.Equal(t, 900, e.Bankroll)
	assert.Equal(t, 100, e.CurrentBet)
	assert.Equal(t, Betting, e.Phase)
}

func TestPlaceBetAccumulates(t *testing.T) {
	e := NewEngine(1000)

	require.NoError(t, e.PlaceBet(50))
	require.NoError(t, e.PlaceBet(50))
	assert.Equal(t, 900, e.Bankroll)
	assert.Equal(t, 100, e.CurrentBet)
}

func TestPlaceBetOverBankrollIsRejected(t *testing.T) {
	e := NewEngine(100)

	err := e.PlaceBet(200)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 100, e.Bankroll)
	assert.Equal(t, 0, e.CurrentBet)
}

func TestPlaceBetRequiresPositiveAmount(t *testing.T) {
	e := NewEngine(1000)

	assert.ErrorIs(t, e.PlaceBet(0), ErrInvalidBet)
	assert.ErrorIs(t, e.PlaceBet(-10), ErrInvalidBet)
}

func TestClearBetReturnsEscrow(t *testing.T) {
	e := NewEngine(1000)
	require.NoError(t, e.PlaceBet(250))

	require.NoError(t, e.ClearBet())
	assert.Equal(t, 1000, e.Bankroll)
	assert.Equal(t, 0, e.CurrentBet)
}

func TestDealWithoutBetIsRejected(t *testing.T) {
	e := NewEngine(1000)

	err := e.Deal()
	assert.ErrorIs(t, err, ErrNoBet)
	assert.Equal(t, "Please place a bet first!", e.Message)
	assert.Equal(t, Betting, e.Phase)
}

func TestDealLeavesHoleCardUndealt(t *testing.T) {
	e := NewEngine(1000)
	require.NoError(t, e.PlaceBet(100))
	e.Shoe = riggedShoe(card(Ten), card(Nine), card(Seven))

	require.NoError(t, e.Deal())

	assert.Equal(t, PlayerTurn, e.Phase)
	assert.Len(t, e.PlayerHand.Cards, 2)
	// The dealer has only the up card; the hole card is not
	// materialized until the dealer's turn.
	assert.Len(t, e.DealerHand.Cards, 1)
	assert.True(t, e.DealerHand.Cards[0].FaceUp)
	assert.Equal(t, 17, e.PlayerHand.Value())
	assert.Equal(t, 9, e.DealerHand.Value())
}

func TestPlayerBlackjackPaysFiveToTwo(t *testing.T) {
	// Player {K, A}, dealer up card 9, hole card K: dealer has 19,
	// blackjack pays the stake back plus 3:2.
	e := NewEngine(1000)
	require.NoError(t, e.PlaceBet(100))
	e.Shoe = riggedShoe(card(King), card(Nine), card(Ace), card(King))

	require.NoError(t, e.Deal())

	assert.Equal(t, RoundOver, e.Phase)
	assert.Equal(t, OutcomeBlackjack, e.Outcome)
	assert.Equal(t, 1150, e.Bankroll)
	assert.Equal(t, 100, e.CurrentBet)
	assert.Len(t, e.DealerHand.Cards, 1, "peeked hole card must not stay in the dealer's hand")
}

func TestBothBlackjackIsPush(t *testing.T) {
	e := NewEngine(1000)
	require.NoError(t, e.PlaceBet(100))
	e.Shoe = riggedShoe(card(Ace), card(Ace), card(King), card(King))

	require.NoError(t, e.Deal())

	assert.Equal(t, RoundOver, e.Phase)
	assert.Equal(t, OutcomePush, e.Outcome)
	// The bet stays on the table as the default next bet.
	assert.Equal(t, 900, e.Bankroll)
	assert.Equal(t, 100, e.CurrentBet)
	assert.Len(t, e.DealerHand.Cards, 1)
}

func TestHitBustForfeitsEscrowedBet(t *testing.T) {
	e := NewEngine(1000)
	require.NoError(t, e.PlaceBet(100))
	e.Shoe = riggedShoe(card(Ten), card(Two), card(Nine), card(Five))

	require.NoError(t, e.Deal())
	require.NoError(t, e.Hit())

	assert.Equal(t, RoundOver, e.Phase)
	assert.Equal(t, OutcomeBust, e.Outcome)
	assert.Equal(t, 24, e.PlayerHand.Value())
	// Busting does not touch the bankroll; the loss is the escrowed
	// bet simply not coming back.
	assert.Equal(t, 900, e.Bankroll)
}

func TestHitToTwentyOneStandsAutomatically(t *testing.T) {
	// Player 5+6=11, hit draws a ten for 21: the engine stands and
	// the dealer's turn runs to completion in the same call.
	e := NewEngine(1000)
	require.NoError(t, e.PlaceBet(100))
	e.Shoe = riggedShoe(card(Five), card(Ten), card(Six), card(Ten), card(Seven))

	require.NoError(t, e.Deal())
	require.NoError(t, e.Hit())

	assert.Equal(t, RoundOver, e.Phase)
	assert.Equal(t, OutcomeWin, e.Outcome)
	assert.Equal(t, 21, e.PlayerHand.Value())
	assert.Equal(t, 17, e.DealerHand.Value())
	assert.Equal(t, 1100, e.Bankroll)
}

func TestDealerStopsAtSeventeen(t *testing.T) {
	// Player stands at 18; dealer draws to exactly 17 and stops.
	e := NewEngine(1000)
	require.NoError(t, e.PlaceBet(100))
	e.Shoe = riggedShoe(card(Ten), card(Nine), card(Eight), card(Eight))

	require.NoError(t, e.Deal())
	require.NoError(t, e.Stand())

	assert.Equal(t, RoundOver, e.Phase)
	assert.Equal(t, OutcomeWin, e.Outcome)
	assert.Equal(t, 17, e.DealerHand.Value())
	assert.Equal(t, 1100, e.Bankroll)
}

func TestDealerBustPaysDouble(t *testing.T) {
	e := NewEngine(1000)
	require.NoError(t, e.PlaceBet(100))
	e.Shoe = riggedShoe(card(Ten), card(Six), card(Ten), card(Ten), card(Ten))

	require.NoError(t, e.Deal())
	require.NoError(t, e.Stand())

	assert.Equal(t, RoundOver, e.Phase)
	assert.Equal(t, OutcomeDealerBust, e.Outcome)
	assert.Equal(t, 26, e.DealerHand.Value())
	assert.Equal(t, 1100, e.Bankroll)
}

func TestDealerWinKeepsEscrow(t *testing.T) {
	// Player 18, dealer 9 + hole 10 = 19.
	e := NewEngine(1000)
	require.NoError(t, e.PlaceBet(100))
	e.Shoe = riggedShoe(card(Ten), card(Nine), card(Eight), card(Ten))

	require.NoError(t, e.Deal())
	require.NoError(t, e.Stand())

	assert.Equal(t, RoundOver, e.Phase)
	assert.Equal(t, OutcomeLose, e.Outcome)
	assert.Equal(t, 900, e.Bankroll)
}

func TestPushReturnsExactlyTheBet(t *testing.T) {
	// Both hands finish at 20.
	e := NewEngine(1000)
	require.NoError(t, e.PlaceBet(100))
	e.Shoe = riggedShoe(card(Ten), card(Ten), card(Ten), card(Ten))

	require.NoError(t, e.Deal())
	require.NoError(t, e.Stand())

	assert.Equal(t, RoundOver, e.Phase)
	assert.Equal(t, OutcomePush, e.Outcome)
	assert.Equal(t, 20, e.PlayerHand.Value())
	assert.Equal(t, 20, e.DealerHand.Value())
	assert.Equal(t, 1000, e.Bankroll)
}

func TestDealerRevealsHoleCardOnItsTurn(t *testing.T) {
	e := NewEngine(1000)
	require.NoError(t, e.PlaceBet(100))
	e.Shoe = riggedShoe(card(Ten), card(Ten), card(Eight), card(Seven))

	require.NoError(t, e.Deal())
	require.NoError(t, e.Stand())

	require.GreaterOrEqual(t, len(e.DealerHand.Cards), 2)
	for _, c := range e.DealerHand.Cards {
		assert.True(t, c.FaceUp)
	}
}

func TestDoubleTakesOneCardAndStands(t *testing.T) {
	// Player 5+6=11 doubles, draws a ten for 21, dealer makes 17.
	e := NewEngine(1000)
	require.NoError(t, e.PlaceBet(100))
	e.Shoe = riggedShoe(card(Five), card(Ten), card(Six), card(Ten), card(Seven))

	require.NoError(t, e.Deal())
	require.NoError(t, e.Double())

	assert.Equal(t, RoundOver, e.Phase)
	assert.Equal(t, OutcomeWin, e.Outcome)
	assert.Equal(t, 200, e.CurrentBet)
	assert.Len(t, e.PlayerHand.Cards, 3)
	// 1000 - 100 (bet) - 100 (matching stake) + 400 (doubled win)
	assert.Equal(t, 1200, e.Bankroll)
}

func TestDoubleBustEndsRound(t *testing.T) {
	e := NewEngine(1000)
	require.NoError(t, e.PlaceBet(100))
	e.Shoe = riggedShoe(card(Ten), card(Seven), card(Six), card(Ten))

	require.NoError(t, e.Deal())
	require.NoError(t, e.Double())

	assert.Equal(t, RoundOver, e.Phase)
	assert.Equal(t, OutcomeBust, e.Outcome)
	assert.Equal(t, 200, e.CurrentBet)
	assert.Equal(t, 800, e.Bankroll)
}

func TestDoubleRejectedWhenStakeNotCovered(t *testing.T) {
	e := NewEngine(150)
	require.NoError(t, e.PlaceBet(100))
	e.Shoe = riggedShoe(card(Five), card(Ten), card(Six))
	require.NoError(t, e.Deal())

	err := e.Double()
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, PlayerTurn, e.Phase)
	assert.Equal(t, 50, e.Bankroll)
	assert.Equal(t, 100, e.CurrentBet)
	assert.Len(t, e.PlayerHand.Cards, 2)
}

func TestDoubleRejectedAfterHit(t *testing.T) {
	e := NewEngine(1000)
	require.NoError(t, e.PlaceBet(100))
	e.Shoe = riggedShoe(card(Two), card(Ten), card(Three), card(Four))
	require.NoError(t, e.Deal())
	require.NoError(t, e.Hit())

	err := e.Double()
	assert.ErrorIs(t, err, ErrInvalidPhase)
	assert.Equal(t, 100, e.CurrentBet)
}

func TestCommandsRejectedOutsideTheirPhase(t *testing.T) {
	e := NewEngine(1000)

	assert.ErrorIs(t, e.Hit(), ErrInvalidPhase)
	assert.ErrorIs(t, e.Stand(), ErrInvalidPhase)
	assert.ErrorIs(t, e.Double(), ErrInvalidPhase)

	require.NoError(t, e.PlaceBet(100))
	e.Shoe = riggedShoe(card(Ten), card(Nine), card(Seven))
	require.NoError(t, e.Deal())

	assert.ErrorIs(t, e.PlaceBet(50), ErrInvalidPhase)
	assert.ErrorIs(t, e.ClearBet(), ErrInvalidPhase)
	assert.ErrorIs(t, e.Deal(), ErrInvalidPhase)
}

func TestSplitInsuranceSurrenderAreUnsupported(t *testing.T) {
	e := NewEngine(1000)
	require.NoError(t, e.PlaceBet(100))
	e.Shoe = riggedShoe(card(Ten), card(Nine), card(Seven))
	require.NoError(t, e.Deal())

	before := *e
	for _, cmd := range []Command{CmdSplit, CmdInsurance, CmdSurrender} {
		assert.ErrorIs(t, e.Apply(cmd, 0), ErrUnsupported)
		assert.Equal(t, before.Phase, e.Phase)
		assert.Equal(t, before.Bankroll, e.Bankroll)
		assert.Equal(t, before.CurrentBet, e.CurrentBet)
	}
}

func TestBetCarriesOverIntoNextRound(t *testing.T) {
	e := NewEngine(1000)
	require.NoError(t, e.PlaceBet(100))
	e.Shoe = riggedShoe(card(Ten), card(Ten), card(Ten), card(Ten))
	require.NoError(t, e.Deal())
	require.NoError(t, e.Stand())
	require.Equal(t, RoundOver, e.Phase)

	// Deal again without touching the bet: the carried-over figure
	// is the default next stake and a fresh shoe and hands are built.
	require.NoError(t, e.Deal())

	assert.Equal(t, 100, e.CurrentBet)
	assert.Len(t, e.PlayerHand.Cards, 2)
	assert.Len(t, e.DealerHand.Cards, 1)
	assert.Contains(t, []Phase{PlayerTurn, RoundOver}, e.Phase)
	if e.Phase == PlayerTurn {
		assert.Empty(t, e.Outcome)
	}
	assert.LessOrEqual(t, e.Shoe.Remaining(), 49)
}

func TestBetEditableAfterRoundOver(t *testing.T) {
	e := NewEngine(1000)
	require.NoError(t, e.PlaceBet(100))
	e.Shoe = riggedShoe(card(Ten), card(Ten), card(Ten), card(Ten))
	require.NoError(t, e.Deal())
	require.NoError(t, e.Stand())
	require.Equal(t, RoundOver, e.Phase)
	require.Equal(t, 1000, e.Bankroll) // push returned the stake

	require.NoError(t, e.PlaceBet(50))
	assert.Equal(t, 150, e.CurrentBet)
	assert.Equal(t, 950, e.Bankroll)

	require.NoError(t, e.ClearBet())
	assert.Equal(t, 0, e.CurrentBet)
	assert.Equal(t, 1100, e.Bankroll)
}

func TestApplyDispatchesPlaceBet(t *testing.T) {
	e := NewEngine(1000)

	require.NoError(t, e.Apply(CmdPlaceBet, 100))
	assert.Equal(t, 100, e.CurrentBet)

	err := e.Apply(Command("shimmy"), 0)
	assert.Error(t, err)
}

func TestSnapshotShape(t *testing.T) {
	e := NewEngine(1000)
	require.NoError(t, e.PlaceBet(100))
	e.Shoe = riggedShoe(card(Ten), card(Nine), card(Seven))
	require.NoError(t, e.Deal())

	snap := e.Snapshot()
	assert.Equal(t, PlayerTurn, snap.Phase)
	assert.Equal(t, 900, snap.Bankroll)
	assert.Equal(t, 100, snap.CurrentBet)
	assert.Len(t, snap.PlayerHand, 2)
	assert.Len(t, snap.DealerHand, 1)
	assert.Equal(t, 17, snap.PlayerValue)
	assert.Equal(t, 9, snap.DealerValue)
	assert.Equal(t, "Your turn! Hit or Stand?", snap.Message)
}
