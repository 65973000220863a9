package economy

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidChoice rejects a guess outside 1..GameChoices.
var ErrInvalidChoice = errors.New("invalid game choice")

// GameResult is the outcome of one round of the guessing game.
type GameResult struct {
	Won        bool
	Number     int // the winning number that was drawn
	Delta      int64
	NewBalance int64
}

// PlayGame plays one round: the user guesses a number in 1..3 against a
// uniform draw. A correct guess pays GameWinAmount, a miss costs
// GameLossAmount. There is no balance floor.
func (s *Service) PlayGame(ctx context.Context, userID int64, choice int) (GameResult, error) {
	if choice < 1 || choice > GameChoices {
		return GameResult{}, ErrInvalidChoice
	}

	number := s.randInt(GameChoices) + 1
	delta := int64(GameWinAmount)
	won := choice == number
	if !won {
		delta = -GameLossAmount
	}

	acct, err := s.store.AdjustBalance(ctx, userID, delta)
	if err != nil {
		return GameResult{}, fmt.Errorf("failed to settle game round: %w", err)
	}
	return GameResult{Won: won, Number: number, Delta: delta, NewBalance: acct.Balance}, nil
}
