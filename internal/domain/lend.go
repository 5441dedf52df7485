package domain

import (
	"math"
	"time"
)

// LentGame records a game lent to a friend. ExpiryDate is always
// LendDate + Duration days; extending a lend moves both together.
// A record stays in the lent list after it expires, it is only inactive.
type LentGame struct {
	ID         string    `json:"id"`
	GameID     int       `json:"gameId"`
	FriendName string    `json:"friendName"`
	Email      string    `json:"email"`
	LendDate   time.Time `json:"lendDate"`
	ExpiryDate time.Time `json:"expiryDate"`
	Duration   int       `json:"duration"`
}

// IsActive reports whether the lend has not yet expired at now.
func (l LentGame) IsActive(now time.Time) bool {
	return l.ExpiryDate.After(now)
}

// DaysRemaining is the number of started days left before expiry, or 0 once
// the lend has expired.
func (l LentGame) DaysRemaining(now time.Time) int {
	diff := l.ExpiryDate.Sub(now)
	if diff <= 0 {
		return 0
	}
	return int(math.Ceil(diff.Hours() / 24))
}

// LentGameView is a lend joined with the display form of its game.
type LentGameView struct {
	LentGame
	Game          *GameDisplay `json:"game,omitempty"`
	Expired       bool         `json:"expired"`
	DaysRemaining int          `json:"daysRemaining"`
}
