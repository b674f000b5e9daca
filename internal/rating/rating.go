// internal/rating/rating.go
package rating

import (
	"math"

	"github.com/jason-s-yu/arcade/internal/models"
)

// FromUser reads a user's stored head-to-head rating.
func FromUser(u models.User) Glicko2Rating {
	elo := float64(u.Elo1v1)
	if u.Elo1v1 == 0 {
		elo = DefaultRating
	}
	return NewGlicko2Rating(elo, u.Phi1v1, u.Sigma1v1)
}

// apply writes r back into u's rating fields.
func apply(u models.User, r Glicko2Rating) models.User {
	u.Elo1v1 = int(math.Round(r.Elo()))
	u.Phi1v1 = r.Deviation()
	u.Sigma1v1 = r.Sigma
	return u
}

// Update1v1 rates one decided game. Both players are updated against the
// other's rating from before the game, and win/loss counters are bumped.
func Update1v1(winner, loser models.User) (models.User, models.User) {
	w, l := FromUser(winner), FromUser(loser)

	winner = apply(winner, update(w, l, 1))
	loser = apply(loser, update(l, w, 0))
	winner.Wins++
	loser.Losses++
	return winner, loser
}
