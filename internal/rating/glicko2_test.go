// internal/rating/glicko2_test.go
package rating

import (
	"testing"

	"github.com/jason-s-yu/arcade/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestUpdate1v1(t *testing.T) {
	winner := models.User{Elo1v1: 1500}
	loser := models.User{Elo1v1: 1500}

	newW, newL := Update1v1(winner, loser)
	assert.Greater(t, newW.Elo1v1, 1500, "winner goes up")
	assert.Less(t, newL.Elo1v1, 1500, "loser goes down")
	assert.Equal(t, 1, newW.Wins)
	assert.Equal(t, 1, newL.Losses)
	assert.Less(t, newW.Phi1v1, DefaultDeviation, "a game shrinks the deviation")
	assert.InDelta(t, newW.Elo1v1-1500, 1500-newL.Elo1v1, 1, "equal players move symmetrically")
}

func TestUnratedPlayersStartAtDefaults(t *testing.T) {
	r := FromUser(models.User{})
	assert.InDelta(t, DefaultRating, r.Elo(), 1e-9)
	assert.InDelta(t, DefaultDeviation, r.Deviation(), 1e-9)
	assert.Equal(t, DefaultVolatility, r.Sigma)
}

func TestUpsetMovesMore(t *testing.T) {
	favourite := models.User{Elo1v1: 1700, Phi1v1: 50, Sigma1v1: DefaultVolatility}
	underdog := models.User{Elo1v1: 1400, Phi1v1: 50, Sigma1v1: DefaultVolatility}

	expectedW, _ := Update1v1(favourite, underdog)
	upsetW, _ := Update1v1(underdog, favourite)

	gainExpected := expectedW.Elo1v1 - favourite.Elo1v1
	gainUpset := upsetW.Elo1v1 - underdog.Elo1v1
	assert.Greater(t, gainUpset, gainExpected)
	assert.Greater(t, gainExpected, 0)
}
