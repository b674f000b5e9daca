// internal/rating/glicko2.go

// Package rating updates Glicko-2 ratings after a head-to-head game.
package rating

import "math"

const (
	// GlickoScale converts between the 1500-based scale and Glicko-2's internal one.
	GlickoScale = 173.7178
	// DefaultRating is a new player's rating.
	DefaultRating = 1500.0
	// DefaultDeviation is a new player's rating deviation.
	DefaultDeviation = 350.0
	// DefaultVolatility is a new player's volatility.
	DefaultVolatility = 0.06
	// Tau constrains volatility changes.
	Tau = 0.5
	// Epsilon is the convergence tolerance of the volatility iteration.
	Epsilon = 0.000001
)

// Glicko2Rating is a rating in Glicko-2's internal scale.
type Glicko2Rating struct {
	Mu    float64
	Phi   float64
	Sigma float64
}

// NewGlicko2Rating converts a 1500-based rating, deviation and volatility.
// Zero deviation or volatility means an unrated player.
func NewGlicko2Rating(elo, rd, sigma float64) Glicko2Rating {
	if rd <= 0 {
		rd = DefaultDeviation
	}
	if sigma <= 0 {
		sigma = DefaultVolatility
	}
	return Glicko2Rating{
		Mu:    (elo - DefaultRating) / GlickoScale,
		Phi:   rd / GlickoScale,
		Sigma: sigma,
	}
}

// Elo is the rating on the 1500-based scale.
func (r Glicko2Rating) Elo() float64 {
	return r.Mu*GlickoScale + DefaultRating
}

// Deviation is the rating deviation on the 1500-based scale.
func (r Glicko2Rating) Deviation() float64 {
	return r.Phi * GlickoScale
}

// update performs a single-game Glicko-2 update of r against opp with score
// in [0, 1].
func update(r, opp Glicko2Rating, score float64) Glicko2Rating {
	gVal := g(opp.Phi)
	eVal := expected(r.Mu, opp.Mu, opp.Phi)

	v := 1.0 / (gVal * gVal * eVal * (1 - eVal))
	delta := v * gVal * (score - eVal)

	a := math.Log(r.Sigma * r.Sigma)
	fx := func(x float64) float64 {
		return volatilityFn(x, r.Phi, v, delta, a)
	}

	A := a
	var B float64
	if delta*delta > r.Phi*r.Phi+v {
		B = math.Log(delta*delta - r.Phi*r.Phi - v)
	} else {
		k := 1.0
		for fx(a-k*Tau) < 0 {
			k++
		}
		B = a - k*Tau
	}

	// Illinois variant of regula falsi.
	fA, fB := fx(A), fx(B)
	for i := 0; i < 100 && math.Abs(B-A) > Epsilon; i++ {
		C := A + (A-B)*fA/(fB-fA)
		fC := fx(C)
		if fC*fB <= 0 {
			A, fA = B, fB
		} else {
			fA /= 2
		}
		B, fB = C, fC
	}

	newSigma := math.Exp(A / 2)
	phiStar := math.Sqrt(r.Phi*r.Phi + newSigma*newSigma)
	phiPrime := 1.0 / math.Sqrt(1.0/(phiStar*phiStar)+1.0/v)
	muPrime := r.Mu + phiPrime*phiPrime*gVal*(score-eVal)

	return Glicko2Rating{Mu: muPrime, Phi: phiPrime, Sigma: newSigma}
}

func g(phi float64) float64 {
	return 1.0 / math.Sqrt(1.0+3.0*phi*phi/(math.Pi*math.Pi))
}

func expected(mu, oppMu, oppPhi float64) float64 {
	return 1.0 / (1.0 + math.Exp(-g(oppPhi)*(mu-oppMu)))
}

func volatilityFn(x, phi, v, delta, a float64) float64 {
	ex := math.Exp(x)
	num := ex * (delta*delta - phi*phi - v - ex)
	den := 2.0 * (phi*phi + v + ex) * (phi*phi + v + ex)
	return num/den - (x-a)/(Tau*Tau)
}
