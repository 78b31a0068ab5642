// Package rating implements Glicko-2 per the reference's rating.rs: one
// rating row per user per speed, updated immediately after each rated game
// using the player's single opponent result for that game.
//
// No Glicko-2 library exists anywhere in the retrieved example pack (only
// Rust's skillratings crate, which isn't portable to Go), so the update
// formula is implemented directly against stdlib math — see DESIGN.md.
package rating

import (
	"math"
	"time"
)

const (
	scale        = 173.7178
	defaultRating   = 1500.0
	defaultDeviation = 350.0
	defaultVolatility = 0.06
	tau          = 0.5
	convergence  = 1e-6
)

// Speed buckets a game by its time control, matching one rating row per
// user per speed.
type Speed int

const (
	Untimed Speed = iota
	Correspondence
	Classical
	Rapid
	Blitz
	Bullet
)

// Speed thresholds mirror common Lichess-style cutoffs: total estimated game
// duration = time_base + 40*time_increment.
func DeriveSpeed(timeBase, timeIncrement time.Duration) Speed {
	if timeBase == 0 && timeIncrement == 0 {
		return Untimed
	}
	if timeBase >= 24*time.Hour {
		return Correspondence
	}
	estimate := timeBase + 40*timeIncrement
	switch {
	case estimate < 3*time.Minute:
		return Bullet
	case estimate < 8*time.Minute:
		return Blitz
	case estimate < 25*time.Minute:
		return Rapid
	default:
		return Classical
	}
}

// Result is one game's outcome from a given player's point of view.
type Result float64

const (
	Loss Result = 0.0
	Draw Result = 0.5
	Win  Result = 1.0
)

// Rating is one user's Glicko-2 rating row for one speed, plus the plain
// won/lost/drawn counters tracked regardless of rated/casual status.
type Rating struct {
	Speed      Speed
	Value      float64
	Deviation  float64
	Volatility float64

	Played int
	Won    int
	Lost   int
	Drawn  int
}

// New seeds a fresh rating row at (1500, 350, 0.06).
func New(speed Speed) Rating {
	return Rating{Speed: speed, Value: defaultRating, Deviation: defaultDeviation, Volatility: defaultVolatility}
}

func toGlicko2Scale(r Rating) (mu, phi float64) {
	return (r.Value - defaultRating) / scale, r.Deviation / scale
}

func fromGlicko2Scale(mu, phi float64) (value, deviation float64) {
	return mu*scale + defaultRating, phi * scale
}

func gFunc(phi float64) float64 {
	return 1 / math.Sqrt(1+3*phi*phi/(math.Pi*math.Pi))
}

func eFunc(mu, muj, phij float64) float64 {
	return 1 / (1 + math.Exp(-gFunc(phij)*(mu-muj)))
}

// Update applies one game's Glicko-2 step for a player rated (myRating)
// against a single opponent (oppRating) with outcome score (Win/Loss/Draw
// from the player's perspective). Only rated games should call this; casual
// games instead call Update's sibling BumpCounters.
func Update(my, opp Rating, score Result) Rating {
	mu, phi := toGlicko2Scale(my)
	muj, phij := toGlicko2Scale(opp)

	g := gFunc(phij)
	e := eFunc(mu, muj, phij)
	v := 1 / (g * g * e * (1 - e))
	delta := v * g * (float64(score) - e)

	sigma := newVolatility(phi, my.Volatility, v, delta)

	phiStar := math.Sqrt(phi*phi + sigma*sigma)
	phiPrime := 1 / math.Sqrt(1/(phiStar*phiStar)+1/v)
	muPrime := mu + phiPrime*phiPrime*g*(float64(score)-e)

	newValue, newDeviation := fromGlicko2Scale(muPrime, phiPrime)

	out := my
	out.Value = newValue
	out.Deviation = newDeviation
	out.Volatility = sigma
	out = bumpCounters(out, score)
	return out
}

// newVolatility runs the Illinois-algorithm root-find for sigma' specified
// by the Glicko-2 paper (step 5), converging to within 1e-6.
func newVolatility(phi, sigma, v, delta float64) float64 {
	a := math.Log(sigma * sigma)
	f := func(x float64) float64 {
		ex := math.Exp(x)
		num := ex * (delta*delta - phi*phi - v - ex)
		den := 2 * (phi*phi + v + ex) * (phi*phi + v + ex)
		return num/den - (x-a)/(tau*tau)
	}

	A := a
	var B float64
	if delta*delta > phi*phi+v {
		B = math.Log(delta*delta - phi*phi - v)
	} else {
		k := 1.0
		for f(a-k*tau) < 0 {
			k++
		}
		B = a - k*tau
	}

	fA, fB := f(A), f(B)
	for math.Abs(B-A) > convergence {
		C := A + (A-B)*fA/(fB-fA)
		fC := f(C)
		if fC*fB < 0 {
			A, fA = B, fB
		} else {
			fA /= 2
		}
		B, fB = C, fC
	}
	return math.Exp(A / 2)
}

func bumpCounters(r Rating, score Result) Rating {
	r.Played++
	switch score {
	case Win:
		r.Won++
	case Loss:
		r.Lost++
	default:
		r.Drawn++
	}
	return r
}

// BumpCounters advances only the plain (played, won, lost, draw) counters,
// leaving (Value, Deviation, Volatility) untouched — used for casual games,
// per spec §4.G: "For unrated games, only the counters move."
func BumpCounters(r Rating, score Result) Rating {
	return bumpCounters(r, score)
}

// Settle computes both players' post-game ratings for a rated game and the
// rating deltas to persist on the game record.
func Settle(white, black Rating, whiteScore Result) (newWhite, newBlack Rating, deltaWhite, deltaBlack float64) {
	blackScore := Result(1.0 - float64(whiteScore))
	newWhite = Update(white, black, whiteScore)
	newBlack = Update(black, white, blackScore)
	deltaWhite = newWhite.Value - white.Value
	deltaBlack = newBlack.Value - black.Value
	return newWhite, newBlack, deltaWhite, deltaBlack
}
