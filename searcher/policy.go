package searcher

import (
	"math"

	"hexagent/meta"
)

// selection scores the children of one parent. It blends UCB1 with the
// parent's AMAF estimate for the child's move; the AMAF weight decays as the
// child collects real visits.
type selection struct {
	exploration float64
	raveBias    float64
	rave        bool
	logN        float64
}

func newSelection(exploration, raveBias float64, rave bool, parentVisits int) selection {
	return selection{
		exploration: exploration,
		raveBias:    raveBias,
		rave:        rave,
		logN:        math.Log(math.Max(1, float64(parentVisits))),
	}
}

func (s selection) evaluate(wins, visits, amafWins, amafVisits int) float64 {
	if visits == 0 {
		panic("cannot score a child with 0 visits")
	}
	n := float64(visits)
	// UCB1 = q/n + c*sqrt(ln(N)/n)
	ucb := float64(wins)/n + s.exploration*math.Sqrt(s.logN/n)
	if !s.rave {
		return ucb
	}

	nAmaf := float64(amafVisits)
	qAmaf := meta.NEUTRAL_PRIOR
	if amafVisits > 0 {
		qAmaf = float64(amafWins) / nAmaf
	}
	w := nAmaf / (n + nAmaf + s.raveBias)
	return (1-w)*ucb + w*qAmaf
}
