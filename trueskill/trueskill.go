// Package trueskill implements the two-team TrueSkill factor-graph update:
// given each team's current skill beliefs and a game outcome, it produces a
// skill-update Message for every participant. It is a pure function of its
// inputs — safe to call concurrently, never touches the store.
package trueskill

import (
	"math"

	"crab.casa/fooskill/message"
)

// Outcome is the result of a two-team game from the left team's perspective.
type Outcome int

const (
	Won Outcome = iota
	Draw
	Lost
)

// TrueSkill holds the two scalars that configure the performance model: Beta
// is the standard deviation of a player's sampled in-game performance around
// their skill, Eps is the draw margin around a zero skill difference.
type TrueSkill struct {
	Beta float64
	Eps  float64
}

// New builds a TrueSkill estimator from a default sigma, deriving Beta and
// Eps the way the reference implementation does: Beta = defaultSigma/2, and
// Eps chosen so the draw probability under the prior is about 0.2167.
func New(defaultSigma float64) TrueSkill {
	beta := defaultSigma / 2.0
	return TrueSkill{
		Beta: beta,
		Eps:  0.2750 * math.Sqrt2 * beta,
	}
}

func (t TrueSkill) passFromSkill(skill message.Message) message.Message {
	c2 := t.Beta * t.Beta
	a := 1.0 / (1.0 + c2*skill.Pi)
	return message.Message{Pi: a * skill.Pi, Tau: a * skill.Tau}
}

type weighted struct {
	weight float64
	msg    message.Message
}

func passWeighted(messages []weighted) message.Message {
	var invPi float64
	for _, wm := range messages {
		invPi += wm.weight * wm.weight / wm.msg.Pi
	}
	pi := 1.0 / invPi

	var sum float64
	for _, wm := range messages {
		sum += wm.weight * wm.msg.Tau / wm.msg.Pi
	}
	tau := pi * sum

	return message.Message{Pi: pi, Tau: tau}
}

func passFromPerformance(messages []message.Message) message.Message {
	weightedMessages := make([]weighted, len(messages))
	for i, m := range messages {
		weightedMessages[i] = weighted{weight: 1.0, msg: m}
	}
	return passWeighted(weightedMessages)
}

func passToDifference(left, right message.Message) message.Message {
	return passWeighted([]weighted{{1.0, left}, {-1.0, right}})
}

func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2.0*math.Pi)
}

func normCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}

func vWon(t, eps float64) float64 {
	return normPDF(t-eps) / normCDF(t-eps)
}

func wWon(t, eps float64) float64 {
	v := vWon(t, eps)
	return v * (v + t - eps)
}

func vDraw(t, eps float64) float64 {
	return (normPDF(-eps-t) - normPDF(eps-t)) / (normCDF(eps-t) - normCDF(-eps-t))
}

func wDraw(t, eps float64) float64 {
	v := vDraw(t, eps)
	return v*v + ((eps-t)*normPDF(eps-t)+(eps+t)*normPDF(eps+t))/(normCDF(eps-t)-normCDF(-eps-t))
}

func (t TrueSkill) differenceMarginal(v, w func(float64, float64) float64, m message.Message) message.Message {
	c := m.Pi
	d := m.Tau
	sqrtC := math.Sqrt(c)

	vValue := v(d/sqrtC, t.Eps*sqrtC)
	wValue := 1.0 - w(d/sqrtC, t.Eps*sqrtC)

	return message.Message{
		Pi:  c / wValue,
		Tau: (d + sqrtC*vValue) / wValue,
	}
}

func (t TrueSkill) differenceMarginalWon(m message.Message) message.Message {
	return t.differenceMarginal(vWon, wWon, m)
}

func (t TrueSkill) differenceMarginalDraw(m message.Message) message.Message {
	return t.differenceMarginal(vDraw, wDraw, m)
}

func passFromDifference(left, right, toDifference message.Message) (message.Message, message.Message) {
	leftOut := passWeighted([]weighted{{1.0, right}, {1.0, toDifference}})
	rightOut := passWeighted([]weighted{{1.0, left}, {-1.0, toDifference}})
	return leftOut, rightOut
}

// passToPerformance splits a team-level update message back down into a
// per-player performance update: player i's weighted pass sees its own slot
// replaced by the team update (weight +1) and every other slot as a negative
// weight against the original per-player performance message.
func passToPerformance(fromPerformance []message.Message, update message.Message) []message.Message {
	weightedMessages := make([]weighted, len(fromPerformance))
	for i, m := range fromPerformance {
		weightedMessages[i] = weighted{weight: -1.0, msg: m}
	}

	out := make([]message.Message, len(fromPerformance))
	for i := range weightedMessages {
		weightedMessages[i] = weighted{weight: 1.0, msg: update}
		out[i] = passWeighted(weightedMessages)
		weightedMessages[i] = weighted{weight: -1.0, msg: fromPerformance[i]}
	}
	return out
}

func (t TrueSkill) toSkill(m message.Message) message.Message {
	return t.passFromSkill(m)
}

// TreePass passes both teams' skill messages down the factor graph and
// returns the per-player skill-update Message for each side, in the same
// order as the inputs. The caller combines each update into the player's
// prior skill via Message.Include — these are updates, not full beliefs.
func (t TrueSkill) TreePass(leftTeam, rightTeam []message.Message, outcome Outcome) ([]message.Message, []message.Message) {
	if outcome == Lost {
		rightSkill, leftSkill := t.TreePass(rightTeam, leftTeam, Won)
		return leftSkill, rightSkill
	}

	leftPerformances := make([]message.Message, len(leftTeam))
	for i, m := range leftTeam {
		leftPerformances[i] = t.passFromSkill(m)
	}
	rightPerformances := make([]message.Message, len(rightTeam))
	for i, m := range rightTeam {
		rightPerformances[i] = t.passFromSkill(m)
	}

	leftPerformance := passFromPerformance(leftPerformances)
	rightPerformance := passFromPerformance(rightPerformances)

	toDifference := passToDifference(leftPerformance, rightPerformance)

	var marginal message.Message
	switch outcome {
	case Won:
		marginal = t.differenceMarginalWon(toDifference)
	case Draw:
		marginal = t.differenceMarginalDraw(toDifference)
	default:
		panic("trueskill: cannot have Lost here")
	}

	leftFromDifference, rightFromDifference := passFromDifference(leftPerformance, rightPerformance, marginal.Exclude(toDifference))

	leftSkills := make([]message.Message, len(leftPerformances))
	for i, m := range passToPerformance(leftPerformances, leftFromDifference) {
		leftSkills[i] = t.toSkill(m)
	}
	rightSkills := make([]message.Message, len(rightPerformances))
	for i, m := range passToPerformance(rightPerformances, rightFromDifference) {
		rightSkills[i] = t.toSkill(m)
	}

	return leftSkills, rightSkills
}
