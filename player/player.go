// Package player implements the temporal skill model: a Player owns a
// Gaussian skill belief plus the timestamp it was last fit at, and ages that
// belief forward in time when it is queried.
package player

import (
	"math"
	"time"

	"crab.casa/fooskill/message"
)

// DefaultMean and DefaultSigma are the prior every new player starts from.
const (
	DefaultMean = 25.0
)

// DefaultSigma returns the prior standard deviation, mean/3.
func DefaultSigma() float64 {
	return DefaultMean / 3.0
}

// lengthScale is the characteristic timescale of the Ornstein-Uhlenbeck
// drift: a skill estimate decays back toward the prior over about 90 days.
// This is the canonical temporal model for this spec — the alternative
// linear-in-time variance growth (no mean reversion) found in some
// revisions of the reference implementation is not implemented, since it
// never converges to a prior and has no natural length_scale constant.
const lengthScale = 90 * 24 * time.Hour

// Player holds a player's current skill belief and when it was fit.
type Player struct {
	Skill    message.Message `json:"skill"`
	Datetime time.Time       `json:"datetime"`
}

// Default returns a new player at the prior, fit at now.
func Default(now time.Time) Player {
	return Player{
		Skill:    message.FromMuSigma2(DefaultMean, DefaultSigma()*DefaultSigma()),
		Datetime: now,
	}
}

// SkillAt drifts the stored skill belief forward to query using the
// stationary-distribution form of an Ornstein-Uhlenbeck process with
// stationary mean DefaultMean and stationary variance DefaultSigma()^2. The
// second return value is false if query is before the time the belief was
// last fit — the temporal model only ever looks forward.
func (p Player) SkillAt(query time.Time) (message.Message, bool) {
	delta := query.Sub(p.Datetime)
	if delta < 0 {
		return message.Message{}, false
	}

	mu0 := DefaultMean
	sigma0 := DefaultSigma()

	decay := math.Exp(-delta.Seconds() / lengthScale.Seconds())

	mu, sigma2 := p.Skill.ToMuSigma2()
	muDrifted := (mu-mu0)*decay + mu0
	sigma2Drifted := sigma0*sigma0*(1-decay*decay) + decay*decay*sigma2

	return message.FromMuSigma2(muDrifted, sigma2Drifted), true
}

// SetSkill replaces both the skill belief and its fit time atomically.
func (p *Player) SetSkill(skill message.Message, at time.Time) {
	p.Skill = skill
	p.Datetime = at
}
