// Package message implements Gaussian beliefs in natural-parameter form, the
// leaf value type every other package in this module passes around.
package message

// Message is a Gaussian belief expressed in natural parameters: Pi is the
// precision (1/sigma^2), Tau is the precision-weighted mean (mu/sigma^2).
// Representing beliefs this way makes combining independent Gaussian
// observations a componentwise add instead of the usual product-of-Gaussians
// algebra, which is what makes every factor in the TrueSkill graph a
// one-liner. Zero value is not a valid message; always construct via
// FromMuSigma2.
type Message struct {
	Pi  float64 `json:"pi"`
	Tau float64 `json:"tau"`
}

// FromMuSigma2 builds a Message from the regular Gaussian parameters.
func FromMuSigma2(mu, sigma2 float64) Message {
	return Message{
		Pi:  1.0 / sigma2,
		Tau: mu / sigma2,
	}
}

// ToMuSigma2 recovers the regular Gaussian parameters. Requires m.Pi != 0.
func (m Message) ToMuSigma2() (mu, sigma2 float64) {
	sigma2 = 1.0 / m.Pi
	mu = m.Tau * sigma2
	return mu, sigma2
}

// Include combines the belief of rhs into m (Gaussian product).
func (m Message) Include(rhs Message) Message {
	return Message{
		Pi:  m.Pi + rhs.Pi,
		Tau: m.Tau + rhs.Tau,
	}
}

// Exclude removes the belief of rhs from m (Gaussian division).
func (m Message) Exclude(rhs Message) Message {
	return Message{
		Pi:  m.Pi - rhs.Pi,
		Tau: m.Tau - rhs.Tau,
	}
}
