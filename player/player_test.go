package player

import (
	"math"
	"testing"
	"time"

	"crab.casa/fooskill/message"
)

func TestDefaultPlayerSkill(t *testing.T) {
	now := time.Now()
	p := Default(now)

	mu, sigma2 := p.Skill.ToMuSigma2()
	if math.Abs(mu-DefaultMean) > 1e-9 {
		t.Errorf("default mu = %v, want %v", mu, DefaultMean)
	}
	wantSigma2 := DefaultSigma() * DefaultSigma()
	if math.Abs(sigma2-wantSigma2) > 1e-9 {
		t.Errorf("default sigma2 = %v, want %v", sigma2, wantSigma2)
	}
}

func TestSkillAtBeforeStoredTimeFails(t *testing.T) {
	now := time.Now()
	p := Default(now)

	_, ok := p.SkillAt(now.Add(-time.Hour))
	if ok {
		t.Error("SkillAt before stored time should return ok=false")
	}
}

func TestSkillAtMonotonicity(t *testing.T) {
	now := time.Now()
	p := Default(now)
	p.SetSkill(message.FromMuSigma2(40, 10), now)

	t1 := now.Add(24 * time.Hour)
	t2 := now.Add(48 * time.Hour)

	m1, ok := p.SkillAt(t1)
	if !ok {
		t.Fatal("expected ok for t1")
	}
	m2, ok := p.SkillAt(t2)
	if !ok {
		t.Fatal("expected ok for t2")
	}

	mu1, sigma2T1 := m1.ToMuSigma2()
	mu2, sigma2T2 := m2.ToMuSigma2()

	if sigma2T2 < sigma2T1 {
		t.Errorf("sigma2 should grow toward prior over time: sigma2(t1)=%v sigma2(t2)=%v", sigma2T1, sigma2T2)
	}

	// mu started above the prior (40 > 25), so it should decrease monotonically
	// toward 25 as time passes.
	if mu2 >= mu1 {
		t.Errorf("mu should move monotonically toward the prior: mu(t1)=%v mu(t2)=%v", mu1, mu2)
	}
	if mu2 < DefaultMean {
		t.Errorf("mu should not overshoot the prior: mu(t2)=%v, prior=%v", mu2, DefaultMean)
	}
}

func TestSkillAtConvergesToPrior(t *testing.T) {
	now := time.Now()
	p := Default(now)
	p.SetSkill(message.FromMuSigma2(60, 1), now)

	// Two years is about eight 90-day length scales, so the gap to the prior
	// shrinks by a factor of roughly e^8.
	far := now.Add(2 * 365 * 24 * time.Hour)
	m, ok := p.SkillAt(far)
	if !ok {
		t.Fatal("expected ok")
	}
	mu, sigma2 := m.ToMuSigma2()

	if math.Abs(mu-DefaultMean) > 0.5 {
		t.Errorf("mu after two years should be close to the prior, got %v", mu)
	}
	wantSigma2 := DefaultSigma() * DefaultSigma()
	if math.Abs(sigma2-wantSigma2) > 0.5 {
		t.Errorf("sigma2 after two years should be close to the prior, got %v", sigma2)
	}
}

func TestSetSkillReplacesBoth(t *testing.T) {
	now := time.Now()
	p := Default(now)

	later := now.Add(time.Hour)
	newSkill := message.FromMuSigma2(30, 20)
	p.SetSkill(newSkill, later)

	if p.Skill != newSkill {
		t.Errorf("SetSkill did not replace Skill: got %+v, want %+v", p.Skill, newSkill)
	}
	if !p.Datetime.Equal(later) {
		t.Errorf("SetSkill did not replace Datetime: got %v, want %v", p.Datetime, later)
	}
}
