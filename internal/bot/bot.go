package bot

import (
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/okihara/plo-game-sub002/internal/engine"
)

// Config tunes a Bot's personality, generalizing the teacher's
// aggression/tightness knobs to Pot-Limit Omaha.
type Config struct {
	Name             string
	AggressionFactor float64 // 0.5-2.0, raise-probability multiplier
	TightnessFactor  float64 // 0.5-2.0, fold-probability multiplier
	CBetFrequency    float64 // 0.0-1.0
	EquityThreshold  float64 // minimum equity edge over pot odds to continue
	Opponents        int     // opponents to sample when estimating equity
}

// DefaultConfig returns a balanced, moderately aggressive personality.
func DefaultConfig() Config {
	return Config{
		Name:             "default",
		AggressionFactor: 1.1,
		TightnessFactor:  0.95,
		CBetFrequency:    0.6,
		EquityThreshold:  0.04,
		Opponents:        2,
	}
}

// Bot is the reference PLO opponent: nuts-aware, blocker-aware, pot-odds
// driven decision logic. Grounded on the teacher's heuristic engine
// (probability-mixing over fold/call/raise, weighted by hand strength,
// position, and pot odds) generalized from two-card Hold'em evaluation to
// four-card PLO evaluation plus nut-distance and blocker awareness, neither
// of which the teacher's Hold'em bot needed.
type Bot struct {
	rng    *rand.Rand
	logger zerolog.Logger
	config Config
}

// New returns a Bot seeded with rng and logging under logger.
func New(rng *rand.Rand, logger zerolog.Logger, config Config) *Bot {
	return &Bot{rng: rng, logger: logger.With().Str("bot", config.Name).Logger(), config: config}
}

// Decide observes the hand through obs and returns one legal action. It
// never returns an action outside obs.ValidActions.
func (b *Bot) Decide(obs Observation) Decision {
	if len(obs.ValidActions) == 0 {
		return Decision{Action: engine.Fold, Reasoning: "no legal actions observed"}
	}

	var eq float64
	var gap float64
	if obs.Street == engine.Preflop {
		eq = preflopScore(obs.Hole)
	} else if len(obs.Board) == 5 {
		eq = estimateEquity(obs.Hole, obs.Board, obs.Dead, b.config.Opponents, b.rng)
		gap = nutGap(obs.Hole, obs.Board, b.rng)
	} else {
		eq = estimateEquity(obs.Hole, obs.Board, obs.Dead, b.config.Opponents, b.rng)
	}

	strength := equityToStrength(eq)
	ctx := buildSituationContext(obs, strength, eq)
	ctx.nutGap = gap
	adjust, rules := evaluateSituation(ctx)

	foldP, callP, raiseP := baseProbabilities(strength)
	foldP *= adjust.Fold
	callP *= adjust.Call
	raiseP *= adjust.Raise

	if b.config.AggressionFactor != 1.0 {
		boost := (b.config.AggressionFactor - 1.0) * 0.15
		raiseP += boost
		callP -= boost * 0.6
		foldP -= boost * 0.4
	}
	if b.config.TightnessFactor != 1.0 {
		boost := (b.config.TightnessFactor - 1.0) * 0.15
		foldP += boost
		callP -= boost * 0.7
		raiseP -= boost * 0.3
	}

	if obs.ToCall > 0 {
		requiredEquity := float64(obs.ToCall) / float64(obs.Pot+obs.ToCall)
		if eq-requiredEquity > b.config.EquityThreshold {
			callP += 0.15
			foldP -= 0.1
		} else if eq-requiredEquity < -0.1 {
			foldP += 0.2
			callP -= 0.15
		}
	}

	if _, canCBet := obs.hasAction(engine.Bet); canCBet && obs.ToCall == 0 && obs.Street != engine.Preflop {
		cbet := b.config.CBetFrequency * 0.4
		raiseP += cbet
		callP -= cbet * 0.5
		foldP -= cbet * 0.5
	}

	foldP, callP, raiseP = normalize(foldP, callP, raiseP)

	decision := b.pick(obs, strength, foldP, callP, raiseP, rules)
	return validateDecision(decision, obs.ValidActions)
}

func baseProbabilities(strength HandStrength) (fold, call, raise float64) {
	switch strength {
	case VeryWeak:
		return 0.80, 0.18, 0.02
	case Weak:
		return 0.55, 0.38, 0.07
	case Medium:
		return 0.15, 0.65, 0.20
	case Strong:
		return 0.05, 0.35, 0.60
	case VeryStrong:
		return 0.0, 0.15, 0.85
	default:
		return 0.5, 0.4, 0.1
	}
}

func normalize(fold, call, raise float64) (float64, float64, float64) {
	if fold < 0 {
		fold = 0
	}
	if call < 0 {
		call = 0
	}
	if raise < 0 {
		raise = 0
	}
	total := fold + call + raise
	if total == 0 {
		return 1, 0, 0
	}
	return fold / total, call / total, raise / total
}

func (b *Bot) pick(obs Observation, strength HandStrength, foldP, callP, raiseP float64, rules []string) Decision {
	reasoning := "situation rules: "
	if len(rules) == 0 {
		reasoning += "none"
	} else {
		for i, r := range rules {
			if i > 0 {
				reasoning += "; "
			}
			reasoning += r
		}
	}

	if obs.ToCall == 0 {
		if _, canRaise := obs.hasAction(engine.Bet); canRaise && raiseP > callP && raiseP > foldP {
			return Decision{Action: engine.Bet, Amount: b.sizeBet(obs, strength), Reasoning: reasoning}
		}
		return Decision{Action: engine.Check, Reasoning: reasoning}
	}

	if obs.ToCall >= obs.Chips {
		if strength >= Strong && b.rng.Float64() < 0.4 {
			return Decision{Action: engine.AllIn, Reasoning: reasoning + "; committing with a strong hand"}
		}
		if v, ok := obs.hasAction(engine.Call); ok {
			return Decision{Action: engine.Call, Amount: v.MinAmount, Reasoning: reasoning}
		}
		return Decision{Action: engine.Fold, Reasoning: reasoning}
	}

	r := b.rng.Float64()
	switch {
	case r < foldP:
		return Decision{Action: engine.Fold, Reasoning: reasoning}
	case r < foldP+callP:
		if v, ok := obs.hasAction(engine.Call); ok {
			return Decision{Action: engine.Call, Amount: v.MinAmount, Reasoning: reasoning}
		}
		return Decision{Action: engine.Check, Reasoning: reasoning}
	default:
		if _, ok := obs.hasAction(engine.Raise); ok {
			return Decision{Action: engine.Raise, Amount: b.sizeBet(obs, strength), Reasoning: reasoning}
		}
		if v, ok := obs.hasAction(engine.Call); ok {
			return Decision{Action: engine.Call, Amount: v.MinAmount, Reasoning: reasoning}
		}
		return Decision{Action: engine.Fold, Reasoning: reasoning}
	}
}

// sizeBet proposes a pot-limit-capped raise, linearly interpolating between
// the minimum and maximum legal total bet by hand strength, reusing the
// teacher's "proportion of the raise range" idiom from GetRaiseAmount.
func (b *Bot) sizeBet(obs Observation, strength HandStrength) int {
	v, ok := obs.hasAction(engine.Raise)
	if !ok {
		v, ok = obs.hasAction(engine.Bet)
	}
	if !ok {
		return 0
	}
	if v.MaxAmount <= v.MinAmount {
		return v.MinAmount
	}

	var fraction float64
	switch strength {
	case VeryStrong:
		fraction = 0.75 + b.rng.Float64()*0.25
	case Strong:
		fraction = 0.5 + b.rng.Float64()*0.3
	case Medium:
		fraction = 0.25 + b.rng.Float64()*0.25
	default:
		fraction = b.rng.Float64() * 0.2
	}

	span := v.MaxAmount - v.MinAmount
	amount := v.MinAmount + int(float64(span)*fraction)
	if amount > v.MaxAmount {
		amount = v.MaxAmount
	}
	if amount < v.MinAmount {
		amount = v.MinAmount
	}
	return amount
}

// validateDecision guards against a logic bug proposing an action or
// amount GetValidActions never offered, falling back in Call > Check > Fold
// priority order so the bot can never desync the table.
func validateDecision(d Decision, valid []engine.ValidAction) Decision {
	for _, v := range valid {
		if v.Action != d.Action {
			continue
		}
		if d.Action == engine.Raise || d.Action == engine.Bet {
			if d.Amount < v.MinAmount {
				d.Amount = v.MinAmount
			} else if d.Amount > v.MaxAmount {
				d.Amount = v.MaxAmount
			}
		}
		return d
	}

	for _, v := range valid {
		if v.Action == engine.Call {
			return Decision{Action: engine.Call, Amount: v.MinAmount, Reasoning: "fallback: call"}
		}
	}
	for _, v := range valid {
		if v.Action == engine.Check {
			return Decision{Action: engine.Check, Reasoning: "fallback: check"}
		}
	}
	return Decision{Action: engine.Fold, Reasoning: "fallback: fold"}
}
