package bot

import (
	"math/rand"

	"github.com/okihara/plo-game-sub002/internal/engine"
)

// ManiacBot shoves and raises far more than a sound strategy would,
// exercised to make sure the table/engine layer stays correct under
// extreme, frequent all-ins rather than as a realistic opponent.
type ManiacBot struct {
	rng *rand.Rand
}

func NewManiacBot(rng *rand.Rand) *ManiacBot { return &ManiacBot{rng: rng} }

func (m *ManiacBot) Decide(obs Observation) Decision {
	check, hasCheck := obs.hasAction(engine.Check)
	call, hasCall := obs.hasAction(engine.Call)
	raise, hasRaise := obs.hasAction(engine.Raise)
	if !hasRaise {
		raise, hasRaise = obs.hasAction(engine.Bet)
	}
	_, hasAllIn := obs.hasAction(engine.AllIn)

	if hasCheck {
		if m.rng.Float64() < 0.85 {
			if obs.Chips <= 20*obs.BigBlind || m.rng.Float64() < 0.3 {
				if hasAllIn {
					return Decision{Action: engine.AllIn, Reasoning: "maniac shove"}
				}
				if hasRaise {
					return Decision{Action: raise.Action, Amount: raise.MaxAmount, Reasoning: "maniac max raise"}
				}
			} else if hasRaise {
				amount := raise.MinAmount + (raise.MaxAmount-raise.MinAmount)*3/4
				return Decision{Action: raise.Action, Amount: amount, Reasoning: "maniac big raise"}
			}
		}
		return Decision{Action: check.Action, Reasoning: "maniac checking"}
	}

	r := m.rng.Float64()
	if r < 0.4 {
		if hasAllIn {
			return Decision{Action: engine.AllIn, Reasoning: "maniac shove over bet"}
		}
		if hasRaise {
			return Decision{Action: raise.Action, Amount: raise.MaxAmount, Reasoning: "maniac max raise over bet"}
		}
	}
	if r < 0.8 && hasCall {
		return Decision{Action: engine.Call, Amount: call.MinAmount, Reasoning: "maniac call"}
	}
	return Decision{Action: engine.Fold, Reasoning: "maniac fold"}
}
