package bot

import (
	"math/rand"

	"github.com/okihara/plo-game-sub002/internal/engine"
)

// RandBot picks uniformly among whatever actions GetValidActions offers,
// sizing raises and bets uniformly within their legal range. Useful as a
// baseline opponent for exploitability testing.
type RandBot struct {
	rng *rand.Rand
}

func NewRandBot(rng *rand.Rand) *RandBot { return &RandBot{rng: rng} }

func (r *RandBot) Decide(obs Observation) Decision {
	if len(obs.ValidActions) == 0 {
		return Decision{Action: engine.Fold, Reasoning: "rand-bot no valid actions"}
	}

	v := obs.ValidActions[r.rng.Intn(len(obs.ValidActions))]
	amount := v.MinAmount
	if (v.Action == engine.Raise || v.Action == engine.Bet) && v.MaxAmount > v.MinAmount {
		amount = v.MinAmount + r.rng.Intn(v.MaxAmount-v.MinAmount+1)
	}
	return Decision{Action: v.Action, Amount: amount, Reasoning: "rand-bot random action"}
}
