package bot

import (
	"math/rand"

	"github.com/okihara/plo-game-sub002/internal/engine"
)

// TAGBot plays a tight-aggressive style: raises preflop with a premium
// four-card hand, otherwise checks when free and rarely calls cold.
type TAGBot struct {
	rng *rand.Rand
}

func NewTAGBot(rng *rand.Rand) *TAGBot { return &TAGBot{rng: rng} }

func (t *TAGBot) Decide(obs Observation) Decision {
	if obs.Street == engine.Preflop && preflopScore(obs.Hole) >= 0.6 {
		if v, ok := obs.hasAction(engine.Raise); ok {
			amount := v.MinAmount + (v.MaxAmount-v.MinAmount)/4
			return Decision{Action: engine.Raise, Amount: amount, Reasoning: "TAG raising a premium hand"}
		}
	}

	if _, ok := obs.hasAction(engine.Check); ok {
		return Decision{Action: engine.Check, Reasoning: "TAG checking"}
	}
	if t.rng.Float64() < 0.3 {
		if v, ok := obs.hasAction(engine.Call); ok {
			return Decision{Action: engine.Call, Amount: v.MinAmount, Reasoning: "TAG calling"}
		}
	}
	return Decision{Action: engine.Fold, Reasoning: "TAG folding"}
}
