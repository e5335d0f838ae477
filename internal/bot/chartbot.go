package bot

import "github.com/okihara/plo-game-sub002/internal/engine"

// ChartBot plays a push-fold preflop chart when short-stacked and
// check/calls every street otherwise, standing in for the low-variance
// "nit" style in exploitability testing.
type ChartBot struct{}

func (ChartBot) Decide(obs Observation) Decision {
	if obs.Street == engine.Preflop && obs.BigBlind > 0 && obs.Chips <= 20*obs.BigBlind && preflopScore(obs.Hole) >= 0.6 {
		if v, ok := obs.hasAction(engine.AllIn); ok {
			return Decision{Action: v.Action, Amount: v.MaxAmount, Reasoning: "chart-bot push"}
		}
		if v, ok := obs.hasAction(engine.Raise); ok {
			return Decision{Action: v.Action, Amount: v.MaxAmount, Reasoning: "chart-bot push"}
		}
	}

	if v, ok := obs.hasAction(engine.Check); ok {
		return Decision{Action: v.Action, Reasoning: "chart-bot checking"}
	}
	if v, ok := obs.hasAction(engine.Call); ok {
		return Decision{Action: v.Action, Amount: v.MinAmount, Reasoning: "chart-bot calling"}
	}
	return Decision{Action: engine.Fold, Reasoning: "chart-bot folding"}
}
