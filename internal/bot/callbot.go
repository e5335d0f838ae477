package bot

import "github.com/okihara/plo-game-sub002/internal/engine"

// CallBot checks or calls through most streets, folding only to heavy
// aggression: multiple raises on the current street, or a river bet sized
// large relative to the pot.
type CallBot struct{}

func (CallBot) Decide(obs Observation) Decision {
	raisesThisStreet := obs.RaisesThisStreet

	if obs.Street == engine.River {
		if raisesThisStreet >= 2 {
			return findOrFold(obs, engine.Fold, "folding river to aggressive betting")
		}
		if obs.Pot > 0 && float64(obs.ToCall)/float64(obs.Pot) > 0.8 {
			return findOrFold(obs, engine.Fold, "folding river to a large bet")
		}
	}

	if obs.Street == engine.Preflop && seatsFromButton3(obs) <= 1 && raisesThisStreet >= 2 {
		return findOrFold(obs, engine.Fold, "folding a 3-bet from early position")
	}

	if obs.BigBlind > 0 && float64(obs.Chips)/float64(obs.BigBlind) < 10 {
		if _, ok := obs.hasAction(engine.AllIn); ok && raisesThisStreet == 0 {
			return findOrFold(obs, engine.AllIn, "shoving with a short stack")
		}
	}

	if v, ok := obs.hasAction(engine.Check); ok {
		return Decision{Action: v.Action, Reasoning: "call-bot checking"}
	}
	if v, ok := obs.hasAction(engine.Call); ok {
		return Decision{Action: v.Action, Amount: v.MinAmount, Reasoning: "call-bot calling"}
	}
	return findOrFold(obs, engine.Fold, "call-bot forced fold")
}

func findOrFold(obs Observation, preferred engine.ActionType, reasoning string) Decision {
	if v, ok := obs.hasAction(preferred); ok {
		return Decision{Action: v.Action, Amount: v.MinAmount, Reasoning: reasoning}
	}
	if len(obs.ValidActions) > 0 {
		v := obs.ValidActions[0]
		return Decision{Action: v.Action, Amount: v.MinAmount, Reasoning: "fallback: " + reasoning}
	}
	return Decision{Action: engine.Fold, Reasoning: "emergency fold"}
}
