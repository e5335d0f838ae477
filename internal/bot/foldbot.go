package bot

import "github.com/okihara/plo-game-sub002/internal/engine"

// FoldBot always folds, or checks when folding isn't necessary. Used as a
// calibration opponent: any strategy that can't show a profit against
// FoldBot has a sizing or timing bug, not a strength-reading one.
type FoldBot struct{}

func (FoldBot) Decide(obs Observation) Decision {
	if _, ok := obs.hasAction(engine.Check); ok {
		return Decision{Action: engine.Check, Reasoning: "fold-bot checking"}
	}
	return Decision{Action: engine.Fold, Reasoning: "fold-bot folding"}
}
