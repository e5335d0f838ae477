package bot

import "github.com/okihara/plo-game-sub002/internal/engine"

// situationContext captures the decision-relevant facts of one spot, reused
// across every rule below so each rule only has to state its condition.
type situationContext struct {
	obs          Observation
	strength     HandStrength
	equity       float64
	texture      BoardTexture
	inPosition   bool
	multiway     bool
	nutGap       float64
	blockerCount int
}

// actionAdjustment scales the base fold/call/raise probabilities; multiple
// rules compound by multiplying their adjustments together.
type actionAdjustment struct {
	Fold, Call, Raise float64
}

type situationRule struct {
	name      string
	condition func(situationContext) bool
	adjust    actionAdjustment
	reasoning string
}

// evaluateSituation applies every rule whose condition holds and returns the
// compounded adjustment plus a trace of which rules fired.
func evaluateSituation(ctx situationContext) (actionAdjustment, []string) {
	total := actionAdjustment{Fold: 1, Call: 1, Raise: 1}
	var fired []string
	for _, rule := range fundamentalRules() {
		if rule.condition(ctx) {
			total.Fold *= rule.adjust.Fold
			total.Call *= rule.adjust.Call
			total.Raise *= rule.adjust.Raise
			fired = append(fired, rule.name)
		}
	}
	return total, fired
}

func fundamentalRules() []situationRule {
	return []situationRule{
		{
			name: "weak hand facing a raise out of position",
			condition: func(ctx situationContext) bool {
				return !ctx.inPosition && ctx.obs.ToCall > 0 && ctx.strength <= Medium
			},
			adjust:    actionAdjustment{Fold: 1.3, Call: 0.9, Raise: 0.3},
			reasoning: "out of position without a strong hand, avoid building the pot",
		},
		{
			name: "drawing hand out of position facing aggression",
			condition: func(ctx situationContext) bool {
				return ctx.obs.Street != engine.Preflop && !ctx.inPosition && ctx.strength <= Medium && ctx.obs.ToCall > 0
			},
			adjust:    actionAdjustment{Fold: 1.2, Call: 1.0, Raise: 0.4},
			reasoning: "drawing out of position, play passively rather than jam",
		},
		{
			name: "second-best on a wet board",
			condition: func(ctx situationContext) bool {
				return (ctx.texture == WetBoard || ctx.texture == VeryWetBoard) && ctx.nutGap > 0.25 && ctx.strength <= Strong
			},
			adjust:    actionAdjustment{Fold: 1.25, Call: 0.9, Raise: 0.6},
			reasoning: "coordinated board and we're well behind the nuts, play cautiously",
		},
		{
			name: "weak hand multiway",
			condition: func(ctx situationContext) bool {
				return ctx.multiway && ctx.strength <= Medium && ctx.obs.ToCall == 0
			},
			adjust:    actionAdjustment{Fold: 1.0, Call: 1.0, Raise: 0.4},
			reasoning: "too many live hands behind to bet without real strength",
		},
		{
			name: "strong hand in position",
			condition: func(ctx situationContext) bool {
				return ctx.inPosition && ctx.strength >= Strong && ctx.obs.Street != engine.Preflop
			},
			adjust:    actionAdjustment{Fold: 0.5, Call: 0.8, Raise: 1.5},
			reasoning: "strong hand with position, build the pot",
		},
		{
			name: "holding blockers to the nuts",
			condition: func(ctx situationContext) bool {
				return ctx.blockerCount > 0 && ctx.strength >= Medium
			},
			adjust:    actionAdjustment{Fold: 0.85, Call: 1.0, Raise: 1.15},
			reasoning: "blocking the nut combination makes the bluff/value mix more profitable",
		},
	}
}

func buildSituationContext(obs Observation, strength HandStrength, eq float64) situationContext {
	return situationContext{
		obs:          obs,
		strength:     strength,
		equity:       eq,
		texture:      analyzeBoardTexture(obs.Board),
		inPosition:   seatsFromButton3(obs) <= 1,
		multiway:     obs.NumActive > 2,
		nutGap:       0, // filled in by callers that already paid for a full-board nutGap computation
		blockerCount: blockerCount(obs.Hole, obs.Board),
	}
}

// seatsFromButton3 approximates position-in-hand purely from the
// observation, since a bot only knows the dealer position and its own seat.
func seatsFromButton3(obs Observation) int {
	return (obs.Seat - obs.DealerPosition + 6) % 6
}
