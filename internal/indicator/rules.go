package indicator

import "github.com/rxtech-lab/argo-screener/internal/types"

// Rule is one guarded classification: when When holds, the cell is Emit.
type Rule[T any] struct {
	Name string
	When func(T) bool
	Emit types.Signal
}

// Rules is an ordered classification chain. Rules are tried in order and the
// first rule whose guard holds decides the cell; when none holds the cell is
// not computed. Overlaps between guards are therefore settled by position in
// the list, never by evaluation side effects.
type Rules[T any] []Rule[T]

// Classify returns the signal of the first matching rule.
func (r Rules[T]) Classify(in T) types.Signal {
	for _, rule := range r {
		if rule.When(in) {
			return rule.Emit
		}
	}

	return types.NotComputed()
}

func always[T any](T) bool { return true }

var (
	buy     = types.DirectionSignal(types.DirectionBuy)
	sell    = types.DirectionSignal(types.DirectionSell)
	neutral = types.DirectionSignal(types.DirectionNeutral)
)

// pair is the input of two-line comparisons: a fast line against a slow one,
// macd against its signal line, %K against %D.
type pair struct {
	line, reference float64
}

// crossoverRules has no neutral state: fast above slow is +1, anything else -1.
var crossoverRules = Rules[pair]{
	{Name: "fast above slow", When: func(p pair) bool { return p.line > p.reference }, Emit: buy},
	{Name: "fast not above slow", When: always[pair], Emit: sell},
}

// comparisonRules reserve 0 for exact equality.
var comparisonRules = Rules[pair]{
	{Name: "above", When: func(p pair) bool { return p.line > p.reference }, Emit: buy},
	{Name: "below", When: func(p pair) bool { return p.line < p.reference }, Emit: sell},
	{Name: "equal", When: always[pair], Emit: neutral},
}

// classifyPairs applies rules at every t where both series are defined.
func classifyPairs(rules Rules[pair], line, reference []float64) []types.Signal {
	out := make([]types.Signal, len(line))

	for t := range line {
		if !allDefined(line[t], reference[t]) {
			continue
		}

		out[t] = rules.Classify(pair{line: line[t], reference: reference[t]})
	}

	return out
}
