package bluffing

import (
	"gonum.org/v1/gonum/floats"
)

// Actions whose average probability is below this threshold are
// dropped from the average strategy.
const purificationThreshold = 0.001

// InformationSet accumulates regrets and strategies for one canonical
// key, i.e. one decision point of the acting player.
type InformationSet struct {
	key          string
	regretSum    []float64
	strategySum  []float64
	strategy     []float64
	reachProb    float64
	reachProbSum float64
}

func NewInformationSet(key string, nActions int) *InformationSet {
	return &InformationSet{
		key:         key,
		regretSum:   make([]float64, nActions),
		strategySum: make([]float64, nActions),
		strategy:    uniformDistribution(nActions),
	}
}

func (is *InformationSet) Key() string {
	return is.key
}

func (is *InformationSet) NumActions() int {
	return len(is.strategy)
}

// Strategy returns the current mixed strategy.
func (is *InformationSet) Strategy() []float64 {
	return append([]float64(nil), is.strategy...)
}

func (is *InformationSet) ReachProbability() float64 {
	return is.reachProbSum
}

// AverageStrategy returns the time-averaged strategy, purified of
// actions that are almost never played.
func (is *InformationSet) AverageStrategy() []float64 {
	result := make([]float64, len(is.strategySum))
	total := floats.Sum(is.strategySum)
	if total <= 0 {
		return uniformDistribution(len(result))
	}

	for i, s := range is.strategySum {
		if p := s / total; p >= purificationThreshold {
			result[i] = p
		}
	}

	floats.Scale(1/floats.Sum(result), result)
	return result
}

// AverageRegret returns the cumulative regret of each action,
// normalized by the cumulative reach probability.
func (is *InformationSet) AverageRegret() []float64 {
	result := append([]float64(nil), is.regretSum...)
	if is.reachProbSum > 0 {
		floats.Scale(1/is.reachProbSum, result)
	}

	return result
}

// BestActions returns the indices of every action with maximal
// probability in the current strategy.
func (is *InformationSet) BestActions() []int {
	best := floats.Max(is.strategy)
	var result []int
	for i, p := range is.strategy {
		if p == best {
			result = append(result, i)
		}
	}

	return result
}

func (is *InformationSet) addReach(p float64) {
	is.reachProb += p
}

func (is *InformationSet) addRegret(action int, r float64) {
	is.regretSum[action] += r
}

// nextStrategy folds the reach-weighted current strategy into the
// strategy sum and updates the current strategy by regret matching.
func (is *InformationSet) nextStrategy() {
	floats.AddScaled(is.strategySum, is.reachProb, is.strategy)
	is.strategy = regretMatching(is.regretSum)
	is.reachProbSum += is.reachProb
	is.reachProb = 0
}

// regretMatching returns the distribution proportional to the positive
// part of regrets, or the uniform distribution if no regret is positive.
func regretMatching(regrets []float64) []float64 {
	result := make([]float64, len(regrets))
	for i, r := range regrets {
		if r > 0 {
			result[i] = r
		}
	}

	total := floats.Sum(result)
	if total <= 0 {
		return uniformDistribution(len(result))
	}

	floats.Scale(1/total, result)
	return result
}

func uniformDistribution(n int) []float64 {
	result := make([]float64, n)
	for i := range result {
		result[i] = 1.0 / float64(n)
	}

	return result
}
