package lanmac

// analytic.go holds closed-form references for the simulated throughputs,
// and the summary statistics used to fold replications together

import (
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"math"
)

// AlohaThroughput is the expected fraction of attempts that succeed in the
// ALOHA slot model: with X ~ Binomial(devices, pr) attempts per slot,
// P(X=1)/E[X], which reduces to (1-pr)^(devices-1).
// pr is not clamped, so pr >= 1 means every device attempts every slot
func AlohaThroughput(devices int, pr float64) float64 {
	if devices <= 0 || pr <= 0.0 {
		return 0.0
	}
	if pr >= 1.0 {
		if devices == 1 {
			return 1.0
		}
		return 0.0
	}
	attempts := distuv.Binomial{N: float64(devices), P: pr}
	return attempts.Prob(1.0) / attempts.Mean()
}

// AnalyticThroughput returns the closed-form throughput of a protocol, and
// whether one exists.  Only the memoryless ALOHA model has one
func AnalyticThroughput(proto Protocol, devices int, load float64) (float64, bool) {
	switch proto {
	case PureAloha, SlottedAloha:
		if devices <= 0 {
			return 0.0, false
		}
		pr := slotModels[proto].pScale * load / float64(devices)
		return AlohaThroughput(devices, pr), true
	}
	return 0.0, false
}

// summarize returns the mean and standard deviation of the replications
// of one grid point.  A single replication has deviation 0
func summarize(samples []float64) (float64, float64) {
	switch len(samples) {
	case 0:
		return 0.0, 0.0
	case 1:
		return samples[0], 0.0
	}
	mean, std := stat.MeanStdDev(samples, nil)
	if math.IsNaN(std) {
		std = 0.0
	}
	return mean, std
}
