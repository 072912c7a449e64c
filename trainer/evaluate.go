package trainer

import "context"
import "math"
import "sync/atomic"

import "github.com/neurlang/speechcommands/parallel"

// sampleSize calculates the statistically sufficient sample size
// for a given dataset size N and significance level (0–100).
func sampleSize(N int, significance byte) int {
	if significance == 0 || significance >= 100 {
		return N
	}

	// Convert significance level to Z-score
	z := zScoreFromAlpha(100 - significance)

	// Assume worst-case proportion p = 0.5 for max variability
	p := 0.5
	e := float64(100-significance) * 0.01

	numerator := math.Pow(z, 2) * p * (1 - p)
	denominator := math.Pow(e, 2)

	// Initial sample size without population correction
	ss := numerator / denominator

	// Apply finite population correction
	correctedSS := ss * float64(N) / (float64(N) - 1 + ss)

	// round up, a fraction of a sample still has to be checked
	return min(int(math.Ceil(correctedSS)), N)
}

// zScoreFromAlpha returns the Z-score for a given alpha level
// Common: 90% => 1.645, 95% => 1.96, 99% => 2.576
func zScoreFromAlpha(alpha byte) float64 {
	switch {
	case alpha <= 1:
		return 2.576 // 99% confidence
	case alpha <= 5:
		return 1.96 // 95% confidence
	case alpha <= 10:
		return 1.645 // 90% confidence
	default:
		return 1.96 // default fallback
	}
}

// Evaluate returns the fraction of samples the network classifies correctly.
func (t *Trainer) Evaluate(samples []Sample) float64 {
	acc, _ := t.EvaluateContext(context.Background(), samples)
	return acc
}

// EvaluateContext is Evaluate which stops early when ctx is done.
func (t *Trainer) EvaluateContext(ctx context.Context, samples []Sample) (float64, error) {
	if len(samples) == 0 {
		return 0, nil
	}
	var correct atomic.Int64
	err := parallel.ForEachContext(ctx, len(samples), t.threads(), func(i int) error {
		if t.Net.Infer(samples[i]) == samples[i].Output() {
			correct.Add(1)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return float64(correct.Load()) / float64(len(samples)), nil
}
