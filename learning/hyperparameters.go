package learning

import "github.com/klauspost/cpuid/v2"
import "go.uber.org/zap"

// HyperParameters tune the salt search of a single hashtron.
type HyperParameters struct {
	Threads int // number of threads for learning

	Seed int64 // seed of the salt search, zero seeds using true rng

	DeadlineMs    int // deadline in milliseconds to give up searching at one modulo
	DeadlineRetry int // number of deadlines at one modulo before it is doubled

	InitialModulo uint32 // smallest modulo tried
	MaxModulo     uint32 // largest modulo, reaching it accepts the least conflicting salt

	Logger *zap.Logger
}

// Defaults returns hyper parameters using every logical core.
func Defaults() *HyperParameters {
	threads := cpuid.CPU.LogicalCores
	if threads <= 0 {
		threads = 1
	}
	return &HyperParameters{
		Threads:       threads,
		DeadlineMs:    50,
		DeadlineRetry: 1,
		InitialModulo: 64,
		MaxModulo:     1 << 22,
	}
}

func (h *HyperParameters) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}
