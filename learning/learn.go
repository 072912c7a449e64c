// Package learning implements the learning stage of the hashtron classifier
package learning

import "encoding/binary"
import "context"
import "errors"
import "fmt"
import "math/rand"
import "sync"
import "sync/atomic"
import "time"
import crypto_rand "crypto/rand"

import "github.com/neurlang/quaternary"
import "go.uber.org/zap"

import "github.com/neurlang/speechcommands/datasets"
import "github.com/neurlang/speechcommands/hash"
import "github.com/neurlang/speechcommands/hashtron"
import "github.com/neurlang/speechcommands/parallel"

// ErrUnsolvable is returned when the hyper parameters leave no modulo to try.
var ErrUnsolvable = errors.New("learning: no modulo to try")

// solution is the best salt found at one modulo
type solution struct {
	salt      uint32
	conflicts int
	found     bool
}

// Training learns a hashtron with bits output bits answering the dataset d.
// The keys of d are expected to be expanded per output bit already (see Datamap.Dataset).
func (h *HyperParameters) Training(d datasets.Dataset, bits byte) (*hashtron.Hashtron, error) {
	var sd = datasets.SplitDataset(d)
	if len(sd[1]) == 0 {
		return hashtron.Constant(false, bits), nil
	}
	if len(sd[0]) == 0 {
		return hashtron.Constant(true, bits), nil
	}
	if h.MaxModulo == 0 || h.InitialModulo > h.MaxModulo {
		return nil, fmt.Errorf("%w: initial %d, max %d", ErrUnsolvable, h.InitialModulo, h.MaxModulo)
	}

	var alphabet = [2][]uint32{
		make([]uint32, 0, len(sd[0])),
		make([]uint32, 0, len(sd[1])),
	}
	for v := range sd[0] {
		alphabet[0] = append(alphabet[0], v)
	}
	for v := range sd[1] {
		alphabet[1] = append(alphabet[1], v)
	}

	var rng = rand.New(rand.NewSource(h.seed()))

	// with n0*n1 bits the chance of zero cross class collisions is about 1/e
	var modulo = h.InitialModulo
	if modulo == 0 {
		modulo = 1
	}
	var pairs = uint64(len(alphabet[0])) * uint64(len(alphabet[1]))
	for uint64(modulo) < pairs && modulo < h.MaxModulo {
		modulo *= 2
	}
	if modulo > h.MaxModulo {
		modulo = h.MaxModulo
	}

	var retry = h.DeadlineRetry
	if retry <= 0 {
		retry = 1
	}

	for {
		var sol solution
		for attempt := 0; attempt < retry; attempt++ {
			sol = h.search(modulo, rng.Uint32(), &alphabet)
			if sol.found && sol.conflicts == 0 {
				break
			}
		}
		if sol.found && (sol.conflicts == 0 || modulo >= h.MaxModulo) {
			tron, err := build(d, sol.salt, modulo, bits)
			if err != nil {
				return nil, err
			}
			h.logger().Debug("hashtron solved",
				zap.Int("size", len(d)),
				zap.Uint32("modulo", modulo),
				zap.Uint32("salt", sol.salt),
				zap.Int("conflicts", sol.conflicts))
			return tron, nil
		}
		h.logger().Debug("deadline", zap.Uint32("modulo", modulo), zap.Int("conflicts", sol.conflicts))
		if modulo >= h.MaxModulo/2 {
			modulo = h.MaxModulo
		} else {
			modulo *= 2
		}
	}
}

func (h *HyperParameters) seed() int64 {
	if h.Seed != 0 {
		return h.Seed
	}
	var b [8]byte
	if _, err := crypto_rand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

// scratch holds the per goroutine buffers of the salt search
type scratch struct {
	marks []uint64
	out   [2][]uint32
}

// search tries salts starting at base until a conflict free one is found or the deadline passes.
// The least conflicting salt seen is returned.
func (h *HyperParameters) search(modulo uint32, base uint32, alphabet *[2][]uint32) (best solution) {
	var mut sync.Mutex
	var bestConflicts atomic.Int64
	bestConflicts.Store(int64(len(alphabet[1])) + 1)

	var pool = sync.Pool{New: func() any {
		return &scratch{
			marks: make([]uint64, (modulo+63)/64),
			out:   [2][]uint32{make([]uint32, len(alphabet[0])), make([]uint32, len(alphabet[1]))},
		}
	}}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.DeadlineMs)*time.Millisecond)
	defer cancel()

	// every iteration tries a block of salts as wide as the vectorized hash prefers
	var width = uint32(hash.HashVectorizedParallelism())

	parallel.Loop(h.Threads).LoopUntilContext(ctx, func(i uint32, ender parallel.LoopStopper) bool {
		var s = pool.Get().(*scratch)
		defer pool.Put(s)

		for k := uint32(0); k < width; k++ {
			var salt = base + i*width + k
			var limit = bestConflicts.Load()
			var conflicts = s.conflicts(alphabet, salt, modulo, limit)
			if conflicts < limit {
				mut.Lock()
				if !best.found || int(conflicts) < best.conflicts {
					best = solution{salt: salt, conflicts: int(conflicts), found: true}
					bestConflicts.Store(conflicts)
				}
				mut.Unlock()
			}
			if conflicts == 0 {
				return true
			}
		}
		return false
	})
	return
}

// conflicts counts the true features hashed into a bucket of a false feature,
// stopping at limit
func (s *scratch) conflicts(alphabet *[2][]uint32, salt, modulo uint32, limit int64) (conflicts int64) {
	hash.HashVectorized(s.out[0], alphabet[0], salt, modulo)
	hash.HashVectorized(s.out[1], alphabet[1], salt, modulo)

	for _, idx := range s.out[0] {
		s.marks[idx>>6] |= 1 << (idx & 63)
	}
	for _, idx := range s.out[1] {
		if s.marks[idx>>6]&(1<<(idx&63)) != 0 {
			conflicts++
			if conflicts >= limit {
				break
			}
		}
	}
	for _, idx := range s.out[0] {
		s.marks[idx>>6] = 0
	}
	return conflicts
}

// build learns the bucket answers of the hashtron into a quaternary filter,
// features colliding in one bucket are resolved by majority
func build(d datasets.Dataset, salt, modulo uint32, bits byte) (*hashtron.Hashtron, error) {
	var votes = make(map[uint32]int32, len(d))
	for feature, value := range d {
		var idx = hash.Hash(feature, salt, modulo)
		if value {
			votes[idx]++
		} else {
			votes[idx]--
		}
	}
	var answers = make(map[uint32]bool, len(votes))
	for idx, vote := range votes {
		answers[idx] = vote > 0
	}
	return hashtron.New([][2]uint32{{salt, modulo}}, bits, quaternary.Make(answers))
}
