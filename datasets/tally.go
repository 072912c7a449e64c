package datasets

import "sync"

// Tally is used to count votes on dataset features and return the majority votes
type Tally struct {
	// this is for multiway classification layers
	// each input has a map of possible outputs with number of votes
	// the highest vote in the inner map wins
	mapping map[uint16]map[uint64]uint64

	// votes cast when the feature caused a correct overall result
	// true value is added as +1, false value is voted as -1
	correct map[uint32]int64

	// votes cast when the feature caused a better result
	improve map[uint32]int64

	mut sync.Mutex

	// improvementPossible reports whether an improvement is possible
	improvementPossible bool
}

// Init initializes the tally dataset structure
func (t *Tally) Init() {
	t.mapping = make(map[uint16]map[uint64]uint64)
	t.correct = make(map[uint32]int64)
	t.improve = make(map[uint32]int64)
	t.improvementPossible = false
}

// Free frees the memory occupied by tally dataset structure
func (t *Tally) Free() {
	t.mut.Lock()
	t.mapping = nil
	t.correct = nil
	t.improve = nil
	t.mut.Unlock()
}

// GetImprovementPossible reads improvementPossible
func (t *Tally) GetImprovementPossible() bool {
	t.mut.Lock()
	defer t.mut.Unlock()
	return t.improvementPossible
}

// Len estimates the size of tally
func (t *Tally) Len() (o int) {
	t.mut.Lock()
	if len(t.mapping) != 0 {
		o = len(t.mapping)
	} else {
		o = len(t.correct) + len(t.improve)
	}
	t.mut.Unlock()
	return
}

// AddToImprove votes for feature which improved the overall result
func (t *Tally) AddToImprove(feature uint32, vote int8) {
	if vote == 0 {
		return
	}
	t.mut.Lock()
	t.improve[feature] += int64(vote)
	if t.improve[feature] == 0 {
		delete(t.improve, feature)
	}
	t.mut.Unlock()
}

// AddToCorrect votes for feature which caused the overall result to be correct
func (t *Tally) AddToCorrect(feature uint32, vote int8, improvement bool) {
	if vote == 0 {
		return
	}
	t.mut.Lock()
	t.correct[feature] += int64(vote)
	if t.correct[feature] == 0 {
		delete(t.correct, feature)
	}
	if improvement {
		t.improvementPossible = true
	}
	t.mut.Unlock()
}

// AddToMapping adds a vote that feature maps to output
func (t *Tally) AddToMapping(feature uint16, output uint64) {
	t.mut.Lock()
	if t.mapping[feature] == nil {
		t.mapping[feature] = make(map[uint64]uint64)
	}
	t.mapping[feature][output]++
	t.improvementPossible = true
	t.mut.Unlock()
}

// Datamap resolves the mapping votes, the most voted output wins, ties go to the lower output.
func (t *Tally) Datamap() (mapp Datamap) {
	t.mut.Lock()
	defer t.mut.Unlock()
	mapp.Init()
	for k, freq := range t.mapping {
		var best uint64
		var bestVotes uint64
		for out, votes := range freq {
			if votes > bestVotes || (votes == bestVotes && out < best) {
				best, bestVotes = out, votes
			}
		}
		mapp[k] = best
	}
	return
}

// Dataset resolves the tally into a dataset for a hashtron with bits output bits
func (t *Tally) Dataset(bits byte) Dataset {
	t.mut.Lock()
	if len(t.mapping) > 0 {
		t.mut.Unlock()
		return t.Datamap().Dataset(bits)
	}
	defer t.mut.Unlock()
	var sett Dataset
	sett.Init()
	// we initialize the set with pairs which improve first
	for value, rating := range t.improve {
		sett[value] = rating > 0
	}
	// finally we overwrite the set with pairs which make it correct
	for value, rating := range t.correct {
		sett[value] = rating > 0
	}
	return sett
}
