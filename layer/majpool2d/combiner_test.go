package majpool2d

import "testing"

func TestBlockMajority(t *testing.T) {
	a := MustNew(2, 2, 3, 3, 1)
	var combiner = a.Lay()

	// block (1, 0) occupies columns 3..5 of rows 0..2 in a 6 wide plane
	for _, pos := range []int{3, 4, 10, 16, 17} {
		combiner.Put(pos, true)
	}
	if out := combiner.Feature(0); out != 2 {
		t.Errorf("Feature(0) = %b, expected 10", out)
	}
}

func TestDisregard(t *testing.T) {
	a := MustNew(1, 1, 3, 1, 1)
	var combiner = a.Lay()

	combiner.Put(0, true)
	if combiner.Disregard(2) {
		t.Errorf("position 2 decides a 1:1 block")
	}
	combiner.Put(1, true)
	if !combiner.Disregard(2) {
		t.Errorf("position 2 can not change a 2:0 block")
	}
	if combiner.Disregard(0) {
		t.Errorf("position 0 decides a block where the others are 1:1")
	}
}

func TestRepeat(t *testing.T) {
	a := MustNew(1, 1, 1, 1, 2)
	var combiner = a.Lay()
	combiner.Put(1, true)
	if combiner.Feature(0) != 0 || combiner.Feature(1) != 1 || combiner.Feature(3) != 1 {
		t.Errorf("repeat planes mixed up")
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(8, 5, 1, 1, 1); err == nil {
		t.Errorf("40 majorities accepted")
	}
	if _, err := New(0, 1, 1, 1, 1); err == nil {
		t.Errorf("empty size accepted")
	}
}
