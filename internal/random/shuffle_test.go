package random

import (
	"testing"
)

func TestShuffleIsPermutation(t *testing.T) {
	in := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	out := Shuffle(in)
	if len(out) != len(in) {
		t.Fatalf("length = %d, want %d", len(out), len(in))
	}
	seen := make(map[string]int)
	for _, v := range out {
		seen[v]++
	}
	for _, v := range in {
		if seen[v] != 1 {
			t.Fatalf("%v is not a permutation of %v", out, in)
		}
	}
}

func TestShuffleDoesNotMutateInput(t *testing.T) {
	in := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	want := make([]string, len(in))
	copy(want, in)

	// Shuffle repeatedly; the input must stay untouched every time.
	for i := 0; i < 50; i++ {
		Shuffle(in)
	}
	for i := range want {
		if in[i] != want[i] {
			t.Fatalf("input mutated at %d: %v", i, in)
		}
	}
}

func TestShuffleSmallInputs(t *testing.T) {
	if out := Shuffle([]int(nil)); len(out) != 0 {
		t.Errorf("Shuffle(nil) = %v, want empty", out)
	}
	if out := Shuffle([]int{}); len(out) != 0 {
		t.Errorf("Shuffle(empty) = %v, want empty", out)
	}
	if out := Shuffle([]int{42}); len(out) != 1 || out[0] != 42 {
		t.Errorf("Shuffle(single) = %v, want [42]", out)
	}
}

func TestShuffleProducesDifferentOrders(t *testing.T) {
	in := make([]int, 20)
	for i := range in {
		in[i] = i
	}

	// With 20 elements the odds of 100 identical shuffles are nil.
	varied := false
	for i := 0; i < 100 && !varied; i++ {
		out := Shuffle(in)
		for j := range out {
			if out[j] != in[j] {
				varied = true
				break
			}
		}
	}
	if !varied {
		t.Error("shuffle never changed the order")
	}
}
