package scoring

import (
	"math/rand"
	"strings"
	"testing"
)

func TestAlign_Identical(t *testing.T) {
	ref := []string{"the", "quick", "brown", "fox"}
	blocks := Align(ref, ref)

	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d: %v", len(blocks), blocks)
	}
	b := blocks[0]
	if b.Op != OpEqual || b.RefStart != 0 || b.RefEnd != 4 || b.HypStart != 0 || b.HypEnd != 4 {
		t.Errorf("unexpected block: %+v", b)
	}
}

func TestAlign_MissingWord(t *testing.T) {
	ref := []string{"the", "quick", "brown", "fox"}
	hyp := []string{"the", "brown", "fox"}
	blocks := Align(ref, hyp)

	want := []Block{
		{OpEqual, 0, 1, 0, 1},
		{OpDelete, 1, 2, 1, 1},
		{OpEqual, 2, 4, 1, 3},
	}
	assertBlocks(t, blocks, want)
}

func TestAlign_ExtraWord(t *testing.T) {
	ref := []string{"the", "quick", "brown", "fox"}
	hyp := []string{"the", "quick", "very", "brown", "fox"}
	blocks := Align(ref, hyp)

	want := []Block{
		{OpEqual, 0, 2, 0, 2},
		{OpInsert, 2, 2, 2, 3},
		{OpEqual, 2, 4, 3, 5},
	}
	assertBlocks(t, blocks, want)
}

func TestAlign_Replacement(t *testing.T) {
	ref := []string{"the", "quick", "brown", "fox"}
	hyp := []string{"the", "slow", "brown", "fox"}
	blocks := Align(ref, hyp)

	want := []Block{
		{OpEqual, 0, 1, 0, 1},
		{OpReplace, 1, 2, 1, 2},
		{OpEqual, 2, 4, 2, 4},
	}
	assertBlocks(t, blocks, want)
}

func TestAlign_EmptySides(t *testing.T) {
	ref := []string{"a", "b"}

	blocks := Align(ref, nil)
	assertBlocks(t, blocks, []Block{{OpDelete, 0, 2, 0, 0}})

	blocks = Align(nil, ref)
	assertBlocks(t, blocks, []Block{{OpInsert, 0, 0, 0, 2}})

	blocks = Align(nil, nil)
	if len(blocks) != 0 {
		t.Errorf("expected no blocks for empty inputs, got %v", blocks)
	}
}

func TestAlign_TrailingOmission(t *testing.T) {
	ref := []string{"the", "quick", "brown", "fox"}
	hyp := []string{"the", "quick"}
	blocks := Align(ref, hyp)

	want := []Block{
		{OpEqual, 0, 2, 0, 2},
		{OpDelete, 2, 4, 2, 2},
	}
	assertBlocks(t, blocks, want)
}

// The aligner's blocks must partition both sequences fully, in order, with
// no gaps and no overlaps, for arbitrary inputs.
func TestAlign_PartitionProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	vocab := strings.Fields("a b c d e the quick brown fox jumps over lazy dog")

	randomTokens := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = vocab[rng.Intn(len(vocab))]
		}
		return out
	}

	for trial := 0; trial < 500; trial++ {
		ref := randomTokens(rng.Intn(12))
		hyp := randomTokens(rng.Intn(12))
		blocks := Align(ref, hyp)

		refPos, hypPos := 0, 0
		for i, b := range blocks {
			if b.RefStart != refPos || b.HypStart != hypPos {
				t.Fatalf("trial %d: block %d starts at (%d,%d), expected (%d,%d): %v",
					trial, i, b.RefStart, b.HypStart, refPos, hypPos, blocks)
			}
			if b.RefEnd < b.RefStart || b.HypEnd < b.HypStart {
				t.Fatalf("trial %d: block %d has inverted range: %+v", trial, i, b)
			}
			switch b.Op {
			case OpEqual:
				if b.RefEnd-b.RefStart != b.HypEnd-b.HypStart {
					t.Fatalf("trial %d: equal block with unequal lengths: %+v", trial, b)
				}
				for k := 0; k < b.RefEnd-b.RefStart; k++ {
					if ref[b.RefStart+k] != hyp[b.HypStart+k] {
						t.Fatalf("trial %d: equal block over unequal tokens: %+v", trial, b)
					}
				}
			case OpInsert:
				if b.RefStart != b.RefEnd || b.HypStart == b.HypEnd {
					t.Fatalf("trial %d: malformed insert block: %+v", trial, b)
				}
			case OpDelete:
				if b.HypStart != b.HypEnd || b.RefStart == b.RefEnd {
					t.Fatalf("trial %d: malformed delete block: %+v", trial, b)
				}
			case OpReplace:
				if b.RefStart == b.RefEnd || b.HypStart == b.HypEnd {
					t.Fatalf("trial %d: malformed replace block: %+v", trial, b)
				}
			}
			refPos, hypPos = b.RefEnd, b.HypEnd
		}
		if refPos != len(ref) || hypPos != len(hyp) {
			t.Fatalf("trial %d: blocks end at (%d,%d), expected (%d,%d)",
				trial, refPos, hypPos, len(ref), len(hyp))
		}
	}
}

func assertBlocks(t *testing.T, got, want []Block) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d blocks, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("block %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}
