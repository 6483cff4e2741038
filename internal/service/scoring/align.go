package scoring

import (
	"fmt"
	"sort"
)

// Op identifies the edit operation of one alignment block.
type Op int

const (
	// OpEqual - tokens match on both sides.
	OpEqual Op = iota
	// OpReplace - reference tokens were spoken as different words.
	OpReplace
	// OpDelete - reference tokens were not spoken.
	OpDelete
	// OpInsert - spoken words have no counterpart in the reference.
	OpInsert
)

// String returns the string representation of the operation.
func (o Op) String() string {
	switch o {
	case OpEqual:
		return "equal"
	case OpReplace:
		return "replace"
	case OpDelete:
		return "delete"
	case OpInsert:
		return "insert"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(o))
	}
}

// Block relates a half-open range of reference tokens to a half-open range of
// hypothesis tokens under one edit operation.
type Block struct {
	Op       Op
	RefStart int
	RefEnd   int
	HypStart int
	HypEnd   int
}

// Align computes an edit script between the reference and hypothesis token
// sequences. The returned blocks cover both sequences fully, in order, with
// no gaps and no overlaps: concatenating the ref ranges reconstructs the
// reference and the hyp ranges reconstruct the hypothesis. Deterministic for
// a given input pair; ties between minimal edit scripts are broken by
// preferring the earliest, longest matching runs.
func Align(ref, hyp []string) []Block {
	matches := matchingRuns(ref, hyp)

	blocks := make([]Block, 0, 2*len(matches))
	refPos, hypPos := 0, 0
	for _, m := range matches {
		switch {
		case refPos < m.ref && hypPos < m.hyp:
			blocks = append(blocks, Block{OpReplace, refPos, m.ref, hypPos, m.hyp})
		case refPos < m.ref:
			blocks = append(blocks, Block{OpDelete, refPos, m.ref, hypPos, m.hyp})
		case hypPos < m.hyp:
			blocks = append(blocks, Block{OpInsert, refPos, m.ref, hypPos, m.hyp})
		}
		if m.size > 0 {
			blocks = append(blocks, Block{OpEqual, m.ref, m.ref + m.size, m.hyp, m.hyp + m.size})
		}
		refPos, hypPos = m.ref+m.size, m.hyp+m.size
	}
	return blocks
}

// run is a maximal matching run: ref[ref:ref+size] == hyp[hyp:hyp+size].
type run struct {
	ref  int
	hyp  int
	size int
}

// matchingRuns finds the maximal matching runs between the two sequences by
// repeatedly locating the longest match in each unmatched gap, then merging
// adjacent runs. A zero-length sentinel at the end of both sequences closes
// the list so Align emits any trailing non-match block.
func matchingRuns(ref, hyp []string) []run {
	hypIndex := make(map[string][]int, len(hyp))
	for j, tok := range hyp {
		hypIndex[tok] = append(hypIndex[tok], j)
	}

	type gap struct {
		refLo, refHi int
		hypLo, hypHi int
	}
	pending := []gap{{0, len(ref), 0, len(hyp)}}

	var runs []run
	for len(pending) > 0 {
		g := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		m := longestRun(ref, hypIndex, g.refLo, g.refHi, g.hypLo, g.hypHi)
		if m.size == 0 {
			continue
		}
		runs = append(runs, m)
		pending = append(pending,
			gap{g.refLo, m.ref, g.hypLo, m.hyp},
			gap{m.ref + m.size, g.refHi, m.hyp + m.size, g.hypHi},
		)
	}

	sort.Slice(runs, func(a, b int) bool {
		if runs[a].ref != runs[b].ref {
			return runs[a].ref < runs[b].ref
		}
		return runs[a].hyp < runs[b].hyp
	})

	merged := make([]run, 0, len(runs)+1)
	for _, m := range runs {
		if n := len(merged); n > 0 &&
			merged[n-1].ref+merged[n-1].size == m.ref &&
			merged[n-1].hyp+merged[n-1].size == m.hyp {
			merged[n-1].size += m.size
			continue
		}
		merged = append(merged, m)
	}
	return append(merged, run{len(ref), len(hyp), 0})
}

// longestRun finds the longest run of identical tokens within
// ref[refLo:refHi] and hyp[hypLo:hypHi]. On ties the run starting earliest in
// the reference (then earliest in the hypothesis) wins.
func longestRun(ref []string, hypIndex map[string][]int, refLo, refHi, hypLo, hypHi int) run {
	best := run{refLo, hypLo, 0}

	// runLengths[j] is the length of the matching run ending at ref[i-1],
	// hyp[j] from the previous row.
	runLengths := map[int]int{}
	for i := refLo; i < refHi; i++ {
		next := map[int]int{}
		for _, j := range hypIndex[ref[i]] {
			if j < hypLo {
				continue
			}
			if j >= hypHi {
				break
			}
			k := runLengths[j-1] + 1
			next[j] = k
			if k > best.size {
				best = run{i - k + 1, j - k + 1, k}
			}
		}
		runLengths = next
	}
	return best
}
