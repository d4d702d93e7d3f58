// Package similarity scores how much text two documents share using
// Ratcliff/Obershelp block alignment.
//
// The ratio is 2*M/T where T is the combined length of both inputs and M is
// the total length of the matching blocks found by repeatedly taking the
// longest common contiguous block and recursing on the unmatched text to
// its left and right.
//
// Cost: finding one block is O(n*m) in the worst case, and a scan compares
// every unordered pair of F documents, so a full scan is O(F^2 * L^2) for
// documents of length L. Options.MaxTextChars and Options.MinSimilarity
// bound that work for large corpora.
package similarity

import "slices"

// block is a common run: a[A:A+Size] == b[B:B+Size]
type block struct {
	A    int
	B    int
	Size int
}

// Ratio returns the similarity of a and b in [0,1]. Two empty strings are
// identical and score 1.0.
func Ratio(a, b string) float64 {
	return RatioRunes([]rune(a), []rune(b))
}

// RatioRunes is Ratio over decoded code points.
func RatioRunes(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1.0
	}
	a, b = canonicalOrder(a, b)
	return 2 * float64(newMatcher(a, b).matchedLength()) / float64(total)
}

// canonicalOrder puts the shorter sequence first, breaking length ties
// lexically. Block alignment can pick different blocks when the inputs are
// swapped, so fixing the order is what makes the ratio exactly symmetric.
func canonicalOrder(a, b []rune) ([]rune, []rune) {
	if len(a) > len(b) {
		return b, a
	}
	if len(a) == len(b) && slices.Compare(a, b) > 0 {
		return b, a
	}
	return a, b
}

type matcher struct {
	a, b []rune
	b2j  map[rune][]int

	// rows of the longest-suffix table, indexed by j+1 and kept zeroed
	// between calls
	prev, cur []int
}

func newMatcher(a, b []rune) *matcher {
	b2j := make(map[rune][]int)
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}
	return &matcher{
		a:    a,
		b:    b,
		b2j:  b2j,
		prev: make([]int, len(b)+1),
		cur:  make([]int, len(b)+1),
	}
}

// longest finds the longest block in a[alo:ahi] and b[blo:bhi]. Among equal
// sizes it returns the block starting earliest in a, then earliest in b.
func (m *matcher) longest(alo, ahi, blo, bhi int) block {
	best := block{A: alo, B: blo}
	prev, cur := m.prev, m.cur
	var prevTouched, curTouched []int

	for i := alo; i < ahi; i++ {
		curTouched = curTouched[:0]
		for _, j := range m.b2j[m.a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := prev[j] + 1
			cur[j+1] = k
			curTouched = append(curTouched, j+1)
			if k > best.Size {
				best = block{A: i - k + 1, B: j - k + 1, Size: k}
			}
		}
		for _, idx := range prevTouched {
			prev[idx] = 0
		}
		prev, cur = cur, prev
		prevTouched, curTouched = curTouched, prevTouched
	}
	for _, idx := range prevTouched {
		prev[idx] = 0
	}

	return best
}

// blocks walks the recursion with an explicit stack so deep inputs cannot
// exhaust the goroutine stack.
func (m *matcher) blocks() []block {
	var out []block
	stack := [][4]int{{0, len(m.a), 0, len(m.b)}}

	for len(stack) > 0 {
		q := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		alo, ahi, blo, bhi := q[0], q[1], q[2], q[3]

		match := m.longest(alo, ahi, blo, bhi)
		if match.Size == 0 {
			continue
		}
		out = append(out, match)

		i, j, k := match.A, match.B, match.Size
		if alo < i && blo < j {
			stack = append(stack, [4]int{alo, i, blo, j})
		}
		if i+k < ahi && j+k < bhi {
			stack = append(stack, [4]int{i + k, ahi, j + k, bhi})
		}
	}

	return out
}

func (m *matcher) matchedLength() int {
	total := 0
	for _, b := range m.blocks() {
		total += b.Size
	}
	return total
}
