package similarity

import (
	"math/rand"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Ratio Tests
// =============================================================================

func TestRatio(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{"both empty", "", "", 1.0},
		{"one empty", "abc", "", 0.0},
		{"identical", "hello world", "hello world", 1.0},
		{"disjoint", "abc", "xyz", 0.0},
		{"shifted", "abcd", "bcde", 0.75},
		{"reversed pair", "ab", "ba", 0.5},
		{"shared prefix", "the quick brown fox", "the quick brown dog", 34.0 / 38.0},
		{"unicode", "naïve café", "naïve cafe", 18.0 / 20.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ratio(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-12)
		})
	}
}

func TestRatioQuickBrownScenario(t *testing.T) {
	got := Ratio("the quick brown fox", "the quick brown dog")
	assert.Greater(t, got, 0.0)
	assert.Less(t, got, 1.0)
}

func TestRatioSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []rune("abcab ")

	randomText := func() string {
		n := rng.Intn(40)
		var sb strings.Builder
		for i := 0; i < n; i++ {
			sb.WriteRune(alphabet[rng.Intn(len(alphabet))])
		}
		return sb.String()
	}

	for i := 0; i < 500; i++ {
		a, b := randomText(), randomText()
		require.Equal(t, Ratio(a, b), Ratio(b, a), "a=%q b=%q", a, b)
	}
}

func TestRatioIdenticalNonEmpty(t *testing.T) {
	for _, s := range []string{"a", "aaaa", "lorem ipsum dolor", "😀x😀"} {
		assert.Equal(t, 1.0, Ratio(s, s), s)
	}
}

func TestRatioBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		a := randomString(rng, 30)
		b := randomString(rng, 30)
		r := Ratio(a, b)
		assert.GreaterOrEqual(t, r, 0.0)
		assert.LessOrEqual(t, r, 1.0)
	}
}

// =============================================================================
// Matching Block Tests
// =============================================================================

// sortedBlocks matches a against b as given, without canonical reordering,
// and orders the blocks by position in a.
func sortedBlocks(a, b string) []block {
	blocks := newMatcher([]rune(a), []rune(b)).blocks()
	slices.SortFunc(blocks, func(x, y block) int {
		if x.A != y.A {
			return x.A - y.A
		}
		return x.B - y.B
	})
	return blocks
}

func TestMatchingBlocksTieBreaking(t *testing.T) {
	// Both "ab" blocks have size 2; the one starting earliest in a wins,
	// and for that a position the earliest b position wins.
	blocks := sortedBlocks("abxab", "ab")
	require.Len(t, blocks, 1)
	assert.Equal(t, block{A: 0, B: 0, Size: 2}, blocks[0])

	blocks = sortedBlocks("ab", "xabab")
	require.Len(t, blocks, 1)
	assert.Equal(t, block{A: 0, B: 1, Size: 2}, blocks[0])
}

func TestMatchingBlocksRecursesBothSides(t *testing.T) {
	blocks := sortedBlocks("xaaaybbbz", "aaa-bbb")
	assert.Equal(t, []block{
		{A: 1, B: 0, Size: 3},
		{A: 5, B: 4, Size: 3},
	}, blocks)
}

func TestMatchingBlocksEmpty(t *testing.T) {
	assert.Empty(t, sortedBlocks("", "abc"))
	assert.Empty(t, sortedBlocks("abc", "xyz"))
}

// =============================================================================
// Upper Bound and Comparer Tests
// =============================================================================

func TestQuickRatiosAreUpperBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 300; i++ {
		a := []rune(randomString(rng, 25))
		b := []rune(randomString(rng, 25))
		exact := RatioRunes(a, b)
		quick := QuickRatio(a, b)
		realQuick := RealQuickRatio(a, b)
		assert.GreaterOrEqual(t, quick+1e-12, exact)
		assert.GreaterOrEqual(t, realQuick+1e-12, quick)
	}
}

func TestComparerDefaultsReportEveryPair(t *testing.T) {
	c := NewComparer(Options{})
	score, ok := c.Compare(c.Prepare("abc"), c.Prepare("xyz"))
	assert.True(t, ok)
	assert.Zero(t, score)
}

func TestComparerMinSimilarity(t *testing.T) {
	c := NewComparer(Options{MinSimilarity: 0.5})

	_, ok := c.Compare(c.Prepare("a"), c.Prepare("a much longer text"))
	assert.False(t, ok, "length bound should reject")

	_, ok = c.Compare(c.Prepare("abcdef"), c.Prepare("uvwxyz"))
	assert.False(t, ok, "multiset bound should reject")

	score, ok := c.Compare(c.Prepare("hello world"), c.Prepare("hello there"))
	assert.True(t, ok)
	assert.GreaterOrEqual(t, score, 0.5)
}

func TestComparerTruncates(t *testing.T) {
	c := NewComparer(Options{MaxTextChars: 5})
	assert.Equal(t, []rune("héllo"), c.Prepare("héllo world"))
	assert.Equal(t, []rune("hi"), c.Prepare("hi"))

	score, ok := c.Compare(c.Prepare("hello world"), c.Prepare("hello there"))
	assert.True(t, ok)
	assert.Equal(t, 1.0, score)
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkRatio(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	x := []rune(randomString(rng, 4000))
	y := []rune(randomString(rng, 4000))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		RatioRunes(x, y)
	}
}

func randomString(rng *rand.Rand, maxLen int) string {
	letters := []rune("abcdefg hij")
	n := rng.Intn(maxLen + 1)
	out := make([]rune, n)
	for i := range out {
		out[i] = letters[rng.Intn(len(letters))]
	}
	return string(out)
}
