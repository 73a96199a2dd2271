package phrase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{"identical", "继续康复训练", "继续康复训练", 1.0},
		{"both empty", "", "", 1.0},
		{"one empty", "abc", "", 0.0},
		{"disjoint", "abc", "xyz", 0.0},
		{"one substitution in ten", "abcdefghij", "abcdefghiX", 0.9},
		{"one insertion", "abcd", "abcXd", 2.0 * 4 / 9},
		{"cjk runes count once each", "患者神志清楚", "患者神志不清", 2.0 * 5 / 12},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tc.expected, Ratio(tc.a, tc.b), 1e-9)
			assert.InDelta(t, tc.expected, Ratio(tc.b, tc.a), 1e-9, "ratio is symmetric")
		})
	}
}

func TestMatcher_SimilarAgreesWithRatio(t *testing.T) {
	t.Parallel()

	m := newMatcher()
	pairs := [][2]string{
		{"患者神志清，精神可，纳眠可", "患者神志清，精神可，纳眠差"},
		{"继续目前针刺治疗方案", "继续目前康复训练方案"},
		{"嘱患者家属注意防跌倒", "嘱患者家属注意防跌倒坠床"},
		{"abcdefghij", "jihgfedcba"},
		{"心肺听诊未见明显异常", "心肺听诊未见明显异常"},
	}

	for _, p := range pairs {
		want := Ratio(p[0], p[1]) > DefaultThreshold
		got := m.similar(newEntry(p[0]), newEntry(p[1]), DefaultThreshold)
		assert.Equal(t, want, got, "%q vs %q", p[0], p[1])
	}
}

func TestIndex_FindsEveryMatch(t *testing.T) {
	t.Parallel()

	sentences := []string{
		"患者神志清，精神可，纳眠可",
		"继续目前针刺治疗方案",
		"嘱患者家属注意防跌倒",
		"患者神志清，精神可，纳眠差",
		"继续目前针刺治疗方案。",
	}

	ix := newIndex(DefaultThreshold, DefaultMinLength)
	for _, s := range sentences {
		ix.add(newEntry(s))
	}

	m := newMatcher()
	for _, probe := range sentences {
		e := newEntry(probe)
		candidates := ix.candidates(e)
		for pos, other := range ix.entries {
			if m.similar(other, e, DefaultThreshold) {
				assert.Contains(t, candidates, pos)
			}
		}
	}
}
