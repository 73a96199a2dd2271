package phrase

import (
	"slices"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Ratio returns the sequence-matching similarity of a and b:
// 2 × matched runes / (len(a) + len(b)), where matched runes are the
// equalities of an optimal diff. Two empty strings are identical.
func Ratio(a, b string) float64 {
	return newMatcher().ratio([]rune(a), []rune(b))
}

type matcher struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

func newMatcher() *matcher {
	dmp := diffmatchpatch.New()
	// No deadline: the diff must be optimal for the ratio to be exact.
	dmp.DiffTimeout = 0
	return &matcher{dmp: dmp}
}

func (m *matcher) ratio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1.0
	}
	matches := 0
	for _, d := range m.dmp.DiffMainRunes(a, b, false) {
		if d.Type == diffmatchpatch.DiffEqual {
			matches += utf8.RuneCountInString(d.Text)
		}
	}
	return 2 * float64(matches) / float64(total)
}

// entry is a sentence prepared for repeated comparison.
type entry struct {
	text    string
	runes   []rune
	hist    map[rune]int
	bigrams []string
}

func newEntry(s string) *entry {
	runes := []rune(s)
	hist := make(map[rune]int, len(runes))
	for _, r := range runes {
		hist[r]++
	}
	return &entry{text: s, runes: runes, hist: hist, bigrams: bigramsOf(runes)}
}

func bigramsOf(runes []rune) []string {
	if len(runes) < 2 {
		return nil
	}
	seen := make(map[string]struct{}, len(runes))
	out := make([]string, 0, len(runes)-1)
	for i := 0; i+1 < len(runes); i++ {
		g := string(runes[i : i+2])
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}

// similar reports whether a and b exceed threshold. Two upper bounds on the
// ratio are checked first: the length bound and the shared-rune bound. Both
// are exact, so a rejected pair could never have passed the full diff.
func (m *matcher) similar(a, b *entry, threshold float64) bool {
	la, lb := len(a.runes), len(b.runes)
	total := float64(la + lb)
	if total == 0 {
		return 1.0 > threshold
	}
	if 2*float64(min(la, lb))/total <= threshold {
		return false
	}
	if 2*float64(sharedRunes(a.hist, b.hist))/total <= threshold {
		return false
	}
	return m.ratio(a.runes, b.runes) > threshold
}

func sharedRunes(a, b map[rune]int) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 0
	for r, ca := range a {
		if cb, ok := b[r]; ok {
			n += min(ca, cb)
		}
	}
	return n
}

// index maps bigrams to the positions of the entries containing them.
//
// Any two sentences of at least minIndexedLength runes whose ratio exceeds
// minIndexedThreshold share a bigram, so probing the index finds every
// possible match. Below that threshold the index is bypassed and every entry
// is a candidate.
type index struct {
	entries  []*entry
	postings map[string][]int
	exact    bool
}

const (
	minIndexedThreshold = 0.75
	minIndexedLength    = 5
)

func newIndex(threshold float64, minLength int) *index {
	return &index{
		postings: make(map[string][]int),
		exact:    threshold < minIndexedThreshold || minLength < minIndexedLength,
	}
}

func (ix *index) add(e *entry) {
	pos := len(ix.entries)
	ix.entries = append(ix.entries, e)
	for _, g := range e.bigrams {
		ix.postings[g] = append(ix.postings[g], pos)
	}
}

// candidates returns, in ascending position order, the entries that may be
// similar to e.
func (ix *index) candidates(e *entry) []int {
	if ix.exact {
		all := make([]int, len(ix.entries))
		for i := range all {
			all[i] = i
		}
		return all
	}
	seen := make(map[int]struct{})
	var out []int
	for _, g := range e.bigrams {
		for _, pos := range ix.postings[g] {
			if _, ok := seen[pos]; ok {
				continue
			}
			seen[pos] = struct{}{}
			out = append(out, pos)
		}
	}
	slices.Sort(out)
	return out
}
