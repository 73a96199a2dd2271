package phrase

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Defaults applied when an option is zero or negative.
const (
	DefaultMaxPhrases       = 80
	DefaultMaxContentLength = 8000
	DefaultMinLength        = 5
	DefaultThreshold        = 0.85
)

// Candidate is a deduplicated sentence with its effective frequency.
type Candidate struct {
	Text  string `json:"text"`
	Count int    `json:"occurrence_count"`
}

// Result is the outcome of an extraction. An empty result is a valid
// outcome, not an error.
type Result struct {
	// Block is the numbered list handed to the classifier.
	Block string `json:"formatted_block"`
	// Candidates are the ranked phrases, including any that did not fit in Block.
	Candidates []Candidate `json:"candidates"`
	// Rendered is the number of candidates that fit in Block.
	Rendered int `json:"rendered"`
}

// IsEmpty reports whether nothing was extracted.
func (r Result) IsEmpty() bool {
	return len(r.Candidates) == 0
}

// Options tunes the pipeline.
type Options struct {
	MaxPhrases       int
	MaxContentLength int
	MinLength        int
	Threshold        float64
}

func (o Options) withDefaults() Options {
	if o.MaxPhrases <= 0 {
		o.MaxPhrases = DefaultMaxPhrases
	}
	if o.MaxContentLength <= 0 {
		o.MaxContentLength = DefaultMaxContentLength
	}
	if o.MinLength <= 0 {
		o.MinLength = DefaultMinLength
	}
	if o.Threshold <= 0 || o.Threshold >= 1 {
		o.Threshold = DefaultThreshold
	}
	return o
}

// Pipeline reduces a corpus of clinical notes to frequency-ranked, near-duplicate
// free phrases. A Pipeline holds no per-call state and is safe for concurrent use.
type Pipeline struct {
	opts    Options
	matcher *matcher
}

// NewPipeline creates a pipeline; zero options take the package defaults.
func NewPipeline(opts Options) *Pipeline {
	return &Pipeline{opts: opts.withDefaults(), matcher: newMatcher()}
}

// Options returns the effective options.
func (p *Pipeline) Options() Options {
	return p.opts
}

// Extract runs the pipeline with the package defaults for everything but the
// two caps.
func Extract(corpus string, maxPhrases, maxContentLength int) Result {
	return NewPipeline(Options{MaxPhrases: maxPhrases, MaxContentLength: maxContentLength}).Extract(corpus)
}

// Extract segments, filters, collapses near-duplicates, ranks and formats.
func (p *Pipeline) Extract(corpus string) Result {
	filtered := Filter(Segment(corpus), p.opts.MinLength)
	if len(filtered) == 0 {
		return Result{Candidates: []Candidate{}}
	}

	reps := p.collapse(filtered)
	ranked := p.score(reps, filtered)
	ranked = Rank(ranked, p.opts.MaxPhrases)
	block, rendered := Format(ranked, p.opts.MaxContentLength)

	return Result{Block: block, Candidates: ranked, Rendered: rendered}
}

// collapse keeps the first sentence of every near-duplicate group, in
// first-seen order. A sentence folds into the earliest representative it
// exceeds the threshold against.
func (p *Pipeline) collapse(sentences []string) []*entry {
	ix := newIndex(p.opts.Threshold, p.opts.MinLength)
	decided := make(map[string]struct{}, len(sentences))

	for _, s := range sentences {
		if _, ok := decided[s]; ok {
			continue
		}
		decided[s] = struct{}{}

		e := newEntry(s)
		folded := false
		for _, pos := range ix.candidates(e) {
			if p.matcher.similar(ix.entries[pos], e, p.opts.Threshold) {
				folded = true
				break
			}
		}
		if !folded {
			ix.add(e)
		}
	}
	return ix.entries
}

// score counts, for each representative, the filtered sentences that exceed
// the threshold against it. Identical sentences are compared once and
// weighted by multiplicity.
func (p *Pipeline) score(reps []*entry, sentences []string) []Candidate {
	multiplicity := make(map[string]int, len(sentences))
	ix := newIndex(p.opts.Threshold, p.opts.MinLength)
	for _, s := range sentences {
		if multiplicity[s] == 0 {
			ix.add(newEntry(s))
		}
		multiplicity[s]++
	}

	out := make([]Candidate, 0, len(reps))
	for _, rep := range reps {
		count := 0
		for _, pos := range ix.candidates(rep) {
			other := ix.entries[pos]
			if p.matcher.similar(rep, other, p.opts.Threshold) {
				count += multiplicity[other.text]
			}
		}
		out = append(out, Candidate{Text: rep.text, Count: count})
	}
	return out
}

// Rank sorts by count descending, keeping first-seen order among ties, and
// keeps at most maxPhrases.
func Rank(candidates []Candidate, maxPhrases int) []Candidate {
	ranked := append([]Candidate(nil), candidates...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if maxPhrases > 0 && len(ranked) > maxPhrases {
		ranked = ranked[:maxPhrases]
	}
	return ranked
}

// Format renders "{n}. {text}" lines joined by newlines, stopping before the
// first line that would push the rune count past maxContentLength. It returns
// the block and the number of lines rendered.
func Format(candidates []Candidate, maxContentLength int) (string, int) {
	var b strings.Builder
	length := 0
	for i, c := range candidates {
		line := fmt.Sprintf("%d. %s", i+1, c.Text)
		add := utf8.RuneCountInString(line)
		if i > 0 {
			add++
		}
		if length+add > maxContentLength {
			return b.String(), i
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		length += add
	}
	return b.String(), len(candidates)
}
