package knowledge

import "strings"

// Default chunking parameters, in runes.
const (
	DefaultChunkSize    = 800
	DefaultChunkOverlap = 100
)

// chunkSeparators are tried in order when looking for a place to end a chunk.
var chunkSeparators = []string{"。", "！", "？", "\n\n", "；"}

// Chunker splits text into overlapping chunks of at most Size runes.
type Chunker struct {
	Size    int
	Overlap int
}

// NewChunker returns a Chunker, replacing invalid sizes with the defaults.
func NewChunker(size, overlap int) Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = min(DefaultChunkOverlap, size/2)
	}
	return Chunker{Size: size, Overlap: overlap}
}

// Split cuts text into chunks. A chunk that is not the last one ends just
// after the last occurrence of the first separator found within the window
// past the overlap region; the next chunk starts Overlap runes before that
// end. Blank chunks are dropped.
func (c Chunker) Split(text string) []string {
	runes := []rune(text)
	var chunks []string

	for start := 0; start < len(runes); {
		end := start + c.Size
		if end >= len(runes) {
			end = len(runes)
		} else if cut := lastSeparator(runes[start:end], c.Overlap); cut > 0 {
			end = start + cut
		}

		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}

		next := end - c.Overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// lastSeparator returns the rune offset just past the first rune of the last
// occurrence of the highest-priority separator that ends beyond floor runes,
// or 0 when there is none.
func lastSeparator(window []rune, floor int) int {
	s := string(window)
	for _, sep := range chunkSeparators {
		idx := strings.LastIndex(s, sep)
		if idx < 0 {
			continue
		}
		if cut := len([]rune(s[:idx])) + 1; cut > floor {
			return cut
		}
	}
	return 0
}
