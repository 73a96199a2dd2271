package knowledge

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChunker_Defaults(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Chunker{Size: 800, Overlap: 100}, NewChunker(0, -1))
	assert.Equal(t, Chunker{Size: 50, Overlap: 25}, NewChunker(50, 50))
	assert.Equal(t, Chunker{Size: 10, Overlap: 2}, NewChunker(10, 2))
}

func TestChunker_Split(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		c    Chunker
		text string
		want []string
	}{
		{
			name: "short text is one chunk",
			c:    Chunker{Size: 100, Overlap: 10},
			text: "  脑卒中康复训练。  ",
			want: []string{"脑卒中康复训练。"},
		},
		{
			name: "blank text",
			c:    Chunker{Size: 100, Overlap: 10},
			text: " \n ",
			want: nil,
		},
		{
			name: "cuts after full stop with overlap",
			c:    Chunker{Size: 8, Overlap: 2},
			text: "甲乙丙。丁戊己庚辛壬癸",
			want: []string{"甲乙丙。", "丙。丁戊己庚辛壬", "辛壬癸"},
		},
		{
			name: "full stop outranks later semicolon",
			c:    Chunker{Size: 8, Overlap: 0},
			text: "甲。乙丙；丁戊己庚",
			want: []string{"甲。", "乙丙；丁戊己庚"},
		},
		{
			name: "no separator cuts at size",
			c:    Chunker{Size: 4, Overlap: 1},
			text: "abcdefghij",
			want: []string{"abcd", "defg", "ghij"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.c.Split(tt.text))
		})
	}
}

func TestChunker_SplitBoundsAndCoverage(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("患者左侧肢体活动不利，予针刺及康复训练治疗。", 120)
	c := NewChunker(DefaultChunkSize, DefaultChunkOverlap)

	chunks := c.Split(text)
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), DefaultChunkSize)
		assert.True(t, strings.HasSuffix(chunk, "。"))
	}
	assert.True(t, strings.HasPrefix(text, chunks[0]))
	assert.True(t, strings.HasSuffix(text, chunks[len(chunks)-1]))
}

func TestChunker_EarlySeparatorStillProgresses(t *testing.T) {
	t.Parallel()

	c := Chunker{Size: 10, Overlap: 8}
	chunks := c.Split("甲。乙丙丁戊己庚辛壬癸子丑寅卯")
	require.Len(t, chunks, 4)
	assert.Equal(t, "甲。乙丙丁戊己庚辛壬", chunks[0])
}
