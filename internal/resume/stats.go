package resume

import (
	"math"
	"regexp"
	"strings"
)

// WordsPerMinute is the reading speed used for ReadingMinutes.
const WordsPerMinute = 200

// Keywords are the section words counted for keyword density.
var Keywords = []string{"experience", "skills", "project", "education", "work"}

var sentenceEnd = regexp.MustCompile(`[.!?]+`)

// Statistics are simple counts over the resume text.
type Statistics struct {
	Words          int     `json:"words"`
	Characters     int     `json:"characters"`
	Sentences      int     `json:"sentences"`
	ReadingMinutes int     `json:"readingMinutes"`
	KeywordCount   int     `json:"keywordCount"`
	KeywordDensity float64 `json:"keywordDensity"` // Percent of words, one decimal
}

// Stats computes Statistics for text.
func Stats(text string) Statistics {
	words := len(strings.Fields(text))
	st := Statistics{
		Words:      words,
		Characters: len([]rune(text)),
	}
	if n := len(sentenceEnd.Split(text, -1)) - 1; n > 0 {
		st.Sentences = n
	}
	st.ReadingMinutes = int(math.Ceil(float64(words) / WordsPerMinute))

	lower := strings.ToLower(text)
	for _, k := range Keywords {
		st.KeywordCount += strings.Count(lower, k)
	}
	if words > 0 {
		st.KeywordDensity = math.Round(float64(st.KeywordCount)/float64(words)*1000) / 10
	}
	return st
}
