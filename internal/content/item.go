package content

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/abhisek/palabra/internal/cefr"
)

// Kind identifies the card format a content item is rendered as.
type Kind string

const (
	KindVideo   Kind = "video"
	KindArticle Kind = "article"
	KindMusic   Kind = "music"
)

// WordFreq is one vocabulary entry of a content item.
type WordFreq struct {
	Word      string `json:"word"`
	Frequency int    `json:"frequency"`
}

// Item is a candidate feed entry. Items are immutable once published.
type Item struct {
	ID            string     `json:"id"`
	Kind          Kind       `json:"kind"`
	Title         string     `json:"title"`
	Language      string     `json:"language"`
	Level         string     `json:"cefr_level"`
	Topic         string     `json:"topic"`
	Words         []WordFreq `json:"words"`
	DopamineScore float64    `json:"dopamine_score"`
	PublishedAt   time.Time  `json:"published_at"`
}

// Validate checks the fields the ranker and catalog rely on.
func (it Item) Validate() error {
	if it.ID == "" {
		return fmt.Errorf("content item: id is required")
	}
	if it.Language == "" {
		return fmt.Errorf("content item %s: language is required", it.ID)
	}
	if _, ok := cefr.Parse(it.Level); !ok {
		return fmt.Errorf("content item %s: unknown CEFR level %q", it.ID, it.Level)
	}
	if it.DopamineScore < 0 || it.DopamineScore > 1 {
		return fmt.Errorf("content item %s: dopamine score %v outside [0,1]", it.ID, it.DopamineScore)
	}
	return nil
}

// Normalize returns the lookup form of a word: trimmed and lower-cased.
// Accents are kept since they are meaningful in Spanish ("si" vs "sí").
func Normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// ExtractWords tokenizes text into normalized words with occurrence counts,
// ordered by first appearance.
func ExtractWords(text string) []WordFreq {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})

	index := make(map[string]int)
	var out []WordFreq
	for _, tok := range tokens {
		w := Normalize(strings.Trim(tok, "'"))
		if w == "" {
			continue
		}
		if i, ok := index[w]; ok {
			out[i].Frequency++
			continue
		}
		index[w] = len(out)
		out = append(out, WordFreq{Word: w, Frequency: 1})
	}
	return out
}

// TopWords returns up to n words ordered by descending frequency.
// Ties keep their original order.
func TopWords(words []WordFreq, n int) []WordFreq {
	sorted := make([]WordFreq, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Frequency > sorted[j].Frequency
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
