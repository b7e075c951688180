// Package analyzer provides bilingual (Arabic + Latin) text analysis for
// story content: word, sentence and paragraph counts, complexity scoring,
// reading-level classification and reading-time estimation.
package analyzer

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"regexp"
	"strings"
	"unicode"

	"hekaya/internal/models"
)

// Reading speed presets in words per minute
const (
	SpeedSlow    = 200
	SpeedAverage = 250
	SpeedFast    = 300
)

// Word-count thresholds for the first classification stage
const (
	beginnerMaxWords     = 500
	intermediateMaxWords = 1500
)

// Complexity cutoffs for the second classification stage
const (
	complexityPromote = 0.7
	complexityDemote  = 0.3
)

// Result holds every metric computed for a piece of content
type Result struct {
	WordCount          int                 `json:"word_count"`
	CharacterCount     int                 `json:"character_count"`
	ParagraphCount     int                 `json:"paragraph_count"`
	SentenceCount      int                 `json:"sentence_count"`
	ReadingLevel       models.ReadingLevel `json:"reading_level"`
	ReadingTimeMinutes int                 `json:"estimated_reading_time_minutes"`
	ComplexityScore    float64             `json:"complexity_score"`
	ReadabilityScore   float64             `json:"readability_score"`
}

// Analyzer computes content metrics. It is stateless and safe for
// concurrent use.
type Analyzer struct {
	wordsPerMinute int
}

// New creates an analyzer with the average reading speed.
func New() *Analyzer {
	return &Analyzer{wordsPerMinute: SpeedAverage}
}

// NewWithSpeed creates an analyzer for a named speed preset
// ("slow", "average" or "fast"); unknown names fall back to average.
func NewWithSpeed(preset string) *Analyzer {
	switch strings.ToLower(preset) {
	case "slow":
		return &Analyzer{wordsPerMinute: SpeedSlow}
	case "fast":
		return &Analyzer{wordsPerMinute: SpeedFast}
	default:
		return &Analyzer{wordsPerMinute: SpeedAverage}
	}
}

var (
	markupRegexp     = regexp.MustCompile(`<[^>]*>`)
	paragraphSplit   = regexp.MustCompile(`\n\s*\n`)
	sentenceEnders   = regexp.MustCompile(`[.!?؟۔…]+`)
	whitespaceRunsRe = regexp.MustCompile(`\s+`)
)

// Analyze computes all metrics for the given text. Pure function of its
// input: identical text always yields an identical result.
func (a *Analyzer) Analyze(text string) Result {
	stripped := markupRegexp.ReplaceAllString(text, " ")

	if strings.TrimSpace(stripped) == "" {
		// Empty content defaults to intermediate with a one-minute floor
		return Result{
			ReadingLevel:       models.LevelIntermediate,
			ReadingTimeMinutes: 1,
		}
	}

	// Paragraphs are counted before whitespace collapsing destroys the
	// blank-line boundaries
	paragraphs := countParagraphs(stripped)

	cleaned := strings.TrimSpace(whitespaceRunsRe.ReplaceAllString(stripped, " "))

	words := splitWords(cleaned)
	wordCount := len(words)
	if wordCount == 0 {
		// Non-empty cleaned text never reports zero words
		wordCount = 1
	}

	sentences := countSentences(cleaned)
	complexity := complexityScore(words, sentences, paragraphs)

	return Result{
		WordCount:          wordCount,
		CharacterCount:     len([]rune(cleaned)),
		ParagraphCount:     paragraphs,
		SentenceCount:      sentences,
		ReadingLevel:       classify(wordCount, complexity),
		ReadingTimeMinutes: a.readingTime(wordCount),
		ComplexityScore:    complexity,
		ReadabilityScore:   readability(wordCount, sentences, complexity),
	}
}

// ContentHash returns the hex SHA-256 of the raw content, used to memoize
// analysis results and detect content changes on story updates.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// splitWords tokenizes bilingual text. Latin-script words are maximal runs
// of letters and digits; each maximal run of Arabic-script characters counts
// as one word regardless of internal structure.
func splitWords(text string) []string {
	var words []string
	var current []rune
	currentArabic := false

	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	for _, r := range text {
		switch {
		case unicode.Is(unicode.Arabic, r):
			if !currentArabic {
				flush()
				currentArabic = true
			}
			current = append(current, r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if currentArabic {
				flush()
				currentArabic = false
			}
			current = append(current, r)
		default:
			flush()
			currentArabic = false
		}
	}
	flush()

	return words
}

// countSentences counts sentence-ending punctuation runs, including the
// Arabic question mark and full stop. Non-empty text has at least one.
func countSentences(text string) int {
	parts := sentenceEnders.Split(text, -1)
	count := 0
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			count++
		}
	}
	if count == 0 && strings.TrimSpace(text) != "" {
		count = 1
	}
	return count
}

func countParagraphs(text string) int {
	parts := paragraphSplit.Split(text, -1)
	count := 0
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			count++
		}
	}
	if count == 0 {
		count = 1
	}
	return count
}

// complexityScore blends average sentence length, average word length,
// paragraph density and unique-word ratio into a 0.0-1.0 score.
func complexityScore(words []string, sentences, paragraphs int) float64 {
	if len(words) == 0 {
		return 0
	}

	wordCount := float64(len(words))

	totalRunes := 0
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		totalRunes += len([]rune(w))
		unique[strings.ToLower(w)] = struct{}{}
	}

	avgSentenceLen := wordCount / float64(sentences)
	avgWordLen := float64(totalRunes) / wordCount
	wordsPerParagraph := wordCount / float64(paragraphs)
	uniqueRatio := float64(len(unique)) / wordCount

	score := 0.35*math.Min(avgSentenceLen/25, 1) +
		0.25*math.Min(avgWordLen/8, 1) +
		0.15*math.Min(wordsPerParagraph/150, 1) +
		0.25*uniqueRatio

	return math.Min(1, math.Max(0, score))
}

// classify applies the two-stage reading-level rules: bucket by raw word
// count, then promote or demote one level on extreme complexity.
func classify(wordCount int, complexity float64) models.ReadingLevel {
	var level models.ReadingLevel
	switch {
	case wordCount <= beginnerMaxWords:
		level = models.LevelBeginner
	case wordCount <= intermediateMaxWords:
		level = models.LevelIntermediate
	default:
		level = models.LevelAdvanced
	}

	switch {
	case complexity > complexityPromote:
		if level == models.LevelBeginner {
			level = models.LevelIntermediate
		} else if level == models.LevelIntermediate {
			level = models.LevelAdvanced
		}
	case complexity < complexityDemote:
		if level == models.LevelAdvanced {
			level = models.LevelIntermediate
		} else if level == models.LevelIntermediate {
			level = models.LevelBeginner
		}
	}

	return level
}

// readingTime estimates minutes to read, with a one-minute floor.
func (a *Analyzer) readingTime(wordCount int) int {
	minutes := int(math.Ceil(float64(wordCount) / float64(a.wordsPerMinute)))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// readability is a Flesch-style ease score clamped to [0, 100]
func readability(wordCount, sentences int, complexity float64) float64 {
	score := 100 - 1.015*(float64(wordCount)/float64(sentences)) - 84.6*complexity
	return math.Min(100, math.Max(0, score))
}
