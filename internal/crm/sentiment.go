package crm

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sentiment labels produced by AnalyzeSentiment.
const (
	SentimentPositive  = "Positive"
	SentimentConcerned = "Concerned"
	SentimentNeutral   = "Neutral"
)

// Lexicon holds the keyword sets for rule-based sentiment classification.
type Lexicon struct {
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
}

// DefaultLexicon returns the built-in keyword sets.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Positive: []string{"interested", "happy", "great", "good"},
		Negative: []string{"concern", "issue", "bad", "unhappy"},
	}
}

// LoadLexicon reads keyword overrides from a YAML file. Missing sets fall
// back to the defaults so a partial file stays usable.
func LoadLexicon(path string) (Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, fmt.Errorf("read lexicon: %w", err)
	}
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return Lexicon{}, fmt.Errorf("parse lexicon: %w", err)
	}
	def := DefaultLexicon()
	if len(lex.Positive) == 0 {
		lex.Positive = def.Positive
	}
	if len(lex.Negative) == 0 {
		lex.Negative = def.Negative
	}
	return lex, nil
}

// AnalyzeSentiment classifies free text into Positive, Concerned or Neutral.
// Positive keywords are checked before negative ones; the first match wins.
func (d *Desk) AnalyzeSentiment(text string) string {
	t := strings.ToLower(text)
	for _, word := range d.lex.Positive {
		if strings.Contains(t, word) {
			return SentimentPositive
		}
	}
	for _, word := range d.lex.Negative {
		if strings.Contains(t, word) {
			return SentimentConcerned
		}
	}
	return SentimentNeutral
}
