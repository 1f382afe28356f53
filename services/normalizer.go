package services

import (
	"encoding/json"
	"errors"
	"log"
	"regexp"
	"strings"

	"github.com/eduguide/eduguide-backend/models"
)

// The generation backend is not consistent about its response shape. The
// normalizer tries each known shape in priority order and converts the first
// structural match into canonical items.
//
// Shapes, in order:
//  1. {"questions": ["...", ...]}
//  2. {"questions": [{"question": "..."}, ...]}
//  3. {"answer": "1. ... 2. ..."}
//  4. ["...", ...]
//  5. {"points": ["...", ...]}

// ErrNoShapeMatched means the payload fit none of the known shapes. It is its
// own error variant, not a silent fallback.
var ErrNoShapeMatched = errors.New("response matched no known shape")

// ErrEmptyResponse means the backend answered but carried zero items.
var ErrEmptyResponse = errors.New("response contained no items")

// ErrAllFiltered means every item was instructional preamble. Distinct from
// ErrEmptyResponse so the two cases can be logged apart.
var ErrAllFiltered = errors.New("all items were filtered as preamble")

var numberedItem = regexp.MustCompile(`\d+\.\s+`)

// Hand-maintained list of phrasings the generative backend prepends to its
// real output. New phrasings slip through until someone adds them here.
var preamblePatterns = []string{
	"however, i can generate",
	"here are some questions",
	"here are the questions",
	"here are your questions",
	"sure, here are",
	"based on the given context",
	"i can help you with",
	"certainly! here",
}

// TypeCounts carries the requested per-type distribution. Zero values mean
// "no preference"; leftover items cycle conceptual/theoretical/scenario.
type TypeCounts struct {
	Conceptual  int
	Theoretical int
	Scenario    int
}

// Normalize converts a raw backend payload into canonical questions.
func Normalize(raw []byte, counts TypeCounts) ([]models.GeneratedQuestion, error) {
	texts, err := parseShapes(raw)
	if err != nil {
		return nil, err
	}
	if len(texts) == 0 {
		return nil, ErrEmptyResponse
	}

	kept := make([]string, 0, len(texts))
	for _, t := range texts {
		if IsPreamble(t) {
			log.Printf("normalizer: dropped preamble item: %.80q", t)
			continue
		}
		if strings.TrimSpace(t) == "" {
			continue
		}
		kept = append(kept, strings.TrimSpace(t))
	}
	if len(kept) == 0 {
		return nil, ErrAllFiltered
	}

	items := make([]models.GeneratedQuestion, len(kept))
	for i, q := range kept {
		items[i] = models.GeneratedQuestion{
			ID:           i + 1,
			Question:     q,
			QuestionType: typeForIndex(i, counts),
		}
	}
	return items, nil
}

// IsPreamble reports whether a line is conversational filler rather than
// question content.
func IsPreamble(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, p := range preamblePatterns {
		if strings.HasPrefix(lower, p) || strings.Contains(lower, p+" questions") {
			return true
		}
	}
	return false
}

// typeForIndex honors the requested counts first (conceptual block, then
// theoretical, then scenario) and round-robins by index after that.
func typeForIndex(i int, counts TypeCounts) models.QuestionType {
	switch {
	case i < counts.Conceptual:
		return models.TypeConceptual
	case i < counts.Conceptual+counts.Theoretical:
		return models.TypeTheoretical
	case i < counts.Conceptual+counts.Theoretical+counts.Scenario:
		return models.TypeScenario
	}
	switch i % 3 {
	case 0:
		return models.TypeConceptual
	case 1:
		return models.TypeTheoretical
	default:
		return models.TypeScenario
	}
}

func parseShapes(raw []byte) ([]string, error) {
	// shape 1 and 2: {"questions": ...}
	var withQuestions struct {
		Questions json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal(raw, &withQuestions); err == nil && len(withQuestions.Questions) > 0 && string(withQuestions.Questions) != "null" {
		if texts, ok := parseStringOrObjectArray(withQuestions.Questions); ok {
			return texts, nil
		}
	}

	// shape 3: {"answer": "1. ... 2. ..."}
	var withAnswer struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(raw, &withAnswer); err == nil && withAnswer.Answer != "" {
		return splitNumberedList(withAnswer.Answer), nil
	}

	// shape 4: bare array
	if texts, ok := parseStringOrObjectArray(raw); ok {
		return texts, nil
	}

	// shape 5: {"points": [...]}
	var withPoints struct {
		Points []string `json:"points"`
	}
	if err := json.Unmarshal(raw, &withPoints); err == nil && withPoints.Points != nil {
		return withPoints.Points, nil
	}

	return nil, ErrNoShapeMatched
}

func parseStringOrObjectArray(raw json.RawMessage) ([]string, bool) {
	var asStrings []string
	if err := json.Unmarshal(raw, &asStrings); err == nil {
		return asStrings, true
	}
	var asObjects []struct {
		Question string `json:"question"`
	}
	if err := json.Unmarshal(raw, &asObjects); err == nil {
		texts := make([]string, 0, len(asObjects))
		for _, o := range asObjects {
			texts = append(texts, o.Question)
		}
		return texts, true
	}
	return nil, false
}

// splitNumberedList breaks "1. foo 2. bar" into its items.
func splitNumberedList(answer string) []string {
	parts := numberedItem.Split(answer, -1)
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
