package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/eduguide/eduguide-backend/models"
	gocache "github.com/patrickmn/go-cache"
)

// ContentBundle aggregates everything generated from one document in one
// session. It is cached, never persisted; regenerating replaces it wholesale.
type ContentBundle struct {
	DocumentID  string                     `json:"document_id"`
	Summary     string                     `json:"summary"`
	KeyPoints   []string                   `json:"key_points"`
	Flashcards  []Flashcard                `json:"flashcards"`
	Questions   []models.GeneratedQuestion `json:"questions"`
	GeneratedAt time.Time                  `json:"generated_at"`
}

type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// bundles is session-scoped storage keyed by user+document.
var bundles = gocache.New(2*time.Hour, 15*time.Minute)

func bundleKey(userID, documentID string) string {
	return userID + ":" + documentID
}

// GetBundle returns the cached bundle for a user/document pair, if any.
func GetBundle(userID, documentID string) (*ContentBundle, bool) {
	v, ok := bundles.Get(bundleKey(userID, documentID))
	if !ok {
		return nil, false
	}
	b, ok := v.(*ContentBundle)
	return b, ok
}

// DropBundle clears the cached bundle, used on document delete and reset.
func DropBundle(userID, documentID string) {
	bundles.Delete(bundleKey(userID, documentID))
}

// BuildBundle generates summary, key points, flashcards and questions from
// the document's extracted text and caches the result, replacing any
// previous bundle for the pair.
func BuildBundle(ctx context.Context, userID string, doc *models.Document) (*ContentBundle, error) {
	text := strings.TrimSpace(doc.ExtractedText)
	if len([]rune(text)) < MinExtractedLength {
		return nil, fmt.Errorf("document has too little text to generate content from")
	}

	summary, err := generateSummary(ctx, text)
	if err != nil {
		return nil, err
	}
	keyPoints, err := generateKeyPoints(ctx, text)
	if err != nil {
		return nil, err
	}
	cards, err := generateFlashcards(ctx, text)
	if err != nil {
		return nil, err
	}
	questions, err := generateQuestions(ctx, text)
	if err != nil {
		return nil, err
	}

	bundle := &ContentBundle{
		DocumentID:  doc.ID.String(),
		Summary:     summary,
		KeyPoints:   keyPoints,
		Flashcards:  cards,
		Questions:   questions,
		GeneratedAt: time.Now(),
	}
	bundles.Set(bundleKey(userID, doc.ID.String()), bundle, gocache.DefaultExpiration)
	return bundle, nil
}

func generateSummary(ctx context.Context, text string) (string, error) {
	prompt := `Summarize the following study material as one clear, concise paragraph.
Do not add information, do not comment, no markdown, plain text only.
Material:`
	return GeminiGenerateText(ctx, prompt+"\n\n"+text)
}

func generateKeyPoints(ctx context.Context, text string) ([]string, error) {
	prompt := `List the 5 to 8 most important points of the following study material.
Return ONLY a JSON array of strings, no markdown fences, no commentary.
Material:`
	raw, err := GeminiGenerateText(ctx, prompt+"\n\n"+text)
	if err != nil {
		return nil, err
	}
	var points []string
	if err := json.Unmarshal([]byte(stripFences(raw)), &points); err != nil {
		return nil, fmt.Errorf("key points were not valid JSON: %v", err)
	}
	return points, nil
}

func generateFlashcards(ctx context.Context, text string) ([]Flashcard, error) {
	prompt := `Create 5 study flashcards from the following material.
Each card has "front" (a question or concept) and "back" (a short answer).
Return ONLY a JSON array like [{"front": "...", "back": "..."}], no markdown fences.
Material:`
	raw, err := GeminiGenerateText(ctx, prompt+"\n\n"+text)
	if err != nil {
		return nil, err
	}
	var cards []Flashcard
	if err := json.Unmarshal([]byte(stripFences(raw)), &cards); err != nil {
		return nil, fmt.Errorf("flashcards were not valid JSON: %v", err)
	}
	return cards, nil
}

func generateQuestions(ctx context.Context, text string) ([]models.GeneratedQuestion, error) {
	prompt := `Write 6 open practice questions about the following material.
Return ONLY a JSON array of strings, no numbering, no markdown fences.
Material:`
	raw, err := GeminiGenerateText(ctx, prompt+"\n\n"+text)
	if err != nil {
		return nil, err
	}
	return Normalize([]byte(stripFences(raw)), TypeCounts{})
}

// stripFences removes the ```json fences Gemini likes to wrap output in.
func stripFences(s string) string {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}
