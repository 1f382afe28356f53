package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/eduguide/eduguide-backend/models"
)

// CorrectThreshold is the score at and above which an answer counts as
// correct.
const CorrectThreshold = 0.7

var scoreLine = regexp.MustCompile(`(?i)score:\s*([0-9]*\.?[0-9]+)`)
var feedbackLine = regexp.MustCompile(`(?i)feedback:\s*(.+)`)

// EvaluateAnswer asks the model to grade a free-text answer and parses the
// "Score: X, Feedback: ..." reply.
func EvaluateAnswer(ctx context.Context, question, answer string) (*models.Evaluation, error) {
	prompt := fmt.Sprintf(`You are grading a student's answer.
Question: %s
Student answer: %s
Reply in exactly this format, nothing else:
Score: <number between 0 and 1>, Feedback: <one or two sentences>`, question, answer)

	raw, err := GeminiGenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return ParseEvaluation(raw)
}

// ParseEvaluation extracts score and feedback from a grading reply.
func ParseEvaluation(raw string) (*models.Evaluation, error) {
	scoreMatch := scoreLine.FindStringSubmatch(raw)
	if scoreMatch == nil {
		return nil, fmt.Errorf("no score found in evaluation: %.120q", raw)
	}
	score, err := strconv.ParseFloat(scoreMatch[1], 64)
	if err != nil {
		return nil, fmt.Errorf("unparseable score %q", scoreMatch[1])
	}
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	feedback := ""
	if m := feedbackLine.FindStringSubmatch(raw); m != nil {
		feedback = strings.TrimSpace(m[1])
	}

	return &models.Evaluation{
		Score:    score,
		Feedback: feedback,
		Correct:  score >= CorrectThreshold,
	}, nil
}
