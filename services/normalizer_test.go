package services

import (
	"testing"

	"github.com/eduguide/eduguide-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validTypes = map[models.QuestionType]bool{
	models.TypeConceptual:  true,
	models.TypeNumerical:   true,
	models.TypeTheoretical: true,
	models.TypeScenario:    true,
	models.TypeShortAnswer: true,
	models.TypeLongAnswer:  true,
	models.TypeDefinition:  true,
}

func TestNormalizeAllShapes(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want int
	}{
		{"questions as strings", `{"questions": ["What is X?", "Define Y.", "Explain Z."]}`, 3},
		{"questions as objects", `{"questions": [{"question": "What is X?"}, {"question": "Define Y."}]}`, 2},
		{"numbered answer string", `{"answer": "1. What is X? 2. Define Y. 3. Explain Z."}`, 3},
		{"bare array", `["What is X?", "Define Y."]`, 2},
		{"points array", `{"points": ["First point", "Second point", "Third point", "Fourth point"]}`, 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items, err := Normalize([]byte(tc.raw), TypeCounts{})
			require.NoError(t, err)
			require.Len(t, items, tc.want)
			for _, item := range items {
				assert.NotEmpty(t, item.Question)
				assert.True(t, validTypes[item.QuestionType], "unexpected type %q", item.QuestionType)
			}
		})
	}
}

func TestNormalizeFiltersPreamble(t *testing.T) {
	raw := `{"questions": [
		"However, I can generate questions based on the given context, here they are:",
		"What is a goroutine?",
		"Explain channel buffering.",
		"When does a select statement block?"
	]}`

	items, err := Normalize([]byte(raw), TypeCounts{})
	require.NoError(t, err)
	require.Len(t, items, 3)
	for _, item := range items {
		assert.False(t, IsPreamble(item.Question))
	}
}

func TestNormalizeSemanticEmptyIsDistinct(t *testing.T) {
	onlyPreamble := `{"questions": ["Here are some questions for you:"]}`
	_, err := Normalize([]byte(onlyPreamble), TypeCounts{})
	assert.ErrorIs(t, err, ErrAllFiltered)

	apiEmpty := `{"questions": []}`
	_, err = Normalize([]byte(apiEmpty), TypeCounts{})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestNormalizeUnknownShape(t *testing.T) {
	_, err := Normalize([]byte(`{"data": {"nested": true}}`), TypeCounts{})
	assert.ErrorIs(t, err, ErrNoShapeMatched)

	_, err = Normalize([]byte(`not even json`), TypeCounts{})
	assert.ErrorIs(t, err, ErrNoShapeMatched)
}

func TestNormalizeHonorsTypeCounts(t *testing.T) {
	raw := `["q1", "q2", "q3", "q4", "q5"]`
	items, err := Normalize([]byte(raw), TypeCounts{Conceptual: 2, Theoretical: 1, Scenario: 1})
	require.NoError(t, err)
	require.Len(t, items, 5)

	assert.Equal(t, models.TypeConceptual, items[0].QuestionType)
	assert.Equal(t, models.TypeConceptual, items[1].QuestionType)
	assert.Equal(t, models.TypeTheoretical, items[2].QuestionType)
	assert.Equal(t, models.TypeScenario, items[3].QuestionType)
	// past the requested counts, assignment cycles by index
	assert.Equal(t, models.TypeTheoretical, items[4].QuestionType)
}

func TestNormalizeRoundRobinWithoutCounts(t *testing.T) {
	raw := `["q1", "q2", "q3", "q4"]`
	items, err := Normalize([]byte(raw), TypeCounts{})
	require.NoError(t, err)

	assert.Equal(t, models.TypeConceptual, items[0].QuestionType)
	assert.Equal(t, models.TypeTheoretical, items[1].QuestionType)
	assert.Equal(t, models.TypeScenario, items[2].QuestionType)
	assert.Equal(t, models.TypeConceptual, items[3].QuestionType)
}

func TestSplitNumberedList(t *testing.T) {
	items := splitNumberedList("1. First question? 2. Second question? 3. Third.")
	require.Len(t, items, 3)
	assert.Equal(t, "First question?", items[0])
	assert.Equal(t, "Third.", items[2])
}
