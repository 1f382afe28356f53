package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateTransitionsForward(t *testing.T) {
	path := []ExtractionState{StateIdle, StateExtracting, StateExtracted, StateGenerating, StateSuccess}

	current := path[0]
	for _, next := range path[1:] {
		got, err := current.Transition(next)
		assert.NoError(t, err)
		current = got
	}
	assert.Equal(t, StateSuccess, current)
}

func TestStateErrorReachableFromAnyInFlight(t *testing.T) {
	for _, s := range []ExtractionState{StateExtracting, StateExtracted, StateGenerating} {
		_, err := s.Transition(StateError)
		assert.NoError(t, err, "error must be reachable from %s", s)
	}
	// idle has nothing in flight to fail
	assert.False(t, StateIdle.CanTransition(StateError))
}

func TestStateIllegalTransitions(t *testing.T) {
	cases := []struct{ from, to ExtractionState }{
		{StateIdle, StateGenerating},
		{StateIdle, StateSuccess},
		{StateExtracting, StateGenerating},
		{StateGenerating, StateExtracting},
		{StateSuccess, StateExtracting},
		{StateError, StateSuccess},
	}
	for _, tc := range cases {
		_, err := tc.from.Transition(tc.to)
		assert.Error(t, err, "%s -> %s must be rejected", tc.from, tc.to)
	}
}

func TestStateErrorRecoversThroughIdle(t *testing.T) {
	next, err := StateError.Transition(StateIdle)
	assert.NoError(t, err)
	assert.Equal(t, StateIdle, next)
}

func TestSuccessAllowsRegeneration(t *testing.T) {
	assert.True(t, StateSuccess.CanTransition(StateGenerating))
}

func TestErrorAllowsResubmitWithoutReset(t *testing.T) {
	// a failed generation is retried by resubmitting, no reset required
	next, err := StateError.Transition(StateGenerating)
	assert.NoError(t, err)
	assert.Equal(t, StateGenerating, next)
}

func TestPreviewShortTextUnchanged(t *testing.T) {
	doc := Document{ExtractedText: "short text"}
	assert.Equal(t, "short text", doc.Preview())
}

func TestPreviewExactly200NoEllipsis(t *testing.T) {
	doc := Document{ExtractedText: strings.Repeat("a", 200)}
	assert.Equal(t, 200, len(doc.Preview()))
}

func TestPreviewLongTextTruncated(t *testing.T) {
	doc := Document{ExtractedText: strings.Repeat("a", 500)}
	preview := doc.Preview()
	assert.LessOrEqual(t, len([]rune(preview)), 203)
	assert.True(t, strings.HasSuffix(preview, "..."))
	assert.Equal(t, strings.Repeat("a", 200)+"...", preview)
}

func TestDashboardPathByRole(t *testing.T) {
	assert.Equal(t, "/teacher-dashboard", RoleTeacher.DashboardPath())
	assert.Equal(t, "/dashboard", RoleStudent.DashboardPath())
	assert.Equal(t, "/dashboard", RoleAdmin.DashboardPath())
}
