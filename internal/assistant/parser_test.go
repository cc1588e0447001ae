package assistant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TanoojVardhan/sloth-planner/internal/model"
)

var parseNow = time.Date(2026, 9, 10, 15, 0, 0, 0, time.UTC)

func TestParseTaskWithDueAndPriority(t *testing.T) {
	cmd := Parse("add task buy milk tomorrow high priority", parseNow)

	assert.Equal(t, IntentTask, cmd.Intent)
	assert.Equal(t, "buy milk", cmd.Title)
	require.NotNil(t, cmd.DueDate)
	assert.Equal(t, "2026-09-11", cmd.DueDate.String())
	assert.Equal(t, model.PriorityHigh, cmd.Priority)
	assert.Empty(t, cmd.Tags)
}

func TestParseRelativeDates(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"add task water plants today", "2026-09-10"},
		{"add task water plants tomorrow", "2026-09-11"},
		{"add task water plants next week", "2026-09-17"},
	}
	for _, tc := range cases {
		cmd := Parse(tc.input, parseNow)
		require.NotNil(t, cmd.DueDate, tc.input)
		assert.Equal(t, tc.want, cmd.DueDate.String(), tc.input)
		assert.Equal(t, "water plants", cmd.Title, tc.input)
	}
}

func TestParseExplicitDate(t *testing.T) {
	cmd := Parse("create task renew passport by 2026-12-01", parseNow)

	assert.Equal(t, IntentTask, cmd.Intent)
	assert.Equal(t, "renew passport", cmd.Title)
	require.NotNil(t, cmd.DueDate)
	assert.Equal(t, "2026-12-01", cmd.DueDate.String())
}

func TestParseTagsClause(t *testing.T) {
	cmd := Parse("add task review budget with tags finance, Q4", parseNow)

	assert.Equal(t, "review budget", cmd.Title)
	assert.Equal(t, []string{"finance", "q4"}, cmd.Tags)
}

func TestParseEventIntent(t *testing.T) {
	cmd := Parse("schedule meeting with the landlord tomorrow", parseNow)

	assert.Equal(t, IntentEvent, cmd.Intent)
	require.NotNil(t, cmd.DueDate)
	assert.Equal(t, "2026-09-11", cmd.DueDate.String())
}

func TestParseReminderIntent(t *testing.T) {
	cmd := Parse("remind me to call mom tomorrow", parseNow)

	assert.Equal(t, IntentReminder, cmd.Intent)
	assert.Equal(t, "call mom", cmd.Title)
	require.NotNil(t, cmd.DueDate)
	assert.Equal(t, "2026-09-11", cmd.DueDate.String())
}

func TestParseUnrecognized(t *testing.T) {
	cmd := Parse("what is the weather like", parseNow)

	assert.Equal(t, IntentUnrecognized, cmd.Intent)
	assert.Equal(t, "what is the weather like", cmd.Title)
	assert.Nil(t, cmd.DueDate)
}

func TestParseCaseInsensitive(t *testing.T) {
	cmd := Parse("ADD TASK Buy Milk TOMORROW HIGH PRIORITY", parseNow)

	assert.Equal(t, IntentTask, cmd.Intent)
	assert.Equal(t, "Buy Milk", cmd.Title)
	assert.Equal(t, model.PriorityHigh, cmd.Priority)
}
