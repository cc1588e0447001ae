// Package assistant turns free-text commands into planner actions. Parsing is
// deterministic substring and regex matching; there is no language model in
// this path.
package assistant

import (
	"regexp"
	"strings"
	"time"

	"github.com/TanoojVardhan/sloth-planner/internal/model"
)

// Intent is what the user asked for.
type Intent string

const (
	IntentTask         Intent = "task"
	IntentEvent        Intent = "event"
	IntentReminder     Intent = "reminder"
	IntentUnrecognized Intent = "unrecognized"
)

// Command is the structured form of a parsed input.
type Command struct {
	Intent   Intent         `json:"intent"`
	Title    string         `json:"title"`
	DueDate  *model.Date    `json:"dueDate,omitempty"`
	Priority model.Priority `json:"priority,omitempty"`
	Tags     []string       `json:"tags,omitempty"`
}

var (
	// leading verb phrases stripped from the title
	reVerb = regexp.MustCompile(`(?i)^\s*(add|create|new|make|set)\s+(a\s+|an\s+)?(task|event|reminder|meeting|appointment|todo)?\s*(to\s+|for\s+|about\s+|called\s+)?`)

	reRemind = regexp.MustCompile(`(?i)^\s*remind\s+me\s+(to\s+|about\s+)?`)

	reDuePhrase = regexp.MustCompile(`(?i)\b(today|tomorrow|next week)\b`)
	reOnDate    = regexp.MustCompile(`(?i)\b(?:on|by|due)\s+(\d{4}-\d{2}-\d{2})\b`)
	rePriority  = regexp.MustCompile(`(?i)\b(low|medium|high)\s*(priority)?\b`)
	reTags      = regexp.MustCompile(`(?i)\bwith\s+tags?\s+(.+)$`)
	reSpaces    = regexp.MustCompile(`\s{2,}`)
)

// Parse extracts a command from input. now anchors the relative due phrases.
func Parse(input string, now time.Time) Command {
	cmd := Command{Intent: detectIntent(input)}
	if cmd.Intent == IntentUnrecognized {
		cmd.Title = strings.TrimSpace(input)
		return cmd
	}

	rest := input

	// trailing "with tags a, b" clause
	if m := reTags.FindStringSubmatch(rest); m != nil {
		for _, raw := range strings.Split(m[1], ",") {
			if tag := strings.TrimSpace(raw); tag != "" {
				cmd.Tags = append(cmd.Tags, strings.ToLower(tag))
			}
		}
		rest = reTags.ReplaceAllString(rest, "")
	}

	if m := reOnDate.FindStringSubmatch(rest); m != nil {
		if d, err := model.ParseDate(m[1]); err == nil {
			cmd.DueDate = &d
			rest = reOnDate.ReplaceAllString(rest, "")
		}
	} else if m := reDuePhrase.FindStringSubmatch(rest); m != nil {
		d := relativeDate(strings.ToLower(m[1]), now)
		cmd.DueDate = &d
		rest = reDuePhrase.ReplaceAllString(rest, "")
	}

	if m := rePriority.FindStringSubmatch(rest); m != nil {
		cmd.Priority = model.Priority(strings.ToLower(m[1]))
		rest = rePriority.ReplaceAllString(rest, "")
	}

	rest = reRemind.ReplaceAllString(rest, "")
	rest = reVerb.ReplaceAllString(rest, "")
	rest = reSpaces.ReplaceAllString(rest, " ")
	cmd.Title = strings.Trim(strings.TrimSpace(rest), ".,!?")
	return cmd
}

// detectIntent picks the first keyword family found in the input.
func detectIntent(input string) Intent {
	lower := strings.ToLower(input)
	switch {
	case strings.Contains(lower, "remind") || strings.Contains(lower, "reminder"):
		return IntentReminder
	case strings.Contains(lower, "event") || strings.Contains(lower, "meeting") || strings.Contains(lower, "appointment") || strings.Contains(lower, "schedule"):
		return IntentEvent
	case strings.Contains(lower, "task") || strings.Contains(lower, "todo") || strings.Contains(lower, "to-do"):
		return IntentTask
	default:
		return IntentUnrecognized
	}
}

func relativeDate(phrase string, now time.Time) model.Date {
	switch phrase {
	case "today":
		return model.NewDate(now)
	case "tomorrow":
		return model.NewDate(now.AddDate(0, 0, 1))
	case "next week":
		return model.NewDate(now.AddDate(0, 0, 7))
	}
	return model.NewDate(now)
}
