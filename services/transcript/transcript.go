// Package transcript renders a call's tool log into the human-readable
// transcript stored with the conversation record.
package transcript

import (
	"fmt"
	"sort"
	"strings"

	"bookline/models"
)

// Format renders tool-call records as a display transcript. Records are
// emitted in timestamp order; the session appends them in invocation
// order so this is normally a no-op sort.
func Format(toolCalls []models.ToolCallRecord) string {
	ordered := make([]models.ToolCallRecord, len(toolCalls))
	copy(ordered, toolCalls)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	var lines []string
	lines = append(lines, "===== CONVERSATION TRANSCRIPT =====", "")

	for _, tc := range ordered {
		lines = append(lines, fmt.Sprintf("[TOOL CALL] %s(%s)", tc.Tool, formatParams(tc.Params)))
		if tc.Result != "" {
			lines = append(lines, fmt.Sprintf("[TOOL RESULT] %s", tc.Result))
		}
	}

	lines = append(lines, "", "===================================")
	return strings.Join(lines, "\n")
}

func formatParams(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, params[k]))
	}
	return strings.Join(parts, ", ")
}
