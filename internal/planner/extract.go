package planner

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/felixgeelhaar/ticketforge/internal/errors"
)

var fencedBlockRegex = regexp.MustCompile("```(?:json)?\\s*\\n([\\s\\S]*?)```")

// decodeResponse recovers a structured value from free-form model output.
// In order, first success wins: the whole text as JSON, the interior of a
// fenced code block, then the first balanced {...} span. If nothing
// parses the response is malformed; that is terminal for the stage, never
// retried here.
func decodeResponse(text string, v interface{}) error {
	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}

	if block := extractFencedBlock(text); block != "" {
		if err := json.Unmarshal([]byte(block), v); err == nil {
			return nil
		}
	}

	if span := extractBalancedObject(text); span != "" {
		if err := json.Unmarshal([]byte(span), v); err == nil {
			return nil
		}
	}

	return errors.NewMalformedResponseError(text)
}

// extractFencedBlock returns the interior of the first fenced code block,
// tagged json or untagged
func extractFencedBlock(text string) string {
	matches := fencedBlockRegex.FindStringSubmatch(text)
	if len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}
	return ""
}

// extractBalancedObject returns the first balanced {...} span by brace
// depth scan
func extractBalancedObject(text string) string {
	start := strings.Index(text, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
