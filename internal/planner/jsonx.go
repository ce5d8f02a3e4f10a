package planner

import (
	"strings"

	"github.com/tidwall/gjson"
)

// extractJSON pulls a JSON object out of free completion text.
//
// Three stages, each falling through to the next: the trimmed text itself,
// the first fenced code block, then the outermost {...} span. Returns the
// raw JSON string and whether anything usable was found. Callers treat a
// false result the same as invalid JSON.
func extractJSON(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", false
	}

	if isJSONObject(trimmed) {
		return trimmed, true
	}

	if fenced, ok := extractFencedBlock(trimmed); ok && isJSONObject(fenced) {
		return fenced, true
	}

	if span, ok := extractBraceSpan(trimmed); ok && isJSONObject(span) {
		return span, true
	}

	return "", false
}

func isJSONObject(s string) bool {
	return strings.HasPrefix(s, "{") && gjson.Valid(s)
}

// extractFencedBlock returns the content of the first ``` fenced block,
// stripping an optional language tag on the opening fence.
func extractFencedBlock(text string) (string, bool) {
	start := strings.Index(text, "```")
	if start < 0 {
		return "", false
	}
	rest := text[start+3:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		// Drop the language tag line ("json", "JSON", or empty).
		tag := strings.TrimSpace(rest[:nl])
		if tag == "" || strings.EqualFold(tag, "json") {
			rest = rest[nl+1:]
		} else if strings.HasPrefix(strings.TrimSpace(rest), "{") {
			rest = strings.TrimSpace(rest)
		}
	}
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

// extractBraceSpan returns the text between the first '{' and the last '}'.
func extractBraceSpan(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
