package llm

import (
	"fmt"
	"strings"
)

// ExtractJSON isolates the JSON document inside a raw LLM reply. It
// strips markdown code fences (```json ... ``` or ``` ... ```), then
// drops any leading prose before the first '{' or '[' and any trailing
// text after the matching closing bracket.
func ExtractJSON(s string) (string, error) {
	s = stripFences(strings.TrimSpace(s))

	objStart := strings.IndexByte(s, '{')
	arrStart := strings.IndexByte(s, '[')

	start := objStart
	closer := byte('}')
	if start == -1 || (arrStart != -1 && arrStart < start) {
		start = arrStart
		closer = ']'
	}
	if start == -1 {
		return "", fmt.Errorf("no JSON object or array found in response")
	}

	end := strings.LastIndexByte(s, closer)
	if end <= start {
		return "", fmt.Errorf("unterminated JSON in response")
	}
	return s[start : end+1], nil
}

func stripFences(s string) string {
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i != -1 {
			s = s[:i]
		}
		return strings.TrimSpace(s)
	}
	return s
}
