package quiz

import "strings"

// cleanResponse trims text and strips a surrounding markdown code fence
// (```json ... ``` or ``` ... ```), including single-line fences.
func cleanResponse(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	// Drop the info string ("json", "JSON") up to the first newline or brace.
	if i := strings.IndexAny(s, "\n{["); i >= 0 {
		s = s[i:]
	} else {
		s = ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
