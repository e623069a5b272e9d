package gemini

import (
	"regexp"
	"strings"
)

var (
	jsonBlock = regexp.MustCompile(`(?s)\{.*\}|\[.*\]`)
	codeFence = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")
)

// ExtractJSON returns the outermost JSON object or array found in s.
// Without one, surrounding code fences are stripped and the trimmed text returned.
func ExtractJSON(s string) string {
	if m := jsonBlock.FindString(s); m != "" {
		return m
	}
	s = strings.TrimSpace(s)
	if m := codeFence.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}
