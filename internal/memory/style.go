package memory

import (
	"encoding/json"
	"os"
	"strings"
)

// DefaultStyle is the style hint used until any posts have been archived.
const DefaultStyle = "Short. Punchy. Emotional."

// LoadStyleExamples reads recent published posts from a JSON history file
// (an array of strings) and joins up to limit of them for prompt grounding.
// Any read or decode problem falls back to the default hint.
func LoadStyleExamples(path string, limit int) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return DefaultStyle
	}
	var posts []string
	if err := json.Unmarshal(b, &posts); err != nil || len(posts) == 0 {
		return DefaultStyle
	}
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return strings.Join(posts, "\n")
}
