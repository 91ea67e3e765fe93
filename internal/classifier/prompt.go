package classifier

import (
	"strings"

	"github.com/dvloznov/finbot/internal/category"
)

// buildPrompt constructs the classification prompt: the allowed category
// list, recent labeled examples as guidance, and hard output constraints.
func buildPrompt(label string, allowed []string, examples []category.Example) string {
	var b strings.Builder

	b.WriteString("You are a transaction categorizer for a personal finance tracker.\n")
	b.WriteString("Assign the purchase description to exactly one category.\n\n")

	b.WriteString("Use ONLY the following categories:\n")
	for _, cat := range allowed {
		b.WriteString("  - " + cat + "\n")
	}
	b.WriteString("\n")

	if len(examples) > 0 {
		b.WriteString("Recent examples from this user:\n")
		for _, ex := range examples {
			b.WriteString("  \"" + ex.Label + "\" -> " + ex.Category + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Description: \"" + label + "\"\n\n")

	b.WriteString("RULES:\n")
	b.WriteString("1. Answer with the category name ONLY, nothing else.\n")
	b.WriteString("2. The answer must be EXACTLY one of the categories shown above.\n")
	b.WriteString("3. Do NOT explain, do NOT add punctuation, do NOT use Markdown.\n")
	b.WriteString("4. If no category fits, answer \"" + category.Other + "\".\n")

	return b.String()
}

// cleanAnswer strips the wrappers models add despite instructions:
// Markdown fences, surrounding quotes, and trailing punctuation. The
// first non-empty line is the answer.
func cleanAnswer(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if idx := strings.IndexByte(s, '\n'); idx != -1 {
		s = s[:idx]
	}

	s = strings.Trim(s, "\"'`«»")
	s = strings.TrimRight(s, ".!,:;")
	return strings.TrimSpace(s)
}
