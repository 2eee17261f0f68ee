package generator

import (
	"fmt"
	"strings"

	"codeberg.org/snonux/theni/internal/lang"
)

// SystemPrompt sets the tone for the model.
func SystemPrompt(l lang.Language) string {
	return fmt.Sprintf("You are a friendly %s teacher preparing picture cards for young children.", l.Name)
}

// BuildPrompt asks for two words from candidates and one short sentence in
// the target language that uses both.
func BuildPrompt(candidates []string, l lang.Language) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Pick two different words from this list that fit naturally into one simple sentence:\n%s\n\n",
		strings.Join(candidates, ", "))
	fmt.Fprintf(&b, "Write one short, simple %s sentence that a young child can understand and that uses both words.\n", l.Name)
	b.WriteString("Reply with exactly one line in this format and nothing else:\n")
	b.WriteString("word1 | word2 | sentence\n")
	b.WriteString("Copy word1 and word2 exactly as they appear in the list. Do not use the | character inside the sentence.")

	return b.String()
}
