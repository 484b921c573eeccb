package chat

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/alchemorsel/souschef/internal/domain/recipe"
)

// stepSplit cuts "1. Do this. 2. Do that." style instructions into steps.
var stepSplit = regexp.MustCompile(`\d+\.\s*`)

// renderRecipeHTML renders one recipe's fields as a structured HTML fragment
// with a heading, an ingredient list and numbered steps.
func renderRecipeHTML(r *recipe.Recipe) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<h3>%s</h3>", html.EscapeString(r.Title()))

	b.WriteString("<b>Ingredients:</b><ul>")
	for _, ing := range r.IngredientList() {
		fmt.Fprintf(&b, "<li>%s</li>", html.EscapeString(ing))
	}
	b.WriteString("</ul>")

	steps := splitSteps(r.Instructions())
	if len(steps) > 0 {
		b.WriteString("<b>Preparation:</b><ol>")
		for _, step := range steps {
			fmt.Fprintf(&b, "<li>%s</li>", html.EscapeString(step))
		}
		b.WriteString("</ol>")
	}

	return b.String()
}

func splitSteps(instructions string) []string {
	var steps []string
	for _, s := range stepSplit.Split(instructions, -1) {
		s = strings.TrimSpace(s)
		if s != "" {
			steps = append(steps, s)
		}
	}
	return steps
}

// ensureMarkup wraps replies that came back as bare text so the client
// always receives structured markup.
func ensureMarkup(reply string) string {
	trimmed := strings.TrimSpace(reply)
	if trimmed == "" {
		return ""
	}
	if strings.Contains(trimmed, "<") {
		return trimmed
	}
	return "<p>" + html.EscapeString(trimmed) + "</p>"
}
