package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/siherrmann/tripgraph/model"
)

// Caps applied to the assembled prompt. Retrieval breadth is configured
// upstream, prompt size is controlled here.
const (
	maxMatchLines = 10
	maxFactLines  = 20
)

const systemPrompt = "You are a helpful travel assistant. Use the provided semantic search results " +
	"and graph facts to answer the user's query briefly and concisely. " +
	"Cite node ids when referencing specific places or attractions."

const closingInstruction = "Based on the above, answer the user's question. " +
	"If helpful, suggest 2-3 concrete itinerary steps or tips and mention node ids for references."

// Assemble merges the query, vector matches and graph facts into the two
// messages sent to the generation backend. It is pure: identical inputs
// always yield identical messages.
func Assemble(query string, matches []*model.VectorMatch, facts []*model.GraphFact) []model.PromptMessage {
	var user strings.Builder

	user.WriteString("User query: ")
	user.WriteString(query)
	user.WriteString("\n\n")

	user.WriteString("Top semantic matches (from vector DB):\n")
	user.WriteString(strings.Join(matchLines(matches), "\n"))
	user.WriteString("\n\n")

	user.WriteString("Graph facts (neighboring relations):\n")
	user.WriteString(strings.Join(factLines(facts), "\n"))
	user.WriteString("\n\n")

	user.WriteString(closingInstruction)

	return []model.PromptMessage{
		{Role: model.RoleSystem, Content: systemPrompt},
		{Role: model.RoleUser, Content: user.String()},
	}
}

// matchLines renders up to maxMatchLines matches, one line each, in their
// retrieved order.
func matchLines(matches []*model.VectorMatch) []string {
	if len(matches) > maxMatchLines {
		matches = matches[:maxMatchLines]
	}

	lines := make([]string, 0, len(matches))
	for _, match := range matches {
		line := fmt.Sprintf("- id: %s, name: %s, type: %s, score: %s",
			match.ID, match.Name(), match.Type(), formatScore(match.Score))
		if city := match.City(); city != "" {
			line += ", city: " + city
		}
		lines = append(lines, line)
	}
	return lines
}

// factLines renders up to maxFactLines facts, one line each, in their
// expansion order.
func factLines(facts []*model.GraphFact) []string {
	if len(facts) > maxFactLines {
		facts = facts[:maxFactLines]
	}

	lines := make([]string, 0, len(facts))
	for _, fact := range facts {
		lines = append(lines, fmt.Sprintf("- (%s) -[%s]-> (%s) %s: %s",
			fact.Source, fact.Relation, fact.TargetID, fact.TargetName, fact.TargetDescription))
	}
	return lines
}

// formatScore renders a score without trailing zeros, so 0.91 stays "0.91".
func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'g', -1, 64)
}
