package evaluation

import (
	"fmt"
	"strconv"
	"strings"

	_ "embed"
)

//go:embed prompts/requirements.md
var requirementsTemplate string

//go:embed prompts/scoring.md
var scoringTemplate string

func buildRequirementsPrompt(rfpText string) string {
	return strings.ReplaceAll(requirementsTemplate, "{{RFP_TEXT}}", rfpText)
}

// buildScoringPrompt numbers the requirements 1..N so the model can answer
// positionally instead of echoing requirement text back.
func buildScoringPrompt(requirements []string, proposalText string) string {
	var numbered strings.Builder
	for i, req := range requirements {
		fmt.Fprintf(&numbered, "%d. %s\n", i+1, req)
	}

	prompt := strings.ReplaceAll(scoringTemplate, "{{REQUIREMENTS}}", strings.TrimRight(numbered.String(), "\n"))
	prompt = strings.ReplaceAll(prompt, "{{PROPOSAL_TEXT}}", proposalText)
	prompt = strings.ReplaceAll(prompt, "{{COUNT}}", strconv.Itoa(len(requirements)))
	return prompt
}
