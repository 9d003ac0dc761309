package assistant

import (
	"fmt"
	"strings"
)

const classifyPrompt = `Classify the user query as one of:
TOOL: if it requests a web search or screenshot.
SIMPLE: if it's a short or factual question, a greeting or a basic command.
COMPLEX: if it needs reasoning, analysis, comparison or a detailed explanation.
Respond ONLY with TOOL, SIMPLE, or COMPLEX.`

const personaPrompt = "You are %s, a concise helpful AI."

const (
	describeSystem = "Describe the image."
	describeUser   = "What's in this image?"
)

func selectToolPrompt(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}

	return fmt.Sprintf(`You are a precise AI that selects tools.
Available tools: %s.
Respond ONLY with %s.`, strings.Join(names, ", "), strings.Join(quoted, " or "))
}

func toolArgsPrompt(tool string, params []string) string {
	return fmt.Sprintf(`You are a precise AI that provides function arguments.
For example a user prompt of hotdog photos using 'search_web' gives {"query": "hotdog"}.
If the function takes no arguments, respond with {}.
Respond ONLY with a JSON object, no markdown.
The function is %s and its parameters are: %s.`, tool, paramList(params))
}

func paramList(params []string) string {
	if len(params) == 0 {
		return "none"
	}
	return strings.Join(params, ", ")
}
