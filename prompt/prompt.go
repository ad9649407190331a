// Package prompt renders the agent and task prompts used by the pipeline
// stages.
//
// Agent templates carry a role, goal, and backstory; task templates carry a
// description and expected output. Both use {name} placeholders filled by a
// single-pass substitution: unknown placeholders are preserved verbatim, and
// braces inside substituted values are never re-expanded.
package prompt

import (
	"fmt"
	"strings"
)

// Vars holds the placeholder values substituted into a template.
type Vars map[string]string

// Substitute replaces {name} placeholders in template with values from vars
// in a single left-to-right pass. Placeholders without a matching key are
// left untouched, and substituted values are emitted verbatim, so a value
// containing braces cannot trigger further expansion. Rendering is therefore
// idempotent: rendering an already-rendered string with the same vars changes
// nothing as long as the values themselves contain no known placeholders.
func Substitute(template string, vars Vars) string {
	var sb strings.Builder
	sb.Grow(len(template))

	for i := 0; i < len(template); {
		open := strings.IndexByte(template[i:], '{')
		if open < 0 {
			sb.WriteString(template[i:])
			break
		}
		open += i
		sb.WriteString(template[i:open])

		close := strings.IndexByte(template[open:], '}')
		if close < 0 {
			sb.WriteString(template[open:])
			break
		}
		close += open

		name := template[open+1 : close]
		if value, ok := vars[name]; ok {
			sb.WriteString(value)
		} else {
			sb.WriteString(template[open : close+1])
		}
		i = close + 1
	}

	return sb.String()
}

// BuildAgentPrompt renders an agent template (role, goal, backstory) with the
// given variables.
func BuildAgentPrompt(agent AgentConfig, vars Vars) string {
	template := fmt.Sprintf("Role: %s\nGoal: %s\nBackstory: %s",
		strings.TrimSpace(agent.Role),
		strings.TrimSpace(agent.Goal),
		strings.TrimSpace(agent.Backstory),
	)
	return Substitute(template, vars)
}

// BuildTaskPrompt renders a task template (description, expected output) with
// the given variables.
func BuildTaskPrompt(task TaskConfig, vars Vars) string {
	template := fmt.Sprintf("Task: %s\nExpected Output: %s",
		strings.TrimSpace(task.Description),
		strings.TrimSpace(task.ExpectedOutput),
	)
	return Substitute(template, vars)
}
