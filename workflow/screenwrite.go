package workflow

import (
	"context"
	"fmt"
	"strings"

	ai "github.com/dlevitt/scriptforge"
	"github.com/dlevitt/scriptforge/agent"
	"github.com/dlevitt/scriptforge/prompt"
	"github.com/dlevitt/scriptforge/tool"
)

// SentinelResearchNeeded is the in-band marker the screenwriter emits when
// the research is too thin to write from. The engine routes back to the
// research stage when the script contains it.
const SentinelResearchNeeded = "[RESEARCH NEEDED]"

// noScriptGenerated is substituted when the screenwriter produces no output.
const noScriptGenerated = "No script generated"

// screenwrite runs the screenwriting stage. It returns the candidate script
// text and whether the screenwriter requested another research pass. When
// needsMore is true the candidate is a discarded draft, not a usable script.
func (e *Engine) screenwrite(ctx context.Context, state *State, options *Options) (candidate string, needsMore bool, err error) {
	agentCfg, err := e.config.Agent(tool.RoleScreenwriter)
	if err != nil {
		return "", false, err
	}
	taskCfg, err := e.config.Task("screenwriting_task")
	if err != nil {
		return "", false, err
	}

	vars := prompt.Vars{
		"topic":            state.Topic,
		"tones":            state.Tones,
		"file_path":        state.FilePath,
		"current_year":     state.CurrentYear,
		"platform":         state.Platform,
		"research_results": state.ResearchResults,
	}

	research := state.ResearchResults
	if research == "" {
		research = "No research available"
	}

	system := prompt.BuildAgentPrompt(agentCfg, vars) + "\n\n" + prompt.BuildTaskPrompt(taskCfg, vars)
	user := fmt.Sprintf(
		"Create a %s script for the topic: %s\nDesired tones: %s\nResearch results: %s\nFile path for reference: %s",
		state.Platform, state.Topic, state.Tones, research, state.FilePath,
	)

	ag := agent.New(e.chatClient, tool.ForRole(tool.RoleScreenwriter, e.tools))
	result, err := ag.Run(ctx, []ai.Message{
		ai.NewSystemMessage(system),
		ai.NewUserMessage(user),
	}, e.agentOptions(options)...)
	if err != nil {
		return "", false, fmt.Errorf("screenwriting stage: %w", err)
	}

	candidate = result.FinalText()
	if strings.TrimSpace(candidate) == "" {
		candidate = noScriptGenerated
	}

	return candidate, strings.Contains(candidate, SentinelResearchNeeded), nil
}
