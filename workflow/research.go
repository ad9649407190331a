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

// noResearchResults is substituted when the researcher produces no output.
// It is a valid result, not an error; the screenwriter sees it as text.
const noResearchResults = "No research results"

// research runs the research stage, writing its findings into the state.
func (e *Engine) research(ctx context.Context, state *State, options *Options) error {
	agentCfg, err := e.config.Agent(tool.RoleResearcher)
	if err != nil {
		return err
	}
	taskCfg, err := e.config.Task("research_task")
	if err != nil {
		return err
	}

	vars := prompt.Vars{
		"topic":        state.Topic,
		"tones":        state.Tones,
		"file_path":    state.FilePath,
		"current_year": state.CurrentYear,
	}

	system := prompt.BuildAgentPrompt(agentCfg, vars) + "\n\n" + prompt.BuildTaskPrompt(taskCfg, vars)
	user := fmt.Sprintf("Research the topic: %s with tones: %s", state.Topic, state.Tones)

	ag := agent.New(e.chatClient, tool.ForRole(tool.RoleResearcher, e.tools))
	result, err := ag.Run(ctx, []ai.Message{
		ai.NewSystemMessage(system),
		ai.NewUserMessage(user),
	}, e.agentOptions(options)...)
	if err != nil {
		return fmt.Errorf("research stage: %w", err)
	}

	text := result.FinalText()
	if strings.TrimSpace(text) == "" {
		text = noResearchResults
	}
	state.ResearchResults = text
	state.ResearchAttempts++
	return nil
}
