package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubstitute(t *testing.T) {
	t.Run("replaces known placeholders", func(t *testing.T) {
		out := Substitute("write about {topic} in {tones} tones", Vars{
			"topic": "Rome",
			"tones": "educational",
		})
		assert.Equal(t, "write about Rome in educational tones", out)
	})

	t.Run("preserves unknown placeholders", func(t *testing.T) {
		out := Substitute("write about {topic} for {audience}", Vars{"topic": "Rome"})
		assert.Equal(t, "write about Rome for {audience}", out)
	})

	t.Run("values containing braces are not re-expanded", func(t *testing.T) {
		out := Substitute("say {greeting}", Vars{
			"greeting": "hello {name}",
			"name":     "should never appear",
		})
		assert.Equal(t, "say hello {name}", out)
	})

	t.Run("rendering is deterministic", func(t *testing.T) {
		vars := Vars{"topic": "Rome", "tones": "dramatic"}
		template := "a {topic} script, {tones}, for {platform}"
		first := Substitute(template, vars)
		second := Substitute(template, vars)
		assert.Equal(t, first, second)
	})

	t.Run("unclosed brace is passed through", func(t *testing.T) {
		out := Substitute("left {topic alone", Vars{"topic": "Rome"})
		assert.Equal(t, "left {topic alone", out)
	})

	t.Run("empty template", func(t *testing.T) {
		assert.Equal(t, "", Substitute("", Vars{"topic": "Rome"}))
	})

	t.Run("nil vars leaves placeholders", func(t *testing.T) {
		assert.Equal(t, "{topic}", Substitute("{topic}", nil))
	})
}

func TestBuildPrompts(t *testing.T) {
	cfg := MustDefaultConfig()

	t.Run("agent prompt renders role goal and backstory", func(t *testing.T) {
		agent, err := cfg.Agent("researcher")
		require.NoError(t, err)

		out := BuildAgentPrompt(agent, Vars{
			"topic":        "History of Rome",
			"tones":        "educational",
			"current_year": "2026",
		})

		assert.Contains(t, out, "Role: History of Rome Senior Video Researcher")
		assert.Contains(t, out, "Goal:")
		assert.Contains(t, out, "Backstory:")
		assert.Contains(t, out, "2026")
		assert.NotContains(t, out, "{topic}")
	})

	t.Run("task prompt renders description and expected output", func(t *testing.T) {
		task, err := cfg.Task("screenwriting_task")
		require.NoError(t, err)

		out := BuildTaskPrompt(task, Vars{
			"topic":            "Rome",
			"tones":            "dramatic",
			"platform":         "YouTube",
			"file_path":        "ref.docx",
			"research_results": "Rome founded 753 BC",
		})

		assert.Contains(t, out, "Task:")
		assert.Contains(t, out, "Expected Output:")
		assert.Contains(t, out, "Rome founded 753 BC")
		assert.Contains(t, out, "YouTube")
	})
}

func TestConfig(t *testing.T) {
	t.Run("default config has both roles and tasks", func(t *testing.T) {
		cfg, err := DefaultConfig()
		require.NoError(t, err)

		for _, name := range []string{"researcher", "screenwriter"} {
			agent, err := cfg.Agent(name)
			require.NoError(t, err)
			assert.NotEmpty(t, agent.Role)
			assert.NotEmpty(t, agent.Goal)
			assert.NotEmpty(t, agent.Backstory)
		}
		for _, name := range []string{"research_task", "screenwriting_task"} {
			task, err := cfg.Task(name)
			require.NoError(t, err)
			assert.NotEmpty(t, task.Description)
			assert.NotEmpty(t, task.ExpectedOutput)
		}
	})

	t.Run("unknown names return errors", func(t *testing.T) {
		cfg := MustDefaultConfig()

		_, err := cfg.Agent("director")
		assert.Error(t, err)

		_, err = cfg.Task("editing_task")
		assert.Error(t, err)
	})

	t.Run("parse rejects malformed yaml", func(t *testing.T) {
		_, err := parseConfig([]byte("researcher: [not a map"), defaultTasksYAML)
		assert.Error(t, err)
	})
}
