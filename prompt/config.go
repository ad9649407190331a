package prompt

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed config/agents.yaml
var defaultAgentsYAML []byte

//go:embed config/tasks.yaml
var defaultTasksYAML []byte

// AgentConfig is the template for one agent persona.
type AgentConfig struct {
	Role      string `yaml:"role"`
	Goal      string `yaml:"goal"`
	Backstory string `yaml:"backstory"`
}

// TaskConfig is the template for one task assignment.
type TaskConfig struct {
	Description    string `yaml:"description"`
	ExpectedOutput string `yaml:"expected_output"`
}

// Config holds all agent and task templates, loaded once at startup.
type Config struct {
	Agents map[string]AgentConfig
	Tasks  map[string]TaskConfig
}

// Agent returns the agent template by name.
func (c *Config) Agent(name string) (AgentConfig, error) {
	a, ok := c.Agents[name]
	if !ok {
		return AgentConfig{}, fmt.Errorf("prompt: unknown agent %q", name)
	}
	return a, nil
}

// Task returns the task template by name.
func (c *Config) Task(name string) (TaskConfig, error) {
	t, ok := c.Tasks[name]
	if !ok {
		return TaskConfig{}, fmt.Errorf("prompt: unknown task %q", name)
	}
	return t, nil
}

// DefaultConfig returns the embedded agent and task templates.
func DefaultConfig() (*Config, error) {
	return parseConfig(defaultAgentsYAML, defaultTasksYAML)
}

// MustDefaultConfig is like DefaultConfig but panics on error.
// The embedded templates are validated by tests, so a failure here means a
// corrupted build.
func MustDefaultConfig() *Config {
	cfg, err := DefaultConfig()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadConfig reads agent and task templates from YAML files on disk.
func LoadConfig(agentsPath, tasksPath string) (*Config, error) {
	agentsData, err := os.ReadFile(agentsPath)
	if err != nil {
		return nil, fmt.Errorf("prompt: read agents config: %w", err)
	}
	tasksData, err := os.ReadFile(tasksPath)
	if err != nil {
		return nil, fmt.Errorf("prompt: read tasks config: %w", err)
	}
	return parseConfig(agentsData, tasksData)
}

func parseConfig(agentsData, tasksData []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(agentsData, &cfg.Agents); err != nil {
		return nil, fmt.Errorf("prompt: parse agents config: %w", err)
	}
	if err := yaml.Unmarshal(tasksData, &cfg.Tasks); err != nil {
		return nil, fmt.Errorf("prompt: parse tasks config: %w", err)
	}
	return cfg, nil
}
