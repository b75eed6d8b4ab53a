package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	goyaml "gopkg.in/yaml.v3"

	"github.com/jllopis/council/pkg/errors"
)

type Config struct {
	Log       LogConfig              `koanf:"log"`
	Telemetry TelemetryConfig        `koanf:"telemetry"`
	Defaults  DefaultsConfig         `koanf:"defaults"`
	Inbox     InboxConfig            `koanf:"inbox"`
	Models    map[string]ModelConfig `koanf:"models"`
	Prompts   PromptsConfig          `koanf:"prompts"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

type TelemetryConfig struct {
	Exporter           string `koanf:"exporter"` // none, stdout, otlp
	OTLPEndpoint       string `koanf:"otlp_endpoint"`
	OTLPInsecure       bool   `koanf:"otlp_insecure"`
	OTLPTimeoutSeconds int    `koanf:"otlp_timeout_seconds"`
}

// DefaultsConfig holds the debate defaults applied when neither CLI flags nor
// inbox frontmatter say otherwise.
type DefaultsConfig struct {
	Rounds       int      `koanf:"rounds"`
	MaxRounds    int      `koanf:"max_rounds"`
	Synthesizer  string   `koanf:"synthesizer"`
	DefaultPanel []string `koanf:"default_panel"`
	FullPanel    []string `koanf:"full_panel"`
	OutputDir    string   `koanf:"output_dir"`
}

type InboxConfig struct {
	Dir        string `koanf:"dir"`
	ArchiveDir string `koanf:"archive_dir"`
}

// ModelConfig describes one debate backend.
type ModelConfig struct {
	Name           string `koanf:"-"`
	SDK            string `koanf:"sdk"` // anthropic, gemini, openai, deepseek, xai, ollama
	Model          string `koanf:"model"`
	APIKeyEnv      string `koanf:"api_key_env"`
	BaseURL        string `koanf:"base_url"`
	TimeoutSeconds int    `koanf:"timeout_seconds"`
	MaxTokens      int    `koanf:"max_tokens"`
}

// Timeout returns the configured per-call timeout as a duration.
func (m ModelConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSeconds) * time.Second
}

// Available reports whether the backend can be constructed in this
// environment. Backends without an api_key_env (local ones) are always
// available.
func (m ModelConfig) Available() bool {
	if m.APIKeyEnv == "" {
		return true
	}
	return strings.TrimSpace(os.Getenv(m.APIKeyEnv)) != ""
}

// PromptsConfig holds the debate prompt templates. Placeholders in curly
// braces are substituted at render time.
type PromptsConfig struct {
	Initial   string            `koanf:"initial"`
	Critique  string            `koanf:"critique"`
	Synthesis string            `koanf:"synthesis"`
	Personas  map[string]string `koanf:"personas"`
}

const defaultInitialPrompt = `{persona}You are one voice on a council of AI models debating a question. Give your best, well-reasoned answer. Make your position explicit and support it.

Question: {question}`

const defaultCritiquePrompt = `{persona}This is round {round} of a council debate on the question below. You answered in an earlier round, as did other participants. Their latest proposals follow, in anonymized form. Critique them, adopt the stronger arguments, point out flaws, and write your improved answer.

Question: {question}

{previous_responses_anonymized}`

const defaultSynthesisPrompt = `You are the synthesizer of a council debate. The debate ran for {rounds} rounds and is now closed. Merge the strongest points from the full transcript below into one final, decisive answer to the question. Do not describe the debate; answer the question.

Question: {question}

{full_transcript}`

func setDefaults(k *koanf.Koanf) {
	k.Set("log.level", "info")
	k.Set("log.format", "text")

	k.Set("telemetry.exporter", "none")
	k.Set("telemetry.otlp_endpoint", "")
	k.Set("telemetry.otlp_insecure", false)
	k.Set("telemetry.otlp_timeout_seconds", 10)

	k.Set("defaults.rounds", 2)
	k.Set("defaults.max_rounds", 5)
	k.Set("defaults.synthesizer", "openai")
	k.Set("defaults.default_panel", []string{"claude", "gemini", "deepseek"})
	k.Set("defaults.full_panel", []string{"claude", "gemini", "deepseek", "openai", "grok"})
	k.Set("defaults.output_dir", "./debates")

	k.Set("inbox.dir", "./inbox")
	k.Set("inbox.archive_dir", "./inbox/archive")

	k.Set("models.claude.sdk", "anthropic")
	k.Set("models.claude.model", "claude-sonnet-4-20250514")
	k.Set("models.claude.api_key_env", "ANTHROPIC_API_KEY")
	k.Set("models.claude.timeout_seconds", 90)
	k.Set("models.claude.max_tokens", 4096)

	k.Set("models.gemini.sdk", "gemini")
	k.Set("models.gemini.model", "gemini-2.5-pro")
	k.Set("models.gemini.api_key_env", "GEMINI_API_KEY")
	k.Set("models.gemini.timeout_seconds", 90)
	k.Set("models.gemini.max_tokens", 4096)

	k.Set("models.openai.sdk", "openai")
	k.Set("models.openai.model", "gpt-4o")
	k.Set("models.openai.api_key_env", "OPENAI_API_KEY")
	k.Set("models.openai.timeout_seconds", 90)
	k.Set("models.openai.max_tokens", 4096)

	k.Set("models.grok.sdk", "xai")
	k.Set("models.grok.model", "grok-3")
	k.Set("models.grok.api_key_env", "XAI_API_KEY")
	k.Set("models.grok.base_url", "https://api.x.ai/v1")
	k.Set("models.grok.timeout_seconds", 90)
	k.Set("models.grok.max_tokens", 4096)

	k.Set("models.deepseek.sdk", "deepseek")
	k.Set("models.deepseek.model", "deepseek-chat")
	k.Set("models.deepseek.api_key_env", "DEEPSEEK_API_KEY")
	k.Set("models.deepseek.base_url", "https://api.deepseek.com/v1")
	k.Set("models.deepseek.timeout_seconds", 90)
	k.Set("models.deepseek.max_tokens", 4096)

	k.Set("prompts.initial", defaultInitialPrompt)
	k.Set("prompts.critique", defaultCritiquePrompt)
	k.Set("prompts.synthesis", defaultSynthesisPrompt)
}

// Load reads configuration from the given file path, applying defaults first
// and environment overrides (COUNCIL_ prefix) last.
func Load(path string) (*Config, error) {
	return load(path, "", nil)
}

// LoadWithProfile loads the base config, then overlays the profile-specific
// file (settings.<profile>.yaml next to the base) when it exists.
func LoadWithProfile(path, profile string) (*Config, error) {
	return load(path, profile, nil)
}

// LoadWithCLI parses --config/--profile/--set style arguments and loads the
// configuration with CLI overrides applied last.
func LoadWithCLI(args []string) (*Config, error) {
	cli, err := parseCLIOverrides(args)
	if err != nil {
		return nil, err
	}
	return load(cli.configPath, cli.profile, cli.sets)
}

func load(path, profile string, sets []string) (*Config, error) {
	k := koanf.New(".")
	setDefaults(k)

	// 1. Load from file, base then profile overlay
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.New(errors.CodeConfig, "failed to load config file", err).
				WithContext("path", path)
		}
		if profilePath := profileConfigPath(path, profile); profilePath != "" {
			if err := k.Load(file.Provider(profilePath), yaml.Parser()); err != nil {
				return nil, errors.New(errors.CodeConfig, "failed to load profile config", err).
					WithContext("path", profilePath)
			}
		}
	}

	// 2. Load from ENV (COUNCIL_LOG_LEVEL -> log.level)
	if err := k.Load(env.Provider("COUNCIL_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "COUNCIL_")), "_", ".", -1)
	}), nil); err != nil {
		return nil, errors.New(errors.CodeConfig, "failed to load environment overrides", err)
	}

	// 3. CLI overrides win
	for _, set := range sets {
		key, value, ok := strings.Cut(set, "=")
		if !ok || key == "" {
			return nil, errors.New(errors.CodeConfig, "invalid --set, expected key=value", nil).
				WithContext("arg", set)
		}
		k.Set(key, parseOverrideValue(value))
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.New(errors.CodeConfig, "failed to unmarshal config", err)
	}

	// Model names come from the map keys
	for name, m := range cfg.Models {
		m.Name = name
		cfg.Models[name] = m
	}

	return &cfg, nil
}

// parseOverrideValue interprets structured --set values. YAML covers JSON
// too, so inline maps and lists work; anything unparseable stays a string.
func parseOverrideValue(value string) interface{} {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var parsed interface{}
		if err := goyaml.Unmarshal([]byte(trimmed), &parsed); err == nil {
			return parsed
		}
	}
	return value
}

type cliArgs struct {
	configPath string
	profile    string
	sets       []string
}

// parseCLIOverrides extracts --config, --profile (alias --env), and --set
// arguments. Both "--flag value" and "--flag=value" forms are accepted;
// unknown arguments are left for the subcommand flag sets.
func parseCLIOverrides(args []string) (cliArgs, error) {
	var cli cliArgs
	for i := 0; i < len(args); i++ {
		arg := args[i]
		var flag, value string
		matched := true

		switch {
		case arg == "--config" || arg == "--profile" || arg == "--env" || arg == "--set":
			flag = arg
			if i+1 >= len(args) {
				return cliArgs{}, errors.New(errors.CodeConfig, "missing value for "+flag, nil)
			}
			i++
			value = args[i]
		case strings.HasPrefix(arg, "--config="):
			flag, value = "--config", strings.TrimPrefix(arg, "--config=")
		case strings.HasPrefix(arg, "--profile="):
			flag, value = "--profile", strings.TrimPrefix(arg, "--profile=")
		case strings.HasPrefix(arg, "--env="):
			flag, value = "--env", strings.TrimPrefix(arg, "--env=")
		case strings.HasPrefix(arg, "--set="):
			flag, value = "--set", strings.TrimPrefix(arg, "--set=")
		default:
			matched = false
		}
		if !matched {
			continue
		}

		switch flag {
		case "--config":
			cli.configPath = value
		case "--profile", "--env":
			cli.profile = value
		case "--set":
			if !strings.Contains(value, "=") {
				return cliArgs{}, errors.New(errors.CodeConfig, "invalid --set, expected key=value", nil).
					WithContext("arg", value)
			}
			cli.sets = append(cli.sets, value)
		}
	}
	return cli, nil
}

// profileConfigPath returns the profile overlay path for the base config, or
// "" when the profile file does not exist.
func profileConfigPath(base, profile string) string {
	if base == "" || profile == "" {
		return ""
	}
	dir := filepath.Dir(base)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(filepath.Base(base), ext)
	p := filepath.Join(dir, name+"."+profile+ext)
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

// Model returns the named backend configuration.
func (c *Config) Model(name string) (ModelConfig, bool) {
	m, ok := c.Models[name]
	return m, ok
}

// ModelNames returns every configured backend name, sorted.
func (c *Config) ModelNames() []string {
	names := make([]string, 0, len(c.Models))
	for name := range c.Models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableModels returns the sorted names of backends whose API keys are
// present in the environment.
func (c *Config) AvailableModels() []string {
	names := make([]string, 0, len(c.Models))
	for name, m := range c.Models {
		if m.Available() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Persona returns the configured persona text for a backend, or "".
func (c *Config) Persona(name string) string {
	return c.Prompts.Personas[name]
}
