// Copyright 2026 © The Council Authors
// SPDX-License-Identifier: Apache-2.0

package scaffold

const councilYAMLTemplate = `# {{.ProjectName}} council configuration

log:
  level: "info"
  format: "text"

telemetry:
  exporter: "none"
  # exporter: "otlp"
  # otlp_endpoint: "localhost:4317"
  # otlp_insecure: true

defaults:
  rounds: 2
  max_rounds: 5
  synthesizer: "openai"
  default_panel: [claude, gemini, deepseek]
  full_panel: [claude, gemini, deepseek, openai, grok]
  output_dir: "./debates"

inbox:
  dir: "./inbox"
  archive_dir: "./inbox/archive"

models:
  claude:
    sdk: "anthropic"
    model: "claude-sonnet-4-20250514"
    api_key_env: "ANTHROPIC_API_KEY"
    timeout_seconds: 90
    max_tokens: 4096
  gemini:
    sdk: "gemini"
    model: "gemini-2.5-pro"
    api_key_env: "GEMINI_API_KEY"
    timeout_seconds: 90
    max_tokens: 4096
  openai:
    sdk: "openai"
    model: "gpt-4o"
    api_key_env: "OPENAI_API_KEY"
    timeout_seconds: 90
    max_tokens: 4096
  grok:
    sdk: "xai"
    model: "grok-3"
    api_key_env: "XAI_API_KEY"
    base_url: "https://api.x.ai/v1"
    timeout_seconds: 90
    max_tokens: 4096
  deepseek:
    sdk: "deepseek"
    model: "deepseek-chat"
    api_key_env: "DEEPSEEK_API_KEY"
    base_url: "https://api.deepseek.com/v1"
    timeout_seconds: 90
    max_tokens: 4096

# Per-backend personas injected into the debate prompts, keyed by backend
# name. Leave empty for neutral voices.
prompts:
  personas: {}
  # personas:
  #   claude: "You argue from first principles."
  #   gemini: "You favor empirical evidence over theory."
`

const envExampleTemplate = `# API keys for the council backends. Copy to .env and fill in the ones
# you want on the panel; backends without a key are skipped.
ANTHROPIC_API_KEY=
GEMINI_API_KEY=
OPENAI_API_KEY=
XAI_API_KEY=
DEEPSEEK_API_KEY=
`

const gitignoreTemplate = `.env
debates/
inbox/archive/
`

const readmeTemplate = `# {{.ProjectName}}

A Council workspace. Multiple LLMs debate your questions over several
rounds, then one of them synthesizes the final answer.

## Setup

1. Copy ` + "`.env.example`" + ` to ` + "`.env`" + ` and add at least two API keys.
2. Check the workspace: ` + "`council --config council.yaml validate`" + `

## Usage

Ask a question directly:

    council --config council.yaml ask "Should we adopt a monorepo?"

Or drop question files into ` + "`inbox/`" + ` and process the batch:

    council --config council.yaml inbox

Transcripts land in ` + "`debates/`" + `; processed questions move to
` + "`inbox/archive/`" + `.
`

const exampleQuestionTemplate = `---
rounds: 2
---
What single change would most improve the reliability of a small web
service, assuming a team of three and no dedicated ops?
`
