package debate

import (
	"strconv"
	"strings"

	"github.com/jllopis/council/pkg/errors"
)

// Prompts holds the debate prompt templates. Placeholders use the {name}
// form and are substituted by name; unknown placeholders stay verbatim so
// template typos remain visible in the rendered prompt.
type Prompts struct {
	Initial   string
	Critique  string
	Synthesis string

	// Personas optionally prefixes a backend's prompts with a role text,
	// keyed by backend name.
	Personas map[string]string
}

// RenderInitial builds the round-one prompt for a backend.
func (p Prompts) RenderInitial(question, backend string) string {
	return renderTemplate(p.Initial, map[string]string{
		"question": question,
		"persona":  p.persona(backend),
	})
}

// RenderCritique builds the prompt for rounds after the first, feeding the
// backend the anonymized block of the previous round.
func (p Prompts) RenderCritique(question string, round int, anonymized, backend string) string {
	return renderTemplate(p.Critique, map[string]string{
		"question":                      question,
		"round":                         strconv.Itoa(round),
		"previous_responses_anonymized": anonymized,
		"persona":                       p.persona(backend),
	})
}

// RenderSynthesis builds the synthesizer prompt from the full transcript.
func (p Prompts) RenderSynthesis(question string, rounds int, transcript string) string {
	return renderTemplate(p.Synthesis, map[string]string{
		"question":        question,
		"rounds":          strconv.Itoa(rounds),
		"full_transcript": transcript,
	})
}

// Validate reports templates that lack a placeholder the pipeline depends
// on.
func (p Prompts) Validate() error {
	checks := []struct {
		name     string
		template string
		required []string
	}{
		{"initial", p.Initial, []string{"{question}"}},
		{"critique", p.Critique, []string{"{question}", "{previous_responses_anonymized}"}},
		{"synthesis", p.Synthesis, []string{"{question}", "{full_transcript}"}},
	}
	for _, c := range checks {
		for _, token := range c.required {
			if !strings.Contains(c.template, token) {
				return errors.New(errors.CodeConfig, "prompt template missing placeholder", nil).
					WithContext("template", c.name).
					WithContext("placeholder", token)
			}
		}
	}
	return nil
}

// persona returns the persona block for a backend: the configured text
// followed by a blank line, or "" when none is configured.
func (p Prompts) persona(backend string) string {
	text := strings.TrimSpace(p.Personas[backend])
	if text == "" {
		return ""
	}
	return text + "\n\n"
}

func renderTemplate(tmpl string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
