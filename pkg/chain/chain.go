// Package chain binds conversational prompt templates to a chat model call.
package chain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/OFFIS-RIT/cubeql/pkg/ai"

	"github.com/valyala/fasttemplate"
)

// Placeholder delimiters. SPARQL uses single braces, so placeholders are {{name}}.
const (
	startTag = "{{"
	endTag   = "}}"
)

var ErrMissingVariable = errors.New("missing prompt variable")

// Message is one role-tagged template of a prompt.
type Message struct {
	Role     string
	Template string
}

// Prompt is an ordered list of message templates.
type Prompt []Message

// Variables returns the sorted set of placeholder names used by p.
func (p Prompt) Variables() []string {
	seen := map[string]struct{}{}
	for _, m := range p {
		t, err := fasttemplate.NewTemplate(m.Template, startTag, endTag)
		if err != nil {
			continue
		}
		t.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
			seen[tag] = struct{}{}
			return 0, nil
		})
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Format renders every message with vars. Values are inserted as is and
// never re-scanned for placeholders.
func (p Prompt) Format(vars map[string]string) ([]ai.ChatMessage, error) {
	for _, name := range p.Variables() {
		if _, ok := vars[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingVariable, name)
		}
	}

	values := make(map[string]any, len(vars))
	for k, v := range vars {
		values[k] = v
	}

	msgs := make([]ai.ChatMessage, 0, len(p))
	for _, m := range p {
		msgs = append(msgs, ai.ChatMessage{
			Role:    m.Role,
			Message: fasttemplate.ExecuteStringStd(m.Template, startTag, endTag, values),
		})
	}
	return msgs, nil
}

// Profile holds the sampling parameters of a chain.
type Profile struct {
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	TopP        float64 `yaml:"top_p"`
}

func (p Profile) options() []ai.GenerateOption {
	opts := []ai.GenerateOption{
		ai.WithTemperature(p.Temperature),
		ai.WithTopP(p.TopP),
	}
	if p.Model != "" {
		opts = append(opts, ai.WithModel(p.Model))
	}
	return opts
}

// Chain is a prompt bound to a model call. A Chain holds no per-call state
// and can be shared between goroutines.
type Chain struct {
	Name    string
	Prompt  Prompt
	Profile Profile
	Client  ai.ChatClient
	Handler Handler
}

// Invoke renders the prompt with vars and returns the model's completion.
func (c *Chain) Invoke(ctx context.Context, vars map[string]string) (string, error) {
	h := c.Handler
	if h == nil {
		h = NopHandler{}
	}

	h.OnChainStart(c.Name, vars)

	msgs, err := c.Prompt.Format(vars)
	if err != nil {
		h.OnChainError(c.Name, err)
		return "", err
	}

	text, err := c.Client.GenerateChat(ctx, msgs, c.Profile.options()...)
	if err != nil {
		h.OnChainError(c.Name, err)
		return "", err
	}

	h.OnText(c.Name, text)
	h.OnChainEnd(c.Name, text)
	return text, nil
}
