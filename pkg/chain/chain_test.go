package chain

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/OFFIS-RIT/cubeql/pkg/ai"
)

type fakeClient struct {
	reply    string
	err      error
	calls    int
	messages []ai.ChatMessage
	options  ai.GenerateOptions
}

func (f *fakeClient) GenerateChat(_ context.Context, msgs []ai.ChatMessage, opts ...ai.GenerateOption) (string, error) {
	f.calls++
	f.messages = msgs
	f.options = ai.ApplyOptions(ai.GenerateOptions{}, opts...)
	return f.reply, f.err
}

func (f *fakeClient) ResetMetrics()               {}
func (f *fakeClient) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

type recordingHandler struct {
	events []string
}

func (r *recordingHandler) OnChainStart(name string, _ map[string]string) {
	r.events = append(r.events, "start:"+name)
}
func (r *recordingHandler) OnText(name string, _ string) { r.events = append(r.events, "text:"+name) }
func (r *recordingHandler) OnChainEnd(name string, _ string) {
	r.events = append(r.events, "end:"+name)
}
func (r *recordingHandler) OnChainError(name string, _ error) {
	r.events = append(r.events, "error:"+name)
}

func TestPromptVariables(t *testing.T) {
	sel, err := SelectionPrompt(SelectionDefault)
	if err != nil {
		t.Fatalf("SelectionPrompt() error = %v", err)
	}
	if got, want := sel.Variables(), []string{"cubes", "question"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("selection variables = %v, want %v", got, want)
	}

	gen := GenerationPrompt()
	want := []string{"cube", "cube_and_sample", "dimensions_triplets", "question"}
	if got := gen.Variables(); !reflect.DeepEqual(got, want) {
		t.Fatalf("generation variables = %v, want %v", got, want)
	}
}

func TestPromptFormat(t *testing.T) {
	p := Prompt{
		{Role: ai.RoleSystem, Template: "cubes: {{cubes}}"},
		{Role: ai.RoleUser, Template: "WHERE {\n{{cube}} a cube:Cube .\n}"},
	}

	msgs, err := p.Format(map[string]string{
		"cubes": "literal {{cube}} stays",
		"cube":  "<http://example.org/cubeA>",
	})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := []ai.ChatMessage{
		{Role: ai.RoleSystem, Message: "cubes: literal {{cube}} stays"},
		{Role: ai.RoleUser, Message: "WHERE {\n<http://example.org/cubeA> a cube:Cube .\n}"},
	}
	if !reflect.DeepEqual(msgs, want) {
		t.Fatalf("Format() = %#v, want %#v", msgs, want)
	}
}

func TestPromptFormat_MissingVariable(t *testing.T) {
	p := Prompt{{Role: ai.RoleUser, Template: "{{question}}"}}
	_, err := p.Format(map[string]string{})
	if !errors.Is(err, ErrMissingVariable) {
		t.Fatalf("Format() error = %v, want ErrMissingVariable", err)
	}
}

func TestGenerationPrompt_Order(t *testing.T) {
	msgs, err := GenerationPrompt().Format(map[string]string{
		"cube_and_sample":     "SAMPLE",
		"dimensions_triplets": "DIMS",
		"cube":                "<http://example.org/cubeA>",
		"question":            "total emissions in 2010",
	})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	roles := []string{}
	for _, m := range msgs {
		roles = append(roles, m.Role)
	}
	if want := []string{"system", "system", "user", "system"}; !reflect.DeepEqual(roles, want) {
		t.Fatalf("roles = %v, want %v", roles, want)
	}
	if !strings.Contains(msgs[0].Message, "SAMPLE") || !strings.Contains(msgs[1].Message, "DIMS") {
		t.Fatalf("sample/dimensions not rendered: %#v", msgs[:2])
	}
	req := msgs[2].Message
	if strings.Count(req, "<http://example.org/cubeA>") != 2 {
		t.Fatalf("cube should appear in the base query and the request:\n%s", req)
	}
	if !strings.Contains(req, "to get total emissions in 2010 for this cube") {
		t.Fatalf("question not rendered:\n%s", req)
	}
	if strings.Contains(req, "{{") {
		t.Fatalf("unrendered placeholder:\n%s", req)
	}
}

func TestSelectionPrompt_UnknownVariant(t *testing.T) {
	if _, err := SelectionPrompt("fancy"); err == nil {
		t.Fatal("SelectionPrompt() expected error")
	}
}

func TestChainInvoke(t *testing.T) {
	client := &fakeClient{reply: "<http://example.org/cubeA>"}
	handler := &recordingHandler{}

	c, err := NewSelectionChain(client, DefaultSelectionProfile, SelectionStrict, handler)
	if err != nil {
		t.Fatalf("NewSelectionChain() error = %v", err)
	}

	got, err := c.Invoke(context.Background(), map[string]string{"cubes": "catalog", "question": "q"})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if got != "<http://example.org/cubeA>" {
		t.Fatalf("Invoke() = %q", got)
	}
	if client.options.Temperature != 0.5 || client.options.TopP != 0.5 || client.options.Model != "gpt-4o-mini" {
		t.Fatalf("profile not applied: %+v", client.options)
	}
	if len(client.messages) != 2 || !strings.Contains(client.messages[0].Message, "90%+") {
		t.Fatalf("strict prompt not used: %#v", client.messages)
	}

	want := []string{"start:cube_selection", "text:cube_selection", "end:cube_selection"}
	if !reflect.DeepEqual(handler.events, want) {
		t.Fatalf("events = %v, want %v", handler.events, want)
	}
}

func TestChainInvoke_ClientError(t *testing.T) {
	boom := errors.New("boom")
	client := &fakeClient{err: boom}
	handler := &recordingHandler{}
	c := NewGenerationChain(client, DefaultGenerationProfile, handler)

	_, err := c.Invoke(context.Background(), map[string]string{
		"cube_and_sample": "", "dimensions_triplets": "", "cube": "<c>", "question": "q",
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Invoke() error = %v, want boom", err)
	}
	if want := []string{"start:query_generation", "error:query_generation"}; !reflect.DeepEqual(handler.events, want) {
		t.Fatalf("events = %v, want %v", handler.events, want)
	}
}

func TestChainInvoke_MissingVariableSkipsModel(t *testing.T) {
	client := &fakeClient{}
	c := NewGenerationChain(client, DefaultGenerationProfile, nil)

	if _, err := c.Invoke(context.Background(), map[string]string{"question": "q"}); !errors.Is(err, ErrMissingVariable) {
		t.Fatalf("Invoke() error = %v, want ErrMissingVariable", err)
	}
	if client.calls != 0 {
		t.Fatalf("model called %d times, want 0", client.calls)
	}
}
