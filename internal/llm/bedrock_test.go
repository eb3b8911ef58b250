package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

type fakeInvoker struct {
	input *bedrockruntime.InvokeModelInput
	body  string
	err   error
}

func (f *fakeInvoker) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: []byte(f.body)}, nil
}

func TestFamilyOf(t *testing.T) {
	tests := []struct {
		model string
		want  modelFamily
	}{
		{"us.anthropic.claude-sonnet-4-20250514-v1:0", familyClaudeMessages},
		{"anthropic.claude-3-haiku-20240307-v1:0", familyClaudeMessages},
		{"anthropic.claude-v2", familyClaudeLegacy},
		{"anthropic.claude-v2:1", familyClaudeLegacy},
		{"amazon.titan-text-express-v1", familyTitan},
		{"meta.llama2-13b-chat-v1", familyLlama},
		{"cohere.command-text-v14", familyUnknown},
	}
	for _, tt := range tests {
		if got := familyOf(tt.model); got != tt.want {
			t.Errorf("familyOf(%q) = %v, want %v", tt.model, got, tt.want)
		}
	}
}

func TestBedrockMessagesAPI(t *testing.T) {
	inv := &fakeInvoker{body: `{"content":[{"type":"text","text":"Summary"}]}`}
	c, err := NewBedrockClientWith(inv, "anthropic.claude-3-sonnet-20240229-v1:0", Params{MaxTokens: 4096, Temperature: 0.7, TopP: 0.9}, 0)
	if err != nil {
		t.Fatalf("NewBedrockClientWith() error = %v", err)
	}

	out, err := c.Generate(context.Background(), "prompt text")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if out != "Summary" {
		t.Errorf("Generate() = %q, want Summary", out)
	}

	if aws.ToString(inv.input.ModelId) != "anthropic.claude-3-sonnet-20240229-v1:0" {
		t.Errorf("ModelId = %q", aws.ToString(inv.input.ModelId))
	}
	var req claudeMessagesRequest
	if err := json.Unmarshal(inv.input.Body, &req); err != nil {
		t.Fatalf("request body is not JSON: %v", err)
	}
	if req.AnthropicVersion != bedrockAnthropicVersion {
		t.Errorf("anthropic_version = %q", req.AnthropicVersion)
	}
	if req.MaxTokens != 4096 || req.System != DefaultSystemPrompt {
		t.Errorf("request = %+v", req)
	}
	if len(req.Messages) != 1 || req.Messages[0].Content[0].Text != "prompt text" {
		t.Errorf("messages = %+v", req.Messages)
	}
}

func TestBedrockLegacyFormats(t *testing.T) {
	tests := []struct {
		model    string
		response string
		bodyKey  string
	}{
		{"anthropic.claude-v2", `{"completion":" answer"}`, "prompt"},
		{"amazon.titan-text-express-v1", `{"results":[{"outputText":" answer"}]}`, "inputText"},
		{"meta.llama2-13b-chat-v1", `{"generation":" answer"}`, "max_gen_len"},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			inv := &fakeInvoker{body: tt.response}
			c, err := NewBedrockClientWith(inv, tt.model, Params{}, 0)
			if err != nil {
				t.Fatalf("NewBedrockClientWith() error = %v", err)
			}
			out, err := c.Generate(context.Background(), "q")
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if out != " answer" {
				t.Errorf("Generate() = %q, want %q", out, " answer")
			}

			var body map[string]interface{}
			if err := json.Unmarshal(inv.input.Body, &body); err != nil {
				t.Fatalf("request body is not JSON: %v", err)
			}
			if _, ok := body[tt.bodyKey]; !ok {
				t.Errorf("request body %v lacks %q", body, tt.bodyKey)
			}
		})
	}
}

func TestBedrockErrors(t *testing.T) {
	if _, err := NewBedrockClientWith(&fakeInvoker{}, "cohere.command-text-v14", Params{}, 0); !errors.Is(err, ErrUnsupportedModel) {
		t.Errorf("unsupported model error = %v, want ErrUnsupportedModel", err)
	}

	boom := errors.New("throttled")
	c, _ := NewBedrockClientWith(&fakeInvoker{err: boom}, "anthropic.claude-v2", Params{}, 0)
	if _, err := c.Generate(context.Background(), "q"); !errors.Is(err, boom) {
		t.Errorf("Generate() error = %v, want wrapped %v", err, boom)
	}

	c, _ = NewBedrockClientWith(&fakeInvoker{body: `{"content":[]}`}, "us.anthropic.claude-sonnet-4-20250514-v1:0", Params{}, 0)
	if _, err := c.Generate(context.Background(), "q"); !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("Generate() error = %v, want ErrEmptyResponse", err)
	}
}
