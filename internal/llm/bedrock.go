package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/iksnae/webex-summarizer/internal"
)

// bedrockAnthropicVersion is required by Claude models on Bedrock
const bedrockAnthropicVersion = "bedrock-2023-05-31"

// legacyMaxTokens caps the generation length of the legacy request formats
const legacyMaxTokens = 4000

// ModelInvoker is the subset of the Bedrock runtime client used here
type ModelInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockOptions configures NewBedrockClient
type BedrockOptions struct {
	Profile    string
	Region     string
	Model      string
	Params     Params
	Timeout    time.Duration
	MaxRetries int
}

// BedrockClient invokes foundation models through AWS Bedrock
type BedrockClient struct {
	runtime ModelInvoker
	model   string
	family  modelFamily
	params  Params
	timeout time.Duration
}

// NewBedrockClient loads AWS credentials for the profile and region and creates a client
func NewBedrockClient(ctx context.Context, opts BedrockOptions) (*BedrockClient, error) {
	family := familyOf(opts.Model)
	if family == familyUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedModel, opts.Model)
	}

	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
		awsconfig.WithRetryMaxAttempts(opts.MaxRetries + 1),
	}
	if opts.Profile != "" && opts.Profile != "default" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(opts.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	internal.LogDebug("Bedrock client initialized with profile %q and region %s", opts.Profile, region)
	return NewBedrockClientWith(bedrockruntime.NewFromConfig(awsCfg), opts.Model, opts.Params, opts.Timeout)
}

// NewBedrockClientWith creates a client on top of an existing invoker
func NewBedrockClientWith(runtime ModelInvoker, model string, params Params, timeout time.Duration) (*BedrockClient, error) {
	family := familyOf(model)
	if family == familyUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedModel, model)
	}
	return &BedrockClient{
		runtime: runtime,
		model:   model,
		family:  family,
		params:  params,
		timeout: timeout,
	}, nil
}

// Model returns the model ID
func (c *BedrockClient) Model() string {
	return c.model
}

// Generate invokes the model with a request body in the model family's format
func (c *BedrockClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := requestBody(c.family, prompt, c.params)
	if err != nil {
		return "", err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	internal.LogDebug("Invoking %s (%d byte request)", c.model, len(body))
	out, err := c.runtime.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("invoke %s: %w", c.model, err)
	}

	return parseResponse(c.family, out.Body)
}

type modelFamily int

const (
	familyUnknown modelFamily = iota
	familyClaudeMessages
	familyClaudeLegacy
	familyTitan
	familyLlama
)

// familyOf picks the request format of a Bedrock model ID
func familyOf(model string) modelFamily {
	switch {
	case strings.HasPrefix(model, "us.anthropic"),
		strings.Contains(model, "claude-3"),
		strings.Contains(model, "claude-sonnet"),
		strings.Contains(model, "claude-opus"),
		strings.Contains(model, "claude-haiku"):
		return familyClaudeMessages
	case strings.Contains(model, "anthropic.claude"):
		return familyClaudeLegacy
	case strings.Contains(model, "amazon.titan"):
		return familyTitan
	case strings.Contains(model, "meta.llama"):
		return familyLlama
	}
	return familyUnknown
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type claudeMessage struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type claudeMessagesRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	Messages         []claudeMessage `json:"messages"`
	System           string          `json:"system,omitempty"`
	MaxTokens        int             `json:"max_tokens"`
	Temperature      float64         `json:"temperature"`
	TopP             float64         `json:"top_p"`
}

type claudeLegacyRequest struct {
	Prompt            string   `json:"prompt"`
	MaxTokensToSample int      `json:"max_tokens_to_sample"`
	Temperature       float64  `json:"temperature"`
	TopP              float64  `json:"top_p"`
	StopSequences     []string `json:"stop_sequences"`
}

type titanRequest struct {
	InputText            string `json:"inputText"`
	TextGenerationConfig struct {
		MaxTokenCount int     `json:"maxTokenCount"`
		Temperature   float64 `json:"temperature"`
		TopP          float64 `json:"topP"`
	} `json:"textGenerationConfig"`
}

type llamaRequest struct {
	Prompt      string  `json:"prompt"`
	MaxGenLen   int     `json:"max_gen_len"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

func requestBody(family modelFamily, prompt string, p Params) ([]byte, error) {
	var req interface{}
	switch family {
	case familyClaudeMessages:
		req = claudeMessagesRequest{
			AnthropicVersion: bedrockAnthropicVersion,
			Messages: []claudeMessage{{
				Role:    "user",
				Content: []contentBlock{{Type: "text", Text: prompt}},
			}},
			System:      p.system(),
			MaxTokens:   p.maxTokens(),
			Temperature: p.Temperature,
			TopP:        p.TopP,
		}
	case familyClaudeLegacy:
		req = claudeLegacyRequest{
			Prompt:            "\n\nHuman: " + prompt + "\n\nAssistant:",
			MaxTokensToSample: legacyMaxTokens,
			Temperature:       p.Temperature,
			TopP:              p.TopP,
			StopSequences:     []string{"\n\nHuman:"},
		}
	case familyTitan:
		t := titanRequest{InputText: prompt}
		t.TextGenerationConfig.MaxTokenCount = legacyMaxTokens
		t.TextGenerationConfig.Temperature = p.Temperature
		t.TextGenerationConfig.TopP = p.TopP
		req = t
	case familyLlama:
		req = llamaRequest{
			Prompt:      prompt,
			MaxGenLen:   legacyMaxTokens,
			Temperature: p.Temperature,
			TopP:        p.TopP,
		}
	default:
		return nil, ErrUnsupportedModel
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	return body, nil
}

type bedrockResponse struct {
	Content    []contentBlock `json:"content"`
	Completion string         `json:"completion"`
	Generation string         `json:"generation"`
	Results    []struct {
		OutputText string `json:"outputText"`
	} `json:"results"`
}

func parseResponse(family modelFamily, body []byte) (string, error) {
	var resp bedrockResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	var text string
	switch family {
	case familyClaudeMessages:
		var sb strings.Builder
		for _, block := range resp.Content {
			sb.WriteString(block.Text)
		}
		text = sb.String()
	case familyClaudeLegacy:
		text = resp.Completion
	case familyTitan:
		if len(resp.Results) > 0 {
			text = resp.Results[0].OutputText
		}
	case familyLlama:
		text = resp.Generation
	default:
		return "", ErrUnsupportedModel
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
