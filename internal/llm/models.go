package llm

// ModelInfo describes a model the tool knows how to call
type ModelInfo struct {
	ID            string
	Name          string
	Provider      string // client provider: "bedrock", "anthropic" or "openai"
	Vendor        string
	ContextWindow int
}

var knownModels = []ModelInfo{
	{ID: "us.anthropic.claude-sonnet-4-20250514-v1:0", Name: "Claude Sonnet 4", Provider: "bedrock", Vendor: "Anthropic", ContextWindow: 200000},
	{ID: "anthropic.claude-3-sonnet-20240229-v1:0", Name: "Claude 3 Sonnet", Provider: "bedrock", Vendor: "Anthropic", ContextWindow: 200000},
	{ID: "anthropic.claude-3-haiku-20240307-v1:0", Name: "Claude 3 Haiku", Provider: "bedrock", Vendor: "Anthropic", ContextWindow: 200000},
	{ID: "anthropic.claude-3-opus-20240229-v1:0", Name: "Claude 3 Opus", Provider: "bedrock", Vendor: "Anthropic", ContextWindow: 200000},
	{ID: "anthropic.claude-v2", Name: "Claude v2 (Legacy)", Provider: "bedrock", Vendor: "Anthropic", ContextWindow: 100000},
	{ID: "anthropic.claude-v2:1", Name: "Claude v2.1 (Legacy)", Provider: "bedrock", Vendor: "Anthropic", ContextWindow: 200000},
	{ID: "amazon.titan-text-express-v1", Name: "Titan Text Express", Provider: "bedrock", Vendor: "Amazon", ContextWindow: 8192},
	{ID: "meta.llama2-13b-chat-v1", Name: "Llama 2 13B Chat", Provider: "bedrock", Vendor: "Meta", ContextWindow: 4096},
	{ID: "claude-sonnet-4-20250514", Name: "Claude Sonnet 4", Provider: "anthropic", Vendor: "Anthropic", ContextWindow: 200000},
	{ID: "claude-3-5-haiku-20241022", Name: "Claude 3.5 Haiku", Provider: "anthropic", Vendor: "Anthropic", ContextWindow: 200000},
	{ID: "gpt-4o", Name: "GPT-4o", Provider: "openai", Vendor: "OpenAI", ContextWindow: 128000},
	{ID: "gpt-4o-mini", Name: "GPT-4o mini", Provider: "openai", Vendor: "OpenAI", ContextWindow: 128000},
}

// KnownModels returns the model catalog, optionally restricted to one provider
func KnownModels(provider string) []ModelInfo {
	models := make([]ModelInfo, 0, len(knownModels))
	for _, m := range knownModels {
		if provider == "" || m.Provider == provider {
			models = append(models, m)
		}
	}
	return models
}

// LookupModel finds a model by ID
func LookupModel(id string) (ModelInfo, bool) {
	for _, m := range knownModels {
		if m.ID == id {
			return m, true
		}
	}
	return ModelInfo{}, false
}
