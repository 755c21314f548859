package ai

// Pricing is the cost in USD per million tokens.
type Pricing struct {
	Prompt     float64 `json:"prompt"`
	Completion float64 `json:"completion"`
}

// Model describes a chat model reachable through OpenRouter.
type Model struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Provider      string   `json:"provider"`
	Description   string   `json:"description"`
	ContextLength int      `json:"contextLength"`
	Pricing       Pricing  `json:"pricing"`
	Capabilities  []string `json:"capabilities"`
}

var catalogue = []Model{
	{"gpt-4o-mini", "GPT-4o Mini", "OpenAI", "Fast, cost-effective GPT-4 variant", 128000, Pricing{0.15, 0.6}, []string{"chat", "coding", "analysis"}},
	{"gpt-3.5-turbo", "GPT-3.5 Turbo", "OpenAI", "Reliable and efficient for most tasks", 16384, Pricing{0.5, 1.5}, []string{"chat", "writing", "general"}},
	{"anthropic/claude-3-haiku", "Claude 3 Haiku", "Anthropic", "Fast and thoughtful responses", 200000, Pricing{0.25, 1.25}, []string{"chat", "analysis", "writing"}},
	{"anthropic/claude-3.5-sonnet", "Claude 3.5 Sonnet", "Anthropic", "Advanced reasoning and coding", 200000, Pricing{3, 15}, []string{"chat", "coding", "reasoning", "analysis"}},
	{"google/gemini-flash-1.5", "Gemini Flash 1.5", "Google", "Fast multimodal AI model", 1000000, Pricing{0.075, 0.3}, []string{"chat", "multimodal", "analysis"}},
	{"google/gemini-pro-1.5", "Gemini Pro 1.5", "Google", "Advanced multimodal capabilities", 2000000, Pricing{1.25, 5}, []string{"chat", "multimodal", "reasoning", "analysis"}},
	{"x-ai/grok-beta", "Grok Beta", "xAI", "Witty and real-time aware", 131072, Pricing{5, 15}, []string{"chat", "real-time", "humor"}},
	{"deepseek/deepseek-chat", "DeepSeek Chat", "DeepSeek", "Efficient and cost-effective", 32768, Pricing{0.14, 0.28}, []string{"chat", "reasoning", "coding"}},
}

// Models returns the selectable models.
func Models() []Model {
	out := make([]Model, len(catalogue))
	copy(out, catalogue)
	return out
}

// FindModel looks up a model by id.
func FindModel(id string) (Model, bool) {
	for _, m := range catalogue {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}
