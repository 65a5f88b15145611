package suggest

import (
	"fmt"

	"github.com/dgallion1/freewrite/internal/config"
	"github.com/dgallion1/freewrite/internal/editor"
)

// FromConfig builds the configured provider's source. It also returns the
// model name for stats output.
func FromConfig(cfg config.Config) (editor.Source, string, error) {
	switch cfg.Provider {
	case config.ProviderAnthropic, "":
		c := NewClaudeClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.LLMTimeout)
		return c, c.model, nil
	case config.ProviderOpenAI:
		c, err := NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
		if err != nil {
			return nil, "", err
		}
		return c, c.model, nil
	}
	return nil, "", fmt.Errorf("unknown provider %q", cfg.Provider)
}
