package llm

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/yoshii001/Content-Generator/internal/config"
)

// Factory creates LLM clients with consistent logic
type Factory struct {
	HuggingFaceAPIKey   string
	HuggingFaceModelURL string
	OpenaiAPIKey        string
	OpenaiBaseURL       string
	OpenaiModel         string
	OpenRouterReferrer  string
	OpenRouterTitle     string
	YandexOAuthToken    string
	YandexFolderID      string
	HTTPClient          *http.Client
}

func NewFactory(cfg *config.Config) *Factory {
	return &Factory{
		HuggingFaceAPIKey:   cfg.HuggingFaceAPIKey,
		HuggingFaceModelURL: cfg.HuggingFaceModelURL,
		OpenaiAPIKey:        cfg.OpenAIAPIKey,
		OpenaiBaseURL:       cfg.OpenAIBaseURL,
		OpenaiModel:         cfg.OpenAIModel,
		OpenRouterReferrer:  cfg.OpenRouterReferrer,
		OpenRouterTitle:     cfg.OpenRouterTitle,
		YandexOAuthToken:    cfg.YandexOAuthToken,
		YandexFolderID:      cfg.YandexFolderID,
	}
}

func (f *Factory) CreateClient(provider string) (Client, error) {
	switch config.LLMProvider(strings.ToLower(provider)) {
	case config.ProviderHuggingFace:
		return NewHuggingFace(f.HuggingFaceAPIKey, f.HuggingFaceModelURL, f.HTTPClient), nil
	case config.ProviderOpenAI:
		if f.OpenaiAPIKey == "" {
			return nil, fmt.Errorf("openai: %w", ErrMissingCredentials)
		}
		return NewOpenAI(f.OpenaiAPIKey, f.OpenaiBaseURL, f.OpenaiModel, f.OpenRouterReferrer, f.OpenRouterTitle), nil
	case config.ProviderYandex:
		return NewYandex(f.YandexOAuthToken, f.YandexFolderID)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", provider)
	}
}

// ModelName reports the model a provider will be asked for, for status output.
func (f *Factory) ModelName(provider string) string {
	switch config.LLMProvider(strings.ToLower(provider)) {
	case config.ProviderHuggingFace:
		return NewHuggingFace("", f.HuggingFaceModelURL, nil).modelName()
	case config.ProviderOpenAI:
		return f.OpenaiModel
	case config.ProviderYandex:
		return "yandexgpt-lite"
	default:
		return ""
	}
}
