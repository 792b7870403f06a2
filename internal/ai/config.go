// Package ai talks to chat-completion providers: it generates raw task plans
// from natural-language instructions and answers the vision locator's
// coordinate queries.
package ai

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"deskpilot/pkg/utils"
)

// Supported provider types.
const (
	ProviderOpenAI   = "openai"
	ProviderAzure    = "azure"
	ProviderDeepSeek = "deepseek"
	ProviderGroq     = "groq"
)

// apiKeyEnv names the environment variable consulted when a provider config
// carries no key.
var apiKeyEnv = map[string]string{
	ProviderOpenAI:   "OPENAI_API_KEY",
	ProviderAzure:    "AZURE_OPENAI_API_KEY",
	ProviderDeepSeek: "DEEPSEEK_API_KEY",
	ProviderGroq:     "GROQ_API_KEY",
}

// Config is one provider's settings.
type Config struct {
	Type        string `json:"type"`
	APIKey      string `json:"api_key"`
	Model       string `json:"model"`
	VisionModel string `json:"vision_model"` // model used for locator queries
	Endpoint    string `json:"endpoint"`
	APIVersion  string `json:"api_version"` // Azure specific
	ProxyURL    string `json:"proxy_url"`
}

// Configs is the saved set of provider configurations.
type Configs struct {
	Configs map[string]Config `json:"configs"`
	Current string            `json:"current"`
}

// configFile is the provider configuration path.
var configFile string

func init() {
	configFile = filepath.Join(utils.GetConfigDir(), "ai_configs.json")
	// Keys may live in a .env next to the binary; missing file is fine.
	_ = godotenv.Load()
}

func defaultConfig(provider string) Config {
	config := Config{Type: provider}
	switch provider {
	case ProviderOpenAI:
		config.Model = "gpt-4o-mini"
		config.VisionModel = "gpt-4o"
	case ProviderAzure:
		config.Model = "gpt-4o-mini"
		config.APIVersion = "2024-02-15-preview"
	case ProviderDeepSeek:
		config.Model = "deepseek-chat"
	case ProviderGroq:
		config.Model = "llama-3.3-70b-versatile"
	}
	return config
}

// LoadConfig returns the currently selected provider configuration, with the
// API key falling back to the provider's environment variable.
func LoadConfig() (Config, error) {
	configs, err := LoadAllConfigs()
	if err != nil {
		return Config{}, err
	}

	config, ok := configs.Configs[configs.Current]
	if !ok || config.Type == "" {
		config = defaultConfig(ProviderOpenAI)
	}
	if config.APIKey == "" {
		config.APIKey = os.Getenv(apiKeyEnv[config.Type])
	}
	return config, nil
}

// LoadAllConfigs reads the saved provider set, seeding a default when no
// configuration file exists yet.
func LoadAllConfigs() (Configs, error) {
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return Configs{
			Configs: map[string]Config{ProviderOpenAI: defaultConfig(ProviderOpenAI)},
			Current: ProviderOpenAI,
		}, nil
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return Configs{}, fmt.Errorf("read ai config: %w", err)
	}

	var configs Configs
	if err := json.Unmarshal(data, &configs); err != nil {
		return Configs{}, fmt.Errorf("parse ai config: %w", err)
	}
	if configs.Configs == nil {
		configs.Configs = make(map[string]Config)
	}
	return configs, nil
}

// SaveConfig stores the provider configuration and makes it current.
func SaveConfig(config Config) error {
	configs, err := LoadAllConfigs()
	if err != nil {
		return err
	}
	configs.Configs[config.Type] = config
	configs.Current = config.Type
	return writeConfigs(configs)
}

// SwitchProvider makes the named provider current, seeding a default
// configuration for it when none exists.
func SwitchProvider(provider string) (Config, error) {
	configs, err := LoadAllConfigs()
	if err != nil {
		return Config{}, err
	}

	config, ok := configs.Configs[provider]
	if !ok {
		config = defaultConfig(provider)
		configs.Configs[provider] = config
	}
	configs.Current = provider

	if err := writeConfigs(configs); err != nil {
		return config, err
	}
	return config, nil
}

func writeConfigs(configs Configs) error {
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(configs, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize ai config: %w", err)
	}
	if err := os.WriteFile(configFile, data, 0644); err != nil {
		return fmt.Errorf("save ai config: %w", err)
	}
	return nil
}
