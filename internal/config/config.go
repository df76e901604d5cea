// Package config 负责加载和管理 casectl 的配置。
// 配置来源优先级（从高到低）：
// 1. CLI flags（在 cmd 层合并）
// 2. 环境变量（DEEPSEEK_API_KEY, DEEPSEEK_API_BASE, ANTHROPIC_API_KEY 等）
// 3. --config flag 指定的配置文件路径
// 4. ~/.config/casectl/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProviderConfig 单个 provider 的配置
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// Config 是 casectl 的完整配置结构
type Config struct {
	// Provider 当前使用的 provider 名称（如 "deepseek", "anthropic"）
	Provider string `yaml:"provider"`

	// Model 当前使用的模型（覆盖 provider 默认模型）
	Model string `yaml:"model"`

	// Providers 各 provider 的具体配置
	Providers map[string]*ProviderConfig `yaml:"providers"`

	// OutputDir 保存 record JSON 文件的目录
	OutputDir string `yaml:"output_dir"`

	// Field 题目领域标签，写入每条 record
	Field string `yaml:"field"`

	// ChineseCharacteristics 题目是否具有中国特色（"是"/"否"）
	ChineseCharacteristics string `yaml:"chinese_characteristics"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Provider:               "deepseek",
		Providers:              make(map[string]*ProviderConfig),
		OutputDir:              "data",
		Field:                  "法律/金融/资本市场/证券与上市(IPO)",
		ChineseCharacteristics: "是",
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "casectl", "config.yaml")
}

// Load 加载配置文件，合并环境变量覆盖
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath == "" {
		configPath = DefaultPath()
	}

	// 读取配置文件（不存在时使用默认配置）
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
		}
	}

	applyEnvOverrides(cfg)

	if cfg.Providers == nil {
		cfg.Providers = make(map[string]*ProviderConfig)
	}

	return cfg, nil
}

// GetProviderConfig 获取指定 provider 的配置，不存在时返回空配置
func (c *Config) GetProviderConfig(name string) *ProviderConfig {
	if pc, ok := c.Providers[name]; ok {
		return pc
	}
	return &ProviderConfig{}
}

func (c *Config) ensureProvider(name string) *ProviderConfig {
	if c.Providers == nil {
		c.Providers = make(map[string]*ProviderConfig)
	}
	if c.Providers[name] == nil {
		c.Providers[name] = &ProviderConfig{}
	}
	return c.Providers[name]
}

// applyEnvOverrides 将环境变量覆盖到配置中
func applyEnvOverrides(cfg *Config) {
	// DeepSeek 专用（默认 provider）
	if v := os.Getenv("DEEPSEEK_API_KEY"); v != "" {
		cfg.ensureProvider("deepseek").APIKey = v
	}
	if v := os.Getenv("DEEPSEEK_API_BASE"); v != "" {
		cfg.ensureProvider("deepseek").BaseURL = v
	}

	// Anthropic 专用
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.ensureProvider("anthropic").APIKey = v
	}

	// Provider / 模型 / 输出目录选择
	if v := os.Getenv("CASECTL_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("CASECTL_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("CASECTL_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
}
