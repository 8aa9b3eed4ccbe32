package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type StoreConfig struct {
	Backend    string `yaml:"backend"` // local or chroma
	LocalDir   string `yaml:"local_dir"`
	ChromaAddr string `yaml:"chroma_addr"`
	DocsName   string `yaml:"docs_name"`
	URLsName   string `yaml:"urls_name"`
}

type OpenAIConfig struct {
	ApiKey      string  `yaml:"api_key"`
	EmbedModel  string  `yaml:"embed_model"`
	ChatModel   string  `yaml:"chat_model"`
	Temperature float32 `yaml:"temperature"`
}

type Config struct {
	LogFile    string       `yaml:"log"`
	DocsFolder string       `yaml:"docs_folder"`
	URLs       []string     `yaml:"urls"`
	Results    int          `yaml:"results"`
	TimeoutSec int          `yaml:"request_timeout_sec"`
	ServerAddr string       `yaml:"server_addr"`
	Store      StoreConfig  `yaml:"store"`
	OpenAI     OpenAIConfig `yaml:"open_ai"`
}

func readConfig(cfgPath string) (*Config, error) {
	cfgFile, err := os.Open(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("unable to open config file: %w", err)
	}
	defer cfgFile.Close()

	cfg := &Config{}
	dec := yaml.NewDecoder(cfgFile)
	err = dec.Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Results <= 0 {
		cfg.Results = 3
	}
	if cfg.TimeoutSec <= 0 {
		cfg.TimeoutSec = 30
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "local"
	}
	if cfg.Store.LocalDir == "" {
		cfg.Store.LocalDir = "index_db"
	}
	if cfg.Store.DocsName == "" {
		cfg.Store.DocsName = "docs"
	}
	if cfg.Store.URLsName == "" {
		cfg.Store.URLsName = "urls"
	}
	if cfg.OpenAI.ApiKey == "" {
		cfg.OpenAI.ApiKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.OpenAI.EmbedModel == "" {
		cfg.OpenAI.EmbedModel = "text-embedding-3-small"
	}
	if cfg.OpenAI.ChatModel == "" {
		cfg.OpenAI.ChatModel = "gpt-4o"
	}
	if cfg.OpenAI.Temperature == 0 {
		cfg.OpenAI.Temperature = 0.7
	}
}
