package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Auth     AuthConfig     `yaml:"auth"`
	Users    []User         `yaml:"users"`
	Public   PublicConfig   `yaml:"public"`
	Storage  StorageConfig  `yaml:"storage"`
	Pinata   PinataConfig   `yaml:"pinata"`
	Orilux   OriluxConfig   `yaml:"oriluxchain"`
	EVM      EVMConfig      `yaml:"evm"`
	AI       AIConfig       `yaml:"ai"`
	Database DatabaseConfig `yaml:"database"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type AuthConfig struct {
	JWTSecret        string `yaml:"jwt_secret"`
	TokenExpireHours int    `yaml:"token_expire_hours"`
}

type User struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

// PublicConfig holds the externally visible URLs baked into certificates.
type PublicConfig struct {
	BaseURL        string `yaml:"base_url"`
	BlockchainName string `yaml:"blockchain_name"`
}

type StorageConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type PinataConfig struct {
	APIURL string `yaml:"api_url"`
	JWT    string `yaml:"jwt"`
}

type OriluxConfig struct {
	APIURL      string `yaml:"api_url"`
	APIKey      string `yaml:"api_key"`
	ExplorerURL string `yaml:"explorer_url"`
}

type EVMConfig struct {
	RPCURLs         []string `yaml:"rpc_urls"`
	ContractAddress string   `yaml:"contract_address"`
	PrivateKey      string   `yaml:"private_key"`
	ExplorerURL     string   `yaml:"explorer_url"`
	ChainID         int64    `yaml:"chain_id"`
}

type AIConfig struct {
	GatewayURL string `yaml:"gateway_url"`
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
}

type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Auth.TokenExpireHours == 0 {
		cfg.Auth.TokenExpireHours = 24
	}
	if cfg.Public.BaseURL == "" {
		cfg.Public.BaseURL = "https://veralix.io"
	}
	if cfg.Public.BlockchainName == "" {
		cfg.Public.BlockchainName = "Oriluxchain + BSC Mainnet"
	}
	if cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = "jewelry-images"
	}
	if cfg.Pinata.APIURL == "" {
		cfg.Pinata.APIURL = "https://api.pinata.cloud"
	}
	if len(cfg.EVM.RPCURLs) == 0 {
		cfg.EVM.RPCURLs = []string{
			"https://bsc-dataseed.binance.org",
			"https://bsc-dataseed1.binance.org",
			"https://bsc-dataseed2.binance.org",
			"https://bsc-dataseed3.binance.org",
		}
	}
	if cfg.EVM.ExplorerURL == "" {
		cfg.EVM.ExplorerURL = "https://bscscan.com"
	}
	if cfg.EVM.ChainID == 0 {
		cfg.EVM.ChainID = 56
	}
	if cfg.AI.GatewayURL == "" {
		cfg.AI.GatewayURL = "https://ai.gateway.lovable.dev"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "google/gemini-2.5-flash-image-preview"
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 10
	}

	return &cfg, nil
}

// FindUser finds a user by username
func (c *Config) FindUser(username string) *User {
	for i := range c.Users {
		if c.Users[i].Username == username {
			return &c.Users[i]
		}
	}
	return nil
}
