package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DB       *DBconfig       `yaml:"db"`
	Ledger   *Ledgerconfig   `yaml:"ledger"`
	IPFS     *IPFSconfig     `yaml:"ipfs"`
	RabbitMq *RabbitMqconfig `yaml:"rabbitmq"`
	Srv      *Serviceconfig  `yaml:"service"`
	App      *Appconfig      `yaml:"app"`
	Log      *Loggerconfig   `yaml:"log"`
}

type DBconfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// Ledgerconfig describes the external ledger gateway. An empty NodeURL
// means no live ledger is configured and the simulated client is used.
type Ledgerconfig struct {
	NodeURL         string `yaml:"node_url"`
	ContractAddress string `yaml:"contract_address"`
	ConfirmTimeout  int    `yaml:"confirm_timeout_seconds"`
}

type IPFSconfig struct {
	APIURL     string `yaml:"api_url"`
	GatewayURL string `yaml:"gateway_url"`
	ProjectID  string `yaml:"project_id"`
	APISecret  string `yaml:"api_secret"`
}

type RabbitMqconfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	VHost    string `yaml:"vhost"`
}

type Serviceconfig struct {
	CarpoolServicePort string `yaml:"carpool_service"`
}

type Appconfig struct {
	JwtSecret string `yaml:"jwt_secret"`
	OTPIssuer string `yaml:"otp_issuer"`
}

type Loggerconfig struct {
	Level string `yaml:"level"`
}

func New() (*Config, error) {
	getEnv := func(key, def string) string {
		val := os.Getenv(key)
		if val == "" {
			return def
		}
		return val
	}

	getEnvInt := func(key string, def int) int {
		valStr := os.Getenv(key)
		if valStr == "" {
			return def
		}
		val, err := strconv.Atoi(valStr)
		if err != nil {
			fmt.Printf("invalid value for %v, using default %v\n", key, def)
			return def
		}
		return val
	}

	cnf := &Config{
		DB: &DBconfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "carpool_user"),
			Password: getEnv("DB_PASSWORD", "carpool_pass"),
			Database: getEnv("DB_NAME", "carpool_db"),
		},
		Ledger: &Ledgerconfig{
			NodeURL:         getEnv("LEDGER_NODE_URL", ""),
			ContractAddress: getEnv("LEDGER_CONTRACT_ADDRESS", ""),
			ConfirmTimeout:  getEnvInt("LEDGER_CONFIRM_TIMEOUT", 15),
		},
		IPFS: &IPFSconfig{
			APIURL:     getEnv("IPFS_API_URL", ""),
			GatewayURL: getEnv("IPFS_GATEWAY_URL", "https://ipfs.io/ipfs/"),
			ProjectID:  getEnv("IPFS_PROJECT_ID", ""),
			APISecret:  getEnv("IPFS_API_SECRET", ""),
		},
		RabbitMq: &RabbitMqconfig{
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     getEnvInt("RABBITMQ_PORT", 5672),
			User:     getEnv("RABBITMQ_USER", "guest"),
			Password: getEnv("RABBITMQ_PASSWORD", "guest"),
			VHost:    getEnv("RABBITMQ_VHOST", ""),
		},
		Srv: &Serviceconfig{
			CarpoolServicePort: getEnv("CARPOOL_SERVICE_PORT", "3000"),
		},
		App: &Appconfig{
			JwtSecret: getEnv("JWT_SECRET", "dev-secret"),
			OTPIssuer: getEnv("OTP_ISSUER", "DeCarpooling"),
		},
		Log: &Loggerconfig{
			Level: getEnv("LOG_LEVEL", "INFO"),
		},
	}

	return cnf, nil
}

// NewFromYAML loads configuration from a YAML file. Fields absent from the
// file keep the values produced by New (env vars or defaults).
func NewFromYAML(path string) (*Config, error) {
	cnf, err := New()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cnf); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return cnf, nil
}
