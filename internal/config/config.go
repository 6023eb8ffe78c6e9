package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default config file location.
const ConfigPath = "config.yaml"

const (
	defaultAppName            = "Vox Maati Voice API"
	defaultEnvironment        = "development"
	defaultMaxAudioDuration   = 120
	defaultMaxAudioSizeMB     = 10
	defaultWhisperModel       = "whisper-1"
	defaultWhisperTimeoutSecs = 120
)

// FileConfig represents configuration loaded from YAML. It is constructed
// once in main and handed to components; nothing reads it ad hoc afterwards.
type FileConfig struct {
	AppName     string `yaml:"appName"`
	Environment string `yaml:"environment"`
	Debug       bool   `yaml:"debug"`
	Port        string `yaml:"port"`
	LogLevel    string `yaml:"logLevel"`

	DatabaseURL string `yaml:"databaseURL"`

	StorageEndpoint  string `yaml:"storageEndpoint"`
	StorageAccessKey string `yaml:"storageAccessKey"`
	StorageSecretKey string `yaml:"storageSecretKey"`
	StorageBucket    string `yaml:"storageBucket"`
	StorageUseSSL    bool   `yaml:"storageUseSSL"`

	MaxAudioDurationSeconds int `yaml:"maxAudioDurationSeconds"`
	MaxAudioSizeMB          int `yaml:"maxAudioSizeMB"`

	WhisperBaseURL        string `yaml:"whisperBaseURL"`
	WhisperAPIKey         string `yaml:"whisperAPIKey"`
	WhisperModel          string `yaml:"whisperModel"`
	WhisperTimeoutSeconds int    `yaml:"whisperTimeoutSeconds"`

	TranslateURL string `yaml:"translateURL"`

	RedisAddr                string   `yaml:"redisAddr"`
	RedisPassword            string   `yaml:"redisPassword"`
	UploadRateLimitPerMinute int      `yaml:"uploadRateLimitPerMinute"`
	TrustedProxyCIDRs        []string `yaml:"trustedProxyCidrs"`

	// Broker settings are part of the deployment surface but feed no
	// component of the synchronous pipeline.
	BrokerURL        string `yaml:"brokerURL"`
	ResultBackendURL string `yaml:"resultBackendURL"`
}

// Load reads config from path (defaults to config.yaml) and applies
// VOX_-prefixed environment overrides.
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *FileConfig) {
	overrideString("VOX_APP_NAME", &cfg.AppName)
	overrideString("VOX_ENVIRONMENT", &cfg.Environment)
	overrideBool("VOX_DEBUG", &cfg.Debug)
	overrideString("VOX_PORT", &cfg.Port)
	overrideString("VOX_LOG_LEVEL", &cfg.LogLevel)
	overrideString("VOX_DATABASE_URL", &cfg.DatabaseURL)
	overrideString("VOX_STORAGE_ENDPOINT", &cfg.StorageEndpoint)
	overrideString("VOX_STORAGE_ACCESS_KEY", &cfg.StorageAccessKey)
	overrideString("VOX_STORAGE_SECRET_KEY", &cfg.StorageSecretKey)
	overrideString("VOX_STORAGE_BUCKET", &cfg.StorageBucket)
	overrideBool("VOX_STORAGE_USE_SSL", &cfg.StorageUseSSL)
	overrideInt("VOX_MAX_AUDIO_DURATION", &cfg.MaxAudioDurationSeconds)
	overrideInt("VOX_MAX_AUDIO_SIZE_MB", &cfg.MaxAudioSizeMB)
	overrideString("VOX_WHISPER_BASE_URL", &cfg.WhisperBaseURL)
	overrideString("VOX_WHISPER_API_KEY", &cfg.WhisperAPIKey)
	overrideString("VOX_WHISPER_MODEL", &cfg.WhisperModel)
	overrideInt("VOX_WHISPER_TIMEOUT_SECONDS", &cfg.WhisperTimeoutSeconds)
	overrideString("VOX_TRANSLATE_URL", &cfg.TranslateURL)
	overrideString("VOX_REDIS_ADDR", &cfg.RedisAddr)
	overrideString("VOX_REDIS_PASSWORD", &cfg.RedisPassword)
	overrideInt("VOX_UPLOAD_RATE_LIMIT_PER_MINUTE", &cfg.UploadRateLimitPerMinute)
	overrideString("VOX_BROKER_URL", &cfg.BrokerURL)
	overrideString("VOX_RESULT_BACKEND_URL", &cfg.ResultBackendURL)
	if v := os.Getenv("VOX_TRUSTED_PROXY_CIDRS"); v != "" {
		cfg.TrustedProxyCIDRs = splitCSV(v)
	}
}

func applyDefaults(cfg *FileConfig) {
	if strings.TrimSpace(cfg.AppName) == "" {
		cfg.AppName = defaultAppName
	}
	if strings.TrimSpace(cfg.Environment) == "" {
		cfg.Environment = defaultEnvironment
	}
	if cfg.MaxAudioDurationSeconds <= 0 {
		cfg.MaxAudioDurationSeconds = defaultMaxAudioDuration
	}
	if cfg.MaxAudioSizeMB <= 0 {
		cfg.MaxAudioSizeMB = defaultMaxAudioSizeMB
	}
	if strings.TrimSpace(cfg.WhisperModel) == "" {
		cfg.WhisperModel = defaultWhisperModel
	}
	if cfg.WhisperTimeoutSeconds <= 0 {
		cfg.WhisperTimeoutSeconds = defaultWhisperTimeoutSecs
	}
}

func validateConfig(cfg FileConfig) error {
	if cfg.Port == "" {
		return errors.New("config: port is required (set in config.yaml or VOX_PORT)")
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return errors.New("config: databaseURL is required (set in config.yaml or VOX_DATABASE_URL)")
	}
	if strings.TrimSpace(cfg.StorageEndpoint) == "" {
		return errors.New("config: storageEndpoint is required")
	}
	if strings.TrimSpace(cfg.StorageBucket) == "" {
		return errors.New("config: storageBucket is required")
	}
	if strings.TrimSpace(cfg.TranslateURL) == "" {
		return errors.New("config: translateURL is required")
	}
	if cfg.UploadRateLimitPerMinute < 0 {
		return errors.New("config: uploadRateLimitPerMinute must be >= 0")
	}
	if cfg.UploadRateLimitPerMinute > 0 && strings.TrimSpace(cfg.RedisAddr) == "" {
		return errors.New("config: redisAddr is required when uploadRateLimitPerMinute > 0")
	}
	return nil
}

func overrideString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = strings.TrimSpace(v)
	}
}

func overrideInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			*dst = n
		}
	}
}

func overrideBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			*dst = b
		}
	}
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
