package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"admissions-tracker/internal/models"
)

func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	return finish(v)
}

func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// bools whose zero value is not the default must be seeded here;
	// applyDefaults cannot tell "false" from "unset".
	v.SetDefault("tracker.duplicate_warning", true)
	v.SetDefault("tracker.preliminary_classification", false)
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{".env", "../.env", "../../.env"}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

func overrideEmptyConfig(cfg *Config) {
	setFromEnv(&cfg.Classifier.Gemini.APIKey, "GEMINI_API_KEY")
	setFromEnv(&cfg.Classifier.Gateway.APIKey, "GENAI_API_KEY")
	setFromEnv(&cfg.Database.Postgres.User, "DB_USER")
	setFromEnv(&cfg.Database.Postgres.Password, "DB_PASSWORD")
	setFromEnv(&cfg.Integrations.Zoho.AuthToken, "ZOHO_CRM_OAUTH_TOKEN")
	setFromEnv(&cfg.Integrations.SMTP.Password, "SMTP_PASSWORD")
	setFromEnv(&cfg.Storage.MinIO.SecretKey, "MINIO_SECRET_KEY")
	setFromEnv(&cfg.Mail.AdmissionsRecipient, "RECIPIENT_EMAIL")
}

func setFromEnv(dst *string, name string) {
	if *dst != "" {
		return
	}
	if val := os.Getenv(name); val != "" {
		*dst = val
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "admissions-tracker"
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 120000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30000
	}

	if cfg.Camunda.JobType == "" {
		cfg.Camunda.JobType = "process-form-submission"
	}
	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 120000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Redis.KeyPrefix == "" {
		cfg.Database.Redis.KeyPrefix = "admissions:applicant:"
	}
	if cfg.Database.Redis.MaxRetries == 0 {
		cfg.Database.Redis.MaxRetries = 10
	}
	if cfg.Database.Elasticsearch.Index == "" {
		cfg.Database.Elasticsearch.Index = "applicants"
	}

	if cfg.Storage.MinIO.Bucket == "" {
		cfg.Storage.MinIO.Bucket = "admissions-reports"
	}

	if cfg.Tracker.Store == "" {
		cfg.Tracker.Store = StoreMemory
	}
	if len(cfg.Tracker.RequiredForms) == 0 {
		for _, k := range models.AllFormKinds() {
			cfg.Tracker.RequiredForms = append(cfg.Tracker.RequiredForms, string(k))
		}
	}

	if cfg.Classifier.Provider == "" {
		cfg.Classifier.Provider = ClassifierNone
	}
	if cfg.Classifier.Timeout == 0 {
		cfg.Classifier.Timeout = 60000
	}
	if cfg.Classifier.Gemini.Model == "" {
		cfg.Classifier.Gemini.Model = "gemini-1.5-flash"
	}
	if cfg.Classifier.Gateway.MaxRetries == 0 {
		cfg.Classifier.Gateway.MaxRetries = 3
	}

	if cfg.Mail.Provider == "" {
		cfg.Mail.Provider = MailLog
	}
	if cfg.Mail.FromName == "" {
		cfg.Mail.FromName = "Universidad Cristiana de Logos"
	}
	if cfg.Mail.AdmissionsRecipient == "" {
		cfg.Mail.AdmissionsRecipient = "web@logos.edu"
	}
	if cfg.Mail.Timeout == 0 {
		cfg.Mail.Timeout = 15000
	}

	if cfg.Report.Timeout == 0 {
		cfg.Report.Timeout = 15000
	}
	if cfg.Hooks.Timeout == 0 {
		cfg.Hooks.Timeout = 5000
	}

	if cfg.Integrations.Zoho.BaseURL == "" {
		cfg.Integrations.Zoho.BaseURL = "https://www.zohoapis.com/crm/v2"
	}
	if cfg.Integrations.Zoho.Timeout == 0 {
		cfg.Integrations.Zoho.Timeout = 10000
	}
	if cfg.Integrations.AWS.Region == "" {
		cfg.Integrations.AWS.Region = "us-east-1"
	}
	if cfg.Integrations.SMTP.Port == 0 {
		cfg.Integrations.SMTP.Port = 587
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

func validateConfig(cfg *Config) error {
	switch cfg.Tracker.Store {
	case StoreMemory:
	case StorePostgres:
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required")
		}
		if cfg.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required")
		}
	case StoreRedis:
		if cfg.Database.Redis.Address == "" {
			return fmt.Errorf("database.redis.address is required")
		}
	default:
		return fmt.Errorf("tracker.store %q is not supported", cfg.Tracker.Store)
	}

	for _, kind := range cfg.Tracker.RequiredForms {
		if _, err := models.ParseFormKind(kind); err != nil {
			return fmt.Errorf("tracker.required_forms: %w", err)
		}
	}

	switch cfg.Classifier.Provider {
	case ClassifierNone:
	case ClassifierGemini:
		if cfg.Classifier.Gemini.APIKey == "" {
			return fmt.Errorf("classifier.gemini.api_key is required")
		}
	case ClassifierGateway:
		if cfg.Classifier.Gateway.BaseURL == "" {
			return fmt.Errorf("classifier.gateway.base_url is required")
		}
	default:
		return fmt.Errorf("classifier.provider %q is not supported", cfg.Classifier.Provider)
	}

	switch cfg.Mail.Provider {
	case MailLog:
	case MailSES, MailSMTP:
		if cfg.Mail.FromEmail == "" {
			return fmt.Errorf("mail.from_email is required")
		}
		if cfg.Mail.Provider == MailSMTP && cfg.Integrations.SMTP.Host == "" {
			return fmt.Errorf("integrations.smtp.host is required")
		}
	default:
		return fmt.Errorf("mail.provider %q is not supported", cfg.Mail.Provider)
	}

	if cfg.Camunda.Enabled && cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required")
	}
	if cfg.Database.Elasticsearch.Enabled && len(cfg.Database.Elasticsearch.GetAddresses()) == 0 {
		return fmt.Errorf("database.elasticsearch.addresses or url is required")
	}
	if cfg.Storage.MinIO.Enabled && cfg.Storage.MinIO.Endpoint == "" {
		return fmt.Errorf("storage.minio.endpoint is required")
	}
	if cfg.Alerts.SNS.Enabled && cfg.Alerts.SNS.TopicARN == "" {
		return fmt.Errorf("alerts.sns.topic_arn is required")
	}

	return nil
}

func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// RequiredKinds converts the configured required form names.
// validateConfig has already rejected unknown names.
func (c TrackerConfig) RequiredKinds() []models.FormKind {
	kinds := make([]models.FormKind, 0, len(c.RequiredForms))
	for _, name := range c.RequiredForms {
		if k, err := models.ParseFormKind(name); err == nil {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
