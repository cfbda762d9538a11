package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admissions-tracker/internal/models"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFileAppliesDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, "app:\n  name: test\n"))
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, StoreMemory, cfg.Tracker.Store)
	assert.Equal(t, models.AllFormKinds(), cfg.Tracker.RequiredKinds())
	assert.True(t, cfg.Tracker.DuplicateWarning)
	assert.False(t, cfg.Tracker.PreliminaryClassification)
	assert.Equal(t, ClassifierNone, cfg.Classifier.Provider)
	assert.Equal(t, MailLog, cfg.Mail.Provider)
	assert.Equal(t, "web@logos.edu", cfg.Mail.AdmissionsRecipient)
	assert.Equal(t, 15000, cfg.Mail.Timeout)
	assert.Equal(t, 15000, cfg.Report.Timeout)
	assert.Equal(t, 5000, cfg.Hooks.Timeout)
	assert.Equal(t, 10000, cfg.Integrations.Zoho.Timeout)
	assert.Equal(t, "process-form-submission", cfg.Camunda.JobType)
	assert.Equal(t, "admissions:applicant:", cfg.Database.Redis.KeyPrefix)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromFileTrackerOverrides(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, `
tracker:
  store: redis
  required_forms: [official_application, ministry_experience]
  preliminary_classification: true
  duplicate_warning: false
database:
  redis:
    address: localhost:6379
`))
	require.NoError(t, err)

	assert.Equal(t, StoreRedis, cfg.Tracker.Store)
	assert.Equal(t, []models.FormKind{models.FormKindOfficialApplication, models.FormKindMinistryExperience}, cfg.Tracker.RequiredKinds())
	assert.True(t, cfg.Tracker.PreliminaryClassification)
	assert.False(t, cfg.Tracker.DuplicateWarning)
}

func TestLoadFromFileTimeoutSections(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, `
mail:
  timeout: 2000
report:
  timeout: 30000
hooks:
  timeout: 1500
integrations:
  zoho:
    timeout: 4000
`))
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, GetDuration(cfg.Mail.Timeout))
	assert.Equal(t, 30*time.Second, GetDuration(cfg.Report.Timeout))
	assert.Equal(t, 1500*time.Millisecond, GetDuration(cfg.Hooks.Timeout))
	assert.Equal(t, 4*time.Second, GetDuration(cfg.Integrations.Zoho.Timeout))
}

func TestLoadFromFileExpandsEnv(t *testing.T) {
	t.Setenv("TEST_GEMINI_KEY", "secret-key")
	cfg, err := LoadFromFile(writeConfig(t, `
classifier:
  provider: gemini
  gemini:
    api_key: ${TEST_GEMINI_KEY}
`))
	require.NoError(t, err)
	assert.Equal(t, "secret-key", cfg.Classifier.Gemini.APIKey)
	assert.Equal(t, "gemini-1.5-flash", cfg.Classifier.Gemini.Model)
}

func TestLoadFromFileValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown store", "tracker:\n  store: mongo\n", "tracker.store"},
		{"unknown form kind", "tracker:\n  required_forms: [transcript]\n", "tracker.required_forms"},
		{"postgres without host", "tracker:\n  store: postgres\n", "database.postgres.host"},
		{"gateway without url", "classifier:\n  provider: gateway\n", "classifier.gateway.base_url"},
		{"smtp without host", "mail:\n  provider: smtp\n  from_email: a@b.edu\n", "integrations.smtp.host"},
		{"ses without sender", "mail:\n  provider: ses\n", "mail.from_email"},
		{"camunda without broker", "camunda:\n  enabled: true\n", "camunda.broker_address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestRepositoryConfigLoads(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join("..", "..", "..", "configs", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "admissions-tracker", cfg.App.Name)
	assert.Equal(t, "admissions-reports", cfg.Storage.MinIO.Bucket)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}
