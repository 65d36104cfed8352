package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		AppEnv:               "development",
		ScoringBackend:       BackendClassifier,
		HFToken:              "hf_test_token",
		LedgerMode:           LedgerSimulated,
		UpdaterAddress:       "0x0000000000000000000000000000000000000000",
		AnalyzeRatePerSecond: 5,
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	require.NoError(t, validate(validConfig()))
}

func TestValidateBackendSelection(t *testing.T) {
	cfg := validConfig()
	cfg.ScoringBackend = "oracle-of-delphi"
	assert.ErrorContains(t, validate(cfg), "SCORING_BACKEND")
}

func TestValidateClassifierRequiresToken(t *testing.T) {
	cfg := validConfig()
	cfg.HFToken = ""
	assert.ErrorContains(t, validate(cfg), "HF_TOKEN")
}

func TestValidateGenerativeRequiresAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.ScoringBackend = BackendGenerative
	cfg.GeminiAPIKey = ""
	assert.ErrorContains(t, validate(cfg), "GEMINI_API_KEY")
}

func TestValidateLexiconNeedsNoCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.ScoringBackend = BackendLexicon
	cfg.HFToken = ""
	cfg.GeminiAPIKey = ""
	assert.NoError(t, validate(cfg))
}

func TestValidateRelayRequiresURL(t *testing.T) {
	cfg := validConfig()
	cfg.LedgerMode = LedgerRelay
	assert.ErrorContains(t, validate(cfg), "LEDGER_RELAY_URL")
}

func TestValidateProductionRelayRequiresUpdater(t *testing.T) {
	cfg := validConfig()
	cfg.AppEnv = "production"
	cfg.LedgerMode = LedgerRelay
	cfg.LedgerRelayURL = "https://relay.example.com/update"
	assert.ErrorContains(t, validate(cfg), "UPDATER_ADDRESS")
}

func TestValidateRejectsNonPositiveRate(t *testing.T) {
	cfg := validConfig()
	cfg.AnalyzeRatePerSecond = 0
	assert.ErrorContains(t, validate(cfg), "ANALYZE_RATE_PER_SECOND")
}
