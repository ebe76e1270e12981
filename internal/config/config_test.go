package config

import (
	"testing"
	"time"
)

func TestNewFromEnv(t *testing.T) {
	// Helper function to reset the variables each subtest depends on
	clearEnv := func(t *testing.T) {
		t.Helper()
		for _, key := range []string{
			"LLM_PROVIDER", "GEMINI_API_KEY", "GROQ_API_KEY", "LLM_REQUESTS_PER_MINUTE",
			"GENERATION_TIMEOUT", "TELEGRAM_ALLOWED_USER_IDS", "ADMIN_TELEGRAM_ID",
			"REDIS_DB", "SESSION_TTL", "GEMINI_MODEL", "PORT",
		} {
			t.Setenv(key, "")
		}
	}

	t.Run("Success", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "12, 34")
		t.Setenv("ADMIN_TELEGRAM_ID", "12")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.LLMProvider != ProviderGemini {
			t.Errorf("Expected provider '%s', got '%s'", ProviderGemini, cfg.LLMProvider)
		}
		if cfg.GeminiAPIKey != "gemini_key" {
			t.Errorf("Expected GeminiAPIKey to be 'gemini_key', got '%s'", cfg.GeminiAPIKey)
		}
		if cfg.GeminiModel != "gemini-2.0-flash" {
			t.Errorf("Expected default model 'gemini-2.0-flash', got '%s'", cfg.GeminiModel)
		}
		if cfg.LLMRequestsPerMinute != 15 {
			t.Errorf("Expected 15 requests per minute, got %d", cfg.LLMRequestsPerMinute)
		}
		if cfg.GenerationTimeout != 2*time.Minute {
			t.Errorf("Expected 2m generation timeout, got %s", cfg.GenerationTimeout)
		}
		if len(cfg.TelegramAllowedUserIDs) != 2 || cfg.TelegramAllowedUserIDs[1] != 34 {
			t.Errorf("Expected allowed IDs [12 34], got %v", cfg.TelegramAllowedUserIDs)
		}
		if cfg.AdminTelegramID != 12 {
			t.Errorf("Expected admin ID 12, got %d", cfg.AdminTelegramID)
		}
		if cfg.Port != "8080" {
			t.Errorf("Expected default port 8080, got '%s'", cfg.Port)
		}
	})

	t.Run("MissingGeminiAPIKey", func(t *testing.T) {
		clearEnv(t)

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing GEMINI_API_KEY, got nil")
		}
		expectedError := "GEMINI_API_KEY environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("GroqProviderNeedsGroqKey", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LLM_PROVIDER", "groq")
		t.Setenv("GEMINI_API_KEY", "gemini_key")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing GROQ_API_KEY, got nil")
		}
		expectedError := "GROQ_API_KEY environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("UnknownProvider", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LLM_PROVIDER", "ollama")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for unsupported provider, got nil")
		}
	})

	t.Run("InvalidTimeout", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("GENERATION_TIMEOUT", "soon")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for invalid GENERATION_TIMEOUT, got nil")
		}
	})
}

func TestIsAllowed(t *testing.T) {
	open := &Config{}
	if !open.IsAllowed(99) {
		t.Error("Expected empty allow list to admit everyone")
	}

	restricted := &Config{TelegramAllowedUserIDs: []int64{1, 2}}
	if !restricted.IsAllowed(2) {
		t.Error("Expected user 2 to be allowed")
	}
	if restricted.IsAllowed(3) {
		t.Error("Expected user 3 to be rejected")
	}
}
