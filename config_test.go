package main

import (
	"flag"
	"os"
	"strings"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr []string
	}{
		{
			name: "valid config",
			cfg: Config{
				Markets:     []string{"AAPL", "GOOG"},
				FMPAPIKey:   "apikey",
				HistoryDays: 400,
			},
			wantErr: nil,
		},
		{
			name: "missing markets",
			cfg: Config{
				Markets:     []string{},
				FMPAPIKey:   "apikey",
				HistoryDays: 400,
			},
			wantErr: []string{"no markets provided for quorum service"},
		},
		{
			name: "missing FMPAPIKey",
			cfg: Config{
				Markets:     []string{"AAPL"},
				FMPAPIKey:   "",
				HistoryDays: 400,
			},
			wantErr: []string{"fmp api key cannot be an empty string"},
		},
		{
			name: "non-positive history span",
			cfg: Config{
				Markets:   []string{"AAPL"},
				FMPAPIKey: "apikey",
			},
			wantErr: []string{"history days must be positive"},
		},
		{
			name: "missing everything",
			cfg:  Config{},
			wantErr: []string{
				"no markets provided for quorum service",
				"fmp api key cannot be an empty string",
				"history days must be positive",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Errorf("expected no error, got: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("expected error(s) %v, got none", tt.wantErr)
					return
				}
				for _, want := range tt.wantErr {
					if !strings.Contains(err.Error(), want) {
						t.Errorf("expected error to contain %q, got %v", want, err)
					}
				}
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	// Save and restore original os.Args and environment
	origArgs := os.Args
	origEnv := os.Environ()
	defer func() {
		os.Args = origArgs
		for _, kv := range origEnv {
			parts := strings.SplitN(kv, "=", 2)
			if len(parts) == 2 {
				os.Setenv(parts[0], parts[1])
			}
		}
	}()

	tests := []struct {
		name        string
		env         map[string]string
		args        []string
		expectErr   bool
		expectInErr []string
		expectCfg   Config
	}{
		{
			name: "all from env",
			env: map[string]string{
				"markets":     "AAPL,GOOG",
				"fmpapikey":   "apikey",
				"historydays": "400",
			},
			args:      []string{"cmd"},
			expectErr: false,
			expectCfg: Config{
				Markets:     []string{"AAPL", "GOOG"},
				FMPAPIKey:   "apikey",
				HistoryDays: 400,
			},
		},
		{
			name:      "all from flags",
			env:       map[string]string{},
			args:      []string{"cmd", "-markets=AAPL,GOOG", "-fmpapikey=apikey", "-historydays=400"},
			expectErr: false,
			expectCfg: Config{
				Markets:     []string{"AAPL", "GOOG"},
				FMPAPIKey:   "apikey",
				HistoryDays: 400,
			},
		},
		{
			name:        "missing markets and fmpapikey",
			env:         map[string]string{},
			args:        []string{"cmd"},
			expectErr:   true,
			expectInErr: []string{"no markets provided for quorum service", "fmp api key cannot be an empty string"},
		},
		{
			name: "optional collaborators from env",
			env: map[string]string{
				"markets":          "AAPL",
				"fmpapikey":        "apikey",
				"historydays":      "400",
				"databaseendpoint": "http://localhost:4001",
				"webhookurl":       "http://hook",
			},
			args:      []string{"cmd"},
			expectErr: false,
			expectCfg: Config{
				Markets:          []string{"AAPL"},
				FMPAPIKey:        "apikey",
				HistoryDays:      400,
				DatabaseEndpoint: "http://localhost:4001",
				WebhookURL:       "http://hook",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset flags for each test
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

			// Set environment variables
			for k, v := range tt.env {
				os.Setenv(k, v)
			}

			// Set command-line arguments
			os.Args = tt.args

			var cfg Config
			err := loadConfig(&cfg, "") // don't load .env file

			if tt.expectErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				for _, want := range tt.expectInErr {
					if !strings.Contains(err.Error(), want) {
						t.Errorf("expected error to contain %q, got %v", want, err)
					}
				}
			} else {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if len(tt.expectCfg.Markets) != len(cfg.Markets) {
					t.Errorf("Markets: got %v, want %v", cfg.Markets, tt.expectCfg.Markets)
				}
				if tt.expectCfg.FMPAPIKey != "" && cfg.FMPAPIKey != tt.expectCfg.FMPAPIKey {
					t.Errorf("FMPAPIKey: got %v, want %v", cfg.FMPAPIKey, tt.expectCfg.FMPAPIKey)
				}
				if cfg.HistoryDays != tt.expectCfg.HistoryDays {
					t.Errorf("HistoryDays: got %v, want %v", cfg.HistoryDays, tt.expectCfg.HistoryDays)
				}
				if tt.expectCfg.DatabaseEndpoint != "" && cfg.DatabaseEndpoint != tt.expectCfg.DatabaseEndpoint {
					t.Errorf("DatabaseEndpoint: got %v, want %v", cfg.DatabaseEndpoint, tt.expectCfg.DatabaseEndpoint)
				}
				if tt.expectCfg.WebhookURL != "" && cfg.WebhookURL != tt.expectCfg.WebhookURL {
					t.Errorf("WebhookURL: got %v, want %v", cfg.WebhookURL, tt.expectCfg.WebhookURL)
				}
			}

			// Clean up env
			for k := range tt.env {
				os.Unsetenv(k)
			}
		})
	}
}
