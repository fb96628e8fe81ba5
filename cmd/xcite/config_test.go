package main

import (
	"testing"
	"time"

	"github.com/matsen/xcite/internal/config"
)

func TestMaskSecret(t *testing.T) {
	if got := maskSecret("abcdefgh"); got != "****efgh" {
		t.Errorf("maskSecret = %q", got)
	}
	if got := maskSecret("abc"); got != "****" {
		t.Errorf("short secret = %q", got)
	}
}

func TestConfigView(t *testing.T) {
	s := &config.Settings{
		Mailto:       "me@example.org",
		APIKey:       "secret-key-1234",
		PageInterval: time.Second,
		CacheTTL:     24 * time.Hour,
		TopK:         20,
		LogMode:      "quiet",
	}
	v := configView(s)
	for _, k := range config.ValidKeys {
		if _, ok := v[k]; !ok {
			t.Errorf("view missing key %q", k)
		}
	}
	if v["api_key"] != "****1234" {
		t.Errorf("api_key = %q, want masked", v["api_key"])
	}
	if v["page_interval"] != "1s" || v["cache_ttl"] != "24h0m0s" || v["top_k"] != "20" {
		t.Errorf("view = %v", v)
	}

	if configView(&config.Settings{})["api_key"] != "" {
		t.Error("unset api key should render empty")
	}
}
