package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	ListenAddr string
	DataDir    string

	// Reputation provider (VirusTotal-style).
	VTAPIKey     string
	VTBaseURL    string
	VTDailyQuota int
	VTPerMinute  int

	// Network-intelligence provider (Shodan-style); also the primary
	// DNS lookup provider.
	ShodanAPIKey  string
	ShodanBaseURL string

	// Public DNS-over-HTTPS fallback.
	DoHBaseURL string

	// Optional safe-browsing flag source; disabled when the key is empty.
	GSBAPIKey  string
	GSBBaseURL string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if out, err := strconv.Atoi(v); err == nil {
			return out
		}
	}
	return def
}

func Load() (Config, error) {
	cfg := Config{
		ListenAddr:    getenv("LISTEN_ADDR", ":8080"),
		DataDir:       getenv("DATA_DIR", "urlverdict_data"),
		VTAPIKey:      os.Getenv("VT_API_KEY"),
		VTBaseURL:     getenv("VT_BASE_URL", "https://www.virustotal.com/api/v3"),
		VTDailyQuota:  getenvInt("VT_DAILY_QUOTA", 500),
		VTPerMinute:   getenvInt("VT_PER_MINUTE", 4),
		ShodanAPIKey:  os.Getenv("SHODAN_API_KEY"),
		ShodanBaseURL: getenv("SHODAN_BASE_URL", "https://api.shodan.io"),
		DoHBaseURL:    getenv("DOH_BASE_URL", "https://dns.google"),
		GSBAPIKey:     os.Getenv("GSB_API_KEY"),
		GSBBaseURL:    getenv("GSB_BASE_URL", "https://safebrowsing.googleapis.com"),
	}
	if cfg.VTAPIKey == "" {
		// Not fatal; reputation lookups will degrade to auth errors.
		return cfg, fmt.Errorf("VT_API_KEY not set")
	}
	return cfg, nil
}
