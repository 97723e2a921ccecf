// internal/config/config.go
package conf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bartek5186/amz2sheets/internal/integrations/amazon"
	"github.com/bartek5186/amz2sheets/internal/sheet/gsheets"
)

// Główny config aplikacji
type Config struct {
	AutoStart           bool                       `json:"auto_start"`
	SyncIntervalSeconds int                        `json:"sync_interval_seconds"`
	Database            Database                   `json:"database"`
	Integrations        map[string]json.RawMessage `json:"integrations"` // nazwa -> surowy JSON integracji
}

// Database opisuje lokalne lustro arkusza (sqlite/postgres/mysql).
type Database struct {
	Driver string `json:"driver"` // puste = sqlite w katalogu aplikacji
	DSN    string `json:"dsn"`
}

func LoadOrCreate(path string) (*Config, bool, error) {
	// upewnij się, że katalog istnieje
	_ = os.MkdirAll(filepath.Dir(path), 0o755)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			// domyślny config — credentials do uzupełnienia ręcznie
			amz := amazon.Config{
				RefreshToken:    "Atzr|xxx",
				LWAAppID:        "amzn1.application-oa2-client.xxx",
				LWAClientSecret: "xxx",
				Sheets: gsheets.Config{
					SpreadsheetID:   "1xxx",
					Worksheet:       "Orders",
					CredentialsFile: "google_credentials.json",
				},
				PollSec:           60,
				LookbackHours:     2,
				ReconcileHours:    6,
				RateLimitBatch:    10,
				RateLimitPauseSec: 3,
				SleepStart:        "00:30",
				SleepEnd:          "05:30",
			}
			rawAmz, _ := json.Marshal(amz)

			cfg := &Config{
				AutoStart:           false,
				SyncIntervalSeconds: 60,
				Integrations: map[string]json.RawMessage{
					"amazon": rawAmz,
				},
			}
			if err := Save(path, cfg); err != nil {
				return nil, false, fmt.Errorf("błąd zapisu domyślnego configa: %w", err)
			}
			return cfg, true, nil
		}
		return nil, false, fmt.Errorf("błąd otwierania configa: %w", err)
	}
	defer f.Close()

	var cfg Config
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, false, fmt.Errorf("błąd parsowania configa: %w", err)
	}
	if cfg.Integrations == nil {
		cfg.Integrations = map[string]json.RawMessage{}
	}
	return &cfg, false, nil
}

func Save(path string, cfg *Config) error {
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}

// Helper do odczytu konkretnej integracji do struktury docelowej
func (c *Config) UnmarshalIntegration(name string, v any) error {
	raw, ok := c.Integrations[name]
	if !ok {
		return fmt.Errorf("brak integracji %q w configu", name)
	}
	return json.Unmarshal(raw, v)
}
