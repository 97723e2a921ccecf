// internal/integrations/amazon/amazon.go
package amazon

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/bartek5186/amz2sheets/internal/db"
	"github.com/bartek5186/amz2sheets/internal/integrations"
	"github.com/bartek5186/amz2sheets/internal/reconcile"
	"github.com/bartek5186/amz2sheets/internal/sheet"
	"github.com/bartek5186/amz2sheets/internal/sheet/gsheets"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type Config struct {
	// credentials SP-API (LWA)
	RefreshToken    string `json:"refresh_token"`
	LWAAppID        string `json:"lwa_app_id"`
	LWAClientSecret string `json:"lwa_client_secret"`
	Endpoint        string `json:"endpoint"`       // domyślnie region EU
	MarketplaceID   string `json:"marketplace_id"` // domyślnie IN

	// magazyn docelowy
	Target string         `json:"target"` // "gsheets" (domyślnie) albo "local" — lustro w bazie
	Sheets gsheets.Config `json:"sheets"`

	PollSec           int `json:"poll_sec"`             // co ile sekund tick (domyślnie 60)
	LookbackHours     int `json:"lookback_hours"`       // okno nowych zamówień (domyślnie 2)
	ReconcileHours    int `json:"reconcile_hours"`      // okno odświeżania statusów (domyślnie 6)
	RateLimitBatch    int `json:"rate_limit_batch"`     // pauza co tyle zamówień (domyślnie 10)
	RateLimitPauseSec int `json:"rate_limit_pause_sec"` // długość pauzy (domyślnie 3)

	// okno ciszy nocnej — ticki w tym przedziale są pomijane
	SleepStart string `json:"sleep_start"` // np. "00:30"
	SleepEnd   string `json:"sleep_end"`   // np. "05:30"
}

type Amazon struct {
	log    zerolog.Logger
	cfg    Config
	client *Client

	ctx    context.Context
	cancel context.CancelFunc
	engine *reconcile.Engine
	tickCh chan struct{}
}

func (a *Amazon) Name() string { return "amazon" }

func (a *Amazon) Start(ctx context.Context) error {
	a.ctx, a.cancel = context.WithCancel(ctx)
	a.log.Info().Str("integration", a.Name()).Msg("start")

	store, err := a.openStore(a.ctx)
	if err != nil {
		return err
	}
	a.engine = reconcile.New(a.log, store, a.client, reconcile.Config{
		Lookback:        time.Duration(a.cfg.LookbackHours) * time.Hour,
		ReconcileWindow: time.Duration(a.cfg.ReconcileHours) * time.Hour,
		RateBatch:       orDefault(a.cfg.RateLimitBatch, 10),
		RatePause:       time.Duration(orDefault(a.cfg.RateLimitPauseSec, 3)) * time.Second,
	})

	ticker := time.NewTicker(a.interval())
	defer ticker.Stop()

	// pierwszy strzał od razu
	a.tick()

	for {
		select {
		case <-a.ctx.Done():
			a.log.Info().Str("integration", a.Name()).Msg("stop")
			return nil
		case <-a.tickCh:
			a.tick()
		case <-ticker.C:
			a.tick()
			ticker.Reset(a.interval())
		}
	}
}

func (a *Amazon) Stop() {
	if a.cancel != nil {
		a.cancel()
	}
}

// TickNow wymusza przebieg poza harmonogramem (komenda `sync` w CLI).
func (a *Amazon) TickNow() {
	select {
	case a.tickCh <- struct{}{}:
	default: // przebieg już czeka w kolejce
	}
}

func (a *Amazon) openStore(ctx context.Context) (sheet.Store, error) {
	switch a.cfg.Target {
	case "", "gsheets":
		return gsheets.Open(ctx, a.log, a.cfg.Sheets)
	case "local":
		// lustro w bazie — gorm wędruje przez kontekst, patrz Syncer.Start
		gdb, _ := ctx.Value("gormDB").(*gorm.DB)
		if gdb == nil {
			return nil, errors.New("amazon: target=local, a brak *gorm.DB w kontekście")
		}
		return db.NewStore(gdb), nil
	default:
		return nil, errors.New("amazon: nieznany target " + a.cfg.Target)
	}
}

func (a *Amazon) interval() time.Duration {
	if a.cfg.PollSec <= 0 {
		return 60 * time.Second
	}
	return time.Duration(a.cfg.PollSec) * time.Second
}

func (a *Amazon) tick() {
	now := time.Now()
	if a.inSleepWindow(now) {
		a.log.Debug().Msg("okno ciszy nocnej — pomijam tick")
		return
	}

	// pojedynczy przebieg nie może wisieć w nieskończoność
	runCtx, cancel := context.WithTimeout(a.ctx, 5*time.Minute)
	defer cancel()

	added, skipped, err := a.engine.SyncNew(runCtx)
	if err != nil {
		// bez częściowych zapisów — następny tick wyliczy stan od nowa
		a.log.Error().Err(err).Msg("sync nieudany, ponowienie przy następnym ticku")
		return
	}
	a.log.Info().Int("added", added).Int("skipped", skipped).Msg("tick: sync OK")

	if updated, err := a.engine.ReconcileStatuses(runCtx); err != nil {
		a.log.Error().Err(err).Int("updated", updated).Msg("rekoncyliacja statusów przerwana")
	}
}

// inSleepWindow sprawdza, czy czas lokalny arkusza wpada w okno ciszy.
// Okno może przechodzić przez północ.
func (a *Amazon) inSleepWindow(t time.Time) bool {
	start, ok1 := parseClock(a.cfg.SleepStart)
	end, ok2 := parseClock(a.cfg.SleepEnd)
	if !ok1 || !ok2 {
		return false
	}
	local := t.In(sheet.SheetZone)
	m := local.Hour()*60 + local.Minute()
	if start <= end {
		return m >= start && m <= end
	}
	return m >= start || m <= end
}

// parseClock: "HH:MM" → minuty od północy
func parseClock(s string) (int, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func factory(log zerolog.Logger, raw json.RawMessage) (integrations.Integration, error) {
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	return &Amazon{
		log:    log,
		cfg:    cfg,
		client: newClient(log, cfg),
		tickCh: make(chan struct{}, 1),
	}, nil
}

func init() {
	integrations.Register("amazon", factory)
}
