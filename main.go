package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	conf "github.com/bartek5186/amz2sheets/internal/config"
	"github.com/bartek5186/amz2sheets/internal/db"
	logs "github.com/bartek5186/amz2sheets/internal/logs"
	syncer "github.com/bartek5186/amz2sheets/internal/syncer"
)

// wersję możesz nadpisać przez: -ldflags "-X 'main.ver=1.0.1'"
var ver = "1.0.0"

func main() {
	// katalog danych aplikacji (logi, config, lustro sqlite)
	appDir := mustAppDataDir("amz2sheets")
	log := logs.New(filepath.Join(appDir, "app.log"), true)

	cfgPath := filepath.Join(appDir, "config.json")
	cfg, firstRun, err := conf.LoadOrCreate(cfgPath)
	if err != nil {
		panic(err)
	}
	if firstRun {
		log.Info().Msgf("Utworzono domyślną konfigurację: %s — uzupełnij credentials", cfgPath)
	}

	dbh, err := db.Open(cfg.Database.Driver, cfg.Database.DSN, appDir)
	if err != nil {
		log.Fatal().Err(err).Msg("DB open error")
	}
	if err := dbh.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("DB migrate error")
	}
	log.Info().Str("db", dbh.Path).Msg("DB ready")
	sqlDB, _ := dbh.DB.DB()
	defer sqlDB.Close()

	// kontekst sterujący życiem procesu (CTRL+C / SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s := syncer.New(log, cfg, dbh.DB)

	if cfg.AutoStart {
		if err := s.Start(ctx); err != nil {
			log.Error().Msgf("AutoStart nieudany: %v", err)
		} else {
			log.Info().Msgf("amz2sheets %s — działa", ver)
		}
	}

	// Prosta pętla poleceń w terminalu
	fmt.Println("amz2sheets CLI", ver)
	fmt.Println("Komendy: start | stop | sync | reload | status | paths | quit")
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")
		line, _ := reader.ReadString('\n')
		cmd := strings.TrimSpace(strings.ToLower(line))

		switch cmd {
		case "start":
			if err := s.Start(ctx); err != nil {
				log.Error().Msgf("Start error: %v", err)
				fmt.Println("Błąd startu:", err)
				continue
			}
			fmt.Println("Start OK")
		case "stop":
			s.Stop()
			fmt.Println("Zatrzymano")
		case "sync":
			// jednorazowy przebieg poza harmonogramem
			if !s.IsRunning() {
				fmt.Println("Syncer zatrzymany — najpierw: start")
				continue
			}
			n := s.SyncNow()
			fmt.Printf("Wymuszono przebieg (%d integracji)\n", n)
		case "reload":
			newCfg, _, err := conf.LoadOrCreate(cfgPath)
			if err != nil {
				log.Error().Msgf("Błąd reloadu: %v", err)
				fmt.Println("Błąd reloadu:", err)
				continue
			}
			cfg = newCfg
			s.UpdateConfig(cfg)
			log.Info().Msg("Konfiguracja przeładowana")
			fmt.Println("Konfiguracja przeładowana")
		case "status":
			if s.IsRunning() {
				fmt.Println("Status: DZIAŁA")
			} else {
				fmt.Println("Status: ZATRZYMANY")
			}
		case "paths":
			fmt.Println("Logi:", filepath.Join(appDir, "app.log"))
			fmt.Println("Config:", cfgPath)
			fmt.Println("DB:", dbh.Path)
		case "quit", "exit":
			cancel()
			s.Stop()
			time.Sleep(50 * time.Millisecond)
			return
		case "":
			// enter – ignoruj
		default:
			fmt.Println("Nieznana komenda. Użyj: start | stop | sync | reload | status | paths | quit")
		}
	}
}

func mustAppDataDir(name string) string {
	base, err := os.UserConfigDir()
	if err != nil {
		panic(err)
	}
	p := filepath.Join(base, name)
	_ = os.MkdirAll(p, 0o755)
	return p
}
