// Command certprobe checks that certificate PDFs exist for the emails
// listed in per-group CSV files.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/certprobe/internal/adapters/driven/config/file"
	"github.com/custodia-labs/certprobe/internal/adapters/driven/csvsource"
	"github.com/custodia-labs/certprobe/internal/adapters/driven/report"
	"github.com/custodia-labs/certprobe/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/certprobe/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/certprobe/internal/adapters/driven/transport"
	"github.com/custodia-labs/certprobe/internal/adapters/driving/cli"
	"github.com/custodia-labs/certprobe/internal/core/domain"
	"github.com/custodia-labs/certprobe/internal/core/ports/driven"
	"github.com/custodia-labs/certprobe/internal/core/services"
	"github.com/custodia-labs/certprobe/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

// homeEnv overrides the directory holding config.toml and the run history.
const homeEnv = "CERTPROBE_HOME"

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	home := os.Getenv(homeEnv)

	configStore, err := file.NewConfigStore(home)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	settingsService := services.NewSettingsService(configStore)

	// Directories are read per run so settings changed in the TUI apply at once.
	currentSettings := func() domain.AppSettings {
		s, err := settingsService.Get()
		if err != nil {
			return domain.DefaultAppSettings()
		}
		return *s
	}
	inputDir := func() string { return currentSettings().Input.Dir }
	reportsDir := func() string { return currentSettings().Reports.Dir }

	client := transport.NewClient(
		transport.WithRate(func() float64 { return currentSettings().Probe.RatePerSecond }),
	)
	prober := services.NewProber(client)
	verifier := services.NewBatchVerifier(prober)

	var store driven.RunStore
	dataDir := ""
	if home != "" {
		dataDir = filepath.Join(home, "data")
	}
	sqliteStore, err := sqlite.NewStore(dataDir)
	if err != nil {
		logger.Error("Run history unavailable, keeping runs in memory: %v", err)
		store = memory.NewRunStore()
	} else {
		defer sqliteStore.Close()
		store = sqliteStore
	}

	runService := services.NewRunService(
		settingsService,
		csvsource.NewDynamic(inputDir),
		verifier,
		store,
		report.NewResultsLog(reportsDir),
		report.NewURLList(reportsDir),
	)

	cli.SetVersion(version)
	cli.SetServices(runService, settingsService, prober)
	return cli.Execute()
}
