// main is the entry point of the student record form.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Open the record store (JSON snapshot or SQLite)
//  4. Build the form controller over the store
//  5. Open the window and run the UI event loop until it is closed
//
// RUNNING:
//
//	go run ./cmd/student-records --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/student-records
package main

import (
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/rs/zerolog"

	"github.com/aanand-mishra/student-records/internal/config"
	"github.com/aanand-mishra/student-records/internal/form"
	"github.com/aanand-mishra/student-records/internal/gui"
	"github.com/aanand-mishra/student-records/internal/logger"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/storage/jsonfile"
	"github.com/aanand-mishra/student-records/internal/storage/sqlite"
)

const appID = "in.edu.srmap.student-records"

func main() {
	cfg := config.MustLoad()

	log := logger.New(cfg.Env)
	log.Info().
		Str("env", cfg.Env).
		Str("version", "1.0.0").
		Msg("starting student-records")

	store, err := openStorage(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialise storage")
		os.Exit(1)
	}
	defer store.Close()

	log.Info().
		Str("driver", cfg.Driver).
		Str("path", cfg.Path).
		Msg("storage initialised")

	controller := form.New(store, cfg.Programs, log)

	fyneApp := app.NewWithID(appID)
	window := fyneApp.NewWindow(cfg.Title)
	window.Resize(fyne.NewSize(cfg.Width, cfg.Height))
	window.SetFixedSize(true)

	gui.New(window, controller, cfg.University)

	window.ShowAndRun()

	log.Info().Msg("window closed, exiting")
}

// openStorage returns the backend named by cfg.Driver.
func openStorage(cfg *config.Config, log zerolog.Logger) (storage.Storage, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.New(cfg.Path, cfg.University, log)
	default:
		return jsonfile.New(cfg.Path, cfg.University, log), nil
	}
}
