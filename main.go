// Package main provides the entry point for the Wilderness Editor
// application.
package main

import (
	"log"
	"os"
	"time"

	"wilderness-editor/internal/api"
	"wilderness-editor/internal/app"
	"wilderness-editor/internal/config"
	"wilderness-editor/internal/editor"
	"wilderness-editor/internal/session"
	"wilderness-editor/internal/version"
	"wilderness-editor/ui/mainwindow"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting Wilderness Editor %s", version.String())

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Config: %v (using defaults)", err)
	}

	fyneApp := fyneapp.NewWithID("io.wilderness.editor")
	fyneApp.Settings().SetTheme(&app.EditorTheme{})

	state := editor.NewState()

	drafts, err := session.Open(cfg.Session.DatabasePath)
	if err != nil {
		log.Printf("Session store: %v (drafts disabled)", err)
		drafts = nil
	}

	client := api.NewClient(cfg.Server.BaseURL, cfg.Server.Token,
		time.Duration(cfg.Server.TimeoutSeconds)*time.Second)

	win := mainwindow.New(fyneApp, cfg, state, client, drafts)

	// A world file on the command line opens immediately.
	if len(os.Args) > 1 {
		worldPath := os.Args[1]
		if err := state.LoadWorld(worldPath); err != nil {
			log.Printf("Failed to load world %s: %v", worldPath, err)
		}
	}

	win.RestoreDraft()
	setupHotReload(win)

	win.ShowAndRun()

	if drafts != nil {
		drafts.Close()
	}
}

// setupHotReload configures automatic restart detection when the binary
// is recompiled during development.
func setupHotReload(win *mainwindow.MainWindow) {
	reloader := app.NewReloader(2 * time.Second)
	if reloader == nil {
		log.Println("Hot reload: unable to determine executable path")
		return
	}

	log.Printf("Hot reload: watching %s", reloader.ExecPath())

	reloader.OnTick(win.SaveSettingsIfChanged)

	reloader.OnNewBinary(func() {
		log.Println("Hot reload: newer binary detected")
		dialog.NewConfirm("New Version Available",
			"The application binary has been updated.\nRestart now?",
			func(restart bool) {
				if !restart {
					reloader.ResetBaseline()
					reloader.Start()
					return
				}
				log.Println("Hot reload: restarting...")
				win.SaveSettings()
				if err := reloader.Restart(); err != nil {
					log.Printf("Hot reload: restart failed: %v", err)
				}
			}, win.Window).Show()
	})

	reloader.Start()
}
