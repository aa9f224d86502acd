// Package main provides the entry point for the RasterPad application.
package main

import (
	"log"
	"os"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"

	"rasterpad/internal/app"
	"rasterpad/internal/version"
	"rasterpad/ui/mainwindow"
	"rasterpad/ui/prefs"
)

const appTitle = "RasterPad"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.String())

	fyneApp := fyneapp.NewWithID("io.rasterpad.editor")
	fyneApp.Settings().SetTheme(&app.EditorTheme{})

	appState := app.NewState()
	appPrefs := prefs.Load()

	win := mainwindow.New(fyneApp, appState, appPrefs)

	// Open a document given on the command line.
	if len(os.Args) > 1 {
		docPath := os.Args[1]
		if err := appState.OpenDocument(docPath); err != nil {
			log.Printf("Failed to open %s: %v", docPath, err)
		}
	}

	setupHotReload(win)

	win.Show()
	fyneApp.Run()

	win.SavePreferences()
}

// setupHotReload prompts for a restart when the binary is recompiled.
func setupHotReload(win *mainwindow.MainWindow) {
	watcher, updated := app.WatchBinary(2 * time.Second)
	if watcher == nil {
		log.Println("Hot reload: unable to determine executable path")
		return
	}
	log.Printf("Hot reload: watching %s", watcher.Path())

	go func() {
		for range updated {
			log.Println("Hot reload: newer binary detected")
			dialog.ShowConfirm("New Version Available",
				"The application binary has been updated.\nRestart now?",
				func(restart bool) {
					if !restart {
						watcher.Rearm()
						return
					}
					win.SavePreferences()
					log.Println("Hot reload: restarting...")
					if err := watcher.Restart(); err != nil {
						log.Printf("Hot reload: restart failed: %v", err)
					}
				}, win.Window)
		}
	}()
}
