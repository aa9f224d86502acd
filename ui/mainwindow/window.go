// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"log"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"rasterpad/internal/app"
	"rasterpad/internal/engine"
	"rasterpad/internal/version"
	"rasterpad/ui/canvas"
	"rasterpad/ui/panels"
	"rasterpad/ui/prefs"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	prefs     *prefs.Prefs
	editor    *canvas.EditorCanvas
	sidePanel *panels.SidePanel
	statusBar *widget.Label

	undoItem *fyne.MenuItem
	redoItem *fyne.MenuItem
	mainMenu *fyne.MainMenu
}

// New creates a new main window bound to the application state.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("RasterPad")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
	}

	state.On(app.EventDocumentOpened, func(data interface{}) {
		if path, ok := data.(string); ok && path != "" {
			p.AddRecentFile(path)
		}
		mw.bindSession()
	})
	state.On(app.EventDocumentSaved, func(data interface{}) {
		mw.updateTitle()
	})
	state.On(app.EventModified, func(data interface{}) {
		mw.updateTitle()
	})

	if state.Session() == nil {
		if err := state.NewDocument(app.DefaultWidth, app.DefaultHeight); err != nil {
			log.Printf("Failed to create document: %v", err)
		}
	} else {
		mw.bindSession()
	}

	win.Resize(fyne.NewSize(1280, 860))
	return mw
}

// bindSession rebuilds the UI around the state's current session.
func (mw *MainWindow) bindSession() {
	session := mw.state.Session()
	if session == nil {
		return
	}

	if mw.editor != nil {
		mw.editor.Close()
	}
	mw.editor = canvas.NewEditorCanvas(session)
	mw.editor.SetBrush(mw.prefs.Int(prefs.KeyBrushWidth, 8), mw.editor.BrushColor())
	mw.sidePanel = panels.NewSidePanel(session, mw.editor)
	mw.statusBar = widget.NewLabel("Ready")

	mw.editor.OnZoomChange(func(zoom float64) {
		mw.setStatus(fmt.Sprintf("Zoom: %.0f%%", zoom*100))
	})
	mw.editor.OnToolDone(func() {
		mw.state.SetModified(true)
		mw.sidePanel.SyncLayers()
	})

	mw.setupMenus(session)
	mw.watchEvents(session)

	split := container.NewHSplit(mw.sidePanel.Container(), mw.editor)
	split.SetOffset(0.22)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil,
		nil,
		split,
	)
	mw.SetContent(content)
	mw.updateTitle()
}

// watchEvents refreshes the UI on engine events. The goroutine exits
// when the session closes its event bus.
func (mw *MainWindow) watchEvents(session *engine.Session) {
	events := session.Subscribe()
	editor := mw.editor
	side := mw.sidePanel

	go func() {
		for ev := range events {
			switch ev.Kind {
			case engine.EventLayersChanged, engine.EventDocumentLoaded:
				side.SyncLayers()
				editor.Refresh()
			case engine.EventHistoryChanged:
				mw.syncUndoMenu(session)
				editor.Refresh()
			case engine.EventSelectionChanged, engine.EventViewChanged:
				editor.Refresh()
			}
		}
	}()
}

func (mw *MainWindow) setupMenus(session *engine.Session) {
	newItem := fyne.NewMenuItem("New", mw.onNew)
	openItem := fyne.NewMenuItem("Open...", mw.onOpen)
	saveItem := fyne.NewMenuItem("Save As...", mw.onSave)
	exportItem := fyne.NewMenuItem("Export PNG...", mw.onExport)
	fileMenu := fyne.NewMenu("File", newItem, openItem, saveItem, exportItem)

	mw.undoItem = fyne.NewMenuItem("Undo", func() {
		if err := session.Undo(); err == nil {
			mw.editor.Refresh()
			mw.sidePanel.SyncLayers()
		}
	})
	mw.redoItem = fyne.NewMenuItem("Redo", func() {
		if err := session.Redo(); err == nil {
			mw.editor.Refresh()
			mw.sidePanel.SyncLayers()
		}
	})
	clearItem := fyne.NewMenuItem("Clear Layer", func() {
		_ = session.ClearActive(session.BackgroundColor())
		mw.editor.Refresh()
	})
	editMenu := fyne.NewMenu("Edit", mw.undoItem, mw.redoItem,
		fyne.NewMenuItemSeparator(), clearItem)

	aboutItem := fyne.NewMenuItem("About", func() {
		dialog.ShowInformation("About",
			fmt.Sprintf("RasterPad %s", version.String()), mw.Window)
	})
	helpMenu := fyne.NewMenu("Help", aboutItem)

	mw.mainMenu = fyne.NewMainMenu(fileMenu, editMenu, helpMenu)
	mw.SetMainMenu(mw.mainMenu)
	mw.syncUndoMenu(session)
}

func (mw *MainWindow) syncUndoMenu(session *engine.Session) {
	mw.undoItem.Disabled = !session.CanUndo()
	mw.redoItem.Disabled = !session.CanRedo()
	mw.mainMenu.Refresh()

	mb := session.HistoryMemory() / (1 << 20)
	mw.setStatus(fmt.Sprintf("History: %d MiB", mb))
}

func (mw *MainWindow) onNew() {
	if err := mw.state.NewDocument(app.DefaultWidth, app.DefaultHeight); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onOpen() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()
		mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(path))
		if err := mw.state.OpenDocument(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(
		[]string{".rpdoc", ".png", ".jpg", ".jpeg", ".tiff", ".tif"}))
	fd.Show()
}

func (mw *MainWindow) onSave() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		_ = writer.Close()
		if filepath.Ext(path) != ".rpdoc" {
			path += ".rpdoc"
		}
		if err := mw.state.SaveDocument(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.AddRecentFile(path)
	}, mw.Window)
	fd.Show()
}

func (mw *MainWindow) onExport() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		_ = writer.Close()
		if filepath.Ext(path) != ".png" {
			path += ".png"
		}
		if err := mw.state.ExportPNG(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.Show()
}

func (mw *MainWindow) setStatus(text string) {
	if mw.statusBar != nil {
		mw.statusBar.SetText(text)
	}
}

func (mw *MainWindow) updateTitle() {
	title := "RasterPad"
	if path := mw.state.DocumentPath; path != "" {
		title = fmt.Sprintf("%s - %s", filepath.Base(path), title)
	}
	if mw.state.Modified {
		title = "*" + title
	}
	mw.SetTitle(title)
}

// SavePreferences writes the brush and tool settings to disk.
func (mw *MainWindow) SavePreferences() {
	if err := mw.prefs.Save(); err != nil {
		log.Printf("Failed to save preferences: %v", err)
	}
}
