package panels

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"

	"rasterpad/internal/engine"
	"rasterpad/ui/canvas"
)

// SidePanel provides the main side panel with tabbed sections.
type SidePanel struct {
	container *container.AppTabs

	toolPanel   *ToolPanel
	layersPanel *LayersPanel
}

// NewSidePanel creates a new side panel for a session.
func NewSidePanel(session *engine.Session, editor *canvas.EditorCanvas) *SidePanel {
	sp := &SidePanel{}

	sp.toolPanel = NewToolPanel(session, editor)
	sp.layersPanel = NewLayersPanel(session)

	sp.container = container.NewAppTabs(
		container.NewTabItem("Tools", sp.toolPanel.Container()),
		container.NewTabItem("Layers", sp.layersPanel.Container()),
	)
	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// SyncLayers refreshes the layers panel from the session.
func (sp *SidePanel) SyncLayers() {
	sp.layersPanel.Sync()
}
