// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"wilderness-editor/internal/api"
	"wilderness-editor/internal/config"
	"wilderness-editor/internal/drawing"
	"wilderness-editor/internal/editor"
	"wilderness-editor/internal/projection"
	"wilderness-editor/internal/render"
	"wilderness-editor/internal/selection"
	"wilderness-editor/internal/session"
	"wilderness-editor/internal/version"
	"wilderness-editor/internal/wild"
	"wilderness-editor/pkg/geometry"
	"wilderness-editor/ui/canvas"
	"wilderness-editor/ui/dialogs"
	"wilderness-editor/ui/panels"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	baseTitle      = "Wilderness Editor"
	worldExtension = ".wild"
	prefKeyLastDir = "lastDirectory"
)

// layerOrder fixes the View menu ordering of the render layers.
var layerOrder = []string{"Background", "Grid", "Axes", "Regions", "Paths", "Landmarks", "Overlay"}

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app    fyne.App
	cfg    config.Config
	state  *editor.State
	client *api.Client
	drafts *session.Store

	canvas    *canvas.MapCanvas
	sidePanel *panels.SidePanel

	coordLabel *widget.Label
	drawLabel  *widget.Label
	zoomLabel  *widget.Label

	// Menu items that need state tracking
	layerItems map[string]*fyne.MenuItem
	toolItems  map[drawing.Tool]*fyne.MenuItem
	recentMenu *fyne.Menu

	connected bool
	cfgDirty  bool
}

// New creates the main window. drafts may be nil when the session store
// could not be opened; draft checkpoints are then skipped.
func New(fyneApp fyne.App, cfg config.Config, state *editor.State, client *api.Client, drafts *session.Store) *MainWindow {
	win := fyneApp.NewWindow(baseTitle)

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		cfg:    cfg,
		state:  state,
		client: client,
		drafts: drafts,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.setupKeys()

	win.Resize(fyne.NewSize(float32(cfg.Window.Width), float32(cfg.Window.Height)))
	win.SetMaster()
	win.SetCloseIntercept(func() {
		mw.confirmDiscard(func() {
			mw.persistConfig()
			mw.Window.SetCloseIntercept(nil)
			mw.Window.Close()
		})
	})

	return mw
}

func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewMapCanvas(mw.state, projection.New(projection.DefaultConfig()))
	mw.sidePanel = panels.NewSidePanel(mw.state, mw.canvas, mw.cfg.Canvas.BackgroundSource)

	mw.coordLabel = widget.NewLabel("(0, 0)")
	mw.drawLabel = widget.NewLabel("Tool: Inspect")
	mw.zoomLabel = widget.NewLabel("Zoom 100%")

	statusBar := container.NewHBox(
		mw.coordLabel,
		widget.NewSeparator(),
		mw.drawLabel,
		layout.NewSpacer(),
		mw.zoomLabel,
	)

	canvasArea := container.NewBorder(mw.buildToolbar(), nil, nil, nil, mw.canvas)

	split := container.NewHSplit(mw.sidePanel.Container(), canvasArea)
	split.SetOffset(0.25)

	mw.SetContent(container.NewBorder(nil, container.NewPadded(statusBar), nil, nil, split))
}

func (mw *MainWindow) buildToolbar() fyne.CanvasObject {
	zoomSelect := widget.NewSelect(
		[]string{"25%", "50%", "100%", "200%", "400%", "800%"},
		func(choice string) {
			if p, err := strconv.Atoi(strings.TrimSuffix(choice, "%")); err == nil {
				mw.canvas.SetZoomPercent(p)
			}
		})
	zoomSelect.PlaceHolder = "100%"

	return container.NewHBox(
		widget.NewLabel("Zoom:"),
		widget.NewButton("-", mw.canvas.ZoomOut),
		zoomSelect,
		widget.NewButton("+", mw.canvas.ZoomIn),
		widget.NewButton("Origin", func() { mw.canvas.CenterOn(geometry.PointInt{}) }),
		widget.NewSeparator(),
		widget.NewLabel("Tool:"),
		widget.NewButton("Inspect", func() { mw.state.SetTool(drawing.ToolInspect) }),
		widget.NewButton("Region", func() { mw.state.SetTool(drawing.ToolPolygon) }),
		widget.NewButton("Path", func() { mw.state.SetTool(drawing.ToolPolyline) }),
		widget.NewButton("Landmark", func() { mw.state.SetTool(drawing.ToolLandmark) }),
	)
}

func (mw *MainWindow) setupMenus() {
	mw.recentMenu = fyne.NewMenu("Open Recent")
	recentItem := fyne.NewMenuItem("Open Recent", nil)
	recentItem.ChildMenu = mw.recentMenu

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New World", mw.newWorld),
		fyne.NewMenuItem("Open World...", mw.openWorld),
		recentItem,
		fyne.NewMenuItem("Save", mw.saveWorld),
		fyne.NewMenuItem("Save As...", mw.saveWorldAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Connect to Server...", mw.connectToServer),
		fyne.NewMenuItem("Pull World from Server", mw.pullWorld),
		fyne.NewMenuItem("Push Changes to Server", mw.pushChanges),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Edit Selected...", mw.editSelected),
		fyne.NewMenuItem("Delete Selected", mw.deleteSelected),
	)

	viewItems := []*fyne.MenuItem{
		fyne.NewMenuItem("Zoom In", mw.canvas.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.canvas.ZoomOut),
		fyne.NewMenuItem("Reset Zoom", mw.canvas.ResetZoom),
		fyne.NewMenuItem("Center Origin", func() { mw.canvas.CenterOn(geometry.PointInt{}) }),
		fyne.NewMenuItemSeparator(),
	}
	mw.layerItems = make(map[string]*fyne.MenuItem)
	for _, name := range layerOrder {
		layer := name
		item := fyne.NewMenuItem(layer, func() { mw.toggleLayer(layer) })
		mw.layerItems[layer] = item
		viewItems = append(viewItems, item)
	}
	viewMenu := fyne.NewMenu("View", viewItems...)

	mw.toolItems = make(map[drawing.Tool]*fyne.MenuItem)
	var toolItems []*fyne.MenuItem
	for _, t := range []drawing.Tool{drawing.ToolInspect, drawing.ToolPolygon, drawing.ToolPolyline, drawing.ToolLandmark} {
		tool := t
		item := fyne.NewMenuItem(toolLabel(tool), func() { mw.state.SetTool(tool) })
		mw.toolItems[tool] = item
		toolItems = append(toolItems, item)
	}
	toolItems = append(toolItems,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Finish Shape", mw.finishDrawing),
		fyne.NewMenuItem("Cancel Drawing", mw.state.CancelDrawing),
	)
	toolsMenu := fyne.NewMenu("Tools", toolItems...)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.showAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, toolsMenu, helpMenu))
	mw.updateLayerMenu()
	mw.updateToolMenu()
	mw.rebuildRecentMenu()
}

func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(editor.EventWorldLoaded, func(any) {
		mw.updateTitle()
		mw.updateStatus()
	})
	mw.state.On(editor.EventWorldSaved, func(data any) {
		mw.updateTitle()
		if path, ok := data.(string); ok {
			mw.drawLabel.SetText("Saved " + filepath.Base(path))
		}
	})
	mw.state.On(editor.EventModified, func(any) {
		mw.updateTitle()
	})
	mw.state.On(editor.EventSelectionChanged, func(any) {
		mw.updateStatus()
	})
	mw.state.On(editor.EventDrawingChanged, func(data any) {
		mw.updateStatus()
		mw.updateToolMenu()
		if sess, ok := data.(drawing.Session); ok {
			mw.checkpointDraft(sess)
		}
	})
	mw.state.On(editor.EventFlagsChanged, func(any) {
		mw.updateLayerMenu()
	})

	mw.canvas.OnLogicalMove(func(c geometry.PointInt) {
		mw.coordLabel.SetText(fmt.Sprintf("(%d, %d)", c.X, c.Y))
	})
	mw.canvas.OnZoomChange(func(percent int) {
		mw.zoomLabel.SetText(fmt.Sprintf("Zoom %d%%", percent))
	})
	mw.canvas.OnShapeDone(mw.shapeFinished)
	mw.canvas.OnDisambiguate(func(result selection.Result) {
		dialogs.ShowDisambiguation(result, mw.Window, func(item wild.Item) {
			mw.state.Select(item.Ref())
		})
	})

	mw.sidePanel.OnEdit(mw.editItem)
	mw.sidePanel.OnBackgroundChanged(func(source string) {
		mw.cfg.Canvas.BackgroundSource = source
		mw.cfgDirty = true
	})
}

func (mw *MainWindow) setupKeys() {
	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyReturn, fyne.KeyEnter:
			mw.finishDrawing()
		case fyne.KeyEscape:
			mw.state.CancelDrawing()
		case fyne.KeyDelete:
			mw.deleteSelected()
		}
	})
}

// updateTitle reflects the open world file and its dirty flag.
func (mw *MainWindow) updateTitle() {
	title := baseTitle
	if path := mw.state.WorldPath(); path != "" {
		title += " - " + filepath.Base(path)
	}
	if mw.state.Modified() {
		title += " *"
	}
	mw.SetTitle(title)
}

// updateStatus drives the middle status label: drawing progress while a
// capture is open, otherwise the selection, otherwise the active tool.
func (mw *MainWindow) updateStatus() {
	if sess := mw.state.DrawingSession(); sess.Active {
		mw.drawLabel.SetText(sess.Tool.String() + ": " + sess.Status())
		return
	}
	if item := mw.state.SelectedItem(); item != nil {
		mw.drawLabel.SetText(fmt.Sprintf("Selected %s %s", item.Ref().Kind, item.DisplayName()))
		return
	}
	mw.drawLabel.SetText("Tool: " + mw.state.Tool().String())
}

func (mw *MainWindow) toggleLayer(name string) {
	f := mw.state.Flags()
	if b := layerFlag(&f, name); b != nil {
		*b = !*b
		mw.state.SetFlags(f)
	}
}

func (mw *MainWindow) updateLayerMenu() {
	f := mw.state.Flags()
	for name, item := range mw.layerItems {
		if b := layerFlag(&f, name); b != nil && *b {
			item.Label = "✓ " + name
		} else {
			item.Label = "  " + name
		}
	}
	if mw.MainMenu() != nil {
		mw.MainMenu().Refresh()
	}
}

func (mw *MainWindow) updateToolMenu() {
	active := mw.state.Tool()
	for tool, item := range mw.toolItems {
		if tool == active {
			item.Label = "✓ " + toolLabel(tool)
		} else {
			item.Label = "  " + toolLabel(tool)
		}
	}
	if mw.MainMenu() != nil {
		mw.MainMenu().Refresh()
	}
}

// rebuildRecentMenu refills File > Open Recent from the session store.
func (mw *MainWindow) rebuildRecentMenu() {
	if mw.drafts == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	paths, err := mw.drafts.RecentWorlds(ctx, 8)
	if err != nil {
		log.Printf("load recent worlds: %v", err)
		return
	}

	items := make([]*fyne.MenuItem, 0, len(paths))
	for _, p := range paths {
		path := p
		items = append(items, fyne.NewMenuItem(filepath.Base(path), func() {
			mw.confirmDiscard(func() { mw.loadWorldFile(path) })
		}))
	}
	mw.recentMenu.Items = items
	if mw.MainMenu() != nil {
		mw.MainMenu().Refresh()
	}
}

// confirmDiscard runs proceed immediately when there are no unsaved
// changes, otherwise after the user confirms losing them.
func (mw *MainWindow) confirmDiscard(proceed func()) {
	if !mw.state.Modified() {
		proceed()
		return
	}
	dialog.NewConfirm("Unsaved Changes", "The world has unsaved changes. Discard them?",
		func(ok bool) {
			if ok {
				proceed()
			}
		}, mw.Window).Show()
}

func (mw *MainWindow) newWorld() {
	mw.confirmDiscard(mw.state.NewWorld)
}

func (mw *MainWindow) openWorld() {
	mw.confirmDiscard(func() {
		fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, mw.Window)
				return
			}
			if reader == nil {
				return
			}
			path := reader.URI().Path()
			reader.Close()
			mw.loadWorldFile(path)
		}, mw.Window)
		fd.SetFilter(storage.NewExtensionFileFilter([]string{worldExtension}))
		if dir := mw.lastDir(); dir != nil {
			fd.SetLocation(dir)
		}
		fd.Show()
	})
}

func (mw *MainWindow) loadWorldFile(path string) {
	if err := mw.state.LoadWorld(path); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.setLastDir(path)
	mw.touchRecent(path)
}

func (mw *MainWindow) saveWorld() {
	path := mw.state.WorldPath()
	if path == "" {
		mw.saveWorldAs()
		return
	}
	if err := mw.state.SaveWorld(path); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) saveWorldAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if !strings.HasSuffix(path, worldExtension) {
			path += worldExtension
		}
		if err := mw.state.SaveWorld(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.setLastDir(path)
		mw.touchRecent(path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{worldExtension}))
	fd.SetFileName("world" + worldExtension)
	if dir := mw.lastDir(); dir != nil {
		fd.SetLocation(dir)
	}
	fd.Show()
}

func (mw *MainWindow) lastDir() fyne.ListableURI {
	dir := mw.app.Preferences().String(prefKeyLastDir)
	if dir == "" {
		return nil
	}
	lister, err := storage.ListerForURI(storage.NewFileURI(dir))
	if err != nil {
		return nil
	}
	return lister
}

func (mw *MainWindow) setLastDir(path string) {
	mw.app.Preferences().SetString(prefKeyLastDir, filepath.Dir(path))
}

func (mw *MainWindow) touchRecent(path string) {
	if mw.drafts == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := mw.drafts.TouchRecentWorld(ctx, path); err != nil {
		log.Printf("record recent world: %v", err)
		return
	}
	mw.rebuildRecentMenu()
}

func (mw *MainWindow) connectToServer() {
	dialogs.NewLoginDialog(mw.cfg.Server.BaseURL, mw.Window, func(username, password string) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			token, err := mw.client.Login(ctx, username, password)
			if err != nil {
				dialog.ShowError(err, mw.Window)
				return
			}
			mw.connected = true
			mw.cfg.Server.Token = token
			mw.cfgDirty = true
			mw.drawLabel.SetText("Connected to " + mw.cfg.Server.BaseURL)
		}()
	}).Show()
}

func (mw *MainWindow) pullWorld() {
	mw.confirmDiscard(func() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			w, err := mw.client.FetchWorld(ctx)
			if err != nil {
				dialog.ShowError(err, mw.Window)
				return
			}
			mw.state.ReplaceWorld(w.Regions, w.Paths, w.Landmarks)
			mw.drawLabel.SetText(fmt.Sprintf("Pulled %d regions, %d paths, %d landmarks",
				len(w.Regions), len(w.Paths), len(w.Landmarks)))
		}()
	})
}

func (mw *MainWindow) pushChanges() {
	regions, paths := mw.state.DirtyShapes()
	if len(regions) == 0 && len(paths) == 0 {
		dialog.ShowInformation("Push Changes", "No local changes to push.", mw.Window)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		pushed := 0
		var failed []string
		for _, r := range regions {
			if err := mw.pushRegion(ctx, r); err != nil {
				failed = append(failed, fmt.Sprintf("region %d: %v", r.VNum, err))
				continue
			}
			mw.state.MarkSynced(r.Ref())
			pushed++
		}
		for _, p := range paths {
			if err := mw.pushPath(ctx, p); err != nil {
				failed = append(failed, fmt.Sprintf("path %d: %v", p.VNum, err))
				continue
			}
			mw.state.MarkSynced(p.Ref())
			pushed++
		}

		if len(failed) > 0 {
			dialog.ShowError(fmt.Errorf("pushed %d of %d shapes:\n%s",
				pushed, pushed+len(failed), strings.Join(failed, "\n")), mw.Window)
			return
		}
		mw.drawLabel.SetText(fmt.Sprintf("Pushed %d shapes", pushed))
	}()
}

// pushRegion updates the server copy, creating it when the vnum is not
// known there yet.
func (mw *MainWindow) pushRegion(ctx context.Context, r *wild.Region) error {
	err := mw.client.UpdateRegion(ctx, r)
	if api.IsStatus(err, http.StatusNotFound) {
		_, err = mw.client.CreateRegion(ctx, r)
	}
	return err
}

func (mw *MainWindow) pushPath(ctx context.Context, p *wild.Path) error {
	err := mw.client.UpdatePath(ctx, p)
	if api.IsStatus(err, http.StatusNotFound) {
		_, err = mw.client.CreatePath(ctx, p)
	}
	return err
}

// finishDrawing completes the in-progress shape. A below-minimum shape
// keeps its session so the user can add the missing points.
func (mw *MainWindow) finishDrawing() {
	tool, vertices, err := mw.state.FinishDrawing()
	if err != nil {
		var vErr *drawing.ValidationError
		if errors.As(err, &vErr) {
			dialog.ShowError(vErr, mw.Window)
		}
		return
	}
	mw.shapeFinished(tool, vertices)
}

// shapeFinished turns a completed capture into a world feature, asking
// for its properties first.
func (mw *MainWindow) shapeFinished(tool drawing.Tool, vertices []geometry.PointInt) {
	switch tool {
	case drawing.ToolPolygon:
		region := &wild.Region{
			VNum:   mw.state.NextRegionVNum(),
			Type:   wild.RegionGeographic,
			Coords: vertices,
		}
		dialogs.NewRegionDialog(region, mw.Window, func(r *wild.Region) {
			mw.state.UpsertRegion(r)
		}).Show()

	case drawing.ToolPolyline:
		path := &wild.Path{
			VNum:   mw.state.NextPathVNum(),
			Type:   wild.PathDirtRoad,
			Coords: vertices,
		}
		dialogs.NewPathDialog(path, mw.Window, func(p *wild.Path) {
			mw.state.UpsertPath(p)
		}).Show()

	case drawing.ToolLandmark:
		if len(vertices) == 0 {
			return
		}
		landmark := wild.NewLandmark(vertices[0], "")
		dialogs.NewLandmarkDialog(landmark, mw.Window, func(l *wild.Landmark) {
			mw.state.UpsertLandmark(l)
			mw.syncLandmark(l, false)
		}).Show()
	}
}

func (mw *MainWindow) editSelected() {
	if item := mw.state.SelectedItem(); item != nil {
		mw.editItem(item)
	}
}

// editItem opens the property sheet for any feature.
func (mw *MainWindow) editItem(item wild.Item) {
	switch it := item.(type) {
	case *wild.Region:
		dialogs.NewRegionDialog(it, mw.Window, func(r *wild.Region) {
			mw.state.UpsertRegion(r)
		}).Show()
	case *wild.Path:
		dialogs.NewPathDialog(it, mw.Window, func(p *wild.Path) {
			mw.state.UpsertPath(p)
		}).Show()
	case *wild.Landmark:
		dialogs.NewLandmarkDialog(it, mw.Window, func(l *wild.Landmark) {
			mw.state.UpsertLandmark(l)
			mw.syncLandmark(l, true)
		}).Show()
	}
}

func (mw *MainWindow) deleteSelected() {
	item := mw.state.SelectedItem()
	if item == nil {
		return
	}
	ref := item.Ref()
	switch ref.Kind {
	case wild.KindRegion:
		mw.state.RemoveRegion(ref.VNum)
	case wild.KindPath:
		mw.state.RemovePath(ref.VNum)
	case wild.KindLandmark:
		mw.state.RemoveLandmark(ref.ID)
	}
	mw.deleteRemote(ref)
}

// deleteRemote mirrors a local deletion to the server, best effort.
func (mw *MainWindow) deleteRemote(ref wild.Ref) {
	if !mw.connected {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var err error
		switch ref.Kind {
		case wild.KindRegion:
			err = mw.client.DeleteRegion(ctx, ref.VNum)
		case wild.KindPath:
			err = mw.client.DeletePath(ctx, ref.VNum)
		case wild.KindLandmark:
			err = mw.client.DeleteLandmark(ctx, ref.ID)
		}
		if err != nil && !api.IsStatus(err, http.StatusNotFound) {
			log.Printf("delete %s on server: %v", ref.Kind, err)
		}
	}()
}

// syncLandmark mirrors a landmark change to the server right away.
// Landmarks are not batched through Push Changes the way regions and
// paths are.
func (mw *MainWindow) syncLandmark(l *wild.Landmark, update bool) {
	if !mw.connected {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var err error
		if update {
			err = mw.client.UpdateLandmark(ctx, l)
			if api.IsStatus(err, http.StatusNotFound) {
				_, err = mw.client.CreateLandmark(ctx, l)
			}
		} else {
			_, err = mw.client.CreateLandmark(ctx, l)
		}
		if err != nil {
			log.Printf("sync landmark %s: %v", l.ID, err)
		}
	}()
}

// checkpointDraft persists the capture session so a crash mid-drawing
// can be resumed on the next start.
func (mw *MainWindow) checkpointDraft(sess drawing.Session) {
	if mw.drafts == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var err error
	if sess.Active {
		err = mw.drafts.SaveDraft(ctx, session.ActiveDraftID, sess.Tool.String(), sess.Vertices)
	} else {
		err = mw.drafts.DeleteDraft(ctx, session.ActiveDraftID)
	}
	if err != nil {
		log.Printf("checkpoint draft: %v", err)
	}
}

// RestoreDraft replays a crash-saved capture session into the drawing
// machine. Call once at startup.
func (mw *MainWindow) RestoreDraft() {
	if mw.drafts == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	draft, err := mw.drafts.LoadDraft(ctx, session.ActiveDraftID)
	if err != nil {
		log.Printf("load draft: %v", err)
		return
	}
	if draft == nil || len(draft.Vertices) == 0 {
		return
	}
	tool, ok := toolByName(draft.Tool)
	if !ok {
		return
	}

	mw.state.SetTool(tool)
	for _, v := range draft.Vertices {
		mw.state.DrawClick(v)
	}
	mw.drawLabel.SetText(fmt.Sprintf("Restored %s draft with %d points", strings.ToLower(draft.Tool), len(draft.Vertices)))
}

// persistConfig writes the window size and server/canvas settings back
// to the config file.
func (mw *MainWindow) persistConfig() {
	size := mw.Canvas().Size()
	if size.Width > 0 && size.Height > 0 {
		mw.cfg.Window.Width = int(size.Width)
		mw.cfg.Window.Height = int(size.Height)
	}
	if err := mw.cfg.Save(); err != nil {
		log.Printf("save config: %v", err)
		return
	}
	mw.cfgDirty = false
}

// SaveSettings persists the current settings unconditionally. Used
// before a hot-reload restart.
func (mw *MainWindow) SaveSettings() {
	mw.persistConfig()
}

// SaveSettingsIfChanged persists settings when the window geometry or a
// tracked setting has changed since the last save. Cheap enough to call
// from a periodic tick.
func (mw *MainWindow) SaveSettingsIfChanged() {
	size := mw.Canvas().Size()
	if !mw.cfgDirty &&
		int(size.Width) == mw.cfg.Window.Width &&
		int(size.Height) == mw.cfg.Window.Height {
		return
	}
	mw.persistConfig()
}

func (mw *MainWindow) showAbout() {
	dialog.ShowInformation("About Wilderness Editor",
		fmt.Sprintf("Wilderness map editor\nVersion %s", version.String()),
		mw.Window)
}

func toolLabel(t drawing.Tool) string {
	switch t {
	case drawing.ToolPolygon:
		return "Draw Region"
	case drawing.ToolPolyline:
		return "Draw Path"
	case drawing.ToolLandmark:
		return "Place Landmark"
	default:
		return "Inspect"
	}
}

func toolByName(name string) (drawing.Tool, bool) {
	for _, t := range []drawing.Tool{drawing.ToolInspect, drawing.ToolPolygon, drawing.ToolPolyline, drawing.ToolLandmark} {
		if t.String() == name {
			return t, true
		}
	}
	return drawing.ToolInspect, false
}

// layerFlag maps a View menu layer name to its toggle in the flag set.
func layerFlag(f *render.Flags, name string) *bool {
	switch name {
	case "Background":
		return &f.Background
	case "Grid":
		return &f.Grid
	case "Axes":
		return &f.Axes
	case "Regions":
		return &f.Regions
	case "Paths":
		return &f.Paths
	case "Landmarks":
		return &f.Landmarks
	case "Overlay":
		return &f.Overlay
	default:
		return nil
	}
}
