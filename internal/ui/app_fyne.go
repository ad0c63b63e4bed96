//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"gowhiteboard/internal/config"
	"gowhiteboard/internal/crash"
	"gowhiteboard/internal/domain"
	"gowhiteboard/internal/export"
	"gowhiteboard/internal/geometry"
	applog "gowhiteboard/internal/log"
	"gowhiteboard/internal/snap"
	"gowhiteboard/internal/storage"
	"gowhiteboard/internal/telemetry"
	"gowhiteboard/internal/undo"
	"gowhiteboard/internal/version"
)

// Run starts the Fyne-based desktop UI with the interactive board canvas.
func Run(boardDir string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	var bh *storage.BoardHandle
	defer func() { crash.Recover(bh) }()

	cfg, cfgPath, cfgErr := config.Load()
	if cfgErr != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", cfgErr))
	} else if cfgPath != "" {
		l.Info("config loaded", slog.String("path", cfgPath))
	}

	fyneApp := app.NewWithID("gowhiteboard")
	w := fyneApp.NewWindow("Go Whiteboard")
	// Restore window size from preferences (with sane minimums)
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")
	canvasWidget := NewBoardCanvas()
	canvasWidget.snapDistance = cfg.Snap.Distance
	canvasWidget.snapPoints = prefs.BoolWithFallback("snap.points", cfg.Snap.Points)
	canvasWidget.snapGaps = prefs.BoolWithFallback("snap.gaps", cfg.Snap.Gaps)

	currentSceneIdx := 0

	// Undo manager with safeguards (snapshots capture the whole scene)
	undoMgr := undo.NewManager(undo.Config{
		MaxBytes:    32 * 1024 * 1024, // 32 MiB in-memory cap
		MaxPerScene: 25,
		MinInterval: 300 * time.Millisecond,
	})

	currentSceneName := func() string {
		if bh == nil || currentSceneIdx < 0 || currentSceneIdx >= len(bh.Board.Scenes) {
			return ""
		}
		return bh.Board.Scenes[currentSceneIdx].Name
	}

	captureSceneSnapshot := func() ([]byte, string, error) {
		if bh == nil || len(bh.Board.Scenes) == 0 {
			return nil, "", fmt.Errorf("no board/scene open")
		}
		sc := bh.Board.Scenes[currentSceneIdx]
		blob, err := json.Marshal(sc)
		if err != nil {
			return nil, "", err
		}
		return blob, sc.Name, nil
	}

	applySceneSnapshot := func(blob []byte) error {
		if bh == nil {
			return fmt.Errorf("no board open")
		}
		var sc domain.Scene
		if err := json.Unmarshal(blob, &sc); err != nil {
			return err
		}
		if currentSceneIdx < 0 || currentSceneIdx >= len(bh.Board.Scenes) {
			return fmt.Errorf("scene index out of range")
		}
		bh.Board.Scenes[currentSceneIdx] = sc
		canvasWidget.ShowScene(&bh.Board.Scenes[currentSceneIdx])
		return nil
	}

	pushUndoSnapshot := func() {
		blob, name, err := captureSceneSnapshot()
		if err != nil {
			return
		}
		undoMgr.PushSnapshot(undo.Snapshot{Scene: name, Blob: blob, TS: time.Now()})
	}

	// Scene navigation (left)
	sceneNames := []string{}
	scenesList := widget.NewList(
		func() int { return len(sceneNames) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= 0 && int(i) < len(sceneNames) {
				o.(*widget.Label).SetText(sceneNames[i])
			} else {
				o.(*widget.Label).SetText("")
			}
		},
	)

	// Element inspector (right)
	elementDisplay := []string{}
	elementList := widget.NewList(
		func() int { return len(elementDisplay) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) { o.(*widget.Label).SetText(elementDisplay[i]) },
	)
	elementList.OnSelected = func(id widget.ListItemID) {
		canvasWidget.SelectIndex(int(id))
	}

	refreshElementList := func() {
		elementDisplay = elementDisplay[:0]
		if bh != nil && currentSceneIdx >= 0 && currentSceneIdx < len(bh.Board.Scenes) {
			for _, e := range bh.Board.Scenes[currentSceneIdx].Elements {
				d := fmt.Sprintf("%s %s (%.0fx%.0f @%.0f,%.0f)", e.Kind, e.ID, e.Width, e.Height, e.X, e.Y)
				if strings.TrimSpace(e.Text) != "" {
					d += " " + e.Text
				}
				elementDisplay = append(elementDisplay, d)
			}
		}
		elementList.Refresh()
	}

	refreshScenesList := func() {
		sceneNames = sceneNames[:0]
		if bh != nil {
			for _, sc := range bh.Board.Scenes {
				sceneNames = append(sceneNames, sc.Name)
			}
		}
		scenesList.Refresh()
		if currentSceneIdx >= 0 && currentSceneIdx < len(sceneNames) {
			scenesList.Select(currentSceneIdx)
		}
	}

	scenesList.OnSelected = func(id widget.ListItemID) {
		if bh == nil || int(id) < 0 || int(id) >= len(bh.Board.Scenes) {
			return
		}
		currentSceneIdx = int(id)
		canvasWidget.ShowScene(&bh.Board.Scenes[currentSceneIdx])
		refreshElementList()
		status.SetText(fmt.Sprintf("Scene: %s", bh.Board.Scenes[currentSceneIdx].Name))
	}

	// Snap controls
	pointSnapCheck := widget.NewCheck("Point Snapping", func(v bool) {
		canvasWidget.snapPoints = v
		l.Info("toggle point snapping", slog.Bool("enabled", v))
	})
	pointSnapCheck.SetChecked(canvasWidget.snapPoints)
	gapSnapCheck := widget.NewCheck("Gap Snapping", func(v bool) {
		canvasWidget.snapGaps = v
		l.Info("toggle gap snapping", slog.Bool("enabled", v))
	})
	gapSnapCheck.SetChecked(canvasWidget.snapGaps)
	distLabel := widget.NewLabel(fmt.Sprintf("Snap distance: %.0f", canvasWidget.snapDistance))
	distSlider := widget.NewSlider(1, 32)
	distSlider.Step = 1
	distSlider.Value = canvasWidget.snapDistance
	distSlider.OnChanged = func(v float64) {
		canvasWidget.snapDistance = v
		distLabel.SetText(fmt.Sprintf("Snap distance: %.0f", v))
	}

	// Drag lifecycle: snapshot before the gesture, telemetry on commit.
	canvasWidget.OnDragStart = func() { pushUndoSnapshot() }
	canvasWidget.OnDragCommit = func(xKind, yKind string) {
		refreshElementList()
		if xKind != "" || yKind != "" {
			telemetry.SnapCommitted(xKind, yKind)
		}
	}

	doSave := func() {
		if bh == nil {
			status.SetText("Nothing to save")
			return
		}
		if err := storage.Save(bh); err != nil {
			l.Error("save failed", slog.Any("err", err))
			dialog.ShowError(err, w)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := storage.UpdateIndex(ctx, bh.Root, bh.Board); err != nil {
			l.Warn("index update failed", slog.Any("err", err))
		}
		status.SetText(fmt.Sprintf("Saved: %s", bh.Root))
	}

	doUndo := func() {
		name := currentSceneName()
		if name == "" {
			return
		}
		if s, ok := undoMgr.Undo(name); ok {
			if err := applySceneSnapshot(s.Blob); err != nil {
				l.Error("undo apply failed", slog.Any("err", err))
				return
			}
			refreshElementList()
			status.SetText("Undone")
		}
	}
	doRedo := func() {
		name := currentSceneName()
		if name == "" {
			return
		}
		if s, ok := undoMgr.Redo(name); ok {
			if err := applySceneSnapshot(s.Blob); err != nil {
				l.Error("redo apply failed", slog.Any("err", err))
				return
			}
			refreshElementList()
			status.SetText("Redone")
		}
	}

	// Menus
	openItem := fyne.NewMenuItem("Open Board…", func() {
		dialog.ShowFolderOpen(func(u fyne.ListableURI, err error) {
			if err != nil || u == nil {
				return
			}
			if oerr := openBoard(u.Path(), &bh, w, l, status); oerr != nil {
				dialog.ShowError(oerr, w)
				return
			}
			currentSceneIdx = 0
			if len(bh.Board.Scenes) > 0 {
				canvasWidget.ShowScene(&bh.Board.Scenes[0])
			}
			refreshScenesList()
			refreshElementList()
			addRecentBoard(prefs, u.Path())
		}, w)
	})
	saveItem := fyne.NewMenuItem("Save", doSave)
	fileMenu := fyne.NewMenu("File", openItem, saveItem)

	undoItem := fyne.NewMenuItem("Undo", doUndo)
	redoItem := fyne.NewMenuItem("Redo", doRedo)
	editMenu := fyne.NewMenu("Edit", undoItem, redoItem)

	guideColor := domain.Color{R: 0, G: 170, B: 255, A: 255}
	exportSVGItem := fyne.NewMenuItem("Scenes as SVG", func() {
		if bh == nil {
			return
		}
		if err := export.ExportBoardSVGScenes(bh, "svg", export.SVGOptions{Guides: canvasWidget.guides, GuideColor: guideColor}); err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Exported SVG scenes")
	})
	exportPNGItem := fyne.NewMenuItem("Scenes as PNG", func() {
		if bh == nil {
			return
		}
		if err := export.ExportBoardPNGScenes(bh, "png", export.PNGOptions{Scale: 2}); err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Exported PNG scenes")
	})
	exportPDFItem := fyne.NewMenuItem("Board as PDF", func() {
		if bh == nil {
			return
		}
		if err := export.ExportBoardPDF(bh, filepath.Join("pdf", "board.pdf"), export.PDFOptions{}); err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Exported board PDF")
	})
	exportWebItem := fyne.NewMenuItem("Web Preset", func() {
		if bh == nil {
			return
		}
		if err := export.BatchExport(bh, export.BatchOptions{Preset: export.PresetWeb}); err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Exported web preset")
	})
	exportMenu := fyne.NewMenu("Export", exportSVGItem, exportPNGItem, exportPDFItem, exportWebItem)

	aboutItem := fyne.NewMenuItem("About Go Whiteboard", func() {
		exe, _ := os.Executable()
		cwd, _ := os.Getwd()
		info := fmt.Sprintf("Go Whiteboard\nVersion: %s\nOS: %s\nArch: %s\nGo: %s\nExecutable: %s\nWorking Dir: %s",
			version.String(), runtime.GOOS, runtime.GOARCH, runtime.Version(), exe, cwd)
		dialog.ShowInformation("Installation Environment", info, w)
	})
	aboutMenu := fyne.NewMenu("About", aboutItem)

	w.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, exportMenu, aboutMenu))

	left := container.NewVBox(widget.NewLabel("Scenes"), widget.NewSeparator(), scenesList)
	right := container.NewVBox(
		widget.NewLabel("Elements"), widget.NewSeparator(), elementList,
		widget.NewSeparator(),
		pointSnapCheck, gapSnapCheck, distLabel, distSlider,
	)
	content := container.NewBorder(nil, status, left, right, canvasWidget)
	w.SetContent(content)

	// Persist preferences on close
	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		prefs.SetBool("snap.points", canvasWidget.snapPoints)
		prefs.SetBool("snap.gaps", canvasWidget.snapGaps)
		w.Close()
	})

	// Try to open a board if provided
	if boardDir != "" {
		if err := openBoard(boardDir, &bh, w, l, status); err != nil {
			l.Error("auto-open board failed", slog.Any("err", err))
			// not fatal; continue
		} else {
			currentSceneIdx = 0
			if len(bh.Board.Scenes) > 0 {
				canvasWidget.ShowScene(&bh.Board.Scenes[0])
			}
			refreshScenesList()
			refreshElementList()
			addRecentBoard(prefs, boardDir)
		}
	}

	w.ShowAndRun()
	return nil
}

func openBoard(dir string, bh **storage.BoardHandle, w fyne.Window, l *slog.Logger, status *widget.Label) error {
	abs, _ := filepath.Abs(dir)
	l.Info("open board", slog.String("root", abs))
	h, err := storage.Open(abs)
	if err != nil {
		return err
	}
	*bh = h
	w.SetTitle(fmt.Sprintf("Go Whiteboard — %s", h.Board.Name))
	status.SetText(fmt.Sprintf("Opened board: %s", abs))
	return nil
}

// BoardCanvas is the interactive scene canvas. It draws the scene's elements,
// supports pan with mouse drag and zoom with the wheel, and applies alignment
// and spacing snapping live while an element is moved or resized. Guides from
// the snapping engine are drawn as overlay lines with anchor markers and
// gap-width labels.
type BoardCanvas struct {
	widget.BaseWidget
	// Interaction
	zoom    float32
	offsetX float32
	offsetY float32
	// Scene geometry in world units
	sceneW float32
	sceneH float32

	scene    *domain.Scene
	selected int // index into scene.Elements, -1 if none

	// Snapping configuration, mirrored from config / toolbar
	snapDistance float64
	snapPoints   bool
	snapGaps     bool
	// Active guides from the last snap resolution (cleared on drag end)
	guides []snap.Guide

	// Interaction state for transforms
	dragMode   dragMode
	startWorld geometry.Pt
	startRect  geometry.Rect
	startRot   float64

	// OnDragStart fires before the first transform of a gesture.
	// OnDragCommit fires after a completed move/resize with the per-axis
	// snap kinds that were in effect ("point", "gap" or empty).
	OnDragStart  func()
	OnDragCommit func(xKind, yKind string)
}

// dragMode represents the current interaction kind.
// dragNone: idle; dragPan: background pan; dragMove: moving selection; dragScale*: corner resize.
type dragMode int

const (
	dragNone dragMode = iota
	dragPan
	dragMove
	dragScaleNW
	dragScaleNE
	dragScaleSW
	dragScaleSE
)

func NewBoardCanvas() *BoardCanvas {
	bc := &BoardCanvas{
		zoom:         1.0,
		sceneW:       1280,
		sceneH:       800,
		selected:     -1,
		snapDistance: 8,
		snapPoints:   true,
		snapGaps:     true,
	}
	bc.ExtendBaseWidget(bc)
	return bc
}

// PreferredSize sets a decent default size for the widget.
func (c *BoardCanvas) PreferredSize() fyne.Size { return fyne.NewSize(800, 600) }

// ShowScene switches the canvas to the given scene. The pointer aliases the
// board model so element edits land in the document directly.
func (c *BoardCanvas) ShowScene(sc *domain.Scene) {
	c.scene = sc
	if sc != nil {
		if sc.Width > 0 {
			c.sceneW = float32(sc.Width)
		}
		if sc.Height > 0 {
			c.sceneH = float32(sc.Height)
		}
	}
	c.selected = -1
	c.guides = nil
	c.dragMode = dragNone
	c.Refresh()
}

// SelectIndex selects the element at the given index and refreshes.
func (c *BoardCanvas) SelectIndex(i int) {
	if c.scene == nil || i < 0 || i >= len(c.scene.Elements) {
		c.selected = -1
	} else {
		c.selected = i
	}
	c.Refresh()
}

// Coordinate helpers: world <-> screen mapping
func (c *BoardCanvas) sceneOriginAndScale() (cx, cy, scale float32) {
	size := c.Size()
	scaledW := c.sceneW * c.zoom
	scaledH := c.sceneH * c.zoom
	cx = size.Width/2 - scaledW/2 + c.offsetX
	cy = size.Height/2 - scaledH/2 + c.offsetY
	return cx, cy, c.zoom
}

func (c *BoardCanvas) toScreen(pt geometry.Pt) fyne.Position {
	cx, cy, s := c.sceneOriginAndScale()
	x := cx + float32(pt.X)*s
	y := cy + float32(pt.Y)*s
	return fyne.NewPos(float32ToFixed(x), float32ToFixed(y))
}

func (c *BoardCanvas) toWorld(pos fyne.Position) geometry.Pt {
	cx, cy, s := c.sceneOriginAndScale()
	return geometry.Pt{X: float64((pos.X - cx) / s), Y: float64((pos.Y - cy) / s)}
}

// Hit test the scene and return the top-most element index. Rotated elements
// are tested against their world bounding box.
func (c *BoardCanvas) hitTest(world geometry.Pt) int {
	if c.scene == nil {
		return -1
	}
	for i := len(c.scene.Elements) - 1; i >= 0; i-- {
		if c.scene.Elements[i].SnapElement().Bounds().Contains(world) {
			return i
		}
	}
	return -1
}

// Light-weight rectangle type for handle geometry
type fRect struct{ X, Y, Width, Height float32 }

// Handle rectangles in screen coords around the selection bbox
func (c *BoardCanvas) handleRects() (bbox fRect, corners [4]fRect, ok bool) {
	if c.scene == nil || c.selected < 0 || c.selected >= len(c.scene.Elements) {
		return fRect{}, [4]fRect{}, false
	}
	b := c.scene.Elements[c.selected].SnapElement().Bounds()
	p0 := c.toScreen(geometry.Pt{X: b.MinX, Y: b.MinY})
	p1 := c.toScreen(geometry.Pt{X: b.MaxX, Y: b.MaxY})
	bbox = fRect{X: p0.X, Y: p0.Y, Width: p1.X - p0.X, Height: p1.Y - p0.Y}
	sz := float32(8)
	corners = [4]fRect{
		{bbox.X - sz/2, bbox.Y - sz/2, sz, sz},                            // NW
		{bbox.X + bbox.Width - sz/2, bbox.Y - sz/2, sz, sz},               // NE
		{bbox.X - sz/2, bbox.Y + bbox.Height - sz/2, sz, sz},              // SW
		{bbox.X + bbox.Width - sz/2, bbox.Y + bbox.Height - sz/2, sz, sz}, // SE
	}
	return bbox, corners, true
}

func inFRect(pos fyne.Position, r fRect) bool {
	return pos.X >= r.X && pos.X <= r.X+r.Width && pos.Y >= r.Y && pos.Y <= r.Y+r.Height
}

// Tapped selects an element using hit testing.
func (c *BoardCanvas) Tapped(e *fyne.PointEvent) {
	c.selected = c.hitTest(c.toWorld(e.Position))
	c.dragMode = dragNone
	c.guides = nil
	c.Refresh()
}

// snapReferences returns the scene's elements excluding the selection.
func (c *BoardCanvas) snapReferences() []snap.Element {
	if c.scene == nil || c.selected < 0 || c.selected >= len(c.scene.Elements) {
		return nil
	}
	skip := map[string]bool{c.scene.Elements[c.selected].ID: true}
	return c.scene.SnapElements(skip)
}

// Dragged applies pan, move or resize. Move and resize run the snapping
// engine on every event against the element's raw dragged position: the raw
// position stays the query input and only the rendered element takes the
// nudge, so a snap releases as soon as the cursor leaves the tolerance band.
func (c *BoardCanvas) Dragged(e *fyne.DragEvent) {
	pos := e.Position
	if c.dragMode == dragNone {
		if c.selected >= 0 {
			_, corners, ok := c.handleRects()
			if ok {
				switch {
				case inFRect(pos, corners[0]):
					c.dragMode = dragScaleNW
				case inFRect(pos, corners[1]):
					c.dragMode = dragScaleNE
				case inFRect(pos, corners[2]):
					c.dragMode = dragScaleSW
				case inFRect(pos, corners[3]):
					c.dragMode = dragScaleSE
				}
			}
		}
		if c.dragMode == dragNone {
			world := c.toWorld(pos)
			if c.selected >= 0 && c.scene.Elements[c.selected].SnapElement().Bounds().Contains(world) {
				c.dragMode = dragMove
			} else {
				c.dragMode = dragPan
			}
		}
		c.startWorld = c.toWorld(pos)
		if c.scene != nil && c.selected >= 0 && c.selected < len(c.scene.Elements) {
			el := c.scene.Elements[c.selected]
			// Locked elements only pan
			if el.Locked && c.dragMode != dragPan {
				c.dragMode = dragPan
			}
			c.startRect = el.Rect()
			c.startRot = el.Rotation
			if c.dragMode != dragPan && c.OnDragStart != nil {
				c.OnDragStart()
			}
		}
	}

	switch c.dragMode {
	case dragPan:
		c.offsetX += e.Dragged.DX
		c.offsetY += e.Dragged.DY
	case dragMove:
		c.dragMoveTo(pos)
	case dragScaleNW, dragScaleNE, dragScaleSW, dragScaleSE:
		c.dragResizeTo(pos)
	}
	c.Refresh()
}

func (c *BoardCanvas) dragMoveTo(pos fyne.Position) {
	if c.scene == nil || c.selected < 0 || c.selected >= len(c.scene.Elements) {
		return
	}
	cur := c.toWorld(pos)
	dx := cur.X - c.startWorld.X
	dy := cur.Y - c.startWorld.Y
	moved := c.startRect.Translate(dx, dy)
	res := snap.Move(snap.MoveQuery{
		Target:       snap.Element{Rect: moved, Rotation: c.startRot}.Bounds(),
		References:   c.snapReferences(),
		Distance:     c.snapDistance,
		Moving:       []snap.Element{{Rect: c.startRect, Rotation: c.startRot}},
		Offset:       geometry.Pt{X: dx, Y: dy},
		NoPointSnaps: !c.snapPoints,
		NoGapSnaps:   !c.snapGaps,
	})
	el := &c.scene.Elements[c.selected]
	el.X = c.startRect.MinX + dx + res.Dx
	el.Y = c.startRect.MinY + dy + res.Dy
	c.guides = res.Guides
}

func (c *BoardCanvas) dragResizeTo(pos fyne.Position) {
	if c.scene == nil || c.selected < 0 || c.selected >= len(c.scene.Elements) {
		return
	}
	cur := c.toWorld(pos)
	r := c.startRect
	var ax, ay []geometry.Anchor
	switch c.dragMode {
	case dragScaleNW:
		r.MinX, r.MinY = cur.X, cur.Y
		ax, ay = []geometry.Anchor{geometry.AnchorStart}, []geometry.Anchor{geometry.AnchorStart}
	case dragScaleNE:
		r.MaxX, r.MinY = cur.X, cur.Y
		ax, ay = []geometry.Anchor{geometry.AnchorEnd}, []geometry.Anchor{geometry.AnchorStart}
	case dragScaleSW:
		r.MinX, r.MaxY = cur.X, cur.Y
		ax, ay = []geometry.Anchor{geometry.AnchorStart}, []geometry.Anchor{geometry.AnchorEnd}
	case dragScaleSE:
		r.MaxX, r.MaxY = cur.X, cur.Y
		ax, ay = []geometry.Anchor{geometry.AnchorEnd}, []geometry.Anchor{geometry.AnchorEnd}
	}
	res := snap.Resize(snap.ResizeQuery{
		Target:       r,
		References:   c.snapReferences(),
		Distance:     c.snapDistance,
		AnchorsX:     ax,
		AnchorsY:     ay,
		NoPointSnaps: !c.snapPoints,
	})
	// Apply the nudge to the dragged edges only
	switch c.dragMode {
	case dragScaleNW:
		r.MinX += res.Dx
		r.MinY += res.Dy
	case dragScaleNE:
		r.MaxX += res.Dx
		r.MinY += res.Dy
	case dragScaleSW:
		r.MinX += res.Dx
		r.MaxY += res.Dy
	case dragScaleSE:
		r.MaxX += res.Dx
		r.MaxY += res.Dy
	}
	// Normalize so a crossed drag never yields negative size
	if r.MinX > r.MaxX {
		r.MinX, r.MaxX = r.MaxX, r.MinX
	}
	if r.MinY > r.MaxY {
		r.MinY, r.MaxY = r.MaxY, r.MinY
	}
	el := &c.scene.Elements[c.selected]
	el.X = r.MinX
	el.Y = r.MinY
	el.Width = r.Width()
	el.Height = r.Height()
	c.guides = res.Guides
}

// DragEnd commits the gesture: reports the per-axis snap kinds that were in
// effect and clears the overlay.
func (c *BoardCanvas) DragEnd() {
	mode := c.dragMode
	c.dragMode = dragNone
	if mode == dragNone || mode == dragPan {
		return
	}
	if c.OnDragCommit != nil {
		x, y := snapKinds(c.guides)
		c.OnDragCommit(x, y)
	}
	c.guides = nil
	c.Refresh()
}

// snapKinds derives per-axis snap kind strings from the active guides.
// A vertical guide constrains the X axis, a horizontal guide the Y axis.
func snapKinds(guides []snap.Guide) (xKind, yKind string) {
	name := func(k snap.GuideKind) string {
		if k == snap.GuideGap {
			return "gap"
		}
		return "point"
	}
	for _, g := range guides {
		switch g.Axis {
		case snap.Vertical:
			if xKind == "" {
				xKind = name(g.Kind)
			}
		case snap.Horizontal:
			if yKind == "" {
				yKind = name(g.Kind)
			}
		}
	}
	return xKind, yKind
}

// Scrolled changes zoom. Fyne v2.6 does not expose modifier keys on
// ScrollEvent, so the wheel always zooms.
func (c *BoardCanvas) Scrolled(e *fyne.ScrollEvent) {
	step := e.Scrolled.DY * 0.05
	c.zoom += step
	if c.zoom < 0.1 {
		c.zoom = 0.1
	}
	if c.zoom > 4.0 {
		c.zoom = 4.0
	}
	c.Refresh()
}

const (
	maxGuideLines   = 8
	maxGuideMarkers = 16
	maxGuideLabels  = 8
)

// CreateRenderer builds the drawable objects the renderer positions manually.
func (c *BoardCanvas) CreateRenderer() fyne.WidgetRenderer {
	// Background
	bg := canvas.NewRectangle(color.RGBA{R: 30, G: 30, B: 34, A: 255})

	// Scene base
	board := canvas.NewRectangle(color.White)
	board.StrokeColor = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	board.StrokeWidth = 2

	// Selection overlay: bbox and 4 corner handles
	bbox := canvas.NewRectangle(color.RGBA{0, 0, 0, 0})
	bbox.StrokeColor = color.RGBA{R: 0, G: 170, B: 255, A: 255}
	bbox.StrokeWidth = 1
	bbox.Hide()

	handles := []*canvas.Rectangle{
		canvas.NewRectangle(color.RGBA{R: 0, G: 170, B: 255, A: 255}),
		canvas.NewRectangle(color.RGBA{R: 0, G: 170, B: 255, A: 255}),
		canvas.NewRectangle(color.RGBA{R: 0, G: 170, B: 255, A: 255}),
		canvas.NewRectangle(color.RGBA{R: 0, G: 170, B: 255, A: 255}),
	}
	for _, h := range handles {
		h.Hide()
	}

	// Guide overlay pools, shown as needed per frame
	guideColor := color.RGBA{R: 255, G: 64, B: 160, A: 255}
	lines := make([]*canvas.Line, 0, maxGuideLines)
	for i := 0; i < maxGuideLines; i++ {
		ln := canvas.NewLine(guideColor)
		ln.StrokeWidth = 1
		ln.Hide()
		lines = append(lines, ln)
	}
	markers := make([]*canvas.Rectangle, 0, maxGuideMarkers)
	for i := 0; i < maxGuideMarkers; i++ {
		mk := canvas.NewRectangle(guideColor)
		mk.Hide()
		markers = append(markers, mk)
	}
	labels := make([]*canvas.Text, 0, maxGuideLabels)
	for i := 0; i < maxGuideLabels; i++ {
		tx := canvas.NewText("", guideColor)
		tx.TextSize = 11
		tx.Hide()
		labels = append(labels, tx)
	}

	// Draw order: background, scene base, elements (inserted dynamically),
	// then guides and selection overlay on top.
	objs := []fyne.CanvasObject{bg, board}
	for _, ln := range lines {
		objs = append(objs, ln)
	}
	for _, mk := range markers {
		objs = append(objs, mk)
	}
	for _, tx := range labels {
		objs = append(objs, tx)
	}
	objs = append(objs, bbox)
	for _, h := range handles {
		objs = append(objs, h)
	}

	return &boardCanvasRenderer{
		bc: c, objects: objs,
		bg: bg, board: board,
		lines: lines, markers: markers, labels: labels,
		bbox: bbox, handles: handles,
	}
}

// elementVisual is the per-element drawable set. Every element carries a
// rectangle for its bounds; text elements additionally carry a text object.
type elementVisual struct {
	rect *canvas.Rectangle
	text *canvas.Text
}

// boardCanvasRenderer handles layout of the drawable objects based on zoom/offset.
type boardCanvasRenderer struct {
	bc      *BoardCanvas
	objects []fyne.CanvasObject

	bg, board *canvas.Rectangle
	els       []elementVisual
	// guide overlay pools
	lines   []*canvas.Line
	markers []*canvas.Rectangle
	labels  []*canvas.Text
	// selection visuals
	bbox    *canvas.Rectangle
	handles []*canvas.Rectangle
}

func (r *boardCanvasRenderer) Destroy()                     {}
func (r *boardCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *boardCanvasRenderer) MinSize() fyne.Size           { return r.bc.PreferredSize() }
func (r *boardCanvasRenderer) Refresh()                     { r.Layout(r.bc.Size()); canvas.Refresh(r.bc) }

func (r *boardCanvasRenderer) Layout(size fyne.Size) {
	// Fill background
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))

	scaledW := r.bc.sceneW * r.bc.zoom
	scaledH := r.bc.sceneH * r.bc.zoom

	// Center in the available space, then add pan offset
	cx := size.Width/2 - scaledW/2 + r.bc.offsetX
	cy := size.Height/2 - scaledH/2 + r.bc.offsetY

	r.board.Resize(fyne.NewSize(float32ToFixed(scaledW), float32ToFixed(scaledH)))
	r.board.Move(fyne.NewPos(float32ToFixed(cx), float32ToFixed(cy)))

	r.syncElementVisuals()
	r.layoutElements()
	r.layoutGuides()
	r.layoutSelection()
}

// syncElementVisuals grows the per-element visual pool to match the scene,
// inserting new objects before the guide overlay in draw order.
func (r *boardCanvasRenderer) syncElementVisuals() {
	need := 0
	if r.bc.scene != nil {
		need = len(r.bc.scene.Elements)
	}
	if need <= len(r.els) {
		for j := need; j < len(r.els); j++ {
			r.els[j].rect.Hide()
			r.els[j].text.Hide()
		}
		return
	}
	// Insertion point: before the first guide line so overlays stay on top
	ins := -1
	for i, obj := range r.objects {
		if len(r.lines) > 0 && obj == r.lines[0] {
			ins = i
			break
		}
	}
	if ins < 0 {
		ins = len(r.objects)
	}
	add := need - len(r.els)
	newObjs := make([]fyne.CanvasObject, 0, add*2)
	for j := 0; j < add; j++ {
		rc := canvas.NewRectangle(color.RGBA{R: 220, G: 220, B: 220, A: 255})
		rc.StrokeColor = color.RGBA{R: 30, G: 30, B: 30, A: 255}
		rc.StrokeWidth = 1
		tx := canvas.NewText("", color.RGBA{R: 20, G: 20, B: 20, A: 255})
		tx.TextSize = 12
		tx.Hide()
		r.els = append(r.els, elementVisual{rect: rc, text: tx})
		newObjs = append(newObjs, rc, tx)
	}
	objs := make([]fyne.CanvasObject, 0, len(r.objects)+len(newObjs))
	objs = append(objs, r.objects[:ins]...)
	objs = append(objs, newObjs...)
	objs = append(objs, r.objects[ins:]...)
	r.objects = objs
}

func (r *boardCanvasRenderer) layoutElements() {
	if r.bc.scene == nil {
		return
	}
	for i, e := range r.bc.scene.Elements {
		if i >= len(r.els) {
			break
		}
		b := e.SnapElement().Bounds()
		p0 := r.bc.toScreen(geometry.Pt{X: b.MinX, Y: b.MinY})
		p1 := r.bc.toScreen(geometry.Pt{X: b.MaxX, Y: b.MaxY})
		v := r.els[i]
		v.rect.Show()
		v.rect.Resize(fyne.NewSize(float32ToFixed(p1.X-p0.X), float32ToFixed(p1.Y-p0.Y)))
		v.rect.Move(fyne.NewPos(float32ToFixed(p0.X), float32ToFixed(p0.Y)))
		v.rect.FillColor = elementFill(e)
		v.rect.StrokeColor = elementStroke(e)
		v.rect.Refresh()
		if e.Kind == domain.KindText && strings.TrimSpace(e.Text) != "" {
			v.text.Text = e.Text
			v.text.Show()
			v.text.Move(fyne.NewPos(float32ToFixed(p0.X+4), float32ToFixed(p0.Y+2)))
			v.text.Refresh()
		} else {
			v.text.Hide()
		}
	}
}

func elementFill(e domain.Element) color.Color {
	f := e.Style.Fill
	if f.A == 0 {
		switch e.Kind {
		case domain.KindText:
			return color.RGBA{R: 255, G: 252, B: 230, A: 255}
		case domain.KindArrow:
			return color.RGBA{R: 180, G: 180, B: 180, A: 255}
		default:
			return color.RGBA{R: 240, G: 240, B: 240, A: 255}
		}
	}
	return color.RGBA{R: f.R, G: f.G, B: f.B, A: f.A}
}

func elementStroke(e domain.Element) color.Color {
	s := e.Style.Stroke.Color
	if s.A == 0 {
		return color.RGBA{R: 30, G: 30, B: 30, A: 255}
	}
	return color.RGBA{R: s.R, G: s.G, B: s.B, A: s.A}
}

// layoutGuides positions the overlay pool from the active snap guides:
// a line per guide, small squares on the marker points, and the gap label
// centered on gap guides that carry one.
func (r *boardCanvasRenderer) layoutGuides() {
	li, mi, ti := 0, 0, 0
	for _, g := range r.bc.guides {
		if li >= len(r.lines) {
			break
		}
		p0 := r.bc.toScreen(g.Start)
		p1 := r.bc.toScreen(g.End)
		ln := r.lines[li]
		ln.Position1 = p0
		ln.Position2 = p1
		ln.Show()
		ln.Refresh()
		li++
		for _, m := range g.Markers {
			if mi >= len(r.markers) {
				break
			}
			mp := r.bc.toScreen(m)
			mk := r.markers[mi]
			mk.Resize(fyne.NewSize(5, 5))
			mk.Move(fyne.NewPos(mp.X-2.5, mp.Y-2.5))
			mk.Show()
			mi++
		}
		if g.HasLabel && ti < len(r.labels) {
			tx := r.labels[ti]
			tx.Text = fmt.Sprintf("%.0f", g.Label)
			mid := fyne.NewPos((p0.X+p1.X)/2, (p0.Y+p1.Y)/2-14)
			tx.Move(mid)
			tx.Show()
			tx.Refresh()
			ti++
		}
	}
	for ; li < len(r.lines); li++ {
		r.lines[li].Hide()
	}
	for ; mi < len(r.markers); mi++ {
		r.markers[mi].Hide()
	}
	for ; ti < len(r.labels); ti++ {
		r.labels[ti].Hide()
	}
}

func (r *boardCanvasRenderer) layoutSelection() {
	bbox, corners, ok := r.bc.handleRects()
	if !ok {
		r.bbox.Hide()
		for _, h := range r.handles {
			h.Hide()
		}
		return
	}
	r.bbox.Show()
	r.bbox.Resize(fyne.NewSize(bbox.Width, bbox.Height))
	r.bbox.Move(fyne.NewPos(bbox.X, bbox.Y))
	for i := 0; i < len(r.handles); i++ {
		r.handles[i].Show()
		r.handles[i].Resize(fyne.NewSize(corners[i].Width, corners[i].Height))
		r.handles[i].Move(fyne.NewPos(corners[i].X, corners[i].Y))
	}
}

func float32ToFixed(v float32) float32 { return fyne.NewSize(v, 0).Width }

// Recent board persistence helpers
const recentPrefsKey = "recent.boards"
const recentMax = 10

func loadRecentBoards(p fyne.Preferences) []string {
	raw := p.StringWithFallback(recentPrefsKey, "")
	var items []string
	if strings.TrimSpace(raw) != "" {
		var tmp []string
		if err := json.Unmarshal([]byte(raw), &tmp); err == nil {
			items = tmp
		}
	}
	if items == nil {
		items = []string{}
	}
	// Filter out non-existing paths
	out := make([]string, 0, len(items))
	for _, s := range items {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := os.Stat(s); err == nil {
			out = append(out, s)
		}
	}
	return out
}

func saveRecentBoards(p fyne.Preferences, items []string) {
	if len(items) > recentMax {
		items = items[:recentMax]
	}
	b, _ := json.Marshal(items)
	p.SetString(recentPrefsKey, string(b))
}

func addRecentBoard(p fyne.Preferences, path string) {
	if strings.TrimSpace(path) == "" {
		return
	}
	abs, _ := filepath.Abs(path)
	rec := loadRecentBoards(p)
	out := make([]string, 0, 1+len(rec))
	out = append(out, abs)
	for _, s := range rec {
		// de-dup (case-insensitive on Windows)
		if strings.EqualFold(s, abs) {
			continue
		}
		out = append(out, s)
	}
	saveRecentBoards(p, out)
}
