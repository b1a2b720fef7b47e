//go:build !headless

// display_backend_ebiten.go - Ebiten display backend for QuartzWave Engine

/*
  ___                           _          __        __
 / _ \   _   _    __ _   _ __  | |_   ____ \ \      / /   __ _  __   __   ___
| | | | | | | |  / _` | | '__| | __| |_  /  \ \ /\ / /   / _` | \ \ / /  / _ \
| |_| | | |_| | | (_| | | |    | |_   / /    \ V  V /   | (_| |  \ V /  |  __/
 \__\_\  \__,_|  \__,_| |_|     \__| /___|    \_/\_/     \__,_|   \_/    \___|

(c) 2025 - 2026 The QuartzWave Authors
https://github.com/quartzwave/QuartzWaveEngine
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

type EbitenDisplay struct {
	running     bool
	width       int
	height      int
	fullscreen  bool
	windowedW   int
	windowedH   int
	refreshRate int
	frameCount  uint64

	scene      Scene
	sceneMutex sync.RWMutex

	vsyncChan chan struct{}
	done      chan struct{}

	tickHandler func()
	keyHandler  func(rune)

	showStatusBar bool
}

func NewEbitenDisplay() (WaveDisplay, error) {
	return &EbitenDisplay{
		width:         DEFAULT_WIDTH,
		height:        DEFAULT_HEIGHT,
		windowedW:     DEFAULT_WIDTH,
		windowedH:     DEFAULT_HEIGHT,
		refreshRate:   DEFAULT_REFRESH_RATE,
		vsyncChan:     make(chan struct{}, 1),
		done:          make(chan struct{}),
		showStatusBar: true,
	}, nil
}

func (ed *EbitenDisplay) Start() error {
	if ed.running {
		return nil
	}
	ed.sceneMutex.Lock()
	ed.done = make(chan struct{})
	ed.sceneMutex.Unlock()
	ed.running = true
	ebiten.SetWindowSize(ed.windowedW, ed.windowedH)
	ebiten.SetWindowTitle("QuartzWave Engine")
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)
	if ed.fullscreen {
		ebiten.SetFullscreen(true)
	}

	go func() {
		defer func() {
			ed.running = false
			ed.sceneMutex.RLock()
			done := ed.done
			ed.sceneMutex.RUnlock()
			select {
			case <-done:
			default:
				close(done)
			}
		}()
		if err := ebiten.RunGame(ed); err != nil {
			fmt.Printf("Ebiten error: %v\n", err)
		}
	}()

	// Wait for first Draw call to ensure Ebiten is ready
	<-ed.vsyncChan
	return nil
}

func (ed *EbitenDisplay) Stop() error {
	ed.running = false
	return nil
}

func (ed *EbitenDisplay) Close() error {
	return ed.Stop()
}

func (ed *EbitenDisplay) IsStarted() bool {
	return ed.running
}

func (ed *EbitenDisplay) Done() <-chan struct{} {
	ed.sceneMutex.RLock()
	done := ed.done
	ed.sceneMutex.RUnlock()
	return done
}

func (ed *EbitenDisplay) SetDisplayConfig(config DisplayConfig) error {
	ed.sceneMutex.Lock()
	defer ed.sceneMutex.Unlock()

	if config.Width > 0 {
		ed.width = config.Width
		ed.windowedW = config.Width
	}
	if config.Height > 0 {
		ed.height = config.Height
		ed.windowedH = config.Height
	}
	if config.RefreshRate > 0 {
		ed.refreshRate = config.RefreshRate
	}
	ed.fullscreen = config.Fullscreen
	if ed.running {
		ebiten.SetFullscreen(ed.fullscreen)
		if !ed.fullscreen {
			ebiten.SetWindowSize(ed.windowedW, ed.windowedH)
		}
	}
	return nil
}

func (ed *EbitenDisplay) GetDisplayConfig() DisplayConfig {
	ed.sceneMutex.RLock()
	defer ed.sceneMutex.RUnlock()
	return DisplayConfig{
		Width:       ed.width,
		Height:      ed.height,
		RefreshRate: ed.refreshRate,
		VSync:       true,
		Fullscreen:  ed.fullscreen,
	}
}

func (ed *EbitenDisplay) Size() (int, int) {
	ed.sceneMutex.RLock()
	defer ed.sceneMutex.RUnlock()
	return ed.width, ed.height
}

func (ed *EbitenDisplay) UpdateScene(scene Scene) {
	ed.sceneMutex.Lock()
	ed.scene = scene
	ed.sceneMutex.Unlock()
}

func (ed *EbitenDisplay) SetTickHandler(fn func()) {
	ed.sceneMutex.Lock()
	ed.tickHandler = fn
	ed.sceneMutex.Unlock()
}

func (ed *EbitenDisplay) SetKeyHandler(fn func(rune)) {
	ed.sceneMutex.Lock()
	ed.keyHandler = fn
	ed.sceneMutex.Unlock()
}

func (ed *EbitenDisplay) GetFrameCount() uint64 {
	return ed.frameCount
}

func (ed *EbitenDisplay) emitKey(r rune) {
	ed.sceneMutex.RLock()
	handler := ed.keyHandler
	ed.sceneMutex.RUnlock()
	if handler != nil {
		handler(r)
	}
}

func (ed *EbitenDisplay) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	if !ed.running {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ed.sceneMutex.Lock()
		ed.fullscreen = !ed.fullscreen
		ebiten.SetFullscreen(ed.fullscreen)
		if !ed.fullscreen {
			ebiten.SetWindowSize(ed.windowedW, ed.windowedH)
		}
		ed.sceneMutex.Unlock()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		ed.sceneMutex.Lock()
		ed.showStatusBar = !ed.showStatusBar
		ed.sceneMutex.Unlock()
	}

	for _, r := range ebiten.AppendInputChars(nil) {
		ed.emitKey(r)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		ed.emitKey('+')
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		ed.emitKey('-')
	}

	ed.sceneMutex.RLock()
	tick := ed.tickHandler
	ed.sceneMutex.RUnlock()
	if tick != nil {
		tick()
	}
	return nil
}

func (ed *EbitenDisplay) Draw(screen *ebiten.Image) {
	ed.sceneMutex.RLock()
	scene := ed.scene
	showStatusBar := ed.showStatusBar
	ed.sceneMutex.RUnlock()

	screen.Fill(scene.Background)

	for _, pl := range scene.Polylines {
		drawPolyline(screen, pl)
	}
	if scene.Spectrum != nil {
		ed.drawSpectrum(screen, scene.Spectrum)
	}
	if showStatusBar {
		ed.drawStatusBar(screen, scene.Status)
	}

	ed.frameCount++
	select {
	case ed.vsyncChan <- struct{}{}:
	default:
	}
}

// Layout tracks the outside size so the engine recomputes wave geometry on
// resize.
func (ed *EbitenDisplay) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		ed.sceneMutex.Lock()
		ed.width = outsideWidth
		ed.height = outsideHeight
		ed.sceneMutex.Unlock()
	}
	return outsideWidth, outsideHeight
}

func drawPolyline(screen *ebiten.Image, pl Polyline) {
	thick := int(pl.Thick)
	if thick < 1 {
		thick = 1
	}
	for i := 1; i < len(pl.Points); i++ {
		a := pl.Points[i-1]
		b := pl.Points[i]
		for t := 0; t < thick; t++ {
			ebitenutil.DrawLine(screen, a.X, a.Y+float64(t), b.X, b.Y+float64(t), pl.Color)
		}
	}
}

func (ed *EbitenDisplay) drawSpectrum(screen *ebiten.Image, bands []float64) {
	ed.sceneMutex.RLock()
	w, h := ed.width, ed.height
	ed.sceneMutex.RUnlock()

	maxBarHeight := float64(h) / 4
	barWidth := float64(w) / float64(len(bands))
	barColor := color.RGBA{90, 200, 250, 160}
	for i, m := range bands {
		barHeight := m * maxBarHeight
		x := float64(i) * barWidth
		ebitenutil.DrawRect(screen, x, float64(h)-barHeight, barWidth-1, barHeight, barColor)
	}
}

func (ed *EbitenDisplay) drawStatusBar(screen *ebiten.Image, status StatusModel) {
	ed.sceneMutex.RLock()
	w, h := ed.width, ed.height
	ed.sceneMutex.RUnlock()

	barHeight := 31
	if barHeight >= h {
		return
	}
	y := h - barHeight
	ebitenutil.DrawRect(screen, 0, float64(y), float64(w), float64(barHeight), color.RGBA{0, 0, 0, 180})

	face := basicfont.Face7x13
	labelColor := color.RGBA{190, 190, 190, 255}
	offColor := color.RGBA{120, 120, 120, 255}

	text.Draw(screen, "UNITS", face, 6, y+13, labelColor)
	cursorX := 6 + text.BoundString(face, "UNITS").Dx() + 6
	for _, token := range status.Units {
		c := offColor
		if token.Active {
			c = token.Color
		}
		name := token.Name
		if token.Fading {
			name += "~"
		}
		text.Draw(screen, name, face, cursorX, y+13, c)
		cursorX += text.BoundString(face, name).Dx() + 8
	}

	sound := "SOUND off"
	soundColor := offColor
	if status.SoundOn {
		sound = fmt.Sprintf("SOUND on  %+.0f dB", status.VolumeDB)
		soundColor = color.RGBA{0, 220, 90, 255}
	}
	text.Draw(screen, sound, face, 6, y+26, soundColor)

	legend := "1-9 Units  M Sound  S Spectrum  D Dump  F11 Fullscreen  F12 Status Bar"
	legendW := text.BoundString(face, legend).Dx()
	legendX := max(w-legendW-6, 6)
	text.Draw(screen, legend, face, legendX, y+26, color.RGBA{160, 160, 160, 255})
}
