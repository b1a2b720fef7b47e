//go:build headless

package main

import (
	"sync"
	"time"
)

// HeadlessDisplay drives the tick handler from its own ticker at the
// configured refresh rate and discards every scene.
type HeadlessDisplay struct {
	mutex       sync.RWMutex
	started     bool
	config      DisplayConfig
	scene       Scene
	frameCount  uint64
	tickHandler func()
	keyHandler  func(rune)
	done        chan struct{}
	stop        chan struct{}
}

func NewEbitenDisplay() (WaveDisplay, error) {
	return &HeadlessDisplay{
		config: DisplayConfig{
			Width:       DEFAULT_WIDTH,
			Height:      DEFAULT_HEIGHT,
			RefreshRate: DEFAULT_REFRESH_RATE,
		},
		done: make(chan struct{}),
		stop: make(chan struct{}),
	}, nil
}

func (h *HeadlessDisplay) Start() error {
	h.mutex.Lock()
	if h.started {
		h.mutex.Unlock()
		return nil
	}
	h.started = true
	h.done = make(chan struct{})
	h.stop = make(chan struct{})
	rate := h.config.RefreshRate
	if rate <= 0 {
		rate = DEFAULT_REFRESH_RATE
	}
	h.mutex.Unlock()

	go func() {
		ticker := time.NewTicker(time.Second / time.Duration(rate))
		defer ticker.Stop()
		defer close(h.done)
		for {
			select {
			case <-h.stop:
				return
			case <-ticker.C:
				h.mutex.RLock()
				tick := h.tickHandler
				h.mutex.RUnlock()
				if tick != nil {
					tick()
				}
			}
		}
	}()
	return nil
}

func (h *HeadlessDisplay) Stop() error {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if !h.started {
		return nil
	}
	h.started = false
	close(h.stop)
	return nil
}

func (h *HeadlessDisplay) Close() error {
	return h.Stop()
}

func (h *HeadlessDisplay) IsStarted() bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.started
}

func (h *HeadlessDisplay) Done() <-chan struct{} {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.done
}

func (h *HeadlessDisplay) SetDisplayConfig(config DisplayConfig) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if config.Width > 0 {
		h.config.Width = config.Width
	}
	if config.Height > 0 {
		h.config.Height = config.Height
	}
	if config.RefreshRate > 0 {
		h.config.RefreshRate = config.RefreshRate
	}
	return nil
}

func (h *HeadlessDisplay) GetDisplayConfig() DisplayConfig {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.config
}

func (h *HeadlessDisplay) Size() (int, int) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.config.Width, h.config.Height
}

func (h *HeadlessDisplay) UpdateScene(scene Scene) {
	h.mutex.Lock()
	h.scene = scene
	h.frameCount++
	h.mutex.Unlock()
}

func (h *HeadlessDisplay) SetTickHandler(fn func()) {
	h.mutex.Lock()
	h.tickHandler = fn
	h.mutex.Unlock()
}

func (h *HeadlessDisplay) SetKeyHandler(fn func(rune)) {
	h.mutex.Lock()
	h.keyHandler = fn
	h.mutex.Unlock()
}

func (h *HeadlessDisplay) GetFrameCount() uint64 {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.frameCount
}
