// Package app runs the interactive render loop: a window, the pipeline
// uploading buffers every frame, live edits and scene hot reload.
package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ryanwebber/raybaby/internal/config"
	"github.com/ryanwebber/raybaby/internal/engine/controls"
	"github.com/ryanwebber/raybaby/internal/engine/frame"
	"github.com/ryanwebber/raybaby/internal/engine/input"
	"github.com/ryanwebber/raybaby/internal/engine/renderer"
	"github.com/ryanwebber/raybaby/internal/engine/scene"
	"github.com/ryanwebber/raybaby/internal/engine/window"
	"github.com/ryanwebber/raybaby/internal/logger"
	"github.com/ryanwebber/raybaby/internal/pipeline"
)

// Title is the window title.
const Title = "Raybaby"

// frameWindow is how many frames the logged frame time is averaged over.
const frameWindow = 100

// Options configures the render loop.
type Options struct {
	ScenePath   string
	SceneFormat scene.Format
	Config      *config.Config
	Speeds      controls.Speeds
}

// App is the interactive renderer.
type App struct {
	opts     Options
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	watcher  *scene.Watcher
	pipeline *pipeline.Pipeline
	log      *zap.Logger
}

// New loads the scene and creates the window, renderer and watcher.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	a := &App{
		opts: opts,
		log:  logger.Named("app"),
	}

	a.log.Info("initializing",
		zap.String("scene", opts.ScenePath),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	s, err := scene.LoadAs(opts.ScenePath, opts.SceneFormat)
	if err != nil {
		return nil, fmt.Errorf("loading scene: %w", err)
	}
	spheres, meshes, vertices, triangles := s.Counts()
	a.log.Info("scene loaded",
		zap.Int("spheres", spheres),
		zap.Int("meshes", meshes),
		zap.Int("vertices", vertices),
		zap.Int("triangles", triangles))

	// Create window (this also creates OpenGL context)
	a.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	width, height := a.window.Size()
	a.renderer, err = renderer.New(renderer.Config{Width: width, Height: height})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	a.renderer.SetClearColor(cfg.Lighting.SkyboxColor)

	popts, err := pipeline.FromConfig(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	popts.Aspect = a.window.Aspect()
	a.pipeline, err = pipeline.New(s, popts)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.watcher, err = scene.Watch(opts.ScenePath, opts.SceneFormat)
	if err != nil {
		// Rendering works without reload.
		a.log.Warn("scene hot reload disabled", zap.Error(err))
	}

	a.input = input.New()

	a.log.Info("initialized",
		zap.Uint32("seed", popts.Params.RandomSeed),
		zap.String("stride_policy", popts.Codec.Policy().String()),
	)
	return a, nil
}

// Run starts the frame loop and returns when the window closes.
func (a *App) Run() error {
	a.running = true

	frames := 0
	windowStart := time.Now()

	a.log.Info("starting frame loop")

	for a.running {
		// 1. Process input
		if a.input.Update() {
			a.running = false
			break
		}
		a.handleEvents()

		// 2. Pick up scene edits from disk
		a.pollScene()

		// 3. Upload and render
		a.renderer.Begin()
		if err := a.pipeline.Upload(a.renderer); err != nil {
			return fmt.Errorf("upload error: %w", err)
		}
		a.renderer.End()

		// 4. Present (swap buffers)
		a.window.SwapBuffers()

		frames++
		if frames == frameWindow {
			avg := time.Since(windowStart) / frameWindow
			a.log.Debug("frame time",
				zap.Duration("avg", avg),
				zap.Uint32("frame", a.pipeline.State().Frame()),
			)
			frames = 0
			windowStart = time.Now()
		}
	}

	return nil
}

func (a *App) handleEvents() {
	for _, event := range a.input.Events() {
		if event.Type == input.EventWindowResize && event.Height > 0 {
			a.renderer.Resize(event.Width, event.Height)
			a.pipeline.Edit(frame.SetAspect(float32(event.Width) / float32(event.Height)))
		}
	}
	if actions := a.input.Actions(); len(actions) > 0 {
		if a.opts.Speeds.Apply(a.pipeline.State(), actions...) {
			pos := a.pipeline.State().Rig().Position.Array()
			a.log.Debug("camera edited",
				zap.Stringer("action", actions[len(actions)-1]),
				zap.Float32s("position", pos[:]),
				zap.Float32("ambient", a.pipeline.State().Lighting().AmbientStrength),
			)
		}
	}
}

func (a *App) pollScene() {
	if a.watcher == nil {
		return
	}
	u, ok := a.watcher.Poll()
	if !ok {
		return
	}
	if u.Err != nil {
		a.log.Error("scene reload failed, keeping previous scene", zap.Error(u.Err))
		return
	}
	if err := a.pipeline.Reload(u.Scene); err != nil {
		a.log.Error("scene reload failed, keeping previous scene", zap.Error(err))
	}
}

// Close releases the watcher, renderer and window.
func (a *App) Close() {
	a.log.Info("closing")

	if a.watcher != nil {
		a.watcher.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
