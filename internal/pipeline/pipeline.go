// Package pipeline turns a scene into the GPU buffers the path-tracing
// kernel reads: flatten, encode, and per-frame globals. It is headless;
// internal/app drives it from the window loop.
package pipeline

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/ryanwebber/raybaby/internal/config"
	"github.com/ryanwebber/raybaby/internal/engine/buffers"
	"github.com/ryanwebber/raybaby/internal/engine/camera"
	"github.com/ryanwebber/raybaby/internal/engine/flatten"
	"github.com/ryanwebber/raybaby/internal/engine/frame"
	"github.com/ryanwebber/raybaby/internal/engine/scene"
	"github.com/ryanwebber/raybaby/internal/logger"
	"github.com/ryanwebber/raybaby/pkg/layout"
	"github.com/ryanwebber/raybaby/pkg/math"
)

var ErrNoScene = errors.New("pipeline: nil scene")

// Options are the render parameters that do not come from the scene.
type Options struct {
	Codec    *layout.StorageCodec
	Lighting frame.Lighting
	Params   frame.Params
	Aspect   float32
}

// FromConfig converts the effective config into Options. A zero seed is
// replaced by a random one.
func FromConfig(cfg *config.Config) (Options, error) {
	codec, err := cfg.StorageCodec()
	if err != nil {
		return Options{}, err
	}

	seed := cfg.Render.Seed
	for seed == 0 {
		seed = rand.Uint32()
	}

	return Options{
		Codec: codec,
		Lighting: frame.Lighting{
			SkyboxColor:     math.V3(cfg.Lighting.SkyboxColor),
			AmbientColor:    math.V3(cfg.Lighting.AmbientColor),
			AmbientStrength: cfg.Lighting.AmbientStrength,
		},
		Params: frame.Params{
			RandomSeed:         seed,
			MaxRayBounces:      cfg.Render.MaxRayBounces,
			MaxSamplesPerPixel: cfg.Render.MaxSamplesPerPixel,
			FocalBlurStrength:  cfg.Render.FocalBlurStrength,
		},
		Aspect: float32(cfg.Window.Width) / float32(cfg.Window.Height),
	}, nil
}

// Pipeline owns the encoded storage buffers of the current scene and the
// frame state that produces the globals buffer.
type Pipeline struct {
	builder *buffers.Builder
	state   *frame.State
	arrays  flatten.Arrays
	storage []buffers.Buffer
	dirty   bool
	log     *zap.Logger
}

// New flattens and encodes s. Nothing is uploaded until Upload or Encode.
func New(s *scene.Scene, opts Options) (*Pipeline, error) {
	if s == nil {
		return nil, ErrNoScene
	}
	if opts.Codec == nil {
		codec, err := layout.NewStorageCodec()
		if err != nil {
			return nil, err
		}
		opts.Codec = codec
	}

	builder, err := buffers.NewBuilder(opts.Codec)
	if err != nil {
		return nil, fmt.Errorf("creating buffer builder: %w", err)
	}

	p := &Pipeline{
		builder: builder,
		log:     logger.Named("pipeline"),
	}
	if err := p.encode(s); err != nil {
		return nil, err
	}
	p.state = frame.NewState(camera.FromScene(s.Camera), opts.Lighting, opts.Params, opts.Aspect)
	return p, nil
}

// encode replaces the storage buffers only if every array encodes.
func (p *Pipeline) encode(s *scene.Scene) error {
	arrays := flatten.Flatten(s.Objects)
	storage, err := p.builder.Storage(arrays)
	if err != nil {
		return fmt.Errorf("encoding scene: %w", err)
	}

	p.arrays = arrays
	p.storage = storage
	p.dirty = true

	p.log.Debug("scene encoded",
		zap.Int("materials", len(arrays.Materials)),
		zap.Int("spheres", len(arrays.Spheres)),
		zap.Int("meshes", len(arrays.Meshes)),
		zap.Int("vertices", len(arrays.Vertices)),
		zap.Int("indices", len(arrays.Indices)),
		zap.Int("bytes", p.StorageSize()))
	return nil
}

// State returns the frame state.
func (p *Pipeline) State() *frame.State {
	return p.state
}

// Arrays returns the flattened scene currently encoded.
func (p *Pipeline) Arrays() flatten.Arrays {
	return p.arrays
}

// Storage returns the encoded storage buffers in binding order.
func (p *Pipeline) Storage() []buffers.Buffer {
	return p.storage
}

// StorageSize is the total byte size of the storage buffers.
func (p *Pipeline) StorageSize() int {
	n := 0
	for _, b := range p.storage {
		n += len(b.Data)
	}
	return n
}

// Edit applies live edits, which restarts accumulation.
func (p *Pipeline) Edit(edits ...frame.Edit) {
	if len(edits) == 0 {
		return
	}
	p.state.Apply(edits...)
	p.log.Debug("state edited", zap.Int("edits", len(edits)))
}

// Reload swaps in a new scene. On failure the previous buffers and camera
// stay in place. On success the camera is reset from the new scene and
// the frame counter restarts.
func (p *Pipeline) Reload(s *scene.Scene) error {
	if s == nil {
		return ErrNoScene
	}
	if err := p.encode(s); err != nil {
		return err
	}
	p.state.Apply(frame.SetCamera(camera.FromScene(s.Camera)))
	spheres, meshes, vertices, triangles := s.Counts()
	p.log.Info("scene reloaded",
		zap.Int("spheres", spheres),
		zap.Int("meshes", meshes),
		zap.Int("vertices", vertices),
		zap.Int("triangles", triangles))
	return nil
}

// Upload sends storage buffers that changed since the last upload, then
// the globals for the next frame, advancing the frame counter.
func (p *Pipeline) Upload(u buffers.Uploader) error {
	if p.dirty {
		if err := buffers.UploadAll(u, p.storage...); err != nil {
			return err
		}
		p.dirty = false
	}
	return u.Upload(p.builder.Globals(p.state.Advance()))
}

// Encode sends every buffer, globals first, without advancing the frame.
func (p *Pipeline) Encode(u buffers.Uploader) error {
	bufs := make([]buffers.Buffer, 0, len(p.storage)+1)
	bufs = append(bufs, p.builder.Globals(p.state.Globals()))
	bufs = append(bufs, p.storage...)
	return buffers.UploadAll(u, bufs...)
}
