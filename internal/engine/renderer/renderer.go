// Package renderer owns the OpenGL context state and uploads encoded
// buffers to their binding points.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.3-core/gl"
	"go.uber.org/zap"

	"github.com/ryanwebber/raybaby/internal/engine/buffers"
	"github.com/ryanwebber/raybaby/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// glBuffer is a buffer object bound at a fixed binding point.
type glBuffer struct {
	id     uint32
	target uint32
	size   int
}

// Renderer uploads buffers to uniform and shader storage binding points.
// It implements buffers.Uploader.
type Renderer struct {
	config  Config
	buffers map[uint32]*glBuffer
	clear   [3]float32
	log     *zap.Logger
}

var _ buffers.Uploader = (*Renderer)(nil)

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r := &Renderer{
		config:  cfg,
		buffers: make(map[uint32]*glBuffer),
		log:     logger.Named("renderer"),
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	var maxSSBO int32
	gl.GetIntegerv(gl.MAX_SHADER_STORAGE_BUFFER_BINDINGS, &maxSSBO)
	if maxSSBO <= int32(buffers.BindingIndices) {
		return nil, fmt.Errorf("need %d shader storage bindings, driver offers %d", buffers.BindingIndices+1, maxSSBO)
	}

	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))
	return r, nil
}

// Upload implements buffers.Uploader. The buffer object for a binding is
// created on first use and reallocated when the data size changes.
func (r *Renderer) Upload(b buffers.Buffer) error {
	if len(b.Data) == 0 {
		return fmt.Errorf("empty buffer %s", b.Name)
	}

	target := uint32(gl.SHADER_STORAGE_BUFFER)
	usage := uint32(gl.STATIC_DRAW)
	if b.IsUniform() {
		target = gl.UNIFORM_BUFFER
		usage = gl.DYNAMIC_DRAW
	}

	buf, ok := r.buffers[b.Binding]
	if !ok {
		buf = &glBuffer{target: target}
		gl.GenBuffers(1, &buf.id)
		r.buffers[b.Binding] = buf
	}

	gl.BindBuffer(target, buf.id)
	if buf.size == len(b.Data) {
		gl.BufferSubData(target, 0, len(b.Data), gl.Ptr(b.Data))
	} else {
		gl.BufferData(target, len(b.Data), gl.Ptr(b.Data), usage)
		buf.size = len(b.Data)
	}
	gl.BindBufferBase(target, b.Binding, buf.id)
	gl.BindBuffer(target, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("GL error 0x%x uploading %s", code, b.Name)
	}
	return nil
}

// SetClearColor sets the background shown until the kernel output is drawn.
func (r *Renderer) SetClearColor(c [3]float32) {
	r.clear = c
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.ClearColor(r.clear[0], r.clear[1], r.clear[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.MemoryBarrier(gl.SHADER_STORAGE_BARRIER_BIT | gl.UNIFORM_BARRIER_BIT)
}

// Close deletes all buffer objects.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for binding, buf := range r.buffers {
		gl.DeleteBuffers(1, &buf.id)
		delete(r.buffers, binding)
	}
}
