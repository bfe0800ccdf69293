package pipeline

import (
	"encoding/binary"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanwebber/raybaby/internal/config"
	"github.com/ryanwebber/raybaby/internal/engine/buffers"
	"github.com/ryanwebber/raybaby/internal/engine/frame"
	"github.com/ryanwebber/raybaby/internal/engine/scene"
	"github.com/ryanwebber/raybaby/pkg/layout"
	"github.com/ryanwebber/raybaby/pkg/math"
)

type recorder struct {
	got  []buffers.Buffer
	fail map[string]bool
}

func (r *recorder) Upload(b buffers.Buffer) error {
	if r.fail[b.Name] {
		return errors.New("device lost")
	}
	r.got = append(r.got, b)
	return nil
}

func (r *recorder) names() []string {
	out := make([]string, len(r.got))
	for i, b := range r.got {
		out[i] = b.Name
	}
	return out
}

func testCamera(z float32) scene.Camera {
	return scene.Camera{
		Transform: scene.Transform{Position: [3]float32{0, 0, z}, Scale: &[3]float32{1, 1, 1}},
		Lens:      scene.Lens{Perspective: &scene.Perspective{Fov: 60, FocalDistance: 5}},
		Clipping:  scene.Clipping{Near: 0.1, Far: 100},
	}
}

func sphereScene(n int) *scene.Scene {
	s := &scene.Scene{Camera: testCamera(10)}
	for i := range n {
		s.Objects = append(s.Objects, scene.Object{
			Surface:   scene.Surface{Sphere: &scene.Sphere{Radius: 1}},
			Transform: scene.Transform{Position: [3]float32{float32(i), 0, 0}, Scale: &[3]float32{1, 1, 1}},
			Material:  scene.Material{Color: [4]float32{1, 1, 1, 1}},
		})
	}
	return s
}

func testOptions() Options {
	return Options{
		Lighting: frame.Lighting{AmbientColor: math.Vec3{X: 1, Y: 1, Z: 1}, AmbientStrength: 0.1},
		Params:   frame.Params{RandomSeed: 9, MaxRayBounces: 30, MaxSamplesPerPixel: 4, FocalBlurStrength: 200},
		Aspect:   16.0 / 9.0,
	}
}

func count(b buffers.Buffer) uint32 {
	return binary.LittleEndian.Uint32(b.Data[:4])
}

func TestNewEncodesScene(t *testing.T) {
	p, err := New(sphereScene(2), testOptions())
	require.NoError(t, err)

	storage := p.Storage()
	require.Len(t, storage, len(buffers.Arrays))
	assert.Equal(t, "materials", storage[0].Name)
	assert.Equal(t, uint32(2), count(storage[0]))
	assert.Equal(t, uint32(2), count(storage[1]))
	assert.Equal(t, uint32(0), count(storage[2]))
	assert.Equal(t, layout.HeaderSize+2*32, len(storage[1].Data))
	assert.Equal(t, uint32(0), p.State().Frame())
	assert.Equal(t, p.StorageSize(), 16*5+2*32+2*32)
}

func TestNewNilScene(t *testing.T) {
	_, err := New(nil, testOptions())
	assert.ErrorIs(t, err, ErrNoScene)
}

func TestUploadOrderAndFrames(t *testing.T) {
	p, err := New(sphereScene(1), testOptions())
	require.NoError(t, err)

	r := &recorder{}
	require.NoError(t, p.Upload(r))
	assert.Equal(t, []string{"materials", "spheres", "meshes", "vertices", "indices", "globals"}, r.names())

	// Storage is only re-sent after a reload.
	r.got = nil
	require.NoError(t, p.Upload(r))
	require.NoError(t, p.Upload(r))
	assert.Equal(t, []string{"globals", "globals"}, r.names())
	assert.Equal(t, uint32(3), p.State().Frame())

	frameOffset := frame.Globals{}.Shape().(layout.Struct).Offset("frame")
	require.GreaterOrEqual(t, frameOffset, 0)
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(r.got[0].Data[frameOffset:]))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(r.got[1].Data[frameOffset:]))
}

func TestEditResetsFrame(t *testing.T) {
	p, err := New(sphereScene(1), testOptions())
	require.NoError(t, err)

	r := &recorder{}
	for range 5 {
		require.NoError(t, p.Upload(r))
	}
	require.Equal(t, uint32(5), p.State().Frame())

	p.Edit()
	assert.Equal(t, uint32(5), p.State().Frame(), "no edits is not an edit")

	p.Edit(frame.AdjustAmbient(0.1))
	assert.Equal(t, uint32(0), p.State().Frame())
	assert.InDelta(t, 0.2, p.State().Lighting().AmbientStrength, 1e-6)
}

func TestReload(t *testing.T) {
	p, err := New(sphereScene(1), testOptions())
	require.NoError(t, err)

	r := &recorder{}
	require.NoError(t, p.Upload(r))
	require.NoError(t, p.Upload(r))
	p.Edit(frame.MoveCamera(math.Vec3{X: 1}))

	next := sphereScene(3)
	next.Camera = testCamera(20)
	require.NoError(t, p.Reload(next))

	assert.Equal(t, uint32(0), p.State().Frame())
	assert.Equal(t, math.Vec3{Z: 20}, p.State().Rig().Position, "camera is reset from the new scene")
	assert.Len(t, p.Arrays().Spheres, 3)

	r.got = nil
	require.NoError(t, p.Upload(r))
	require.Len(t, r.got, len(buffers.Arrays)+1)
	assert.Equal(t, uint32(3), count(r.got[1]))
}

func TestReloadNilKeepsState(t *testing.T) {
	p, err := New(sphereScene(2), testOptions())
	require.NoError(t, err)
	require.NoError(t, p.Upload(&recorder{}))

	before := p.Storage()
	assert.ErrorIs(t, p.Reload(nil), ErrNoScene)
	assert.Equal(t, before, p.Storage())
	assert.Equal(t, uint32(1), p.State().Frame())
}

func TestUploadFailureRetriesStorage(t *testing.T) {
	p, err := New(sphereScene(1), testOptions())
	require.NoError(t, err)

	r := &recorder{fail: map[string]bool{"vertices": true}}
	err = p.Upload(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vertices")

	r = &recorder{}
	require.NoError(t, p.Upload(r))
	assert.Len(t, r.got, len(buffers.Arrays)+1, "storage is re-sent after a failed upload")
}

func TestEncodeDoesNotAdvance(t *testing.T) {
	p, err := New(sphereScene(1), testOptions())
	require.NoError(t, err)

	a, b := &recorder{}, &recorder{}
	require.NoError(t, p.Encode(a))
	require.NoError(t, p.Encode(b))

	assert.Equal(t, uint32(0), p.State().Frame())
	assert.Equal(t, "globals", a.got[0].Name)
	require.Equal(t, len(a.got), len(b.got))
	for i := range a.got {
		assert.Equal(t, a.got[i].Data, b.got[i].Data, "buffer %s differs between encodes", a.got[i].Name)
	}
}

func TestFixedStride(t *testing.T) {
	codec, err := layout.NewStorageCodec(layout.WithFixedStride(48))
	require.NoError(t, err)

	opts := testOptions()
	opts.Codec = codec
	p, err := New(sphereScene(2), opts)
	require.NoError(t, err)

	for _, b := range p.Storage() {
		assert.Equal(t, 48, b.Stride, b.Name)
		assert.Equal(t, layout.HeaderSize+int(count(b))*48, len(b.Data), b.Name)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Render.Seed = 0
	cfg.Lighting.SkyboxColor = config.Color{0.1, 0.2, 0.3}

	opts, err := FromConfig(cfg)
	require.NoError(t, err)
	assert.NotZero(t, opts.Params.RandomSeed, "zero seed is replaced")
	assert.Equal(t, uint32(30), opts.Params.MaxRayBounces)
	assert.Equal(t, math.Vec3{X: 0.1, Y: 0.2, Z: 0.3}, opts.Lighting.SkyboxColor)
	assert.InDelta(t, 960.0/540.0, opts.Aspect, 1e-6)
	assert.Equal(t, layout.NaturalStride, opts.Codec.Policy())

	cfg.Render.Seed = 1234
	opts, err = FromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, uint32(1234), opts.Params.RandomSeed)

	cfg.Storage.Policy = "bogus"
	_, err = FromConfig(cfg)
	assert.ErrorIs(t, err, config.ErrInvalidStorage)
}

func TestExampleScenes(t *testing.T) {
	for _, name := range []string{"spheres.yaml", "room.toml"} {
		t.Run(name, func(t *testing.T) {
			s, err := scene.Load(filepath.Join("..", "..", "examples", name))
			require.NoError(t, err)

			p, err := New(s, testOptions())
			require.NoError(t, err)

			arrs := p.Arrays()
			assert.Len(t, arrs.Materials, len(s.Objects))
			for _, i := range arrs.Indices {
				assert.Less(t, int(i), len(arrs.Vertices))
			}
			require.NoError(t, p.Encode(&recorder{}))
		})
	}
}
