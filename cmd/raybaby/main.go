// raybaby encodes scenes into the GPU buffers of a progressive path tracer
// and renders them in a live-reloading window.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/ryanwebber/raybaby/internal/app"
	"github.com/ryanwebber/raybaby/internal/config"
	"github.com/ryanwebber/raybaby/internal/engine/buffers"
	"github.com/ryanwebber/raybaby/internal/engine/camera"
	"github.com/ryanwebber/raybaby/internal/engine/controls"
	"github.com/ryanwebber/raybaby/internal/engine/flatten"
	"github.com/ryanwebber/raybaby/internal/engine/frame"
	"github.com/ryanwebber/raybaby/internal/engine/kernel"
	"github.com/ryanwebber/raybaby/internal/engine/scene"
	"github.com/ryanwebber/raybaby/internal/logger"
	"github.com/ryanwebber/raybaby/internal/pipeline"
	"github.com/ryanwebber/raybaby/pkg/layout"
	"github.com/ryanwebber/raybaby/pkg/math"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "render":
		err = cmdRender(args)
	case "encode":
		err = cmdEncode(args)
	case "inspect":
		err = cmdInspect(args)
	case "kernel":
		err = cmdKernel(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Sync()
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`raybaby - progressive path tracer scene encoder

Usage:
  raybaby <command> [options]

Commands:
  render --scene FILE            Open a window and render, reloading FILE on change
  encode --scene FILE --out DIR  Write every encoded buffer to DIR/<name>.bin
  inspect                        Print GPU record offsets and array strides
  kernel [--out DIR]             Print the WGSL binding interface and compile it

Common options:
  --config FILE                  Config file (default ./raybaby.yaml)
  --storage-policy natural|fixed --storage-stride N
  --debug --save-config

Examples:
  raybaby render --scene examples/spheres.yaml
  raybaby encode --scene examples/room.toml --out ./golden
  raybaby inspect --storage-policy fixed --storage-stride 64`)
}

// setup parses a subcommand's flags, loads config and starts logging.
func setup(name string, args []string) (*config.Flags, *config.Config, error) {
	flags, err := config.ParseFlags("raybaby "+name, args, os.Stderr)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	logger.Sugar.Debugf("Config: %+v", cfg)

	path, err := config.SaveRequested(flags, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("saving config: %w", err)
	}
	if path != "" {
		logger.Info("config saved", zap.String("path", path))
	}
	return flags, cfg, nil
}

func sceneFormat(flags *config.Flags) (scene.Format, error) {
	if flags.Scene == "" {
		return 0, errors.New("--scene is required")
	}
	if flags.SceneFormat != "" {
		return scene.ParseFormat(flags.SceneFormat)
	}
	return scene.FormatFromPath(flags.Scene)
}

func cmdRender(args []string) error {
	flags, cfg, err := setup("render", args)
	if err != nil {
		return err
	}
	format, err := sceneFormat(flags)
	if err != nil {
		return err
	}

	logger.Info("=== Raybaby ===")

	a, err := app.New(app.Options{
		ScenePath:   flags.Scene,
		SceneFormat: format,
		Config:      cfg,
		Speeds:      controls.DefaultSpeeds(),
	})
	if err != nil {
		logger.Error("failed to start renderer", zap.Error(err))
		return err
	}
	defer a.Close()

	if err := a.Run(); err != nil {
		logger.Error("render loop error", zap.Error(err))
		return err
	}

	logger.Info("renderer closed normally")
	return nil
}

func cmdEncode(args []string) error {
	flags, cfg, err := setup("encode", args)
	if err != nil {
		return err
	}
	format, err := sceneFormat(flags)
	if err != nil {
		return err
	}
	if flags.Out == "" {
		return errors.New("--out is required")
	}

	s, err := scene.LoadAs(flags.Scene, format)
	if err != nil {
		return err
	}
	opts, err := pipeline.FromConfig(cfg)
	if err != nil {
		return err
	}
	p, err := pipeline.New(s, opts)
	if err != nil {
		return err
	}

	w, err := buffers.NewDirWriter(flags.Out)
	if err != nil {
		return err
	}
	if err := p.Encode(w); err != nil {
		return err
	}

	arrs := p.Arrays()
	_, _, _, triangles := s.Counts()
	logger.Info("scene encoded",
		zap.String("scene", flags.Scene),
		zap.String("out", flags.Out),
		zap.String("stride_policy", opts.Codec.Policy().String()),
		zap.Int("materials", len(arrs.Materials)),
		zap.Int("spheres", len(arrs.Spheres)),
		zap.Int("meshes", len(arrs.Meshes)),
		zap.Int("vertices", len(arrs.Vertices)),
		zap.Int("triangles", triangles),
		zap.Int("indices", len(arrs.Indices)),
		zap.Int("storage_bytes", p.StorageSize()),
	)
	return nil
}

func cmdInspect(args []string) error {
	_, cfg, err := setup("inspect", args)
	if err != nil {
		return err
	}
	codec, err := cfg.StorageCodec()
	if err != nil {
		return err
	}
	b, err := buffers.NewBuilder(codec)
	if err != nil {
		return err
	}

	records := []struct {
		name  string
		value layout.Value
	}{
		{"Globals (uniform)", frame.Globals{}.Shape()},
		{"CameraBasis", camera.Basis{}.Shape()},
		{"Material", flatten.Material{}.Shape()},
		{"Sphere", flatten.Sphere{}.Shape()},
		{"Mesh", flatten.Mesh{}.Shape()},
		{"Vertex", flatten.VertexShape(math.Vec3{})},
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, r := range records {
		fmt.Fprintf(tw, "%s\tsize %d\talign %d\n", r.name, r.value.Size(), r.value.Align())
		if s, ok := r.value.(layout.Struct); ok {
			for _, fo := range s.Offsets() {
				fmt.Fprintf(tw, "  %s\t@%d\tsize %d\talign %d\n", fo.Name, fo.Offset, fo.Size, fo.Align)
			}
		}
	}
	fmt.Fprintf(tw, "\nStorage arrays (%s, header %d bytes)\n", codec.Policy(), layout.HeaderSize)
	for _, a := range buffers.Arrays {
		fmt.Fprintf(tw, "  @binding(%d) %s\tstride %d\n", a.Binding, a.Name, b.Stride(a))
	}
	fmt.Fprintf(tw, "\nBind group 0\n")
	for _, e := range b.LayoutEntries() {
		fmt.Fprintf(tw, "  @binding(%d)\t%s\tmin %d bytes\t%s\n",
			e.Binding, e.Buffer.Type, e.Buffer.MinBindingSize, e.Visibility)
	}
	return tw.Flush()
}

func cmdKernel(args []string) error {
	flags, cfg, err := setup("kernel", args)
	if err != nil {
		return err
	}
	codec, err := cfg.StorageCodec()
	if err != nil {
		return err
	}
	b, err := buffers.NewBuilder(codec)
	if err != nil {
		return err
	}

	src, spirv, err := kernel.Check(b)
	if src != "" {
		fmt.Println(src)
	}
	if err != nil {
		return err
	}
	logger.Info("kernel interface compiled", zap.Int("spirv_bytes", len(spirv)))

	if flags.Out != "" {
		if err := os.MkdirAll(flags.Out, 0755); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(flags.Out, "interface.wgsl"), []byte(src), 0644); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(flags.Out, "interface.spv"), spirv, 0644); err != nil {
			return err
		}
	}
	return nil
}
