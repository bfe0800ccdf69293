// Package kernel generates the WGSL binding interface of the ray tracing
// compute kernel from the buffer contract, and checks that it compiles.
package kernel

import (
	"bytes"
	"errors"
	"fmt"
	"text/template"

	"github.com/gogpu/naga"

	"github.com/ryanwebber/raybaby/internal/engine/buffers"
	"github.com/ryanwebber/raybaby/internal/engine/camera"
	"github.com/ryanwebber/raybaby/internal/engine/flatten"
	"github.com/ryanwebber/raybaby/internal/engine/frame"
	"github.com/ryanwebber/raybaby/pkg/layout"
)

// ErrStrideMisaligned is returned for a stride WGSL cannot express as an
// array stride: it must be a multiple of the element's alignment.
var ErrStrideMisaligned = errors.New("stride not a multiple of element alignment")

type wgslType struct {
	Elem   string // WGSL element type
	Prefix string // prefix for generated wrapper and slot names
}

var elementTypes = map[string]wgslType{
	"materials": {"Material", "Material"},
	"spheres":   {"Sphere", "Sphere"},
	"meshes":    {"Mesh", "Mesh"},
	"vertices":  {"vec3<f32>", "Vertex"},
	"indices":   {"u32", "Index"},
}

type arrayDecl struct {
	Name     string
	Binding  uint32
	Wrapper  string
	Elem     string // type of one array item
	Base     string // underlying element type
	PadWords int    // u32 words appended to Base when Elem is a slot
	Stride   int
}

type interfaceData struct {
	Policy  string
	Structs []string
	Globals uint32
	Arrays  []arrayDecl
}

var interfaceTmpl = template.Must(template.New("interface").Parse(`// Generated binding interface. Storage stride policy: {{.Policy}}.

{{range .Structs}}{{.}}
{{end}}
{{- range .Arrays}}{{if .PadWords}}
struct {{.Elem}} {
    value: {{.Base}},
    _pad: array<u32, {{.PadWords}}>,
}
{{end}}
// {{.Name}}: stride {{.Stride}}
struct {{.Wrapper}} {
    count: u32,
    _pad0: u32,
    _pad1: u32,
    _pad2: u32,
    items: array<{{.Elem}}>,
}
{{end}}
@group(0) @binding({{.Globals}}) var<uniform> globals: Globals;
{{- range .Arrays}}
@group(0) @binding({{.Binding}}) var<storage, read> {{.Name}}: {{.Wrapper}};
{{- end}}

@compute @workgroup_size(1)
fn main() {
    var total: u32 = globals.frame;
{{- range .Arrays}}
    total = total + {{.Name}}.count;
{{- end}}
}
`))

// Interface renders the WGSL declarations matching b's stride policy.
func Interface(b *buffers.Builder) (string, error) {
	data := interfaceData{
		Policy: b.Codec().Policy().String(),
		Structs: []string{
			camera.BasisWGSL,
			frame.GlobalsWGSL,
			flatten.MaterialWGSL,
			flatten.SphereWGSL,
			flatten.MeshWGSL,
		},
		Globals: buffers.BindingGlobals,
	}

	for _, a := range buffers.Arrays {
		wt, ok := elementTypes[a.Name]
		if !ok {
			return "", fmt.Errorf("kernel: no WGSL type for array %q", a.Name)
		}
		stride := b.Stride(a)
		if stride%a.Element.Align() != 0 {
			return "", fmt.Errorf("kernel: %s stride %d, align %d: %w", a.Name, stride, a.Element.Align(), ErrStrideMisaligned)
		}
		decl := arrayDecl{
			Name:    a.Name,
			Binding: a.Binding,
			Wrapper: wt.Prefix + "Array",
			Elem:    wt.Elem,
			Base:    wt.Elem,
			Stride:  stride,
		}
		// WGSL spaces array items by the element's slot; anything beyond
		// that becomes explicit padding in a wrapper struct.
		if pad := stride - layout.Slot(a.Element); pad > 0 {
			decl.Elem = wt.Prefix + "Slot"
			decl.PadWords = pad / 4
		}
		data.Arrays = append(data.Arrays, decl)
	}

	var buf bytes.Buffer
	if err := interfaceTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("kernel: rendering interface: %w", err)
	}
	return buf.String(), nil
}

// Compile translates WGSL source to SPIR-V.
func Compile(src string) ([]byte, error) {
	spirv, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("kernel: compiling WGSL: %w", err)
	}
	return spirv, nil
}

// Check renders the interface for b and compiles it.
func Check(b *buffers.Builder) (string, []byte, error) {
	src, err := Interface(b)
	if err != nil {
		return "", nil, err
	}
	spirv, err := Compile(src)
	if err != nil {
		return src, nil, err
	}
	return src, spirv, nil
}
