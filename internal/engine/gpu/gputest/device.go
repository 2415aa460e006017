// Package gputest provides a recording gpu.Device for tests.
//
// Device hands out handles, keeps every object it created, counts deletes
// per handle, and records draw calls together with the uniform values that
// were current when the draw was issued. It never touches a real GPU.
package gputest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/glround/glround/internal/engine/gpu"
)

// FailMarker makes CreateShader report a compile failure when present in a
// shader source. Empty sources also fail.
const FailMarker = "#error"

// Kind names the type of a recorded object.
type Kind string

const (
	KindShader      Kind = "shader"
	KindProgram     Kind = "program"
	KindVertexArray Kind = "vertex-array"
	KindBuffer      Kind = "buffer"
	KindTexture     Kind = "texture"
)

// Object is one GPU object created through the device.
type Object struct {
	Handle  gpu.Handle
	Kind    Kind
	Deletes int

	// Shader and program state.
	Stage    gpu.Stage
	Source   string
	OK       bool
	Attached []gpu.Handle

	// Buffer state.
	Floats  []float32
	Indices []uint32
	Index   bool

	// Vertex array state.
	Attributes []gpu.Attribute
	IndexBuf   gpu.Handle

	// Texture state.
	Params gpu.TextureParams
	Format gpu.PixelFormat
	Width  int
	Height int
	Pixels []byte
}

// Draw is one recorded draw call.
type Draw struct {
	Program     gpu.Handle
	VertexArray gpu.Handle
	Textures    map[uint32]gpu.Handle
	Indexed     bool
	Count       int32
	Mat4        map[string][16]float32
	Ints        map[string]int32
}

// Device is a fake gpu.Device.
type Device struct {
	next    gpu.Handle
	objects map[gpu.Handle]*Object
	order   []gpu.Handle

	program     gpu.Handle
	vertexArray gpu.Handle
	arrayBuffer gpu.Handle
	textures    map[uint32]gpu.Handle

	locations map[gpu.Handle]map[string]int32
	names     map[gpu.Handle]map[int32]string
	mat4      map[gpu.Handle]map[string][16]float32
	ints      map[gpu.Handle]map[string]int32

	// UniformLookups counts UniformLocation calls.
	UniformLookups int
	// Draws records every draw call in order.
	Draws []Draw
	// Clears records every Clear mask in order.
	Clears []gpu.ClearMask
	// Viewports records every Viewport call as {x, y, w, h}.
	Viewports [][4]int32
	// ClearColor is the last color passed to SetClearColor.
	ClearColor [4]float32
	// DepthTest is the last value passed to SetDepthTest.
	DepthTest bool
	// Reads records every ReadPixels call as {x, y, w, h}.
	Reads [][4]int32
	// Misuse lists every call that referenced a deleted or unknown object.
	Misuse []string
}

var _ gpu.Device = (*Device)(nil)

// New returns an empty fake device.
func New() *Device {
	return &Device{
		objects:   make(map[gpu.Handle]*Object),
		textures:  make(map[uint32]gpu.Handle),
		locations: make(map[gpu.Handle]map[string]int32),
		names:     make(map[gpu.Handle]map[int32]string),
		mat4:      make(map[gpu.Handle]map[string][16]float32),
		ints:      make(map[gpu.Handle]map[string]int32),
	}
}

func (d *Device) create(o *Object) gpu.Handle {
	d.next++
	o.Handle = d.next
	d.objects[o.Handle] = o
	d.order = append(d.order, o.Handle)
	return o.Handle
}

// check records misuse when h is non-zero and not a live object of kind k.
func (d *Device) check(call string, h gpu.Handle, k Kind) *Object {
	if h == 0 {
		return nil
	}
	o, ok := d.objects[h]
	switch {
	case !ok:
		d.Misuse = append(d.Misuse, fmt.Sprintf("%s: unknown %s %d", call, k, h))
		return nil
	case o.Kind != k:
		d.Misuse = append(d.Misuse, fmt.Sprintf("%s: %d is a %s, not a %s", call, h, o.Kind, k))
		return nil
	case o.Deletes > 0:
		d.Misuse = append(d.Misuse, fmt.Sprintf("%s: %s %d used after delete", call, k, h))
	}
	return o
}

func (d *Device) delete(call string, h gpu.Handle, k Kind) {
	if h == 0 {
		return
	}
	o := d.check(call, h, k)
	if o != nil {
		o.Deletes++
	}
}

// Object returns the recorded object for h, or nil.
func (d *Device) Object(h gpu.Handle) *Object {
	return d.objects[h]
}

// Objects returns every object of kind k in creation order.
func (d *Device) Objects(k Kind) []*Object {
	var out []*Object
	for _, h := range d.order {
		if o := d.objects[h]; o.Kind == k {
			out = append(out, o)
		}
	}
	return out
}

// Live returns every object that has not been deleted.
func (d *Device) Live() []*Object {
	var out []*Object
	for _, h := range d.order {
		if o := d.objects[h]; o.Deletes == 0 {
			out = append(out, o)
		}
	}
	return out
}

// DoubleFreed returns every object deleted more than once.
func (d *Device) DoubleFreed() []*Object {
	var out []*Object
	for _, h := range d.order {
		if o := d.objects[h]; o.Deletes > 1 {
			out = append(out, o)
		}
	}
	return out
}

// Summary describes live objects, for failure messages.
func (d *Device) Summary() string {
	var parts []string
	for _, o := range d.Live() {
		parts = append(parts, fmt.Sprintf("%s#%d", o.Kind, o.Handle))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

func (d *Device) CreateShader(stage gpu.Stage, source string) (gpu.Handle, bool, string) {
	ok := strings.TrimSpace(source) != "" && !strings.Contains(source, FailMarker)
	h := d.create(&Object{Kind: KindShader, Stage: stage, Source: source, OK: ok})
	if !ok {
		return h, false, fmt.Sprintf("0:1(1): error: %s shader failed to compile", stage)
	}
	return h, true, ""
}

func (d *Device) CreateProgram(shaders ...gpu.Handle) (gpu.Handle, bool, string) {
	ok := len(shaders) > 0
	for _, s := range shaders {
		o := d.check("CreateProgram", s, KindShader)
		if o == nil || !o.OK {
			ok = false
		}
	}
	h := d.create(&Object{Kind: KindProgram, Attached: append([]gpu.Handle(nil), shaders...), OK: ok})
	d.locations[h] = make(map[string]int32)
	d.names[h] = make(map[int32]string)
	d.mat4[h] = make(map[string][16]float32)
	d.ints[h] = make(map[string]int32)
	if !ok {
		return h, false, "error: linking with uncompiled/unspecialized shader"
	}
	return h, true, ""
}

func (d *Device) DeleteShader(h gpu.Handle)  { d.delete("DeleteShader", h, KindShader) }
func (d *Device) DeleteProgram(h gpu.Handle) { d.delete("DeleteProgram", h, KindProgram) }

func (d *Device) UseProgram(h gpu.Handle) {
	d.check("UseProgram", h, KindProgram)
	d.program = h
}

// UniformLocation assigns locations in lookup order. Unlinked programs have
// no active uniforms and return -1, like a real driver.
func (d *Device) UniformLocation(program gpu.Handle, name string) int32 {
	d.UniformLookups++
	o := d.check("UniformLocation", program, KindProgram)
	if o == nil || !o.OK {
		return -1
	}
	locs := d.locations[program]
	if loc, ok := locs[name]; ok {
		return loc
	}
	loc := int32(len(locs))
	locs[name] = loc
	d.names[program][loc] = name
	return loc
}

func (d *Device) uniformName(call string, location int32) (string, bool) {
	if location < 0 {
		return "", false
	}
	if d.program == 0 {
		d.Misuse = append(d.Misuse, call+": no program in use")
		return "", false
	}
	name, ok := d.names[d.program][location]
	if !ok {
		d.Misuse = append(d.Misuse, fmt.Sprintf("%s: location %d not in program %d", call, location, d.program))
	}
	return name, ok
}

func (d *Device) UniformMat4(location int32, m [16]float32) {
	if name, ok := d.uniformName("UniformMat4", location); ok {
		d.mat4[d.program][name] = m
	}
}

func (d *Device) Uniform1i(location int32, v int32) {
	if name, ok := d.uniformName("Uniform1i", location); ok {
		d.ints[d.program][name] = v
	}
}

// Mat4 returns the last matrix uploaded to the named uniform of program.
func (d *Device) Mat4(program gpu.Handle, name string) ([16]float32, bool) {
	m, ok := d.mat4[program][name]
	return m, ok
}

// Int returns the last integer uploaded to the named uniform of program.
func (d *Device) Int(program gpu.Handle, name string) (int32, bool) {
	v, ok := d.ints[program][name]
	return v, ok
}

func (d *Device) CreateVertexArray() gpu.Handle {
	return d.create(&Object{Kind: KindVertexArray})
}

func (d *Device) BindVertexArray(h gpu.Handle) {
	d.check("BindVertexArray", h, KindVertexArray)
	d.vertexArray = h
}

func (d *Device) DeleteVertexArray(h gpu.Handle) { d.delete("DeleteVertexArray", h, KindVertexArray) }

func (d *Device) CreateVertexBuffer(data []float32) gpu.Handle {
	h := d.create(&Object{Kind: KindBuffer, Floats: append([]float32(nil), data...)})
	d.arrayBuffer = h
	return h
}

func (d *Device) CreateIndexBuffer(indices []uint32) gpu.Handle {
	h := d.create(&Object{Kind: KindBuffer, Index: true, Indices: append([]uint32(nil), indices...)})
	if vao := d.check("CreateIndexBuffer", d.vertexArray, KindVertexArray); vao != nil {
		vao.IndexBuf = h
	} else {
		d.Misuse = append(d.Misuse, "CreateIndexBuffer: no vertex array bound")
	}
	return h
}

func (d *Device) VertexAttrib(a gpu.Attribute) {
	vao := d.check("VertexAttrib", d.vertexArray, KindVertexArray)
	if vao == nil {
		d.Misuse = append(d.Misuse, "VertexAttrib: no vertex array bound")
		return
	}
	if d.arrayBuffer == 0 {
		d.Misuse = append(d.Misuse, "VertexAttrib: no array buffer bound")
	}
	vao.Attributes = append(vao.Attributes, a)
}

func (d *Device) DeleteBuffer(h gpu.Handle) { d.delete("DeleteBuffer", h, KindBuffer) }

func (d *Device) CreateTexture(params gpu.TextureParams, format gpu.PixelFormat, width, height int, pixels []byte) gpu.Handle {
	need := width * height * format.Channels()
	if len(pixels) < need {
		d.Misuse = append(d.Misuse, fmt.Sprintf("CreateTexture: %d bytes for %dx%d %s", len(pixels), width, height, format))
	}
	return d.create(&Object{
		Kind:   KindTexture,
		Params: params,
		Format: format,
		Width:  width,
		Height: height,
		Pixels: append([]byte(nil), pixels...),
	})
}

func (d *Device) BindTexture(unit uint32, h gpu.Handle) {
	d.check("BindTexture", h, KindTexture)
	d.textures[unit] = h
}

func (d *Device) DeleteTexture(h gpu.Handle) { d.delete("DeleteTexture", h, KindTexture) }

func (d *Device) SetClearColor(r, g, b, a float32) { d.ClearColor = [4]float32{r, g, b, a} }
func (d *Device) SetDepthTest(enabled bool)        { d.DepthTest = enabled }
func (d *Device) Clear(mask gpu.ClearMask)         { d.Clears = append(d.Clears, mask) }

func (d *Device) Viewport(x, y, width, height int32) {
	d.Viewports = append(d.Viewports, [4]int32{x, y, width, height})
}

func (d *Device) DrawArrays(first, count int32) { d.draw("DrawArrays", false, count) }
func (d *Device) DrawElements(count int32)      { d.draw("DrawElements", true, count) }

// ReadPixels returns a frame filled with the clear color. Draws are not
// rasterized.
func (d *Device) ReadPixels(x, y, width, height int32) []byte {
	d.Reads = append(d.Reads, [4]int32{x, y, width, height})
	var px [4]byte
	for i, c := range d.ClearColor {
		px[i] = uint8(c*255 + 0.5)
	}
	out := make([]byte, int(width)*int(height)*4)
	for i := 0; i < len(out); i += 4 {
		copy(out[i:], px[:])
	}
	return out
}

func (d *Device) draw(call string, indexed bool, count int32) {
	d.check(call, d.program, KindProgram)
	vao := d.check(call, d.vertexArray, KindVertexArray)
	if d.program == 0 || vao == nil {
		d.Misuse = append(d.Misuse, call+": program or vertex array not bound")
	}
	if indexed && vao != nil && vao.IndexBuf == 0 {
		d.Misuse = append(d.Misuse, call+": vertex array has no index buffer")
	}
	textures := make(map[uint32]gpu.Handle, len(d.textures))
	for unit, h := range d.textures {
		d.check(call, h, KindTexture)
		textures[unit] = h
	}
	mat4 := make(map[string][16]float32)
	for k, v := range d.mat4[d.program] {
		mat4[k] = v
	}
	ints := make(map[string]int32)
	for k, v := range d.ints[d.program] {
		ints[k] = v
	}
	d.Draws = append(d.Draws, Draw{
		Program:     d.program,
		VertexArray: d.vertexArray,
		Textures:    textures,
		Indexed:     indexed,
		Count:       count,
		Mat4:        mat4,
		Ints:        ints,
	})
}

// Sample returns the level-0 texel nearest to (u, v) as RGBA. Row 0 of the
// uploaded data is v = 0, as in OpenGL. Coordinates are clamped to the edge.
func (d *Device) Sample(h gpu.Handle, u, v float32) ([4]uint8, error) {
	o, ok := d.objects[h]
	if !ok || o.Kind != KindTexture {
		return [4]uint8{}, fmt.Errorf("no texture %d", h)
	}
	if o.Width == 0 || o.Height == 0 {
		return [4]uint8{}, fmt.Errorf("texture %d is empty", h)
	}
	x := clamp(int(u*float32(o.Width)), o.Width-1)
	y := clamp(int(v*float32(o.Height)), o.Height-1)
	ch := o.Format.Channels()
	i := (y*o.Width + x) * ch
	if i+ch > len(o.Pixels) {
		return [4]uint8{}, fmt.Errorf("texture %d has short pixel data", h)
	}
	px := [4]uint8{o.Pixels[i], o.Pixels[i+1], o.Pixels[i+2], 255}
	if ch == 4 {
		px[3] = o.Pixels[i+3]
	}
	return px, nil
}

func clamp(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}
