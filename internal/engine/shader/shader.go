// Package shader builds vertex/fragment shader programs.
//
// Building never fails hard: a program handle is always returned, and what
// went wrong is reported through Result so the caller can decide whether a
// broken program is fatal.
package shader

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/glround/glround/internal/engine/gpu"
	"github.com/glround/glround/internal/logger"
)

// Source reads shader text by path.
type Source interface {
	Load(path string) ([]byte, error)
}

// FileSource reads shader text straight from the filesystem.
type FileSource struct{}

// Load implements Source.
func (FileSource) Load(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Status classifies the outcome of a build.
type Status int

const (
	StatusLinked Status = iota
	StatusSourceMissing
	StatusCompileFailed
	StatusLinkFailed
)

func (s Status) String() string {
	switch s {
	case StatusLinked:
		return "linked"
	case StatusSourceMissing:
		return "source missing"
	case StatusCompileFailed:
		return "compile failed"
	case StatusLinkFailed:
		return "link failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Build errors returned by Result.Err.
var (
	ErrSourceMissing = errors.New("shader source missing")
	ErrCompile       = errors.New("shader compile failed")
	ErrLink          = errors.New("shader link failed")
)

// Result is the diagnostic record of one build.
type Result struct {
	Status Status

	// Missing lists the paths that could not be read.
	Missing []string

	VertexLog   string
	FragmentLog string
	LinkLog     string
}

// OK reports whether the program linked.
func (r Result) OK() bool {
	return r.Status == StatusLinked
}

// Err converts a failed result into an error wrapping one of the Err values.
func (r Result) Err() error {
	switch r.Status {
	case StatusLinked:
		return nil
	case StatusSourceMissing:
		return fmt.Errorf("%w: %v", ErrSourceMissing, r.Missing)
	case StatusCompileFailed:
		if r.VertexLog != "" {
			return fmt.Errorf("%w: vertex: %s", ErrCompile, r.VertexLog)
		}
		return fmt.Errorf("%w: fragment: %s", ErrCompile, r.FragmentLog)
	default:
		return fmt.Errorf("%w: %s", ErrLink, r.LinkLog)
	}
}

// Program is a linked (or failed) shader program with a uniform location
// cache.
type Program struct {
	dev      gpu.Device
	handle   gpu.Handle
	result   Result
	uniforms map[string]int32
}

// Build reads both shader files through src and builds a program from them.
// An unreadable file becomes an empty source, which then fails to compile;
// the result status is StatusSourceMissing in that case.
func Build(dev gpu.Device, src Source, vertexPath, fragmentPath string) *Program {
	log := logger.Named("shader")

	var missing []string
	read := func(path string) string {
		data, err := src.Load(path)
		if err != nil {
			log.Warn("shader source unreadable", zap.String("path", path), zap.Error(err))
			missing = append(missing, path)
			return ""
		}
		return string(data)
	}

	vertexSrc := read(vertexPath)
	fragmentSrc := read(fragmentPath)

	p := BuildSource(dev, vertexSrc, fragmentSrc)
	if len(missing) > 0 {
		p.result.Status = StatusSourceMissing
		p.result.Missing = missing
	}

	log.Debug("shader program built",
		zap.String("vertex", vertexPath),
		zap.String("fragment", fragmentPath),
		zap.Stringer("status", p.result.Status),
	)
	return p
}

// BuildSource compiles and links in-memory sources. The intermediate shader
// objects are deleted once the link has been attempted.
func BuildSource(dev gpu.Device, vertexSrc, fragmentSrc string) *Program {
	log := logger.Named("shader")
	var res Result

	vert, vertOK, vertLog := dev.CreateShader(gpu.StageVertex, vertexSrc)
	if !vertOK {
		res.VertexLog = vertLog
		log.Warn("error compiling vertex shader", zap.String("log", vertLog))
	}

	frag, fragOK, fragLog := dev.CreateShader(gpu.StageFragment, fragmentSrc)
	if !fragOK {
		res.FragmentLog = fragLog
		log.Warn("error compiling fragment shader", zap.String("log", fragLog))
	}

	program, linkOK, linkLog := dev.CreateProgram(vert, frag)
	if !linkOK {
		res.LinkLog = linkLog
		log.Warn("error linking shader program", zap.String("log", linkLog))
	}

	dev.DeleteShader(vert)
	dev.DeleteShader(frag)

	switch {
	case !vertOK || !fragOK:
		res.Status = StatusCompileFailed
	case !linkOK:
		res.Status = StatusLinkFailed
	default:
		res.Status = StatusLinked
	}

	return &Program{
		dev:      dev,
		handle:   program,
		result:   res,
		uniforms: make(map[string]int32),
	}
}

// Handle returns the program object, or 0 after Delete.
func (p *Program) Handle() gpu.Handle {
	return p.handle
}

// Result returns the build diagnostics.
func (p *Program) Result() Result {
	return p.result
}

// Use makes this the current program.
func (p *Program) Use() {
	if p.handle == 0 {
		return
	}
	p.dev.UseProgram(p.handle)
}

// Uniform returns the location of a named uniform, -1 if it is inactive.
// Locations are looked up once per name and cached.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := int32(-1)
	if p.handle != 0 {
		loc = p.dev.UniformLocation(p.handle, name)
	}
	p.uniforms[name] = loc
	return loc
}

// SetMat4 uploads a matrix to a uniform of the current program.
func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	if loc := p.Uniform(name); loc >= 0 {
		p.dev.UniformMat4(loc, m)
	}
}

// SetInt uploads an integer (e.g. a sampler unit) to a uniform of the
// current program.
func (p *Program) SetInt(name string, v int32) {
	if loc := p.Uniform(name); loc >= 0 {
		p.dev.Uniform1i(loc, v)
	}
}

// Delete releases the program. Further calls are no-ops.
func (p *Program) Delete() {
	if p.handle == 0 {
		return
	}
	p.dev.DeleteProgram(p.handle)
	p.handle = 0
	p.uniforms = make(map[string]int32)
}
