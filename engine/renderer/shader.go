package renderer

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/tessera/engine/core"
)

// Uniform and attribute names shared by every shader variant.
const (
	UniformModel      = "u_Model"
	UniformModelInvTr = "u_ModelInvTr"
	UniformViewProj   = "u_ViewProj"
	UniformColor      = "u_Color"
	UniformTime       = "u_Time"
	AttributePosition = "vs_Pos"
	AttributeNormal   = "vs_Nor"
)

// ShaderSource is one stage of a program. File is only used in logs and
// to match hot reload notifications.
type ShaderSource struct {
	Stage  ShaderStage
	File   string
	Source string
}

type uniformSlot struct {
	loc UniformLocation
	ok  bool
}

type attribSlot struct {
	loc AttribLocation
	ok  bool
}

// ShaderProgram is a linked program plus the locations it exposes. A slot
// the program does not declare (or the driver optimized out) stays empty
// and the matching setter does nothing.
type ShaderProgram struct {
	Name    string
	Sources []ShaderSource

	ctx    Context
	handle ProgramHandle

	attrPos attribSlot
	attrNor attribSlot

	unifModel      uniformSlot
	unifModelInvTr uniformSlot
	unifViewProj   uniformSlot
	unifColor      uniformSlot
	unifTime       uniformSlot
}

// NewShaderProgram compiles every stage and links them. On failure every
// stage and program object created so far is deleted. Compile and link
// failures return a *core.ShaderError carrying the driver log; a context
// that cannot allocate a shader or program object returns ErrGpuResource.
func NewShaderProgram(ctx Context, name string, sources ...ShaderSource) (*ShaderProgram, error) {
	if len(sources) == 0 {
		return nil, core.InvalidParameter("shader %q: no stages", name)
	}

	header := ctx.ShaderHeader()
	stages := make([]ShaderStageHandle, 0, len(sources))
	defer func() {
		for _, s := range stages {
			ctx.DeleteShader(s)
		}
	}()

	for _, src := range sources {
		s, log, err := ctx.CompileShader(src.Stage, header+src.Source)
		if errors.Is(err, core.ErrGpuResource) {
			return nil, fmt.Errorf("shader %q: %w", name, err)
		}
		if err != nil {
			core.LogError("shader %q: %s stage (%s) failed to compile: %s", name, src.Stage, src.File, log)
			return nil, &core.ShaderError{Program: name, Stage: src.Stage.String(), Log: log}
		}
		stages = append(stages, s)
	}

	handle, log, err := ctx.LinkProgram(stages...)
	if errors.Is(err, core.ErrGpuResource) {
		return nil, fmt.Errorf("shader %q: %w", name, err)
	}
	if err != nil {
		core.LogError("shader %q failed to link: %s", name, log)
		return nil, &core.ShaderError{Program: name, Stage: "link", Log: log}
	}
	for _, s := range stages {
		ctx.DetachShader(handle, s)
	}

	p := &ShaderProgram{
		Name:    name,
		Sources: sources,
		ctx:     ctx,
		handle:  handle,
	}
	p.lookup()
	core.LogDebug("shader %q linked (handle %d)", name, handle)
	return p, nil
}

func (p *ShaderProgram) lookup() {
	attrib := func(name string) attribSlot {
		loc, ok := p.ctx.AttribLocation(p.handle, name)
		return attribSlot{loc: loc, ok: ok}
	}
	uniform := func(name string) uniformSlot {
		loc, ok := p.ctx.UniformLocation(p.handle, name)
		return uniformSlot{loc: loc, ok: ok}
	}
	p.attrPos = attrib(AttributePosition)
	p.attrNor = attrib(AttributeNormal)
	p.unifModel = uniform(UniformModel)
	p.unifModelInvTr = uniform(UniformModelInvTr)
	p.unifViewProj = uniform(UniformViewProj)
	p.unifColor = uniform(UniformColor)
	p.unifTime = uniform(UniformTime)
}

func (p *ShaderProgram) Handle() ProgramHandle {
	return p.handle
}

// Use makes this the current program.
func (p *ShaderProgram) Use() {
	p.ctx.UseProgram(p.handle)
}

// UsesFile reports whether one of the stages was loaded from file.
func (p *ShaderProgram) UsesFile(file string) bool {
	for _, src := range p.Sources {
		if src.File == file {
			return true
		}
	}
	return false
}

// SetModelMatrix also pushes the inverse transpose used for normals.
func (p *ShaderProgram) SetModelMatrix(model mgl32.Mat4) {
	p.Use()
	if p.unifModel.ok {
		p.ctx.UniformMatrix4(p.unifModel.loc, model)
	}
	if p.unifModelInvTr.ok {
		p.ctx.UniformMatrix4(p.unifModelInvTr.loc, model.Inv().Transpose())
	}
}

func (p *ShaderProgram) SetViewProjMatrix(vp mgl32.Mat4) {
	p.Use()
	if p.unifViewProj.ok {
		p.ctx.UniformMatrix4(p.unifViewProj.loc, vp)
	}
}

func (p *ShaderProgram) SetGeometryColor(color mgl32.Vec4) {
	p.Use()
	if p.unifColor.ok {
		p.ctx.Uniform4(p.unifColor.loc, color)
	}
}

func (p *ShaderProgram) SetTime(t float32) {
	p.Use()
	if p.unifTime.ok {
		p.ctx.Uniform1(p.unifTime.loc, t)
	}
}

// Draw issues one indexed triangle draw for d.
func (p *ShaderProgram) Draw(d Drawable) error {
	if p.handle == 0 {
		return core.GpuResource("shader %q: program destroyed", p.Name)
	}
	p.Use()

	if p.attrPos.ok {
		p.ctx.EnableVertexAttrib(p.attrPos.loc)
		d.BindPositions(p.attrPos.loc)
	}
	if p.attrNor.ok {
		p.ctx.EnableVertexAttrib(p.attrNor.loc)
		d.BindNormals(p.attrNor.loc)
	}

	if d.BindIndices() && d.ElementCount() > 0 {
		p.ctx.DrawElements(d.ElementCount())
	}

	if p.attrPos.ok {
		p.ctx.DisableVertexAttrib(p.attrPos.loc)
	}
	if p.attrNor.ok {
		p.ctx.DisableVertexAttrib(p.attrNor.loc)
	}
	return nil
}

// Destroy deletes the program. Safe to call more than once.
func (p *ShaderProgram) Destroy() {
	if p.handle == 0 {
		return
	}
	p.ctx.DeleteProgram(p.handle)
	p.handle = 0
}
