// Package drawing captures vertex sequences while a drawing tool is
// active and validates them into finished shapes.
package drawing

import (
	"fmt"

	"wilderness-editor/pkg/geometry"
)

// Tool is the active canvas interaction mode.
type Tool int

const (
	ToolInspect Tool = iota
	ToolPolygon
	ToolPolyline
	ToolLandmark
)

// String returns the display name for the tool.
func (t Tool) String() string {
	switch t {
	case ToolInspect:
		return "Inspect"
	case ToolPolygon:
		return "Polygon"
	case ToolPolyline:
		return "Polyline"
	case ToolLandmark:
		return "Landmark"
	default:
		return fmt.Sprintf("Tool(%d)", int(t))
	}
}

// MinVertices returns the vertex count a tool's shape needs before it can
// finish. Tools that do not capture vertices return 0.
func (t Tool) MinVertices() int {
	switch t {
	case ToolPolygon:
		return 3
	case ToolPolyline:
		return 2
	default:
		return 0
	}
}

// captures reports whether the tool runs a multi-click capture session.
// The landmark tool emits on a single click and never enters a session.
func (t Tool) captures() bool {
	return t == ToolPolygon || t == ToolPolyline
}

// Session is a snapshot of the in-progress capture, handed to the render
// pass for the preview overlay.
type Session struct {
	Tool     Tool
	Vertices []geometry.PointInt
	Active   bool
}

// Valid reports whether the session has reached its tool's minimum.
func (s Session) Valid() bool {
	return s.Active && len(s.Vertices) >= s.Tool.MinVertices()
}

// Status returns the live readout for the session: progress toward the
// minimum while short, a finish prompt once the shape is valid, empty
// when idle.
func (s Session) Status() string {
	if !s.Active {
		return ""
	}

	n := len(s.Vertices)
	min := s.Tool.MinVertices()
	if n < min {
		return fmt.Sprintf("%d/%d points - need %d more", n, min, min-n)
	}
	return fmt.Sprintf("%d points - press Enter to finish", n)
}

// ValidationError reports a finish attempt below the tool's minimum
// vertex count. It is user-facing: the message names the required minimum.
type ValidationError struct {
	Tool Tool
	Min  int
	Have int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("a %s needs at least %d points, have %d", lower(e.Tool.String()), e.Min, e.Have)
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// Machine is the drawing state machine: Idle until a capturing tool
// receives a click, Drawing while vertices accumulate, back to Idle on
// finish or cancel. The machine owns only the transient session; finished
// shapes flow out through Finish's return value.
type Machine struct {
	tool     Tool
	vertices []geometry.PointInt
	active   bool
}

// NewMachine returns an idle machine holding the inspect tool.
func NewMachine() *Machine {
	return &Machine{tool: ToolInspect}
}

// Tool returns the active tool.
func (m *Machine) Tool() Tool {
	return m.tool
}

// SetTool switches the active tool. Switching while a session is active
// cancels it; a partial shape never carries over between tools.
func (m *Machine) SetTool(t Tool) {
	if t != m.tool {
		m.Cancel()
	}
	m.tool = t
}

// Active reports whether a capture session is in progress.
func (m *Machine) Active() bool {
	return m.active
}

// Session returns a copy of the current capture state.
func (m *Machine) Session() Session {
	verts := make([]geometry.PointInt, len(m.vertices))
	copy(verts, m.vertices)
	return Session{Tool: m.tool, Vertices: verts, Active: m.active}
}

// Click appends a logical coordinate to the session, starting one if the
// machine is idle. Returns false when the active tool does not capture
// vertices, so the caller can route the click to selection or stamping.
func (m *Machine) Click(c geometry.PointInt) bool {
	if !m.tool.captures() {
		return false
	}
	m.active = true
	m.vertices = append(m.vertices, c)
	return true
}

// Finish validates the session against the tool's minimum and either
// emits the captured vertices and resets to idle, or returns a
// ValidationError leaving the session intact so the user can keep
// adding points.
func (m *Machine) Finish() ([]geometry.PointInt, error) {
	if !m.active {
		return nil, fmt.Errorf("no drawing in progress")
	}

	min := m.tool.MinVertices()
	if len(m.vertices) < min {
		return nil, &ValidationError{Tool: m.tool, Min: min, Have: len(m.vertices)}
	}

	out := m.vertices
	m.vertices = nil
	m.active = false
	return out, nil
}

// Cancel discards any session unconditionally.
func (m *Machine) Cancel() {
	m.vertices = nil
	m.active = false
}

// Status returns the live readout for the status bar: progress toward the
// minimum while short, a finish prompt once the shape is valid, empty
// when idle.
func (m *Machine) Status() string {
	return m.Session().Status()
}
