// Package editor holds the mutable application state: the world content,
// the view, selection, visibility, and the drawing machine, with an event
// bus the UI subscribes to.
package editor

import (
	"sync"

	"wilderness-editor/internal/drawing"
	"wilderness-editor/internal/projection"
	"wilderness-editor/internal/render"
	"wilderness-editor/internal/selection"
	"wilderness-editor/internal/wild"
	"wilderness-editor/pkg/geometry"
)

// EventType identifies state changes the UI can subscribe to.
type EventType int

const (
	EventWorldLoaded EventType = iota
	EventWorldSaved
	EventShapesChanged
	EventSelectionChanged
	EventViewChanged
	EventVisibilityChanged
	EventFlagsChanged
	EventDrawingChanged
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data any)

// State is the single source of truth the windows and the canvas render
// from. All access is mutex-guarded; events are emitted after the lock
// is released, so listeners may call back into the state.
type State struct {
	mu sync.RWMutex

	// World content, keyed plus kept in insertion order for stable
	// panel listings and render order.
	regions       map[int]*wild.Region
	regionOrder   []int
	paths         map[int]*wild.Path
	pathOrder     []int
	landmarks     map[string]*wild.Landmark
	landmarkOrder []string

	worldPath string
	modified  bool

	selected    wild.Ref
	hoverVertex int

	visibility *wild.Visibility
	view       projection.View
	flags      render.Flags

	machine *drawing.Machine

	listeners map[EventType][]EventListener
}

// NewState creates an empty editor state with every layer visible.
func NewState() *State {
	return &State{
		regions:     make(map[int]*wild.Region),
		paths:       make(map[int]*wild.Path),
		landmarks:   make(map[string]*wild.Landmark),
		hoverVertex: -1,
		visibility:  wild.NewVisibility(),
		view:        projection.NewView(),
		flags:       render.DefaultFlags(),
		machine:     drawing.NewMachine(),
		listeners:   make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data any) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the world as having unsaved changes.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	changed := s.modified != modified
	s.modified = modified
	s.mu.Unlock()

	if changed {
		s.Emit(EventModified, modified)
	}
}

// Modified reports whether there are unsaved changes.
func (s *State) Modified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modified
}

// WorldPath returns the file the world was loaded from or saved to,
// empty for a fresh world.
func (s *State) WorldPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.worldPath
}

// NewWorld clears all content and detaches from any file.
func (s *State) NewWorld() {
	s.mu.Lock()
	s.worldPath = ""
	s.mu.Unlock()

	s.ReplaceWorld(nil, nil, nil)
}

// ReplaceWorld swaps in complete world content, dropping selection and
// local edits. Used by file open and by the initial server fetch.
func (s *State) ReplaceWorld(regions []*wild.Region, paths []*wild.Path, landmarks []*wild.Landmark) {
	s.mu.Lock()
	s.regions = make(map[int]*wild.Region, len(regions))
	s.regionOrder = s.regionOrder[:0]
	for _, r := range regions {
		if r == nil {
			continue
		}
		if _, dup := s.regions[r.VNum]; !dup {
			s.regionOrder = append(s.regionOrder, r.VNum)
		}
		s.regions[r.VNum] = r
	}

	s.paths = make(map[int]*wild.Path, len(paths))
	s.pathOrder = s.pathOrder[:0]
	for _, p := range paths {
		if p == nil {
			continue
		}
		if _, dup := s.paths[p.VNum]; !dup {
			s.pathOrder = append(s.pathOrder, p.VNum)
		}
		s.paths[p.VNum] = p
	}

	s.landmarks = make(map[string]*wild.Landmark, len(landmarks))
	s.landmarkOrder = s.landmarkOrder[:0]
	for _, l := range landmarks {
		if l == nil || l.ID == "" {
			continue
		}
		if _, dup := s.landmarks[l.ID]; !dup {
			s.landmarkOrder = append(s.landmarkOrder, l.ID)
		}
		s.landmarks[l.ID] = l
	}

	s.selected = wild.Ref{}
	s.hoverVertex = -1
	s.modified = false
	s.mu.Unlock()

	s.Emit(EventWorldLoaded, nil)
}

// Regions returns all regions in insertion order.
func (s *State) Regions() []*wild.Region {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.regionsLocked()
}

func (s *State) regionsLocked() []*wild.Region {
	out := make([]*wild.Region, 0, len(s.regionOrder))
	for _, vnum := range s.regionOrder {
		if r := s.regions[vnum]; r != nil {
			out = append(out, r)
		}
	}
	return out
}

// Paths returns all paths in insertion order.
func (s *State) Paths() []*wild.Path {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pathsLocked()
}

func (s *State) pathsLocked() []*wild.Path {
	out := make([]*wild.Path, 0, len(s.pathOrder))
	for _, vnum := range s.pathOrder {
		if p := s.paths[vnum]; p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Landmarks returns all landmarks in insertion order.
func (s *State) Landmarks() []*wild.Landmark {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.landmarksLocked()
}

func (s *State) landmarksLocked() []*wild.Landmark {
	out := make([]*wild.Landmark, 0, len(s.landmarkOrder))
	for _, id := range s.landmarkOrder {
		if l := s.landmarks[id]; l != nil {
			out = append(out, l)
		}
	}
	return out
}

// Region returns the region with the given vnum, or nil.
func (s *State) Region(vnum int) *wild.Region {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.regions[vnum]
}

// Path returns the path with the given vnum, or nil.
func (s *State) Path(vnum int) *wild.Path {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.paths[vnum]
}

// Landmark returns the landmark with the given id, or nil.
func (s *State) Landmark(id string) *wild.Landmark {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.landmarks[id]
}

// UpsertRegion adds or replaces a region and marks it dirty for the
// next sync.
func (s *State) UpsertRegion(r *wild.Region) {
	if r == nil {
		return
	}
	s.mu.Lock()
	if _, ok := s.regions[r.VNum]; !ok {
		s.regionOrder = append(s.regionOrder, r.VNum)
	}
	r.Dirty = true
	s.regions[r.VNum] = r
	s.modified = true
	s.mu.Unlock()

	s.Emit(EventShapesChanged, r.Ref())
	s.Emit(EventModified, true)
}

// UpsertPath adds or replaces a path and marks it dirty.
func (s *State) UpsertPath(p *wild.Path) {
	if p == nil {
		return
	}
	s.mu.Lock()
	if _, ok := s.paths[p.VNum]; !ok {
		s.pathOrder = append(s.pathOrder, p.VNum)
	}
	p.Dirty = true
	s.paths[p.VNum] = p
	s.modified = true
	s.mu.Unlock()

	s.Emit(EventShapesChanged, p.Ref())
	s.Emit(EventModified, true)
}

// UpsertLandmark adds or replaces a landmark.
func (s *State) UpsertLandmark(l *wild.Landmark) {
	if l == nil || l.ID == "" {
		return
	}
	s.mu.Lock()
	if _, ok := s.landmarks[l.ID]; !ok {
		s.landmarkOrder = append(s.landmarkOrder, l.ID)
	}
	s.landmarks[l.ID] = l
	s.modified = true
	s.mu.Unlock()

	s.Emit(EventShapesChanged, l.Ref())
	s.Emit(EventModified, true)
}

// RemoveRegion deletes a region. The selection is cleared if it pointed
// at the removed region.
func (s *State) RemoveRegion(vnum int) bool {
	ref := wild.Ref{Kind: wild.KindRegion, VNum: vnum}
	s.mu.Lock()
	if _, ok := s.regions[vnum]; !ok {
		s.mu.Unlock()
		return false
	}
	delete(s.regions, vnum)
	s.regionOrder = removeKey(s.regionOrder, vnum)
	deselected := s.dropSelectionLocked(ref)
	s.modified = true
	s.mu.Unlock()

	s.Emit(EventShapesChanged, ref)
	if deselected {
		s.Emit(EventSelectionChanged, wild.Ref{})
	}
	s.Emit(EventModified, true)
	return true
}

// RemovePath deletes a path.
func (s *State) RemovePath(vnum int) bool {
	ref := wild.Ref{Kind: wild.KindPath, VNum: vnum}
	s.mu.Lock()
	if _, ok := s.paths[vnum]; !ok {
		s.mu.Unlock()
		return false
	}
	delete(s.paths, vnum)
	s.pathOrder = removeKey(s.pathOrder, vnum)
	deselected := s.dropSelectionLocked(ref)
	s.modified = true
	s.mu.Unlock()

	s.Emit(EventShapesChanged, ref)
	if deselected {
		s.Emit(EventSelectionChanged, wild.Ref{})
	}
	s.Emit(EventModified, true)
	return true
}

// RemoveLandmark deletes a landmark.
func (s *State) RemoveLandmark(id string) bool {
	ref := wild.Ref{Kind: wild.KindLandmark, ID: id}
	s.mu.Lock()
	if _, ok := s.landmarks[id]; !ok {
		s.mu.Unlock()
		return false
	}
	delete(s.landmarks, id)
	s.landmarkOrder = removeKey(s.landmarkOrder, id)
	deselected := s.dropSelectionLocked(ref)
	s.modified = true
	s.mu.Unlock()

	s.Emit(EventShapesChanged, ref)
	if deselected {
		s.Emit(EventSelectionChanged, wild.Ref{})
	}
	s.Emit(EventModified, true)
	return true
}

func (s *State) dropSelectionLocked(ref wild.Ref) bool {
	if s.selected != ref {
		return false
	}
	s.selected = wild.Ref{}
	s.hoverVertex = -1
	return true
}

func removeKey[K comparable](keys []K, key K) []K {
	for i, k := range keys {
		if k == key {
			return append(keys[:i], keys[i+1:]...)
		}
	}
	return keys
}

// MarkSynced clears the dirty flag on a shape after a successful server
// write.
func (s *State) MarkSynced(ref wild.Ref) {
	s.mu.Lock()
	switch ref.Kind {
	case wild.KindRegion:
		if r := s.regions[ref.VNum]; r != nil {
			r.Dirty = false
		}
	case wild.KindPath:
		if p := s.paths[ref.VNum]; p != nil {
			p.Dirty = false
		}
	}
	s.mu.Unlock()
}

// DirtyShapes returns the regions and paths with unsynced edits.
func (s *State) DirtyShapes() ([]*wild.Region, []*wild.Path) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var regions []*wild.Region
	for _, vnum := range s.regionOrder {
		if r := s.regions[vnum]; r != nil && r.Dirty {
			regions = append(regions, r)
		}
	}
	var paths []*wild.Path
	for _, vnum := range s.pathOrder {
		if p := s.paths[vnum]; p != nil && p.Dirty {
			paths = append(paths, p)
		}
	}
	return regions, paths
}

// NextRegionVNum returns a vnum one past the highest in use.
func (s *State) NextRegionVNum() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	next := 1
	for vnum := range s.regions {
		if vnum >= next {
			next = vnum + 1
		}
	}
	return next
}

// NextPathVNum returns a vnum one past the highest in use.
func (s *State) NextPathVNum() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	next := 1
	for vnum := range s.paths {
		if vnum >= next {
			next = vnum + 1
		}
	}
	return next
}

// Select makes ref the current selection and resets the vertex hover.
func (s *State) Select(ref wild.Ref) {
	s.mu.Lock()
	if s.selected == ref {
		s.mu.Unlock()
		return
	}
	s.selected = ref
	s.hoverVertex = -1
	s.mu.Unlock()

	s.Emit(EventSelectionChanged, ref)
}

// ClearSelection drops the current selection.
func (s *State) ClearSelection() {
	s.Select(wild.Ref{})
}

// Selected returns the current selection, zero when nothing is selected.
func (s *State) Selected() wild.Ref {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// SelectedItem resolves the current selection to its item, or nil.
func (s *State) SelectedItem() wild.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch s.selected.Kind {
	case wild.KindRegion:
		if r := s.regions[s.selected.VNum]; r != nil {
			return r
		}
	case wild.KindPath:
		if p := s.paths[s.selected.VNum]; p != nil {
			return p
		}
	case wild.KindLandmark:
		if l := s.landmarks[s.selected.ID]; l != nil {
			return l
		}
	}
	return nil
}

// SetHoverVertex updates the hovered vertex index of the selected
// shape, -1 for none.
func (s *State) SetHoverVertex(i int) {
	s.mu.Lock()
	if s.hoverVertex == i {
		s.mu.Unlock()
		return
	}
	s.hoverVertex = i
	s.mu.Unlock()

	s.Emit(EventSelectionChanged, s.Selected())
}

// HoverVertex returns the hovered vertex index, -1 for none.
func (s *State) HoverVertex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hoverVertex
}

// SetView replaces the pan/zoom state.
func (s *State) SetView(v projection.View) {
	s.mu.Lock()
	if s.view == v {
		s.mu.Unlock()
		return
	}
	s.view = v
	s.mu.Unlock()

	s.Emit(EventViewChanged, v)
}

// View returns the current pan/zoom state.
func (s *State) View() projection.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// SetFlags replaces the layer toggles.
func (s *State) SetFlags(f render.Flags) {
	s.mu.Lock()
	if s.flags == f {
		s.mu.Unlock()
		return
	}
	s.flags = f
	s.mu.Unlock()

	s.Emit(EventFlagsChanged, f)
}

// Flags returns the layer toggles.
func (s *State) Flags() render.Flags {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flags
}

// SetRegionHidden hides or shows a single region.
func (s *State) SetRegionHidden(vnum int, hidden bool) {
	s.mu.Lock()
	s.visibility.SetRegionHidden(vnum, hidden)
	s.mu.Unlock()
	s.Emit(EventVisibilityChanged, nil)
}

// SetPathHidden hides or shows a single path.
func (s *State) SetPathHidden(vnum int, hidden bool) {
	s.mu.Lock()
	s.visibility.SetPathHidden(vnum, hidden)
	s.mu.Unlock()
	s.Emit(EventVisibilityChanged, nil)
}

// SetLandmarkHidden hides or shows a single landmark.
func (s *State) SetLandmarkHidden(id string, hidden bool) {
	s.mu.Lock()
	s.visibility.SetLandmarkHidden(id, hidden)
	s.mu.Unlock()
	s.Emit(EventVisibilityChanged, nil)
}

// SetGroupHidden hides or shows a whole display group.
func (s *State) SetGroupHidden(group string, hidden bool) {
	s.mu.Lock()
	s.visibility.SetGroupHidden(group, hidden)
	s.mu.Unlock()
	s.Emit(EventVisibilityChanged, nil)
}

// GroupHidden reports whether a display group is hidden.
func (s *State) GroupHidden(group string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visibility.GroupHidden(group)
}

// Visibility returns a snapshot of the hidden-feature bookkeeping.
func (s *State) Visibility() *wild.Visibility {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visibility.Clone()
}

// SetTool switches the active drawing tool, cancelling any in-progress
// capture.
func (s *State) SetTool(t drawing.Tool) {
	s.mu.Lock()
	changed := s.machine.Tool() != t || s.machine.Active()
	s.machine.SetTool(t)
	s.mu.Unlock()

	if changed {
		s.Emit(EventDrawingChanged, s.DrawingSession())
	}
}

// Tool returns the active drawing tool.
func (s *State) Tool() drawing.Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.machine.Tool()
}

// DrawClick feeds a logical coordinate to the drawing machine. It
// reports whether the click was captured by the active tool.
func (s *State) DrawClick(c geometry.PointInt) bool {
	s.mu.Lock()
	captured := s.machine.Click(c)
	s.mu.Unlock()

	if captured {
		s.Emit(EventDrawingChanged, s.DrawingSession())
	}
	return captured
}

// FinishDrawing completes the capture, returning the tool and its
// vertices. Below-minimum sessions return a drawing.ValidationError and
// stay open.
func (s *State) FinishDrawing() (drawing.Tool, []geometry.PointInt, error) {
	s.mu.Lock()
	tool := s.machine.Tool()
	verts, err := s.machine.Finish()
	s.mu.Unlock()

	if err == nil {
		s.Emit(EventDrawingChanged, s.DrawingSession())
	}
	return tool, verts, err
}

// CancelDrawing discards the in-progress capture.
func (s *State) CancelDrawing() {
	s.mu.Lock()
	active := s.machine.Active()
	s.machine.Cancel()
	s.mu.Unlock()

	if active {
		s.Emit(EventDrawingChanged, s.DrawingSession())
	}
}

// DrawingSession returns a snapshot of the in-progress capture.
func (s *State) DrawingSession() drawing.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.machine.Session()
}

// ResolveClick runs selection resolution at a logical point and applies
// unambiguous outcomes: none clears the selection, a single hit selects
// it. Ambiguous results are returned untouched for the caller to
// disambiguate.
func (s *State) ResolveClick(p geometry.Point2D, radii selection.Radii) selection.Result {
	s.mu.RLock()
	world := selection.World{
		Regions:    s.regionsLocked(),
		Paths:      s.pathsLocked(),
		Landmarks:  s.landmarksLocked(),
		Visibility: s.visibility,
	}
	s.mu.RUnlock()

	result := selection.Resolve(p, world, radii)
	switch result.Outcome {
	case selection.OutcomeNone:
		s.ClearSelection()
	case selection.OutcomeSelected:
		s.Select(result.Selected.Ref())
	}
	return result
}

// Frame assembles a render snapshot of the current state. Slices are
// copied and visibility is cloned, so the pipeline can rasterize while
// the state keeps changing.
func (s *State) Frame() render.Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return render.Frame{
		Regions:     s.regionsLocked(),
		Paths:       s.pathsLocked(),
		Landmarks:   s.landmarksLocked(),
		Visibility:  s.visibility.Clone(),
		Selected:    s.selected,
		HoverVertex: s.hoverVertex,
		Session:     s.machine.Session(),
		View:        s.view,
		Flags:       s.flags,
	}
}
