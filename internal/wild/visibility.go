package wild

// Visibility filters features out of both rendering and hit-testing.
// Hidden features are fully click-through: they never draw and never
// appear in selection candidates. The zero value hides nothing.
//
// Visibility is not safe for concurrent mutation; the owning state
// guards it.
type Visibility struct {
	regions   map[int]struct{}
	paths     map[int]struct{}
	landmarks map[string]struct{}
	groups    map[string]struct{}
}

// NewVisibility returns a visibility set with everything shown.
func NewVisibility() *Visibility {
	return &Visibility{
		regions:   make(map[int]struct{}),
		paths:     make(map[int]struct{}),
		landmarks: make(map[string]struct{}),
		groups:    make(map[string]struct{}),
	}
}

// SetRegionHidden hides or shows a single region by vnum.
func (v *Visibility) SetRegionHidden(vnum int, hidden bool) {
	setKey(v.regions, vnum, hidden)
}

// SetPathHidden hides or shows a single path by vnum.
func (v *Visibility) SetPathHidden(vnum int, hidden bool) {
	setKey(v.paths, vnum, hidden)
}

// SetLandmarkHidden hides or shows a single landmark by id.
func (v *Visibility) SetLandmarkHidden(id string, hidden bool) {
	setKey(v.landmarks, id, hidden)
}

// SetGroupHidden hides or shows a whole group label (for example a region
// type or path type name).
func (v *Visibility) SetGroupHidden(group string, hidden bool) {
	setKey(v.groups, group, hidden)
}

// GroupHidden reports whether a group label is hidden.
func (v *Visibility) GroupHidden(group string) bool {
	if v == nil {
		return false
	}
	_, ok := v.groups[group]
	return ok
}

// RegionVisible reports whether a region should render and hit-test.
func (v *Visibility) RegionVisible(r *Region) bool {
	if v == nil {
		return true
	}
	if _, hidden := v.regions[r.VNum]; hidden {
		return false
	}
	return !v.GroupHidden(r.Group())
}

// PathVisible reports whether a path should render and hit-test.
func (v *Visibility) PathVisible(p *Path) bool {
	if v == nil {
		return true
	}
	if _, hidden := v.paths[p.VNum]; hidden {
		return false
	}
	return !v.GroupHidden(p.Group())
}

// LandmarkVisible reports whether a landmark should render and hit-test.
func (v *Visibility) LandmarkVisible(l *Landmark) bool {
	if v == nil {
		return true
	}
	if _, hidden := v.landmarks[l.ID]; hidden {
		return false
	}
	return !v.GroupHidden(l.Group())
}

// Clone returns an independent copy, used to hand a stable snapshot to a
// render pass.
func (v *Visibility) Clone() *Visibility {
	if v == nil {
		return NewVisibility()
	}
	out := NewVisibility()
	for k := range v.regions {
		out.regions[k] = struct{}{}
	}
	for k := range v.paths {
		out.paths[k] = struct{}{}
	}
	for k := range v.landmarks {
		out.landmarks[k] = struct{}{}
	}
	for k := range v.groups {
		out.groups[k] = struct{}{}
	}
	return out
}

func setKey[K comparable](m map[K]struct{}, key K, hidden bool) {
	if hidden {
		m[key] = struct{}{}
	} else {
		delete(m, key)
	}
}
