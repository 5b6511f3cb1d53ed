// Package selection resolves clicks into feature selections. It gathers
// every visible feature hit at a logical point, then either selects the
// single candidate or reports the full ranked list for the user to
// disambiguate; overlapping shapes are never guessed between.
package selection

import (
	"sort"

	"wilderness-editor/internal/wild"
	"wilderness-editor/pkg/geometry"
)

// Pick tolerances. Landmark and vertex radii are pixel-space so the click
// target stays a constant size on screen; the path tolerance is in world
// units so a road stays equally grabbable at every zoom.
const (
	LandmarkPickPixels = 8.0
	VertexPickPixels   = 10.0
	PathToleranceUnits = 5.0
)

// Radii are the resolved world-unit tolerances for one click. The caller
// converts the pixel radii through the projection's pixels-per-unit.
type Radii struct {
	Landmark float64
	Path     float64
}

// RadiiForScale converts the standard pick tolerances for a given pixel
// density (device pixels per world unit).
func RadiiForScale(pixelsPerUnit float64) Radii {
	if pixelsPerUnit <= 0 {
		pixelsPerUnit = 1
	}
	return Radii{
		Landmark: LandmarkPickPixels / pixelsPerUnit,
		Path:     PathToleranceUnits,
	}
}

// Candidate pairs a hit feature with its rank key: distance for paths,
// area for regions. Lower ranks first within a kind.
type Candidate struct {
	Item    wild.Item
	RankKey float64
}

// Outcome classifies a resolution.
type Outcome int

const (
	// OutcomeNone means nothing was hit; selection should clear.
	OutcomeNone Outcome = iota
	// OutcomeSelected means exactly one candidate won.
	OutcomeSelected
	// OutcomeAmbiguous means several features overlap the click and the
	// user must choose from Candidates.
	OutcomeAmbiguous
)

// Result is the structured outcome of resolving one click.
type Result struct {
	Outcome    Outcome
	Selected   wild.Item
	Candidates []Candidate
}

// World is the read-only feature snapshot a resolution runs against.
type World struct {
	Regions    []*wild.Region
	Paths      []*wild.Path
	Landmarks  []*wild.Landmark
	Visibility *wild.Visibility
}

// Resolve gathers hit candidates at a logical point. Visible landmarks
// within radius take absolute priority and short-circuit: landmarks are
// small enough that they never join region/path ambiguity. Otherwise
// every containing visible region and every visible path within
// tolerance is gathered; one candidate selects immediately, several
// surface as an ordered disambiguation list with paths first (nearest
// first), then regions (smallest area first).
func Resolve(p geometry.Point2D, w World, radii Radii) Result {
	if lm := nearestLandmark(p, w, radii.Landmark); lm != nil {
		return Result{Outcome: OutcomeSelected, Selected: lm}
	}

	var pathHits []Candidate
	for _, path := range w.Paths {
		if !path.Renderable() || !w.Visibility.PathVisible(path) {
			continue
		}
		if d := path.DistanceTo(p); d <= radii.Path {
			pathHits = append(pathHits, Candidate{Item: path, RankKey: d})
		}
	}

	var regionHits []Candidate
	for _, region := range w.Regions {
		if !region.Renderable() || !w.Visibility.RegionVisible(region) {
			continue
		}
		if region.Contains(p) {
			regionHits = append(regionHits, Candidate{Item: region, RankKey: region.Area()})
		}
	}

	sortCandidates(pathHits)
	sortCandidates(regionHits)
	candidates := append(pathHits, regionHits...)

	switch len(candidates) {
	case 0:
		return Result{Outcome: OutcomeNone}
	case 1:
		return Result{Outcome: OutcomeSelected, Selected: candidates[0].Item}
	default:
		return Result{Outcome: OutcomeAmbiguous, Candidates: candidates}
	}
}

func nearestLandmark(p geometry.Point2D, w World, radius float64) *wild.Landmark {
	var best *wild.Landmark
	bestDist := radius
	for _, lm := range w.Landmarks {
		if !w.Visibility.LandmarkVisible(lm) {
			continue
		}
		if d := lm.DistanceTo(p); d <= bestDist {
			best, bestDist = lm, d
		}
	}
	return best
}

func sortCandidates(cs []Candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		return cs[i].RankKey < cs[j].RankKey
	})
}

// NearestVertex returns the index of the vertex closest to the logical
// point within maxDist world units, for hover highlighting. The boolean
// is false when no vertex is in range.
func NearestVertex(p geometry.Point2D, coords []geometry.PointInt, maxDist float64) (int, bool) {
	best := -1
	bestDist := maxDist
	for i, c := range coords {
		if d := c.ToFloat().Distance(p); d <= bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}
