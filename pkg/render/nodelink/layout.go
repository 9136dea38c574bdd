package nodelink

import (
	"math"

	"github.com/microbeflow/crossfeed/pkg/bipartite"
)

// Point is a node position in layout units (inches in the DOT output).
type Point struct {
	X float64
	Y float64
}

// Shell radii in layout units. Taxa sit on the inner ring, metabolites
// on the outer one, so cross-class edges always span the gap.
const (
	innerRadius = 3.0
	outerRadius = 6.0
)

// ShellLayout places the graph on two concentric rings: taxa evenly
// spaced on the inner ring, metabolites on the outer. The seed rotates
// the rings (outer twice as far), which shuffles which labels end up
// adjacent without changing the topology.
//
// The layout is deterministic: nodes are ordered by ID within each ring,
// and the same graph with the same seed always yields the same
// coordinates.
func ShellLayout(g *bipartite.Graph, seed uint64) map[string]Point {
	coords := make(map[string]Point, g.NodeCount())
	placeRing(coords, g.NodeIDs(bipartite.Taxon), innerRadius, float64(seed))
	placeRing(coords, g.NodeIDs(bipartite.Metabolite), outerRadius, 2*float64(seed))
	return coords
}

func placeRing(coords map[string]Point, ids []string, radius, rotate float64) {
	if len(ids) == 0 {
		return
	}
	if len(ids) == 1 {
		// A single node ring still honors the rotation so the seed shows
		// up in every output.
		coords[ids[0]] = Point{
			X: radius * math.Cos(rotate),
			Y: radius * math.Sin(rotate),
		}
		return
	}
	step := 2 * math.Pi / float64(len(ids))
	for i, id := range ids {
		angle := rotate + float64(i)*step
		coords[id] = Point{
			X: radius * math.Cos(angle),
			Y: radius * math.Sin(angle),
		}
	}
}
