package interp

import (
	"fmt"
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/mjard/relief/pkg/terrain"
)

// cubicNeighbors is how many known cells the cubic method blends per
// missing cell.
const cubicNeighbors = 12

// knownCell is a known grid sample in an r-tree index.
type knownCell struct {
	pt rtreego.Point
	v  float32
}

func (k *knownCell) Bounds() rtreego.Rect {
	return k.pt.ToRect(1e-9)
}

var _ rtreego.Spatial = (*knownCell)(nil)

// fillMissing replaces every missing cell of the cut with a value
// interpolated from the remaining known cells. With no known cells at
// all the cut is left as is (nothing to interpolate from).
func fillMissing(cut *terrain.Cut, method Method) error {
	var known []*knownCell
	for r := 0; r < cut.Rows(); r++ {
		for c := 0; c < cut.Cols(); c++ {
			h := cut.Heights[cut.Index(r, c)]
			if terrain.IsMissing(h) {
				continue
			}
			known = append(known, &knownCell{
				pt: rtreego.Point{float64(cut.X[c]), float64(cut.Y[r])},
				v:  h,
			})
		}
	}
	if len(known) == 0 {
		return nil
	}

	switch method {
	case Linear:
		return fillLinear(cut, known)
	case Nearest, Cubic:
		tree := rtreego.NewTree(2, 25, 50)
		for _, k := range known {
			tree.Insert(k)
		}
		for r := 0; r < cut.Rows(); r++ {
			for c := 0; c < cut.Cols(); c++ {
				i := cut.Index(r, c)
				if !terrain.IsMissing(cut.Heights[i]) {
					continue
				}
				q := rtreego.Point{float64(cut.X[c]), float64(cut.Y[r])}
				if method == Nearest {
					cut.Heights[i] = tree.NearestNeighbor(q).(*knownCell).v
				} else {
					cut.Heights[i] = cubicBlend(tree, q)
				}
			}
		}
		return nil
	}
	return fmt.Errorf("interp: method %s has no scattered fill", method)
}

// fillLinear interpolates over a Delaunay triangulation of the known
// cells. Cells outside the convex hull have no containing triangle and
// stay missing.
func fillLinear(cut *terrain.Cut, known []*knownCell) error {
	sites := make([]site, len(known))
	for i, k := range known {
		sites[i] = site{x: k.pt[0], y: k.pt[1], v: k.v}
	}
	tin, err := triangulate(sites)
	if err != nil {
		return err
	}
	for r := 0; r < cut.Rows(); r++ {
		for c := 0; c < cut.Cols(); c++ {
			i := cut.Index(r, c)
			if !terrain.IsMissing(cut.Heights[i]) {
				continue
			}
			if v, ok := tin.valueAt(float64(cut.X[c]), float64(cut.Y[r])); ok {
				cut.Heights[i] = v
			}
		}
	}
	return nil
}

// cubicBlend averages the nearest known cells weighted by an inverse
// cubic of their distance, which keeps a smooth falloff while staying
// exact at known sample locations.
func cubicBlend(tree *rtreego.Rtree, q rtreego.Point) float32 {
	neighbors := tree.NearestNeighbors(cubicNeighbors, q)
	var sum, weightSum float64
	for _, n := range neighbors {
		k, ok := n.(*knownCell)
		if !ok {
			continue
		}
		dx := k.pt[0] - q[0]
		dy := k.pt[1] - q[1]
		d2 := dx*dx + dy*dy
		if d2 == 0 {
			return k.v
		}
		w := 1 / math.Pow(d2, 1.5) // 1/d^3
		sum += w * float64(k.v)
		weightSum += w
	}
	if weightSum == 0 {
		return terrain.Missing()
	}
	return float32(sum / weightSum)
}
