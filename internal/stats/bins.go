package stats

import "math"

// DefaultBinCount is the number of histogram buckets over the global extent.
const DefaultBinCount = 20

// Bin is one histogram bucket. Index is its identity; edges follow from the
// global extent and the bucket count, so they never move under filtering.
type Bin struct {
	Index int
	X0    float64
	X1    float64
	Count int
}

// Mid returns the bin midpoint.
func (b Bin) Mid() float64 { return (b.X0 + b.X1) / 2 }

// BinEdges returns the [x0, x1) edges of bucket i. The last bucket ends at
// ext.Max exactly.
func BinEdges(ext Extent, count, i int) (x0, x1 float64) {
	if count <= 0 {
		return ext.Min, ext.Max
	}
	w := ext.Width() / float64(count)
	x0 = ext.Min + float64(i)*w
	if i == count-1 {
		return x0, ext.Max
	}
	return x0, ext.Min + float64(i+1)*w
}

// BinIndex returns the bucket for v, or -1 when v lies outside ext. The
// maximum value belongs to the last bucket; a zero-width extent puts
// everything in bucket 0.
func BinIndex(v float64, ext Extent, count int) int {
	if count <= 0 || math.IsNaN(v) || !ext.Contains(v) {
		return -1
	}
	w := ext.Width()
	if w == 0 {
		return 0
	}
	i := int(math.Floor((v - ext.Min) / w * float64(count)))
	if i >= count {
		i = count - 1
	}
	// Floor of the scaled offset can land one bucket past the edge
	// computed by BinEdges; settle on the edges.
	if x0, _ := BinEdges(ext, count, i); v < x0 && i > 0 {
		i--
	}
	if _, x1 := BinEdges(ext, count, i); v >= x1 && i < count-1 {
		i++
	}
	return i
}

// HistogramBins buckets mags into count equal-width bins over ext. Every bin
// is returned, including empty ones.
func HistogramBins(mags []float64, ext Extent, count int) []Bin {
	if count <= 0 {
		return nil
	}
	bins := make([]Bin, count)
	for i := range bins {
		x0, x1 := BinEdges(ext, count, i)
		bins[i] = Bin{Index: i, X0: x0, X1: x1}
	}
	for _, v := range mags {
		if i := BinIndex(v, ext, count); i >= 0 {
			bins[i].Count++
		}
	}
	return bins
}
