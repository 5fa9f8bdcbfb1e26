package sampler

import (
	"math"
	"sort"

	"statdp/mechanism"
)

// categoricalThreshold and the continuous-window fraction are named
// policy constants straight out of spec.md §4.2: a coordinate is
// categorical when its combined, de-duplicated observed value count is
// below 0.2% of the chunk size; otherwise it is continuous and the
// search space is ten open (-inf, alpha) half-lines spanning the densest
// 70% window of observed values.
const (
	categoricalThreshold = 0.002
	continuousWindowFrac = 0.7
	continuousPoints     = 10
)

// discoverEventSpace builds the auto-generated event search space from a
// single chunk's column stores, per spec.md §4.2 step (b). It returns
// the Cartesian product of the per-coordinate search spaces.
func discoverEventSpace(col1, col2 [][]float64, chunkSize int) ([]mechanism.Event, error) {
	arity := len(col1)
	perCoordinate := make([][]mechanism.Coordinate, arity)
	for c := 0; c < arity; c++ {
		coords, err := coordinateSearchSpace(col1[c], col2[c], chunkSize)
		if err != nil {
			return nil, err
		}
		perCoordinate[c] = coords
	}
	return cartesianProduct(perCoordinate), nil
}

func coordinateSearchSpace(col1, col2 []float64, chunkSize int) ([]mechanism.Coordinate, error) {
	combined := make([]float64, 0, len(col1)+len(col2))
	combined = append(combined, col1...)
	combined = append(combined, col2...)

	unique := uniqueSorted(combined)
	if float64(len(unique)) < categoricalThreshold*float64(chunkSize) {
		coords := make([]mechanism.Coordinate, len(unique))
		for i, v := range unique {
			coords[i] = mechanism.Exact(v)
		}
		return coords, nil
	}

	sort.Float64s(combined)
	n := len(combined)
	windowLen := int(continuousWindowFrac * float64(n))
	if windowLen < 1 {
		windowLen = 1
	}
	if windowLen > n {
		windowLen = n
	}

	bestSpan := math.Inf(1)
	bestEnd := windowLen
	for end := windowLen; end < n; end++ {
		span := combined[end] - combined[end-windowLen]
		if span < bestSpan {
			bestSpan = span
			bestEnd = end
		}
	}
	searchMin := bestEnd - windowLen
	a, b := combined[searchMin], combined[bestEnd]

	coords := make([]mechanism.Coordinate, continuousPoints)
	for i := 0; i < continuousPoints; i++ {
		var alpha float64
		if continuousPoints == 1 {
			alpha = a
		} else {
			alpha = a + (b-a)*float64(i)/float64(continuousPoints-1)
		}
		coords[i] = mechanism.Interval(math.Inf(-1), alpha)
	}
	return coords, nil
}

func uniqueSorted(values []float64) []float64 {
	cp := append([]float64(nil), values...)
	sort.Float64s(cp)
	out := cp[:0]
	var last float64
	for i, v := range cp {
		if i == 0 || v != last {
			out = append(out, v)
			last = v
		}
	}
	return out
}

// cartesianProduct forms every combination across per-coordinate spaces,
// in the order [first] x [second] x ... x [last], so that a single given
// event (one option per coordinate) yields exactly one combination.
func cartesianProduct(spaces [][]mechanism.Coordinate) []mechanism.Event {
	if len(spaces) == 0 {
		return nil
	}
	events := []mechanism.Event{{}}
	for _, space := range spaces {
		next := make([]mechanism.Event, 0, len(events)*len(space))
		for _, prefix := range events {
			for _, coord := range space {
				event := make(mechanism.Event, len(prefix)+1)
				copy(event, prefix)
				event[len(prefix)] = coord
				next = append(next, event)
			}
		}
		events = next
	}
	return events
}
