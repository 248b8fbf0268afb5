package split

import (
	"github.com/hupe1980/pfamprep/core"
	"github.com/montanaflynn/stats"
)

// Summary describes the class-size distribution of a label column, grouped
// by the branches of the split policy.
type Summary struct {
	Rows       int
	Classes    int
	Singletons int // count == 1
	Pairs      int // count == 2
	Triples    int // count == 3
	Shuffled   int // count >= 4
	Median     float64
	P90        float64
	Largest    int
}

// Summarize computes the Summary of classIDs.
func Summarize(classIDs []int) (Summary, error) {
	if len(classIDs) == 0 {
		return Summary{}, core.NewInvalidInput("split: summarize", "no rows")
	}
	maxID := 0
	for row, id := range classIDs {
		if id < 0 {
			return Summary{}, core.NewInvalidInput("split: summarize", "row %d has negative class id %d", row, id)
		}
		maxID = max(maxID, id)
	}

	g := groupByClass(classIDs, maxID)
	s := Summary{Rows: len(classIDs), Classes: g.len()}
	sizes := make(stats.Float64Data, 0, g.len())
	for i := range g.len() {
		count := g.offsets[i+1] - g.offsets[i]
		switch count {
		case 1:
			s.Singletons++
		case 2:
			s.Pairs++
		case 3:
			s.Triples++
		default:
			s.Shuffled++
		}
		s.Largest = max(s.Largest, count)
		sizes = append(sizes, float64(count))
	}

	var err error
	if s.Median, err = stats.Median(sizes); err != nil {
		return Summary{}, err
	}
	if len(sizes) == 1 {
		s.P90 = sizes[0]
		return s, nil
	}
	if s.P90, err = stats.Percentile(sizes, 90); err != nil {
		return Summary{}, err
	}
	return s, nil
}
