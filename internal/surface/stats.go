package surface

import (
	"github.com/montanaflynn/stats"
)

// Summary describes the distribution of P/L across a surface.
type Summary struct {
	Min             float64 `json:"min"`
	Max             float64 `json:"max"`
	Mean            float64 `json:"mean"`
	Median          float64 `json:"median"`
	P10             float64 `json:"p10"` // nearest-rank percentiles
	P90             float64 `json:"p90"`
	ProfitableShare float64 `json:"profitable_share"` // fraction of cells with P/L > 0
}

// Summarize computes distribution statistics over every cell.
func Summarize(s *Surface) (Summary, error) {
	data := make(stats.Float64Data, 0, len(s.Prices)*len(s.Dates))
	var profitable int
	for _, row := range s.Values {
		for _, v := range row {
			data = append(data, v)
			if v > 0 {
				profitable++
			}
		}
	}

	var sum Summary
	var err error
	if sum.Min, err = data.Min(); err != nil {
		return Summary{}, err
	}
	if sum.Max, err = data.Max(); err != nil {
		return Summary{}, err
	}
	if sum.Mean, err = data.Mean(); err != nil {
		return Summary{}, err
	}
	if sum.Median, err = data.Median(); err != nil {
		return Summary{}, err
	}
	if sum.P10, err = stats.PercentileNearestRank(data, 10); err != nil {
		return Summary{}, err
	}
	if sum.P90, err = stats.PercentileNearestRank(data, 90); err != nil {
		return Summary{}, err
	}
	sum.ProfitableShare = float64(profitable) / float64(len(data))
	return sum, nil
}

// Column returns the P/L of every price row on date index j.
func (s *Surface) Column(j int) []float64 {
	col := make([]float64, len(s.Values))
	for i, row := range s.Values {
		col[i] = row[j]
	}
	return col
}
