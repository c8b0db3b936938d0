package surface

import (
	"io"
	"time"

	"github.com/gocarina/gocsv"
)

// Cell is one surface point in long CSV form.
type Cell struct {
	Price float64 `csv:"price" json:"price"`
	Date  string  `csv:"date" json:"date"`
	PL    float64 `csv:"pl" json:"pl"`
}

// Cells flattens the surface row by row.
func (s *Surface) Cells() []*Cell {
	cells := make([]*Cell, 0, len(s.Prices)*len(s.Dates))
	for i, price := range s.Prices {
		for j, at := range s.Dates {
			cells = append(cells, &Cell{Price: price, Date: at.UTC().Format(time.RFC3339), PL: s.Values[i][j]})
		}
	}
	return cells
}

// WriteCSV writes the surface as price,date,pl records.
func WriteCSV(w io.Writer, s *Surface) error {
	cells := s.Cells()
	return gocsv.Marshal(&cells, w)
}
