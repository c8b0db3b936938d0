package surface

// Resolution decides the grid size of a surface. It only tunes presentation.
type Resolution interface {
	// Columns returns the number of date columns for a horizon in days.
	Columns(daysToExpiry float64) int
	// Rows returns the number of price rows for a render height in pixels.
	Rows(renderHeight, minCellHeight int) int
}

// Step maps horizons of up to MaxDays days to a column count.
type Step struct {
	MaxDays float64
	Columns int
}

// StepResolution picks columns from a step table and rows from the render height.
type StepResolution struct {
	Steps    []Step // ascending by MaxDays
	Fallback int    // columns past the last step
	MinRows  int
	MaxRows  int
}

// DefaultResolution returns the standard step table: shorter horizons get
// more columns so time decay near expiry stays visible.
func DefaultResolution() StepResolution {
	return StepResolution{
		Steps: []Step{
			{MaxDays: 7, Columns: 48},
			{MaxDays: 14, Columns: 40},
			{MaxDays: 30, Columns: 32},
			{MaxDays: 60, Columns: 26},
			{MaxDays: 90, Columns: 22},
		},
		Fallback: 20,
		MinRows:  9,
		MaxRows:  20,
	}
}

func (r StepResolution) Columns(daysToExpiry float64) int {
	cols := r.Fallback
	for _, s := range r.Steps {
		if daysToExpiry <= s.MaxDays {
			cols = s.Columns
			break
		}
	}
	if cols < 2 {
		cols = 2
	}
	return cols
}

func (r StepResolution) Rows(renderHeight, minCellHeight int) int {
	rows := r.MinRows
	if minCellHeight > 0 {
		rows = renderHeight / minCellHeight
	}
	if rows < r.MinRows {
		rows = r.MinRows
	}
	if r.MaxRows > 0 && rows > r.MaxRows {
		rows = r.MaxRows
	}
	if rows < 2 {
		rows = 2
	}
	return rows
}
