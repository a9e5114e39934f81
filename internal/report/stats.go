package report

import "math"

// Counts holds task totals by status for one reporting scope.
type Counts struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Todo       int `json:"todo"`
	InProgress int `json:"in_progress"`
	Done       int `json:"done"`
}

// Stats are the percentage views over Counts. Rates are whole percentages
// rounded to nearest.
type Stats struct {
	CompletionRate int `json:"completion_rate"`
	InProgressRate int `json:"in_progress_rate"`
	OpenRate       int `json:"open_rate"` // pending + to-do combined
}

// Compute derives percentage stats from status counts. A zero total yields
// all-zero rates rather than an error or NaN.
func Compute(c Counts) Stats {
	if c.Total <= 0 {
		return Stats{}
	}
	return Stats{
		CompletionRate: percent(c.Done, c.Total),
		InProgressRate: percent(c.InProgress, c.Total),
		OpenRate:       percent(c.Pending+c.Todo, c.Total),
	}
}

func percent(part, total int) int {
	return int(math.Round(float64(part) / float64(total) * 100))
}
