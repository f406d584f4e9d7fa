package models

// FilterResult is the content-filter oracle's verdict on a bundle.
type FilterResult struct {
	Approved  bool    `json:"approved"`
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}
