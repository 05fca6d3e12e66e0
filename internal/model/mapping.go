package model

// SuccessEntry pairs a stored image with the score of its row.
type SuccessEntry struct {
	ImagePath string
	Score     float64
}

// SuccessMapping is the ordered list of successful downloads.
type SuccessMapping []SuccessEntry

// Paths returns the image paths in mapping order.
func (m SuccessMapping) Paths() []string {
	paths := make([]string, len(m))
	for i, e := range m {
		paths[i] = e.ImagePath
	}
	return paths
}
