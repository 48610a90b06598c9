package schema

// MetricsCurve is one normalization strategy prepared for display.
type MetricsCurve struct {
	Strategy NormalizationStrategy `json:"strategy"`
	Formula  string                `json:"formula"`
	Purpose  string                `json:"purpose"`
	Samples  []float64             `json:"samples"` // Normalized value at each of MetricsRenderModel.Positions
}

// MetricsRenderModel contains all processed data needed for displaying the curves.
type MetricsRenderModel struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Positions   []float64      `json:"positions"`
	Curves      []MetricsCurve `json:"curves"`
}
