// Package notify implements notification delivery for completed
// optimization runs: formatting, channel discovery and dispatch over
// two transports with ordered fallback.
package notify

// Event is the business fact to report: one completed container
// optimization run. All fields are optional; absent numeric fields
// render as zero and absent strings fall back to documented defaults.
// An Event is immutable once constructed and consumed exactly once by
// the formatter.
type Event struct {
	VolumeUtilization float64 // percent, 0-100
	ItemsPacked       int
	TotalItems        int
	TotalWeight       float64 // kg
	RemainingVolume   float64 // m³
	UserName          string  // defaults to "System"
	Algorithm         string  // defaults to "Standard"
	VisualizationURL  string  // optional link to the 3D report
}
