package slotz

// Render carries a validated fetch result through the processing pipeline,
// after the currency check and before the image is applied to the slot.
// Pipeline stages may replace Image; Task and Origin are informational.
type Render struct {
	// Task is the identifier of the load that produced this result.
	Task TaskID

	// Image is the resolved image about to be applied. Stages may swap it
	// for a processed variant.
	Image Image

	// Origin tags where the image came from.
	Origin Origin
}
