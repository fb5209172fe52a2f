package core

// Calibration is the physical-unit metadata attached to an image:
// spatial pixel size and temporal sampling. It travels with the image
// by value and is copied field-by-field at every derivation step, never
// shared by reference between images that can be closed independently.
type Calibration struct {
	// PixelWidth and PixelHeight are the physical extents of one pixel
	// in Unit. Zero means uncalibrated.
	PixelWidth  float64
	PixelHeight float64
	Unit        string

	// FrameInterval is the time between consecutive frames in seconds.
	FrameInterval float64

	// FPS is the acquisition or playback frame rate.
	FPS float64
}

// CopySpatialFrom copies the pixel size and unit from src, leaving the
// temporal fields untouched.
func (c *Calibration) CopySpatialFrom(src Calibration) {
	c.PixelWidth = src.PixelWidth
	c.PixelHeight = src.PixelHeight
	c.Unit = src.Unit
}

// CopyTemporalFrom copies the frame interval and frame rate from src,
// leaving the spatial fields untouched.
func (c *Calibration) CopyTemporalFrom(src Calibration) {
	c.FrameInterval = src.FrameInterval
	c.FPS = src.FPS
}

// SpatiallyCalibrated reports whether a physical pixel size is known.
func (c Calibration) SpatiallyCalibrated() bool {
	return c.PixelWidth > 0 && c.Unit != ""
}
