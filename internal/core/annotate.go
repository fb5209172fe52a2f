// Figure annotations: scale bar and time stamps.
package core

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// ScaleBarOptions control the scale bar drawn by DrawScaleBar.
type ScaleBarOptions struct {
	// Length is the physical bar length in the image's calibration
	// unit.
	Length float64
	// Thickness is the bar height in pixels.
	Thickness int
	// Color is used for the bar and its label.
	Color color.RGBA
	// ShowLabel prints the physical length under the bar.
	ShowLabel bool
	// Margin is the distance from the bottom-right corner in pixels.
	Margin int
}

// DrawScaleBar burns a scale bar into the bottom-right corner of every
// frame. The pixel length comes from the image's spatial calibration;
// an uncalibrated image is a user-facing error.
func (img *Image) DrawScaleBar(opts ScaleBarOptions) error {
	if img.Closed() {
		return fmt.Errorf("image %q is closed", img.Title)
	}
	if !img.Cal.SpatiallyCalibrated() {
		return fmt.Errorf("image %q has no spatial calibration; set pixel size in Properties first", img.Title)
	}
	if opts.Length <= 0 {
		return fmt.Errorf("scale bar length must be positive, got %g", opts.Length)
	}

	px := int(opts.Length/img.Cal.PixelWidth + 0.5)
	if px < 1 {
		px = 1
	}
	if px > img.Width() {
		return fmt.Errorf("scale bar of %g %s is wider than the image", opts.Length, img.Cal.Unit)
	}
	thickness := opts.Thickness
	if thickness < 1 {
		thickness = 1
	}
	margin := opts.Margin
	if margin < 0 {
		margin = 0
	}

	x1 := img.Width() - margin
	x0 := x1 - px
	y1 := img.Height() - margin
	y0 := y1 - thickness
	if x0 < 0 || y0 < 0 {
		return fmt.Errorf("scale bar does not fit inside the image")
	}
	bar := image.Rect(x0, y0, x1, y1)
	label := fmt.Sprintf("%g %s", opts.Length, img.Cal.Unit)

	for i := range img.planes {
		gocv.Rectangle(&img.planes[i], bar, opts.Color, -1)
		if opts.ShowLabel {
			size := gocv.GetTextSize(label, gocv.FontHersheySimplex, 0.5, 1)
			org := image.Point{X: x0 + (px-size.X)/2, Y: y0 - 6}
			gocv.PutText(&img.planes[i], label, org, gocv.FontHersheySimplex, 0.5, opts.Color, 1)
		}
	}
	return nil
}

// DrawTimeStamps burns the elapsed time of each frame into its top-left
// corner, computed from the frame interval. A stack without temporal
// calibration is a user-facing error.
func (img *Image) DrawTimeStamps(c color.RGBA) error {
	if img.Closed() {
		return fmt.Errorf("image %q is closed", img.Title)
	}
	if img.Cal.FrameInterval <= 0 {
		return fmt.Errorf("image %q has no frame interval; set it in Properties first", img.Title)
	}

	z := img.curZ
	for t := 0; t < img.nFrames; t++ {
		elapsed := float64(t) * img.Cal.FrameInterval
		label := formatElapsed(elapsed)
		plane := img.PlaneAt(z, t)
		gocv.PutText(&plane, label, image.Point{X: 10, Y: 28}, gocv.FontHersheySimplex, 0.7, c, 2)
	}
	return nil
}

// formatElapsed renders seconds as "12 s" below a minute and "mm:ss"
// from there on.
func formatElapsed(seconds float64) string {
	if seconds < 60 {
		return fmt.Sprintf("%g s", seconds)
	}
	m := int(seconds) / 60
	s := int(seconds) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}
