package core

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// ToDisplayImage converts the current plane into a Go image for the
// viewer canvas. 16-bit planes are stretched to the 8-bit display
// range using one scale for the whole stack, so stepping through
// frames does not flicker; pixel data in the stack is not touched.
func (img *Image) ToDisplayImage() (image.Image, error) {
	if img.Closed() {
		return nil, fmt.Errorf("image %q is closed", img.Title)
	}
	plane := img.CurrentPlane()
	if plane.Type() == gocv.MatTypeCV16UC1 {
		display := scaleTo8U(plane, stackScale8U(img.planes))
		defer display.Close()
		return display.ToImage()
	}
	return plane.ToImage()
}
