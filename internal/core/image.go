// Core image stack model wrapping gocv Mats with explicit ownership.
package core

import (
	"fmt"

	"gocv.io/x/gocv"
)

// MaxChannels is the number of channels the workflow handles; any
// channel beyond the fourth is ignored during extraction.
const MaxChannels = 4

// Image is a stack of gocv.Mat planes laid out as NSlices x NFrames,
// plus a display title, a current (z, t) position, a visibility flag
// and a Calibration record. Each plane may carry up to 4 interleaved
// channels. The image owns its Mats: Close releases every plane, and
// whichever workflow step created an Image is responsible for closing
// it or handing it on.
type Image struct {
	Title string
	Cal   Calibration

	planes  []gocv.Mat // index = z*nFrames + t
	nSlices int
	nFrames int
	curZ    int
	curT    int
	visible bool
}

// NewImage wraps the given planes into an Image. The planes must all
// share dimensions and type, and len(planes) must equal slices*frames.
// Ownership of the Mats transfers to the Image.
func NewImage(title string, planes []gocv.Mat, slices, frames int) (*Image, error) {
	if slices < 1 || frames < 1 || len(planes) != slices*frames {
		return nil, fmt.Errorf("plane count %d does not match %d slices x %d frames", len(planes), slices, frames)
	}
	first := planes[0]
	if first.Empty() {
		return nil, fmt.Errorf("empty plane in image %q", title)
	}
	for i, p := range planes[1:] {
		if p.Cols() != first.Cols() || p.Rows() != first.Rows() || p.Type() != first.Type() {
			return nil, fmt.Errorf("plane %d of %q does not match plane 0 (%dx%d type %d)",
				i+1, title, first.Cols(), first.Rows(), first.Type())
		}
	}
	return &Image{
		Title:   title,
		planes:  planes,
		nSlices: slices,
		nFrames: frames,
	}, nil
}

// NewBlankImage allocates a zero-filled stack with the given geometry.
func NewBlankImage(title string, width, height int, mt gocv.MatType, frames int) (*Image, error) {
	if width < 1 || height < 1 || frames < 1 {
		return nil, fmt.Errorf("invalid geometry %dx%d x%d frames", width, height, frames)
	}
	planes := make([]gocv.Mat, 0, frames)
	for t := 0; t < frames; t++ {
		planes = append(planes, gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), height, width, mt))
	}
	return NewImage(title, planes, 1, frames)
}

// Width returns the pixel width of every plane.
func (img *Image) Width() int { return img.planes[0].Cols() }

// Height returns the pixel height of every plane.
func (img *Image) Height() int { return img.planes[0].Rows() }

// Channels returns the interleaved channel count of the planes.
func (img *Image) Channels() int { return img.planes[0].Channels() }

// MatType returns the gocv element type of the planes.
func (img *Image) MatType() gocv.MatType { return img.planes[0].Type() }

// NSlices returns the Z extent.
func (img *Image) NSlices() int { return img.nSlices }

// NFrames returns the T extent.
func (img *Image) NFrames() int { return img.nFrames }

// IsColor reports whether the planes are packed 3-channel color.
func (img *Image) IsColor() bool { return img.Channels() >= 3 }

// BitDepth returns 8, 16 or 24 in the display convention (24 meaning
// packed 8-bit color).
func (img *Image) BitDepth() int {
	switch {
	case img.IsColor():
		return 24
	case img.MatType() == gocv.MatTypeCV16UC1:
		return 16
	default:
		return 8
	}
}

// Position returns the current (z, t) position.
func (img *Image) Position() (z, t int) { return img.curZ, img.curT }

// SetPosition moves the current (z, t) position, clamping to the
// stack's extents.
func (img *Image) SetPosition(z, t int) {
	img.curZ = clamp(z, 0, img.nSlices-1)
	img.curT = clamp(t, 0, img.nFrames-1)
}

// PlaneAt returns the plane at (z, t) without copying. The Mat stays
// owned by the image; callers must not close it.
func (img *Image) PlaneAt(z, t int) gocv.Mat {
	z = clamp(z, 0, img.nSlices-1)
	t = clamp(t, 0, img.nFrames-1)
	return img.planes[z*img.nFrames+t]
}

// FrameAt returns the plane at the current Z and frame t, clamping t
// to the last frame. Montage padding relies on this clamping rule.
func (img *Image) FrameAt(t int) gocv.Mat {
	return img.PlaneAt(img.curZ, t)
}

// CurrentPlane returns the plane at the current (z, t) position.
func (img *Image) CurrentPlane() gocv.Mat {
	return img.PlaneAt(img.curZ, img.curT)
}

// Show marks the image visible to the viewer.
func (img *Image) Show() { img.visible = true }

// Hide removes the image from the viewer without closing it.
func (img *Image) Hide() { img.visible = false }

// Visible reports whether the viewer should list the image.
func (img *Image) Visible() bool { return img.visible }

// Duplicate clones the planes at the current Z position into a new
// single-slice image: every frame when allFrames is true, else only
// the current frame. The duplicate carries a copy of the calibration.
func (img *Image) Duplicate(title string, allFrames bool) *Image {
	var planes []gocv.Mat
	if allFrames {
		planes = make([]gocv.Mat, 0, img.nFrames)
		for t := 0; t < img.nFrames; t++ {
			planes = append(planes, img.PlaneAt(img.curZ, t).Clone())
		}
	} else {
		planes = []gocv.Mat{img.CurrentPlane().Clone()}
	}
	dup, _ := NewImage(title, planes, 1, len(planes))
	dup.Cal = img.Cal
	return dup
}

// InvertStack inverts the sample intensity of every plane in place
// (value -> max - value) as one whole-stack operation.
func (img *Image) InvertStack() {
	for i := range img.planes {
		gocv.BitwiseNot(img.planes[i], &img.planes[i])
	}
}

// Promote16 converts every plane to 16-bit depth in place without
// rescaling sample values. Planes already 16-bit are left untouched.
func (img *Image) Promote16() {
	if img.MatType() == gocv.MatTypeCV16UC1 || img.IsColor() {
		return
	}
	for i := range img.planes {
		promoted := gocv.NewMat()
		img.planes[i].ConvertTo(&promoted, gocv.MatTypeCV16UC1)
		img.planes[i].Close()
		img.planes[i] = promoted
	}
}

// Close releases every plane. The image must not be used afterwards.
func (img *Image) Close() {
	for i := range img.planes {
		if !img.planes[i].Empty() {
			img.planes[i].Close()
		}
	}
	img.planes = nil
	img.visible = false
}

// Closed reports whether Close has already run.
func (img *Image) Closed() bool { return img.planes == nil }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
