// Brightness/contrast adjustment.
package core

import (
	"fmt"
	"sort"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"
)

// defaultSaturation is the fraction of pixels allowed to saturate at
// each end when picking the display window automatically.
const defaultSaturation = 0.0035

// ApplyWindow maps the intensity window [lo, hi] onto the full 8-bit
// display range in place, for every plane of the stack. Values below
// lo clip to 0, values above hi to 255. Color images are windowed per
// component.
func (img *Image) ApplyWindow(lo, hi float64) error {
	if img.Closed() {
		return fmt.Errorf("image %q is closed", img.Title)
	}
	if hi <= lo {
		return fmt.Errorf("invalid display window [%g, %g]", lo, hi)
	}
	alpha := 255.0 / (hi - lo)
	beta := -lo * alpha
	for i := range img.planes {
		adjusted := gocv.NewMat()
		gocv.ConvertScaleAbs(img.planes[i], &adjusted, alpha, beta)
		img.planes[i].Close()
		img.planes[i] = adjusted
	}
	return nil
}

// AutoWindow picks the display window from the current plane's
// intensity distribution, allowing defaultSaturation of the pixels to
// clip at each end, and applies it to the whole stack.
func (img *Image) AutoWindow() error {
	lo, hi, err := img.windowFromQuantiles(defaultSaturation)
	if err != nil {
		return err
	}
	return img.ApplyWindow(lo, hi)
}

// windowFromQuantiles samples the current plane and returns the
// intensities at the sat and 1-sat quantiles.
func (img *Image) windowFromQuantiles(sat float64) (lo, hi float64, err error) {
	if img.Closed() {
		return 0, 0, fmt.Errorf("image %q is closed", img.Title)
	}

	plane := img.CurrentPlane()
	var gray gocv.Mat
	if plane.Channels() > 1 {
		gray = gocv.NewMat()
		gocv.CvtColor(plane, &gray, gocv.ColorBGRToGray)
	} else {
		gray = plane.Clone()
	}
	defer gray.Close()

	values, err := planeValues(gray)
	if err != nil {
		return 0, 0, err
	}
	sort.Float64s(values)

	lo = stat.Quantile(sat, stat.Empirical, values, nil)
	hi = stat.Quantile(1-sat, stat.Empirical, values, nil)
	if hi <= lo {
		// Flat image; widen to a unit window so ApplyWindow succeeds.
		hi = lo + 1
	}
	return lo, hi, nil
}

func planeValues(gray gocv.Mat) ([]float64, error) {
	switch gray.Type() {
	case gocv.MatTypeCV8UC1:
		data, err := gray.DataPtrUint8()
		if err != nil {
			return nil, fmt.Errorf("reading plane data: %w", err)
		}
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
		return out, nil
	case gocv.MatTypeCV16UC1:
		data, err := gray.DataPtrUint16()
		if err != nil {
			return nil, fmt.Errorf("reading plane data: %w", err)
		}
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported plane type %d", gray.Type())
	}
}
