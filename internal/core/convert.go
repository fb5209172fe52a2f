package core

import "gocv.io/x/gocv"

// ConvertPlaneTo returns a copy of src converted to the target element
// type. Sample values are preserved (saturating on narrowing); the
// only structural change allowed is grayscale-to-packed-color
// promotion. The caller owns the returned Mat.
func ConvertPlaneTo(src gocv.Mat, mt gocv.MatType) gocv.Mat {
	if src.Type() == mt {
		return src.Clone()
	}
	if mt == gocv.MatTypeCV8UC3 {
		var gray gocv.Mat
		if src.Type() == gocv.MatTypeCV8UC1 {
			gray = src.Clone()
		} else {
			gray = gocv.NewMat()
			src.ConvertTo(&gray, gocv.MatTypeCV8UC1)
		}
		out := gocv.NewMat()
		gocv.CvtColor(gray, &out, gocv.ColorGrayToBGR)
		gray.Close()
		return out
	}
	out := gocv.NewMat()
	src.ConvertTo(&out, mt)
	return out
}

// scaleTo8U reduces a plane to 8-bit depth with the given scale. The
// scale comes from stackScale8U so every plane of a stack shares one
// mapping. 8-bit input is returned unchanged (cloned).
func scaleTo8U(src gocv.Mat, alpha float64) gocv.Mat {
	if src.Type() == gocv.MatTypeCV8UC1 {
		return src.Clone()
	}
	out := gocv.NewMat()
	gocv.ConvertScaleAbs(src, &out, alpha, 0)
	return out
}

// stackScale8U derives one 8-bit reduction scale for all planes of a
// channel: the brightest sample anywhere in the stack maps to 255, so
// identical raw values land on identical display values in every
// frame. 8-bit planes map 1:1.
func stackScale8U(planes []gocv.Mat) float64 {
	var maxVal float32
	for _, p := range planes {
		if p.Type() == gocv.MatTypeCV8UC1 {
			return 1
		}
		_, m, _, _ := gocv.MinMaxLoc(p)
		if m > maxVal {
			maxVal = m
		}
	}
	if maxVal <= 0 {
		return 1
	}
	return 255.0 / float64(maxVal)
}
