// Horizontal montage assembly with time-frame padding.
package core

import (
	"fmt"
	"image"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// MinMontageInputs is the smallest image list the assembler accepts.
const MinMontageInputs = 2

// AssembleMontage lays the inputs out left-to-right into one wider
// canvas, in order, strictly non-overlapping. Output width is the sum
// of input widths, output height the max of input heights. The output
// is packed color when any input is packed color, otherwise it keeps
// the first input's depth. When any input has more than one time
// frame the montage has the maximum frame count and shorter inputs are
// padded by repeating their last frame; otherwise it has one frame.
// Pixel blocks are copied without resampling or blending; the only
// conversion applied is promotion to the output color mode.
// Calibration is copied from the first input, temporal fields only for
// multi-frame output.
func AssembleMontage(title string, inputs []*Image) (*Image, error) {
	if len(inputs) < MinMontageInputs {
		return nil, ErrTooFewInputs
	}

	frames := 1
	width := 0
	height := 0
	anyColor := false
	for _, in := range inputs {
		if in == nil || in.Closed() {
			return nil, fmt.Errorf("montage input is closed")
		}
		width += in.Width()
		if in.Height() > height {
			height = in.Height()
		}
		if in.NFrames() > frames {
			frames = in.NFrames()
		}
		if in.IsColor() {
			anyColor = true
		}
	}

	outType := inputs[0].MatType()
	if anyColor {
		outType = gocv.MatTypeCV8UC3
	}

	planes := make([]gocv.Mat, 0, frames)
	for f := 0; f < frames; f++ {
		canvas := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), height, width, outType)
		x := 0
		for _, in := range inputs {
			block := ConvertPlaneTo(in.FrameAt(f), outType) // FrameAt clamps to the last frame
			roi := canvas.Region(image.Rect(x, 0, x+in.Width(), in.Height()))
			block.CopyTo(&roi)
			roi.Close()
			block.Close()
			x += in.Width()
		}
		planes = append(planes, canvas)
	}

	out, err := NewImage(title, planes, 1, frames)
	if err != nil {
		for _, p := range planes {
			p.Close()
		}
		return nil, fmt.Errorf("assembling montage: %w", err)
	}
	out.Cal.CopySpatialFrom(inputs[0].Cal)
	if frames > 1 {
		out.Cal.CopyTemporalFrom(inputs[0].Cal)
	}
	return out, nil
}

// Align gathers the montage inputs named by the alignment slots,
// assembles them into a montage, shows the result and releases the
// hidden intermediates. Slots that resolve to nothing are skipped;
// fewer than two resolved inputs is a user-facing error.
func (s *Session) Align(slots []Selection) (*Image, error) {
	var inputs []*Image
	release := func() {
		for _, in := range inputs {
			in.Close()
		}
	}

	for _, sel := range slots {
		img, err := s.ChannelFor(sel)
		if err != nil {
			release()
			return nil, err
		}
		if img != nil {
			inputs = append(inputs, img)
		}
	}

	if len(inputs) < MinMontageInputs {
		release()
		return nil, ErrTooFewInputs
	}

	s.logger.WithFields(logrus.Fields{
		"inputs": len(inputs),
	}).Info("Assembling montage")

	montage, err := AssembleMontage(s.montageTitle(), inputs)
	release()
	if err != nil {
		s.logger.WithError(err).Error("Montage assembly failed")
		return nil, err
	}

	montage.Show()
	s.Register(montage)
	return montage, nil
}

func (s *Session) montageTitle() string {
	if src := s.Source(); src != nil {
		return "Aligned-" + src.Title
	}
	return "Aligned"
}
