// Selective channel recombination into a false-color composite.
package core

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// MergeChannels builds a composite from the channels whose merge
// checkbox is ticked. The source is duplicated at the current Z
// position (all time frames in time mode), split into channels, each
// channel promoted to 16-bit without rescaling, and the selected
// channels combined into an 8-bit packed-color composite tinted with
// the configured channel colors. Calibration is copied field-by-field
// from the source; temporal fields only in time mode. The composite's
// active frame is reset to the first frame and it is shown or kept
// hidden per the show flag.
//
// With zero channels selected the duplicate and every split are
// released and ErrNoChannelsSelected is returned, in the multi-frame
// path as well as the single-frame one. Any unexpected failure during
// assembly is caught here, logged and surfaced as a nil result.
func (s *Session) MergeChannels(show bool) (composite *Image, err error) {
	// Intermediates still owned here; the recover handler releases
	// whatever a panic left behind.
	var (
		parts    []gocv.Mat
		chPlanes [][]gocv.Mat
		planes   []gocv.Mat
	)
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithField("panic", r).Error("Merge assembly failed")
			for _, p := range parts {
				p.Close()
			}
			for _, ps := range chPlanes {
				for _, p := range ps {
					p.Close()
				}
			}
			for _, p := range planes {
				p.Close()
			}
			if composite != nil {
				composite.Close()
			}
			composite = nil
			err = fmt.Errorf("merge assembly failed: %v", r)
		}
	}()

	src := s.Source()
	if src == nil {
		return nil, ErrNoImage
	}

	selected := selectedIndices(s.MergeFlags())
	allFrames := s.TimeMode() && src.NFrames() > 1

	dup := src.Duplicate("dup-"+src.Title, allFrames)
	defer dup.Close()

	if len(selected) == 0 {
		return nil, ErrNoChannelsSelected
	}
	for _, c := range selected {
		if c >= src.Channels() {
			return nil, fmt.Errorf("channel %d selected but source has %d channels", c+1, src.Channels())
		}
	}

	s.logger.WithFields(logrus.Fields{
		"source":     src.Title,
		"selected":   len(selected),
		"all_frames": allFrames,
		"show":       show,
	}).Info("Merging channels")

	// Split every frame; keep the selected channels promoted to
	// 16-bit, value-preserving.
	chPlanes = make([][]gocv.Mat, len(selected))
	for t := 0; t < dup.NFrames(); t++ {
		parts = gocv.Split(dup.FrameAt(t))
		for i, c := range selected {
			promoted := gocv.NewMat()
			parts[c].ConvertTo(&promoted, gocv.MatTypeCV16UC1)
			chPlanes[i] = append(chPlanes[i], promoted)
		}
		for i := range parts {
			parts[i].Close()
		}
		parts = nil
	}

	// One display mapping per channel across the whole stack: an
	// 8-bit source keeps its values 1:1, a 16-bit source is stretched
	// by its stack-wide maximum so frames stay comparable.
	alphas := make([]float64, len(selected))
	tints := make([]colorful.Color, len(selected))
	for i, c := range selected {
		if src.BitDepth() == 16 {
			alphas[i] = stackScale8U(chPlanes[i])
		} else {
			alphas[i] = 1
		}
		tints[i] = s.channelColor(c)
	}

	planes = make([]gocv.Mat, 0, dup.NFrames())
	for t := 0; t < dup.NFrames(); t++ {
		picked := make([]gocv.Mat, 0, len(selected))
		for i := range chPlanes {
			picked = append(picked, chPlanes[i][t])
		}
		planes = append(planes, falseColor(picked, alphas, tints))
	}
	for _, ps := range chPlanes {
		for _, p := range ps {
			p.Close()
		}
	}
	chPlanes = nil

	composite, err = NewImage("Merge-"+src.Title, planes, 1, len(planes))
	if err != nil {
		for _, p := range planes {
			p.Close()
		}
		return nil, fmt.Errorf("assembling composite: %w", err)
	}
	planes = nil // owned by the composite now
	composite.Cal.CopySpatialFrom(src.Cal)
	if allFrames {
		composite.Cal.CopyTemporalFrom(src.Cal)
	}
	composite.SetPosition(0, 0)

	if show {
		composite.Show()
		s.Register(composite)
	}
	return composite, nil
}

// falseColor combines 16-bit single-channel planes into one 8-bit BGR
// plane: each channel is reduced to display range with its stack-wide
// scale and added into the color components of its tint.
func falseColor(chans []gocv.Mat, alphas []float64, tints []colorful.Color) gocv.Mat {
	rows, cols := chans[0].Rows(), chans[0].Cols()
	acc := [3]gocv.Mat{} // B, G, R accumulators
	for i := range acc {
		acc[i] = gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), rows, cols, gocv.MatTypeCV8UC1)
	}

	for i, ch := range chans {
		display := gocv.NewMat()
		gocv.ConvertScaleAbs(ch, &display, alphas[i], 0)
		weights := [3]float64{tints[i].B, tints[i].G, tints[i].R}
		for k := 0; k < 3; k++ {
			if weights[k] == 0 {
				continue
			}
			tinted := gocv.NewMat()
			gocv.ConvertScaleAbs(display, &tinted, weights[k], 0)
			sum := gocv.NewMat()
			gocv.Add(acc[k], tinted, &sum)
			acc[k].Close()
			tinted.Close()
			acc[k] = sum
		}
		display.Close()
	}

	out := gocv.NewMat()
	gocv.Merge(acc[:], &out)
	for i := range acc {
		acc[i].Close()
	}
	return out
}

func (s *Session) channelColor(c int) colorful.Color {
	if s.cfg == nil {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return s.cfg.ChannelColor(c)
}

func selectedIndices(flags [MaxChannels]bool) []int {
	var out []int
	for i, on := range flags {
		if on {
			out = append(out, i)
		}
	}
	return out
}
