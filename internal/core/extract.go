// Channel extraction: split, reduce to 8-bit, invert, display.
package core

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// ExtractChannels splits the source image at the current Z position
// into up to 4 single-channel 8-bit images, one per channel, inverted
// for display. In time mode (and when the source has more than one
// frame) every time frame is extracted; otherwise only the current
// frame. The resulting images replace the session's Channel Set,
// trailing entries are nil where the source has no such channel, and
// each extracted image is shown. The source's active position is
// restored before returning.
func (s *Session) ExtractChannels() ([]*Image, error) {
	src := s.Source()
	if src == nil {
		return nil, ErrNoImage
	}

	origZ, origT := src.Position()
	defer src.SetPosition(origZ, origT)

	allFrames := s.TimeMode() && src.NFrames() > 1
	frames := 1
	if allFrames {
		frames = src.NFrames()
	}
	nch := src.Channels()
	if nch > MaxChannels {
		nch = MaxChannels
	}

	s.logger.WithFields(logrus.Fields{
		"source":     src.Title,
		"channels":   nch,
		"frames":     frames,
		"all_frames": allFrames,
	}).Info("Extracting channels")

	// Split each frame; collect the raw per-channel plane lists.
	raw := make([][]gocv.Mat, nch)
	for t := 0; t < frames; t++ {
		frame := src.FrameAt(origT)
		if allFrames {
			frame = src.FrameAt(t)
		}
		parts := gocv.Split(frame)
		for c, part := range parts {
			if c < nch {
				raw[c] = append(raw[c], part)
			} else {
				part.Close()
			}
		}
	}

	// Reduce each channel to 8-bit under a single stack-wide mapping,
	// so a given raw intensity looks the same in every frame.
	chPlanes := make([][]gocv.Mat, nch)
	for c := range raw {
		alpha := stackScale8U(raw[c])
		for _, p := range raw[c] {
			chPlanes[c] = append(chPlanes[c], scaleTo8U(p, alpha))
			p.Close()
		}
	}

	var set [MaxChannels]*Image
	out := make([]*Image, 0, nch)
	for c := 0; c < nch; c++ {
		img, err := NewImage(fmt.Sprintf("C%d-%s", c+1, src.Title), chPlanes[c], 1, frames)
		if err != nil {
			// Should not happen with planes split from one source;
			// release everything built or not yet consumed.
			for _, b := range out {
				s.CloseImage(b)
			}
			for _, rest := range chPlanes[c:] {
				for _, p := range rest {
					p.Close()
				}
			}
			return nil, fmt.Errorf("building channel %d: %w", c+1, err)
		}
		img.Cal.CopySpatialFrom(src.Cal)
		if allFrames {
			img.Cal.CopyTemporalFrom(src.Cal)
		}
		if s.cfg == nil || s.cfg.Viewer.InvertExtracted {
			// One whole-stack inversion, not per-frame.
			img.InvertStack()
		}
		img.Show()
		s.Register(img)
		set[c] = img
		out = append(out, img)
	}

	s.setChannels(set, allFrames)
	s.notify()
	return out, nil
}
