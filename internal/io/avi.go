// Scaled AVI export of time stacks.
package io

import (
	"fmt"
	"image"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/ttsunglin/Mittens/internal/core"
)

// ExportOptions control AVI export.
type ExportOptions struct {
	// Codec is the FOURCC handed to the video writer, e.g. "MJPG".
	Codec string
	// FPS is the fallback frame rate when the stack carries none.
	FPS float64
	// Scale resizes frames before writing; 1.0 writes them as-is.
	Scale float64
}

// ExportAVI writes every time frame of the stack to an AVI file,
// optionally resized. Frames are promoted to packed color first, since
// video codecs expect color input.
func (l *Loader) ExportAVI(img *core.Image, path string, opts ExportOptions) error {
	if img == nil || img.Closed() {
		return fmt.Errorf("cannot export a closed image")
	}
	if opts.Scale <= 0 {
		return fmt.Errorf("export scale must be positive, got %g", opts.Scale)
	}
	if opts.Codec == "" {
		opts.Codec = "MJPG"
	}

	fps := img.Cal.FPS
	if fps <= 0 {
		fps = opts.FPS
	}
	if fps <= 0 {
		return fmt.Errorf("no frame rate available; set one in Properties or the config")
	}

	width := int(float64(img.Width())*opts.Scale + 0.5)
	height := int(float64(img.Height())*opts.Scale + 0.5)
	if width < 1 || height < 1 {
		return fmt.Errorf("export scale %g collapses the image", opts.Scale)
	}

	l.logger.WithFields(logrus.Fields{
		"path":   path,
		"frames": img.NFrames(),
		"fps":    fps,
		"size":   fmt.Sprintf("%dx%d", width, height),
		"codec":  opts.Codec,
	}).Info("Exporting AVI")

	writer, err := gocv.VideoWriterFile(path, opts.Codec, fps, width, height, true)
	if err != nil {
		return fmt.Errorf("opening video writer: %w", err)
	}
	defer writer.Close()

	if !writer.IsOpened() {
		return fmt.Errorf("video writer rejected codec %q", opts.Codec)
	}

	for t := 0; t < img.NFrames(); t++ {
		frame := core.ConvertPlaneTo(img.FrameAt(t), gocv.MatTypeCV8UC3)
		if frame.Cols() != width || frame.Rows() != height {
			resized := gocv.NewMat()
			gocv.Resize(frame, &resized, image.Point{X: width, Y: height}, 0, 0, gocv.InterpolationLinear)
			frame.Close()
			frame = resized
		}
		err := writer.Write(frame)
		frame.Close()
		if err != nil {
			return fmt.Errorf("writing frame %d: %w", t, err)
		}
	}

	return nil
}
