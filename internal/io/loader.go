// Image and stack loading and saving.
package io

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/ttsunglin/Mittens/internal/core"
)

// Loader handles image file operations.
type Loader struct {
	logger *logrus.Logger
}

func NewLoader(logger *logrus.Logger) *Loader {
	return &Loader{
		logger: logger,
	}
}

// LoadImage reads a single file into a one-frame image. Bit depth is
// preserved (16-bit TIFFs stay 16-bit).
func (l *Loader) LoadImage(path string) (*core.Image, error) {
	l.logger.WithField("path", path).Debug("Loading image")

	if !l.isSupportedImageFormat(path) {
		return nil, fmt.Errorf("unsupported image format: %s", path)
	}

	mat := gocv.IMRead(path, gocv.IMReadUnchanged)
	if mat.Empty() {
		return nil, fmt.Errorf("failed to load image: %s", path)
	}

	img, err := core.NewImage(filepath.Base(path), []gocv.Mat{mat}, 1, 1)
	if err != nil {
		mat.Close()
		return nil, err
	}

	l.logger.WithFields(logrus.Fields{
		"path":     path,
		"width":    img.Width(),
		"height":   img.Height(),
		"channels": img.Channels(),
	}).Info("Image loaded")

	return img, nil
}

// LoadSequence reads every supported file in a directory, in name
// order, into one time stack. All files must share dimensions and
// type.
func (l *Loader) LoadSequence(dir string) (*core.Image, error) {
	l.logger.WithField("dir", dir).Debug("Loading image sequence")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading sequence directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !l.isSupportedImageFormat(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, fmt.Errorf("no supported images in %s", dir)
	}

	planes := make([]gocv.Mat, 0, len(paths))
	release := func() {
		for _, p := range planes {
			p.Close()
		}
	}
	for _, p := range paths {
		mat := gocv.IMRead(p, gocv.IMReadUnchanged)
		if mat.Empty() {
			release()
			return nil, fmt.Errorf("failed to load frame: %s", p)
		}
		planes = append(planes, mat)
	}

	img, err := core.NewImage(filepath.Base(dir), planes, 1, len(planes))
	if err != nil {
		release()
		return nil, fmt.Errorf("building sequence stack: %w", err)
	}

	l.logger.WithFields(logrus.Fields{
		"dir":    dir,
		"frames": img.NFrames(),
		"width":  img.Width(),
		"height": img.Height(),
	}).Info("Sequence loaded")

	return img, nil
}

// SaveImage writes the image's current plane to a file.
func (l *Loader) SaveImage(img *core.Image, path string) error {
	l.logger.WithField("path", path).Debug("Saving image")

	if img == nil || img.Closed() {
		return fmt.Errorf("cannot save a closed image")
	}
	if !l.isSupportedImageFormat(path) {
		return fmt.Errorf("unsupported image format: %s", path)
	}

	if ok := gocv.IMWrite(path, img.CurrentPlane()); !ok {
		return fmt.Errorf("failed to save image: %s", path)
	}

	l.logger.WithFields(logrus.Fields{
		"path":   path,
		"width":  img.Width(),
		"height": img.Height(),
	}).Info("Image saved")

	return nil
}

// SupportedExtensions lists the image file extensions the loader
// reads and writes. The menu file filters are built from this.
func (l *Loader) SupportedExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp"}
}

func (l *Loader) isSupportedImageFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range l.SupportedExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}
