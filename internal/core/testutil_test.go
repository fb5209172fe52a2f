package core

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/ttsunglin/Mittens/internal/config"
)

func testSession(t *testing.T) *Session {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	s := NewSession(config.DefaultConfig(), logger)
	t.Cleanup(s.Close)
	return s
}

// grayPlane builds a deterministic 8-bit gradient so copied blocks can
// be compared byte-for-byte.
func grayPlane(t *testing.T, width, height int, seed int) gocv.Mat {
	t.Helper()
	m := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC1)
	for r := 0; r < height; r++ {
		for c := 0; c < width; c++ {
			m.SetUCharAt(r, c, uint8((r*31+c*17+seed)%256))
		}
	}
	return m
}

// multiChannelSource builds a source image with the given channel and
// frame counts, every channel a distinct gradient.
func multiChannelSource(t *testing.T, title string, channels, frames, width, height int) *Image {
	t.Helper()
	planes := make([]gocv.Mat, 0, frames)
	for f := 0; f < frames; f++ {
		parts := make([]gocv.Mat, 0, channels)
		for c := 0; c < channels; c++ {
			parts = append(parts, grayPlane(t, width, height, f*100+c*10))
		}
		merged := gocv.NewMat()
		gocv.Merge(parts, &merged)
		for _, p := range parts {
			p.Close()
		}
		planes = append(planes, merged)
	}
	img, err := NewImage(title, planes, 1, frames)
	require.NoError(t, err)
	return img
}

// gray16Plane builds a 16-bit plane from an explicit value function.
func gray16Plane(t *testing.T, width, height int, value func(r, c int) uint16) gocv.Mat {
	t.Helper()
	m := gocv.NewMatWithSize(height, width, gocv.MatTypeCV16UC1)
	data, err := m.DataPtrUint16()
	require.NoError(t, err)
	for r := 0; r < height; r++ {
		for c := 0; c < width; c++ {
			data[r*width+c] = value(r, c)
		}
	}
	return m
}

// sixteenBitMovie builds a 2-frame single-channel 16-bit stack whose
// frames share the raw value 500 but have different maxima (1000 in
// the first frame, 4000 in the second).
func sixteenBitMovie(t *testing.T, title string) *Image {
	t.Helper()
	maxima := []uint16{1000, 4000}
	planes := make([]gocv.Mat, 0, len(maxima))
	for _, peak := range maxima {
		peak := peak
		planes = append(planes, gray16Plane(t, 8, 8, func(r, c int) uint16 {
			if r == 0 && c == 0 {
				return peak
			}
			return 500
		}))
	}
	img, err := NewImage(title, planes, 1, len(planes))
	require.NoError(t, err)
	return img
}

func grayImage(t *testing.T, title string, frames, width, height, seed int) *Image {
	t.Helper()
	planes := make([]gocv.Mat, 0, frames)
	for f := 0; f < frames; f++ {
		planes = append(planes, grayPlane(t, width, height, seed+f*100))
	}
	img, err := NewImage(title, planes, 1, frames)
	require.NoError(t, err)
	return img
}

func matBytes(t *testing.T, m gocv.Mat) []byte {
	t.Helper()
	cont := m.Clone()
	defer cont.Close()
	data, err := cont.DataPtrUint8()
	require.NoError(t, err)
	out := make([]byte, len(data))
	copy(out, data)
	return out
}
