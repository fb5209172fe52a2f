package core

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestNewImageValidatesGeometry(t *testing.T) {
	p := grayPlane(t, 10, 10, 0)
	_, err := NewImage("bad", []gocv.Mat{p}, 1, 2)
	assert.Error(t, err)
	p.Close()

	a := grayPlane(t, 10, 10, 0)
	b := grayPlane(t, 20, 10, 0)
	_, err = NewImage("mismatch", []gocv.Mat{a, b}, 1, 2)
	assert.Error(t, err)
	a.Close()
	b.Close()
}

func TestImagePositionClamping(t *testing.T) {
	img := grayImage(t, "x", 3, 8, 8, 0)
	defer img.Close()

	img.SetPosition(5, 99)
	z, tt := img.Position()
	assert.Equal(t, 0, z)
	assert.Equal(t, 2, tt)

	img.SetPosition(-1, -1)
	z, tt = img.Position()
	assert.Equal(t, 0, z)
	assert.Equal(t, 0, tt)
}

func TestFrameAtClampsToLastFrame(t *testing.T) {
	img := grayImage(t, "x", 2, 8, 8, 0)
	defer img.Close()

	last := matBytes(t, img.FrameAt(1))
	assert.Equal(t, last, matBytes(t, img.FrameAt(7)))
}

func TestDuplicateFrames(t *testing.T) {
	img := grayImage(t, "x", 4, 8, 8, 0)
	img.Cal = Calibration{PixelWidth: 1.5, Unit: "um"}
	img.SetPosition(0, 2)
	defer img.Close()

	single := img.Duplicate("single", false)
	defer single.Close()
	assert.Equal(t, 1, single.NFrames())
	assert.Equal(t, matBytes(t, img.FrameAt(2)), matBytes(t, single.FrameAt(0)))
	assert.Equal(t, img.Cal, single.Cal)

	all := img.Duplicate("all", true)
	defer all.Close()
	assert.Equal(t, 4, all.NFrames())
}

func TestPromote16PreservesValues(t *testing.T) {
	img := grayImage(t, "x", 1, 8, 8, 3)
	defer img.Close()

	before := matBytes(t, img.CurrentPlane())
	img.Promote16()
	require.Equal(t, 16, img.BitDepth())

	plane := img.CurrentPlane().Clone()
	defer plane.Close()
	data, err := plane.DataPtrUint16()
	require.NoError(t, err)
	require.Len(t, data, len(before))
	for i, v := range data {
		assert.Equal(t, uint16(before[i]), v, "value %d changed during promotion", i)
	}
}

func TestApplyWindow(t *testing.T) {
	img := grayImage(t, "x", 2, 8, 8, 0)
	defer img.Close()

	require.Error(t, img.ApplyWindow(100, 100), "empty window must be rejected")
	require.NoError(t, img.ApplyWindow(0, 255))

	// Full-range window on 8-bit data is the identity.
	assert.Equal(t, 8, img.BitDepth())
}

func TestAutoWindowStretchesRange(t *testing.T) {
	img := grayImage(t, "x", 1, 64, 64, 11)
	defer img.Close()

	require.NoError(t, img.AutoWindow())

	_, maxVal, _, _ := gocv.MinMaxLoc(img.CurrentPlane())
	assert.InDelta(t, 255, float64(maxVal), 1)
}

func TestDrawScaleBarRequiresCalibration(t *testing.T) {
	img := grayImage(t, "x", 1, 64, 64, 0)
	defer img.Close()

	err := img.DrawScaleBar(ScaleBarOptions{Length: 10})
	assert.Error(t, err)
}

func TestDrawScaleBarBurnsPixels(t *testing.T) {
	planes := []gocv.Mat{gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 64, 64, gocv.MatTypeCV8UC1)}
	img, err := NewImage("x", planes, 1, 1)
	require.NoError(t, err)
	defer img.Close()
	img.Cal = Calibration{PixelWidth: 1, PixelHeight: 1, Unit: "um"}

	opts := ScaleBarOptions{
		Length:    10,
		Thickness: 4,
		Color:     color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Margin:    5,
	}
	require.NoError(t, img.DrawScaleBar(opts))

	// 10 um at 1 um/px = a 10 px bar ending at the margin.
	v := img.CurrentPlane().GetUCharAt(64-5-2, 64-5-2)
	assert.Equal(t, uint8(255), v)
}

func TestDrawTimeStampsRequiresInterval(t *testing.T) {
	img := grayImage(t, "x", 3, 64, 64, 0)
	defer img.Close()

	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	assert.Error(t, img.DrawTimeStamps(white))

	img.Cal.FrameInterval = 2
	assert.NoError(t, img.DrawTimeStamps(white))
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "0 s", formatElapsed(0))
	assert.Equal(t, "12.5 s", formatElapsed(12.5))
	assert.Equal(t, "02:05", formatElapsed(125))
}
