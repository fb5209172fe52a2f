package core

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestMontageRejectsSingleInput(t *testing.T) {
	a := grayImage(t, "a", 1, 100, 50, 1)
	defer a.Close()

	_, err := AssembleMontage("m", []*Image{a})
	assert.ErrorIs(t, err, ErrTooFewInputs)

	_, err = AssembleMontage("m", nil)
	assert.ErrorIs(t, err, ErrTooFewInputs)
}

func TestMontageDimensions(t *testing.T) {
	a := grayImage(t, "a", 1, 100, 60, 1)
	b := grayImage(t, "b", 1, 150, 60, 2)
	defer a.Close()
	defer b.Close()

	m, err := AssembleMontage("m", []*Image{a, b})
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, 250, m.Width())
	assert.Equal(t, 60, m.Height())
	assert.Equal(t, 1, m.NFrames())
	assert.Equal(t, 8, m.BitDepth())
}

func TestMontageHeightIsMax(t *testing.T) {
	a := grayImage(t, "a", 1, 40, 80, 1)
	b := grayImage(t, "b", 1, 60, 30, 2)
	defer a.Close()
	defer b.Close()

	m, err := AssembleMontage("m", []*Image{a, b})
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, 100, m.Width())
	assert.Equal(t, 80, m.Height())
}

func TestMontageCopiesBlocksExactly(t *testing.T) {
	a := grayImage(t, "a", 1, 30, 20, 5)
	b := grayImage(t, "b", 1, 25, 20, 9)
	defer a.Close()
	defer b.Close()

	m, err := AssembleMontage("m", []*Image{a, b})
	require.NoError(t, err)
	defer m.Close()

	left := m.FrameAt(0).Region(image.Rect(0, 0, 30, 20))
	right := m.FrameAt(0).Region(image.Rect(30, 0, 55, 20))
	defer left.Close()
	defer right.Close()

	assert.Equal(t, matBytes(t, a.FrameAt(0)), matBytes(t, left))
	assert.Equal(t, matBytes(t, b.FrameAt(0)), matBytes(t, right))
}

func TestMontageFramePadding(t *testing.T) {
	still := grayImage(t, "still", 1, 20, 20, 3)
	movie := grayImage(t, "movie", 3, 20, 20, 40)
	defer still.Close()
	defer movie.Close()

	m, err := AssembleMontage("m", []*Image{still, movie})
	require.NoError(t, err)
	defer m.Close()

	require.Equal(t, 3, m.NFrames())

	// Frames 2 and 3 repeat the still input's only frame in its region.
	region := image.Rect(0, 0, 20, 20)
	first := m.FrameAt(0).Region(region)
	frame1 := matBytes(t, first)
	first.Close()
	for f := 1; f < 3; f++ {
		r := m.FrameAt(f).Region(region)
		assert.Equal(t, frame1, matBytes(t, r), "frame %d should repeat the padded input", f+1)
		r.Close()
	}

	// The movie region advances per frame.
	for f := 0; f < 3; f++ {
		r := m.FrameAt(f).Region(image.Rect(20, 0, 40, 20))
		assert.Equal(t, matBytes(t, movie.FrameAt(f)), matBytes(t, r))
		r.Close()
	}
}

func TestMontageColorPromotion(t *testing.T) {
	gray := grayImage(t, "gray", 1, 10, 10, 1)
	defer gray.Close()

	colorPlane := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(10, 20, 30, 0), 10, 10, gocv.MatTypeCV8UC3)
	colored, err := NewImage("color", []gocv.Mat{colorPlane}, 1, 1)
	require.NoError(t, err)
	defer colored.Close()

	m, err := AssembleMontage("m", []*Image{gray, colored})
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, 24, m.BitDepth())
	assert.Equal(t, 20, m.Width())
}

func TestMontageCalibrationFromFirstInput(t *testing.T) {
	a := grayImage(t, "a", 2, 10, 10, 1)
	a.Cal = Calibration{PixelWidth: 0.5, PixelHeight: 0.5, Unit: "um", FrameInterval: 2, FPS: 0.5}
	b := grayImage(t, "b", 2, 10, 10, 2)
	b.Cal = Calibration{PixelWidth: 9, PixelHeight: 9, Unit: "mm"}
	defer a.Close()
	defer b.Close()

	m, err := AssembleMontage("m", []*Image{a, b})
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, a.Cal, m.Cal)
}

func TestAlignEndToEnd(t *testing.T) {
	// 2-channel 512x512 source: extract, merge both channels, then
	// align Ch1 next to the merge.
	s := testSession(t)
	src := multiChannelSource(t, "cells.tif", 2, 1, 512, 512)
	src.Cal = Calibration{PixelWidth: 0.65, PixelHeight: 0.65, Unit: "um"}
	s.SetSource(src)

	channels, err := s.ExtractChannels()
	require.NoError(t, err)
	require.Len(t, channels, 2)
	assert.Nil(t, s.Channel(2))
	assert.Nil(t, s.Channel(3))

	s.SetMergeFlag(0, true)
	s.SetMergeFlag(1, true)
	composite, err := s.MergeChannels(true)
	require.NoError(t, err)
	assert.Equal(t, 24, composite.BitDepth())
	assert.Equal(t, 512, composite.Width())
	assert.True(t, composite.Visible())

	montage, err := s.Align([]Selection{
		ParseSelection("Ch1"),
		ParseSelection("Merge"),
		ParseSelection("None"),
		ParseSelection("None"),
		ParseSelection("None"),
	})
	require.NoError(t, err)

	assert.Equal(t, 1024, montage.Width())
	assert.Equal(t, 512, montage.Height())
	assert.Equal(t, 24, montage.BitDepth())
	assert.True(t, montage.Visible())
}

func TestAlignTooFewSelections(t *testing.T) {
	s := testSession(t)
	src := multiChannelSource(t, "cells.tif", 2, 1, 32, 32)
	s.SetSource(src)
	_, err := s.ExtractChannels()
	require.NoError(t, err)

	_, err = s.Align([]Selection{
		ParseSelection("Ch1"),
		ParseSelection("None"),
	})
	assert.ErrorIs(t, err, ErrTooFewInputs)
}
