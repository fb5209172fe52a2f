package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelForNone(t *testing.T) {
	s := testSession(t)

	img, err := s.ChannelFor(Selection{Kind: SelectNone})
	assert.NoError(t, err)
	assert.Nil(t, img)
}

func TestChannelForUnpopulatedEntry(t *testing.T) {
	s := testSession(t)
	s.SetSource(multiChannelSource(t, "cells.tif", 2, 1, 32, 32))
	_, err := s.ExtractChannels()
	require.NoError(t, err)

	img, err := s.ChannelFor(Selection{Kind: SelectChannel, Channel: 2})
	assert.NoError(t, err)
	assert.Nil(t, img, "channel 3 was never extracted")
}

func TestChannelForPopulatedEntry(t *testing.T) {
	s := testSession(t)
	src := multiChannelSource(t, "cells.tif", 2, 1, 32, 32)
	src.Cal = Calibration{PixelWidth: 0.2, PixelHeight: 0.2, Unit: "um"}
	s.SetSource(src)
	_, err := s.ExtractChannels()
	require.NoError(t, err)

	img, err := s.ChannelFor(Selection{Kind: SelectChannel, Channel: 0})
	require.NoError(t, err)
	require.NotNil(t, img)
	defer img.Close()

	assert.Equal(t, 16, img.BitDepth())
	assert.False(t, img.Visible(), "montage inputs stay hidden")
	assert.Equal(t, src.Cal.PixelWidth, img.Cal.PixelWidth)
	assert.Equal(t, src.Cal.Unit, img.Cal.Unit)
}

func TestChannelForFullRange(t *testing.T) {
	s := testSession(t)
	src := multiChannelSource(t, "movie.tif", 1, 4, 16, 16)
	src.Cal = Calibration{PixelWidth: 0.2, PixelHeight: 0.2, Unit: "um", FrameInterval: 3, FPS: 1}
	s.SetSource(src)
	s.SetTimeMode(true)
	_, err := s.ExtractChannels()
	require.NoError(t, err)

	img, err := s.ChannelFor(Selection{Kind: SelectChannel, Channel: 0})
	require.NoError(t, err)
	require.NotNil(t, img)
	defer img.Close()

	assert.Equal(t, 4, img.NFrames())
	assert.Equal(t, 3.0, img.Cal.FrameInterval)
}

func TestChannelForMerge(t *testing.T) {
	s := testSession(t)
	s.SetSource(multiChannelSource(t, "cells.tif", 2, 1, 32, 32))
	s.SetMergeFlag(0, true)

	img, err := s.ChannelFor(Selection{Kind: SelectMerge})
	require.NoError(t, err)
	require.NotNil(t, img)
	defer img.Close()

	assert.Equal(t, 24, img.BitDepth())
	assert.False(t, img.Visible())
}

func TestChannelForMergeWithoutSelection(t *testing.T) {
	// An unusable merge slot resolves to an empty slot.
	s := testSession(t)
	s.SetSource(multiChannelSource(t, "cells.tif", 2, 1, 32, 32))

	img, err := s.ChannelFor(Selection{Kind: SelectMerge})
	assert.NoError(t, err)
	assert.Nil(t, img)
}

func TestParseSelection(t *testing.T) {
	assert.Equal(t, Selection{Kind: SelectNone}, ParseSelection("None"))
	assert.Equal(t, Selection{Kind: SelectNone}, ParseSelection("bogus"))
	assert.Equal(t, Selection{Kind: SelectChannel, Channel: 0}, ParseSelection("Ch1"))
	assert.Equal(t, Selection{Kind: SelectChannel, Channel: 3}, ParseSelection("Ch4"))
	assert.Equal(t, Selection{Kind: SelectMerge}, ParseSelection("Merge"))

	for _, label := range SelectionOptions {
		assert.Equal(t, label, ParseSelection(label).String())
	}
}
