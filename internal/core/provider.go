// Hidden 16-bit montage inputs resolved from alignment selections.
package core

// ChannelFor resolves one alignment selection into a hidden image
// suitable as montage input, or nil when the selection resolves to
// nothing. A channel selection duplicates the Channel Set entry (full
// time range in time mode when the entry has more than one frame),
// promotes the duplicate to 16-bit and copies calibration from the
// source image. A merge selection runs the merger with the result kept
// hidden. The returned image is never shown; the caller owns it and
// must close it once the montage has copied its pixels.
func (s *Session) ChannelFor(sel Selection) (*Image, error) {
	switch sel.Kind {
	case SelectMerge:
		img, err := s.MergeChannels(false)
		if err == ErrNoChannelsSelected || err == ErrNoImage {
			// An unusable merge slot is an empty slot, not a failure.
			return nil, nil
		}
		return img, err

	case SelectChannel:
		entry := s.Channel(sel.Channel)
		if entry == nil || entry.Closed() {
			return nil, nil
		}
		allFrames := s.TimeMode() && entry.NFrames() > 1
		dup := entry.Duplicate(sel.String()+"-aligned", allFrames)
		dup.Promote16()
		if src := s.Source(); src != nil {
			dup.Cal.CopySpatialFrom(src.Cal)
			if allFrames {
				dup.Cal.CopyTemporalFrom(src.Cal)
			}
		}
		dup.Hide()
		return dup, nil

	default:
		return nil, nil
	}
}
