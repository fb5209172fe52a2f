// Workflow session state with thread-safe accessors.
package core

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ttsunglin/Mittens/internal/config"
)

// Session owns all workflow state: the source image, the channel set
// populated by extraction, the merge checkbox state, the time-range
// mode and the registry of open images the viewer lists. Every
// operation takes its inputs from here instead of ambient globals, so
// two actions triggered out of the expected order cannot trample each
// other's state.
type Session struct {
	mu     sync.RWMutex
	logger *logrus.Logger
	cfg    *config.Config

	source *Image

	// channels is the Channel Set: index = channel number - 1, nil
	// where the source has no such channel. fullRange records whether
	// the set was extracted across the whole time range.
	channels  [MaxChannels]*Image
	fullRange bool

	mergeFlags [MaxChannels]bool
	timeMode   bool

	open []*Image

	onChange func()
}

// NewSession creates an empty workflow session.
func NewSession(cfg *config.Config, logger *logrus.Logger) *Session {
	return &Session{
		cfg:    cfg,
		logger: logger,
	}
}

// OnChange registers a callback invoked after any mutation the viewer
// should reflect. Used by the GUI; nil is allowed.
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Session) notify() {
	s.mu.RLock()
	fn := s.onChange
	s.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// SetSource installs a new source image, registers it and shows it.
// The previous source stays open; the user closes images explicitly.
func (s *Session) SetSource(img *Image) {
	s.mu.Lock()
	s.source = img
	s.mu.Unlock()
	if img != nil {
		img.Show()
		s.Register(img)
	}
	s.notify()
}

// Source returns the current source image, nil when none is open.
func (s *Session) Source() *Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// Channel returns the Channel Set entry for the 0-based index, nil
// when extraction left it empty.
func (s *Session) Channel(i int) *Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= MaxChannels {
		return nil
	}
	return s.channels[i]
}

// SetMergeFlag records one merge checkbox.
func (s *Session) SetMergeFlag(i int, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i >= 0 && i < MaxChannels {
		s.mergeFlags[i] = on
	}
}

// MergeFlags returns the merge checkbox state.
func (s *Session) MergeFlags() [MaxChannels]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mergeFlags
}

// ChannelsFullRange reports whether the Channel Set was extracted
// across the whole time range (as opposed to the current frame only).
func (s *Session) ChannelsFullRange() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fullRange
}

// SetTimeMode switches between current-frame and full-time-range
// processing.
func (s *Session) SetTimeMode(on bool) {
	s.mu.Lock()
	s.timeMode = on
	s.mu.Unlock()
}

// TimeMode reports whether operations act on the full time range.
func (s *Session) TimeMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeMode
}

// Register adds an image to the open-image registry if not present.
func (s *Session) Register(img *Image) {
	if img == nil {
		return
	}
	s.mu.Lock()
	for _, o := range s.open {
		if o == img {
			s.mu.Unlock()
			return
		}
	}
	s.open = append(s.open, img)
	s.mu.Unlock()
	s.notify()
}

// Touch reports an in-place pixel or calibration edit on an open
// image so the viewer redraws it. Register stays silent for images it
// already holds, so tools that mutate a selected image call this.
func (s *Session) Touch(img *Image) {
	if img == nil {
		return
	}
	s.notify()
}

// CloseImage closes an image and drops it from the registry and from
// any session slot still referencing it.
func (s *Session) CloseImage(img *Image) {
	if img == nil {
		return
	}
	s.mu.Lock()
	for i, o := range s.open {
		if o == img {
			s.open = append(s.open[:i], s.open[i+1:]...)
			break
		}
	}
	if s.source == img {
		s.source = nil
	}
	for i := range s.channels {
		if s.channels[i] == img {
			s.channels[i] = nil
		}
	}
	s.mu.Unlock()
	img.Close()
	s.notify()
}

// OpenImages returns a snapshot of the registry.
func (s *Session) OpenImages() []*Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Image, len(s.open))
	copy(out, s.open)
	return out
}

// VisibleImages returns the registered images the viewer should list.
func (s *Session) VisibleImages() []*Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Image
	for _, o := range s.open {
		if o.Visible() {
			out = append(out, o)
		}
	}
	return out
}

// Close releases every registered image and resets the session.
func (s *Session) Close() {
	s.mu.Lock()
	open := s.open
	s.open = nil
	s.source = nil
	s.channels = [MaxChannels]*Image{}
	s.mu.Unlock()
	for _, img := range open {
		img.Close()
	}
}

func (s *Session) setChannels(set [MaxChannels]*Image, fullRange bool) {
	s.mu.Lock()
	s.channels = set
	s.fullRange = fullRange
	s.mu.Unlock()
}
