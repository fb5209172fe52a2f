package core

import "errors"

// Sentinel errors for user-input failures. The GUI layer maps these
// onto blocking dialogs; every operation returning one guarantees it
// produced no partial output and released its intermediates.
var (
	// ErrNoImage is returned when an operation needs a source image
	// and the session has none.
	ErrNoImage = errors.New("no image open")

	// ErrNoChannelsSelected is returned by the merger when none of the
	// channel checkboxes is ticked.
	ErrNoChannelsSelected = errors.New("no channels selected for merge")

	// ErrTooFewInputs is returned by the montage assembler when fewer
	// than two images were gathered.
	ErrTooFewInputs = errors.New("montage needs at least 2 images")
)
