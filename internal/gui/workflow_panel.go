// Workflow panel: channel splitting, merging and alignment controls.
package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/ttsunglin/Mittens/internal/core"
)

// alignSlots is the number of alignment drop-downs offered.
const alignSlots = 5

// WorkflowPanel holds the split / merge / align controls.
type WorkflowPanel struct {
	session *core.Session
	window  fyne.Window
	logger  *logrus.Logger

	timeCheck    *widget.Check
	splitBtn     *widget.Button
	mergeChecks  [core.MaxChannels]*widget.Check
	mergeBtn     *widget.Button
	alignSelects [alignSlots]*widget.Select
	alignBtn     *widget.Button

	container *fyne.Container

	onStatus func(string)
	onError  func(error)
}

func NewWorkflowPanel(session *core.Session, window fyne.Window, logger *logrus.Logger) *WorkflowPanel {
	wp := &WorkflowPanel{
		session: session,
		window:  window,
		logger:  logger,
	}
	wp.buildUI()
	return wp
}

func (wp *WorkflowPanel) buildUI() {
	wp.timeCheck = widget.NewCheck("All time frames", func(on bool) {
		wp.session.SetTimeMode(on)
	})

	wp.splitBtn = widget.NewButton("Split Channels", wp.onSplit)
	splitCard := widget.NewCard("Channels", "", container.NewVBox(
		wp.timeCheck,
		wp.splitBtn,
	))

	mergeBox := container.NewVBox()
	for i := range wp.mergeChecks {
		ch := i
		wp.mergeChecks[i] = widget.NewCheck(fmt.Sprintf("Ch%d", i+1), func(on bool) {
			wp.session.SetMergeFlag(ch, on)
		})
		mergeBox.Add(wp.mergeChecks[i])
	}
	wp.mergeBtn = widget.NewButton("Merge", wp.onMerge)
	mergeBox.Add(wp.mergeBtn)
	mergeCard := widget.NewCard("Merge", "", mergeBox)

	alignBox := container.NewVBox()
	for i := range wp.alignSelects {
		wp.alignSelects[i] = widget.NewSelect(core.SelectionOptions, nil)
		wp.alignSelects[i].SetSelected("None")
		alignBox.Add(wp.alignSelects[i])
	}
	wp.alignBtn = widget.NewButton("Align", wp.onAlign)
	alignBox.Add(wp.alignBtn)
	alignCard := widget.NewCard("Alignment", "left to right", alignBox)

	wp.container = container.NewVBox(splitCard, mergeCard, alignCard)
}

// GetContainer returns the panel's root container.
func (wp *WorkflowPanel) GetContainer() fyne.CanvasObject {
	return wp.container
}

// SetStatusCallback registers the status-line sink.
func (wp *WorkflowPanel) SetStatusCallback(fn func(string)) { wp.onStatus = fn }

// SetErrorHandler registers the error dialog sink.
func (wp *WorkflowPanel) SetErrorHandler(fn func(error)) { wp.onError = fn }

func (wp *WorkflowPanel) onSplit() {
	channels, err := wp.session.ExtractChannels()
	if err != nil {
		wp.fail(err)
		return
	}
	if wp.session.ChannelsFullRange() {
		wp.status(fmt.Sprintf("Extracted %d channels across all frames", len(channels)))
	} else {
		wp.status(fmt.Sprintf("Extracted %d channels", len(channels)))
	}
}

func (wp *WorkflowPanel) onMerge() {
	composite, err := wp.session.MergeChannels(true)
	if err != nil {
		wp.fail(err)
		return
	}
	wp.status("Created " + composite.Title)
}

func (wp *WorkflowPanel) onAlign() {
	slots := make([]core.Selection, 0, alignSlots)
	for _, sel := range wp.alignSelects {
		slots = append(slots, core.ParseSelection(sel.Selected))
	}
	montage, err := wp.session.Align(slots)
	if err != nil {
		wp.fail(err)
		return
	}
	wp.status(fmt.Sprintf("Created %s (%dx%d, %d frames)",
		montage.Title, montage.Width(), montage.Height(), montage.NFrames()))
}

func (wp *WorkflowPanel) status(msg string) {
	if wp.onStatus != nil {
		wp.onStatus(msg)
	}
}

func (wp *WorkflowPanel) fail(err error) {
	if wp.onError != nil {
		wp.onError(err)
	}
}
