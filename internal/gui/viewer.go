// Viewer: open-image list, display canvas and frame slider.
package gui

import (
	"fmt"
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/ttsunglin/Mittens/internal/core"
)

// Viewer lists the session's visible images and displays the selected
// one, with a slider over its time frames.
type Viewer struct {
	session *core.Session
	logger  *logrus.Logger

	list        *widget.List
	canvasImage *canvas.Image
	frameSlider *widget.Slider
	frameLabel  *widget.Label
	closeBtn    *widget.Button
	container   *fyne.Container

	images   []*core.Image
	selected int
}

func NewViewer(session *core.Session, logger *logrus.Logger) *Viewer {
	v := &Viewer{
		session:  session,
		logger:   logger,
		selected: -1,
	}
	v.buildUI()
	return v
}

func (v *Viewer) buildUI() {
	v.list = widget.NewList(
		func() int { return len(v.images) },
		func() fyne.CanvasObject { return widget.NewLabel("image") },
		func(i widget.ListItemID, obj fyne.CanvasObject) {
			if i < 0 || i >= len(v.images) {
				return
			}
			img := v.images[i]
			obj.(*widget.Label).SetText(fmt.Sprintf("%s (%dx%d, %d-bit, %d frames)",
				img.Title, img.Width(), img.Height(), img.BitDepth(), img.NFrames()))
		},
	)
	v.list.OnSelected = func(i widget.ListItemID) {
		v.selected = i
		v.updateFrameControls()
		v.updateCanvas()
	}

	v.canvasImage = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	v.canvasImage.FillMode = canvas.ImageFillContain
	v.canvasImage.SetMinSize(fyne.NewSize(512, 512))

	v.frameSlider = widget.NewSlider(0, 0)
	v.frameSlider.Step = 1
	v.frameSlider.OnChanged = func(val float64) {
		img := v.Selected()
		if img == nil {
			return
		}
		z, _ := img.Position()
		img.SetPosition(z, int(val))
		_, t := img.Position()
		v.frameLabel.SetText(fmt.Sprintf("T %d/%d", t+1, img.NFrames()))
		v.updateCanvas()
	}
	v.frameLabel = widget.NewLabel("T 1/1")

	v.closeBtn = widget.NewButton("Close Image", func() {
		if img := v.Selected(); img != nil {
			v.session.CloseImage(img)
		}
	})

	frameRow := container.NewBorder(nil, nil, v.frameLabel, nil, v.frameSlider)
	listCard := widget.NewCard("Open Images", "", container.NewBorder(nil, v.closeBtn, nil, nil, v.list))

	split := container.NewHSplit(
		listCard,
		container.NewBorder(nil, frameRow, nil, nil, v.canvasImage),
	)
	split.SetOffset(0.28)

	v.container = container.NewStack(split)
}

// GetContainer returns the viewer's root container.
func (v *Viewer) GetContainer() fyne.CanvasObject {
	return v.container
}

// Selected returns the image currently picked in the list, nil when
// none.
func (v *Viewer) Selected() *core.Image {
	if v.selected < 0 || v.selected >= len(v.images) {
		return nil
	}
	return v.images[v.selected]
}

// Refresh re-reads the session's visible images and redraws.
func (v *Viewer) Refresh() {
	v.images = v.session.VisibleImages()
	if v.selected >= len(v.images) {
		v.selected = len(v.images) - 1
	}
	if v.selected < 0 && len(v.images) > 0 {
		v.selected = 0
	}
	v.list.Refresh()
	v.updateFrameControls()
	v.updateCanvas()
}

func (v *Viewer) updateFrameControls() {
	img := v.Selected()
	if img == nil || img.NFrames() <= 1 {
		v.frameSlider.Max = 0
		v.frameSlider.SetValue(0)
		v.frameLabel.SetText("T 1/1")
		return
	}
	_, t := img.Position()
	v.frameSlider.Max = float64(img.NFrames() - 1)
	v.frameSlider.SetValue(float64(t))
	v.frameLabel.SetText(fmt.Sprintf("T %d/%d", t+1, img.NFrames()))
}

func (v *Viewer) updateCanvas() {
	img := v.Selected()
	if img == nil {
		v.canvasImage.Image = image.NewRGBA(image.Rect(0, 0, 1, 1))
		v.canvasImage.Refresh()
		return
	}
	display, err := img.ToDisplayImage()
	if err != nil {
		v.logger.WithError(err).Warn("Cannot render image")
		return
	}
	v.canvasImage.Image = display
	v.canvasImage.Refresh()
}
