// Figure tools: brightness/contrast, scale bar, time stamps,
// properties and AVI export.
package gui

import (
	"fmt"
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/sirupsen/logrus"

	"github.com/ttsunglin/Mittens/internal/config"
	"github.com/ttsunglin/Mittens/internal/core"
	"github.com/ttsunglin/Mittens/internal/io"
)

// ToolsPanel offers the per-image figure tools. Every tool acts on the
// image currently selected in the viewer.
type ToolsPanel struct {
	session *core.Session
	loader  *io.Loader
	cfg     *config.Config
	window  fyne.Window
	logger  *logrus.Logger

	container *fyne.Container

	target   func() *core.Image
	onStatus func(string)
	onError  func(error)
}

func NewToolsPanel(session *core.Session, loader *io.Loader, cfg *config.Config, window fyne.Window, logger *logrus.Logger) *ToolsPanel {
	tp := &ToolsPanel{
		session: session,
		loader:  loader,
		cfg:     cfg,
		window:  window,
		logger:  logger,
	}
	tp.buildUI()
	return tp
}

func (tp *ToolsPanel) buildUI() {
	tp.container = container.NewVBox(
		widget.NewCard("Display", "", container.NewVBox(
			widget.NewButton("Brightness/Contrast...", tp.showBrightnessContrast),
		)),
		widget.NewCard("Annotations", "", container.NewVBox(
			widget.NewButton("Scale Bar...", tp.showScaleBar),
			widget.NewButton("Time Stamps", tp.drawTimeStamps),
		)),
		widget.NewCard("Image", "", container.NewVBox(
			widget.NewButton("Properties...", tp.showProperties),
			widget.NewButton("Export AVI...", tp.showExport),
		)),
	)
}

// GetContainer returns the panel's root container.
func (tp *ToolsPanel) GetContainer() fyne.CanvasObject {
	return tp.container
}

// SetTargetProvider registers the function yielding the image the
// tools act on.
func (tp *ToolsPanel) SetTargetProvider(fn func() *core.Image) { tp.target = fn }

// SetStatusCallback registers the status-line sink.
func (tp *ToolsPanel) SetStatusCallback(fn func(string)) { tp.onStatus = fn }

// SetErrorHandler registers the error dialog sink.
func (tp *ToolsPanel) SetErrorHandler(fn func(error)) { tp.onError = fn }

func (tp *ToolsPanel) targetImage() *core.Image {
	if tp.target == nil {
		return nil
	}
	return tp.target()
}

func (tp *ToolsPanel) showBrightnessContrast() {
	img := tp.targetImage()
	if img == nil {
		tp.fail(core.ErrNoImage)
		return
	}

	rangeMax := 255.0
	if img.BitDepth() == 16 {
		rangeMax = 65535.0
	}

	loSlider := widget.NewSlider(0, rangeMax)
	loSlider.SetValue(0)
	hiSlider := widget.NewSlider(0, rangeMax)
	hiSlider.SetValue(rangeMax)

	autoBtn := widget.NewButton("Auto", func() {
		if err := img.AutoWindow(); err != nil {
			tp.fail(err)
			return
		}
		tp.session.Touch(img)
		tp.status("Auto-adjusted " + img.Title)
	})

	content := container.NewVBox(
		widget.NewLabel("Minimum"),
		loSlider,
		widget.NewLabel("Maximum"),
		hiSlider,
		autoBtn,
	)

	dialog.ShowCustomConfirm("Brightness/Contrast", "Apply", "Cancel", content, func(ok bool) {
		if !ok {
			return
		}
		if err := img.ApplyWindow(loSlider.Value, hiSlider.Value); err != nil {
			tp.fail(err)
			return
		}
		tp.session.Touch(img)
		tp.status("Adjusted " + img.Title)
	}, tp.window)
}

func (tp *ToolsPanel) showScaleBar() {
	img := tp.targetImage()
	if img == nil {
		tp.fail(core.ErrNoImage)
		return
	}

	lengthEntry := widget.NewEntry()
	lengthEntry.SetText(strconv.FormatFloat(tp.cfg.ScaleBar.Length, 'g', -1, 64))
	thicknessEntry := widget.NewEntry()
	thicknessEntry.SetText(strconv.Itoa(tp.cfg.ScaleBar.Thickness))
	labelCheck := widget.NewCheck("Show label", nil)
	labelCheck.SetChecked(tp.cfg.ScaleBar.ShowLabel)

	items := []*widget.FormItem{
		widget.NewFormItem(fmt.Sprintf("Length (%s)", img.Cal.Unit), lengthEntry),
		widget.NewFormItem("Thickness (px)", thicknessEntry),
		widget.NewFormItem("", labelCheck),
	}

	dialog.ShowForm("Scale Bar", "Draw", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		length, err := strconv.ParseFloat(lengthEntry.Text, 64)
		if err != nil {
			tp.fail(fmt.Errorf("invalid length: %w", err))
			return
		}
		thickness, err := strconv.Atoi(thicknessEntry.Text)
		if err != nil {
			tp.fail(fmt.Errorf("invalid thickness: %w", err))
			return
		}
		opts := core.ScaleBarOptions{
			Length:    length,
			Thickness: thickness,
			Color:     hexToRGBA(tp.cfg.ScaleBar.Color),
			ShowLabel: labelCheck.Checked,
			Margin:    tp.cfg.ScaleBar.Margin,
		}
		if err := img.DrawScaleBar(opts); err != nil {
			tp.fail(err)
			return
		}
		tp.session.Touch(img)
		tp.status(fmt.Sprintf("Drew %g %s scale bar on %s", length, img.Cal.Unit, img.Title))
	}, tp.window)
}

func (tp *ToolsPanel) drawTimeStamps() {
	img := tp.targetImage()
	if img == nil {
		tp.fail(core.ErrNoImage)
		return
	}
	if err := img.DrawTimeStamps(hexToRGBA(tp.cfg.ScaleBar.Color)); err != nil {
		tp.fail(err)
		return
	}
	tp.session.Touch(img)
	tp.status("Drew time stamps on " + img.Title)
}

func (tp *ToolsPanel) showProperties() {
	img := tp.targetImage()
	if img == nil {
		tp.fail(core.ErrNoImage)
		return
	}

	pwEntry := widget.NewEntry()
	pwEntry.SetText(strconv.FormatFloat(img.Cal.PixelWidth, 'g', -1, 64))
	phEntry := widget.NewEntry()
	phEntry.SetText(strconv.FormatFloat(img.Cal.PixelHeight, 'g', -1, 64))
	unitEntry := widget.NewEntry()
	unitEntry.SetText(img.Cal.Unit)
	intervalEntry := widget.NewEntry()
	intervalEntry.SetText(strconv.FormatFloat(img.Cal.FrameInterval, 'g', -1, 64))
	fpsEntry := widget.NewEntry()
	fpsEntry.SetText(strconv.FormatFloat(img.Cal.FPS, 'g', -1, 64))

	items := []*widget.FormItem{
		widget.NewFormItem("Pixel width", pwEntry),
		widget.NewFormItem("Pixel height", phEntry),
		widget.NewFormItem("Unit", unitEntry),
		widget.NewFormItem("Frame interval (s)", intervalEntry),
		widget.NewFormItem("Frame rate (fps)", fpsEntry),
	}

	dialog.ShowForm("Properties: "+img.Title, "Apply", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		cal := img.Cal
		var err error
		if cal.PixelWidth, err = strconv.ParseFloat(pwEntry.Text, 64); err != nil {
			tp.fail(fmt.Errorf("invalid pixel width: %w", err))
			return
		}
		if cal.PixelHeight, err = strconv.ParseFloat(phEntry.Text, 64); err != nil {
			tp.fail(fmt.Errorf("invalid pixel height: %w", err))
			return
		}
		cal.Unit = unitEntry.Text
		if cal.FrameInterval, err = strconv.ParseFloat(intervalEntry.Text, 64); err != nil {
			tp.fail(fmt.Errorf("invalid frame interval: %w", err))
			return
		}
		if cal.FPS, err = strconv.ParseFloat(fpsEntry.Text, 64); err != nil {
			tp.fail(fmt.Errorf("invalid frame rate: %w", err))
			return
		}
		img.Cal = cal
		tp.session.Touch(img)
		tp.status("Updated properties of " + img.Title)
	}, tp.window)
}

func (tp *ToolsPanel) showExport() {
	img := tp.targetImage()
	if img == nil {
		tp.fail(core.ErrNoImage)
		return
	}

	saveDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			tp.fail(err)
			return
		}
		if writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		opts := io.ExportOptions{
			Codec: tp.cfg.Export.Codec,
			FPS:   tp.cfg.Export.FPS,
			Scale: tp.cfg.Export.Scale,
		}
		if err := tp.loader.ExportAVI(img, path, opts); err != nil {
			tp.fail(err)
			return
		}
		tp.status("Exported " + path)
	}, tp.window)
	saveDialog.SetFileName(img.Title + ".avi")
	saveDialog.SetFilter(storage.NewExtensionFileFilter([]string{".avi"}))
	saveDialog.Show()
}

func (tp *ToolsPanel) status(msg string) {
	if tp.onStatus != nil {
		tp.onStatus(msg)
	}
}

func (tp *ToolsPanel) fail(err error) {
	if tp.onError != nil {
		tp.onError(err)
	}
}

// hexToRGBA parses a config hex color, falling back to white.
func hexToRGBA(hex string) color.RGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
