// Menu handler for application actions
package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/ttsunglin/Mittens/internal/core"
	"github.com/ttsunglin/Mittens/internal/io"
)

// MenuHandler handles menu actions
type MenuHandler struct {
	window  fyne.Window
	app     fyne.App
	session *core.Session
	loader  *io.Loader

	onImageLoaded func(string)
	onImageSaved  func(string)
}

func NewMenuHandler(window fyne.Window, app fyne.App, session *core.Session, loader *io.Loader) *MenuHandler {
	return &MenuHandler{
		window:  window,
		app:     app,
		session: session,
		loader:  loader,
	}
}

func (mh *MenuHandler) GetMainMenu() *fyne.MainMenu {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mh.openImage),
		fyne.NewMenuItem("Open Sequence...", mh.openSequence),
		fyne.NewMenuItem("Save Image...", mh.saveImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Exit", func() {
			mh.window.Close()
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mh.showAbout),
	)

	return fyne.NewMainMenu(fileMenu, helpMenu)
}

func (mh *MenuHandler) openImage() {
	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			mh.showError("File Dialog Error", err)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		path := reader.URI().Path()
		img, err := mh.loader.LoadImage(path)
		if err != nil {
			mh.showError("Failed to Load Image", err)
			return
		}

		mh.session.SetSource(img)
		if mh.onImageLoaded != nil {
			mh.onImageLoaded(path)
		}
	}, mh.window)

	imageFilter := storage.NewExtensionFileFilter(mh.loader.SupportedExtensions())
	fileDialog.SetFilter(imageFilter)
	fileDialog.Show()
}

// openSequence loads a directory of numbered frames as one time stack.
func (mh *MenuHandler) openSequence() {
	folderDialog := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			mh.showError("Folder Dialog Error", err)
			return
		}
		if uri == nil {
			return
		}

		dir := uri.Path()
		img, err := mh.loader.LoadSequence(dir)
		if err != nil {
			mh.showError("Failed to Load Sequence", err)
			return
		}

		mh.session.SetSource(img)
		if mh.onImageLoaded != nil {
			mh.onImageLoaded(dir)
		}
	}, mh.window)
	folderDialog.Show()
}

func (mh *MenuHandler) saveImage() {
	images := mh.session.VisibleImages()
	if len(images) == 0 {
		mh.showError("No Image", fmt.Errorf("no image open to save"))
		return
	}
	// Save the most recently created image; per-image saving goes
	// through the viewer selection and the tools panel.
	img := images[len(images)-1]

	fileDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			mh.showError("File Dialog Error", err)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()

		path := writer.URI().Path()
		if err := mh.loader.SaveImage(img, path); err != nil {
			mh.showError("Failed to Save Image", err)
			return
		}

		if mh.onImageSaved != nil {
			mh.onImageSaved(path)
		}
	}, mh.window)

	fileDialog.SetFileName(img.Title + ".png")
	imageFilter := storage.NewExtensionFileFilter(mh.loader.SupportedExtensions())
	fileDialog.SetFilter(imageFilter)
	fileDialog.Show()
}

func (mh *MenuHandler) showAbout() {
	content := container.NewVBox(
		widget.NewLabel("Mittens"),
		widget.NewSeparator(),
		widget.NewLabel("Microscopy figure preparation:"),
		widget.NewLabel("channel splitting and inversion,"),
		widget.NewLabel("false-color merging, montage alignment"),
		widget.NewLabel("and export helpers."),
		widget.NewSeparator(),
		widget.NewLabel("Built with Go, Fyne and OpenCV"),
	)

	aboutDialog := dialog.NewCustom("About", "Close", content, mh.window)
	aboutDialog.Resize(fyne.NewSize(400, 300))
	aboutDialog.Show()
}

func (mh *MenuHandler) showError(title string, err error) {
	dialog.ShowError(fmt.Errorf("%s: %w", title, err), mh.window)
}

func (mh *MenuHandler) SetCallbacks(onImageLoaded, onImageSaved func(string)) {
	mh.onImageLoaded = onImageLoaded
	mh.onImageSaved = onImageSaved
}
