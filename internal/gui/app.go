// Main application window wiring the workflow panels together.
package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/ttsunglin/Mittens/internal/config"
	"github.com/ttsunglin/Mittens/internal/core"
	"github.com/ttsunglin/Mittens/internal/io"
)

// Application represents the main window: a viewer in the center, the
// channel workflow on the left and the figure tools on the right.
type Application struct {
	app    fyne.App
	window fyne.Window
	logger *logrus.Logger
	cfg    *config.Config

	// Core components
	session *core.Session
	loader  *io.Loader

	// GUI components
	viewer      *Viewer
	workflow    *WorkflowPanel
	tools       *ToolsPanel
	menuHandler *MenuHandler

	mainContent *container.Split
	statusLabel *widget.Label
}

func NewApplication(app fyne.App, cfg *config.Config, logger *logrus.Logger) *Application {
	window := app.NewWindow("Mittens - Microscopy Figure Preparation")
	window.Resize(fyne.NewSize(1400, 900))
	window.CenterOnScreen()

	appInstance := &Application{
		app:    app,
		window: window,
		logger: logger,
		cfg:    cfg,
	}

	appInstance.initializeCore()
	appInstance.initializeGUI()
	appInstance.setupLayout()
	appInstance.setupCallbacks()

	return appInstance
}

func (a *Application) initializeCore() {
	a.session = core.NewSession(a.cfg, a.logger)
	a.loader = io.NewLoader(a.logger)
}

func (a *Application) initializeGUI() {
	a.viewer = NewViewer(a.session, a.logger)
	a.workflow = NewWorkflowPanel(a.session, a.window, a.logger)
	a.tools = NewToolsPanel(a.session, a.loader, a.cfg, a.window, a.logger)
	a.menuHandler = NewMenuHandler(a.window, a.app, a.session, a.loader)
	a.statusLabel = widget.NewLabel("Open an image to start")
}

func (a *Application) setupLayout() {
	left := container.NewScroll(a.workflow.GetContainer())
	right := container.NewScroll(a.tools.GetContainer())

	center := container.NewBorder(
		nil,           // top
		a.statusLabel, // bottom
		nil,           // left
		nil,           // right
		a.viewer.GetContainer(),
	)

	centerAndRight := container.NewHSplit(center, right)
	centerAndRight.SetOffset(0.78)

	a.mainContent = container.NewHSplit(left, centerAndRight)
	a.mainContent.SetOffset(0.18)

	a.window.SetMainMenu(a.menuHandler.GetMainMenu())
	a.window.SetContent(a.mainContent)
}

func (a *Application) setupCallbacks() {
	a.session.OnChange(func() {
		fyne.Do(func() {
			a.viewer.Refresh()
		})
	})

	a.workflow.SetStatusCallback(a.setStatus)
	a.tools.SetStatusCallback(a.setStatus)
	a.menuHandler.SetCallbacks(
		// onImageLoaded
		func(path string) {
			fyne.Do(func() {
				a.viewer.Refresh()
				a.setStatus("Loaded: " + path)
			})
		},
		// onImageSaved
		func(path string) {
			fyne.Do(func() {
				a.setStatus("Saved: " + path)
			})
		},
	)
	a.tools.SetTargetProvider(a.viewer.Selected)
	a.workflow.SetErrorHandler(a.showError)
	a.tools.SetErrorHandler(a.showError)
}

func (a *Application) setStatus(msg string) {
	fyne.Do(func() {
		a.statusLabel.SetText(msg)
	})
}

func (a *Application) showError(err error) {
	a.logger.WithError(err).Warn("Operation failed")
	dialog.ShowError(err, a.window)
}

// ShowAndRun shows the main window and runs the event loop.
func (a *Application) ShowAndRun() {
	a.window.SetOnClosed(func() {
		a.session.Close()
	})
	a.window.ShowAndRun()
}
