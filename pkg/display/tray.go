package display

import (
	"github.com/getlantern/systray"
	"github.com/sirupsen/logrus"
)

const (
	loadingTitle = "…"
	tooltip      = "batterybar - battery status"
)

var _ Display = &Tray{}

// Tray shows the label as the title of a status bar item.
type Tray struct {
	mStatus *systray.MenuItem
	mQuit   *systray.MenuItem
}

// RunTray shows the status item and blocks until Quit is called or the
// Quit menu item is clicked. onReady is called once the tray can be used;
// onExit is called before RunTray returns. Must be called from the main
// goroutine with the OS thread locked.
func RunTray(onReady func(t *Tray), onExit func()) {
	systray.Run(func() {
		systray.SetTitle(loadingTitle)
		systray.SetTooltip(tooltip)

		t := &Tray{}
		t.mStatus = systray.AddMenuItem("Status: Loading...", "Current power source status")
		t.mStatus.Disable()
		systray.AddSeparator()
		t.mQuit = systray.AddMenuItem("Quit", "Quit batterybar")

		go func() {
			<-t.mQuit.ClickedCh
			logrus.Info("quit clicked")
			systray.Quit()
		}()

		onReady(t)
	}, onExit)
}

// Quit removes the status item and makes RunTray return.
func Quit() {
	systray.Quit()
}

func (t *Tray) SetLabel(text string) {
	systray.SetTitle(text)
}

// SetStatus updates the disabled status line in the menu.
func (t *Tray) SetStatus(text string) {
	t.mStatus.SetTitle("Status: " + text)
}
