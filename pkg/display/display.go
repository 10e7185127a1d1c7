// Package display publishes the status title. Tray shows it in the menubar
// (or system tray), Log writes it to the log for headless hosts.
package display

import (
	"github.com/sirupsen/logrus"
)

// Display shows the current status title.
type Display interface {
	// SetLabel replaces the label. It is called once per poll cycle.
	SetLabel(text string)
}

// Func adapts a function to Display.
type Func func(text string)

func (f Func) SetLabel(text string) { f(text) }

// Log is a Display that logs the label whenever it changes.
type Log struct {
	last string
}

func NewLog() *Log {
	return &Log{}
}

func (l *Log) SetLabel(text string) {
	if text == l.last {
		logrus.WithField("label", text).Trace("label unchanged")
		return
	}
	logrus.WithField("label", text).Info("label changed")
	l.last = text
}

// Label returns the last label set.
func (l *Log) Label() string {
	return l.last
}
