// Package notify raises the low battery alert: a desktop notification and a
// spoken announcement, both run as external commands.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/batterybar/batterybar/pkg/title"
)

const (
	// Title is the title of the desktop notification.
	Title = "batterybar"
	// Voice is the voice used for the spoken announcement.
	Voice = "Yuna"
	// Rate is the speech rate in words per minute.
	Rate = 160

	defaultTimeout = 10 * time.Second
)

// ErrExternalInvocationFailed matches every InvocationError.
var ErrExternalInvocationFailed = errors.New("external invocation failed")

// InvocationError is returned when a notification or speech command fails.
type InvocationError struct {
	Command string
	Err     error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Command, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

func (e *InvocationError) Is(target error) bool {
	return target == ErrExternalInvocationFailed
}

// Runner runs an external command to completion.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(out.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// Options selects which alerts are raised.
type Options struct {
	Visual bool
	Spoken bool
}

// Notifier raises low battery alerts.
type Notifier struct {
	runner  Runner
	timeout time.Duration
}

// New returns a Notifier running commands with runner. A nil runner uses
// ExecRunner.
func New(runner Runner) *Notifier {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Notifier{
		runner:  runner,
		timeout: defaultTimeout,
	}
}

// Message is the text of the desktop notification.
func Message(percent float64) string {
	return fmt.Sprintf("Battery at %s%%", title.Percent(percent))
}

// SpokenMessage is the text read aloud.
func SpokenMessage(percent float64) string {
	return fmt.Sprintf("배터리가 %s%% 입니다", title.Percent(percent))
}

// Notify raises both the visual and the spoken alert.
func (n *Notifier) Notify(ctx context.Context, percent float64) error {
	return n.NotifyWith(ctx, percent, Options{Visual: true, Spoken: true})
}

// NotifyWith raises the alerts selected by opts. Each command is bounded by
// a timeout, and a failing command does not prevent the other from running.
func (n *Notifier) NotifyWith(ctx context.Context, percent float64, opts Options) error {
	var errs []error

	if opts.Visual {
		name, args := notificationCommand(Message(percent), Title)
		errs = append(errs, n.run(ctx, name, args))
	}
	if opts.Spoken {
		name, args := speechCommand(SpokenMessage(percent), Voice, Rate)
		errs = append(errs, n.run(ctx, name, args))
	}

	return errors.Join(errs...)
}

func (n *Notifier) run(ctx context.Context, name string, args []string) error {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"command": name,
		"args":    args,
	}).Debug("running notification command")

	if err := n.runner.Run(ctx, name, args...); err != nil {
		return &InvocationError{Command: name, Err: err}
	}
	return nil
}
