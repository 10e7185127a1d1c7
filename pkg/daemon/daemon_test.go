package daemon

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/batterybar/batterybar/pkg/config"
	"github.com/batterybar/batterybar/pkg/notify"
)

type fakeConfig struct {
	speak, notify bool
}

var _ config.Config = &fakeConfig{}

func (c *fakeConfig) AllowNonRootAccess() bool { return false }
func (c *fakeConfig) Headless() bool { return true }
func (c *fakeConfig) Speak() bool { return c.speak }
func (c *fakeConfig) Notify() bool { return c.notify }
func (c *fakeConfig) SetAllowNonRootAccess(bool) {}
func (c *fakeConfig) SetHeadless(bool) {}
func (c *fakeConfig) SetSpeak(b bool) { c.speak = b }
func (c *fakeConfig) SetNotify(b bool) { c.notify = b }
func (c *fakeConfig) Load() error { return nil }
func (c *fakeConfig) Save() error { return nil }

// commandRecorder records the joined argument lists of the commands run.
type commandRecorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *commandRecorder) Run(_ context.Context, name string, args ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name+" "+strings.Join(args, " "))
	return nil
}

func (r *commandRecorder) ran(text string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.calls {
		if strings.Contains(c, text) {
			return true
		}
	}
	return false
}

func TestConfiguredNotifier(t *testing.T) {
	tests := []struct {
		name       string
		notify     bool
		speak      bool
		wantVisual bool
		wantSpoken bool
	}{
		{name: "both", notify: true, speak: true, wantVisual: true, wantSpoken: true},
		{name: "visual only", notify: true, speak: false, wantVisual: true},
		{name: "spoken only", notify: false, speak: true, wantSpoken: true},
		{name: "muted", notify: false, speak: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &commandRecorder{}
			n := &configuredNotifier{
				n:    notify.New(r),
				conf: &fakeConfig{notify: tt.notify, speak: tt.speak},
			}

			require.NoError(t, n.Notify(context.Background(), 4))

			assert.Equal(t, tt.wantVisual, r.ran(notify.Message(4)))
			assert.Equal(t, tt.wantSpoken, r.ran(notify.SpokenMessage(4)))
		})
	}
}

func TestConfiguredNotifier_ReadsConfigPerAlert(t *testing.T) {
	conf := &fakeConfig{notify: true, speak: true}
	r := &commandRecorder{}
	n := &configuredNotifier{n: notify.New(r), conf: conf}

	conf.SetSpeak(false)
	require.NoError(t, n.Notify(context.Background(), 3))

	assert.True(t, r.ran(notify.Message(3)))
	assert.False(t, r.ran(notify.SpokenMessage(3)))
}
