package client

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/batterybar/batterybar/pkg/events"
)

// serveUnix serves h on a fresh unix socket and returns its path.
func serveUnix(t *testing.T, h http.Handler) string {
	t.Helper()

	// t.TempDir can exceed the unix socket path limit on darwin.
	dir, err := os.MkdirTemp("", "bb")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	sock := filepath.Join(dir, "d.sock")
	l, err := net.Listen("unix", sock)
	require.NoError(t, err)

	srv := &http.Server{Handler: h, ReadHeaderTimeout: time.Second}
	go func() { _ = srv.Serve(l) }()
	t.Cleanup(func() { _ = srv.Close() })

	return sock
}

func TestClient_DaemonNotRunning(t *testing.T) {
	c := NewClient(filepath.Join(os.TempDir(), "batterybar-missing.sock"))
	_, err := c.GetStatus()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDaemonNotRunning)
}

func TestClient_GetStatusAndVersion(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"title":"↓ 2h5m (4%)","state":"Battery Power","percent":4,"cycles":3}`)
	})
	mux.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `"v1.2.3"`)
	})
	c := NewClient(serveUnix(t, mux))

	st, err := c.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "↓ 2h5m (4%)", st.Title)
	assert.Equal(t, 4.0, st.Percent)
	assert.Equal(t, 3, st.Cycles)

	v, err := c.GetVersion()
	require.NoError(t, err)
	assert.Equal(t, "v1.2.3", v)

	_, err = c.GetConfig()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_ServerError(t *testing.T) {
	sock := serveUnix(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := NewClient(sock).Get("/status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got 500")
}

func TestClient_SubscribeEvents(t *testing.T) {
	sock := serveUnix(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event:battery.low\ndata:{\"percent\":4,\"threshold\":5}\n\n")
		fmt.Fprint(w, "event:battery.recovered\ndata:{\"percent\":6,\"threshold\":5}\n\n")
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ch := NewClient(sock).SubscribeEvents(ctx)

	ev := <-ch
	assert.Equal(t, events.BatteryLow, ev.Name)
	payload, err := events.DecodeAs[events.ThresholdEvent](ev)
	require.NoError(t, err)
	assert.Equal(t, 4.0, payload.Percent)

	ev = <-ch
	assert.Equal(t, events.BatteryRecovered, ev.Name)

	cancel()
	for range ch {
	}
}

func TestParseSSE(t *testing.T) {
	in := strings.Join([]string{
		": comment",
		"event: a",
		"data: 1",
		"",
		"",
		"data: 2",
		"data: 3",
		"",
		"event: trailing",
	}, "\n")

	var got []events.Event
	for ev := range parseSSE(bufio.NewScanner(strings.NewReader(in))) {
		got = append(got, ev)
	}

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, "1", string(got[0].Data))
	assert.Equal(t, "", got[1].Name)
	assert.Equal(t, "2\n3", string(got[1].Data))
}
