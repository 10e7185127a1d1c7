package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/batterybar/batterybar/pkg/config"
	"github.com/batterybar/batterybar/pkg/display"
	"github.com/batterybar/batterybar/pkg/events"
	"github.com/batterybar/batterybar/pkg/notify"
	"github.com/batterybar/batterybar/pkg/powersource"
)

// configuredNotifier raises only the alerts enabled in the config. The
// config is read on every alert so a SIGHUP reload applies immediately.
type configuredNotifier struct {
	n    *notify.Notifier
	conf config.Config
}

func (c *configuredNotifier) Notify(ctx context.Context, percent float64) error {
	return c.n.NotifyWith(ctx, percent, notify.Options{
		Visual: c.conf.Notify(),
		Spoken: c.conf.Speak(),
	})
}

// Run starts the daemon and blocks until it receives SIGINT or SIGTERM, or
// until Quit is clicked in the menubar.
func Run(configPath string, unixSocketPath string, allowNonRoot bool) error {
	conf, err := config.NewFile(configPath)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to parse config during startup")
	}
	logrus.WithFields(conf.LogrusFields()).Infof("config loaded")

	// Receive SIGHUP to reload config
	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGHUP)
		for range sigc {
			err := conf.Load()
			if err != nil {
				logrus.Errorf("failed to reload config: %v", err)
				continue
			}
			logrus.WithFields(conf.LogrusFields()).Infof("config reloaded")
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := NewMetrics(reg)
	hub := events.NewEventHub()
	status := NewStatusStore()

	srv := &http.Server{
		Handler: setupRoutes(&server{
			status:   status,
			hub:      hub,
			conf:     conf,
			gatherer: reg,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// A socket left behind by a crashed daemon makes Listen fail.
	if _, err := os.Stat(unixSocketPath); err == nil {
		logrus.Warnf("removing stale socket %s", unixSocketPath)
		if err := os.Remove(unixSocketPath); err != nil {
			return pkgerrors.Wrapf(err, "failed to remove stale socket %s", unixSocketPath)
		}
	}

	l, err := net.Listen("unix", unixSocketPath)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to listen on %s", unixSocketPath)
	}

	if conf.AllowNonRootAccess() || allowNonRoot {
		logrus.Infof("non-root access is allowed, changing permissions of %s to 0777", unixSocketPath)
		err = os.Chmod(unixSocketPath, 0777)
		if err != nil {
			return pkgerrors.Wrapf(err, "failed to chmod %s", unixSocketPath)
		}
	}

	// Serve HTTP on unix socket
	go func() {
		logrus.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Errorf("http server failed: %v", err)
		}
	}()

	reader := powersource.NewReader(powersource.NewBatterySource())
	notifier := &configuredNotifier{n: notify.New(nil), conf: conf}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	headless := conf.Headless()

	// Handle common process-killing signals, so we can gracefully shut down:
	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigc)
		select {
		case sig := <-sigc:
			logrus.Infof("caught signal \"%s\": shutting down.", sig)
			cancel()
			if !headless {
				display.Quit()
			}
		case <-ctx.Done():
		}
	}()

	loopWg := &sync.WaitGroup{}
	startLoop := func(d display.Display) {
		loop := NewLoop(reader, d, notifier, LoopOptions{
			Status:  status,
			Hub:     hub,
			Metrics: metrics,
		})
		loopWg.Add(1)
		go func() {
			defer loopWg.Done()
			loop.Run(ctx)
		}()
	}

	if headless {
		logrus.Info("running headless, labels are written to the log")
		startLoop(display.NewLog())
		<-ctx.Done()
	} else {
		// Blocks until Quit.
		display.RunTray(func(t *display.Tray) {
			startLoop(t)
		}, cancel)
		cancel()
	}

	loopWg.Wait()

	// End event streams, otherwise Shutdown waits for their clients.
	hub.Close()

	logrus.Info("shutting down http server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		logrus.Errorf("failed to shutdown http server: %v", err)
	}
	shutdownCancel()

	logrus.Info("exiting")
	return nil
}
