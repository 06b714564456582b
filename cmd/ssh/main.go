package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/tomz197/clack/internal/anim"
	"github.com/tomz197/clack/internal/config"
	"github.com/tomz197/clack/internal/draw"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	defaultMaxEvents   = 10_000_000 // caps the power at 6
	defaultCacheSize   = 4
	defaultMaxSession  = time.Hour
)

func main() {
	config.Load()
	logger := config.NewLogger("ssh")

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	divisor := config.GetEnvFloat(config.EnvTimeDivisor, anim.DefaultTimeDivisor)
	maxSession := config.GetEnvDuration("SSH_MAX_SESSION", defaultMaxSession)
	cache := newTimelineCache(
		config.GetEnvInt(config.EnvMaxEvents, defaultMaxEvents),
		config.GetEnvInt("CLACK_CACHE_SIZE", defaultCacheSize),
	)
	logger.Info("ssh config", "host", host, "port", port, "hostKeyPath", hostKeyPath,
		"divisor", divisor, "maxSession", maxSession)

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			animMiddleware(logger, cache, divisor),
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY so frames are not held back by Nagle
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if maxSession > 0 {
		opts = append(opts, wish.WithMaxTimeout(maxSession))
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting ssh server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// animMiddleware plays the collision animation for the power named by the
// session command (ssh -t host 4), or CLACK_POWER when there is none.
func animMiddleware(logger *log.Logger, cache *timelineCache, divisor float64) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			power, ok := config.PowerFromArgs(sess.Command())
			if !ok {
				power = config.DefaultEnvPower()
			}
			logger.Info("new session", "user", sess.User(), "term", pty.Term,
				"width", pty.Window.Width, "height", pty.Window.Height, "power", power)

			tl, err := cache.get(sess.Context(), power)
			if err != nil {
				logger.Warn("simulation failed", "user", sess.User(), "power", power, "err", err)
				fmt.Fprintf(sess, "Power %d could not be simulated: %v\r\n", power, err)
				return
			}

			sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
			go func() {
				for win := range winCh {
					sizeTracker.update(win.Width, win.Height)
				}
			}()

			player := anim.NewPlayer(tl, bufio.NewReader(sess), sess, anim.Options{
				Power:        power,
				TimeDivisor:  divisor,
				TermSizeFunc: sizeTracker.getSize,
			})
			if err := player.Run(sess.Context()); err != nil {
				logger.Warn("animation error", "user", sess.User(), "err", err)
			}

			logger.Info("session ended", "user", sess.User())
			next(sess)
		}
	}
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
