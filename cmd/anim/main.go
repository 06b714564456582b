package main

import (
	"bufio"
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomz197/clack/internal/anim"
	"github.com/tomz197/clack/internal/collide"
	"github.com/tomz197/clack/internal/config"
	"golang.org/x/term"
)

func main() {
	config.Load()
	logger := config.NewLogger("anim")

	maxEvents := flag.Int("max-events", config.GetEnvInt(config.EnvMaxEvents, 0), "stop with an error after this many collisions (0 = no limit)")
	divisor := flag.Float64("divisor", config.GetEnvFloat(config.EnvTimeDivisor, anim.DefaultTimeDivisor), "real seconds per simulated second")
	flag.Parse()

	power, ok := config.PowerFromArgs(flag.Args())
	if !ok {
		power = config.DefaultEnvPower()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := collide.Run(ctx, collide.Options{Power: power, MaxEvents: *maxEvents})
	if err != nil {
		logger.Error("simulation failed", "power", power, "err", err)
		stop()
		os.Exit(1)
	}
	logger.Info("simulation finished", "power", power, "collisions", res.Collisions)

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		logger.Error("failed to enable raw mode", "err", err)
		stop()
		os.Exit(1)
	}

	player := anim.NewPlayer(res.Timeline, bufio.NewReader(os.Stdin), os.Stdout, anim.Options{
		Power:       power,
		TimeDivisor: *divisor,
	})
	runErr := player.Run(ctx)
	_ = term.Restore(fd, oldState)

	if runErr != nil {
		logger.Error("animation error", "err", runErr)
		stop()
		os.Exit(1)
	}
}
