package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomz197/clack/internal/collide"
	"github.com/tomz197/clack/internal/config"
	"github.com/tomz197/clack/internal/report"
)

func main() {
	config.Load()
	logger := config.NewLogger("collide")

	maxEvents := flag.Int("max-events", config.GetEnvInt(config.EnvMaxEvents, 0), "stop with an error after this many collisions (0 = no limit)")
	verbose := flag.Bool("v", false, "print run details after the count")
	flag.Parse()

	power, ok := config.PowerFromArgs(flag.Args())
	if !ok {
		power = promptPower(os.Stdin, os.Stdout)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	res, err := collide.Run(ctx, collide.Options{Power: power, MaxEvents: *maxEvents})
	if err != nil {
		logger.Error("simulation failed", "power", power, "err", err)
		stop()
		os.Exit(1)
	}
	logger.Debug("simulation finished", "power", power, "collisions", res.Collisions, "took", time.Since(start))

	if err := report.Write(os.Stdout, power, res, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "write error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// promptPower asks for the power on w and reads one line from r.
// Anything unreadable falls back to config.DefaultPower.
func promptPower(r io.Reader, w io.Writer) int {
	fmt.Fprintln(w, "Enter the number of digits: ")
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return config.DefaultPower
	}
	return config.ParsePower(line)
}
