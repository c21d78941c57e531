// Command moodrig runs characters headless behind the control server
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/lixenwraith/moodrig/config"
	"github.com/lixenwraith/moodrig/engine"
	"github.com/lixenwraith/moodrig/host"
	"github.com/lixenwraith/moodrig/logging"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\nCRASH DETECTED: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	opts := logging.DefaultOptions()
	opts.Debug = cfg.Debug
	opts.Stderr = true
	opts.JSON = cfg.LogJSON
	opts.Level = cfg.LogLevel
	log, logFile, err := logging.Setup(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	engine.SetCrashHandler(func(r any) {
		log.Error("crash", "panic", r, "stack", string(debug.Stack()))
		os.Exit(1)
	})

	h, err := host.New(cfg, log)
	if err != nil {
		log.Error("host setup failed", "error", err)
		os.Exit(1)
	}
	if err := h.Start(); err != nil {
		log.Error("host start failed", "error", err)
		os.Exit(1)
	}
	log.Info("rig running", "instances", cfg.Instances, "addr", cfg.ServerAddress)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down")
	if err := h.Stop(); err != nil {
		log.Error("shutdown incomplete", "error", err)
	}
}
