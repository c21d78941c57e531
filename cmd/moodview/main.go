// Command moodview is a terminal viewer and controller for characters
// It hosts its own roster, or attaches to a running moodrig with -remote
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/moodrig/config"
	"github.com/lixenwraith/moodrig/engine"
	"github.com/lixenwraith/moodrig/host"
	"github.com/lixenwraith/moodrig/logging"
	"github.com/lixenwraith/moodrig/parameter"
)

var (
	remoteFlag   = flag.String("remote", "", "base URL of a moodrig control server, e.g. http://localhost:8080")
	instanceFlag = flag.String("instance", "", "remote instance id, first listed when empty")
)

const redrawInterval = 50 * time.Millisecond

func main() {
	var screen tcell.Screen
	defer func() {
		if r := recover(); r != nil {
			if screen != nil {
				screen.Fini()
			}
			fmt.Fprintf(os.Stderr, "\nMOODVIEW CRASHED: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	// The viewer serves only when asked to
	cfg.ServerAddress = ""
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	// File sink only: stderr would draw over the screen
	opts := logging.DefaultOptions()
	opts.Debug = cfg.Debug
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

	var src source
	rows, cols := cfg.AtlasRows, cfg.AtlasColumns
	if *remoteFlag != "" {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		rs, err := newRemoteSource(ctx, *remoteFlag, *instanceFlag)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "remote: %v\n", err)
			os.Exit(1)
		}
		src = rs
		rows, cols = parameter.AtlasRows, parameter.AtlasColumns
	} else {
		h, err := host.New(cfg, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "host: %v\n", err)
			os.Exit(1)
		}
		if err := h.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "host: %v\n", err)
			os.Exit(1)
		}
		src = newLocalSource(h)
	}
	defer src.Close()

	screen, err = tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	engine.SetCrashHandler(func(r any) {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "\r\nMOODVIEW CRASHED: %v\r\n", r)
		fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
		os.Exit(1)
	})

	run(NewViewer(screen, src, rows, cols), screen, src)
}

func run(v *Viewer, screen tcell.Screen, src source) {
	ticker := time.NewTicker(redrawInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	engine.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	})

	v.Draw()
	for {
		select {
		case ev := <-eventChan:
			if !v.HandleInput(ev) {
				return
			}
			v.Draw()
		case msg := <-src.Notices():
			v.setNotice(msg)
		case <-ticker.C:
			v.Draw()
		}
	}
}
