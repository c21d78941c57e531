package engine

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync/atomic"
)

// CrashHandler receives a recovered panic value from an engine goroutine
type CrashHandler func(r any)

var crashHandler atomic.Pointer[CrashHandler]

// SetCrashHandler installs the handler used by Go
// Hosts owning a terminal install one that restores it before exiting
func SetCrashHandler(h CrashHandler) {
	crashHandler.Store(&h)
}

// HandleCrash routes a recovered panic to the installed handler, or prints and exits
func HandleCrash(r any) {
	if r == nil {
		return
	}
	if h := crashHandler.Load(); h != nil && *h != nil {
		(*h)(r)
		return
	}

	fmt.Fprintf(os.Stderr, "\nCRASH DETECTED: %v\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
	os.Exit(1)
}

// Go runs a function in a new goroutine with panic recovery
// Use this instead of the 'go' keyword for engine goroutines
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
