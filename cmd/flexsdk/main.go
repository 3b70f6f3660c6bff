// Command flexsdk provisions the Flex SDK: it downloads the archive named by
// the manifest, unpacks it into the destination directory, and fixes up the
// launcher scripts so they run on the current machine.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/ZebulonRouseFrantzich/flexsdk/internal/pipeline"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return guard(stderr, func() int {
		return execute(ctx, args, stdout, stderr)
	})
}

// guard turns a panic in fn into a failure exit code. The pipeline runner
// recovers its own steps; this covers the setup around it.
func guard(stderr io.Writer, fn func() int) (code int) {
	defer func() {
		if v := recover(); v != nil {
			fault := &pipeline.FaultError{Value: v, StackTrace: debug.Stack()}
			fmt.Fprintf(stderr, "Error: %v\n", fault)
			code = pipeline.ExitFailure
		}
	}()
	return fn()
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", exitErr.Err)
		}
		return exitErr.Code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}
