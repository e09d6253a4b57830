package allocator

import (
	"fmt"
	"os"
)

// Reporter receives a one-line diagnostic message. Called for every
// non-fatal condition the design calls out in its error taxonomy
// (OutOfMemory, NullFree, DoubleFree, Corruption) in addition to any
// error value returned to the caller.
type Reporter func(line string)

// stdoutReporter is the default embedding: one line per diagnostic on
// stdout.
func stdoutReporter(line string) {
	fmt.Fprintln(os.Stdout, line)
}

// report routes a formatted diagnostic through the pool's configured
// Reporter, if any.
func (p *Pool) report(format string, args ...interface{}) {
	if p.reporter == nil {
		return
	}

	p.reporter(fmt.Sprintf(format, args...))
}
