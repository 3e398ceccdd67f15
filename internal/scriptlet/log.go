package scriptlet

import (
	"strings"

	"github.com/roach88/scriptlet/internal/host"
	"github.com/roach88/scriptlet/internal/ir"
)

// LogPrefix marks console lines written by log.js.
const LogPrefix = "[log.js]"

// logMessage writes the message to the page console at the requested
// level. Unknown levels fall back to "log".
func logMessage(p *host.Page, b ir.Bound) (ir.Result, error) {
	msg := b.Arg(1)
	if msg == "" {
		msg = "(empty log message)"
	}
	level := strings.ToLower(b.Arg(2))
	if !host.IsConsoleLevel(level) {
		level = "log"
	}
	p.Console().Log(level, LogPrefix+" "+msg)
	return ir.NoResult, nil
}
