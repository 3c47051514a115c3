package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParseTickers splits a comma separated list into trimmed, upper-cased symbols.
// Empty tokens are dropped; order and repeats are kept.
func ParseTickers(s string) []string {
	var out []string
	for _, tok := range strings.Split(s, ",") {
		if t := strings.ToUpper(strings.TrimSpace(tok)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Resolver decides which tickers a run analyses.
type Resolver struct {
	In          io.Reader
	Out         io.Writer
	Interactive func() bool
	Defaults    []string
}

// Resolve returns the tickers for a run. An explicit value, even an empty one, is used as is.
// Otherwise an interactive user is prompted, and blank input or a non-interactive
// process falls back to the defaults.
func (r *Resolver) Resolve(value string, explicit bool) []string {
	if explicit {
		return ParseTickers(value)
	}
	defaults := strings.Join(r.Defaults, ",")
	if r.Interactive != nil && r.Interactive() && r.In != nil {
		fmt.Fprintf(r.Out, "Enter tickers separated by comma (leave blank for defaults: %s): ", defaults)
		line, _ := bufio.NewReader(r.In).ReadString('\n')
		if strings.TrimSpace(line) != "" {
			return ParseTickers(line)
		}
	}
	return ParseTickers(defaults)
}
