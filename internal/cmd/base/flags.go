package base

import (
	"bytes"
	"flag"
	"fmt"
	"strings"
)

// FlagSet wraps a standard flag set and renders its help text.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet returns a FlagSet wrapping f.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	return &FlagSet{FlagSet: f}
}

// Help returns the formatted flag help, suitable for appending to a
// command's help text.
func (f *FlagSet) Help() string {
	var b bytes.Buffer
	b.WriteString("\n\nOptions:\n")
	f.VisitAll(func(fl *flag.Flag) {
		name, usage := flag.UnquoteUsage(fl)
		line := "  -" + fl.Name
		if name != "" {
			line += "=<" + name + ">"
		}
		fmt.Fprintf(&b, "%s\n      %s", line, strings.ReplaceAll(usage, "\n", "\n      "))
		if fl.DefValue != "" && fl.DefValue != "false" {
			fmt.Fprintf(&b, " (default: %s)", fl.DefValue)
		}
		b.WriteString("\n\n")
	})
	return strings.TrimRight(b.String(), "\n")
}
