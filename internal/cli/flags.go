package cli

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// choiceValue is a string flag restricted to a fixed set of values.
type choiceValue struct {
	value   string
	allowed []string
}

var _ pflag.Value = (*choiceValue)(nil)

func newChoice(def string, allowed ...string) *choiceValue {
	return &choiceValue{value: def, allowed: allowed}
}

func (c *choiceValue) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	if !slices.Contains(c.allowed, s) {
		return fmt.Errorf("must be one of: %s", strings.Join(c.allowed, ", "))
	}
	c.value = s
	return nil
}

func (c *choiceValue) String() string { return c.value }

func (c *choiceValue) Type() string { return "string" }

// Preview modes for --preview.
const (
	previewAuto   = "auto"
	previewAlways = "always"
	previewNever  = "never"
)

// addPreviewFlag registers --preview. A bare --preview means always.
func addPreviewFlag(cmd *cobra.Command) *choiceValue {
	v := newChoice(previewAuto, previewAuto, previewAlways, previewNever)
	cmd.Flags().Var(v, "preview", "show colour swatches (auto, always, never)")
	cmd.Flags().Lookup("preview").NoOptDefVal = previewAlways
	return v
}

// showPreview resolves a preview mode against the output writer. Auto
// enables swatches only when out is a terminal and NO_COLOR is unset.
func (o *globalOptions) showPreview(mode *choiceValue, out io.Writer) bool {
	if o.noColor {
		return false
	}
	switch mode.String() {
	case previewAlways:
		return true
	case previewNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) // #nosec G115 - File descriptors fit in int
}
