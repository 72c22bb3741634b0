package schema

import (
	"fmt"
	"io"
	"strings"
)

// Usage returns a one-line summary of the switch, e.g. `-D=<float>  duration hours`.
func (p *ParameterSpec) Usage() string {
	if p.Type == TypeNone {
		return fmt.Sprintf("%s  %s", p.Name, p.Description)
	}
	return fmt.Sprintf("%s=<%s>  %s", p.Name, p.Type, p.Description)
}

// WriteHelp writes the help text for every switch in declaration order.
func (s *Schema) WriteHelp(w io.Writer) error {
	for _, p := range s.Parameters() {
		var b strings.Builder
		fmt.Fprintf(&b, "  %s\n", p.Usage())
		fmt.Fprintf(&b, "      %s\n", p.Help)
		if len(p.Delimiters) > 0 {
			fmt.Fprintf(&b, "      multiple values separated by %s\n", quoteAll(p.Delimiters))
		}
		switch {
		case p.Required && len(p.RequiredUnless) > 0:
			fmt.Fprintf(&b, "      required unless one of %s is given\n", strings.Join(p.RequiredUnless, ", "))
		case p.Required:
			b.WriteString("      required\n")
		}
		if p.Unique {
			b.WriteString("      may be given once\n")
		}
		if len(p.Depends) > 0 {
			fmt.Fprintf(&b, "      requires %s\n", strings.Join(p.Depends, " and "))
		}
		if len(p.ExclusiveOf) > 0 {
			fmt.Fprintf(&b, "      cannot be used with %s\n", strings.Join(p.ExclusiveOf, ", "))
		}
		if len(p.Default) > 0 {
			fmt.Fprintf(&b, "      default: %s\n", strings.Join(p.Default, ","))
		}
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

func quoteAll(in []string) string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(out, " ")
}
