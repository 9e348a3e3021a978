package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/okian/attrition/internal/domain/features"
)

// flagName maps a field name to its command line flag.
func flagName(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}

// addFieldFlags registers one string flag per schema field.
func addFieldFlags(fs *pflag.FlagSet) {
	for _, s := range features.Schema() {
		var usage string
		if s.Numeric() {
			if s.Unbounded() {
				usage = fmt.Sprintf("%s (>= %g)", s.Label, s.Min)
			} else {
				usage = fmt.Sprintf("%s (%g-%g)", s.Label, s.Min, s.Max)
			}
		} else {
			usage = fmt.Sprintf("%s (%s)", s.Label, strings.Join(s.Categories.Values(), ", "))
		}
		fs.String(flagName(s.Name), "", usage+fmt.Sprintf(" [default %v]", s.Default))
	}
}

// inputFromFlags starts from the defaults and applies every changed field
// flag, clamping numbers to their bounds.
func inputFromFlags(fs *pflag.FlagSet) (features.Input, error) {
	in := features.Defaults()
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		name := strings.ReplaceAll(f.Name, "-", "_")
		if _, ok := features.Lookup(name); !ok {
			return
		}
		v, perr := features.ParseValue(name, f.Value.String())
		if perr != nil {
			err = fmt.Errorf("%w: --%s: %w", ErrFlag, f.Name, perr)
			return
		}
		in[name] = v
	})
	if err != nil {
		return nil, err
	}
	return features.Clamp(in), nil
}
