package conf

import (
	"fmt"

	"github.com/spf13/pflag"
)

// BindFlags binds each named flag of fs to its settings key so that a flag
// given on the command line overrides every other source.
func (ctx *Context) BindFlags(fs *pflag.FlagSet, keys map[string]string) error {
	for name, key := range keys {
		f := fs.Lookup(name)
		if f == nil {
			return fmt.Errorf("flag %q not defined", name)
		}
		if err := ctx.Viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("error binding flag %q: %w", name, err)
		}
	}
	return nil
}

// RegisterFlags records flag bindings of a sub-command. They are applied by
// ApplyFlags only when that command runs, so commands may bind different
// flags to the same key.
func (ctx *Context) RegisterFlags(fs *pflag.FlagSet, keys map[string]string) {
	if ctx.flagKeys == nil {
		ctx.flagKeys = make(map[*pflag.FlagSet]map[string]string)
	}
	ctx.flagKeys[fs] = keys
}

// ApplyFlags binds the flags registered for fs.
func (ctx *Context) ApplyFlags(fs *pflag.FlagSet) error {
	keys, ok := ctx.flagKeys[fs]
	if !ok {
		return nil
	}
	return ctx.BindFlags(fs, keys)
}
