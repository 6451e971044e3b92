package cmd

import (
	"fmt"

	"github.com/spf13/pflag"
)

// mustBind ties a config key to a flag. Only a flag set on the command line
// overrides file and environment values.
func mustBind(key string, f *pflag.Flag) {
	if err := v.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("bind %s: %v", key, err))
	}
}
