package config

import (
	"os"

	homedir "github.com/mitchellh/go-homedir"
)

// ExpandPath replaces a leading "~" with the home directory and then
// expands environment variables such as ${TW_CONFIG_DIR}.
func ExpandPath(s string) string {
	if s == "" {
		return s
	}
	if s[0] == '~' {
		if expanded, err := homedir.Expand(s); err == nil {
			s = expanded
		}
	}
	return os.ExpandEnv(s)
}
