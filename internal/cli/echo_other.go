//go:build !windows && !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package cli

import (
	"errors"
	"os"
)

func disableEcho(_ *os.File) (func(), error) {
	return nil, errors.New("hidden input is not supported on this platform; use --password-stdin")
}
