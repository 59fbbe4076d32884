package cmd

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/spf13/pflag"

	"github.com/tweetkit/tw/internal/api"
	"github.com/tweetkit/tw/internal/config"
)

const (
	exitOK          = 0
	exitGeneric     = 1
	exitUsage       = 2
	exitAuth        = 3
	exitNotFound    = 4
	exitForbidden   = 5
	exitRateLimited = 6
	exitServer      = 7
	exitNetwork     = 8
)

var exitCodeByClass = map[api.ErrorCode]int{
	api.ErrBadRequest:   exitUsage,
	api.ErrValidation:   exitUsage,
	api.ErrDuplicate:    exitUsage,
	api.ErrUnauthorized: exitAuth,
	api.ErrForbidden:    exitForbidden,
	api.ErrNotFound:     exitNotFound,
	api.ErrRateLimited:  exitRateLimited,
	api.ErrServerError:  exitServer,
	api.ErrCircuitOpen:  exitServer,
	api.ErrTimeout:      exitNetwork,
}

// cobra reports argument and flag problems as plain errors.
var usageErrorFragments = []string{
	"unknown command",
	"unknown flag",
	"unknown shorthand flag",
	"flag needs an argument",
	"requires at least",
	"requires exactly",
	"accepts at most",
	"accepts between",
	"invalid argument",
	"invalid value",
	"must be",
	"is required",
}

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	var handled *handledError
	if errors.As(err, &handled) {
		if handled.exitCode != 0 {
			return handled.exitCode
		}
		err = handled.err
	}

	if errors.Is(err, config.ErrNotConfigured) {
		return exitAuth
	}
	if code, ok := exitCodeByClass[api.Classify(err)]; ok {
		return code
	}
	msg := strings.ToLower(err.Error())
	for _, fragment := range usageErrorFragments {
		if strings.Contains(msg, fragment) {
			return exitUsage
		}
	}
	if isNetworkError(err, msg) {
		return exitNetwork
	}
	return exitGeneric
}

// isNetworkError covers transport failures; url.Error satisfies net.Error.
func isNetworkError(err error, msg string) bool {
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.Canceled) {
		return true
	}
	for _, fragment := range []string{"connection refused", "no such host", "certificate", "timeout"} {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}
