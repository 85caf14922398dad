package main

import (
	"flag"
	"fmt"
	"os"
	"regexp"

	"github.com/alessio/shellescape"

	"github.com/setianjay/api-contract-tests/framework"
)

type commandParams struct {
	configPath string
	bookingURL string
	objectsURL string
	filters    framework.RegexFilters
	mock       bool
	debug      bool
	debugAll   bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.StringVar(&c.configPath, "config", "", "path of a YAML configuration file")
	fs.StringVar(&c.bookingURL, "booking-url", "", "base URL of the booking API (overrides configuration)")
	fs.StringVar(&c.objectsURL, "objects-url", "", "base URL of the object catalog API (overrides configuration)")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.mock, "mock", false, "run against an in-process fake of both APIs")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	if c.mock && (c.bookingURL != "" || c.objectsURL != "") {
		fmt.Fprintln(os.Stderr, "-mock cannot be combined with -booking-url or -objects-url")
		fs.Usage()
		return false
	}
	return true
}

// rerunCommand returns a shell command that runs only the given failed tests again.
func rerunCommand(program string, c commandParams, failures []framework.TestResult) string {
	args := []string{program}
	if c.configPath != "" {
		args = append(args, "-config", c.configPath)
	}
	if c.mock {
		args = append(args, "-mock")
	}
	if c.bookingURL != "" {
		args = append(args, "-booking-url", c.bookingURL)
	}
	if c.objectsURL != "" {
		args = append(args, "-objects-url", c.objectsURL)
	}
	for _, f := range failures {
		args = append(args, "-run", "^"+regexp.QuoteMeta(f.TestID.String())+"$")
	}
	return shellescape.QuoteCommand(args)
}
