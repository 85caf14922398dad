package framework

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const filteredReason = "excluded by filter parameters"

// Filter decides whether a test runs. Tests it rejects are reported as skipped and get no
// result entry. A suite whose tests are all rejected never reaches its suite-start phase.
type Filter func(TestID) bool

// RegexFilters selects tests by their "Suite/test" path, as set by the -run and -skip flags.
type RegexFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

// Defined reports whether any pattern has been set.
func (r RegexFilters) Defined() bool {
	return r.MustMatch.IsDefined() || r.MustNotMatch.IsDefined()
}

func (r RegexFilters) AsFilter(id TestID) bool {
	path := id.String()
	if r.MustNotMatch.AnyMatch(path) {
		return false
	}
	return !r.MustMatch.IsDefined() || r.MustMatch.AnyMatch(path)
}

// RegexList is a flag.Value collecting one pattern per occurrence of its flag.
type RegexList []*regexp.Regexp

func (r RegexList) String() string {
	quoted := make([]string, 0, len(r))
	for _, rx := range r {
		quoted = append(quoted, fmt.Sprintf("%q", rx.String()))
	}
	return strings.Join(quoted, " or ")
}

func (r *RegexList) Set(value string) error {
	pattern := strings.TrimSpace(value)
	if pattern == "" {
		return errors.New("empty test filter pattern")
	}
	rx, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid test filter %q: %w", pattern, err)
	}
	*r = append(*r, rx)
	return nil
}

func (r RegexList) IsDefined() bool { return len(r) > 0 }

func (r RegexList) AnyMatch(path string) bool {
	for _, rx := range r {
		if rx.MatchString(path) {
			return true
		}
	}
	return false
}

// PrintFilterDescription tells the user which tests the filters will leave out.
func PrintFilterDescription(filters RegexFilters) {
	if !filters.Defined() {
		return
	}
	fmt.Println("Some tests will be skipped based on the filter criteria for this test run:")
	if filters.MustMatch.IsDefined() {
		fmt.Printf("  run only tests matching %s\n", filters.MustMatch)
	}
	if filters.MustNotMatch.IsDefined() {
		fmt.Printf("  skip tests matching %s\n", filters.MustNotMatch)
	}
	fmt.Println()
}

func (c *Controller) selected(id TestID) bool {
	return c.env.Filter == nil || c.env.Filter(id)
}

// anySelected reports whether the filter leaves at least one of tests to run.
func (c *Controller) anySelected(tests []TestCase) bool {
	for _, tc := range tests {
		if c.selected(c.suiteID().plus(tc.Name)) {
			return true
		}
	}
	return false
}
