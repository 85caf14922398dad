package framework

import "sort"

// Hook is an extension point invoked at one lifecycle phase. A hook fails by returning
// an error or by failing t through require/assert.
type Hook func(t *T) error

// Hooks are the per-suite extension points. Any of them may be nil.
type Hooks struct {
	BeforeSuite Hook
	BeforeTest  Hook
	AfterTest   Hook
	AfterSuite  Hook
}

// TestCase is one named test in a Suite.
type TestCase struct {
	Name string
	// Order sets execution priority. Lower values run first; ties keep declaration order.
	Order  int
	Action func(t *T)
}

// Suite is a group of tests sharing one session, one base address and one set of hooks.
type Suite struct {
	Name    string
	BaseURL string
	Hooks   Hooks
	Tests   []TestCase
}

func orderedTests(tests []TestCase) []TestCase {
	ret := append([]TestCase(nil), tests...)
	sort.SliceStable(ret, func(i, j int) bool { return ret[i].Order < ret[j].Order })
	return ret
}
