/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package testutil

// MockT records failures instead of stopping the test, so assertion helpers can be tested.
type MockT struct {
	Failed  bool
	Reports []string
}

func (t *MockT) FailNow() {
	t.Failed = true
}

func (t *MockT) Errorf(format string, args ...interface{}) {
	t.Failed = true
	t.Reports = append(t.Reports, format)
}

func (t *MockT) Helper() {}
