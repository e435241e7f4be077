// Package testutil provides shared test helpers for numeric and HTTP
// assertions.
package testutil

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

// Epsilon is the default tolerance for floating-point comparisons.
const Epsilon = 1e-9

// AssertNear fails the test if got is not within eps of want.
func AssertNear(t *testing.T, name string, got, want, eps float64) {
	t.Helper()
	if math.IsNaN(got) || math.Abs(got-want) > eps {
		t.Errorf("%s = %v, want %v (±%v)", name, got, want, eps)
	}
}

// AssertDegrees checks an angle in degrees to the default tolerance.
func AssertDegrees(t *testing.T, name string, got, want float64) {
	t.Helper()
	AssertNear(t, name, got, want, Epsilon)
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// NewTestRequest creates a test HTTP request.
func NewTestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

// NewTestRecorder creates a test response recorder.
func NewTestRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}
