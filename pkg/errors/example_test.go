// Package errors provides examples of structured error handling in vents.
package errors_test

import (
	"fmt"
	"io/fs"

	"github.com/ajitpratap0/vents/pkg/errors"
)

// Example demonstrates basic error creation with details.
func Example() {
	err := errors.New(errors.ErrorTypeMissingValue, "OPENAI_API_KEY is required").
		WithDetail("connection", "openai-prod").
		WithDetail("kind", "openai")

	fmt.Println(err.Error())

	// Output:
	// missing_value: OPENAI_API_KEY is required
}

// ExampleWrap shows how catalog read failures are wrapped.
func ExampleWrap() {
	err := errors.Wrap(fs.ErrNotExist, errors.ErrorTypeConfigParse, "failed to read connections catalog").
		WithDetail("path", "/etc/vents/catalog.json")

	if errors.IsType(err, errors.ErrorTypeConfigParse) {
		fmt.Println("catalog could not be parsed")
	}
	fmt.Println(err.Unwrap() == fs.ErrNotExist)

	// Output:
	// catalog could not be parsed
	// true
}
