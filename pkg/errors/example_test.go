// Package errors provides examples of structured error handling in disease-sync.
package errors_test

import (
	"fmt"
	"io"

	"disease-sync/pkg/errors"
)

// Example demonstrates basic error creation and wrapping.
func Example() {
	// Create a new error with type
	err := errors.New(errors.ErrorTypeConnection, "failed to connect to source database")

	// Add context details
	err = err.WithDetail("host", "localhost").
		WithDetail("port", 3306).
		WithDetail("database", "hos")

	// Print the error
	fmt.Println(err.Error())

	// Output:
	// connection: failed to connect to source database
}

// ExampleWrap shows how to wrap existing errors with context.
func ExampleWrap() {
	// Simulate an underlying driver error
	originalErr := io.EOF

	// Wrap the error with context
	err := errors.Wrap(originalErr, errors.ErrorTypeQuery, "full sync insert failed").
		WithDetail("table", "ai_disease_training_data")

	// Check the error type
	if errors.IsType(err, errors.ErrorTypeQuery) {
		fmt.Println("This is a query error")
	}

	// Output:
	// This is a query error
}

// ExampleIsType demonstrates checking error types through wrapped errors.
func ExampleIsType() {
	connErr := errors.New(errors.ErrorTypeConnection, "connection refused")
	wrappedErr := errors.Wrap(connErr, errors.ErrorTypeHealth, "health probe failed")

	fmt.Printf("Is health error: %v\n", errors.IsType(wrappedErr, errors.ErrorTypeHealth))
	fmt.Printf("Is connection error: %v\n", errors.IsType(wrappedErr, errors.ErrorTypeConnection))

	// Output:
	// Is health error: true
	// Is connection error: false
}

// Example_errorChain shows how error context accumulates across layers.
func Example_errorChain() {
	err := errors.New(errors.ErrorTypeConnection, "connection timeout").
		WithDetail("host", "192.168.1.20").
		WithDetail("port", 3306)

	err = errors.Wrap(err, errors.ErrorTypeQuery, "source row count failed").
		WithDetail("table", "opdscreen")

	fmt.Println("Full error chain:", err)

	// Output:
	// Full error chain: query: source row count failed: connection: connection timeout
}
