// Package ciutil detects CI environments and resolves the environment
// variables used by integration tests, such as the test database URL.
package ciutil
