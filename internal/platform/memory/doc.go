// Package memory provides an in-process store.ItemStore backed by a map.
// It is used when the service runs without a database and in tests.
package memory
