// Package events provides types and interfaces for an event-driven architecture.
//
// Services emit events without knowing which handlers will process them,
// which keeps observers such as audit logging out of the service code.
//
// The primary components are:
// - Event: a typed envelope with a JSON payload
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
