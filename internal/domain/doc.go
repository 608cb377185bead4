// Package domain contains the core business entities, value objects, and
// domain logic of the application: the Item record, its status lifecycle and
// the email shape it must satisfy. It is independent of any specific
// infrastructure or delivery mechanism.
package domain
