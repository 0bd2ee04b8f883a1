// Package modeladapter holds the HTTP plumbing shared by provider adapters.
//
// It contains the embeddable [ModelAdapter] base struct with request building,
// API-key auth, custom headers and [ModelAdapter.PostJSON], plus the
// [StatusError] type returned for non-2xx replies.
//
// This package contains no provider-specific code. Concrete adapters live in
// separate packages under pkg/providers that import modeladapter.
package modeladapter
