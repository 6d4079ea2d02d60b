// Package channel defines the delivery capability boundary: push, email and
// SMS adapters behind one Channel interface, each an isolated failure
// domain.
package channel
