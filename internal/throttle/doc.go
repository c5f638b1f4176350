// Package throttle spaces consecutive calls to the completion service.
package throttle
