// Package completion submits audit prompts to an OpenAI-compatible chat completions endpoint.
//
// Every failure is folded into a Result so callers can continue with the next row.
package completion
