// Package cli constructs the flashaudit command-line interface, wiring the
// Cobra command hierarchy, configuration loader, dotenv bootstrap, and
// structured logging. It exposes helpers to build application instances and
// to execute the default command set.
package cli
