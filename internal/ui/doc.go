// Package ui formats operator-facing progress messages for audit runs.
package ui
