// Package audit drives flashcard audits: it loads a dataset, renders each row into a prompt,
// submits the prompt to the completion service, and prints or collects the critiques.
//
// It exposes CommandBuilder for wiring the audit Cobra command and Service for driving
// single-row and full-file audits programmatically.
package audit
