// Package prompt renders normalized flashcard rows into audit prompts.
package prompt
