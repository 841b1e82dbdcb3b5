// Package validation checks the raw, clean and database directories before a
// pipeline stage touches them.
package validation
