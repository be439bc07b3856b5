// Package memory provides in-memory implementations of driven port interfaces.
// They back tests and runs that should leave nothing on disk.
package memory
