// Package utils contains decorators that are useful for every handler
// stack: panic recovery, request logging and savepoints.
package utils
