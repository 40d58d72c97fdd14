// Package cli handles command-line argument parsing and validation for the
// noisebench binary.
package cli
