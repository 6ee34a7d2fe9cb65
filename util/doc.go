// Package util holds small helpers shared by the infrastructure packages:
// human-readable byte sizes, secret masking and string defaults.
package util
