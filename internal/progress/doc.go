// Package progress draws a bubbletea spinner on the terminal while a
// request is in flight.
package progress
