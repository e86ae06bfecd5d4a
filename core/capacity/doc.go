// Package capacity resolves the person-day capacity available per calendar
// period (quarter or month) and tracks, per simulation trial, how much of it
// has already been claimed. Period overrides take precedence over the
// configured default; the monthly default is derived from the quarterly one.
package capacity
