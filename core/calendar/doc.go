// Package calendar provides working-day arithmetic for the scheduling
// engine: weekend detection, start-date normalization and working-day
// counting. All operations are pure functions of the date and the
// configured weekend pattern.
package calendar
