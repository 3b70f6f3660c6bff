// Package report is where a provisioning run ends up: a success line on
// the console, or an error record written to the error-log file.
//
// The error log is replaced atomically on each failure, so a reader never
// sees a half-written record from an interrupted run.
package report
