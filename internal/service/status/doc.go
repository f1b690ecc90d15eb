// Package status implements the alert-status operator command. It talks to the
// diagnostics endpoint of a running router to inspect and reset rate limits,
// read delivery counters and look up persisted alerts.
package status
