// Package trigger implements the alert-trigger operator command, which raises
// one alert by publishing a trigger message onto the bus the way a wall button does.
package trigger
