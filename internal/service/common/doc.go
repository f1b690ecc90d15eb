// Package common holds helpers shared by the operator binaries.
//
// It detects the current system actor (hostname/username) for audit logs and
// the default trigger device, and turns listen addresses into dial addresses.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
