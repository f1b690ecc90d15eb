// Package dedup suppresses repeated identical alert triggers inside a short window.
//
// A trigger is identified by (tenant, building, source room, mode). The first
// occurrence passes and is remembered; any identical trigger arriving before the
// window elapses is reported as a duplicate without refreshing the remembered
// time. A cancellable sweep removes entries older than twice the window.
package dedup
