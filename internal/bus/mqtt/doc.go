// Package mqtt owns the broker session shared by the router and the trigger CLI.
//
// The session authenticates with a client certificate against a pinned CA,
// reconnects automatically with bounded backoff, re-subscribes every registered
// topic after each (re)connect and disconnects gracefully on shutdown.
package mqtt
