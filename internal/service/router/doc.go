// Package router runs the alert-router daemon: it wires configuration, storage,
// topology, the alert pipeline and the MQTT bus together and serves the
// metrics, health and diagnostics endpoints until the context is canceled.
package router
