// Package diagnostics implements the operator gRPC API of the alert router.
//
// The service is defined in api/alertrouter/v1/diagnostics.proto and the
// generated stubs live in internal/pb/v1. Both the server and the client
// convert between those messages and domain types.
package diagnostics
