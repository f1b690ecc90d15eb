// Package router ties the bus to the rate limiter and the alert pipeline.
//
// Inbound triggers are queued to a bounded worker pool, decoded, admitted, processed
// and fanned out as one play command per target room. PA acknowledgements update
// cumulative delivery counters.
package router
