// Package webhook delivers composed reminder digests to an outbound webhook
// endpoint. Each delivery is a single JSON POST with no retries; failures are
// classified as an HTTP status error, a timeout, or an unreachable endpoint.
package webhook
