// Package httputil provides the HTTP plumbing used to fetch remote manifests.
//
// # Overview
//
//   - [Client]: GET requests with default headers, status mapping and retry
//   - [Retry]: Automatic retry with exponential backoff
//
// # Status Mapping
//
// Only 200 OK is treated as success. Other statuses become coded errors from
// [github.com/matzehuels/npmap/pkg/errors]:
//
//   - 404, 410: NOT_FOUND
//   - 5xx, 429: NETWORK_ERROR, retried
//   - anything else: NETWORK_ERROR, not retried
//
// Transport failures are NETWORK_ERROR (or TIMEOUT for deadline errors) and
// are retried.
//
// # Retry
//
// [Retry] only retries errors wrapped in [RetryableError]:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return fetch()
//	})
//
// Default settings:
//
//   - Request timeout: 10 seconds
//   - Max attempts: 3
//   - Base backoff: 1 second, doubling
package httputil
