// Package apca defines the typed binding layer over the brokerage's
// market-data API: the generic endpoint contract, the status-table-driven
// error classifier, the cursor pagination protocol, and the market prefix
// resolver.
//
// An Endpoint value declares, for one HTTP operation, how a typed input maps
// to a request (method, path, query, body) and how the response maps back to
// a typed output or a closed set of errors. Every endpoint's status table
// implicitly classifies 401 as AuthenticationFailed and 429 as
// RateLimitExceeded; statuses outside the table classify as UnexpectedStatus,
// so no response can panic the client or leak a raw status code.
//
// List endpoints follow the cursor protocol: the input carries an optional
// opaque page token and the output carries the next one. PageIterator drives
// the loop, forwarding tokens verbatim.
//
// The package performs no I/O. Transports implement the Transport interface;
// internal/http provides the production implementation and concrete endpoint
// clients live in internal/client, constructed via pkg/apcaclient.
package apca
