// Package connection provides the HTTP client loghive-cli uses to talk
// to a running loghive-server.
//
// The client speaks the server's JSON API. Error responses carry a
// machine-readable code in the body; ParseResponse surfaces it in the
// returned error so scripts can match on it.
package connection
