// Package proxy defines the primitives of an HTTP server that gives access to
// a node.
package proxy

import (
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
)

// Proxy defines the primitives to implement an http server that handles
// client side requests
type Proxy interface {
	// Listen starts the proxy server. This call is assumed to be blocking
	Listen()

	// Stop stops the proxy server
	Stop()

	// RegisterHandler registers a new handler
	RegisterHandler(path string, handler func(http.ResponseWriter, *http.Request))

	// RegisterMetrics serves the metrics of the collectors on the given path.
	RegisterMetrics(path string, collectors ...prometheus.Collector) error

	// GetAddr returns the address the server is listening on, or nil if it is
	// not listening yet.
	GetAddr() net.Addr
}
