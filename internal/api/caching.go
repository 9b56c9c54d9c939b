package api

import (
	"net/http"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
)

// newCachingTransport wraps base with an RFC 7234 shared cache so GET
// endpoints served with Cache-Control headers avoid repeat round trips.
// With a cache directory the cache persists across process restarts;
// otherwise it is memory-only.
func newCachingTransport(cacheDir string, base http.RoundTripper) http.RoundTripper {
	var transport *httpcache.Transport
	if cacheDir == "" {
		transport = httpcache.NewTransport(httpcache.NewMemoryCache())
	} else {
		transport = httpcache.NewTransport(diskcache.New(cacheDir))
	}
	transport.Transport = base
	return transport
}
