package httpclient

import (
	"net/http"
	"time"
)

// Client is the shared short-timeout client used for upstream probes.
var Client = &http.Client{
	Timeout: 3 * time.Second,
}
