// Package registry talks to the driver release registry.
//
// The registry answers two questions over plain HTTP GETs: which driver
// release matches a browser version (Resolver), and the bytes of the driver
// archive for a release and platform (Fetcher).
package registry

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/ZebulonRouseFrantzich/driverfetch/internal/logging"
)

const (
	// DefaultBaseURL is the public chromedriver storage bucket.
	DefaultBaseURL = "https://chromedriver.storage.googleapis.com"
	// DefaultTimeout bounds each request, including reading the body.
	DefaultTimeout = 60 * time.Second
	// DefaultUserAgent is the User-Agent header sent with requests.
	DefaultUserAgent = "driverfetch/1.0"

	defaultRetryWaitMin = 1 * time.Second
	defaultRetryWaitMax = 30 * time.Second
)

// Options configures registry clients. Zero values select defaults.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string

	// Retries is the number of extra attempts after a transport error or a
	// 5xx/429 response. Zero means a single attempt.
	Retries      int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// InsecureSkipVerify disables TLS certificate checks for artifact
	// downloads. The resolver ignores it.
	InsecureSkipVerify bool

	Logger logging.Logger
}

func (o Options) withDefaults() Options {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.RetryWaitMin <= 0 {
		o.RetryWaitMin = defaultRetryWaitMin
	}
	if o.RetryWaitMax <= 0 {
		o.RetryWaitMax = defaultRetryWaitMax
	}
	if o.RetryWaitMax < o.RetryWaitMin {
		o.RetryWaitMax = o.RetryWaitMin
	}
	o.Logger = logging.OrNop(o.Logger)
	return o
}

// newClient builds the resty client shared by Resolver and Fetcher. With
// retries enabled the transport is wrapped by go-retryablehttp; the final
// response is passed through so a persistent 5xx still surfaces as a status.
func newClient(o Options, insecure bool) *resty.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // explicit opt-in
	}

	hc := &http.Client{Transport: transport}
	if o.Retries > 0 {
		rc := retryablehttp.NewClient()
		rc.HTTPClient = &http.Client{Transport: transport}
		rc.RetryMax = o.Retries
		rc.RetryWaitMin = o.RetryWaitMin
		rc.RetryWaitMax = o.RetryWaitMax
		rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
		rc.Logger = nil
		rc.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
			if attempt > 0 {
				o.Logger.Debug("retrying request", "url", req.URL.String(), "attempt", attempt)
			}
		}
		hc = rc.StandardClient()
	}

	return resty.NewWithClient(hc).
		SetTimeout(o.Timeout).
		SetHeader("User-Agent", o.UserAgent).
		SetLogger(restyLogger{o.Logger})
}

// restyLogger routes resty's printf-style messages to a Logger.
type restyLogger struct {
	l logging.Logger
}

func (r restyLogger) Errorf(format string, v ...interface{}) {
	r.l.Error(fmt.Sprintf(format, v...), "component", "http")
}

func (r restyLogger) Warnf(format string, v ...interface{}) {
	r.l.Warn(fmt.Sprintf(format, v...), "component", "http")
}

func (r restyLogger) Debugf(format string, v ...interface{}) {
	r.l.Debug(fmt.Sprintf(format, v...), "component", "http")
}
