package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/ZebulonRouseFrantzich/driverfetch/internal/browser"
	"github.com/ZebulonRouseFrantzich/driverfetch/internal/logging"
	"github.com/ZebulonRouseFrantzich/driverfetch/internal/stage"
)

// Resolver maps browser versions to driver releases.
type Resolver struct {
	base   string
	client *resty.Client
	logger logging.Logger
}

// NewResolver creates a resolver. TLS verification is always on.
func NewResolver(opts Options) *Resolver {
	o := opts.withDefaults()
	return &Resolver{
		base:   o.BaseURL,
		client: newClient(o, false),
		logger: o.Logger,
	}
}

// LatestRelease asks the registry for the newest driver release compatible
// with v. The response body, trimmed, is the release.
func (r *Resolver) LatestRelease(ctx context.Context, v browser.Version) (Release, error) {
	u := LatestReleaseURL(r.base, v)
	r.logger.Debug("resolving driver release", "url", u)

	resp, err := r.client.R().SetContext(ctx).Get(u)
	if err != nil {
		return "", stage.New(stage.Release, stage.ErrNetwork, u, err)
	}
	if !resp.IsSuccess() {
		return "", stage.Errorf(stage.Release, stage.ErrRegistry, u, "unexpected status %s", statusText(resp))
	}

	release := strings.TrimSpace(string(resp.Body()))
	if release == "" {
		return "", stage.Errorf(stage.Release, stage.ErrRegistry, u, "empty response body")
	}

	r.logger.Debug("driver release resolved", "version", v.String(), "release", release)
	return Release(release), nil
}

func statusText(resp *resty.Response) string {
	if s := resp.Status(); s != "" {
		return s
	}
	return fmt.Sprintf("%d", resp.StatusCode())
}
