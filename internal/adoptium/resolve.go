// SPDX-License-Identifier: MPL-2.0

package adoptium

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/warp4j/warp4j/internal/target"
	"github.com/warp4j/warp4j/internal/version"
)

// FetchVersion asks the distributor to interpret a version string.
func (c *Client) FetchVersion(ctx context.Context, spec string) (VersionData, error) {
	var vd VersionData
	if err := c.getJSON(ctx, "/v3/version/"+url.PathEscape(spec), nil, &vd); err != nil {
		return VersionData{}, err
	}
	return vd, nil
}

// FetchReleaseVersions lists the GA releases of one feature version, newest first.
func (c *Client) FetchReleaseVersions(ctx context.Context, major int) ([]VersionData, error) {
	q := url.Values{}
	q.Set("version", fmt.Sprintf("[%d,%d)", major, major+1))
	q.Set("release_type", "ga")
	q.Set("sort_order", "DESC")

	var rv releaseVersions
	if err := c.getJSON(ctx, "/v3/info/release_versions", q, &rv); err != nil {
		return nil, err
	}
	return rv.Versions, nil
}

// AvailableReleases lists every feature version the distributor publishes.
func (c *Client) AvailableReleases(ctx context.Context) ([]int, error) {
	var ar AvailableReleases
	if err := c.getJSON(ctx, "/v3/info/available_releases", nil, &ar); err != nil {
		return nil, err
	}
	return ar.All(), nil
}

// ResolveVersion turns the user's version request into the release a run
// works with. Distributor failures degrade to the locally parsed version so a
// run can still use cached runtimes offline; only an unparsable spec that the
// distributor also rejects is an error.
func (c *Client) ResolveVersion(ctx context.Context, spec string) (version.Release, error) {
	var rel version.Release
	vd, err := c.FetchVersion(ctx, spec)
	if err != nil {
		c.logger.Debug("distributor could not interpret version, parsing locally", "version", spec, "err", err)
		local, perr := version.Parse(spec)
		if perr != nil {
			return version.Release{}, perr
		}
		rel = version.Release{Version: local}
	} else {
		rel = vd.Release()
	}

	if !rel.FeatureOnly() {
		c.logger.Debug("using specific version", "version", rel)
		return rel, nil
	}

	c.logger.Debug("fetching latest release of feature version", "major", rel.Version.Major)
	versions, err := c.FetchReleaseVersions(ctx, rel.Version.Major)
	switch {
	case errors.Is(err, ErrReleaseNotFound):
		if avail, aerr := c.AvailableReleases(ctx); aerr == nil {
			c.logger.Warn("java version is not offered by the distributor", "version", rel.Version.Major, "available", avail)
		}
		c.logger.Warn("continuing in case a matching runtime is cached locally")
		return rel, nil
	case err != nil:
		c.logger.Debug("release lookup failed, using requested version", "err", err)
		return rel, nil
	case len(versions) == 0:
		return rel, nil
	}
	return versions[0].Release(), nil
}

// DownloadURL returns the archive link of the runtime matching rel for t.
func (c *Client) DownloadURL(ctx context.Context, rel version.Release, t target.Target) (string, error) {
	var path string
	if rel.FeatureOnly() {
		path = "/v3/assets/feature_releases/" + strconv.Itoa(rel.Version.Major) + "/ga"
	} else {
		path = "/v3/assets/version/" + url.PathEscape(rel.String())
	}

	q := url.Values{}
	q.Set("architecture", string(t.Architecture))
	q.Set("os", string(t.Platform))
	q.Set("image_type", c.imageType)
	q.Set("jvm_impl", "hotspot")

	var releases []assetRelease
	if err := c.getJSON(ctx, path, q, &releases); err != nil {
		return "", fmt.Errorf("looking up runtime for %s: %w", t, err)
	}
	if len(releases) == 0 || len(releases[0].Binaries) == 0 || releases[0].Binaries[0].Package.Link == "" {
		return "", fmt.Errorf("runtime %s for %s: %w", rel, t, ErrNoBinary)
	}

	link := releases[0].Binaries[0].Package.Link
	c.logger.Debug("runtime download link", "target", t, "url", redactURL(link))
	return link, nil
}
