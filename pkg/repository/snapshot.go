package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/pomrewrite/pkg/cache"
	perrors "github.com/matzehuels/pomrewrite/pkg/errors"
	"github.com/matzehuels/pomrewrite/pkg/observability"
)

const snapshotKeyType = "repository"

type snapshot struct {
	Root      string     `json:"root"`
	Artifacts []Artifact `json:"artifacts"`
}

// cacheKey identifies a scan of this root with these excludes.
func (x *Index) cacheKey() string {
	return cache.Key(snapshotKeyType, x.root, x.excludes)
}

// Save stores the current contents in c.
func (x *Index) Save(ctx context.Context, c cache.Cache, ttl time.Duration) error {
	data, err := json.Marshal(snapshot{Root: x.root, Artifacts: x.Artifacts()})
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeInternal, err, "encode repository snapshot")
	}
	if err := c.Set(ctx, x.cacheKey(), data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, snapshotKeyType, len(data))
	return nil
}

// Load replaces the contents with a snapshot from c. It reports false when
// no usable snapshot exists.
func (x *Index) Load(ctx context.Context, c cache.Cache) (bool, error) {
	data, hit, err := c.Get(ctx, x.cacheKey())
	if err != nil {
		return false, err
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, snapshotKeyType)
		return false, nil
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil || snap.Root != x.root {
		x.logger.Debug("discarding repository snapshot", "root", x.root)
		observability.Cache().OnCacheMiss(ctx, snapshotKeyType)
		return false, nil
	}
	observability.Cache().OnCacheHit(ctx, snapshotKeyType)
	x.replace(snap.Artifacts)
	return true, nil
}

// ScanCached restores the index from c when possible and otherwise scans and
// saves the result.
func (x *Index) ScanCached(ctx context.Context, c cache.Cache, ttl time.Duration) (cached bool, err error) {
	if ok, err := x.Load(ctx, c); err != nil {
		x.logger.Warn("repository snapshot unavailable", "err", err)
	} else if ok {
		return true, nil
	}
	if err := x.Scan(ctx); err != nil {
		return false, err
	}
	if err := x.Save(ctx, c, ttl); err != nil {
		x.logger.Warn("cannot save repository snapshot", "err", err)
	}
	return false, nil
}
