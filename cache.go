/*
Copyright © 2024 the Radish authors.
This file is part of Radish.

Radish is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Radish is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Radish.  If not, see <http://www.gnu.org/licenses/>.
*/

package radish

import (
	"context"
	"fmt"
	"runtime"

	"github.com/ctessum/requestcache"
)

// CachedReader wraps a Backend with an in-memory cache of recently
// read metadata and sweeps. Concurrent requests for the same item are
// combined into one read. It is safe for concurrent use.
//
// Results are shared between callers, so a moment must be cloned
// before it is modified. Failed reads are cached like successful ones,
// so files are expected not to change while they are being served.
type CachedReader struct {
	backend Backend
	cache   *requestcache.Cache
}

type cacheRequest struct {
	path  string
	index int
	scan  bool
}

// cacheResult carries read errors through the cache as data. The
// deduplicating cache only releases waiting requests when processing
// succeeds.
type cacheResult struct {
	val interface{}
	err error
}

// NewCachedReader returns a reader that keeps up to size results in
// memory. If b is nil, the backend is chosen for each file with
// AutoBackend.
func NewCachedReader(b Backend, size int) *CachedReader {
	r := &CachedReader{backend: b}
	r.cache = requestcache.NewCache(r.process, runtime.GOMAXPROCS(-1),
		requestcache.Deduplicate(), requestcache.Memory(size))
	return r
}

func (r *CachedReader) process(ctx context.Context, request interface{}) (interface{}, error) {
	req := request.(cacheRequest)
	b := r.backend
	if b == nil {
		var err error
		if b, err = AutoBackend(req.path); err != nil {
			return cacheResult{err: err}, nil
		}
	}
	var res cacheResult
	if req.scan {
		res.val, res.err = b.ScanFile(req.path)
	} else {
		res.val, res.err = b.ReadSweep(req.path, req.index)
	}
	return res, nil
}

func (r *CachedReader) get(ctx context.Context, req cacheRequest, key string) (interface{}, error) {
	result, err := r.cache.NewRequest(ctx, req, key).Result()
	if err != nil {
		return nil, err
	}
	res := result.(cacheResult)
	return res.val, res.err
}

// ScanFile returns the volume metadata of the file at path.
func (r *CachedReader) ScanFile(ctx context.Context, path string) (*VolumeMetadata, error) {
	v, err := r.get(ctx, cacheRequest{path: path, scan: true}, "scan:"+path)
	if err != nil {
		return nil, err
	}
	return v.(*VolumeMetadata), nil
}

// ReadSweep returns sweep i of the file at path.
func (r *CachedReader) ReadSweep(ctx context.Context, path string, i int) (*Sweep, error) {
	v, err := r.get(ctx, cacheRequest{path: path, index: i}, fmt.Sprintf("sweep:%d:%s", i, path))
	if err != nil {
		return nil, err
	}
	return v.(*Sweep), nil
}
