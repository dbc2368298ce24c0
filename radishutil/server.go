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

package radishutil

import (
	"fmt"
	"math"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/radish"
	"github.com/spf13/cast"
)

// Server serves radar file metadata and sweeps over HTTP:
//
//	GET /scan?path=FILE               volume metadata
//	GET /sweep?path=FILE&index=I      one sweep, with optional
//	                                  moments=A,B decode=BOOL mask=BOOL
//	                                  maskvalue=FLOAT
//	GET /metrics                      Prometheus metrics
//	GET /healthz                      liveness
//
// Responses are JSON. FILE is resolved against the server's root
// directory, and files outside of it are refused.
type Server struct {
	reader  *radish.CachedReader
	root    string
	log     logrus.FieldLogger
	metrics *Metrics
	mux     *http.ServeMux
}

// NewServer returns a server that reads files under root with reader.
func NewServer(reader *radish.CachedReader, root string, log logrus.FieldLogger, metrics *Metrics) (*Server, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("radishutil: server root: %v", err)
	}
	s := &Server{
		reader:  reader,
		root:    root,
		log:     log,
		metrics: metrics,
		mux:     http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /scan", s.handleScan)
	s.mux.HandleFunc("GET /sweep", s.handleSweep)
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.gatherer, promhttp.HandlerOpts{}))
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	return s, nil
}

// ServeHTTP is part of the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("path")
	if name == "" {
		http.Error(w, "missing required parameter 'path'", http.StatusBadRequest)
		return
	}
	path, ok := s.resolve(w, name)
	if !ok {
		return
	}
	start := time.Now()
	md, err := s.reader.ScanFile(r.Context(), path)
	s.metrics.observe("scan", start, err)
	if err != nil {
		s.readError(w, "scan", name, path, err)
		return
	}
	s.respond(w, md)
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("path")
	if name == "" {
		http.Error(w, "missing required parameter 'path'", http.StatusBadRequest)
		return
	}
	if q.Get("index") == "" {
		http.Error(w, "missing required parameter 'index'", http.StatusBadRequest)
		return
	}
	index, err := strconv.Atoi(q.Get("index"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid sweep index %q", q.Get("index")), http.StatusBadRequest)
		return
	}
	opts, err := queryMomentOptions(q.Get)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	path, ok := s.resolve(w, name)
	if !ok {
		return
	}

	start := time.Now()
	sweep, err := s.reader.ReadSweep(r.Context(), path, index)
	s.metrics.observe("sweep", start, err)
	if err != nil {
		s.readError(w, "sweep", name, path, err)
		return
	}
	sweep, decoded := opts.prepare(sweep)
	s.metrics.MomentsDecoded.Add(float64(decoded))
	s.respond(w, newSweepView(sweep))
}

// resolve maps a requested file name onto the file system. Relative
// names are taken from the root; absolute names must lie beneath it.
// It writes a 403 response and returns false for anything else.
func (s *Server) resolve(w http.ResponseWriter, name string) (string, bool) {
	path := filepath.FromSlash(name)
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.root, path)
	}
	path = filepath.Clean(path)
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		s.log.WithFields(logrus.Fields{"path": name, "status": http.StatusForbidden}).Warn("path outside of server root")
		http.Error(w, fmt.Sprintf("path %q is outside of the served directory", name), http.StatusForbidden)
		return "", false
	}
	return path, true
}

// queryMomentOptions reads moment options from request parameters,
// using the defaults for parameters that are absent.
func queryMomentOptions(get func(string) string) (momentOptions, error) {
	o := defaultMomentOptions()
	if v := get("moments"); v != "" {
		o.names = splitList([]string{v})
	}
	for _, b := range []struct {
		name string
		dst  *bool
	}{{"decode", &o.decode}, {"mask", &o.mask}} {
		if v := get(b.name); v != "" {
			x, err := cast.ToBoolE(v)
			if err != nil {
				return o, fmt.Errorf("invalid value for '%s': %v", b.name, err)
			}
			*b.dst = x
		}
	}
	if v := get("maskvalue"); v != "" {
		x, err := parseMaskValue(v)
		if err != nil {
			return o, err
		}
		o.maskValue = x
	}
	return o, nil
}

// parseMaskValue parses a mask sentinel such as "NaN" or "-9999".
func parseMaskValue(v string) (float32, error) {
	x, err := cast.ToFloat64E(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid mask value %q: %v", v, err)
	}
	if math.IsNaN(x) {
		return float32(math.NaN()), nil
	}
	return float32(x), nil
}

// readError writes an HTTP error for a failed read: 404 for a sweep
// index that is out of range, 415 for an unsupported file and 500
// otherwise. The response names the file as requested, not by its
// location on the server.
func (s *Server) readError(w http.ResponseWriter, op, name, path string, err error) {
	code := http.StatusInternalServerError
	switch radish.KindOf(err) {
	case radish.KindInvalidSweepIndex:
		code = http.StatusNotFound
	case radish.KindInvalidFormat:
		code = http.StatusUnsupportedMediaType
	}
	s.log.WithFields(logrus.Fields{"op": op, "path": path, "status": code}).Warn(err)
	http.Error(w, strings.ReplaceAll(err.Error(), path, name), code)
}

func (s *Server) respond(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := writeJSON(w, v); err != nil {
		s.log.WithError(err).Error("writing response")
	}
}
