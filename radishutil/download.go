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
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/cenkalti/backoff"
	"github.com/google/go-cloud/blob"
	"github.com/google/go-cloud/blob/fileblob"
	"github.com/google/go-cloud/blob/gcsblob"
	"github.com/google/go-cloud/blob/s3blob"
	"github.com/google/go-cloud/gcp"
	"github.com/sirupsen/logrus"
)

// maybeDownload checks if the input is an existing local file.
// If not, and path is a URL or a blob location, it downloads the file
// to a temporary directory and returns the path to the downloaded file,
// which has the same base name as the original. Each download is
// attempted up to retries+1 times. Other paths are returned unchanged.
func maybeDownload(ctx context.Context, path string, retries int, log logrus.FieldLogger) (string, error) {
	if retries < 0 {
		return "", fmt.Errorf("radishutil: retries must not be negative, got %d", retries)
	}
	// Check if local file exists. If it does, return the given path.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return path, nil
	}

	var fetch func(context.Context, string, io.Writer) error
	switch {
	case strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://"):
		fetch = fetchHTTP
	case IsBlob(path):
		fetch = fetchBlob
	default:
		return path, nil
	}

	u, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("radishutil: invalid download location %s: %v", path, err)
	}
	dir, err := os.MkdirTemp("", "radish")
	if err != nil {
		return "", fmt.Errorf("radishutil: failed creating temporary download directory: %v", err)
	}
	local := filepath.Join(dir, filepath.Base(u.Path))

	// WithMaxRetries treats zero as unlimited, so a single attempt needs
	// StopBackOff instead.
	var b backoff.BackOff = &backoff.StopBackOff{}
	if retries > 0 {
		b = backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(retries))
	}
	b = backoff.WithContext(b, ctx)
	err = backoff.RetryNotify(
		func() error {
			w, err := os.Create(local)
			if err != nil {
				return err
			}
			if err := fetch(ctx, path, w); err != nil {
				w.Close()
				return err
			}
			return w.Close()
		},
		b,
		func(err error, d time.Duration) {
			log.WithField("path", path).Warnf("%v: retrying in %v", err, d)
		},
	)
	if err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("radishutil: downloading %s: %v", path, err)
	}
	log.WithField("path", path).Debugf("downloaded to %s", local)
	return local, nil
}

// fetchHTTP copies the file at the given URL to w.
func fetchHTTP(ctx context.Context, path string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", path, resp.Status)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

// fetchBlob copies the file at the given blob location to w.
func fetchBlob(ctx context.Context, path string, w io.Writer) error {
	bucket, key, err := OpenBlob(ctx, path)
	if err != nil {
		return err
	}
	r, err := bucket.NewReader(ctx, key)
	if err != nil {
		return err
	}
	defer r.Close()
	_, err = io.Copy(w, r)
	return err
}

// IsBlob returns whether the given filename represents a blob.
// (i.e., if it starts with `gs://`, 's3://', or 'file://').
func IsBlob(path string) bool {
	return strings.HasPrefix(path, "gs://") || strings.HasPrefix(path, "s3://") || strings.HasPrefix(path, "file://")
}

// OpenBlob returns the blob storage bucket holding the file at
// location and the key of the file within the bucket.
// location must be in the format 'provider://name/key', where provider
// is the name of the storage provider and name is the name of the bucket.
// The currently accepted storage providers are "file" for the local filesystem
// (e.g., for testing), "gs" for Google Cloud Storage, and "s3" for AWS S3.
// For "file", the bucket is the directory containing the file.
func OpenBlob(ctx context.Context, location string) (*blob.Bucket, string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, "", fmt.Errorf("radishutil.OpenBlob: %v", err)
	}
	var bucket *blob.Bucket
	key := strings.TrimPrefix(u.Path, "/")
	switch u.Scheme {
	case "file":
		var dir string
		dir, key = filepath.Split(filepath.FromSlash(u.Host + u.Path))
		if dir == "" {
			dir = "."
		}
		bucket, err = fileblob.NewBucket(dir)
	case "gs":
		bucket, err = gsBucket(ctx, u.Host)
	case "s3":
		bucket, err = s3Bucket(ctx, u.Host)
	default:
		return nil, "", fmt.Errorf("radishutil.OpenBlob: invalid provider %s", u.Scheme)
	}
	if err != nil {
		return nil, "", fmt.Errorf("radishutil.OpenBlob: %v", err)
	}
	return bucket, key, nil
}

func gsBucket(ctx context.Context, name string) (*blob.Bucket, error) {
	// See here for information on credentials:
	// https://cloud.google.com/docs/authentication/getting-started
	creds, err := gcp.DefaultCredentials(ctx)
	if err != nil {
		return nil, err
	}
	c, err := gcp.NewHTTPClient(gcp.DefaultTransport(), gcp.CredentialsTokenSource(creds))
	if err != nil {
		return nil, err
	}
	return gcsblob.OpenBucket(ctx, name, c)
}

// s3Bucket opens an s3 storage bucket. It assumes the following
// environment variables are set: AWS_REGION, AWS_ACCESS_KEY_ID, and
// AWS_SECRET_ACCESS_KEY.
func s3Bucket(ctx context.Context, name string) (*blob.Bucket, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-2"
	}
	c := &aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewEnvCredentials(),
	}
	s, err := session.NewSession(c)
	if err != nil {
		return nil, err
	}
	return s3blob.OpenBucket(ctx, s, name)
}
