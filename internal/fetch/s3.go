package fetch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/local/vectorcheck/internal/metrics"
)

// fetchS3ToTemp downloads s3://bucket/key to a temp file. The same byte
// ceiling applies as for HTTP sources.
func (f *Fetcher) fetchS3ToTemp(ctx context.Context, s3url string) (string, func(), error) {
	if !f.conf.AllowS3 {
		return "", nil, &ConnectionError{URL: s3url, Err: errors.New("s3 sources are not enabled")}
	}

	path := strings.TrimPrefix(s3url, "s3://")
	slash := strings.Index(path, "/")
	if slash <= 0 || slash == len(path)-1 {
		return "", nil, &ConnectionError{URL: s3url, Err: fmt.Errorf("invalid s3 url")}
	}
	bucket := path[:slash]
	key := path[slash+1:]

	cfg, err := awscfg.LoadDefaultConfig(ctx)
	if err != nil {
		return "", nil, &ConnectionError{URL: s3url, Err: err}
	}
	cli := s3.NewFromConfig(cfg)

	out, err := cli.GetObject(ctx, &s3.GetObjectInput{Bucket: &bucket, Key: &key})
	if err != nil {
		metrics.ObserveDownload("failed", 0)
		return "", nil, &ConnectionError{URL: s3url, Err: err}
	}
	defer out.Body.Close()

	if f.conf.MaxBytes > 0 && out.ContentLength != nil && *out.ContentLength > f.conf.MaxBytes {
		metrics.ObserveDownload("too_large", 0)
		return "", nil, &TooLargeError{Limit: f.conf.MaxBytes, URL: s3url}
	}

	tmp, err := os.CreateTemp("", "s3pdf-*.pdf")
	if err != nil {
		return "", nil, err
	}

	written, err := copyLimited(tmp, out.Body, f.conf.MaxBytes)
	cerr := tmp.Close()
	if err != nil {
		_ = os.Remove(tmp.Name())
		var tooLarge *TooLargeError
		if errors.As(err, &tooLarge) {
			metrics.ObserveDownload("too_large", 0)
			tooLarge.URL = s3url
			return "", nil, tooLarge
		}
		return "", nil, &ConnectionError{URL: s3url, Err: err}
	}
	if cerr != nil {
		_ = os.Remove(tmp.Name())
		return "", nil, cerr
	}

	metrics.ObserveDownload("success", 0)
	metrics.AddDownloadBytes(written)
	log.Debug().Str("bucket", bucket).Str("key", key).Int64("bytes", written).Msg("downloaded s3 pdf to temp")
	name := tmp.Name()
	return name, func() { _ = os.Remove(name) }, nil
}
