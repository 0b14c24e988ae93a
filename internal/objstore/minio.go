package objstore

import (
	"context"
	"strings"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// Store is an S3-compatible object store client. One Store serves both the
// input and output buckets; pagination, compression and tagging details stay
// behind it.
type Store struct {
	core    *minio.Core
	limiter *rate.Limiter
}

type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	// RequestsPerSec throttles store calls when > 0. Not a retry mechanism;
	// failed calls still propagate immediately.
	RequestsPerSec int
}

func New(opts Options) (*Store, error) {
	core, err := minio.NewCore(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "new minio client")
	}
	s := &Store{core: core}
	if opts.RequestsPerSec > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSec), opts.RequestsPerSec)
	}
	return s, nil
}

func (s *Store) wait(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.Wait(ctx)
}

// ListPage fetches one page of keys under bucket/prefix using the store's
// native continuation token.
func (s *Store) ListPage(ctx context.Context, bucket, prefix, token string) ([]string, string, error) {
	if err := s.wait(ctx); err != nil {
		return nil, "", err
	}
	res, err := s.core.ListObjectsV2(bucket, prefix, "", token, "", 0)
	if err != nil {
		return nil, "", errors.Wrapf(err, "list %s/%s", bucket, prefix)
	}
	keys := make([]string, 0, len(res.Contents))
	for _, obj := range res.Contents {
		keys = append(keys, obj.Key)
	}
	next := ""
	if res.IsTruncated {
		next = res.NextContinuationToken
	}
	return keys, next, nil
}

// ListAll returns every key under bucket/prefix across all pages.
func (s *Store) ListAll(ctx context.Context, bucket, prefix string) ([]string, error) {
	return ListAll(ctx, s, bucket, prefix)
}

// ReadChatPage retrieves and decodes one stored chat object.
func (s *Store) ReadChatPage(ctx context.Context, bucket, key string) ([]map[string]any, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	obj, err := s.core.Client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "get %s/%s", bucket, key)
	}
	defer obj.Close()
	items, err := DecodeChatPage(obj)
	if err != nil {
		return nil, errors.Wrapf(err, "object %s/%s", bucket, key)
	}
	return items, nil
}

// PutCSV uploads the finished document with descriptive metadata tags,
// overwriting any previous object at the same key.
func (s *Store) PutCSV(ctx context.Context, bucket, key, body string, tags map[string]string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	reader := strings.NewReader(body)
	_, err := s.core.Client.PutObject(ctx, bucket, key, reader, int64(reader.Len()), minio.PutObjectOptions{
		ContentType: "text/csv",
		UserTags:    tags,
	})
	return errors.Wrapf(err, "put %s/%s", bucket, key)
}
