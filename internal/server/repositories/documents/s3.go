package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/models"
)

// ObjectAPI is the subset of *s3.Client used by S3Repository.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

var _ ObjectAPI = (*s3.Client)(nil)

// S3Repository keeps one JSON object per document under
// owners/{owner}/{kind}/{id}.json. Inserts rely on If-None-Match and updates
// on If-Match, so concurrent writers cannot silently overwrite each other.
type S3Repository struct {
	api    ObjectAPI
	bucket string
}

func NewS3Repository(api ObjectAPI, bucket string) *S3Repository {
	return &S3Repository{api: api, bucket: bucket}
}

// ErrConcurrentUpdate is returned when the object changed between read and write.
var ErrConcurrentUpdate = errors.New("document changed concurrently")

func ownerPrefix(ownerID string, kind models.Kind) string {
	return path.Join("owners", url.PathEscape(ownerID), string(kind)) + "/"
}

func objectKey(ownerID string, kind models.Kind, id string) string {
	return ownerPrefix(ownerID, kind) + url.PathEscape(id) + ".json"
}

// EnsureBucket creates the bucket when HeadBucket reports it missing.
func (r *S3Repository) EnsureBucket(ctx context.Context) error {
	_, err := r.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(r.bucket)})
	if err == nil {
		return nil
	}
	var nf *types.NotFound
	if !errors.As(err, &nf) && apiErrorCode(err) != "NoSuchBucket" && apiErrorCode(err) != "NotFound" {
		return fmt.Errorf("s3 head bucket: %w", err)
	}

	_, err = r.api.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(r.bucket)})
	var owned *types.BucketAlreadyOwnedByYou
	if err != nil && !errors.As(err, &owned) {
		return fmt.Errorf("s3 create bucket: %w", err)
	}
	return nil
}

func (r *S3Repository) List(ctx context.Context, ownerID string, kind models.Kind) ([]models.Document, error) {
	p := s3.NewListObjectsV2Paginator(r.api, &s3.ListObjectsV2Input{
		Bucket: aws.String(r.bucket),
		Prefix: aws.String(ownerPrefix(ownerID, kind)),
	})

	var result []models.Document
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3 list: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !strings.HasSuffix(key, ".json") {
				continue
			}
			d, _, err := r.read(ctx, key)
			if errors.Is(err, common.ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			result = append(result, d)
		}
	}
	sortDocuments(result)
	return result, nil
}

func (r *S3Repository) Get(ctx context.Context, ownerID string, kind models.Kind, id string) (models.Document, error) {
	d, _, err := r.read(ctx, objectKey(ownerID, kind, id))
	return d, err
}

func (r *S3Repository) Insert(ctx context.Context, doc models.Document) error {
	err := r.write(ctx, doc, func(in *s3.PutObjectInput) { in.IfNoneMatch = aws.String("*") })
	if isPreconditionFailed(err) {
		return common.ErrAlreadyExists
	}
	return err
}

func (r *S3Repository) Update(ctx context.Context, doc models.Document) error {
	stored, etag, err := r.read(ctx, objectKey(doc.OwnerID, doc.Kind, doc.ID))
	if err != nil {
		return err
	}
	return r.replace(ctx, merge(stored, doc), etag)
}

func (r *S3Repository) SoftDelete(ctx context.Context, ownerID string, kind models.Kind, id string, at time.Time) error {
	stored, etag, err := r.read(ctx, objectKey(ownerID, kind, id))
	if err != nil {
		return err
	}
	if stored.IsTombstone() {
		return nil
	}
	return r.replace(ctx, tombstone(stored, at), etag)
}

func (r *S3Repository) replace(ctx context.Context, doc models.Document, etag string) error {
	err := r.write(ctx, doc, func(in *s3.PutObjectInput) {
		if etag != "" {
			in.IfMatch = aws.String(etag)
		}
	})
	if isPreconditionFailed(err) {
		return ErrConcurrentUpdate
	}
	return err
}

func (r *S3Repository) read(ctx context.Context, key string) (models.Document, string, error) {
	out, err := r.api.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(r.bucket), Key: aws.String(key)})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) || apiErrorCode(err) == "NoSuchKey" {
			return models.Document{}, "", common.ErrNotFound
		}
		return models.Document{}, "", fmt.Errorf("s3 get %s: %w", key, err)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return models.Document{}, "", fmt.Errorf("s3 read %s: %w", key, err)
	}
	var d models.Document
	if err := json.Unmarshal(b, &d); err != nil {
		return models.Document{}, "", fmt.Errorf("s3 decode %s: %w", key, err)
	}
	return d, aws.ToString(out.ETag), nil
}

func (r *S3Repository) write(ctx context.Context, doc models.Document, opt func(*s3.PutObjectInput)) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	in := &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(objectKey(doc.OwnerID, doc.Kind, doc.ID)),
		Body:        bytes.NewReader(b),
		ContentType: aws.String("application/json"),
	}
	opt(in)
	if _, err := r.api.PutObject(ctx, in); err != nil {
		if isPreconditionFailed(err) {
			return err
		}
		return fmt.Errorf("s3 put: %w", err)
	}
	return nil
}

func apiErrorCode(err error) string {
	var ae smithy.APIError
	if errors.As(err, &ae) {
		return ae.ErrorCode()
	}
	return ""
}

func isPreconditionFailed(err error) bool {
	switch apiErrorCode(err) {
	case "PreconditionFailed", "ConditionalRequestConflict":
		return true
	}
	return false
}
