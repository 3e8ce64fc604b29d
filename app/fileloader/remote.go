package fileloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the part of the S3 client used to fetch sources.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// maxRemoteSize bounds downloads so a wrong URL cannot exhaust memory.
const maxRemoteSize = 512 << 20

func readLimited(r io.Reader, ref string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxRemoteSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", ref, err)
	}
	if len(data) > maxRemoteSize {
		return nil, fmt.Errorf("%s is larger than %d bytes", ref, maxRemoteSize)
	}
	return data, nil
}

func fetchHTTP(ctx context.Context, client *http.Client, ref string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %s: %w", ref, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download %s: %s", ref, resp.Status)
	}
	return readLimited(resp.Body, ref)
}

// parseS3Ref splits "s3://bucket/key" into bucket and key.
func parseS3Ref(ref string) (string, string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", "", fmt.Errorf("invalid S3 reference %s: %w", ref, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("invalid S3 reference %s: expected s3://bucket/key", ref)
	}
	return u.Host, key, nil
}

func fetchS3(ctx context.Context, client S3API, ref string) ([]byte, error) {
	bucket, key, err := parseS3Ref(ref)
	if err != nil {
		return nil, err
	}
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", ref, err)
	}
	defer out.Body.Close()
	return readLimited(out.Body, ref)
}

// NewS3Client builds a client from the default AWS configuration chain.
func NewS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}
