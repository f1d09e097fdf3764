package aws_s3

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/haierkeys/fast-latex-notes/pkg/fileurl"
	"github.com/pkg/errors"
)

func (p *S3) objectKey(key string) string {
	return path.Join(strings.Trim(p.CustomPath, "/"), fileurl.KeyFileName(key))
}

func (p *S3) Get(ctx context.Context, key string) (string, bool, error) {
	out, err := p.S3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.BucketName),
		Key:    aws.String(p.objectKey(key)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return "", false, nil
		}
		return "", false, errors.Wrap(err, "aws_s3")
	}
	defer out.Body.Close()

	content, err := io.ReadAll(out.Body)
	if err != nil {
		return "", false, errors.Wrap(err, "aws_s3")
	}
	return string(content), true, nil
}

func (p *S3) Set(ctx context.Context, key string, value string) error {
	_, err := p.S3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.BucketName),
		Key:         aws.String(p.objectKey(key)),
		Body:        strings.NewReader(value),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return errors.Wrap(err, "aws_s3")
	}
	return nil
}

func (p *S3) Remove(ctx context.Context, key string) error {
	_, err := p.S3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.BucketName),
		Key:    aws.String(p.objectKey(key)),
	})
	if err != nil {
		return errors.Wrap(err, "aws_s3")
	}
	return nil
}
