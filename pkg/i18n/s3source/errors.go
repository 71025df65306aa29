package s3source

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

var (
	ErrInvalidConfig = errors.New("s3source: invalid configuration")
	ErrNilClient     = errors.New("s3source: s3 client is nil")
	ErrListFailed    = errors.New("s3source: listing objects failed")
	ErrNotFound      = errors.New("s3source: object not found")
	ErrAccessDenied  = errors.New("s3source: access denied")
	ErrReadFailed    = errors.New("s3source: reading object failed")
)

// wrapS3Error maps S3 API failures onto the package sentinels.
// The cause is formatted with %v so callers match on sentinels only.
func wrapS3Error(err error, fallback error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case "AccessDenied", "Forbidden":
			return fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
	}

	var notFound *types.NoSuchKey
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	return fmt.Errorf("%w: %v", fallback, err)
}
