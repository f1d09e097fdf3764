package service

import (
	"context"
	"errors"

	"github.com/haierkeys/fast-latex-notes/pkg/code"
	"github.com/haierkeys/fast-latex-notes/pkg/storage"
	"github.com/haierkeys/fast-latex-notes/pkg/writequeue"
)

// storageError maps infrastructure errors onto response codes, code errors pass through
// storageError 将基础设施错误映射为错误码，code 错误原样返回
func storageError(err error) error {
	if err == nil {
		return nil
	}
	var c *code.Code
	if errors.As(err, &c) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, storage.ErrUnavailable):
		return code.ErrorStorageUnavailable.WithDetails(err.Error())
	case errors.Is(err, writequeue.ErrWriteQueueFull):
		return code.ErrorTooManyRequests.WithDetails(err.Error())
	}
	return code.ErrorStorageFailed.WithDetails(err.Error())
}
