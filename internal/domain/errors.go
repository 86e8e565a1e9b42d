package domain

import "errors"

var (
	ErrUnauthenticated          = errors.New("not authenticated")
	ErrNotFoundOrUnauthorized   = errors.New("not found or not authorized")
	ErrThemeNotFound            = errors.New("theme not found")
	ErrGenerationNotFound       = errors.New("generation not found")
	ErrNoProductImages          = errors.New("no product images found")
	ErrUnexpectedResponseFormat = errors.New("unexpected output format")
	ErrDownloadFailed           = errors.New("download failed")
	ErrUploadFailed             = errors.New("upload failed")
	ErrNotFound                 = errors.New("not found")
)
