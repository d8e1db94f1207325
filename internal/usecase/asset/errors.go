package asset

import "errors"

var (
	ErrUnknownDomain      = errors.New("domain is not available")
	ErrBadContentType     = errors.New("content-type header should be multipart/form-data")
	ErrInvalidExpires     = errors.New("incorrect Expires header date format, should be RFC 1123")
	ErrDomainMismatch     = errors.New("you do not have access to this domain")
	ErrMissingFile        = errors.New("file field is missing")
	ErrFileTooLarge       = errors.New("file is too large")
	ErrUnprocessableImage = errors.New("cannot decode uploaded file as an image")
	ErrAssetNotFound      = errors.New("no image found")
)
