package blob

import "errors"

var ErrBlobNotFound = errors.New("blob not found")
