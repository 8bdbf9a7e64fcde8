package archive

import "errors"

var ErrReportNotFound = errors.New("archived report not found")
