package trace

import "errors"

// ErrNoRecords is returned by Plot when nothing has been recorded yet.
var ErrNoRecords = errors.New("trace: no records to plot")
