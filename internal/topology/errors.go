package topology

import "errors"

var (
	// ErrEmptyTable is returned for a fallback file without buildings.
	ErrEmptyTable = errors.New("topology table has no buildings")
	// ErrCloudStatus is returned when the cloud rooms API answers with a non-2xx status.
	ErrCloudStatus = errors.New("unexpected cloud API status")
)
