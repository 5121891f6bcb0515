package searchfilter

import (
	"errors"
)

var ErrEmptyTableNameSupplied = errors.New("empty table name supplied")
var ErrNilDatabaseConnection = errors.New("database connection must not be nil")
var ErrInvalidPerPageSupplied = errors.New("per-page value must be positive")
var ErrBuildingQueryFailed = errors.New("building query failed")
var ErrQueryingPostsFailed = errors.New("querying posts failed")
var ErrQueryingTermsFailed = errors.New("querying terms failed")
var ErrQueryingPostTypesFailed = errors.New("querying post types failed")
var ErrScanningDBRowFailed = errors.New("scanning database row failed")
var ErrBuildingPostFailed = errors.New("building post from database row failed")
