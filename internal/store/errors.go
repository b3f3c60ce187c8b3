package store

import "errors"

var (
	ErrBuildingQuery  = errors.New("error building query")
	ErrExecutingQuery = errors.New("error executing query")
	ErrScanningRow    = errors.New("error scanning row")
	ErrScanningRows   = errors.New("error scanning rows")
)
