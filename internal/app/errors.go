package service

import "errors"

var (
	ErrNotStarted        = errors.New("service not started")
	ErrNoAcquirer        = errors.New("no acquirer configured")
	ErrInvalidRequest    = errors.New("invalid report request")
	ErrReportInProgress  = errors.New("report already in progress")
	ErrTooManyReports    = errors.New("too many reports in progress")
	ErrAcquisitionFailed = errors.New("data acquisition failed")
	ErrModelingFailed    = errors.New("modeling failed")
)
