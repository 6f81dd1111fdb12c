package redis

import "errors"

var (
	ErrFailedToParseConnString = errors.New("failed to parse redis connection string")
	ErrNotReady                = errors.New("redis connection is not ready")
	ErrHealthcheckFailed       = errors.New("healthcheck failed, connection is not available")
)
