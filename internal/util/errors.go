package util

import "errors"

var (
	ErrJobNotFound = errors.New("职位不存在")
	ErrNoJobID     = errors.New("missing job identifier")
)
