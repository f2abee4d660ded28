package manager

import "github.com/cockroachdb/errors"

var ErrManagerNotFound = errors.New("manager not found")
