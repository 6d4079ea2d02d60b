package scheduler

import "errors"

var (
	ErrNoJobsRegistered     = errors.New("scheduler: no jobs registered")
	ErrJobAlreadyRegistered = errors.New("scheduler: job already registered")
)
