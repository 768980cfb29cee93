package repository

import "errors"

var (
	ErrPetNotFound      = errors.New("pet not found")
	ErrThreadNotFound   = errors.New("thread not found")
	ErrApprovalNotFound = errors.New("pending approval not found")
	ErrAlreadyProcessed = errors.New("message already processed")
	ErrDuplicateRecord  = errors.New("duplicate record")
	ErrInvalidInput     = errors.New("invalid input parameters")
)
