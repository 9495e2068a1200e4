package services

import "errors"

var (
	ErrPolicyNotFound       = errors.New("policy not found")
	ErrNoAvailableSerial    = errors.New("no available serial")
	ErrSerialCreationFailed = errors.New("failed to register manual serial number")
	ErrSerialNotFound       = errors.New("serial not found")
	ErrSerialAlreadyIssued  = errors.New("serial already issued")
	ErrSubmissionNotFound   = errors.New("submission not found")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidFile          = errors.New("invalid file")
	ErrValidation           = errors.New("validation failed")
	ErrDuplicateSerial      = errors.New("serial already exists")
)
