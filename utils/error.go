package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

// ErrorLockNotObtained is returned when a record lock is held by another caller.
var ErrorLockNotObtained = errors.New("record is locked by another request")
