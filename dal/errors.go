package dal

import (
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

var (
	// ErrConditionFailed is returned when a conditional write lost a race
	ErrConditionFailed = errors.New("conditional check failed")
	// ErrTableNotFound is returned when the target table does not exist
	ErrTableNotFound = errors.New("table not found")
	// ErrTableExists is returned when creating a table that already exists
	ErrTableExists = errors.New("table already exists")
)

// IsConditionFailed reports whether err means a version/existence condition did not hold
func IsConditionFailed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrConditionFailed) {
		return true
	}

	var canceled *types.TransactionCanceledException
	if errors.As(err, &canceled) {
		for _, reason := range canceled.CancellationReasons {
			if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
				return true
			}
		}
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "ConditionalCheckFailedException"
	}
	return false
}

// IsTableNotFound checks if error indicates table not found
func IsTableNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTableNotFound) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "ResourceNotFoundException"
	}

	errorStr := err.Error()
	return strings.Contains(errorStr, "ResourceNotFoundException") ||
		strings.Contains(errorStr, "Requested resource not found")
}

// IsTableExists checks if error indicates the table is already there
func IsTableExists(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTableExists) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "ResourceInUseException"
	}
	return false
}
