package services

import (
	"context"
	"errors"

	"tradepulse/internal/dataprocessing"
	apperrors "tradepulse/internal/errors"
	"tradepulse/pkg/contracts/domain"
)

// Service errors
var (
	ErrUnknownFormat = errors.New("unknown export format")
	ErrNoResult      = errors.New("no analysis result to export")
)

// toAPIError translates intake and engine failures into API errors.
// Context errors and unknown failures are returned unchanged.
func toAPIError(err error, files []domain.UploadedFile) error {
	var (
		dateErr *dataprocessing.InvalidDateError
		apiErr  *apperrors.APIError
	)

	switch {
	case err == nil:
		return nil
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, dataprocessing.ErrNoFiles):
		return apperrors.ErrNoFiles
	case errors.Is(err, dataprocessing.ErrNoParsedFiles):
		base := apperrors.ErrNoParsedFiles
		return apperrors.NewWithDetails(base.StatusCode, base.ErrorCode, base.Message, map[string]interface{}{"files": files})
	case errors.Is(err, dataprocessing.ErrNoMatchingRecords):
		return apperrors.ErrNoMatchingRecords
	case errors.Is(err, dataprocessing.ErrNoValidDates):
		return apperrors.ErrNoValidDates
	case errors.As(err, &dateErr):
		return apperrors.InvalidDateError(dateErr.Text)
	default:
		return err
	}
}

// failureReason is the metric label of a failed run
func failureReason(err error) string {
	var apiErr *apperrors.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.ErrorCode
	case errors.Is(err, context.Canceled):
		return "CANCELED"
	case errors.Is(err, context.DeadlineExceeded):
		return "TIMEOUT"
	default:
		return apperrors.CodeInternal
	}
}
