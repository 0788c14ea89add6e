package middleware

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akarpenko/studyflow/internal/app/models/dto"
	"github.com/akarpenko/studyflow/internal/pkg/apperrors"
	"github.com/akarpenko/studyflow/internal/pkg/logger"
)

// HandleAPIError maps service errors onto HTTP responses. Controllers call it
// for every error coming back from a service, so status codes and payload
// shape stay consistent across the API.
func HandleAPIError(c *gin.Context, err error) {
	detail := errorDetailFor(err)

	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Details != nil {
		detail.WithDetails(custom.Details)
	}

	status := statusFor(err)
	if status == 500 {
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled service error")
	}

	c.JSON(status, dto.APIResponse{Error: detail, Timestamp: time.Now()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrCourseNotFound),
		errors.Is(err, apperrors.ErrParentLinkNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrTeacherLinkNotFound),
		errors.Is(err, apperrors.ErrUserCourseNotFound),
		errors.Is(err, apperrors.ErrMaterialNotFound):
		return 404
	case errors.Is(err, apperrors.ErrCycleDetected),
		errors.Is(err, apperrors.ErrOrderConflict),
		errors.Is(err, apperrors.ErrCourseHasParents),
		errors.Is(err, apperrors.ErrCourseUIDExists),
		errors.Is(err, apperrors.ErrMaterialUIDExists),
		errors.Is(err, apperrors.ErrResourceAlreadyExists),
		errors.Is(err, apperrors.ErrConflict):
		return 409
	case errors.Is(err, apperrors.ErrSelfParent),
		errors.Is(err, apperrors.ErrDuplicateParents),
		errors.Is(err, apperrors.ErrInvalidOrderPosition),
		errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		return 400
	case errors.Is(err, apperrors.ErrInvalidAPIKey):
		return 401
	default:
		return 500
	}
}

func errorDetailFor(err error) *dto.ErrorDetail {
	switch {
	case errors.Is(err, apperrors.ErrSelfParent):
		return dto.NewErrorDetail(dto.ErrorCodeSelfParent, err.Error())
	case errors.Is(err, apperrors.ErrCycleDetected):
		return dto.NewErrorDetail(dto.ErrorCodeCycleDetected, err.Error())
	case errors.Is(err, apperrors.ErrCourseHasParents):
		return dto.NewErrorDetail(dto.ErrorCodeCourseHasParents, err.Error())
	case errors.Is(err, apperrors.ErrOrderConflict):
		return dto.NewErrorDetail(dto.ErrorCodeOrderConflict, err.Error())
	case errors.Is(err, apperrors.ErrInvalidOrderPosition):
		return dto.NewErrorDetail(dto.ErrorCodeInvalidPosition, err.Error())
	case errors.Is(err, apperrors.ErrCourseUIDExists),
		errors.Is(err, apperrors.ErrMaterialUIDExists),
		errors.Is(err, apperrors.ErrResourceAlreadyExists),
		errors.Is(err, apperrors.ErrConflict):
		return dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error())
	case errors.Is(err, apperrors.ErrInvalidAPIKey):
		return dto.NewErrorDetail(dto.ErrorCodeUnauthorized, err.Error())
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest),
		errors.Is(err, apperrors.ErrDuplicateParents):
		return dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())
	default:
		if statusFor(err) == 404 {
			return dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error())
		}
		return dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}
