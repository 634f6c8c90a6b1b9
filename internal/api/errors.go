package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hacklingo-backend/internal/apperr"
	"github.com/rs/zerolog"
)

// statusFor maps a failure kind to its REST status
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindConflict, apperr.KindInvalidUpload:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// messageFor renders the REST message. NotFound never names the entity and
// internal failures are masked.
func messageFor(kind apperr.Kind, err error) string {
	switch kind {
	case apperr.KindNotFound:
		return apperr.MsgDataNotFound
	case apperr.KindInternal:
		return apperr.MsgInternal
	default:
		return err.Error()
	}
}

// fail writes err as {"message": ...} and aborts the request
func (h *handler) fail(c *gin.Context, log zerolog.Logger, err error) {
	kind := apperr.KindOf(err)
	if h.metrics != nil {
		h.metrics.ObserveError("rest", kind.String())
	}
	if kind == apperr.KindInternal {
		log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("route", c.FullPath()).
			Msg("Request failed")
	}
	c.AbortWithStatusJSON(statusFor(kind), gin.H{"message": messageFor(kind, err)})
}
