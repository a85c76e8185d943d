package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"plm-registry-service/internal/core/domain"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Not found errors
	case errors.Is(err, domain.ErrAssemblyNotFound),
		errors.Is(err, domain.ErrAttachmentNotFound),
		errors.Is(err, domain.ErrLinkNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Conflict errors: a concurrent writer raced this operation. The caller
	// may retry after re-reading.
	case errors.Is(err, domain.ErrIdentityConflict),
		errors.Is(err, domain.ErrLinkConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	// Invalid transition errors
	case errors.Is(err, domain.ErrAlreadyReserved),
		errors.Is(err, domain.ErrNotReserved),
		errors.Is(err, domain.ErrReservedByOther),
		errors.Is(err, domain.ErrArtifactReserved),
		errors.Is(err, domain.ErrStateFinal),
		errors.Is(err, domain.ErrStateNotFinal),
		errors.Is(err, domain.ErrUnknownState):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})

	// Validation errors
	case errors.Is(err, domain.ErrBlankReference),
		errors.Is(err, domain.ErrBlankVersion),
		errors.Is(err, domain.ErrInvalidIteration),
		errors.Is(err, domain.ErrBlankUserID),
		errors.Is(err, domain.ErrBlankState),
		errors.Is(err, domain.ErrBlankAttribute),
		errors.Is(err, domain.ErrUnknownTemplate),
		errors.Is(err, domain.ErrUnknownSchema),
		errors.Is(err, domain.ErrUnknownVersion):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// Transient store errors: retry with backoff.
	case errors.Is(err, domain.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
