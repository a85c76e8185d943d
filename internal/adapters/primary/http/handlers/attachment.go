package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"plm-registry-service/internal/adapters/primary/http/dto"
	"plm-registry-service/internal/core/domain"
)

func (h *Handler) CreateAttachment(c *gin.Context) {
	var req dto.CreateAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Iteration == 0 {
		req.Iteration = 1
	}
	id, err := domain.NewIdentity(req.Reference, req.Version, req.Iteration)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attachment, err := h.attachmentSvc.Create(c.Request.Context(), id,
		req.LifeCycleTemplate, req.VersionSchema, req.LifeCycleState,
		req.Title, req.Format)
	if err != nil {
		log.WithError(err).Error("create attachment failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAttachmentResponse(attachment))
}

func (h *Handler) GetAttachment(c *gin.Context) {
	id, ok := pathIdentity(c)
	if !ok {
		return
	}

	attachment, err := h.attachmentSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAttachmentResponse(attachment))
}

func (h *Handler) ReserveAttachment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, ok := pathIdentity(c)
	if !ok {
		return
	}

	next, err := h.attachmentSvc.Reserve(c.Request.Context(), userID, id)
	if err != nil {
		log.WithError(err).WithField("attachment", id.String()).Error("reserve attachment failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAttachmentResponse(next))
}

func (h *Handler) UpdateAttachment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, ok := pathIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attachment, err := h.attachmentSvc.Update(c.Request.Context(), userID, id, req.Title, req.Format)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAttachmentResponse(attachment))
}

func (h *Handler) FreeAttachment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, ok := pathIdentity(c)
	if !ok {
		return
	}

	attachment, err := h.attachmentSvc.Free(c.Request.Context(), userID, id)
	if err != nil {
		log.WithError(err).WithField("attachment", id.String()).Error("free attachment failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAttachmentResponse(attachment))
}

func (h *Handler) SetAttachmentState(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, ok := pathIdentity(c)
	if !ok {
		return
	}

	var req dto.SetStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attachment, err := h.attachmentSvc.SetState(c.Request.Context(), userID, id, req.State)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAttachmentResponse(attachment))
}

func (h *Handler) ReviseAttachment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, ok := pathIdentity(c)
	if !ok {
		return
	}

	next, err := h.attachmentSvc.Revise(c.Request.Context(), userID, id)
	if err != nil {
		log.WithError(err).WithField("attachment", id.String()).Error("revise attachment failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAttachmentResponse(next))
}
