package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"plm-registry-service/internal/adapters/primary/http/dto"
	"plm-registry-service/internal/core/domain"
)

func (h *Handler) CreateAssembly(c *gin.Context) {
	var req dto.CreateAssemblyRequest
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

	assembly, err := h.assemblySvc.Create(c.Request.Context(), id,
		req.LifeCycleTemplate, req.VersionSchema, req.LifeCycleState,
		req.Designation, req.Material)
	if err != nil {
		log.WithError(err).Error("create assembly failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAssemblyResponse(assembly))
}

func (h *Handler) GetAssembly(c *gin.Context) {
	id, ok := pathIdentity(c)
	if !ok {
		return
	}

	assembly, err := h.assemblySvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssemblyResponse(assembly))
}

func (h *Handler) ReserveAssembly(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, ok := pathIdentity(c)
	if !ok {
		return
	}

	next, err := h.assemblySvc.Reserve(c.Request.Context(), userID, id)
	if err != nil {
		log.WithError(err).WithField("assembly", id.String()).Error("reserve assembly failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAssemblyResponse(next))
}

func (h *Handler) UpdateAssembly(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, ok := pathIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateAssemblyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assembly, err := h.assemblySvc.Update(c.Request.Context(), userID, id, req.Designation, req.Material)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssemblyResponse(assembly))
}

func (h *Handler) FreeAssembly(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, ok := pathIdentity(c)
	if !ok {
		return
	}

	assembly, err := h.assemblySvc.Free(c.Request.Context(), userID, id)
	if err != nil {
		log.WithError(err).WithField("assembly", id.String()).Error("free assembly failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssemblyResponse(assembly))
}

func (h *Handler) SetAssemblyState(c *gin.Context) {
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

	assembly, err := h.assemblySvc.SetState(c.Request.Context(), userID, id, req.State)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssemblyResponse(assembly))
}

func (h *Handler) ReviseAssembly(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, ok := pathIdentity(c)
	if !ok {
		return
	}

	next, err := h.assemblySvc.Revise(c.Request.Context(), userID, id)
	if err != nil {
		log.WithError(err).WithField("assembly", id.String()).Error("revise assembly failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAssemblyResponse(next))
}

func (h *Handler) ListAssemblyAttachments(c *gin.Context) {
	id, ok := pathIdentity(c)
	if !ok {
		return
	}

	attachments, err := h.assemblySvc.Attachments(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	items := make([]dto.AttachmentResponse, 0, len(attachments))
	for _, att := range attachments {
		items = append(items, dto.ToAttachmentResponse(att))
	}

	c.JSON(http.StatusOK, dto.ListAttachmentsResponse{Items: items, Total: len(items)})
}

func (h *Handler) LinkAttachment(c *gin.Context) {
	var req dto.LinkAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.assemblySvc.Link(c.Request.Context(), c.Param("reference"), req.AttachmentReference); err != nil {
		mapDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) UnlinkAttachment(c *gin.Context) {
	if err := h.assemblySvc.Unlink(c.Request.Context(), c.Param("reference"), c.Param("attachment")); err != nil {
		mapDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
