package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"plm-registry-service/internal/core/domain"
	"plm-registry-service/internal/core/services"
)

type Handler struct {
	assemblySvc   *services.AssemblyService
	attachmentSvc *services.AttachmentService
}

func New(assemblySvc *services.AssemblyService, attachmentSvc *services.AttachmentService) *Handler {
	return &Handler{
		assemblySvc:   assemblySvc,
		attachmentSvc: attachmentSvc,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Assemblies
	r.POST("/assemblies", h.CreateAssembly)
	r.GET("/assemblies/:reference/:version/:iteration", h.GetAssembly)
	r.POST("/assemblies/:reference/:version/:iteration/reserve", h.ReserveAssembly)
	r.PATCH("/assemblies/:reference/:version/:iteration", h.UpdateAssembly)
	r.POST("/assemblies/:reference/:version/:iteration/free", h.FreeAssembly)
	r.PUT("/assemblies/:reference/:version/:iteration/state", h.SetAssemblyState)
	r.POST("/assemblies/:reference/:version/:iteration/revise", h.ReviseAssembly)
	r.GET("/assemblies/:reference/:version/:iteration/attachments", h.ListAssemblyAttachments)

	// Assembly-attachment links (keyed by reference only)
	r.POST("/assemblies/:reference/links", h.LinkAttachment)
	r.DELETE("/assemblies/:reference/links/:attachment", h.UnlinkAttachment)

	// Attachments
	r.POST("/attachments", h.CreateAttachment)
	r.GET("/attachments/:reference/:version/:iteration", h.GetAttachment)
	r.POST("/attachments/:reference/:version/:iteration/reserve", h.ReserveAttachment)
	r.PATCH("/attachments/:reference/:version/:iteration", h.UpdateAttachment)
	r.POST("/attachments/:reference/:version/:iteration/free", h.FreeAttachment)
	r.PUT("/attachments/:reference/:version/:iteration/state", h.SetAttachmentState)
	r.POST("/attachments/:reference/:version/:iteration/revise", h.ReviseAttachment)
}

const headerUserID = "User-ID"

// getUserID extracts the already-authenticated acting user from the request.
// Authentication itself happens upstream; the id is opaque here.
func getUserID(c *gin.Context) (string, error) {
	userID := c.GetHeader(headerUserID)
	if userID == "" {
		return "", domain.ErrBlankUserID
	}
	return userID, nil
}

// pathIdentity parses the reference/version/iteration path segments.
func pathIdentity(c *gin.Context) (domain.Identity, bool) {
	iteration, err := strconv.Atoi(c.Param("iteration"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid iteration"})
		return domain.Identity{}, false
	}
	id, err := domain.NewIdentity(c.Param("reference"), c.Param("version"), iteration)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return domain.Identity{}, false
	}
	return id, true
}
