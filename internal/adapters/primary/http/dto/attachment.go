package dto

import (
	"time"

	"plm-registry-service/internal/core/domain"
)

const timeFormat = time.RFC3339

type CreateAttachmentRequest struct {
	Reference         string `json:"reference" binding:"required"`
	Version           string `json:"version" binding:"required"`
	Iteration         int    `json:"iteration"`
	LifeCycleTemplate string `json:"life_cycle_template" binding:"required"`
	VersionSchema     string `json:"version_schema" binding:"required"`
	LifeCycleState    string `json:"life_cycle_state"`
	Title             string `json:"title" binding:"required"`
	Format            string `json:"format" binding:"required"`
}

type UpdateAttachmentRequest struct {
	Title  string `json:"title" binding:"required"`
	Format string `json:"format" binding:"required"`
}

type AttachmentResponse struct {
	Reference         string  `json:"reference"`
	Version           string  `json:"version"`
	Iteration         int     `json:"iteration"`
	Reserved          bool    `json:"reserved"`
	ReservedBy        *string `json:"reserved_by"`
	LifeCycleState    string  `json:"life_cycle_state"`
	LifeCycleTemplate string  `json:"life_cycle_template"`
	VersionSchema     string  `json:"version_schema"`
	Title             string  `json:"title"`
	Format            string  `json:"format"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

func ToAttachmentResponse(a *domain.Attachment) AttachmentResponse {
	return AttachmentResponse{
		Reference:         a.Reference,
		Version:           a.Version,
		Iteration:         a.Iteration,
		Reserved:          a.Reserved,
		ReservedBy:        a.ReservedBy,
		LifeCycleState:    a.LifeCycleState,
		LifeCycleTemplate: a.LifeCycleTemplate,
		VersionSchema:     a.VersionSchema,
		Title:             a.Title,
		Format:            a.Format,
		CreatedAt:         a.CreatedAt.Format(timeFormat),
		UpdatedAt:         a.UpdatedAt.Format(timeFormat),
	}
}

type ListAttachmentsResponse struct {
	Items []AttachmentResponse `json:"items"`
	Total int                  `json:"total"`
}
