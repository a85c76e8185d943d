package dto

import (
	"plm-registry-service/internal/core/domain"
)

type CreateAssemblyRequest struct {
	Reference         string `json:"reference" binding:"required"`
	Version           string `json:"version" binding:"required"`
	Iteration         int    `json:"iteration"`
	LifeCycleTemplate string `json:"life_cycle_template" binding:"required"`
	VersionSchema     string `json:"version_schema" binding:"required"`
	LifeCycleState    string `json:"life_cycle_state"`
	Designation       string `json:"designation" binding:"required"`
	Material          string `json:"material" binding:"required"`
}

type UpdateAssemblyRequest struct {
	Designation string `json:"designation" binding:"required"`
	Material    string `json:"material" binding:"required"`
}

type SetStateRequest struct {
	State string `json:"state" binding:"required"`
}

type LinkAttachmentRequest struct {
	AttachmentReference string `json:"attachment_reference" binding:"required"`
}

type AssemblyResponse struct {
	Reference         string  `json:"reference"`
	Version           string  `json:"version"`
	Iteration         int     `json:"iteration"`
	Reserved          bool    `json:"reserved"`
	ReservedBy        *string `json:"reserved_by"`
	LifeCycleState    string  `json:"life_cycle_state"`
	LifeCycleTemplate string  `json:"life_cycle_template"`
	VersionSchema     string  `json:"version_schema"`
	Designation       string  `json:"designation"`
	Material          string  `json:"material"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

func ToAssemblyResponse(a *domain.Assembly) AssemblyResponse {
	return AssemblyResponse{
		Reference:         a.Reference,
		Version:           a.Version,
		Iteration:         a.Iteration,
		Reserved:          a.Reserved,
		ReservedBy:        a.ReservedBy,
		LifeCycleState:    a.LifeCycleState,
		LifeCycleTemplate: a.LifeCycleTemplate,
		VersionSchema:     a.VersionSchema,
		Designation:       a.Designation,
		Material:          a.Material,
		CreatedAt:         a.CreatedAt.Format(timeFormat),
		UpdatedAt:         a.UpdatedAt.Format(timeFormat),
	}
}
