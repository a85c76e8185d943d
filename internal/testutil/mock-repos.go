package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"plm-registry-service/internal/core/domain"
)

// MockAssemblyRepo is a mock of AssemblyRepository.
type MockAssemblyRepo struct {
	mock.Mock
}

func (m *MockAssemblyRepo) Get(ctx context.Context, id domain.Identity) (*domain.Assembly, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Assembly), args.Error(1)
}

func (m *MockAssemblyRepo) GetForUpdate(ctx context.Context, id domain.Identity) (*domain.Assembly, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Assembly), args.Error(1)
}

func (m *MockAssemblyRepo) Create(ctx context.Context, assembly *domain.Assembly) error {
	args := m.Called(ctx, assembly)
	return args.Error(0)
}

func (m *MockAssemblyRepo) Update(ctx context.Context, assembly *domain.Assembly) error {
	args := m.Called(ctx, assembly)
	return args.Error(0)
}

// MockAttachmentRepo is a mock of AttachmentRepository.
type MockAttachmentRepo struct {
	mock.Mock
}

func (m *MockAttachmentRepo) Get(ctx context.Context, id domain.Identity) (*domain.Attachment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Attachment), args.Error(1)
}

func (m *MockAttachmentRepo) GetForUpdate(ctx context.Context, id domain.Identity) (*domain.Attachment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Attachment), args.Error(1)
}

func (m *MockAttachmentRepo) Create(ctx context.Context, attachment *domain.Attachment) error {
	args := m.Called(ctx, attachment)
	return args.Error(0)
}

func (m *MockAttachmentRepo) Update(ctx context.Context, attachment *domain.Attachment) error {
	args := m.Called(ctx, attachment)
	return args.Error(0)
}

// MockLinkRepo is a mock of LinkRepository.
type MockLinkRepo struct {
	mock.Mock
}

func (m *MockLinkRepo) Link(ctx context.Context, assemblyRef, attachmentRef string) error {
	args := m.Called(ctx, assemblyRef, attachmentRef)
	return args.Error(0)
}

func (m *MockLinkRepo) Unlink(ctx context.Context, assemblyRef, attachmentRef string) error {
	args := m.Called(ctx, assemblyRef, attachmentRef)
	return args.Error(0)
}

func (m *MockLinkRepo) LinkedAttachments(ctx context.Context, assembly domain.Identity) ([]domain.Identity, error) {
	args := m.Called(ctx, assembly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Identity), args.Error(1)
}
