package mocks

import (
	"context"

	"base-janitor/core/lxd"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of lxd.Client
type Client struct {
	mock.Mock
}

func (m *Client) ListImages(ctx context.Context) ([]lxd.Image, error) {
	args := m.Called(ctx)
	if imgs, ok := args.Get(0).([]lxd.Image); ok {
		return imgs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) ListInstances(ctx context.Context) ([]lxd.Instance, error) {
	args := m.Called(ctx)
	if insts, ok := args.Get(0).([]lxd.Instance); ok {
		return insts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) DeleteImage(ctx context.Context, fingerprint string) error {
	args := m.Called(ctx, fingerprint)
	return args.Error(0)
}

func (m *Client) DeleteInstance(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
