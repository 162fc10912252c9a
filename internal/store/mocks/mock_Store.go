// Package mocks provides test doubles for the store.
package mocks

import (
	"context"
	"time"

	mock "github.com/stretchr/testify/mock"

	model "github.com/sells-group/answer-trust/internal/model"
)

// MockStore is a mock type for the Store interface.
type MockStore struct {
	mock.Mock
}

// GetCachedCrawl provides a mock function with given fields: ctx, siteURL
func (_m *MockStore) GetCachedCrawl(ctx context.Context, siteURL string) (*model.CrawlCache, error) {
	ret := _m.Called(ctx, siteURL)

	if len(ret) == 0 {
		panic("no return value specified for GetCachedCrawl")
	}

	var r0 *model.CrawlCache
	if rf, ok := ret.Get(0).(func(context.Context, string) *model.CrawlCache); ok {
		r0 = rf(ctx, siteURL)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.CrawlCache)
	}

	return r0, ret.Error(1)
}

// SetCachedCrawl provides a mock function with given fields: ctx, siteURL, result, ttl
func (_m *MockStore) SetCachedCrawl(ctx context.Context, siteURL string, result model.CrawlResult, ttl time.Duration) error {
	ret := _m.Called(ctx, siteURL, result, ttl)

	if len(ret) == 0 {
		panic("no return value specified for SetCachedCrawl")
	}

	return ret.Error(0)
}

// DeleteExpiredCrawls provides a mock function with given fields: ctx
func (_m *MockStore) DeleteExpiredCrawls(ctx context.Context) (int, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for DeleteExpiredCrawls")
	}

	return ret.Int(0), ret.Error(1)
}

// AddCapture provides a mock function with given fields: ctx, c
func (_m *MockStore) AddCapture(ctx context.Context, c model.Capture) (*model.Capture, error) {
	ret := _m.Called(ctx, c)

	if len(ret) == 0 {
		panic("no return value specified for AddCapture")
	}

	var r0 *model.Capture
	if rf, ok := ret.Get(0).(func(context.Context, model.Capture) *model.Capture); ok {
		r0 = rf(ctx, c)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Capture)
	}

	return r0, ret.Error(1)
}

// ImportCaptures provides a mock function with given fields: ctx, captures
func (_m *MockStore) ImportCaptures(ctx context.Context, captures []model.Capture) (int, error) {
	ret := _m.Called(ctx, captures)

	if len(ret) == 0 {
		panic("no return value specified for ImportCaptures")
	}

	return ret.Int(0), ret.Error(1)
}

// ListCaptures provides a mock function with given fields: ctx, afbID
func (_m *MockStore) ListCaptures(ctx context.Context, afbID string) ([]model.Capture, error) {
	ret := _m.Called(ctx, afbID)

	if len(ret) == 0 {
		panic("no return value specified for ListCaptures")
	}

	var r0 []model.Capture
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.Capture)
	}

	return r0, ret.Error(1)
}

// Migrate provides a mock function with given fields: ctx
func (_m *MockStore) Migrate(ctx context.Context) error {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Migrate")
	}

	return ret.Error(0)
}

// Close provides a mock function with no fields
func (_m *MockStore) Close() error {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for Close")
	}

	return ret.Error(0)
}

// NewMockStore creates a new instance of MockStore.
func NewMockStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStore {
	mock := &MockStore{}
	mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
