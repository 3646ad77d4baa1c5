package handler

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/momento/internal/domain"
)

func TestEventHandler_Create(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockEventService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "valid event",
			body: `{"name":"Casamento Ana e Bruno","plan":"premium"}`,
			setupMock: func(m *MockEventService) {
				m.On("Create", mock.Anything, userID, "Casamento Ana e Bruno", "premium").Return(&domain.Event{
					ID:       uuid.New(),
					OwnerID:  userID,
					Name:     "Casamento Ana e Bruno",
					Slug:     "casamento-ana-e-bruno-x1y2",
					Plan:     domain.PlanPremium,
					IsActive: true,
				}, nil)
			},
			expectedStatus: 201,
		},
		{
			name: "plan omitted",
			body: `{"name":"Party"}`,
			setupMock: func(m *MockEventService) {
				m.On("Create", mock.Anything, userID, "Party", "").Return(&domain.Event{Name: "Party", Plan: domain.PlanFree}, nil)
			},
			expectedStatus: 201,
		},
		{
			name:           "missing name",
			body:           `{"plan":"free"}`,
			setupMock:      func(m *MockEventService) {},
			expectedStatus: 422,
			expectedCode:   "VALIDATION_FAILED",
		},
		{
			name:           "unknown plan",
			body:           `{"name":"Party","plan":"gold"}`,
			setupMock:      func(m *MockEventService) {},
			expectedStatus: 422,
			expectedCode:   "VALIDATION_FAILED",
		},
		{
			name:           "malformed json",
			body:           `{"name":`,
			setupMock:      func(m *MockEventService) {},
			expectedStatus: 400,
			expectedCode:   "BAD_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockEventService{}
			tt.setupMock(svc)
			handler := NewEventHandler(svc, testLogger())

			app := createTestApp(userID)
			app.Post("/v1/events", handler.Create)

			req := httptest.NewRequest("POST", "/v1/events", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedCode != "" {
				var body errorEnvelope
				decodeJSON(t, resp, &body)
				assert.False(t, body.Success)
				assert.Equal(t, tt.expectedCode, body.Error.Code)
			} else {
				var body struct {
					Success bool         `json:"success"`
					Data    domain.Event `json:"data"`
				}
				decodeJSON(t, resp, &body)
				assert.True(t, body.Success)
			}

			svc.AssertExpectations(t)
		})
	}
}

func TestEventHandler_Get(t *testing.T) {
	userID := uuid.New()
	eventID := uuid.New()

	tests := []struct {
		name           string
		path           string
		setupMock      func(*MockEventService)
		expectedStatus int
	}{
		{
			name: "found",
			path: "/v1/events/" + eventID.String(),
			setupMock: func(m *MockEventService) {
				m.On("Get", mock.Anything, eventID).Return(&domain.Event{ID: eventID, IsActive: true}, nil)
			},
			expectedStatus: 200,
		},
		{
			name: "inactive",
			path: "/v1/events/" + eventID.String(),
			setupMock: func(m *MockEventService) {
				m.On("Get", mock.Anything, eventID).Return(nil, domain.ErrEventInactive)
			},
			expectedStatus: 404,
		},
		{
			name:           "malformed id",
			path:           "/v1/events/not-a-uuid",
			setupMock:      func(m *MockEventService) {},
			expectedStatus: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockEventService{}
			tt.setupMock(svc)
			handler := NewEventHandler(svc, testLogger())

			app := createTestApp(userID)
			app.Get("/v1/events/:event_id", handler.Get)

			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			svc.AssertExpectations(t)
		})
	}
}

func TestEventHandler_GetBySlug(t *testing.T) {
	svc := &MockEventService{}
	svc.On("GetBySlug", mock.Anything, "festa-ab12").Return(&domain.Event{Slug: "festa-ab12", IsActive: true}, nil)
	handler := NewEventHandler(svc, testLogger())

	app := createTestApp(uuid.New())
	app.Get("/v1/events/slug/:slug", handler.GetBySlug)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/events/slug/festa-ab12", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	svc.AssertExpectations(t)
}

func TestEventHandler_Deactivate(t *testing.T) {
	userID := uuid.New()
	eventID := uuid.New()

	tests := []struct {
		name           string
		serviceErr     error
		expectedStatus int
	}{
		{"owner", nil, 204},
		{"not owner", domain.ErrForbidden, 403},
		{"unknown event", domain.ErrEventNotFound, 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockEventService{}
			svc.On("Deactivate", mock.Anything, eventID, userID).Return(tt.serviceErr)
			handler := NewEventHandler(svc, testLogger())

			app := createTestApp(userID)
			app.Delete("/v1/events/:event_id", handler.Deactivate)

			resp, err := app.Test(httptest.NewRequest("DELETE", "/v1/events/"+eventID.String(), nil))
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			svc.AssertExpectations(t)
		})
	}
}
