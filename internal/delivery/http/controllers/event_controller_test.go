package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventlivechat/internal/delivery/http/helpers"
	"eventlivechat/internal/domain"
)

// fakeEventRepo implements domain.EventRepository for handler tests.
type fakeEventRepo struct {
	listErr    error
	listResult []*domain.Event
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error { return nil }
func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	return nil, domain.ErrNotFound
}
func (f *fakeEventRepo) GetByTitle(ctx context.Context, title string) (*domain.Event, error) {
	return nil, domain.ErrNotFound
}
func (f *fakeEventRepo) UpsertByTitle(ctx context.Context, e *domain.Event) error { return nil }

func (f *fakeEventRepo) List(ctx context.Context) ([]*domain.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.listResult != nil {
		return f.listResult, nil
	}
	return []*domain.Event{}, nil
}

func TestEventController_ListEvents(t *testing.T) {
	tests := []struct {
		name        string
		fakeErr     error
		fakeResult  []*domain.Event
		wantStatus  int
		checkEvents func(t *testing.T, events []domain.Event)
	}{
		{
			name: "success",
			fakeResult: []*domain.Event{
				{ID: "ev-1", Title: "GopherConf", Description: "Go talks"},
				{ID: "ev-2", Title: "RustFest", Description: "Other talks"},
			},
			wantStatus: http.StatusOK,
			checkEvents: func(t *testing.T, events []domain.Event) {
				require.Len(t, events, 2)
				assert.Equal(t, "GopherConf", events[0].Title)
			},
		},
		{
			name:       "success empty",
			wantStatus: http.StatusOK,
			checkEvents: func(t *testing.T, events []domain.Event) {
				require.Len(t, events, 0)
			},
		},
		{
			name:       "repository error",
			fakeErr:    errors.New("db error"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventRepo{listErr: tt.fakeErr, listResult: tt.fakeResult}
			ctrl := NewEventController(testLogger, fake)
			req := httptest.NewRequest(http.MethodGet, "/events", nil)
			rr := httptest.NewRecorder()

			ctrl.ListEvents(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error, "success response must have error nil")
				dataBytes, err := json.Marshal(envelope.Data)
				require.NoError(t, err)
				var events []domain.Event
				require.NoError(t, json.Unmarshal(dataBytes, &events))
				tt.checkEvents(t, events)
			} else {
				require.NotNil(t, envelope.Error, "error response must have error set")
				assert.Equal(t, helpers.ErrCodeInternalError, envelope.Error.Code)
			}
		})
	}
}
