package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/found3r/found3r-engine/pkg/models"
)

func TestUsersHandler_Me(t *testing.T) {
	userID := uuid.New()

	svc := &mockUserService{
		GetFunc: func(ctx context.Context, uid uuid.UUID) (*models.User, error) {
			require.Equal(t, userID, uid)
			return &models.User{ID: uid, Subject: "auth0|abc", Email: "founder@example.com"}, nil
		},
	}
	handler := NewUsersHandler(svc, "whsec", zap.NewNop())

	req := authedRequest(http.MethodGet, "/api/users/me", nil, userID)
	rec := httptest.NewRecorder()
	handler.Me(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var user models.User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&user))
	assert.Equal(t, "founder@example.com", user.Email)
}

func TestUsersHandler_UpdateMe(t *testing.T) {
	userID := uuid.New()

	var gotPatch models.UserPatch
	svc := &mockUserService{
		UpdateFunc: func(ctx context.Context, uid uuid.UUID, patch models.UserPatch) (*models.User, error) {
			gotPatch = patch
			return &models.User{ID: uid, DisplayName: *patch.DisplayName, OnboardingComplete: true}, nil
		},
	}
	handler := NewUsersHandler(svc, "whsec", zap.NewNop())

	body := `{"display_name": "Ada", "onboarding_complete": true}`
	req := authedRequest(http.MethodPatch, "/api/users/me", strings.NewReader(body), userID)
	rec := httptest.NewRecorder()
	handler.UpdateMe(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotPatch.DisplayName)
	assert.Equal(t, "Ada", *gotPatch.DisplayName)
	require.NotNil(t, gotPatch.OnboardingComplete)
	assert.True(t, *gotPatch.OnboardingComplete)
	assert.Nil(t, gotPatch.Email, "absent fields are not patched")
}

func TestUsersHandler_Webhook(t *testing.T) {
	const secret = "whsec_test"

	tests := []struct {
		name        string
		secret      string
		body        string
		wantStatus  int
		wantResolve bool
		wantErase   bool
	}{
		{
			name:        "user created",
			secret:      secret,
			body:        `{"type": "user.created", "subject": "auth0|abc", "email": "a@example.com", "name": "Ada"}`,
			wantStatus:  http.StatusNoContent,
			wantResolve: true,
		},
		{
			name:        "user updated",
			secret:      secret,
			body:        `{"type": "user.updated", "subject": "auth0|abc", "email": "b@example.com"}`,
			wantStatus:  http.StatusNoContent,
			wantResolve: true,
		},
		{
			name:       "user deleted",
			secret:     secret,
			body:       `{"type": "user.deleted", "subject": "auth0|abc"}`,
			wantStatus: http.StatusNoContent,
			wantErase:  true,
		},
		{
			name:       "unknown event",
			secret:     secret,
			body:       `{"type": "user.suspended", "subject": "auth0|abc"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "wrong secret",
			secret:     "wrong",
			body:       `{"type": "user.created", "subject": "auth0|abc"}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing secret",
			secret:     "",
			body:       `{"type": "user.created", "subject": "auth0|abc"}`,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resolved, erased bool
			svc := &mockUserService{
				ResolveFunc: func(ctx context.Context, subject, email, displayName string) (*models.User, error) {
					resolved = true
					return &models.User{ID: uuid.New(), Subject: subject}, nil
				},
				EraseFunc: func(ctx context.Context, subject string) error {
					erased = true
					return nil
				},
			}
			handler := NewUsersHandler(svc, secret, zap.NewNop())

			req := httptest.NewRequest(http.MethodPost, "/api/webhooks/users", strings.NewReader(tt.body))
			if tt.secret != "" {
				req.Header.Set("X-Webhook-Secret", tt.secret)
			}
			rec := httptest.NewRecorder()
			handler.Webhook(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantResolve, resolved)
			assert.Equal(t, tt.wantErase, erased)
		})
	}
}

func TestUsersHandler_Webhook_NoSecretConfigured(t *testing.T) {
	svc := &mockUserService{}
	handler := NewUsersHandler(svc, "", zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/users",
		strings.NewReader(`{"type": "user.created", "subject": "auth0|abc"}`))
	req.Header.Set("X-Webhook-Secret", "")
	rec := httptest.NewRecorder()
	handler.Webhook(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code, "an unset secret never authenticates")
}
