package handlers_test

import (
	"net/http"
	"testing"

	"github.com/dom/matchup-companion/internal/config"
	"github.com/dom/matchup-companion/internal/service"
	"github.com/dom/matchup-companion/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Register(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		name           string
		request        map[string]interface{}
		setup          func(t *testing.T)
		expectedStatus int
		expectedError  string
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name: "successful registration",
			request: map[string]interface{}{
				"email":           "NewUser@Example.com",
				"userName":        "newuser",
				"password":        "password123",
				"confirmPassword": "password123",
				"displayName":     "New User",
				"preferredRoleId": 4,
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result service.AuthResult
				testutil.AssertJSONResponse(t, resp, &result)
				assert.Equal(t, "newuser@example.com", result.Email)
				assert.Equal(t, "newuser", result.UserName)
				require.NotNil(t, result.DisplayName)
				assert.Equal(t, "New User", *result.DisplayName)
				assert.NotEmpty(t, result.Token)
				assert.NotEmpty(t, result.RefreshToken)
				assert.False(t, result.IsGuest)
			},
		},
		{
			name:           "missing email",
			request:        map[string]interface{}{"userName": "someone", "password": "password123"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "email is required",
		},
		{
			name:           "invalid email",
			request:        map[string]interface{}{"email": "not-an-email", "userName": "someone", "password": "password123"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "email must be a valid email address",
		},
		{
			name:           "short password",
			request:        map[string]interface{}{"email": "short@example.com", "userName": "someone", "password": "abc"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "password must be at least 6 characters",
		},
		{
			name:           "passwords differ",
			request:        map[string]interface{}{"email": "differ@example.com", "userName": "someone", "password": "password123", "confirmPassword": "password124"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "confirmPassword must match",
		},
		{
			name:           "unknown field",
			request:        map[string]interface{}{"email": "x@example.com", "userName": "someone", "password": "password123", "isAdmin": true},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "unknown key",
		},
		{
			name:           "unknown preferred role",
			request:        map[string]interface{}{"email": "role@example.com", "userName": "roleuser", "password": "password123", "preferredRoleId": 12},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Preferred role does not exist",
		},
		{
			name:    "duplicate email",
			request: map[string]interface{}{"email": "taken@example.com", "userName": "second", "password": "password123"},
			setup: func(t *testing.T) {
				resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/auth/register"), map[string]interface{}{
					"email": "taken@example.com", "userName": "first", "password": "password123",
				}, "")
				resp.Body.Close()
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "Email is already registered",
		},
		{
			name:    "duplicate user name",
			request: map[string]interface{}{"email": "fresh@example.com", "userName": "Taken", "password": "password123"},
			setup: func(t *testing.T) {
				resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/auth/register"), map[string]interface{}{
					"email": "owner@example.com", "userName": "taken", "password": "password123",
				}, "")
				resp.Body.Close()
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "User name is already taken",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.DB.Truncate(t)

			if tt.setup != nil {
				tt.setup(t)
			}

			resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/auth/register"), tt.request, "")
			defer resp.Body.Close()

			if tt.expectedError != "" {
				testutil.AssertErrorResponse(t, resp, tt.expectedStatus, tt.expectedError)
				return
			}
			testutil.AssertStatusCode(t, resp, tt.expectedStatus)
			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/auth/register"), map[string]interface{}{
		"email": "login@example.com", "userName": "loginuser", "password": "correctpassword",
	}, "")
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	tests := []struct {
		name           string
		request        map[string]interface{}
		expectedStatus int
	}{
		{"successful login", map[string]interface{}{"email": "login@example.com", "password": "correctpassword"}, http.StatusOK},
		{"invalid password", map[string]interface{}{"email": "login@example.com", "password": "wrongpassword"}, http.StatusUnauthorized},
		{"non-existent user", map[string]interface{}{"email": "nobody@example.com", "password": "anypassword"}, http.StatusUnauthorized},
		{"missing email", map[string]interface{}{"password": "password123"}, http.StatusBadRequest},
		{"missing password", map[string]interface{}{"email": "login@example.com"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/auth/login"), tt.request, "")
			defer resp.Body.Close()

			testutil.AssertStatusCode(t, resp, tt.expectedStatus)
			if tt.expectedStatus == http.StatusOK {
				var result service.AuthResult
				testutil.AssertJSONResponse(t, resp, &result)
				assert.Equal(t, "loginuser", result.UserName)
				assert.NotEmpty(t, result.Token)
			}
		})
	}
}

func TestAuthHandler_MeAndValidate(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user := ts.Register(t)
	guest := ts.Guest(t)

	tests := []struct {
		name           string
		path           string
		token          string
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name:           "me with valid token",
			path:           "/auth/me",
			token:          user.Token,
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result service.UserView
				testutil.AssertJSONResponse(t, resp, &result)
				assert.Equal(t, user.UserID, result.ID)
				assert.Equal(t, user.UserName, result.UserName)
			},
		},
		{
			name:           "validate guest token",
			path:           "/auth/validate",
			token:          guest.Token,
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result struct {
					IsValid bool   `json:"isValid"`
					UserID  string `json:"userId"`
					IsGuest bool   `json:"isGuest"`
				}
				testutil.AssertJSONResponse(t, resp, &result)
				assert.True(t, result.IsValid)
				assert.True(t, result.IsGuest)
				assert.Equal(t, guest.UserID.String(), result.UserID)
			},
		},
		{"missing authorization header", "/auth/me", "", http.StatusUnauthorized, nil},
		{"invalid token", "/auth/me", "invalid.token.here", http.StatusUnauthorized, nil},
		{"malformed token", "/auth/validate", "notajwt", http.StatusUnauthorized, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL(tt.path), nil, tt.token)
			defer resp.Body.Close()

			testutil.AssertStatusCode(t, resp, tt.expectedStatus)
			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestAuthHandler_RefreshAndLogout(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user := ts.Register(t)

	resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/auth/refresh"), map[string]interface{}{
		"token":        user.Token,
		"refreshToken": user.RefreshToken,
	}, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var refreshed service.AuthResult
	testutil.AssertJSONResponse(t, resp, &refreshed)
	assert.NotEqual(t, user.RefreshToken, refreshed.RefreshToken)

	replay := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/auth/refresh"), map[string]interface{}{
		"token":        user.Token,
		"refreshToken": user.RefreshToken,
	}, "")
	defer replay.Body.Close()
	testutil.AssertErrorResponse(t, replay, http.StatusUnauthorized, "Invalid or expired refresh token")

	logout := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/auth/logout"), nil, refreshed.Token)
	defer logout.Body.Close()
	testutil.AssertStatusCode(t, logout, http.StatusOK)

	after := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/auth/refresh"), map[string]interface{}{
		"token":        refreshed.Token,
		"refreshToken": refreshed.RefreshToken,
	}, "")
	defer after.Body.Close()
	testutil.AssertStatusCode(t, after, http.StatusUnauthorized)

	anonymous := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/auth/logout"), nil, "")
	defer anonymous.Body.Close()
	testutil.AssertStatusCode(t, anonymous, http.StatusUnauthorized)
}

func TestAuthHandler_RateLimit(t *testing.T) {
	ts := testutil.NewTestServer(t, func(cfg *config.Config) {
		cfg.AuthRateLimitPerMinute = 2
	})

	statuses := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/auth/login"), map[string]interface{}{
			"email": "nobody@example.com", "password": "whatever",
		}, "")
		resp.Body.Close()
		statuses = append(statuses, resp.StatusCode)
	}

	assert.Equal(t, []int{
		http.StatusUnauthorized,
		http.StatusUnauthorized,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
	}, statuses)

	// Catalog reads are not limited.
	resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL("/roles"), nil, "")
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)
}
