package session_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"credikhaata/internal/session"
	"credikhaata/internal/storage"
)

var creds = session.Credentials{Email: "shopkeeper@test.com", Password: "password"}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGuard_Login(t *testing.T) {
	type testCase struct {
		name      string
		email     string
		password  string
		setupMock func(m *storage.MockPort)
		want      bool
	}

	tests := []testCase{
		{
			name:     "Success",
			email:    creds.Email,
			password: creds.Password,
			setupMock: func(m *storage.MockPort) {
				m.EXPECT().
					Save(gomock.Any(), storage.KeyAuthenticated, []byte("true")).
					Return(nil)
			},
			want: true,
		},
		{
			name:     "WrongPassword",
			email:    creds.Email,
			password: "letmein",
			want:     false,
		},
		{
			name:     "WrongEmail",
			email:    "owner@test.com",
			password: creds.Password,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			port := storage.NewMockPort(ctrl)
			port.EXPECT().
				Load(gomock.Any(), storage.KeyAuthenticated).
				Return(nil, false, nil)

			// No Save expectation on failure: a failed login must not
			// touch the store.
			if tt.setupMock != nil {
				tt.setupMock(port)
			}

			guard := session.New(context.Background(), port, creds, "secret")
			assert.Equal(t, tt.want, guard.Login(context.Background(), tt.email, tt.password))
			assert.Equal(t, tt.want, guard.Authenticated())
		})
	}
}

func TestGuard_RestoresPersistedSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	port := storage.NewMockPort(ctrl)
	port.EXPECT().
		Load(gomock.Any(), storage.KeyAuthenticated).
		Return([]byte("true"), true, nil)

	guard := session.New(context.Background(), port, creds, "secret")
	assert.True(t, guard.Authenticated())
}

func TestGuard_Logout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	port := storage.NewMockPort(ctrl)
	port.EXPECT().
		Load(gomock.Any(), storage.KeyAuthenticated).
		Return([]byte("true"), true, nil)
	port.EXPECT().
		Delete(gomock.Any(), storage.KeyAuthenticated).
		Return(nil)

	guard := session.New(context.Background(), port, creds, "secret")
	guard.Logout(context.Background())
	assert.False(t, guard.Authenticated())
}

func TestGuard_Middleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	port := storage.NewMockPort(ctrl)
	port.EXPECT().
		Load(gomock.Any(), storage.KeyAuthenticated).
		Return(nil, false, nil)

	guard := session.New(context.Background(), port, creds, "secret")

	handler := guard.Middleware(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("ValidToken", func(t *testing.T) {
		token, err := guard.MintToken()
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("MissingHeader", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("GarbageToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		otherPort := storage.NewMockPort(ctrl)
		otherPort.EXPECT().
			Load(gomock.Any(), storage.KeyAuthenticated).
			Return(nil, false, nil)

		other := session.New(context.Background(), otherPort, creds, "different-secret")
		token, err := other.MintToken()
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
