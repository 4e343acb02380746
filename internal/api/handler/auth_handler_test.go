package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/securebase/auth-service/internal/core/domain"
	"github.com/securebase/auth-service/internal/core/ports"
)

type stubAuthService struct {
	signInResult *ports.SignInResult
	signInErr    error
	signUpErr    error
	signUpInput  *ports.SignUpInput
}

func (s *stubAuthService) SignIn(_ context.Context, username, password string) (*ports.SignInResult, error) {
	if s.signInErr != nil {
		return nil, s.signInErr
	}
	return s.signInResult, nil
}

func (s *stubAuthService) SignUp(_ context.Context, input ports.SignUpInput) error {
	s.signUpInput = &input
	return s.signUpErr
}

func newHandlerContext(t *testing.T, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_SignIn_Success(t *testing.T) {
	svc := &stubAuthService{signInResult: &ports.SignInResult{
		Token: "signed-token",
		Identity: &ports.IdentityView{
			ID:          "42",
			Username:    "john_doe",
			Email:       "john.doe@example.com",
			Authorities: []string{"ROLE_USER"},
		},
	}}
	h := NewAuthHandler(svc, zerolog.Nop())

	c, rec := newHandlerContext(t, "/api/auth/signin", `{"username":"john_doe","password":"password123"}`)
	if err := h.SignIn(c); err != nil {
		t.Fatalf("sign-in handler failed: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body jwtResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Token != "signed-token" || body.Type != "Bearer" {
		t.Fatalf("unexpected token fields: %+v", body)
	}
	if body.ID != "42" || body.Username != "john_doe" || body.Email != "john.doe@example.com" {
		t.Fatalf("unexpected identity fields: %+v", body)
	}
	if len(body.Roles) != 1 || body.Roles[0] != "ROLE_USER" {
		t.Fatalf("unexpected roles: %v", body.Roles)
	}
}

func TestAuthHandler_SignIn_BadCredentials(t *testing.T) {
	svc := &stubAuthService{signInErr: domain.ErrInvalidCredentials}
	h := NewAuthHandler(svc, zerolog.Nop())

	c, _ := newHandlerContext(t, "/api/auth/signin", `{"username":"john_doe","password":"wrong"}`)
	err := h.SignIn(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_SignIn_UnexpectedErrorStaysOpaque(t *testing.T) {
	svc := &stubAuthService{signInErr: errors.New("mongo: connection refused")}
	h := NewAuthHandler(svc, zerolog.Nop())

	c, _ := newHandlerContext(t, "/api/auth/signin", `{"username":"john_doe","password":"password123"}`)
	err := h.SignIn(c)
	// Storage failures must not be distinguishable from bad credentials.
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_SignIn_MissingFields(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, zerolog.Nop())

	c, rec := newHandlerContext(t, "/api/auth/signin", `{"username":"john_doe"}`)
	if err := h.SignIn(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_SignUp_Success(t *testing.T) {
	svc := &stubAuthService{}
	h := NewAuthHandler(svc, zerolog.Nop())

	c, rec := newHandlerContext(t, "/api/auth/signup",
		`{"username":"newuser","email":"new@example.com","password":"pass123","role":["mod"]}`)
	if err := h.SignUp(c); err != nil {
		t.Fatalf("sign-up handler failed: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body messageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Message != "User registered successfully!" {
		t.Fatalf("unexpected message: %q", body.Message)
	}
	if svc.signUpInput == nil {
		t.Fatalf("expected sign-up input to reach the service")
	}
	if svc.signUpInput.Username != "newuser" || len(svc.signUpInput.Roles) != 1 || svc.signUpInput.Roles[0] != "mod" {
		t.Fatalf("unexpected input: %+v", svc.signUpInput)
	}
}

func TestAuthHandler_SignUp_Duplicates(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{name: "username taken", err: domain.ErrUsernameTaken, want: "Error: Username is already taken!"},
		{name: "email taken", err: domain.ErrEmailTaken, want: "Error: Email is already in use!"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewAuthHandler(&stubAuthService{signUpErr: tc.err}, zerolog.Nop())

			c, rec := newHandlerContext(t, "/api/auth/signup",
				`{"username":"newuser","email":"new@example.com","password":"pass123"}`)
			if err := h.SignUp(c); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			var body messageResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Message != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, body.Message)
			}
		})
	}
}

func TestAuthHandler_SignUp_Validation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "short username", body: `{"username":"ab","email":"a@example.com","password":"pass123"}`},
		{name: "long username", body: `{"username":"` + strings.Repeat("a", 21) + `","email":"a@example.com","password":"pass123"}`},
		{name: "bad email", body: `{"username":"newuser","email":"not-an-email","password":"pass123"}`},
		{name: "short password", body: `{"username":"newuser","email":"a@example.com","password":"12345"}`},
		{name: "long password", body: `{"username":"newuser","email":"a@example.com","password":"` + strings.Repeat("p", 41) + `"}`},
		{name: "missing email", body: `{"username":"newuser","password":"pass123"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubAuthService{}
			h := NewAuthHandler(svc, zerolog.Nop())

			c, rec := newHandlerContext(t, "/api/auth/signup", tc.body)
			if err := h.SignUp(c); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if svc.signUpInput != nil {
				t.Fatalf("invalid payload must not reach the service")
			}
		})
	}
}
