package endpoints

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/httprate"

	"github.com/convoyrelief/convoyd/pkg/audit"
	"github.com/convoyrelief/convoyd/pkg/authz"
	"github.com/convoyrelief/convoyd/pkg/model"
	"github.com/convoyrelief/convoyd/pkg/password"
	"github.com/convoyrelief/convoyd/pkg/server"
	"github.com/convoyrelief/convoyd/pkg/server/middleware"
	"github.com/convoyrelief/convoyd/pkg/server/store"
	"github.com/convoyrelief/convoyd/pkg/token"
)

type signupRequest struct {
	Username    string  `json:"username" validate:"required,max=100"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8,max=72"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,min=3,max=32"`
}

type signinRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by signup and signin
type AuthResponse struct {
	Message string   `json:"message"`
	User    userView `json:"user"`
	Token   string   `json:"token"`
}

// RegisterAuthEndpoints registers signup and signin. Both are public and
// share one per-IP rate limit.
func RegisterAuthEndpoints(s *server.Server) {
	limiter := httprate.Limit(s.Config.SigninRateLimit, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			respondWithError(w, http.StatusTooManyRequests, "rate_limited", "Too many requests, please try again later")
		}),
	)

	s.Router.Handle("/auth/signup", limiter(handleSignup(s))).Methods("POST")
	s.Router.Handle("/auth/signin", limiter(handleSignin(s))).Methods("POST")
}

func handleSignup(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if err := s.Validator.Struct(req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid_request", validationMessage(err))
			return
		}

		event := audit.AuthenticateEvent{Email: req.Email, ClientIP: middleware.ClientIP(r), Operation: "signup"}

		hash, err := password.Hash(req.Password)
		if err != nil {
			middleware.WriteError(w, r, s.Logger, err)
			return
		}

		user := &model.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
			PhoneNumber:  req.PhoneNumber,
			IsActive:     false,
		}
		if err := s.Subjects.CreateSubject(r.Context(), user, s.Config.DefaultRole); err != nil {
			event.ErrorMessage = err.Error()
			audit.Log(event)
			if errors.Is(err, store.ErrConflict) {
				if store.FieldOf(err) == "phone number" {
					respondWithError(w, http.StatusConflict, "conflict", "Phone number is already in use")
					return
				}
				respondWithError(w, http.StatusConflict, "conflict", "User with this email already exists")
				return
			}
			middleware.WriteError(w, r, s.Logger, err)
			return
		}

		tok, err := s.Issuer.Issue(token.Subject{ID: user.ID, Username: user.Username})
		if err != nil {
			middleware.WriteError(w, r, s.Logger, err)
			return
		}

		event.SubjectID = user.ID
		event.Success = true
		audit.Log(event)

		respondWithJSON(w, http.StatusCreated, AuthResponse{
			Message: "User created successfully",
			User:    newUserView(user),
			Token:   tok,
		})
	}
}

func handleSignin(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signinRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if err := s.Validator.Struct(req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid_request", validationMessage(err))
			return
		}

		event := audit.AuthenticateEvent{Email: req.Email, ClientIP: middleware.ClientIP(r), Operation: "signin"}
		invalid := func(reason string) {
			event.ErrorMessage = reason
			audit.Log(event)
			respondWithError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
		}

		user, err := s.Subjects.FindSubjectByEmail(r.Context(), req.Email)
		if errors.Is(err, store.ErrNotFound) {
			invalid("unknown email")
			return
		}
		if err != nil {
			middleware.WriteError(w, r, s.Logger, err)
			return
		}
		event.SubjectID = user.ID

		if !user.IsActive {
			event.ErrorMessage = "account inactive"
			audit.Log(event)
			middleware.WriteError(w, r, s.Logger, authz.ErrAccountInactive)
			return
		}

		if err := password.Compare(user.PasswordHash, req.Password); err != nil {
			invalid("password mismatch")
			return
		}

		tok, err := s.Issuer.Issue(token.Subject{ID: user.ID, Username: user.Username})
		if err != nil {
			middleware.WriteError(w, r, s.Logger, err)
			return
		}

		event.Success = true
		audit.Log(event)

		respondWithJSON(w, http.StatusOK, AuthResponse{
			Message: "Login successful",
			User:    newUserView(user),
			Token:   tok,
		})
	}
}
