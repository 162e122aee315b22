package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/golang-jwt/jwt/v5"
)

var placeholderRgx = regexp.MustCompile(`\{(role|user):([^}]+)\}`)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	authHeader   string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, s.tc.Reset(ctx)
	})

	// Background steps
	sc.Step(`^a convoyd server is running$`, s.aServerIsRunning)

	// Identity steps
	sc.Step(`^I sign in as "([^"]*)" with password "([^"]*)"$`, s.iSignInAs)
	sc.Step(`^I am signed in as "([^"]*)"$`, s.iAmSignedInAs)
	sc.Step(`^I present an expired credential for "([^"]*)"$`, s.iPresentAnExpiredCredential)
	sc.Step(`^I present the authorization header "([^"]*)"$`, s.iPresentTheAuthorizationHeader)
	sc.Step(`^I present no credential$`, s.iPresentNoCredential)

	// Data steps
	sc.Step(`^the account "([^"]*)" is deactivated$`, s.theAccountIsDeactivated)
	sc.Step(`^the account "([^"]*)" is deleted$`, s.theAccountIsDeleted)
	sc.Step(`^the role "([^"]*)" has no permissions$`, s.theRoleHasNoPermissions)
	sc.Step(`^a role "([^"]*)" exists$`, s.aRoleExists)

	// Request steps
	sc.Step(`^I send a (GET|POST|PUT|PATCH|DELETE) request to "([^"]*)"$`, s.iSendARequestTo)
	sc.Step(`^I send a (GET|POST|PUT|PATCH|DELETE) request to "([^"]*)" with body:$`, s.iSendARequestWithBody)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the error code should be "([^"]*)"$`, s.theErrorCodeShouldBe)
	sc.Step(`^the response should contain a credential$`, s.theResponseShouldContainACredential)
	sc.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, s.theResponseFieldShouldBe)
}

func (s *StepsContext) aServerIsRunning() error {
	return nil
}

// Identity steps

func (s *StepsContext) iSignInAs(email, password string) error {
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	if err := s.send(http.MethodPost, "/auth/signin", body); err != nil {
		return err
	}
	if s.response.StatusCode == http.StatusOK {
		var out struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(s.responseBody, &out); err != nil {
			return fmt.Errorf("failed to parse signin response: %w", err)
		}
		s.authHeader = "Bearer " + out.Token
	}
	return nil
}

func (s *StepsContext) iAmSignedInAs(email string) error {
	if err := s.iSignInAs(email, accountPassword); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusOK {
		return fmt.Errorf("signin as %s failed with %d: %s", email, s.response.StatusCode, s.responseBody)
	}
	return nil
}

func (s *StepsContext) iPresentAnExpiredCredential(email string) error {
	id, err := s.lookup("user", email)
	if err != nil {
		return err
	}
	past := time.Now().Add(-2 * time.Hour)
	claims := jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(past),
		ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.tc.Secret)
	if err != nil {
		return err
	}
	s.authHeader = "Bearer " + signed
	return nil
}

func (s *StepsContext) iPresentTheAuthorizationHeader(header string) error {
	s.authHeader = header
	return nil
}

func (s *StepsContext) iPresentNoCredential() error {
	s.authHeader = ""
	return nil
}

// Data steps

func (s *StepsContext) theAccountIsDeactivated(email string) error {
	return s.tc.DB.Exec(`UPDATE users SET is_active = false WHERE email = ?`, email).Error
}

func (s *StepsContext) theAccountIsDeleted(email string) error {
	return s.tc.DB.Exec(`DELETE FROM users WHERE email = ?`, email).Error
}

func (s *StepsContext) theRoleHasNoPermissions(name string) error {
	return s.tc.DB.Exec(
		`DELETE FROM role_permissions WHERE role_id = (SELECT id FROM roles WHERE name = ?)`, name,
	).Error
}

func (s *StepsContext) aRoleExists(name string) error {
	return s.tc.DB.Exec(
		`INSERT INTO roles (id, name, description, created_at, updated_at) `+
			`VALUES (gen_random_uuid(), ?, '', now(), now()) ON CONFLICT (name) DO NOTHING`, name,
	).Error
}

// Request steps

func (s *StepsContext) iSendARequestTo(method, path string) error {
	return s.send(method, path, "")
}

func (s *StepsContext) iSendARequestWithBody(method, path string, body *godog.DocString) error {
	return s.send(method, path, body.Content)
}

func (s *StepsContext) send(method, path, body string) error {
	path, err := s.expand(path)
	if err != nil {
		return err
	}
	body, err = s.expand(body)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, s.tc.ServerURL+path, reader)
	if err != nil {
		return err
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.authHeader != "" {
		req.Header.Set("Authorization", s.authHeader)
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

// expand replaces {role:NAME} and {user:EMAIL} with stored ids
func (s *StepsContext) expand(text string) (string, error) {
	var lookupErr error
	out := placeholderRgx.ReplaceAllStringFunc(text, func(m string) string {
		parts := placeholderRgx.FindStringSubmatch(m)
		id, err := s.lookup(parts[1], parts[2])
		if err != nil {
			lookupErr = err
			return m
		}
		return id
	})
	return out, lookupErr
}

func (s *StepsContext) lookup(kind, key string) (string, error) {
	query := `SELECT id FROM roles WHERE name = ?`
	if kind == "user" {
		query = `SELECT id FROM users WHERE email = ?`
	}
	var id string
	if err := s.tc.DB.Raw(query, key).Scan(&id).Error; err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("no %s %q", kind, key)
	}
	return id, nil
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(expectedStatus int) error {
	if s.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d: %s", expectedStatus, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theErrorCodeShouldBe(expected string) error {
	var out struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(s.responseBody, &out); err != nil {
		return fmt.Errorf("failed to parse error body %q: %w", s.responseBody, err)
	}
	if out.Error.Code != expected {
		return fmt.Errorf("expected error code %q, got %q", expected, out.Error.Code)
	}
	return nil
}

func (s *StepsContext) theResponseShouldContainACredential() error {
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(s.responseBody, &out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if strings.Count(out.Token, ".") != 2 {
		return fmt.Errorf("expected a signed credential, got %q", out.Token)
	}
	return nil
}

func (s *StepsContext) theResponseFieldShouldBe(field, expected string) error {
	var out map[string]interface{}
	if err := json.Unmarshal(s.responseBody, &out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	actual := fmt.Sprint(out[field])
	if actual != expected {
		return fmt.Errorf("expected %s to be %q, got %q", field, expected, actual)
	}
	return nil
}
