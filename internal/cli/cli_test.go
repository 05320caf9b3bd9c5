package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ffi-hr/portal/internal/infrastructure/filestore"
	"github.com/ffi-hr/portal/internal/mockbackend"
)

type cliHarness struct {
	dir     string
	backend *httptest.Server
}

func newCLIHarness(t *testing.T) *cliHarness {
	t.Helper()
	srv := httptest.NewServer(mockbackend.New(mockbackend.Config{JWTSecret: "cli-secret", BcryptCost: bcrypt.MinCost}, zerolog.Nop()).Handler())
	t.Cleanup(srv.Close)
	return &cliHarness{dir: t.TempDir(), backend: srv}
}

// run executes one hrctl invocation against the mock backend.
func (h *cliHarness) run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errw bytes.Buffer
	opts := Options{Dir: h.dir, Out: &out, Err: &errw, Log: zerolog.Nop()}
	code = Run(context.Background(), opts, append([]string{"--base-url", h.backend.URL}, args...))
	return code, out.String(), errw.String()
}

func (h *cliHarness) login(t *testing.T, email string) {
	t.Helper()
	code, _, stderr := h.run(t, "login", "--email", email, "--password", mockbackend.DemoPassword)
	require.Equal(t, 0, code, stderr)
}

func TestLoginWhoamiLogout(t *testing.T) {
	h := newCLIHarness(t)

	code, _, stderr := h.run(t, "whoami")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Not logged in")

	code, stdout, _ := h.run(t, "login", "--email", "employee@ffi.test", "--password", mockbackend.DemoPassword)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "employee@ffi.test")
	assert.FileExists(t, filepath.Join(h.dir, "token"))
	assert.FileExists(t, filepath.Join(h.dir, "user.json"))

	code, stdout, _ = h.run(t, "whoami")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Employee")

	code, _, _ = h.run(t, "logout")
	require.Equal(t, 0, code)
	assert.NoFileExists(t, filepath.Join(h.dir, "token"))
}

func TestLoginFailures(t *testing.T) {
	h := newCLIHarness(t)

	code, _, stderr := h.run(t, "login", "--email", "admin@ffi.test", "--password", "wrong")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Invalid credentials")
	assert.NotContains(t, stderr, "Session expired")

	code, _, stderr = h.run(t, "login", "--email", "not-an-email")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "email:")
	assert.Contains(t, stderr, "password:")
}

func TestRefCommands(t *testing.T) {
	h := newCLIHarness(t)
	h.login(t, "hr@ffi.test")

	code, stdout, stderr := h.run(t, "ref", "list", "departments")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "FIN")
	assert.Contains(t, stdout, "2 total")

	code, _, stderr = h.run(t, "ref", "create", "departments", "--code", "fin", "--name", "Finance again")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "code:")
	assert.Contains(t, stderr, "Code already exists")

	code, _, stderr = h.run(t, "ref", "create", "departments", "--code", "")
	assert.Equal(t, 1, code, "local validation runs before the request")
	assert.Contains(t, stderr, "code:")

	code, stdout, _ = h.run(t, "ref", "create", "sponsors", "--code", "SP9")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Sponsor SP9 created")

	code, _, stderr = h.run(t, "ref", "list", "grades")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown entity")
}

func TestRefForbiddenForEmployees(t *testing.T) {
	h := newCLIHarness(t)
	h.login(t, "employee@ffi.test")

	code, stdout, _ := h.run(t, "ref", "list", "positions")
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "do not have access")
}

func TestEmployeesList(t *testing.T) {
	h := newCLIHarness(t)
	h.login(t, "hr@ffi.test")

	code, stdout, stderr := h.run(t, "employees", "list", "--status", "ACTIVE")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Alice Mansour")
	assert.NotContains(t, stdout, "Mira Haddad")

	code, stdout, _ = h.run(t, "employees", "list", "--search", "nobody")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "No employees match.")
}

func TestAttendance(t *testing.T) {
	h := newCLIHarness(t)
	h.login(t, "employee@ffi.test")

	code, stdout, _ := h.run(t, "attendance", "today")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Not checked in today.")

	code, stdout, _ = h.run(t, "attendance", "check-in")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Checked in")
	assert.Contains(t, stdout, time.Now().UTC().Format(time.DateOnly))

	code, _, _ = h.run(t, "attendance", "check-in")
	assert.Equal(t, 1, code)
}

func TestSessionExpiredNoticePrintedOnce(t *testing.T) {
	h := newCLIHarness(t)
	h.login(t, "hr@ffi.test")

	token, err := filestore.New(h.dir).Token(context.Background())
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, h.backend.URL+"/auth/logout", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	code, _, stderr := h.run(t, "ref", "list", "departments")
	assert.Equal(t, 1, code)
	assert.Equal(t, 1, strings.Count(stderr, "Session expired"))
	assert.NoFileExists(t, filepath.Join(h.dir, "token"))

	code, _, stderr = h.run(t, "whoami")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Not logged in")
}

func TestConfigFileBaseURL(t *testing.T) {
	h := newCLIHarness(t)
	require.NoError(t, SaveConfig(filepath.Join(h.dir, configFile), Config{BaseURL: h.backend.URL}))

	var out, errw bytes.Buffer
	code := Run(context.Background(), Options{Dir: h.dir, Out: &out, Err: &errw, Log: zerolog.Nop()},
		[]string{"login", "--email", "admin@ffi.test", "--password", mockbackend.DemoPassword})
	require.Equal(t, 0, code, errw.String())
	assert.Contains(t, out.String(), "SystemAdmin")
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
}
