package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/kalviumcommunity/Medical-Appointments/config"
	"github.com/kalviumcommunity/Medical-Appointments/domain/user"
	"github.com/kalviumcommunity/Medical-Appointments/modules/appointments"
	"github.com/kalviumcommunity/Medical-Appointments/modules/auth"
	"github.com/kalviumcommunity/Medical-Appointments/modules/cache"
	"github.com/kalviumcommunity/Medical-Appointments/modules/store"
	"github.com/kalviumcommunity/Medical-Appointments/modules/users"
)

// servicePort adapts an in-process AuthService to the auth.Port interface.
type servicePort struct {
	svc *auth.AuthService
}

func (p servicePort) Signup(ctx context.Context, req auth.SignupRequest) (auth.SignupResponse, error) {
	u, err := p.svc.Signup(ctx, req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return auth.SignupResponse{}, err
	}
	return auth.SignupResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}, nil
}

func (p servicePort) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	token, u, err := p.svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return auth.LoginResponse{}, err
	}
	return auth.LoginResponse{
		Token: token,
		User: auth.SignupResponse{
			ID:    u.ID,
			Name:  u.Name,
			Email: u.Email,
			Role:  u.Role,
		},
	}, nil
}

func (p servicePort) ValidateToken(ctx context.Context, token string) (*user.Claims, error) {
	return p.svc.ValidateToken(ctx, token)
}

func (p servicePort) GetUser(ctx context.Context, userID string) (*user.User, error) {
	return p.svc.GetUser(ctx, userID)
}

// newTestApp wires the full route table over in-memory stores and a
// miniredis-backed cache.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := cache.New(client, "users:", 60*time.Second)
	t.Cleanup(func() { _ = c.Close() })

	userStore := store.NewMemoryUserStore()
	apptStore := store.NewMemoryAppointmentStore()

	authCfg := config.AuthConfig{
		JWTSecret:     "test-secret",
		TokenDuration: 24 * time.Hour,
		Issuer:        "test",
	}
	authSvc := auth.NewAuthService(userStore, auth.NewPasswordHasher(), auth.NewJWTManager(authCfg))
	port := servicePort{svc: authSvc}

	userSvc := users.NewService(userStore, apptStore, cache.NewReader(c))
	apptSvc := appointments.NewService(apptStore, userStore)

	handlers := NewHandlers(port, userSvc, apptSvc, true)

	app := fiber.New()

	authRoutes := app.Group("/auth")
	authRoutes.Post("/signup", handlers.Signup)
	authRoutes.Post("/login", handlers.Login)

	protected := app.Group("")
	protected.Use(AuthMiddleware(port))

	userRoutes := protected.Group("/users")
	userRoutes.Get("/", handlers.ListUsers)
	userRoutes.Post("/", handlers.CreateUser)
	userRoutes.Get("/:id", handlers.GetUser)
	userRoutes.Put("/:id", handlers.UpdateUser)
	userRoutes.Delete("/:id", handlers.DeleteUser)

	protected.Get("/doctor", RequireRoles(user.RoleDoctor), handlers.Doctor)
	protected.Get("/admin", RequireRoles(), handlers.Admin)

	apptRoutes := protected.Group("/appointments")
	apptRoutes.Get("/", handlers.ListAppointments)
	apptRoutes.Post("/", handlers.CreateAppointment)
	apptRoutes.Patch("/:id", RequireRoles(user.RoleDoctor), handlers.UpdateAppointmentStatus)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload any) (*http.Response, map[string]any) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("json.Marshal() error = %v", err)
		}
		body = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("io.ReadAll() error = %v", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("json.Unmarshal(%s) error = %v", raw, err)
		}
	}
	return resp, decoded
}

func signupAndLogin(t *testing.T, app *fiber.App, name, email, password string) (string, string) {
	t.Helper()

	resp, body := doJSON(t, app, "POST", "/auth/signup", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup status = %v, body = %v", resp.StatusCode, body)
	}
	userID, _ := body["id"].(string)

	resp, body = doJSON(t, app, "POST", "/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %v, body = %v", resp.StatusCode, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("login returned no token")
	}
	return token, userID
}

func TestSignupLoginFlow(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, "POST", "/auth/signup", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "password123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup status = %v, body = %v", resp.StatusCode, body)
	}
	if body["role"] != string(user.RolePatient) {
		t.Errorf("role = %v, want %v", body["role"], user.RolePatient)
	}
	if _, leaked := body["password"]; leaked {
		t.Error("signup response contains the password")
	}

	resp, body = doJSON(t, app, "POST", "/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "password123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %v, body = %v", resp.StatusCode, body)
	}
	if body["token"] == "" {
		t.Error("login returned no token")
	}
}

func TestSignupErrors(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name       string
		payload    map[string]string
		wantStatus int
		wantCode   string
	}{
		{
			"missing name",
			map[string]string{"email": "a@x.com", "password": "pw"},
			http.StatusBadRequest, CodeValidation,
		},
		{
			"bad email",
			map[string]string{"name": "A", "email": "nope", "password": "pw"},
			http.StatusBadRequest, CodeValidation,
		},
		{
			"role conflicts with email domain",
			map[string]string{"name": "A", "email": "a@x.com", "password": "pw", "role": "DOCTOR"},
			http.StatusBadRequest, CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, app, "POST", "/auth/signup", "", tt.payload)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %v, want %v (body %v)", resp.StatusCode, tt.wantStatus, body)
			}
			if body["error"] != tt.wantCode {
				t.Errorf("error code = %v, want %v", body["error"], tt.wantCode)
			}
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	app := newTestApp(t)

	payload := map[string]string{"name": "Alice", "email": "alice@example.com", "password": "pw"}
	if resp, body := doJSON(t, app, "POST", "/auth/signup", "", payload); resp.StatusCode != http.StatusCreated {
		t.Fatalf("first signup status = %v, body = %v", resp.StatusCode, body)
	}

	resp, body := doJSON(t, app, "POST", "/auth/signup", "", payload)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("second signup status = %v, want %v", resp.StatusCode, http.StatusConflict)
	}
	if body["error"] != CodeUserExists {
		t.Errorf("error code = %v, want %v", body["error"], CodeUserExists)
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	app := newTestApp(t)
	signupAndLogin(t, app, "Alice", "alice@example.com", "password123")

	unknownResp, unknownBody := doJSON(t, app, "POST", "/auth/login", "", map[string]string{
		"email": "ghost@example.com", "password": "password123",
	})
	wrongResp, wrongBody := doJSON(t, app, "POST", "/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	})

	if unknownResp.StatusCode != http.StatusUnauthorized || wrongResp.StatusCode != http.StatusUnauthorized {
		t.Errorf("statuses = %v/%v, want both 401", unknownResp.StatusCode, wrongResp.StatusCode)
	}
	if unknownBody["error"] != CodeAuthFailed || wrongBody["error"] != CodeAuthFailed {
		t.Errorf("codes = %v/%v, want both %v", unknownBody["error"], wrongBody["error"], CodeAuthFailed)
	}
	if unknownBody["message"] != wrongBody["message"] {
		t.Errorf("messages differ: %q vs %q", unknownBody["message"], wrongBody["message"])
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/users", "/doctor", "/appointments"} {
		resp, body := doJSON(t, app, "GET", path, "", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("GET %s status = %v, want 401", path, resp.StatusCode)
		}
		if body["error"] != auth.CodeTokenMissing {
			t.Errorf("GET %s error code = %v, want %v", path, body["error"], auth.CodeTokenMissing)
		}
	}
}

func TestDoctorRouteRoleGate(t *testing.T) {
	app := newTestApp(t)

	doctorToken, doctorID := signupAndLogin(t, app, "Doc", "doc@doc.com", "password123")
	patientToken, _ := signupAndLogin(t, app, "Pat", "pat@example.com", "password123")

	resp, body := doJSON(t, app, "GET", "/doctor", doctorToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("doctor access status = %v, body = %v", resp.StatusCode, body)
	}
	if body["doctorId"] != doctorID {
		t.Errorf("doctorId = %v, want %v", body["doctorId"], doctorID)
	}

	resp, body = doJSON(t, app, "GET", "/doctor", patientToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("patient access status = %v, want 403", resp.StatusCode)
	}
	if body["error"] != CodeForbidden {
		t.Errorf("error code = %v, want %v", body["error"], CodeForbidden)
	}
}

func TestAdminRouteDeniesEveryRole(t *testing.T) {
	app := newTestApp(t)

	doctorToken, _ := signupAndLogin(t, app, "Doc", "doc@doc.com", "password123")
	patientToken, _ := signupAndLogin(t, app, "Pat", "pat@example.com", "password123")

	for name, token := range map[string]string{"doctor": doctorToken, "patient": patientToken} {
		resp, _ := doJSON(t, app, "GET", "/admin", token, nil)
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("%s admin access status = %v, want 403", name, resp.StatusCode)
		}
	}
}

func TestUserCRUD(t *testing.T) {
	app := newTestApp(t)
	token, _ := signupAndLogin(t, app, "Alice", "alice@example.com", "password123")

	// Create a credential-less record.
	resp, created := doJSON(t, app, "POST", "/users", token, map[string]string{
		"name": "Bob", "email": "bob@example.com",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %v, body = %v", resp.StatusCode, created)
	}
	bobID, _ := created["id"].(string)

	// List shows both users.
	resp, list := doJSON(t, app, "GET", "/users?page=1&limit=10", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %v", resp.StatusCode)
	}
	if got, _ := list["totalCount"].(float64); got != 2 {
		t.Errorf("totalCount = %v, want 2", list["totalCount"])
	}

	// Fetch, update, delete.
	resp, detail := doJSON(t, app, "GET", "/users/"+bobID, token, nil)
	if resp.StatusCode != http.StatusOK || detail["email"] != "bob@example.com" {
		t.Errorf("get = %v %v", resp.StatusCode, detail)
	}

	resp, updated := doJSON(t, app, "PUT", "/users/"+bobID, token, map[string]string{
		"name": "Bobby", "email": "bobby@example.com",
	})
	if resp.StatusCode != http.StatusOK || updated["name"] != "Bobby" {
		t.Errorf("update = %v %v", resp.StatusCode, updated)
	}

	resp, _ = doJSON(t, app, "DELETE", "/users/"+bobID, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("delete status = %v", resp.StatusCode)
	}

	resp, body := doJSON(t, app, "GET", "/users/"+bobID, token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %v, want 404", resp.StatusCode)
	}
	if body["error"] != CodeNotFound {
		t.Errorf("error code = %v, want %v", body["error"], CodeNotFound)
	}
}

func TestAppointmentFlow(t *testing.T) {
	app := newTestApp(t)

	doctorToken, _ := signupAndLogin(t, app, "Doc", "doc@doc.com", "password123")
	patientToken, patientID := signupAndLogin(t, app, "Pat", "pat@example.com", "password123")

	resp, created := doJSON(t, app, "POST", "/appointments", patientToken, map[string]string{
		"date": "2026-09-10T10:00:00Z", "reason": "checkup", "user_id": patientID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %v, body = %v", resp.StatusCode, created)
	}
	if created["status"] != "WAITING" {
		t.Errorf("status = %v, want WAITING", created["status"])
	}
	apptID, _ := created["id"].(string)

	// Patients cannot change status.
	resp, body := doJSON(t, app, "PATCH", "/appointments/"+apptID, patientToken, map[string]string{
		"status": "SERVING",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("patient patch status = %v, want 403 (body %v)", resp.StatusCode, body)
	}

	// Doctors can.
	resp, body = doJSON(t, app, "PATCH", "/appointments/"+apptID, doctorToken, map[string]string{
		"status": "SERVING",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("doctor patch status = %v, body = %v", resp.StatusCode, body)
	}
	if body["status"] != "SERVING" {
		t.Errorf("status = %v, want SERVING", body["status"])
	}

	// Unknown statuses are rejected.
	resp, body = doJSON(t, app, "PATCH", "/appointments/"+apptID, doctorToken, map[string]string{
		"status": "CANCELLED",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad status patch = %v, want 400 (body %v)", resp.StatusCode, body)
	}

	// Listing embeds the owner.
	resp, list := doJSON(t, app, "GET", fmt.Sprintf("/appointments?user_id=%s", patientID), doctorToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %v", resp.StatusCode)
	}
	data, _ := list["data"].([]any)
	if len(data) != 1 {
		t.Fatalf("len(data) = %d, want 1", len(data))
	}
	first, _ := data[0].(map[string]any)
	owner, _ := first["user"].(map[string]any)
	if owner["id"] != patientID {
		t.Errorf("embedded user id = %v, want %v", owner["id"], patientID)
	}
}

func TestAppointmentForUnknownUser(t *testing.T) {
	app := newTestApp(t)
	token, _ := signupAndLogin(t, app, "Alice", "alice@example.com", "password123")

	resp, body := doJSON(t, app, "POST", "/appointments", token, map[string]string{
		"date": "2026-09-10T10:00:00Z", "reason": "checkup", "user_id": "ghost",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %v, want 404 (body %v)", resp.StatusCode, body)
	}
}
