package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Shekhar0165/doctor-appointment-system/internal/auth"
	"github.com/Shekhar0165/doctor-appointment-system/internal/model"
	"github.com/Shekhar0165/doctor-appointment-system/internal/store"
)

const refreshTokenTTL = 7 * 24 * time.Hour

type patientRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Username string `json:"username"`
	Password string `json:"password"`
	Address  string `json:"address"`
}

func (h *Handler) PatientRegister(c echo.Context) error {
	var req patientRegisterRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || req.Email == "" || req.Phone == "" || req.Username == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "all fields are required")
	}
	if len(req.Password) < 6 {
		return fail(c, http.StatusBadRequest, "password must be at least 6 characters")
	}

	ctx := c.Request().Context()
	if _, err := h.store.PatientByUsername(ctx, req.Username); err == nil {
		return fail(c, http.StatusBadRequest, "Username already exists")
	}
	if _, err := h.store.PatientByEmail(ctx, req.Email); err == nil {
		return fail(c, http.StatusBadRequest, "Email already exists")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	p := &model.Patient{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Username:     req.Username,
		Address:      req.Address,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.store.CreatePatient(ctx, p); err != nil {
		// unique violation lost a race with another registration
		if errors.Is(err, store.ErrDuplicate) {
			return fail(c, http.StatusBadRequest, "Username already exists")
		}
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	return respond(c, http.StatusCreated, p)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) PatientLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "Please provide username and password")
	}

	ctx := c.Request().Context()
	p, err := h.store.PatientByUsername(ctx, req.Username)
	if err != nil || !auth.CheckPassword(p.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, "Invalid credentials")
	}

	tok, err := h.issueSession(c, p.ID, auth.RolePatient)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	return respond(c, http.StatusOK, echo.Map{"patient": p, "token": tok})
}

type hospitalRegisterRequest struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) HospitalRegister(c echo.Context) error {
	var req hospitalRegisterRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || req.Address == "" || req.Phone == "" || req.Email == "" ||
		req.Username == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "all fields are required")
	}
	if len(req.Password) < 6 {
		return fail(c, http.StatusBadRequest, "password must be at least 6 characters")
	}

	ctx := c.Request().Context()
	if _, err := h.store.HospitalByUsername(ctx, req.Username); err == nil {
		return fail(c, http.StatusBadRequest, "Username already exists")
	}
	if _, err := h.store.HospitalByEmail(ctx, req.Email); err == nil {
		return fail(c, http.StatusBadRequest, "Email already exists")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	hosp := &model.Hospital{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Address:      req.Address,
		Phone:        req.Phone,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.store.CreateHospital(ctx, hosp); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return fail(c, http.StatusBadRequest, "Username already exists")
		}
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	return respond(c, http.StatusCreated, hosp)
}

func (h *Handler) HospitalLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "Please provide username and password")
	}

	ctx := c.Request().Context()
	hosp, err := h.store.HospitalByUsername(ctx, req.Username)
	if err != nil || !auth.CheckPassword(hosp.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, "Invalid credentials")
	}

	tok, err := h.issueSession(c, hosp.ID, auth.RoleHospital)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	return respond(c, http.StatusOK, echo.Map{"hospital": hosp, "token": tok})
}

// issueSession creates the access token plus a server-side refresh token
// and sets both as HttpOnly cookies.
func (h *Handler) issueSession(c echo.Context, subjectID, role string) (string, error) {
	tok, err := auth.MakeToken(subjectID, role, h.secret)
	if err != nil {
		return "", err
	}

	rawRefresh, tokenHash, err := auth.GenerateRefreshToken()
	if err != nil {
		return "", err
	}
	expiry := time.Now().Add(refreshTokenTTL)
	if _, err := h.store.CreateRefreshToken(c.Request().Context(), subjectID, role, tokenHash, expiry); err != nil {
		return "", err
	}

	c.SetCookie(&http.Cookie{
		Name: "access_token", Value: tok, HttpOnly: true, Path: "/",
	})
	c.SetCookie(&http.Cookie{
		Name: "refresh_token", Value: rawRefresh, HttpOnly: true, Path: "/api/auth",
		Expires: expiry,
	})
	return tok, nil
}

// Refresh rotates the refresh token and issues a fresh access token.
// Presenting a revoked token revokes the whole session family: it means the
// token was already rotated once and is being replayed.
func (h *Handler) Refresh(c echo.Context) error {
	ck, err := c.Cookie("refresh_token")
	if err != nil || ck.Value == "" {
		return fail(c, http.StatusUnauthorized, "no refresh token")
	}

	ctx := c.Request().Context()
	rt, err := h.store.RefreshTokenByHash(ctx, auth.HashRefreshToken(ck.Value))
	if err != nil {
		return fail(c, http.StatusUnauthorized, "invalid refresh token")
	}
	if rt.Revoked {
		_ = h.store.RevokeAllRefreshTokens(ctx, rt.SubjectID)
		return fail(c, http.StatusUnauthorized, "invalid refresh token")
	}
	if time.Now().After(rt.ExpiresAt) {
		return fail(c, http.StatusUnauthorized, "refresh token expired")
	}

	newRaw, newHash, err := auth.GenerateRefreshToken()
	if err != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	newID := uuid.New().String()
	expiry := time.Now().Add(refreshTokenTTL)
	if err := h.store.RotateRefreshToken(ctx, rt.ID, newID, rt.SubjectID, rt.Role, newHash, expiry); err != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	tok, err := auth.MakeToken(rt.SubjectID, rt.Role, h.secret)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	c.SetCookie(&http.Cookie{
		Name: "access_token", Value: tok, HttpOnly: true, Path: "/",
	})
	c.SetCookie(&http.Cookie{
		Name: "refresh_token", Value: newRaw, HttpOnly: true, Path: "/api/auth",
		Expires: expiry,
	})
	return respond(c, http.StatusOK, echo.Map{"token": tok})
}

func (h *Handler) Logout(c echo.Context) error {
	if ck, err := c.Cookie("refresh_token"); err == nil && ck.Value != "" {
		ctx := c.Request().Context()
		if rt, err := h.store.RefreshTokenByHash(ctx, auth.HashRefreshToken(ck.Value)); err == nil {
			_ = h.store.RevokeAllRefreshTokens(ctx, rt.SubjectID)
		}
	}

	c.SetCookie(&http.Cookie{Name: "access_token", Value: "", HttpOnly: true, Path: "/", MaxAge: -1})
	c.SetCookie(&http.Cookie{Name: "refresh_token", Value: "", HttpOnly: true, Path: "/api/auth", MaxAge: -1})
	return respond(c, http.StatusOK, echo.Map{})
}
