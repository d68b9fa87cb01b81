// Package account signs employees in and out.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"modelshop/internal/audit"
	"modelshop/internal/lib/apperr"
	"modelshop/internal/lib/jwtauth"
	"modelshop/internal/session"
	"modelshop/internal/storage"
)

type Repository interface {
	AccountByEmployeeID(ctx context.Context, employeeID string) (storage.Account, error)
	PermissionIDs(ctx context.Context, roleID int64) ([]int64, error)
	PermissionNames(ctx context.Context, employeeID string) ([]string, error)
	MenusByRole(ctx context.Context, roleID int64) ([]storage.Menu, error)
}

type Service struct {
	log       *slog.Logger
	repo      Repository
	blacklist session.Blacklist
	audit     *audit.Recorder
	secret    []byte
	tokenTTL  time.Duration
}

func New(log *slog.Logger, repo Repository, blacklist session.Blacklist, recorder *audit.Recorder, secret []byte, tokenTTL time.Duration) *Service {
	return &Service{
		log:       log,
		repo:      repo,
		blacklist: blacklist,
		audit:     recorder,
		secret:    secret,
		tokenTTL:  tokenTTL,
	}
}

type LoginResult struct {
	Token        string         `json:"token"`
	EmployeeID   string         `json:"employeeId"`
	EmployeeName string         `json:"employeeName"`
	Role         string         `json:"role"`
	Permissions  []int64        `json:"permissions"`
	Menus        []storage.Menu `json:"menus"`
	ExpiresAt    time.Time      `json:"expiresAt"`
}

var errInvalidCredentials = apperr.New(apperr.KindUnauthorized, "Invalid credentials")

func (s *Service) Login(ctx context.Context, employeeID, password string) (LoginResult, error) {
	const op = "service.account.Login"

	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" || password == "" {
		return LoginResult{}, apperr.Validation("Employee ID and password are required")
	}

	acc, err := s.repo.AccountByEmployeeID(ctx, employeeID)
	if errors.Is(err, storage.ErrNotFound) {
		s.audit.Record(ctx, audit.EventLoginFailed, fmt.Sprintf("Invalid login attempt: Employee ID %s not found.", employeeID))
		return LoginResult{}, errInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("%s: %w", op, err)
	}

	if acc.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		s.audit.Record(ctx, audit.EventLoginFailed, fmt.Sprintf("Invalid login attempt for Employee ID: %s", employeeID))
		return LoginResult{}, errInvalidCredentials
	}

	perms, err := s.repo.PermissionIDs(ctx, acc.RoleID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("%s: %w", op, err)
	}
	menus, err := s.repo.MenusByRole(ctx, acc.RoleID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(menus) == 0 {
		s.audit.Record(ctx, audit.EventLoginFailed, fmt.Sprintf("User %s has no menu access.", employeeID))
		return LoginResult{}, apperr.New(apperr.KindForbidden, "No menus assigned for this role")
	}

	token, claims, err := jwtauth.NewToken(acc.EmployeeID, acc.EmployeeName, acc.RoleName, perms, s.secret, s.tokenTTL)
	if err != nil {
		return LoginResult{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user logged in", slog.String("employee_id", acc.EmployeeID), slog.String("role", acc.RoleName))
	s.audit.Record(ctx, audit.EventLogin, fmt.Sprintf("User %s (%s) logged in successfully.", acc.EmployeeID, acc.EmployeeName))

	return LoginResult{
		Token:        token,
		EmployeeID:   acc.EmployeeID,
		EmployeeName: acc.EmployeeName,
		Role:         acc.RoleName,
		Permissions:  perms,
		Menus:        menus,
		ExpiresAt:    claims.ExpiresAt.Time,
	}, nil
}

// Logout revokes the presented token for the rest of its lifetime. Without a
// valid token only the event is recorded.
func (s *Service) Logout(ctx context.Context, token, employeeID string) error {
	const op = "service.account.Logout"

	if token != "" {
		claims, err := jwtauth.ParseToken(token, s.secret)
		if err == nil {
			employeeID = claims.EmployeeID
			if s.blacklist != nil {
				if err := s.blacklist.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
					return fmt.Errorf("%s: %w", op, err)
				}
			}
		}
	}
	if employeeID == "" {
		employeeID = "Unknown Employee"
	}

	s.audit.Record(ctx, audit.EventLogout, fmt.Sprintf("Employee %s logged out", employeeID))

	return nil
}

func (s *Service) CurrentPermissions(ctx context.Context, employeeID string) ([]string, error) {
	const op = "service.account.CurrentPermissions"

	if employeeID == "" {
		return nil, apperr.Validation("Employee ID is required")
	}

	names, err := s.repo.PermissionNames(ctx, employeeID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.New(apperr.KindForbidden, "Access denied: Invalid employee ID")
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(names) == 0 {
		return nil, apperr.New(apperr.KindForbidden, "No permissions assigned to this role")
	}

	return names, nil
}
