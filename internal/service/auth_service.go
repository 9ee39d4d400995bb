package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/pkg/auth"
)

var ErrAccountLocked = errors.New("account is temporarily locked due to multiple failed login attempts")

const minPasswordLength = 12

type AuthService struct {
	users      domain.UserRepository
	current    domain.CurrentUserRepository
	jwtManager *auth.JWTManager
	auditSvc   *AuditService
	log        *zap.Logger
	now        func() time.Time
}

func NewAuthService(
	users domain.UserRepository,
	current domain.CurrentUserRepository,
	jwtManager *auth.JWTManager,
	auditSvc *AuditService,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		current:    current,
		jwtManager: jwtManager,
		auditSvc:   auditSvc,
		log:        log,
		now:        time.Now,
	}
}

func (s *AuthService) Login(ctx context.Context, email, password, ip string) (*domain.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("looking up user: %w", err)
		}
		// Hash anyway so response time does not reveal whether the email exists.
		_, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		return nil, domain.ErrInvalidCredentials
	}

	if !user.Active {
		return nil, domain.ErrAccountDisabled
	}

	now := s.now().UTC()
	if user.IsLocked(now) {
		return nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		_ = s.users.RecordLoginAttempt(ctx, user.ID, false, now)
		s.log.Warn("failed login attempt",
			zap.String("email", email),
			zap.String("ip", ip),
		)
		return nil, domain.ErrInvalidCredentials
	}

	_ = s.users.RecordLoginAttempt(ctx, user.ID, true, now)

	pair, err := s.jwtManager.GenerateTokenPair(claimsFor(user))
	if err != nil {
		s.log.Error("failed to generate token pair", zap.Error(err))
		return nil, fmt.Errorf("generating tokens: %w", err)
	}

	if err := s.current.Set(ctx, domain.CurrentUser{
		UserID:         user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Role:           user.Role,
		PatientID:      user.PatientID,
		PractitionerID: user.PractitionerID,
		LoginAt:        now,
	}); err != nil {
		s.log.Warn("failed to record current user", zap.Error(err))
	}

	caller := Caller{UserID: user.ID, Role: user.Role, PatientID: user.PatientID, PractitionerID: user.PractitionerID, IP: ip}
	s.auditSvc.LogAsync(ctx, caller, AuditEntry{Action: domain.ActionLogin, ResourceType: "user", ResourceID: user.ID})

	s.log.Info("user logged in",
		zap.String("user_id", user.ID),
		zap.String("ip", ip),
	)

	return pair, nil
}

// RefreshToken issues a new token pair given a valid refresh token.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	// Re-validate the user is still active
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil || !user.Active {
		return nil, domain.ErrInvalidCredentials
	}

	return s.jwtManager.GenerateTokenPair(claimsFor(user))
}

// Logout clears the signed-in user when it is the caller.
func (s *AuthService) Logout(ctx context.Context, caller Caller) error {
	cur, err := s.current.Get(ctx)
	if errors.Is(err, domain.ErrNoCurrentUser) {
		return nil
	}
	if err != nil {
		return err
	}
	if cur.UserID == caller.UserID {
		if err := s.current.Clear(ctx); err != nil {
			return fmt.Errorf("clearing current user: %w", err)
		}
	}
	s.auditSvc.LogAsync(ctx, caller, AuditEntry{Action: domain.ActionLogout, ResourceType: "user", ResourceID: caller.UserID})
	return nil
}

func (s *AuthService) CurrentUser(ctx context.Context) (*domain.CurrentUser, error) {
	return s.current.Get(ctx)
}

func (s *AuthService) Me(ctx context.Context, caller Caller) (*domain.User, error) {
	return s.users.GetByID(ctx, caller.UserID)
}

// ChangePassword updates a user's password after verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, caller Caller, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, caller.UserID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return domain.ErrInvalidCredentials
	}

	if err := validatePasswordStrength(newPassword); err != nil {
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	s.auditSvc.LogAsync(ctx, caller, AuditEntry{Action: domain.ActionUpdate, ResourceType: "user", ResourceID: user.ID, Changes: `{"password":"changed"}`})
	return nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

func validatePasswordStrength(password string) error {
	if len(password) < minPasswordLength {
		return &ValidationError{Fields: []string{fmt.Sprintf("password must be at least %d characters", minPasswordLength)}}
	}
	return nil
}

func claimsFor(u *domain.User) *domain.Claims {
	return &domain.Claims{
		UserID:         u.ID,
		Email:          u.Email,
		Role:           u.Role,
		PatientID:      u.PatientID,
		PractitionerID: u.PractitionerID,
	}
}
