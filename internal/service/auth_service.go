package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"campus-lostfound-api/internal/domain"
	"campus-lostfound-api/internal/dto"
	"campus-lostfound-api/internal/mailer"
	"campus-lostfound-api/internal/metrics"
	"campus-lostfound-api/internal/repository"
	"campus-lostfound-api/internal/response"
	"campus-lostfound-api/internal/session"
	"campus-lostfound-api/internal/token"
)

// invalidCredentialsMessage is shared by the unknown-email and
// wrong-password paths so login failures cannot be used to probe which
// addresses are registered.
const invalidCredentialsMessage = "Invalid email or password"

// RegisterResult reports a completed registration. ConfirmationSent is
// false when the user row was committed but the confirmation mail could
// not be delivered; the account exists and can request a new mail by
// re-registering after the purge window.
type RegisterResult struct {
	User             *dto.UserResponse
	ConfirmationSent bool
}

// ConfirmResult reports a processed confirmation link
type ConfirmResult struct {
	Email            string
	AlreadyConfirmed bool
}

// AuthService defines the interface for registration, login and
// email confirmation
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*RegisterResult, error)
	Login(ctx context.Context, req *dto.LoginRequest) (string, error)
	Logout(ctx context.Context, sessionToken string) error
	Confirm(ctx context.Context, tokenStr string) (*ConfirmResult, error)
}

// AuthConfig carries the registration policy
type AuthConfig struct {
	EmailDomain   string
	StudentIDOnly bool
	BaseURL       string
}

// authServiceImpl is the implementation of AuthService
type authServiceImpl struct {
	userRepo repository.UserRepository
	tokens   *token.Issuer
	sessions *session.Manager
	mail     mailer.Mailer
	emailRe  *regexp.Regexp
	baseURL  string
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	tokens *token.Issuer,
	sessions *session.Manager,
	mail mailer.Mailer,
	cfg AuthConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) AuthService {
	localPart := `[A-Za-z0-9._%+-]+`
	if cfg.StudentIDOnly {
		localPart = `e\d{6}`
	}
	emailRe := regexp.MustCompile(`^` + localPart + `@` + regexp.QuoteMeta(cfg.EmailDomain) + `$`)

	return &authServiceImpl{
		userRepo: userRepo,
		tokens:   tokens,
		sessions: sessions,
		mail:     mail,
		emailRe:  emailRe,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		metrics:  m,
		logger:   logger,
	}
}

// Register creates an unconfirmed account and sends the confirmation
// mail. The user row is committed first; a mail failure is reported in
// the result, never rolled back.
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*RegisterResult, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	if username == "" {
		return nil, response.NewAppError(response.ErrCodeValidation, "Username is required", "")
	}
	if req.Password == "" {
		return nil, response.NewAppError(response.ErrCodeValidation, "Password is required", "")
	}
	if !s.emailRe.MatchString(email) {
		return nil, response.NewAppError(response.ErrCodeValidation, "Please use your institutional email address", "")
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, response.NewAppError(response.ErrCodeAlreadyExists, "Username is already taken", "")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check username", err.Error())
	}
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, response.NewAppError(response.ErrCodeAlreadyExists, "Email address is already registered", "")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check email", err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to hash password", err.Error())
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent registration may win the unique index race
		return nil, response.NewAppError(response.ErrCodeAlreadyExists, "Username or email is already registered", err.Error())
	}

	s.metrics.IncrementUserRegistered()
	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)

	sent := s.sendConfirmation(ctx, email)

	return &RegisterResult{
		User:             dto.ToUserResponse(user),
		ConfirmationSent: sent,
	}, nil
}

func (s *authServiceImpl) sendConfirmation(ctx context.Context, email string) bool {
	confirmToken, err := s.tokens.Issue(email)
	if err != nil {
		s.logger.Error("Failed to issue confirmation token", zap.Error(err))
		s.metrics.IncrementMailSendFailure()
		return false
	}

	confirmURL := fmt.Sprintf("%s/confirm/%s", s.baseURL, confirmToken)
	if err := s.mail.SendConfirmation(ctx, email, confirmURL); err != nil {
		s.logger.Error("Failed to send confirmation mail", zap.Error(err))
		s.metrics.IncrementMailSendFailure()
		return false
	}
	return true
}

// Login checks credentials and returns a session token. Unknown email
// and wrong password produce the same generic rejection.
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (string, error) {
	email := strings.TrimSpace(req.Email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Burn a comparison anyway so response timing does not
			// separate unknown emails from wrong passwords
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
			s.metrics.IncrementLoginFailure()
			return "", response.NewAppError(response.ErrCodeUnauthorized, invalidCredentialsMessage, "")
		}
		return "", response.NewAppError(response.ErrCodeInternal, "Failed to look up user", err.Error())
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.metrics.IncrementLoginFailure()
		return "", response.NewAppError(response.ErrCodeUnauthorized, invalidCredentialsMessage, "")
	}

	sessionToken, err := s.sessions.Issue(user.ID)
	if err != nil {
		return "", response.NewAppError(response.ErrCodeInternal, "Failed to create session", err.Error())
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()))
	return sessionToken, nil
}

// dummyHash is a bcrypt hash of an unguessable throwaway value, used to
// equalize login timing for unknown emails.
var dummyHash = func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("lostfound-timing-pad"), bcrypt.DefaultCost)
	return h
}()

// Logout revokes the session. An unparseable or expired token is
// treated as already logged out.
func (s *authServiceImpl) Logout(ctx context.Context, sessionToken string) error {
	if err := s.sessions.Revoke(ctx, sessionToken); err != nil {
		if errors.Is(err, session.ErrInvalidSession) {
			return nil
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to revoke session", err.Error())
	}
	return nil
}

// Confirm verifies a confirmation link and flips the confirmed flag.
// Verifying an already-confirmed account is a reported no-op.
func (s *authServiceImpl) Confirm(ctx context.Context, tokenStr string) (*ConfirmResult, error) {
	email, err := s.tokens.Verify(tokenStr)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return nil, response.NewAppError(response.ErrCodeTokenExpired,
				"Confirmation link has expired. Please register again to receive a new one.", "")
		}
		return nil, response.NewAppError(response.ErrCodeTokenInvalid,
			"Confirmation link is invalid.", "")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound,
				"No account found for this confirmation link. Please register again.", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to look up user", err.Error())
	}

	if user.Confirmed {
		return &ConfirmResult{Email: email, AlreadyConfirmed: true}, nil
	}

	now := time.Now().UTC()
	user.Confirmed = true
	user.ConfirmedAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to confirm account", err.Error())
	}

	s.metrics.IncrementUserConfirmed()
	s.logger.Info("Email confirmed", zap.String("user_id", user.ID.String()))

	return &ConfirmResult{Email: email}, nil
}
