package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/jansssss/jbfPL/internal"
	"github.com/jansssss/jbfPL/internal/notification"
	"github.com/jansssss/jbfPL/internal/principal"
)

type RepositoryAPI interface {
	GetByEmail(ctx context.Context, email string) (*principal.Principal, error)
	GetByID(ctx context.Context, id string) (*principal.Principal, error)
	Create(ctx context.Context, p *principal.Principal) error
	UpdateFields(ctx context.Context, id string, fields map[string]any) (*principal.Principal, error)
}

// Service owns the identity lifecycle: sign-in/up, session resolution,
// profile and password updates. The account row carries both the profile
// and the credential, so sign-up is one insert and cannot leave an
// orphaned credential behind.
type Service struct {
	repo        RepositoryAPI
	tokens      TokenGenerator
	notifier    notification.Notifier
	logger      *slog.Logger
	bcryptCost  int
	emailDomain string
}

func NewService(repo RepositoryAPI, tokens TokenGenerator, notifier notification.Notifier, emailDomain string, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:        repo,
		tokens:      tokens,
		notifier:    notifier,
		logger:      logger,
		bcryptCost:  bcryptCost,
		emailDomain: emailDomain,
	}
}

// Authenticate validates credentials and returns tokens plus the
// principal. Any lookup or password failure collapses into the same
// invalid-credentials error.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, *principal.Principal, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, nil, err
	}

	email := NormalizeIdentifier(dto.Identifier, s.emailDomain)

	p, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Warn("authentication failed: unknown email", "email", email)
		return AuthTokens{}, nil, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("authentication failed: bad password", "principal_id", p.ID)
		return AuthTokens{}, nil, internal.ErrInvalidCredentials
	}

	accessToken, err := s.tokens.GenerateAccessToken(p.ID, p.Email)
	if err != nil {
		return AuthTokens{}, nil, internal.NewInternalError("failed to generate access token", err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(p.ID, p.Email)
	if err != nil {
		return AuthTokens{}, nil, internal.NewInternalError("failed to generate refresh token", err)
	}

	s.logger.Info("principal signed in", "principal_id", p.ID, "access_level", p.AccessLevel)
	s.notifier.Notify(ctx, "로그인에 성공했습니다.", notification.SeveritySuccess)

	return AuthTokens{AccessToken: accessToken, RefreshToken: refreshToken}, p, nil
}

// SignUp registers a new account. Every self-registered principal starts
// at access level 1 with first_login set, whatever the request carried.
func (s *Service) SignUp(ctx context.Context, dto SignUpDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	email := NormalizeIdentifier(dto.Identifier, s.emailDomain)

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}

	now := time.Now()
	p := &principal.Principal{
		Email:        email,
		Name:         dto.Name,
		PasswordHash: string(hash),
		AccessLevel:  principal.EmployeeLevel,
		Center:       dto.Center,
		Team:         dto.Team,
		FirstLogin:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("sign-up failed", "error", err, "email", email)
		s.notifier.Notify(ctx, "회원가입에 실패했습니다.", notification.SeverityError)
		if appErr, ok := internal.IsAppError(err); ok {
			return appErr
		}
		return internal.NewRemoteWriteError(err)
	}

	s.logger.Info("principal registered", "principal_id", p.ID, "email", email)
	s.notifier.Notify(ctx, "회원가입이 완료되었습니다. 로그인해주세요.", notification.SeveritySuccess)
	return nil
}

// SignOut is stateless on the server; it exists to log and surface the
// user-facing notification.
func (s *Service) SignOut(ctx context.Context, p *principal.Principal) {
	if p != nil {
		s.logger.Info("principal signed out", "principal_id", p.ID)
	}
	s.notifier.Notify(ctx, "로그아웃 되었습니다.", notification.SeverityInfo)
}

// RefreshTokens validates a refresh token and issues a new pair.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	accessToken, err := s.tokens.GenerateAccessToken(claims.UserID, claims.Email)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to generate access token", err)
	}

	newRefreshToken, err := s.tokens.GenerateRefreshToken(claims.UserID, claims.Email)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to generate refresh token", err)
	}

	return AuthTokens{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

// CurrentPrincipal resolves the session token to the stored principal.
func (s *Service) CurrentPrincipal(ctx context.Context, accessToken string) (*principal.Principal, error) {
	claims, err := s.tokens.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		s.logger.Error("session principal lookup failed", "error", err, "principal_id", claims.UserID)
		return nil, internal.ErrPrincipalNotFound
	}
	return p, nil
}

// UpdateProfile writes the permitted profile fields and returns the
// merged principal.
func (s *Service) UpdateProfile(ctx context.Context, principalID string, dto UpdateProfileDTO) (*principal.Principal, error) {
	fields := map[string]any{"updated_at": time.Now()}
	if dto.Name != nil {
		fields["name"] = *dto.Name
	}
	if dto.Center != nil {
		fields["center"] = *dto.Center
	}
	if dto.Team != nil {
		fields["team"] = *dto.Team
	}

	updated, err := s.repo.UpdateFields(ctx, principalID, fields)
	if err != nil {
		s.logger.Error("profile update failed", "error", err, "principal_id", principalID)
		s.notifier.Notify(ctx, "프로필 업데이트에 실패했습니다.", notification.SeverityError)
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		return nil, internal.NewRemoteWriteError(err)
	}

	s.notifier.Notify(ctx, "프로필이 업데이트되었습니다.", notification.SeveritySuccess)
	return updated, nil
}

// UpdatePassword rehashes the credential and clears the first-login flag
// in the same write.
func (s *Service) UpdatePassword(ctx context.Context, principalID string, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.NewPassword), s.bcryptCost)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}

	_, err = s.repo.UpdateFields(ctx, principalID, map[string]any{
		"password_hash": string(hash),
		"first_login":   false,
		"updated_at":    time.Now(),
	})
	if err != nil {
		s.logger.Error("password update failed", "error", err, "principal_id", principalID)
		s.notifier.Notify(ctx, "비밀번호 변경에 실패했습니다.", notification.SeverityError)
		if appErr, ok := internal.IsAppError(err); ok {
			return appErr
		}
		return internal.NewRemoteWriteError(err)
	}

	s.logger.Info("password updated", "principal_id", principalID)
	s.notifier.Notify(ctx, "비밀번호가 변경되었습니다.", notification.SeveritySuccess)
	return nil
}

// HashPassword is exposed for the employee-management flow that creates
// accounts with a fixed temporary password.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (j *JWTTokenGenerator) GenerateAccessToken(userID string, email string) (string, error) {
	return j.signed(userID, email, j.AccessTokenSecret, j.AccessTokenTTL)
}

func (j *JWTTokenGenerator) GenerateRefreshToken(userID string, email string) (string, error) {
	return j.signed(userID, email, j.RefreshTokenSecret, j.RefreshTokenTTL)
}

func (j *JWTTokenGenerator) signed(userID, email string, secret []byte, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (j *JWTTokenGenerator) ValidateAccessToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) validate(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, internal.ErrInvalidToken
}
