package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"task-manager/internal/apperr"
	"task-manager/internal/auth"
	"task-manager/internal/model"
	"task-manager/internal/repository"
)

const msgNoActiveAccount = "No active account found with the given credentials"

// RegisterInput represents data required to create an account.
type RegisterInput struct {
	FirstName string
	LastName  string
	Username  string
	Password  string
	Email     string
}

// AccountUpdate carries a partial profile update; nil fields stay untouched.
type AccountUpdate struct {
	FirstName *string
	LastName  *string
	Username  *string
	Email     *string
	Password  *string
}

// TokenPair is the access/refresh pair handed to clients.
type TokenPair struct {
	Access  string
	Refresh string
}

// Registration is the result of a successful sign-up.
type Registration struct {
	User   *model.User
	Tokens TokenPair
}

// AuthService wraps account and session logic.
type AuthService struct {
	users  *repository.UserRepository
	tokens *repository.TokenRepository
	issuer *auth.Manager
	now    func() time.Time
}

func NewAuthService(users *repository.UserRepository, tokens *repository.TokenRepository, issuer *auth.Manager) *AuthService {
	return &AuthService{users: users, tokens: tokens, issuer: issuer, now: time.Now}
}

// Register creates the user and signs them in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*Registration, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = strings.TrimSpace(input.Email)

	fields := apperr.FieldErrors{}
	checkUsername(fields, input.Username)
	checkPassword(fields, input.Password)
	checkName(fields, "first_name", input.FirstName)
	checkName(fields, "last_name", input.LastName)
	checkEmail(fields, input.Email)
	if err := fields.Err(); err != nil {
		return nil, err
	}
	if err := s.ensureUsernameFree(ctx, input.Username, 0); err != nil {
		return nil, err
	}

	hashed, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := model.User{
		Username:  input.Username,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Password:  hashed,
		IsActive:  true,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, usernameTakenError()
		}
		return nil, err
	}

	pair, err := s.issuePair(ctx, &user)
	if err != nil {
		return nil, err
	}
	return &Registration{User: &user, Tokens: pair}, nil
}

// Login checks credentials and returns a new token pair.
func (s *AuthService) Login(ctx context.Context, username, password string) (TokenPair, error) {
	fields := apperr.FieldErrors{}
	if username == "" {
		fields.Add("username", msgRequired)
	}
	if password == "" {
		fields.Add("password", msgRequired)
	}
	if err := fields.Err(); err != nil {
		return TokenPair{}, err
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TokenPair{}, apperr.Authentication(apperr.ReasonAuthenticationFailed, msgNoActiveAccount)
		}
		return TokenPair{}, err
	}
	if !user.IsActive || !auth.CheckPassword(user.Password, password) {
		return TokenPair{}, apperr.Authentication(apperr.ReasonAuthenticationFailed, msgNoActiveAccount)
	}

	if err := s.users.Update(ctx, user, map[string]interface{}{"last_login": s.now()}); err != nil {
		return TokenPair{}, err
	}
	return s.issuePair(ctx, user)
}

// Logout revokes the refresh token so it can no longer mint access tokens.
func (s *AuthService) Logout(ctx context.Context, refresh string) error {
	if strings.TrimSpace(refresh) == "" {
		return apperr.New(apperr.CodeValidation, "Refresh token is required")
	}
	claims, err := s.issuer.Parse(refresh, auth.RefreshToken)
	if err != nil {
		return err
	}
	if err := s.ensureNotBlacklisted(ctx, claims.ID); err != nil {
		return err
	}

	err = s.tokens.Blacklist(ctx, model.OutstandingToken{
		UserID:    claims.UserID,
		JTI:       claims.ID,
		Token:     refresh,
		ExpiresAt: claims.ExpiresAtTime(),
	})
	if errors.Is(err, repository.ErrAlreadyBlacklisted) {
		return blacklistedError()
	}
	return err
}

// ObtainPair is the token endpoint flavour of Login.
func (s *AuthService) ObtainPair(ctx context.Context, username, password string) (TokenPair, error) {
	return s.Login(ctx, username, password)
}

// Refresh mints a new access token from a valid, non-revoked refresh token.
func (s *AuthService) Refresh(ctx context.Context, refresh string) (string, error) {
	if strings.TrimSpace(refresh) == "" {
		return "", apperr.Validation("refresh", msgRequired)
	}
	claims, err := s.issuer.Parse(refresh, auth.RefreshToken)
	if err != nil {
		return "", err
	}
	if err := s.ensureNotBlacklisted(ctx, claims.ID); err != nil {
		return "", err
	}
	access, err := s.issuer.IssueAccess(claims.Identity())
	if err != nil {
		return "", err
	}
	return access.Raw, nil
}

// Verify checks signature and expiry of any token; refresh tokens must not be revoked.
func (s *AuthService) Verify(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return apperr.Validation("token", msgRequired)
	}
	claims, err := s.issuer.Parse(token, "")
	if err != nil {
		return err
	}
	if claims.TokenType == auth.RefreshToken {
		return s.ensureNotBlacklisted(ctx, claims.ID)
	}
	return nil
}

// Authenticate validates an access token without touching the store.
func (s *AuthService) Authenticate(token string) (auth.Identity, error) {
	claims, err := s.issuer.Parse(token, auth.AccessToken)
	if err != nil {
		return auth.Identity{}, err
	}
	return claims.Identity(), nil
}

// Account returns the caller's profile.
func (s *AuthService) Account(ctx context.Context, identity auth.Identity) (*model.User, error) {
	user, err := s.users.FindByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Authentication(apperr.ReasonUserNotFound, "User not found")
		}
		return nil, err
	}
	return user, nil
}

// UpdateAccount applies a partial profile update.
func (s *AuthService) UpdateAccount(ctx context.Context, identity auth.Identity, upd AccountUpdate) (*model.User, error) {
	user, err := s.Account(ctx, identity)
	if err != nil {
		return nil, err
	}

	fields := apperr.FieldErrors{}
	updates := map[string]interface{}{}
	if upd.Username != nil {
		username := strings.TrimSpace(*upd.Username)
		checkUsername(fields, username)
		updates["username"] = username
	}
	if upd.FirstName != nil {
		name := strings.TrimSpace(*upd.FirstName)
		checkName(fields, "first_name", name)
		updates["first_name"] = name
	}
	if upd.LastName != nil {
		name := strings.TrimSpace(*upd.LastName)
		checkName(fields, "last_name", name)
		updates["last_name"] = name
	}
	if upd.Email != nil {
		email := strings.TrimSpace(*upd.Email)
		checkEmail(fields, email)
		updates["email"] = email
	}
	if upd.Password != nil {
		checkPassword(fields, *upd.Password)
	}
	if err := fields.Err(); err != nil {
		return nil, err
	}

	if username, ok := updates["username"].(string); ok && username != user.Username {
		if err := s.ensureUsernameFree(ctx, username, user.ID); err != nil {
			return nil, err
		}
	}
	if upd.Password != nil {
		hashed, err := auth.HashPassword(*upd.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hashed
	}

	if err := s.users.Update(ctx, user, updates); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, usernameTakenError()
		}
		return nil, err
	}
	return s.users.FindByID(ctx, user.ID)
}

// DeleteAccount removes the caller and everything they own.
func (s *AuthService) DeleteAccount(ctx context.Context, identity auth.Identity) error {
	if err := s.users.Delete(ctx, identity.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Authentication(apperr.ReasonUserNotFound, "User not found")
		}
		return err
	}
	return nil
}

func (s *AuthService) issuePair(ctx context.Context, user *model.User) (TokenPair, error) {
	pair, err := s.issuer.IssuePair(auth.Identity{UserID: user.ID, Username: user.Username})
	if err != nil {
		return TokenPair{}, err
	}
	err = s.tokens.RecordOutstanding(ctx, &model.OutstandingToken{
		UserID:    user.ID,
		JTI:       pair.Refresh.Claims.ID,
		Token:     pair.Refresh.Raw,
		ExpiresAt: pair.Refresh.Claims.ExpiresAtTime(),
	})
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: pair.Access.Raw, Refresh: pair.Refresh.Raw}, nil
}

func (s *AuthService) ensureUsernameFree(ctx context.Context, username string, exceptID uint) error {
	taken, err := s.users.UsernameTaken(ctx, username, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return usernameTakenError()
	}
	return nil
}

func (s *AuthService) ensureNotBlacklisted(ctx context.Context, jti string) error {
	revoked, err := s.tokens.IsBlacklisted(ctx, jti)
	if err != nil {
		return fmt.Errorf("check token: %w", err)
	}
	if revoked {
		return blacklistedError()
	}
	return nil
}

func usernameTakenError() error {
	return apperr.Validation("username", "A user with that username already exists.")
}

func blacklistedError() error {
	return apperr.Authentication(apperr.ReasonTokenNotValid, "Token is blacklisted")
}
