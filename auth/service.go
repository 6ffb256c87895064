package auth

import (
	"context"
	"net/mail"
	"regexp"
	"time"
	"unicode/utf8"
)

const maxPasswordRunes = 128

var usernameFormat = regexp.MustCompile("^[a-z0-9_]{3,20}$")

type service struct {
	userRepo       UserRepo
	passwordHasher PasswordHasher
	tokenManager   TokenManager
	now            func() time.Time
}

func NewService(userRepo UserRepo, passwordHasher PasswordHasher, tokenManager TokenManager) *service {
	return &service{
		userRepo:       userRepo,
		passwordHasher: passwordHasher,
		tokenManager:   tokenManager,
		now:            time.Now,
	}
}

// Signup registers a profile and returns a session token. Email is
// optional; it only exists so payment webhooks can find the profile.
func (as *service) Signup(ctx context.Context, username, email, password string) (string, error) {
	if !usernameFormat.MatchString(username) {
		return "", ErrInvalidUsernameFormat
	}
	if utf8.RuneCountInString(password) < 8 {
		return "", ErrWeakPassword
	}
	if utf8.RuneCountInString(password) > maxPasswordRunes {
		return "", ErrPasswordTooLong
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return "", ErrInvalidEmailFormat
		}
	}

	passwordHash, err := as.passwordHasher.Hash(password)
	if err != nil {
		return "", err
	}

	id, err := as.userRepo.CreateUser(ctx, username, email, passwordHash)
	if err != nil {
		return "", err
	}

	return as.tokenManager.Generate(id, as.now())
}

func (as *service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := as.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return "", err
	}

	match, err := as.passwordHasher.Compare(user.PasswordHash, password)
	if err != nil {
		return "", err
	}
	if !match {
		return "", ErrIncorrectPassword
	}

	return as.tokenManager.Generate(user.Id, as.now())
}

// VerifyToken returns the profile id if the token is valid, else, it returns an error
func (as *service) VerifyToken(token string) (string, error) {
	return as.tokenManager.Verify(token)
}

// RefreshToken re-issues a session token. The profile is looked up
// first, so a deleted account cannot keep rolling its session forever.
func (as *service) RefreshToken(ctx context.Context, id string) (string, error) {
	user, err := as.userRepo.GetUserById(ctx, id)
	if err != nil {
		return "", err
	}
	return as.tokenManager.Generate(user.Id, as.now())
}

var _ AuthService = (*service)(nil)
