package usecase

import (
	"context"
	"log"

	"job-portal/internal/domain/user"
	"job-portal/internal/pkg/jwt"
	ucauth "job-portal/internal/usecase/auth"
)

type AuthUsecase interface {
	Register(ctx context.Context, in ucauth.RegisterInput) (user.User, error)
	Login(ctx context.Context, in ucauth.LoginInput, clientIP string) (user.User, string, error)
}

type Auth struct {
	authSvc *ucauth.Service
	jwt     jwt.Service
	limiter LoginLimiter
	logger  *log.Logger
}

// NewAuthUsecase builds the auth use case. limiter may be nil, which turns
// login throttling off.
func NewAuthUsecase(users user.Repository, jwtSvc jwt.Service, limiter LoginLimiter, logger *log.Logger) *Auth {
	if logger == nil {
		logger = log.Default()
	}
	return &Auth{authSvc: ucauth.NewService(users), jwt: jwtSvc, limiter: limiter, logger: logger}
}

func (u *Auth) Register(ctx context.Context, in ucauth.RegisterInput) (user.User, error) {
	return u.authSvc.Register(ctx, in)
}

func (u *Auth) Login(ctx context.Context, in ucauth.LoginInput, clientIP string) (user.User, string, error) {
	key := clientIP + ":" + ucauth.NormalizeEmail(in.Email)
	if u.limiter != nil {
		ok, err := u.limiter.Allow(ctx, key)
		if err != nil {
			u.logger.Printf("[Auth] login limiter unavailable, allowing | key=%s err=%v", key, err)
		}
		if !ok {
			return user.User{}, "", ErrTooManyLoginAttempts
		}
	}

	usr, err := u.authSvc.Login(ctx, in)
	if err != nil {
		return user.User{}, "", err
	}

	token, err := u.jwt.GenerateToken(jwt.Identity{
		UserID: usr.ID,
		Role:   string(usr.Role),
		Name:   usr.Name,
		Email:  usr.Email,
	})
	if err != nil {
		return user.User{}, "", ErrInternal
	}

	if u.limiter != nil {
		if err := u.limiter.Reset(ctx, key); err != nil {
			u.logger.Printf("[Auth] login limiter reset failed | key=%s err=%v", key, err)
		}
	}
	return usr, token, nil
}
