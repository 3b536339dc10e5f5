package authenticating

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/docstore"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/normalizing"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
	"golang.org/x/crypto/bcrypt"
)

type Authenticator interface {
	LoginUser(ctx context.Context, email, password string) (*LoginResult, error)
	ValidateToken(tokenString string) (*domain.Claims, error)
	Logout(claims *domain.Claims)
	GetUserProfile(ctx context.Context, userID string) (*domain.User, error)
}

// SessionOpener abre e fecha a sessão do dashboard vinculada a um login
type SessionOpener interface {
	Open(userID string) (string, error)
	Close(sessionID string) bool
}

type LoginResult struct {
	Token     string    `json:"token"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Service struct {
	gateway  docstore.Gateway
	sessions SessionOpener
	cfg      config.Auth
	logger   log.Logger
	now      func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewService(gateway docstore.Gateway, sessions SessionOpener, cfg config.Auth) *Service {
	return &Service{
		gateway:  gateway,
		sessions: sessions,
		cfg:      cfg,
		logger:   log.L.WithComponent("authenticating"),
		now:      time.Now,
		revoked:  make(map[string]time.Time),
	}
}

func handleEmail(s string) string {
	email := strings.ToLower(s)
	email = strings.TrimSpace(email)
	email = strings.ReplaceAll(email, " ", "")
	return email
}

func (s *Service) findUser(ctx context.Context, filter docstore.Filter) (*domain.User, error) {
	docs, err := s.gateway.Find(ctx, docstore.Query{
		Collection: domain.UserCollection,
		Filters:    []docstore.Filter{filter},
	})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}

	user := normalizing.User(docs[0])
	return &user, nil
}

func (s *Service) LoginUser(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Email e senha são obrigatórios")
	}

	email = handleEmail(email)

	user, err := s.findUser(ctx, docstore.Filter{Field: domain.UserFieldEmail, Op: docstore.OpEq, Value: email})
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Erro ao consultar usuário")
		return nil, NewAuthError(ErrStoreOperation, apiErrors.ErrQueryFailed, "Erro ao consultar usuário")
	}

	if user == nil {
		return nil, NewAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, "Usuário não encontrado")
	}

	if !user.Active {
		return nil, NewUserAuthError(ErrUserDisabled, apiErrors.ErrUserDisabled, user.ID, "Conta desativada")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, NewUserAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, user.ID, "Senha incorreta")
	}

	sessionID, err := s.sessions.Open(user.ID)
	if err != nil {
		return nil, NewUserAuthError(err, apiErrors.ErrInternalServer, user.ID, "Erro ao abrir sessão")
	}

	expiresAt := s.now().Add(s.cfg.TokenTTL)
	token, err := s.generateJWT(user, sessionID, expiresAt)
	if err != nil {
		s.sessions.Close(sessionID)
		return nil, NewAuthError(err, apiErrors.ErrInternalServer, "Erro ao gerar token de autenticação")
	}

	s.logger.WithContext(ctx).WithFields(log.Fields{
		"user_id":    user.ID,
		"session_id": sessionID,
	}).Info("Login realizado")

	return &LoginResult{Token: token, SessionID: sessionID, ExpiresAt: expiresAt}, nil
}

func (s *Service) generateJWT(user *domain.User, sessionID string, expiresAt time.Time) (string, error) {
	claims := domain.Claims{
		UserID:    user.ID,
		UserName:  user.Name,
		UserEmail: user.Email,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.SecretKey))
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.SecretKey), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, NewAuthError(ErrExpiredToken, apiErrors.ErrExpiredToken, "")
		}
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid {
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, "")
	}

	if s.isRevoked(claims.ID) {
		return nil, NewUserAuthError(ErrRevokedToken, apiErrors.ErrInvalidToken, claims.UserID, "")
	}

	return claims, nil
}

// Logout revoga o token até sua expiração e encerra a sessão do dashboard
func (s *Service) Logout(claims *domain.Claims) {
	if claims == nil {
		return
	}

	expiresAt := s.now().Add(s.cfg.TokenTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	s.mu.Lock()
	now := s.now()
	for jti, exp := range s.revoked {
		if exp.Before(now) {
			delete(s.revoked, jti)
		}
	}
	s.revoked[claims.ID] = expiresAt
	s.mu.Unlock()

	s.sessions.Close(claims.SessionID)

	s.logger.WithFields(log.Fields{
		"user_id":    claims.UserID,
		"session_id": claims.SessionID,
	}).Info("Logout realizado")
}

func (s *Service) isRevoked(jti string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[jti]
	return ok
}

func (s *Service) GetUserProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.findUser(ctx, docstore.Filter{Field: docstore.FieldID, Op: docstore.OpEq, Value: userID})
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Erro ao consultar perfil")
		return nil, NewAuthError(ErrStoreOperation, apiErrors.ErrQueryFailed, "Erro ao consultar usuário")
	}
	if user == nil {
		return nil, NewAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, "Usuário não encontrado")
	}

	user.PasswordHash = ""
	return user, nil
}
