package auth

import (
	"context"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/openshelf/catalogd/internal/domain"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned on unknown username or password mismatch.
var ErrInvalidCredentials = errors.New("invalid credentials")

// OperatorRepository looks up operator accounts for authentication.
// Returns (nil, nil) when the username is unknown.
type OperatorRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.SysOpr, error)
}

// GormOperatorRepository is the GORM implementation of OperatorRepository
type GormOperatorRepository struct {
	db *gorm.DB
}

func NewGormOperatorRepository(db *gorm.DB) *GormOperatorRepository {
	return &GormOperatorRepository{db: db}
}

func (r *GormOperatorRepository) FindByUsername(ctx context.Context, username string) (*domain.SysOpr, error) {
	var opr domain.SysOpr
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&opr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &opr, nil
}

// Service validates operator credentials and issues access tokens.
type Service struct {
	oprs   OperatorRepository
	secret string
	expire time.Duration
}

// NewService creates an auth service. expireHours bounds token lifetime.
func NewService(oprs OperatorRepository, secret string, expireHours int) *Service {
	if expireHours <= 0 {
		expireHours = 24
	}
	return &Service{
		oprs:   oprs,
		secret: secret,
		expire: time.Duration(expireHours) * time.Hour,
	}
}

// Validate checks username/password against the operator store.
// ErrInvalidCredentials on unknown username or bcrypt mismatch.
func (s *Service) Validate(ctx context.Context, username, password string) (*domain.SysOpr, error) {
	opr, err := s.oprs.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if opr == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(opr.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return opr, nil
}

// IssueToken signs an HS256 JWT for the operator.
func (s *Service) IssueToken(opr *domain.SysOpr) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(opr.ID, 10),
		Issuer:    opr.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expire)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", errors.Wrap(err, "sign access token")
	}
	return signed, nil
}

// HashPassword produces a bcrypt hash for operator seeding.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(hash), nil
}
