package service

import (
	"context"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/quillpress/quillpress/database"
	"github.com/quillpress/quillpress/database/model"
	"github.com/quillpress/quillpress/logger"
	"github.com/quillpress/quillpress/util/common"
	"github.com/quillpress/quillpress/util/crypto"
	"github.com/quillpress/quillpress/util/metrics"
	"github.com/quillpress/quillpress/web/entity"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const (
	minPasswordLen = 6
	maxPasswordLen = 20
)

// Claims is the payload of a session token. Tokens carry no expiry and stay
// valid until the signing secret is rotated.
type Claims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the caller derived from a verified token.
type Identity struct {
	UserId uint
	Role   model.Role
}

type AuthService struct {
	db     *gorm.DB
	secret []byte
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{db: db, secret: []byte(jwtSecret)}
}

// Register creates a user with the given role. Both registration routes share
// the same validation and differ only in role.
func (s *AuthService) Register(ctx context.Context, form *entity.RegisterForm, role model.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, common.NewErrorf("unknown role %q", role)
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&model.User{}).Where("email = ?", form.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, common.NewConflictError("email already exists")
	}

	hash, err := crypto.HashPasswordAsBcrypt(form.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Password:  hash,
		Avatar:    form.Avatar,
		Role:      role,
	}
	if err := db.Create(user).Error; err != nil {
		if database.IsDuplicate(err) {
			return nil, common.NewConflictError("email already exists")
		}
		return nil, err
	}
	logger.Infof("user %d registered with role %s", user.Id, role)
	return user, nil
}

// Login checks the credentials and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, form *entity.LoginForm) (string, *model.User, error) {
	if err := form.Validate(); err != nil {
		return "", nil, err
	}

	user := &model.User{}
	err := s.db.WithContext(ctx).Where("email = ?", form.Email).First(user).Error
	if database.IsNotFound(err) {
		metrics.FailedLoginAttempts.Inc()
		return "", nil, common.NewNotFoundError("user does not exist")
	} else if err != nil {
		return "", nil, err
	}

	if !crypto.CheckPasswordHash(user.Password, form.Password) {
		metrics.FailedLoginAttempts.Inc()
		logger.Warningf("wrong password for user %d", user.Id)
		return "", nil, common.NewAuthenticationError("invalid password")
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, common.Wrap(err, "failed to sign token")
	}
	return token, user, nil
}

// IssueToken signs an HS256 token carrying the user id and role.
func (s *AuthService) IssueToken(user *model.User) (string, error) {
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  strconv.FormatUint(uint64(user.Id), 10),
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// VerifyToken checks the signature and returns the identity it carries.
func (s *AuthService) VerifyToken(token string) (*Identity, error) {
	if token == "" {
		return nil, common.NewAuthenticationError("you are not signed in")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, common.NewAuthenticationError("invalid token")
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 || !claims.Role.Valid() {
		return nil, common.NewAuthenticationError("invalid token")
	}
	return &Identity{UserId: uint(id), Role: claims.Role}, nil
}

// Profile returns the caller's user record; the role in the token must still match.
func (s *AuthService) Profile(ctx context.Context, who *Identity) (*model.User, error) {
	user := &model.User{}
	err := s.db.WithContext(ctx).
		Where("id = ? AND role = ?", who.UserId, who.Role).
		First(user).Error
	if database.IsNotFound(err) {
		return nil, common.NewNotFoundError("user not found")
	}
	return user, err
}

// ChangePassword replaces the caller's password after checking the old one.
func (s *AuthService) ChangePassword(ctx context.Context, userId uint, form *entity.ChangePasswordForm) error {
	if err := form.Validate(); err != nil {
		return err
	}
	if form.NewPassword != form.ConfirmPassword {
		return common.NewValidationError("new passwords do not match", map[string][]string{
			"confirmPassword": {"must match newPassword"},
		})
	}
	if n := utf8.RuneCountInString(form.NewPassword); n < minPasswordLen || n > maxPasswordLen {
		return common.NewValidationError("password must be between 6-20 characters", map[string][]string{
			"newPassword": {"must be between 6 and 20 characters"},
		})
	}

	db := s.db.WithContext(ctx)
	user := &model.User{}
	if err := db.First(user, userId).Error; err != nil {
		if database.IsNotFound(err) {
			return common.NewNotFoundError("user not found")
		}
		return err
	}
	if !crypto.CheckPasswordHash(user.Password, form.OldPassword) {
		return common.NewAuthenticationError("old password is incorrect")
	}

	hash, err := crypto.HashPasswordAsBcrypt(form.NewPassword)
	if err != nil {
		return err
	}
	err = db.Model(&model.User{}).Where("id = ?", userId).Update("password", hash).Error
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	logger.Infof("user %d changed password", userId)
	return nil
}
