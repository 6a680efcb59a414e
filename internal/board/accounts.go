package board

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"jobboard/internal/auth"
	"jobboard/internal/database"
	"jobboard/internal/errcode"
	"jobboard/internal/validation"
)

const invalidCredentialsMessage = "Invalid login credentials"

// AccountService manages sign-up, credentials and the caller's own profile.
type AccountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// Register creates a candidate or employer account.
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*database.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	errs := req.Validate()
	if !errs.Has("email") {
		taken, err := s.emailTaken(ctx, req.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("email", "The email has already been taken.")
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, errcode.Internal("hash password", err)
	}
	user := database.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		Role:         req.Role,
		PasswordHash: hash,
		Phone:        req.Phone,
		Bio:          req.Bio,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			var taken validation.Errors
			taken.Add("email", "The email has already been taken.")
			return nil, taken.Err()
		}
		return nil, errcode.Internal("create user", err)
	}
	return &user, nil
}

func (s *AccountService) emailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&database.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, errcode.Internal("lookup email", err)
	}
	return count > 0, nil
}

// Authenticate checks credentials. Unknown email and wrong password fail identically.
func (s *AccountService) Authenticate(ctx context.Context, req LoginRequest) (*database.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := req.Validate().Err(); err != nil {
		return nil, err
	}

	var user database.User
	err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errcode.New(errcode.KindUnauthenticated, invalidCredentialsMessage)
		}
		return nil, errcode.Internal("lookup user", err)
	}
	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, errcode.New(errcode.KindUnauthenticated, invalidCredentialsMessage)
	}
	return &user, nil
}

// Lookup returns the user behind a validated token. A deleted account is unauthenticated.
func (s *AccountService) Lookup(ctx context.Context, userID uint) (*database.User, error) {
	var user database.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errcode.Unauthenticated()
		}
		return nil, errcode.Internal("load user", err)
	}
	return &user, nil
}

// Profile returns the actor's own account.
func (s *AccountService) Profile(ctx context.Context, actor auth.Actor) (*database.User, error) {
	return s.Lookup(ctx, actor.UserID)
}

// ChangePassword verifies the current password, stores the new one and lifts
// the forced-change flag.
func (s *AccountService) ChangePassword(ctx context.Context, actor auth.Actor, req ChangePasswordRequest) error {
	if err := req.Validate().Err(); err != nil {
		return err
	}
	user, err := s.Lookup(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if !auth.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		var errs validation.Errors
		errs.Add("current_password", "The current password is incorrect.")
		return errs.Err()
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return errcode.Internal("hash password", err)
	}
	err = s.db.WithContext(ctx).Model(user).Updates(map[string]any{
		"password_hash":        hash,
		"must_change_password": false,
	}).Error
	if err != nil {
		return errcode.Internal("update password", err)
	}
	return nil
}
