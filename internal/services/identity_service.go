package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"pickupapp/internal/config"
	"pickupapp/internal/models"
	"pickupapp/internal/repositories/interfaces"
	"pickupapp/internal/utils"
	"pickupapp/internal/validators"
	"pickupapp/pkg/logger"
)

// IdentityService registers accounts, checks credentials and resolves bearer
// tokens into principals. It is the only place tokens are issued or verified.
type IdentityService interface {
	RegisterUser(ctx context.Context, request *validators.RegisterUserRequest) (*models.User, error)
	RegisterDriver(ctx context.Context, request *validators.RegisterDriverRequest) (*models.Driver, error)
	Login(ctx context.Context, kind models.PrincipalKind, request *validators.LoginRequest) (*utils.AccessToken, error)

	IssueToken(subject primitive.ObjectID, kind models.PrincipalKind) (*utils.AccessToken, error)
	// Authenticate never touches storage; callers check the account still exists.
	Authenticate(token string) (*models.Principal, error)
}

type identityService struct {
	userRepo   interfaces.UserRepository
	driverRepo interfaces.DriverRepository
	cache      interfaces.CacheService
	security   *config.SecurityConfig
	logger     *logger.Logger
}

func NewIdentityService(
	userRepo interfaces.UserRepository,
	driverRepo interfaces.DriverRepository,
	cache interfaces.CacheService,
	security *config.SecurityConfig,
	logger *logger.Logger,
) IdentityService {
	return &identityService{
		userRepo:   userRepo,
		driverRepo: driverRepo,
		cache:      cache,
		security:   security,
		logger:     logger,
	}
}

func (s *identityService) RegisterUser(ctx context.Context, request *validators.RegisterUserRequest) (*models.User, error) {
	hash, err := s.hashPassword(request.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        utils.NormalizeEmail(request.Email),
		FullName:     strings.TrimSpace(request.FullName),
		Phone:        strings.TrimSpace(request.Phone),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, utils.ErrConflict) {
			s.logger.LogAuthEvent(utils.EventUserRegistered, string(models.PrincipalUser), user.Email, false)
			return nil, err
		}
		return nil, utils.NewInternalError(err)
	}

	s.logger.WithUserID(user.ID).Info("User registered")
	s.logger.LogAuthEvent(utils.EventUserRegistered, string(models.PrincipalUser), user.Email, true)
	return user, nil
}

func (s *identityService) RegisterDriver(ctx context.Context, request *validators.RegisterDriverRequest) (*models.Driver, error) {
	hash, err := s.hashPassword(request.Password)
	if err != nil {
		return nil, err
	}

	driver := &models.Driver{
		Email:         utils.NormalizeEmail(request.Email),
		FullName:      strings.TrimSpace(request.FullName),
		Phone:         strings.TrimSpace(request.Phone),
		CarType:       strings.TrimSpace(request.CarType),
		LicenseNumber: strings.TrimSpace(request.LicenseNumber),
		WorkingArea:   strings.TrimSpace(request.WorkingArea),
		PasswordHash:  hash,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.driverRepo.Create(ctx, driver); err != nil {
		if errors.Is(err, utils.ErrConflict) {
			s.logger.LogAuthEvent(utils.EventDriverRegistered, string(models.PrincipalDriver), driver.Email, false)
			return nil, err
		}
		return nil, utils.NewInternalError(err)
	}

	s.logger.WithDriverID(driver.ID).Info("Driver registered")
	s.logger.LogAuthEvent(utils.EventDriverRegistered, string(models.PrincipalDriver), driver.Email, true)
	return driver, nil
}

func (s *identityService) Login(ctx context.Context, kind models.PrincipalKind, request *validators.LoginRequest) (*utils.AccessToken, error) {
	email := utils.NormalizeEmail(request.Email)
	limitKey := utils.CacheRateLimitPrefix + string(kind) + ":" + email

	if err := s.checkLoginRate(ctx, limitKey); err != nil {
		return nil, err
	}

	id, hash, err := s.lookupCredentials(ctx, kind, email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			s.logger.LogAuthEvent(utils.EventLogin, string(kind), email, false)
			return nil, utils.NewUnauthenticatedError(utils.ErrMsgInvalidCredentials)
		}
		return nil, utils.NewInternalError(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(request.Password)) != nil {
		s.logger.LogAuthEvent(utils.EventLogin, string(kind), email, false)
		return nil, utils.NewUnauthenticatedError(utils.ErrMsgInvalidCredentials)
	}

	if err := s.cache.Delete(ctx, limitKey); err != nil {
		s.logger.WithError(err).Warn("Failed to reset login attempts")
	}

	s.logger.LogAuthEvent(utils.EventLogin, string(kind), email, true)
	return s.IssueToken(id, kind)
}

func (s *identityService) lookupCredentials(ctx context.Context, kind models.PrincipalKind, email string) (primitive.ObjectID, string, error) {
	switch kind {
	case models.PrincipalUser:
		user, err := s.userRepo.GetByEmail(ctx, email)
		if err != nil {
			return primitive.NilObjectID, "", err
		}
		return user.ID, user.PasswordHash, nil
	case models.PrincipalDriver:
		driver, err := s.driverRepo.GetByEmail(ctx, email)
		if err != nil {
			return primitive.NilObjectID, "", err
		}
		return driver.ID, driver.PasswordHash, nil
	default:
		return primitive.NilObjectID, "", utils.NewInvalidArgumentError("unknown account kind")
	}
}

// checkLoginRate counts attempts per account in a fixed window. Cache errors
// are logged and do not block the login.
func (s *identityService) checkLoginRate(ctx context.Context, key string) error {
	if s.security.MaxLoginAttempts <= 0 {
		return nil
	}

	attempts, err := s.cache.IncrementWithTTL(ctx, key, s.security.LoginLockoutTime)
	if err != nil {
		s.logger.WithError(err).Warn("Login rate limiter unavailable")
		return nil
	}

	if attempts > int64(s.security.MaxLoginAttempts) {
		return utils.NewRateLimitedError(utils.ErrMsgTooManyAttempts)
	}
	return nil
}

func (s *identityService) IssueToken(subject primitive.ObjectID, kind models.PrincipalKind) (*utils.AccessToken, error) {
	token, err := utils.GenerateAccessToken(subject.Hex(), string(kind), s.security.JWTSecret, s.security.JWTAccessTokenTTL)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	return token, nil
}

func (s *identityService) Authenticate(token string) (*models.Principal, error) {
	if token == "" {
		return nil, utils.NewUnauthenticatedError(utils.ErrMsgMissingToken)
	}

	claims, err := utils.ValidateToken(token, s.security.JWTSecret)
	if err != nil {
		return nil, utils.NewUnauthenticatedError(utils.ErrMsgInvalidToken)
	}

	kind := models.PrincipalKind(claims.UserType)
	if !kind.Valid() {
		return nil, utils.NewUnauthenticatedError(utils.ErrMsgInvalidToken)
	}

	id, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return nil, utils.NewUnauthenticatedError(utils.ErrMsgInvalidToken)
	}

	return &models.Principal{ID: id, Kind: kind}, nil
}

func (s *identityService) hashPassword(password string) (string, error) {
	if len(password) < s.security.PasswordMinLength {
		return "", utils.NewInvalidArgumentError("password is too short")
	}

	cost := s.security.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", utils.NewInvalidArgumentError("password is too long")
		}
		return "", utils.NewInternalError(err)
	}
	return string(hash), nil
}
