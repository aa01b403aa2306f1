package services

import (
	"context"
	"errors"

	"involinks-backend/internal/auth"
	"involinks-backend/internal/cache"
	"involinks-backend/internal/models"
	"involinks-backend/internal/repositories"
)

type UserService struct {
	Repo         *repositories.UserRepository
	LoginLogRepo *repositories.LoginLogRepository
	TOTPService  *TOTPService
	JWTManager   *auth.JWTManager
}

func NewUserService(repo *repositories.UserRepository, loginLogRepo *repositories.LoginLogRepository,
	totpService *TOTPService, jwtManager *auth.JWTManager) *UserService {
	return &UserService{
		Repo:         repo,
		LoginLogRepo: loginLogRepo,
		TOTPService:  totpService,
		JWTManager:   jwtManager,
	}
}

func (s *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	return s.Repo.Get(ctx, id)
}

func (s *UserService) ListCompanyUsers(ctx context.Context, companyID int) ([]*models.User, error) {
	return s.Repo.ListByCompany(ctx, companyID)
}

// CreateCompanyUser adds a FINANCE_USER or COMPANY_ADMIN to an existing company
func (s *UserService) CreateCompanyUser(ctx context.Context, companyID int, req *models.SignupRequest, role string) (*models.User, error) {
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return nil, errors.New("name, email, and password are required")
	}
	if role != models.RoleCompanyAdmin && role != models.RoleFinanceUser {
		return nil, errors.New("invalid role for company user")
	}

	existingUser, _ := s.Repo.GetByEmail(ctx, req.Email)
	if existingUser != nil {
		return nil, errors.New("user with this email already exists")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         role,
		CompanyID:    &companyID,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Signup creates the first COMPANY_ADMIN account during registration
func (s *UserService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return nil, errors.New("name, email, and password are required")
	}

	existingUser, _ := s.Repo.GetByEmail(ctx, req.Email)
	if existingUser != nil {
		return nil, errors.New("user with this email already exists")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         models.RoleCompanyAdmin,
		CompanyID:    req.CompanyID,
	}

	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  user,
	}, nil
}

// Login authenticates a user. Accounts with 2FA enabled get a
// short-lived temp token and must finish with VerifyLogin2FA.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest, ipAddress, userAgent string) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, errors.New("email and password are required")
	}

	user, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	// Cached credential check skips bcrypt on repeat logins
	if cachedID, ok := cache.GetCachedAuth(ctx, req.Email, req.Password); !ok || cachedID != user.ID {
		if !auth.VerifyPassword(user.PasswordHash, req.Password) {
			return nil, errors.New("invalid email or password")
		}
		cache.CacheAuth(ctx, req.Email, req.Password, user.ID)
	}

	if !user.IsActive {
		return nil, errors.New("account suspended")
	}

	if user.TOTPEnabled {
		tempToken, err := s.JWTManager.GenerateTempToken(user)
		if err != nil {
			return nil, err
		}
		return &models.AuthResponse{
			TempToken:   tempToken,
			RequiresMFA: true,
		}, nil
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	s.LoginLogRepo.Create(ctx, user.ID, ipAddress, userAgent)

	return &models.AuthResponse{
		Token: token,
		User:  user,
	}, nil
}

// VerifyLogin2FA completes the second login step with a TOTP or backup code
func (s *UserService) VerifyLogin2FA(ctx context.Context, tempToken, code, ipAddress, userAgent string) (*models.AuthResponse, error) {
	claims, err := s.JWTManager.ValidateTempToken(tempToken)
	if err != nil {
		return nil, errors.New("invalid or expired session, please login again")
	}

	ok, err := s.TOTPService.Verify(ctx, claims.UserID, code, ipAddress)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTOTPCode
	}

	user, err := s.Repo.Get(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	s.LoginLogRepo.Create(ctx, user.ID, ipAddress, userAgent)

	return &models.AuthResponse{
		Token: token,
		User:  user,
	}, nil
}

// ChangePassword verifies the old password before setting the new one
func (s *UserService) ChangePassword(ctx context.Context, userID int, oldPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return errors.New("new password must be at least 8 characters")
	}

	user, err := s.Repo.Get(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.VerifyPassword(user.PasswordHash, oldPassword) {
		return errors.New("current password is incorrect")
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	cache.InvalidateAuth(ctx, user.Email, oldPassword)
	return s.Repo.UpdatePassword(ctx, userID, hashed)
}

// SetActive suspends or reactivates a user within the caller's company
func (s *UserService) SetActive(ctx context.Context, userID int, active bool) error {
	return s.Repo.ToggleActiveStatus(ctx, userID, active)
}

// RecentLogins returns the latest login events for the admin audit view
func (s *UserService) RecentLogins(ctx context.Context, limit int) ([]*models.LoginLog, error) {
	return s.LoginLogRepo.ListRecent(ctx, limit)
}
