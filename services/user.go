package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/citynect/property-backend/models"
	"github.com/citynect/property-backend/repository"
	"github.com/citynect/property-backend/utils"
	"github.com/google/uuid"
)

type UserService struct {
	users            UserStore
	properties       PropertyStore
	accounts         AccountStore
	sessions         SessionStore
	passwordRequests PasswordRequestStore
	cache            ResultCache
	jwtKey           []byte
	policy           Policy

	now        func() time.Time
	newOrderID func() string
}

func NewUserService(users UserStore, properties PropertyStore, accounts AccountStore, sessions SessionStore, passwordRequests PasswordRequestStore, cache ResultCache, jwtKey []byte, policy Policy) *UserService {
	if cache == nil {
		cache = noCache{}
	}
	return &UserService{
		users:            users,
		properties:       properties,
		accounts:         accounts,
		sessions:         sessions,
		passwordRequests: passwordRequests,
		cache:            cache,
		jwtKey:           jwtKey,
		policy:           policy,
		now:              time.Now,
		newOrderID:       newOrderID,
	}
}

func newOrderID() string {
	return "order_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14]
}

func (s *UserService) Register(ctx context.Context, req models.RegisterRequest, client models.ClientInfo) (*models.User, error) {
	number := strings.TrimSpace(req.Number)
	if number == "" || strings.TrimSpace(req.Password) == "" || strings.TrimSpace(req.Name) == "" {
		return nil, utils.Validation("name, number and password are required")
	}

	if _, err := s.users.FindByNumber(ctx, number); err == nil {
		return nil, utils.Conflict("User with this number already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("UserService.Register: %w", err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("UserService.Register: %w", err)
	}

	user := &models.User{
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.TrimSpace(req.Email),
		Number:         number,
		Password:       hash,
		CompanyName:    strings.TrimSpace(req.CompanyName),
		Address:        strings.TrimSpace(req.Address),
		Role:           models.RoleUser,
		WrongPassLimit: s.policy.WrongPassLimit,
		CreatedOn:      s.now(),
	}
	if err := s.users.Insert(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.Conflict("User with this number already exists")
		}
		return nil, fmt.Errorf("UserService.Register: %w", err)
	}

	s.trackSession(ctx, user.ID.Hex(), client)
	return user, nil
}

// Login checks credentials. Every wrong password spends one attempt; an
// account with none left is locked until the nightly reset.
func (s *UserService) Login(ctx context.Context, number, password string, client models.ClientInfo) (*models.LoginResult, error) {
	number = strings.TrimSpace(number)
	if number == "" || password == "" {
		return nil, utils.Validation("number and password are required")
	}

	user, err := s.users.FindByNumber(ctx, number)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFound("User with this number is not registered")
	}
	if err != nil {
		return nil, fmt.Errorf("UserService.Login: %w", err)
	}

	if user.WrongPassLimit <= 0 {
		return nil, utils.Locked("Account is locked. Please try again later.")
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		if err := s.users.DecrementWrongPassLimit(ctx, user.ID.Hex()); err != nil {
			slog.Error("failed to record wrong password", "userId", user.ID.Hex(), "error", err)
		}
		return nil, utils.Unauthorized("Incorrect password")
	}

	role := user.Role
	if role == "" {
		role = models.RoleUser
	}
	token, err := utils.GenerateJWT(s.jwtKey, user.ID.Hex(), role, s.policy.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("UserService.Login: signing token: %w", err)
	}

	s.trackSession(ctx, user.ID.Hex(), client)
	return &models.LoginResult{User: user, Token: token}, nil
}

func (s *UserService) trackSession(ctx context.Context, userID string, client models.ClientInfo) {
	device := models.DeviceDetails{
		Browser:   orUnknown(client.Browser),
		OS:        orUnknown(client.OS),
		Device:    orUnknown(client.Device),
		UserAgent: orUnknown(client.UserAgent),
	}
	if err := s.sessions.RecordLogin(ctx, userID, orUnknown(client.IP), device, s.now()); err != nil {
		slog.Error("failed to track session", "userId", userID, "error", err)
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// ToggleSaved flips the saved state of a property and returns the new state.
func (s *UserService) ToggleSaved(ctx context.Context, userID, propID string) (bool, error) {
	userID, propID = strings.TrimSpace(userID), strings.TrimSpace(propID)
	if userID == "" || propID == "" {
		return false, utils.Validation("Invalid user ID or property ID!")
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return false, err
	}

	// Removing a stale entry is always allowed.
	saved := !user.HasSaved(propID)
	if saved {
		if _, err := liveProperty(ctx, s.properties, propID); err != nil {
			return false, err
		}
		err = s.users.AddSavedProperty(ctx, userID, propID)
	} else {
		err = s.users.RemoveSavedProperty(ctx, userID, propID)
	}
	if err != nil {
		return false, fmt.Errorf("UserService.ToggleSaved: %w", err)
	}

	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		slog.Warn("cache invalidation failed", "userId", userID, "error", err)
	}
	return saved, nil
}

// Details returns the user with contact fields masked, plus payment history.
func (s *UserService) Details(ctx context.Context, userID string) (*models.UserDetails, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	payments, err := s.accounts.PaidByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("UserService.Details: %w", err)
	}

	return &models.UserDetails{
		User: models.UserProfile{
			ID:                user.ID,
			Name:              user.Name,
			Email:             utils.MaskEmail(user.Email),
			Number:            utils.MaskPhoneNumber(user.Number),
			CompanyName:       user.CompanyName,
			Address:           user.Address,
			IsPremium:         user.IsPremium,
			ActivePlanDetails: user.ActivePlanDetails,
			CreatedOn:         user.CreatedOn,
		},
		PaymentHistory: payments,
	}, nil
}

// ActivateDemo grants a time-boxed premium trial, creating the user if needed.
func (s *UserService) ActivateDemo(ctx context.Context, req models.DemoAccountRequest) (string, error) {
	number := strings.TrimSpace(req.Number)
	if number == "" || strings.TrimSpace(req.Password) == "" {
		return "", utils.Validation("number and password are required")
	}
	if req.ActiveDays <= 0 {
		return "", utils.Validation("activeDays must be positive")
	}

	if req.RepeatDemo == models.NoRepeatDemo {
		n, err := s.accounts.CountDemosByNumber(ctx, number)
		if err != nil {
			return "", fmt.Errorf("UserService.ActivateDemo: %w", err)
		}
		if n > 0 {
			return "", utils.Conflict("Demo account already exists for this number.")
		}
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return "", fmt.Errorf("UserService.ActivateDemo: %w", err)
	}

	user, err := s.grant(ctx, number, profile{
		Name: req.Name, Email: req.Email, CompanyName: req.CompanyName, Address: req.Address,
	}, repository.EntitlementUpdate{
		IsPremium:      1,
		Limit:          s.policy.DemoContactLimit,
		WrongPassLimit: s.policy.WrongPassLimit,
		Password:       hash,
	})
	if err != nil {
		return "", fmt.Errorf("UserService.ActivateDemo: %w", err)
	}

	now := s.now()
	demo := &models.DemoAccount{
		UserID:        user.ID.Hex(),
		Name:          user.Name,
		Number:        number,
		ActivatedBy:   req.ActivatedBy,
		ActiveDays:    req.ActiveDays,
		Status:        models.AccountActive,
		PaymentStatus: models.PaymentPending,
		ExpiredDate:   now.AddDate(0, 0, req.ActiveDays),
		CreatedOn:     now,
	}
	if err := s.accounts.InsertDemo(ctx, demo); err != nil {
		return "", fmt.Errorf("UserService.ActivateDemo: %w", err)
	}
	return fmt.Sprintf("User %s is now active as a demo account.", user.Name), nil
}

// ActivatePremium records a payment taken elsewhere and upgrades the user.
// Demo records for the number are settled. The user, demo and paid writes
// are separate and not rolled back on partial failure.
func (s *UserService) ActivatePremium(ctx context.Context, req models.PremiumRequest) (string, error) {
	number := strings.TrimSpace(req.Number)
	if number == "" {
		return "", utils.Validation("number is required")
	}
	if req.DurationInMonth <= 0 {
		return "", utils.Validation("durationInMonth must be positive")
	}

	now := s.now()
	orderID := s.newOrderID()
	expires := now.AddDate(0, req.DurationInMonth, 0)

	update := repository.EntitlementUpdate{
		IsPremium:      1,
		Limit:          s.policy.PremiumContactLimit,
		WrongPassLimit: s.policy.WrongPassLimit,
		Plan: &models.PlanDetails{
			OrderID:   orderID,
			Amount:    req.Amount,
			PaidOn:    now,
			ExpiredOn: expires,
		},
	}
	if _, err := s.users.FindByNumber(ctx, number); errors.Is(err, repository.ErrNotFound) {
		if strings.TrimSpace(req.Password) == "" {
			return "", utils.Validation("password is required for a new user")
		}
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			return "", fmt.Errorf("UserService.ActivatePremium: %w", err)
		}
		update.Password = hash
	} else if err != nil {
		return "", fmt.Errorf("UserService.ActivatePremium: %w", err)
	}

	user, err := s.grant(ctx, number, profile{
		Name: req.Name, Email: req.Email, CompanyName: req.CompanyName, Address: req.Address,
	}, update)
	if err != nil {
		return "", fmt.Errorf("UserService.ActivatePremium: %w", err)
	}

	if err := s.accounts.SettleDemos(ctx, number); err != nil {
		slog.Error("premium granted but demo settlement failed", "number", utils.MaskPhoneNumber(number), "error", err)
		return "", fmt.Errorf("UserService.ActivatePremium: %w", err)
	}

	paid := &models.PaidAccount{
		UserID:           user.ID.Hex(),
		OrderID:          orderID,
		Name:             user.Name,
		Number:           number,
		AgentName:        req.AgentName,
		Amount:           req.Amount,
		DurationInMonth:  req.DurationInMonth,
		PaymentMode:      req.PaymentMode,
		PaidTo:           req.TransferTo,
		Status:           models.AccountActive,
		SettlementStatus: req.SettlementStatus,
		ExpiredDate:      expires,
		CreatedOn:        now,
	}
	if req.SettlementStatus {
		paid.UpdatedBy = req.AdminID
		paid.UpdatedOn = &now
	}
	if err := s.accounts.InsertPaid(ctx, paid); err != nil {
		return "", fmt.Errorf("UserService.ActivatePremium: %w", err)
	}
	return fmt.Sprintf("User %s has been upgraded to premium and the paid account is active.", user.Name), nil
}

type profile struct {
	Name, Email, CompanyName, Address string
}

// grant applies an entitlement to the user with number, registering them
// first when no account exists.
func (s *UserService) grant(ctx context.Context, number string, p profile, e repository.EntitlementUpdate) (*models.User, error) {
	user, err := s.users.FindByNumber(ctx, number)
	if err == nil {
		if err := s.users.SetEntitlement(ctx, user.ID.Hex(), e); err != nil {
			return nil, err
		}
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	user = &models.User{
		Name:              strings.TrimSpace(p.Name),
		Email:             strings.TrimSpace(p.Email),
		Number:            number,
		Password:          e.Password,
		CompanyName:       strings.TrimSpace(p.CompanyName),
		Address:           strings.TrimSpace(p.Address),
		Role:              models.RoleUser,
		IsPremium:         e.IsPremium,
		Limit:             e.Limit,
		WrongPassLimit:    e.WrongPassLimit,
		ActivePlanDetails: e.Plan,
		CreatedOn:         s.now(),
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ResetPasswordByAdmin sets a new password, unlocks the account and keeps an
// audit record of who did it and why.
func (s *UserService) ResetPasswordByAdmin(ctx context.Context, req models.AdminPasswordRequest) (string, error) {
	number := strings.TrimSpace(req.Number)
	if number == "" || strings.TrimSpace(req.Password) == "" {
		return "", utils.Validation("number and password are required")
	}

	user, err := s.users.FindByNumber(ctx, number)
	if errors.Is(err, repository.ErrNotFound) {
		return "", utils.NotFound("User not found with number: %s", number)
	}
	if err != nil {
		return "", fmt.Errorf("UserService.ResetPasswordByAdmin: %w", err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return "", fmt.Errorf("UserService.ResetPasswordByAdmin: %w", err)
	}
	if err := s.users.SetPassword(ctx, user.ID.Hex(), hash, s.policy.WrongPassLimit); err != nil {
		return "", fmt.Errorf("UserService.ResetPasswordByAdmin: %w", err)
	}

	audit := &models.PasswordUpdateRequest{
		UserID:    user.ID.Hex(),
		Number:    number,
		AdminID:   req.AdminID,
		Reason:    strings.TrimSpace(req.Reason),
		CreatedOn: s.now(),
	}
	if err := s.passwordRequests.InsertPasswordRequest(ctx, audit); err != nil {
		return "", fmt.Errorf("UserService.ResetPasswordByAdmin: %w", err)
	}
	return fmt.Sprintf("Password updated successfully for user with %s", number), nil
}

func (s *UserService) loadUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("loading user %s: %w", userID, err)
	}
	return user, nil
}
