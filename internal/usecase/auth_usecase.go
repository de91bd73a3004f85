package usecase

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// AuthUsecase はユーザー登録とログインを担当する。
// 登録時にUserと1対1のCustomer（BRONZE）も作る。
type AuthUsecase struct {
	userRepo     repo.UserRepository
	customerRepo repo.CustomerRepository
	hasher       PasswordHasher
	verifier     PasswordVerifier
	issuer       AccessTokenIssuer
	clock        Clock
}

func NewAuthUsecase(
	userRepo repo.UserRepository,
	customerRepo repo.CustomerRepository,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
	clock Clock,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:     userRepo,
		customerRepo: customerRepo,
		hasher:       hasher,
		verifier:     verifier,
		issuer:       issuer,
		clock:        clock,
	}
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterOutput struct {
	UserID     int64  `json:"user_id"`
	CustomerID int64  `json:"customer_id"`
	Email      string `json:"email"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginOutput struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	UserID      int64     `json:"user_id"`
	Role        string    `json:"role"`
}

// Register は新規ユーザーを登録する。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (RegisterOutput, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return RegisterOutput{}, NewValidation("email required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return RegisterOutput{}, NewValidation("invalid email format")
	}
	// 最小12文字
	if len(in.Password) < 12 {
		return RegisterOutput{}, NewValidation("password too short")
	}
	if isWeakPassword(in.Password) {
		return RegisterOutput{}, NewValidation("weak password")
	}

	// 重複チェック
	if _, err := u.userRepo.FindByEmail(ctx, email); err == nil {
		return RegisterOutput{}, NewInvalidState("email already exists")
	} else if !errors.Is(err, repo.ErrUserNotFound) {
		return RegisterOutput{}, NewInternal("db error")
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return RegisterOutput{}, NewInternal("hash error")
	}

	now := u.clock.Now()
	user := model.User{
		Email:        email,
		PasswordHash: hashed, // 平文は保存しない
		Role:         model.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.userRepo.Create(ctx, &user); err != nil {
		return RegisterOutput{}, NewInternal("db error")
	}

	customer, err := u.customerRepo.Create(ctx, model.Customer{
		UserID:     user.ID,
		Membership: model.MembershipBronze,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return RegisterOutput{}, NewInternal("db error")
	}

	return RegisterOutput{
		UserID:     user.ID,
		CustomerID: customer.ID,
		Email:      user.Email,
	}, nil
}

// Login は資格情報を検証してアクセストークンを返す。
// 存在しないメールも間違いパスワードも同じエラーにする
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return LoginOutput{}, NewValidation("email and password required")
	}

	user, err := u.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrUserNotFound) {
		return LoginOutput{}, NewUnauthorized()
	}
	if err != nil {
		return LoginOutput{}, NewInternal("db error")
	}

	if !user.IsActive {
		return LoginOutput{}, NewUnauthorized()
	}

	if ok := u.verifier.Verify(in.Password, user.PasswordHash); !ok {
		return LoginOutput{}, NewUnauthorized()
	}

	now := u.clock.Now()
	token, expiresAt, err := u.issuer.Issue(user.ID, user.Role, now)
	if err != nil {
		return LoginOutput{}, NewInternal("token error")
	}

	// 最終ログイン時刻の更新は失敗してもログインは成功扱い
	user.LastLoginAt = &now
	_ = u.userRepo.Update(ctx, user)

	return LoginOutput{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		UserID:      user.ID,
		Role:        string(user.Role),
	}, nil
}

// よくある危険パスワードのブラックリスト
func isWeakPassword(password string) bool {
	normalized := strings.ToLower(strings.TrimSpace(password))

	weak := map[string]struct{}{
		"password":     {},
		"password123":  {},
		"passw0rd1234": {},
		"123456789012": {},
		"qwertyuiop12": {},
		"letmein12345": {},
		"welcome12345": {},
	}

	_, ok := weak[normalized]
	return ok
}
