package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/maintenance-orders/internal/httperr"
	"github.com/BruksfildServices01/maintenance-orders/internal/models"
	"github.com/BruksfildServices01/maintenance-orders/internal/validators"
)

const (
	minPasswordLen = 6
	// bcrypt only accepts up to 72 bytes.
	maxPasswordBytes = 72
)

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string

	// CheckDomain additionally requires the email domain to resolve.
	CheckDomain bool
}

type CreateUser struct {
	db *gorm.DB
}

func NewCreateUser(db *gorm.DB) *CreateUser {
	return &CreateUser{db: db}
}

func (uc *CreateUser) Execute(ctx context.Context, in CreateUserInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	role := strings.ToLower(strings.TrimSpace(in.Role))

	if name == "" {
		return nil, httperr.Validation("Name is required.")
	}
	if !validators.IsEmailSyntaxValid(email) {
		return nil, httperr.Validation("Email is not a valid address.")
	}
	if in.CheckDomain && !validators.IsEmailDomainValid(email) {
		return nil, httperr.Validation("Email domain does not resolve.")
	}
	if len(in.Password) < minPasswordLen {
		return nil, httperr.Validation("Password must be at least 6 characters.")
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, httperr.Validation("Password must be at most 72 bytes.")
	}
	if !models.IsValidRole(role) {
		return nil, httperr.Validation("Role must be manager or technician.")
	}

	db := uc.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, httperr.Validation("Email is already registered.")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
	}
	if err := db.Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, httperr.Validation("Email is already registered.")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

type CreateEquipmentInput struct {
	Name string
	Area string
}

type CreateEquipment struct {
	db *gorm.DB
}

func NewCreateEquipment(db *gorm.DB) *CreateEquipment {
	return &CreateEquipment{db: db}
}

func (uc *CreateEquipment) Execute(ctx context.Context, in CreateEquipmentInput) (*models.Equipment, error) {
	eq := &models.Equipment{
		Name: strings.TrimSpace(in.Name),
		Area: strings.TrimSpace(in.Area),
	}
	if eq.Name == "" || eq.Area == "" {
		return nil, httperr.Validation("Equipment name and area are required.")
	}

	if err := uc.db.WithContext(ctx).Create(eq).Error; err != nil {
		return nil, fmt.Errorf("create equipment: %w", err)
	}
	return eq, nil
}
