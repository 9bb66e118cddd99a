package account

import (
	"errors"
	"fmt"

	"crypto-trade-sim-go/internal/config"
	"crypto-trade-sim-go/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("email already exists")

	// ErrNotFound is returned when the user does not exist.
	ErrNotFound = errors.New("user not found")
)

// Service handles account registration and lookup.
type Service struct {
	db              *gorm.DB
	logger          *zap.Logger
	startingBalance float64
}

// NewService creates a new account service.
func NewService(db *gorm.DB, logger *zap.Logger, cfg *config.Trading) *Service {
	return &Service{db: db, logger: logger, startingBalance: cfg.StartingBalance}
}

// Signup registers a new user with a bcrypt-hashed password and the
// configured starting balance.
func (s *Service) Signup(name, email, password string) (*models.User, error) {
	var existing models.User
	err := s.db.First(&existing, "email = ?", email).Error
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("could not check for existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("could not hash password: %w", err)
	}

	user := models.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Balance:  s.startingBalance,
	}
	if err := s.db.Create(&user).Error; err != nil {
		// The unique index still guards the race between check and create.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("could not create user: %w", err)
	}

	s.logger.Info("Registered new user",
		zap.String("user_id", user.ID),
		zap.Float64("starting_balance", user.Balance))
	return &user, nil
}

// Get looks up a user by id.
func (s *Service) Get(id string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("could not load user: %w", err)
	}
	return &user, nil
}
