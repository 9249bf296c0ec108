package user

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/nova-commerce/internal/auth"
	"github.com/example/nova-commerce/internal/domain/catalog"
	"github.com/example/nova-commerce/internal/infrastructure/store"
)

const AggregateType = "User"

// NewCustomerPoints is the loyalty balance of a freshly registered customer.
const NewCustomerPoints = 150

type Role string

const (
	RoleCustomer Role = "customer"
	RoleManager  Role = "manager"
	RoleCashier  Role = "cashier"
)

// IsStaff reports whether the role may use the POS and admin operations.
func (r Role) IsStaff() bool {
	return r == RoleManager || r == RoleCashier
}

func (r Role) Valid() bool {
	return r == RoleCustomer || r.IsStaff()
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidEmail       = errors.New("email is required")
	ErrInvalidName        = errors.New("name is required")
	ErrInvalidRole        = errors.New("invalid role")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Account is a customer or staff login.
type Account struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          Role   `json:"role"`
	LoyaltyPoints int    `json:"loyalty_points"`
	PasswordHash  string `json:"-"`
}

// Identity converts the account into token claims.
func (a Account) Identity() auth.Identity {
	return auth.Identity{UserID: a.ID, Name: a.Name, Email: a.Email, Role: string(a.Role)}
}

// Directory holds every known account.
type Directory struct {
	mu         sync.RWMutex
	byID       map[string]Account
	byEmail    map[string]string
	eventStore store.EventStoreInterface
}

func NewDirectory(es store.EventStoreInterface) *Directory {
	return &Directory{
		byID:       make(map[string]Account),
		byEmail:    make(map[string]string),
		eventStore: es,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Seed loads accounts from the seed file, hashing their passwords.
func (d *Directory) Seed(accounts []catalog.SeedAccount) error {
	for _, sa := range accounts {
		hash, err := auth.HashPassword(sa.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", sa.ID, err)
		}
		acc := Account{
			ID:            sa.ID,
			Name:          sa.Name,
			Email:         sa.Email,
			Role:          Role(sa.Role),
			LoyaltyPoints: sa.LoyaltyPoints,
			PasswordHash:  hash,
		}
		if err := d.Add(acc); err != nil {
			return err
		}
	}
	return nil
}

// Add stores a prepared account. Emails are unique, case-insensitively.
func (d *Directory) Add(acc Account) error {
	if acc.Email == "" {
		return ErrInvalidEmail
	}
	if acc.Name == "" {
		return ErrInvalidName
	}
	if !acc.Role.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, acc.Role)
	}
	email := normalizeEmail(acc.Email)

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, taken := d.byEmail[email]; taken {
		return fmt.Errorf("%w: %s", ErrEmailTaken, email)
	}
	d.byID[acc.ID] = acc
	d.byEmail[email] = acc.ID
	return nil
}

// Register creates a customer account with the welcome loyalty balance.
func (d *Directory) Register(ctx context.Context, email, password, name string) (Account, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return Account{}, err
	}
	acc := Account{
		ID:            uuid.New().String(),
		Name:          strings.TrimSpace(name),
		Email:         strings.TrimSpace(email),
		Role:          RoleCustomer,
		LoyaltyPoints: NewCustomerPoints,
		PasswordHash:  hash,
	}
	if err := d.Add(acc); err != nil {
		return Account{}, err
	}

	event := UserCreated{UserID: acc.ID, Email: acc.Email, Name: acc.Name, Role: acc.Role, CreatedAt: time.Now()}
	if _, err := d.eventStore.Append(ctx, acc.ID, AggregateType, EventUserCreated, event); err != nil {
		d.remove(acc)
		return Account{}, fmt.Errorf("failed to record user created: %w", err)
	}
	return acc, nil
}

func (d *Directory) remove(acc Account) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.byID, acc.ID)
	delete(d.byEmail, normalizeEmail(acc.Email))
}

// Verify checks credentials without recording anything.
func (d *Directory) Verify(email, password string) (Account, error) {
	acc, ok := d.ByEmail(email)
	if !ok {
		return Account{}, ErrInvalidCredentials
	}
	if err := auth.CheckPassword(password, acc.PasswordHash); err != nil {
		return Account{}, ErrInvalidCredentials
	}
	return acc, nil
}

// RecordLogin appends the login event for a verified account.
func (d *Directory) RecordLogin(ctx context.Context, acc Account, ipAddress, userAgent string) error {
	event := UserLoggedIn{UserID: acc.ID, IPAddress: ipAddress, UserAgent: userAgent, LoggedAt: time.Now()}
	if _, err := d.eventStore.Append(ctx, acc.ID, AggregateType, EventUserLoggedIn, event); err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}

func (d *Directory) Get(id string) (Account, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	acc, ok := d.byID[id]
	return acc, ok
}

func (d *Directory) ByEmail(email string) (Account, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.byEmail[normalizeEmail(email)]
	if !ok {
		return Account{}, false
	}
	return d.byID[id], true
}

// List returns the accounts with the given role ordered by name. An empty
// role lists everyone.
func (d *Directory) List(role Role) []Account {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []Account
	for _, acc := range d.byID {
		if role == "" || acc.Role == role {
			out = append(out, acc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
