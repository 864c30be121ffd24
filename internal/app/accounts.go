package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"survey-service/internal/domain"
)

// ClientRegistration is the input of RegisterClient. ProjectID is optional.
type ClientRegistration struct {
	FirstName string
	LastName  string
	Login     string
	Password  string
	Role      string
	ProjectID int64
}

// AccountService registers administrators and clients and verifies logins.
// Uniqueness of login names is left to the store's constraints.
type AccountService struct {
	store  AccountStore
	cost   int
	logger *slog.Logger
}

func NewAccountService(store AccountStore) *AccountService {
	return &AccountService{store: store, cost: bcrypt.DefaultCost, logger: slog.Default()}
}

// RegisterAdministrator creates an administrator and returns its id.
func (s *AccountService) RegisterAdministrator(ctx context.Context, login, password string) (int64, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return 0, domain.Validation("usuario y contraseña son requeridos")
	}
	hash, err := s.hashPassword(password)
	if err != nil {
		return 0, err
	}
	id, err := s.store.CreateAdministrator(ctx, domain.Administrator{Login: login, PasswordHash: hash})
	if err != nil {
		return 0, domain.Storage(err)
	}
	return id, nil
}

// RegisterClient creates a client and, when a project is given, its membership.
// A failed membership insert is logged and does not undo the client.
func (s *AccountService) RegisterClient(ctx context.Context, reg ClientRegistration) (int64, error) {
	reg.Login = strings.TrimSpace(reg.Login)
	if reg.Login == "" || reg.Password == "" {
		return 0, domain.Validation("usuario y contraseña son requeridos")
	}
	if strings.TrimSpace(reg.FirstName) == "" || strings.TrimSpace(reg.LastName) == "" {
		return 0, domain.Validation("nombre y apellido son requeridos")
	}
	role := strings.TrimSpace(reg.Role)
	if role == "" {
		role = domain.DefaultClientRole
	}
	hash, err := s.hashPassword(reg.Password)
	if err != nil {
		return 0, err
	}

	id, err := s.store.CreateClient(ctx, domain.Client{
		FirstName:    strings.TrimSpace(reg.FirstName),
		LastName:     strings.TrimSpace(reg.LastName),
		Login:        reg.Login,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return 0, domain.Storage(err)
	}

	if reg.ProjectID > 0 {
		if err := s.store.AddMembership(ctx, reg.ProjectID, id); err != nil {
			s.logger.Error("project assignment failed", "client_id", id, "project_id", reg.ProjectID, "error", err)
		}
	}
	return id, nil
}

// Login checks administrators first, then clients. No session is issued.
func (s *AccountService) Login(ctx context.Context, login, password string) (domain.LoginResult, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return domain.LoginResult{}, domain.Validation("usuario y contraseña son requeridos")
	}

	admin, err := s.store.AdministratorByLogin(ctx, login)
	if err != nil {
		return domain.LoginResult{}, domain.Storage(err)
	}
	if admin != nil && passwordMatches(admin.PasswordHash, password) {
		return domain.LoginResult{Kind: domain.AccountAdministrator, Administrator: admin}, nil
	}

	client, err := s.store.ClientByLogin(ctx, login)
	if err != nil {
		return domain.LoginResult{}, domain.Storage(err)
	}
	if client != nil && passwordMatches(client.PasswordHash, password) {
		return domain.LoginResult{Kind: domain.AccountClient, Client: client}, nil
	}

	return domain.LoginResult{}, domain.ErrInvalidCredentials
}

func (s *AccountService) hashPassword(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, domain.Validation("contraseña demasiado larga")
	}
	return hash, err
}

func passwordMatches(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
