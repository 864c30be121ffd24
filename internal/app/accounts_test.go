package app_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"survey-service/internal/app"
	"survey-service/internal/domain"
	"survey-service/internal/infra/memory"
)

func TestRegisterClientDuplicateLogin(t *testing.T) {
	store := memory.NewStore()
	svc := app.NewAccountService(store)
	reg := app.ClientRegistration{FirstName: "Ana", LastName: "Pérez", Login: "ana", Password: "secreto"}

	first, err := svc.RegisterClient(context.Background(), reg)
	if err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err = svc.RegisterClient(context.Background(), reg)
	if !errors.Is(err, domain.ErrDuplicateLogin) {
		t.Fatalf("expected ErrDuplicateLogin, got %v", err)
	}
	kept, err := store.ClientByLogin(context.Background(), "ana")
	if err != nil || kept == nil || kept.ID != first {
		t.Fatalf("expected the first client to be kept, got %+v (%v)", kept, err)
	}
}

func TestRegisterClientHashesPasswordAndDefaultsRole(t *testing.T) {
	store := memory.NewStore()
	svc := app.NewAccountService(store)

	if _, err := svc.RegisterClient(context.Background(), app.ClientRegistration{FirstName: "Ana", LastName: "Pérez", Login: "ana", Password: "secreto"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	client, err := store.ClientByLogin(context.Background(), "ana")
	if err != nil || client == nil {
		t.Fatalf("lookup client: %v", err)
	}
	if bytes.Equal(client.PasswordHash, []byte("secreto")) {
		t.Fatalf("expected a password hash, got the plaintext")
	}
	if client.Role != domain.DefaultClientRole {
		t.Fatalf("expected default role, got %q", client.Role)
	}
}

func TestRegisterClientKeepsClientWhenAssignmentFails(t *testing.T) {
	store := memory.NewStore()
	svc := app.NewAccountService(store)

	id, err := svc.RegisterClient(context.Background(), app.ClientRegistration{
		FirstName: "Ana", LastName: "Pérez", Login: "ana", Password: "secreto", ProjectID: 42,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	kept, err := store.ClientByLogin(context.Background(), "ana")
	if err != nil || kept == nil || kept.ID != id {
		t.Fatalf("expected client %d to be kept, got %+v (%v)", id, kept, err)
	}
	projects, _ := store.ProjectIDsForClient(context.Background(), id)
	if len(projects) != 0 {
		t.Fatalf("expected no memberships, got %v", projects)
	}
}

func TestRegisterClientAssignsProject(t *testing.T) {
	store := memory.NewStore()
	projectID, _ := store.CreateProject(context.Background(), "Ventas")
	svc := app.NewAccountService(store)

	id, err := svc.RegisterClient(context.Background(), app.ClientRegistration{
		FirstName: "Ana", LastName: "Pérez", Login: "ana", Password: "secreto", ProjectID: projectID,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	projects, _ := store.ProjectIDsForClient(context.Background(), id)
	if len(projects) != 1 || projects[0] != projectID {
		t.Fatalf("expected membership in project %d, got %v", projectID, projects)
	}
}

func TestLoginChecksAdministratorsFirst(t *testing.T) {
	store := memory.NewStore()
	svc := app.NewAccountService(store)
	ctx := context.Background()

	if _, err := svc.RegisterAdministrator(ctx, "maria", "clave"); err != nil {
		t.Fatalf("register admin: %v", err)
	}
	if _, err := svc.RegisterClient(ctx, app.ClientRegistration{FirstName: "María", LastName: "Gómez", Login: "maria", Password: "otra"}); err != nil {
		t.Fatalf("register client: %v", err)
	}

	res, err := svc.Login(ctx, "maria", "clave")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if res.Kind != domain.AccountAdministrator || res.Administrator == nil {
		t.Fatalf("expected administrator login, got %+v", res)
	}

	res, err = svc.Login(ctx, "maria", "otra")
	if err != nil {
		t.Fatalf("client login: %v", err)
	}
	if res.Kind != domain.AccountClient || res.Client == nil || res.Client.FirstName != "María" {
		t.Fatalf("expected client login, got %+v", res)
	}

	_, err = svc.Login(ctx, "maria", "incorrecta")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	_, err = svc.Login(ctx, "nadie", "clave")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestAccountValidation(t *testing.T) {
	svc := app.NewAccountService(memory.NewStore())
	ctx := context.Background()

	if _, err := svc.RegisterAdministrator(ctx, " ", "x"); domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error for blank login, got %v", err)
	}
	if _, err := svc.RegisterClient(ctx, app.ClientRegistration{Login: "a", Password: "b"}); domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error for missing names, got %v", err)
	}
	if _, err := svc.Login(ctx, "a", ""); domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error for missing password, got %v", err)
	}
}
