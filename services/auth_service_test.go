package services

import (
	"context"
	"testing"

	"fileshare/utils"
)

func newAuthFixture() (AuthService, *fakeUserRepo, *fakeSettingsRepo) {
	users := newFakeUserRepo()
	settings := newFakeSettingsRepo()
	return NewAuthService(&fakeTxManager{}, users, settings), users, settings
}

func TestRegisterCreatesUserAndSettings(t *testing.T) {
	svc, users, settings := newAuthFixture()

	authUser, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice", Password: "s3cret", Nickname: "Alice",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if authUser.ID == 0 || authUser.Username != "alice" {
		t.Fatalf("unexpected user: %+v", authUser)
	}

	stored, err := users.GetByUsername(context.Background(), nil, "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Password == "s3cret" {
		t.Fatalf("password must be stored hashed")
	}
	if !utils.CheckPassword("s3cret", stored.Password) {
		t.Fatalf("stored hash must verify against the original password")
	}

	if _, err := settings.GetByUserID(context.Background(), nil, authUser.ID); err != nil {
		t.Fatalf("registration must create default settings: %v", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _, _ := newAuthFixture()

	if _, err := svc.Register(context.Background(), RegisterInput{Username: "alice", Password: "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Register(context.Background(), RegisterInput{Username: "alice", Password: "y"}); !IsKind(err, KindConflict) {
		t.Fatalf("duplicate username must conflict, got %v", err)
	}
}

func TestLoginIssuesParsableToken(t *testing.T) {
	svc, _, _ := newAuthFixture()

	authUser, err := svc.Register(context.Background(), RegisterInput{Username: "alice", Password: "s3cret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := svc.Login(context.Background(), LoginInput{Username: "alice", Password: "s3cret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.User.ID != authUser.ID {
		t.Fatalf("login must return the registered user")
	}

	claims, err := utils.ParseToken(out.Token)
	if err != nil {
		t.Fatalf("issued token must parse: %v", err)
	}
	if claims.UserID != authUser.ID {
		t.Fatalf("token must carry the user id, got %d", claims.UserID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newAuthFixture()

	if _, err := svc.Register(context.Background(), RegisterInput{Username: "alice", Password: "s3cret"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Login(context.Background(), LoginInput{Username: "alice", Password: "wrong"}); !IsKind(err, KindUnauthorized) {
		t.Fatalf("wrong password must be unauthorized, got %v", err)
	}
	if _, err := svc.Login(context.Background(), LoginInput{Username: "nobody", Password: "x"}); !IsKind(err, KindUnauthorized) {
		t.Fatalf("unknown user must be unauthorized, got %v", err)
	}
}

func TestGetProfile(t *testing.T) {
	svc, _, _ := newAuthFixture()

	authUser, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice", Password: "s3cret", Nickname: "Alice",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	profile, err := svc.GetProfile(context.Background(), authUser.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Username != "alice" || profile.Nickname != "Alice" {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	if _, err := svc.GetProfile(context.Background(), 999); !IsKind(err, KindNotFound) {
		t.Fatalf("missing user must be not found, got %v", err)
	}
}
