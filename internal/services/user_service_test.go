package services

import (
	"testing"

	"finaide/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("alice", "alice@example.com", "s3cretpass")
		testutil.AssertNoError(t, err)

		if user.ID == 0 {
			t.Fatal("expected non-zero user ID")
		}
		if user.Password == "s3cretpass" {
			t.Error("expected password to be stored hashed")
		}
		if !svc.VerifyPassword(user, "s3cretpass") {
			t.Error("expected password to verify against its hash")
		}
		if svc.VerifyPassword(user, "wrongpass") {
			t.Error("expected wrong password to fail verification")
		}
	})

	t.Run("duplicate_username", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("bob", "bob@example.com", "s3cretpass")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("bob", "other@example.com", "s3cretpass")
		testutil.AssertAppError(t, err, "DUPLICATE_USERNAME")
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("carol", "carol@example.com", "s3cretpass")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("carol2", "carol@example.com", "s3cretpass")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})
}

func TestGetUserByUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	found, err := svc.GetUserByUsername(user.Username)
	testutil.AssertNoError(t, err)
	if found.ID != user.ID {
		t.Errorf("expected user %d, got %d", user.ID, found.ID)
	}

	_, err = svc.GetUserByUsername("nobody")
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}

func TestRefreshTokenHash(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, "abc123hash"))

	hash, err := svc.GetRefreshTokenHash(user.ID)
	testutil.AssertNoError(t, err)
	if hash != "abc123hash" {
		t.Errorf("expected stored hash, got %q", hash)
	}
}
