package database_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/campuswatch/internal/database"
	"github.com/jonesrussell/campuswatch/internal/domain"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestUserRepository_Create(t *testing.T) {
	t.Helper()

	db, mock := newMockDB(t)
	repo := database.NewUserRepository(db)
	ctx := context.Background()

	user := &domain.User{
		ID:           uuid.New(),
		Name:         "Asha Verma",
		Email:        "asha@example.edu",
		Phone:        "5550100",
		RollNumber:   "CS2026-042",
		PasswordHash: "$2a$10$hash",
	}

	testCases := []struct {
		name      string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successfully creates user",
			setupMock: func() {
				mock.ExpectQuery("INSERT INTO users").
					WithArgs(user.ID, user.Name, user.Email, user.Phone, user.RollNumber, user.PasswordHash).
					WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
			},
			wantErr: false,
		},
		{
			name: "database error returns error",
			setupMock: func() {
				mock.ExpectQuery("INSERT INTO users").
					WithArgs(user.ID, user.Name, user.Email, user.Phone, user.RollNumber, user.PasswordHash).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()

			callErr := repo.Create(ctx, user)
			if (callErr != nil) != tc.wantErr {
				t.Errorf("Create() error = %v, wantErr %v", callErr, tc.wantErr)
			}

			if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
				t.Errorf("unfulfilled expectations: %v", expectErr)
			}
		})
	}
}

func TestUserRepository_GetByEmailOrRoll(t *testing.T) {
	t.Helper()

	db, mock := newMockDB(t)
	repo := database.NewUserRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	columns := []string{"id", "name", "email", "phone", "roll_number", "password_hash", "created_at"}

	t.Run("returns user for matching email", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, email").
			WithArgs("asha@example.edu").
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(userID, "Asha Verma", "asha@example.edu", "5550100", "CS2026-042", "$2a$10$hash", time.Now()))

		user, err := repo.GetByEmailOrRoll(ctx, "asha@example.edu")
		if err != nil {
			t.Fatalf("GetByEmailOrRoll() error = %v", err)
		}
		if user.ID != userID {
			t.Errorf("user.ID = %v, want %v", user.ID, userID)
		}
		if user.RollNumber != "CS2026-042" {
			t.Errorf("user.RollNumber = %q", user.RollNumber)
		}
	})

	t.Run("missing user returns ErrUserNotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, email").
			WithArgs("nobody@example.edu").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByEmailOrRoll(ctx, "nobody@example.edu")
		if !errors.Is(err, database.ErrUserNotFound) {
			t.Errorf("GetByEmailOrRoll() error = %v, want ErrUserNotFound", err)
		}
	})

	if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
		t.Errorf("unfulfilled expectations: %v", expectErr)
	}
}

func TestUserRepository_ExistsByEmailOrRoll(t *testing.T) {
	t.Helper()

	db, mock := newMockDB(t)
	repo := database.NewUserRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("asha@example.edu", "CS2026-042").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByEmailOrRoll(ctx, "asha@example.edu", "CS2026-042")
	if err != nil {
		t.Fatalf("ExistsByEmailOrRoll() error = %v", err)
	}
	if !exists {
		t.Error("ExistsByEmailOrRoll() = false, want true")
	}

	if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
		t.Errorf("unfulfilled expectations: %v", expectErr)
	}
}
