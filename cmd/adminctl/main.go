// adminctl provisions dashboard accounts. It prompts for a password without
// echo, hashes it with bcrypt at the configured work factor, and inserts the
// user through the same repository the server uses (running pending
// migrations on the way).
//
// Usage:
//
//	adminctl -d postgres://... -e admin@example.com -n "Admin" -r admin
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/mail"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/dmitrijs2005/admingate/internal/common"
	"github.com/dmitrijs2005/admingate/internal/server/models"
	"github.com/dmitrijs2005/admingate/internal/server/shared/db"
)

const passwordMinLength = 6

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func main() {
	var (
		dsn   = flag.String("d", "", "PostgreSQL DSN")
		email = flag.String("e", "", "account email")
		name  = flag.String("n", "", "display name")
		role  = flag.String("r", models.DefaultRole, "account role")
		cost  = flag.Int("w", 12, "bcrypt work factor")
	)
	flag.Parse()

	if *dsn == "" || *email == "" {
		flag.Usage()
		os.Exit(2)
	}

	user, err := createUser(context.Background(), *dsn, *email, *name, *role, *cost)
	if err != nil {
		log.Fatalf("adminctl: %v", err)
	}

	fmt.Printf("created user %s (%s)\n", user.Email, user.ID)
}

func createUser(ctx context.Context, dsn, email, name, role string, cost int) (*models.User, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	password, err := promptPassword()
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword(password, cost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	rm, err := db.NewPostgresRepositoryManager(dsn)
	if err != nil {
		return nil, err
	}
	defer rm.Close()

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        normalized,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
	}

	user, err = rm.Users().Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, fmt.Errorf("user %s already exists", normalized)
		}
		return nil, err
	}

	return user, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", common.ErrorInvalidEmailFormat
	}
	return email, nil
}

func promptPassword() ([]byte, error) {
	fmt.Print("Enter password: ")
	password, err := readPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return nil, err
	}

	if len(password) < passwordMinLength {
		return nil, common.ErrorPasswordTooShort
	}

	fmt.Print("Repeat password: ")
	confirmation, err := readPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return nil, err
	}

	if !bytes.Equal(password, confirmation) {
		return nil, errors.New("passwords do not match")
	}

	return password, nil
}
