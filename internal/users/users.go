package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Joseda-hg/studentguide/internal/logger"
	"github.com/Joseda-hg/studentguide/internal/model"
	"github.com/Joseda-hg/studentguide/internal/store"
)

var (
	ErrDuplicateUser      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnknownUser        = errors.New("unknown user")
)

// The account seeded into an empty directory.
const (
	DefaultUserID   = "default_user"
	DefaultPassword = "password123"
)

// Directory manages accounts in the users category, keyed by username.
type Directory struct {
	store *store.RecordStore
	log   *logger.Logger
}

func NewDirectory(s *store.RecordStore, log *logger.Logger) *Directory {
	return &Directory{store: s, log: log}
}

func (d *Directory) Register(ctx context.Context, id, password, name, email, course, section string) (model.User, error) {
	user := model.User{
		ID:       strings.TrimSpace(id),
		Password: password,
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Course:   course,
		Section:  section,
	}
	if err := user.Validate(); err != nil {
		return model.User{}, err
	}

	err := store.Update(ctx, d.store, user.ID, func(existing **model.User) error {
		if *existing != nil {
			return fmt.Errorf("%s: %w", user.ID, ErrDuplicateUser)
		}
		*existing = &user
		return nil
	})
	if err != nil {
		return model.User{}, err
	}
	d.log.Info("user registered", "user", user.ID)
	return user, nil
}

// Authenticate returns the profile when id and password match exactly.
func (d *Directory) Authenticate(id, password string) (model.User, error) {
	user, ok, err := d.lookup(id)
	if err != nil {
		return model.User{}, err
	}
	if !ok || user.Password != password {
		return model.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (d *Directory) Profile(id string) (model.User, error) {
	user, ok, err := d.lookup(id)
	if err != nil {
		return model.User{}, err
	}
	if !ok {
		return model.User{}, fmt.Errorf("%s: %w", id, ErrUnknownUser)
	}
	return user, nil
}

// UpdateProfile changes the display name and email. Nothing else about an
// account can be edited.
func (d *Directory) UpdateProfile(ctx context.Context, id, name, email string) (model.User, error) {
	id = strings.TrimSpace(id)
	var updated model.User
	err := store.Update(ctx, d.store, id, func(existing **model.User) error {
		if *existing == nil {
			return fmt.Errorf("%s: %w", id, ErrUnknownUser)
		}
		user := **existing
		user.ID = id
		user.Name = strings.TrimSpace(name)
		user.Email = strings.TrimSpace(email)
		if err := user.Validate(); err != nil {
			return err
		}
		updated = user
		*existing = &user
		return nil
	})
	if err != nil {
		return model.User{}, err
	}
	return updated, nil
}

// EnsureDefault seeds the default account when no users exist yet.
func (d *Directory) EnsureDefault(ctx context.Context) error {
	if d.store.Len() > 0 {
		return nil
	}
	_, err := d.Register(ctx, DefaultUserID, DefaultPassword, "Default User", "default@example.com", "CSE", "A")
	if err != nil {
		return fmt.Errorf("seed default user: %w", err)
	}
	return nil
}

// lookup trims id the same way Register does before reading it.
func (d *Directory) lookup(id string) (model.User, bool, error) {
	id = strings.TrimSpace(id)
	var user model.User
	ok, err := d.store.Get(id, &user)
	if err != nil || !ok {
		return model.User{}, ok, err
	}
	user.ID = id
	return user, true, nil
}
