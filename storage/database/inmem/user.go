package inmemdb

import (
	"context"

	"github.com/unimatric/admissions/core/user"
)

type userRepository struct {
	db *userTable
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db.user}
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[usr.ID]; ok {
		return user.User{}, user.ErrUserExists
	}
	for _, u := range repo.db.table {
		if u.Email == usr.Email {
			return user.User{}, user.ErrEmailExists
		}
	}
	repo.db.table[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) GetUser(_ context.Context, filter user.GetFilter) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	match := func(u *user.User) bool {
		if filter.Role != "" && u.Role != filter.Role {
			return false
		}
		switch {
		case filter.ID != "":
			return u.ID == filter.ID
		case filter.Email != "":
			return u.Email == filter.Email
		case filter.IDOrEmail != "":
			return u.ID == filter.IDOrEmail || u.Email == filter.IDOrEmail
		}
		return false
	}

	// fast path
	if filter.ID != "" {
		if u, ok := repo.db.table[filter.ID]; ok && match(u) {
			return *u, nil
		}
		return user.User{}, user.ErrNotFound
	}
	if u, ok := repo.db.table[filter.IDOrEmail]; ok && match(u) {
		return *u, nil
	}
	for _, u := range repo.db.table {
		if match(u) {
			return *u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[usr.ID]; !ok {
		return user.User{}, user.ErrNotFound
	}
	repo.db.table[usr.ID] = &usr
	return usr, nil
}
