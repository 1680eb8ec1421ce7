package database

import (
	"slices"
	"sync"
	"time"
)

type MemoryUserRepository struct {
	users  []User
	mu     sync.RWMutex
	now    func() time.Time
	newKey func() string
}

func NewMemoryUserRepository(seed []User) *MemoryUserRepository {
	return &MemoryUserRepository{users: slices.Clone(seed), now: time.Now, newKey: NewAPIKey}
}

func (r *MemoryUserRepository) List(query UserQuery) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]User, 0, len(r.users))
	for _, u := range r.users {
		if matchesUserQuery(u, query) {
			result = append(result, u)
		}
	}
	return result, nil
}

func (r *MemoryUserRepository) GetByID(id int) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	user := r.users[i]
	return &user, nil
}

func (r *MemoryUserRepository) Create(user User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	maxID := 0
	for _, u := range r.users {
		maxID = max(maxID, u.ID)
	}

	created := prepareUser(user, maxID+1, r.now().UTC())
	if err := ValidateUser(created); err != nil {
		return nil, err
	}
	r.users = append(r.users, created)
	return &created, nil
}

func (r *MemoryUserRepository) Update(id int, patch UserPatch) (*User, error) {
	return r.modify(id, func(u *User) error {
		applyUserPatch(u, patch)
		return ValidateUser(*u)
	})
}

func (r *MemoryUserRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	r.users = slices.Delete(r.users, i, i+1)
	return nil
}

func (r *MemoryUserRepository) Approve(id int) (*User, error) {
	return r.modify(id, func(u *User) error {
		key := r.newKey()
		u.IsApproved = true
		u.APIKey = &key
		return nil
	})
}

func (r *MemoryUserRepository) GenerateAPIKey(id int) (*User, error) {
	return r.modify(id, func(u *User) error {
		key := r.newKey()
		u.APIKey = &key
		return nil
	})
}

func (r *MemoryUserRepository) modify(id int, fn func(u *User) error) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}

	updated := r.users[i]
	if err := fn(&updated); err != nil {
		return nil, err
	}
	r.users[i] = updated
	return &updated, nil
}

func (r *MemoryUserRepository) indexOf(id int) int {
	return slices.IndexFunc(r.users, func(u User) bool { return u.ID == id })
}
