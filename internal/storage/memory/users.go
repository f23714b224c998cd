package memory

import (
	"context"
	"fmt"

	"github.com/playpulse/playpulse-backend/internal/users"
)

type UserStore struct{ s *Store }

func (r *UserStore) EnsureUser(_ context.Context, u users.UpsertUser) (*users.User, error) {
	if u.FirebaseUID == "" {
		return nil, fmt.Errorf("firebase_uid required")
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.users[u.FirebaseUID]
	if !ok {
		r.s.userSeq++
		cur = users.User{
			ID:          fmt.Sprintf("user-%d", r.s.userSeq),
			FirebaseUID: u.FirebaseUID,
			Role:        users.RoleUser,
		}
	}
	if u.Email != "" {
		cur.Email = u.Email
	}
	if u.DisplayName != "" {
		cur.DisplayName = u.DisplayName
	}
	r.s.users[u.FirebaseUID] = cur
	return &cur, nil
}

// SetRole promotes or demotes a user, creating it when missing.
func (r *UserStore) SetRole(ctx context.Context, firebaseUID, role string) error {
	if _, err := r.EnsureUser(ctx, users.UpsertUser{FirebaseUID: firebaseUID}); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u := r.s.users[firebaseUID]
	u.Role = role
	r.s.users[firebaseUID] = u
	return nil
}
