package users

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User is the local record behind an external identity.
type User struct {
	ID          string
	FirebaseUID string
	Email       string
	DisplayName string
	Role        string
}

type UpsertUser struct {
	FirebaseUID string
	Email       string
	DisplayName string
	PhotoURL    string
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// EnsureUser creates the user on first sight and refreshes profile fields after that. The role is
// never changed here; admins are promoted out of band.
func (r *Repo) EnsureUser(ctx context.Context, u UpsertUser) (*User, error) {
	if u.FirebaseUID == "" {
		return nil, fmt.Errorf("firebase_uid required")
	}

	const q = `
insert into users (firebase_uid, email, display_name, photo_url, updated_at)
values ($1, nullif($2,''), nullif($3,''), nullif($4,''), now())
on conflict (firebase_uid) do update
set
  email = coalesce(excluded.email, users.email),
  display_name = coalesce(excluded.display_name, users.display_name),
  photo_url = coalesce(excluded.photo_url, users.photo_url),
  updated_at = now()
returning id::text, coalesce(email, ''), coalesce(display_name, ''), role;
`
	out := User{FirebaseUID: u.FirebaseUID}
	if err := r.db.QueryRow(ctx, q, u.FirebaseUID, u.Email, u.DisplayName, u.PhotoURL).
		Scan(&out.ID, &out.Email, &out.DisplayName, &out.Role); err != nil {
		return nil, err
	}
	return &out, nil
}
