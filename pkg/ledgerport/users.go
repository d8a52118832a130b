package ledgerport

import (
	"context"
	"fmt"
	"time"
)

// UserRole describes a user's relationship to the business.
type UserRole string

const (
	UserRoleOwner      UserRole = "owner"
	UserRoleDirector   UserRole = "director"
	UserRolePartner    UserRole = "partner"
	UserRoleEmployee   UserRole = "employee"
	UserRoleAccountant UserRole = "accountant"
)

// PermissionLevel gates what a user may see and change, from 0 (no access)
// to 8 (full account administration).
type PermissionLevel int

const (
	PermissionNone         PermissionLevel = 0
	PermissionTime         PermissionLevel = 1
	PermissionMyMoney      PermissionLevel = 2
	PermissionContacts     PermissionLevel = 3
	PermissionProjects     PermissionLevel = 4
	PermissionInvoicing    PermissionLevel = 5
	PermissionBills        PermissionLevel = 6
	PermissionBanking      PermissionLevel = 7
	PermissionAccountAdmin PermissionLevel = 8
)

// User is a person with access to the Ledgerport account.
type User struct {
	URL               string          `json:"url,omitempty"`
	FirstName         string          `json:"first_name"`
	LastName          string          `json:"last_name"`
	Email             string          `json:"email"`
	Role              UserRole        `json:"role,omitempty"`
	PermissionLevel   PermissionLevel `json:"permission_level,omitempty"`
	OpeningMileage    *int            `json:"opening_mileage,omitempty"`
	NITaxCode         *string         `json:"ni_tax_code,omitempty"`
	HiddenFromPayroll *bool           `json:"hidden_from_payroll,omitempty"`
	CreatedAt         *time.Time      `json:"created_at,omitempty"`
	UpdatedAt         *time.Time      `json:"updated_at,omitempty"`
}

// UserRoot is the envelope for a single user.
type UserRoot struct {
	User User `json:"user"`
}

// UsersRoot is the envelope for a list of users.
type UsersRoot struct {
	Users []User `json:"users"`
}

// ListUsers returns one page of users on the account.
func (c *Client) ListUsers(ctx context.Context, opts ListOptions) ([]User, error) {
	var root UsersRoot
	if err := c.get(ctx, "/users", opts.values(), &root); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return root.Users, nil
}

// GetUser fetches a single user by identifier.
func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	var root UserRoot
	if err := c.get(ctx, "/users/"+id, nil, &root); err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return &root.User, nil
}

// GetCurrentUser fetches the user the access token belongs to.
func (c *Client) GetCurrentUser(ctx context.Context) (*User, error) {
	var root UserRoot
	if err := c.get(ctx, "/users/me", nil, &root); err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return &root.User, nil
}

// CreateUser invites a new user to the account.
func (c *Client) CreateUser(ctx context.Context, user *User) (*User, error) {
	var root UserRoot
	if err := c.post(ctx, "/users", UserRoot{User: *user}, &root); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &root.User, nil
}

// UpdateUser updates a user and returns the stored version.
func (c *Client) UpdateUser(ctx context.Context, id string, user *User) (*User, error) {
	var root UserRoot
	if err := c.put(ctx, "/users/"+id, UserRoot{User: *user}, &root); err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", id, err)
	}
	return &root.User, nil
}

// DeleteUser removes a user's access to the account.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	if err := c.deleteRequest(ctx, "/users/"+id); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	return nil
}
