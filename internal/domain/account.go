package domain

import "time"

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleSuperAdmin:
		return Role(s), true
	}
	return "", false
}

type Permission string

const (
	PermViewRevenue  Permission = "view_revenue"
	PermManageAdmins Permission = "manage_admins"
)

var rolePermissions = map[Role]map[Permission]bool{
	RoleAdmin: {},
	RoleSuperAdmin: {
		PermViewRevenue:  true,
		PermManageAdmins: true,
	},
}

func (r Role) Can(p Permission) bool { return rolePermissions[r][p] }

// Principal is the authenticated caller attached by the auth middleware.
type Principal struct {
	ID   string
	Role Role
}

func (p Principal) Can(perm Permission) bool { return p.Role.Can(perm) }

type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	PhoneNumber *string   `json:"phoneNumber,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type UserDetails struct {
	User
	Comments   []Comment               `json:"comments"`
	Reviews    []Review                `json:"reviews"`
	Newsletter *NewsletterSubscription `json:"newsletter"`
}

type Admin struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Position  string    `json:"position"`
	Role      Role      `json:"role"`
	Avatar    *string   `json:"avatar,omitempty"`
	Bio       *string   `json:"bio,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type NewStaff struct {
	Username string
	Email    string
	Password string
	Position string
	Role     Role
	Avatar   *string
	Bio      *string
}

// StaffUpdate carries the optional fields of a profile update; nil means
// unchanged.
type StaffUpdate struct {
	Username *string
	Email    *string
	Position *string
	Role     *Role
	Avatar   *string
	Bio      *string
}

type UsersQuery struct {
	Page
	Search    string
	SortBy    string
	SortOrder string
}
