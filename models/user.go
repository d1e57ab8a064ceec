package models

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	RoleMember   Role = "member"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEmployee, RoleMember:
		return true
	}
	return false
}

// Elevated reports whether the role belongs to gym staff.
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleEmployee
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:254;not null" json:"email"`
	Password     string    `gorm:"not null" json:"-"`
	FirstName    string    `gorm:"size:30" json:"first_name"`
	LastName     string    `gorm:"size:30" json:"last_name"`
	Phone        string    `gorm:"size:20" json:"phone"`
	Street       string    `gorm:"size:20" json:"street"`
	StreetNumber string    `gorm:"size:20" json:"street_number"`
	City         string    `gorm:"size:20" json:"city"`
	PostalCode   string    `gorm:"size:20" json:"postal_code"`
	IsStudent    bool      `gorm:"default:false" json:"is_student"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	Role         Role      `gorm:"size:20;default:'member';not null" json:"role"`
	IsStaff      bool      `json:"is_staff"`
	IsSuperuser  bool      `json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DeriveFlags maps a role onto the elevated account flags.
// Admins get both, employees are staff only, members get neither.
func DeriveFlags(role Role) (isStaff, isSuperuser bool) {
	switch role {
	case RoleAdmin:
		return true, true
	case RoleEmployee:
		return true, false
	default:
		return false, false
	}
}

// ApplyRoleFlags recomputes IsStaff and IsSuperuser from Role. Call it before every save.
func (u *User) ApplyRoleFlags() {
	u.IsStaff, u.IsSuperuser = DeriveFlags(u.Role)
}

func (u *User) FullAddress() string {
	return u.Street + " " + u.StreetNumber + ", " + u.PostalCode + " " + u.City
}
