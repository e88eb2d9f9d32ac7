package principal

import (
	"time"
)

// Access levels assignable to a principal. Levels 1 and 2 are plain
// employees; AdministratorLevel and above can review and decide
// submissions and manage employee accounts.
const (
	EmployeeLevel      = 1
	SeniorLevel        = 2
	AdministratorLevel = 3
)

// Principal is an authenticated member of the organization. The
// credential (password hash) lives on the same row as the profile, so
// account creation is a single insert and can never orphan a credential.
type Principal struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	AccessLevel  int       `json:"access_level" gorm:"column:access_level;default:1"`
	Center       string    `json:"center,omitempty"`
	Team         string    `json:"team,omitempty"`
	FirstLogin   bool      `json:"first_login" gorm:"column:first_login;default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Principal) TableName() string {
	return "users"
}

// IsAdministrator is the role gate: level 3 accounts review submissions,
// see every row, and manage employees. Everyone else only sees their own
// submissions.
func (p *Principal) IsAdministrator() bool {
	return p.AccessLevel >= AdministratorLevel
}

func (p *Principal) CanDecide() bool {
	return p.IsAdministrator()
}
