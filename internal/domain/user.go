package domain

// Column limits for User
const (
	NameMaxLen     = 100 // Max name length
	EmailMaxLen    = 100 // Max email length
	PhoneMaxLen    = 20  // Max phone length
	PasswordMaxLen = 200 // Max stored hash length
)

// User Model
type User struct {
	ID       uint   `gorm:"primaryKey"`                    // Primary key
	Name     string `gorm:"size:100;not null"`             // Display name
	Email    string `gorm:"size:100;uniqueIndex;not null"` // Unique login identifier
	Phone    string `gorm:"size:20"`                       // Free-form phone number
	Password string `gorm:"size:200;not null" json:"-"`    // Hashed password, never plaintext
}
