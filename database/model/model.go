// Package model defines the gorm models persisted by the blog.
package model

import "time"

// Role is a user's access level. Only a flat equality check is made against it.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid checks if the role is a known value.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// PostStatus is the moderation state of a post.
type PostStatus string

const (
	PostPending  PostStatus = "pending"
	PostApproved PostStatus = "approved"
	PostRejected PostStatus = "rejected"
)

type User struct {
	Id        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	FirstName string    `json:"firstName" gorm:"not null"`
	LastName  string    `json:"lastName" gorm:"not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"`
	Avatar    string    `json:"avatar"`
	Role      Role      `json:"role" gorm:"type:varchar(16);not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// APIKey stores the SHA-256 digest of an issued key, never the key itself.
type APIKey struct {
	Id        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedBy uint      `json:"createdBy" gorm:"index;not null"`
	Key       string    `json:"-" gorm:"uniqueIndex;not null"`
	Active    bool      `json:"active" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (APIKey) TableName() string {
	return "api_keys"
}

type Category struct {
	Id        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"index;not null"`
	Slug      string    `json:"slug" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Post references its author and category by id only. Author and Category are
// filled on the published read paths.
type Post struct {
	Id               uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	Title            string     `json:"title" gorm:"not null"`
	Slug             string     `json:"slug" gorm:"uniqueIndex;not null"`
	Content          string     `json:"content" gorm:"type:text;not null"`
	AuthorId         uint       `json:"authorId" gorm:"index;not null"`
	CategoryId       uint       `json:"categoryId" gorm:"index;not null"`
	Status           PostStatus `json:"status" gorm:"type:varchar(16);index;not null"`
	RejectionComment *string    `json:"rejectionComment,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`

	Author   *User     `json:"author,omitempty" gorm:"foreignKey:AuthorId"`
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryId"`
}
