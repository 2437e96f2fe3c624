package model

import "time"

type Profile struct {
	ID            string    `gorm:"primaryKey;size:64" json:"id"` // auth user id
	FirstName     string    `gorm:"size:128" json:"first_name"`
	LastName      string    `gorm:"size:128" json:"last_name"`
	StudentNumber string    `gorm:"size:32" json:"student_number"`
	ContactNumber string    `gorm:"size:32" json:"contact_number"`
	CollegeID     uint      `json:"college_id"`
	ProgramID     uint      `json:"program_id"`
	Year          int       `json:"year"`
	Section       int       `json:"section"`
	Email         string    `gorm:"size:128" json:"email"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

type MembershipRequest struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:idx_membership_user_shop" json:"user_id"`
	ShopID    uint      `gorm:"not null;uniqueIndex:idx_membership_user_shop" json:"shop_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (MembershipRequest) TableName() string { return "membership_requests" }
