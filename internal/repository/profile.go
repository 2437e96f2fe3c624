package repository

import (
	"context"

	"campus-merch-store/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*model.Profile, error)
	// Upsert inserts the profile or overwrites the existing row with the same
	// id in a single statement.
	Upsert(ctx context.Context, profile *model.Profile) error
}

type profileRepoImpl struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepoImpl{db: db}
}

func (r *profileRepoImpl) Get(ctx context.Context, userID string) (*model.Profile, error) {
	var p model.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepoImpl) Upsert(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"first_name",
				"last_name",
				"student_number",
				"contact_number",
				"college_id",
				"program_id",
				"year",
				"section",
				"email",
				"updated_at",
			}),
		}).
		Create(profile).Error
}

type MembershipRepository interface {
	// Request records a membership request unless one already exists for the
	// pair. It reports whether a row was written.
	Request(ctx context.Context, userID string, shopID uint) (bool, error)
}

type membershipRepoImpl struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepoImpl{db: db}
}

func (r *membershipRepoImpl) Request(ctx context.Context, userID string, shopID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "shop_id"}},
			DoNothing: true,
		}).
		Create(&model.MembershipRequest{UserID: userID, ShopID: shopID})

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
