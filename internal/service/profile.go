package service

import (
	"context"
	"errors"
	"fmt"

	"campus-merch-store/internal/auth"
	"campus-merch-store/internal/model"
	"campus-merch-store/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProfileInput struct {
	FirstName     string
	LastName      string
	StudentNumber string
	ContactNumber string
	CollegeID     uint
	ProgramID     uint
	Year          int
	Section       int
}

type ProfileService interface {
	GetProfile(ctx context.Context) (*model.Profile, error)
	// SaveProfile creates the actor's profile or overwrites it.
	SaveProfile(ctx context.Context, in ProfileInput) (*model.Profile, error)
	// RequestMembership records a request to join a shop. It reports false
	// when the actor already asked.
	RequestMembership(ctx context.Context, shopID uint) (bool, error)
	ListColleges(ctx context.Context) ([]*model.College, error)
	ListPrograms(ctx context.Context, collegeID uint) ([]*model.Program, error)
	ManagedShops(ctx context.Context) ([]*model.Shop, error)
}

type profileServiceImpl struct {
	actors         auth.ActorResolver
	profileRepo    repository.ProfileRepository
	membershipRepo repository.MembershipRepository
	collegeRepo    repository.CollegeRepository
	shopRepo       repository.ShopRepository
	log            *zap.Logger
}

func NewProfileService(
	actors auth.ActorResolver,
	profileRepo repository.ProfileRepository,
	membershipRepo repository.MembershipRepository,
	collegeRepo repository.CollegeRepository,
	shopRepo repository.ShopRepository,
	log *zap.Logger,
) ProfileService {
	return &profileServiceImpl{
		actors:         actors,
		profileRepo:    profileRepo,
		membershipRepo: membershipRepo,
		collegeRepo:    collegeRepo,
		shopRepo:       shopRepo,
		log:            log,
	}
}

func (s *profileServiceImpl) GetProfile(ctx context.Context) (*model.Profile, error) {
	actor, err := s.actors.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.profileRepo.Get(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", notFound(err))
	}
	return p, nil
}

func (s *profileServiceImpl) SaveProfile(ctx context.Context, in ProfileInput) (*model.Profile, error) {
	actor, err := s.actors.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	program, err := s.collegeRepo.FindProgram(ctx, in.ProgramID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get program %d: %w", in.ProgramID, err)
	}
	if program == nil || program.CollegeID != in.CollegeID {
		return nil, fmt.Errorf("program %d, college %d: %w", in.ProgramID, in.CollegeID, ErrProgramMismatch)
	}

	err = s.profileRepo.Upsert(ctx, &model.Profile{
		ID:            actor.ID,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		StudentNumber: in.StudentNumber,
		ContactNumber: in.ContactNumber,
		CollegeID:     in.CollegeID,
		ProgramID:     in.ProgramID,
		Year:          in.Year,
		Section:       in.Section,
		Email:         actor.Email,
	})
	if err != nil {
		s.log.Error("save profile", zap.String("user_id", actor.ID), zap.Error(err))
		return nil, fmt.Errorf("store profile: %w", err)
	}

	return s.GetProfile(ctx)
}

func (s *profileServiceImpl) RequestMembership(ctx context.Context, shopID uint) (bool, error) {
	actor, err := s.actors.Resolve(ctx)
	if err != nil {
		return false, err
	}

	if _, err := s.shopRepo.Get(ctx, shopID); err != nil {
		return false, fmt.Errorf("get shop %d: %w", shopID, notFound(err))
	}

	created, err := s.membershipRepo.Request(ctx, actor.ID, shopID)
	if err != nil {
		s.log.Error("request membership", zap.String("user_id", actor.ID), zap.Uint("shop_id", shopID), zap.Error(err))
		return false, fmt.Errorf("store membership request: %w", err)
	}
	return created, nil
}

func (s *profileServiceImpl) ListColleges(ctx context.Context) ([]*model.College, error) {
	colleges, err := s.collegeRepo.ListColleges(ctx)
	if err != nil {
		return nil, fmt.Errorf("list colleges: %w", err)
	}
	return colleges, nil
}

func (s *profileServiceImpl) ListPrograms(ctx context.Context, collegeID uint) ([]*model.Program, error) {
	programs, err := s.collegeRepo.ListPrograms(ctx, collegeID)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

func (s *profileServiceImpl) ManagedShops(ctx context.Context) ([]*model.Shop, error) {
	actor, err := s.actors.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	shops, err := s.shopRepo.ManagedBy(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list managed shops: %w", err)
	}
	return shops, nil
}
