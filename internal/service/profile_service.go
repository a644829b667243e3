package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nurpe/freelance-backoffice/internal/model"
	"github.com/nurpe/freelance-backoffice/internal/repository"
)

type ProfileService struct {
	profiles *repository.ProfileRepository
}

func NewProfileService(store *repository.Store) *ProfileService {
	return &ProfileService{profiles: store.Profiles}
}

// Resolve loads the profile behind a request identity.
func (s *ProfileService) Resolve(ctx context.Context, id uint) (*model.Profile, error) {
	if id == 0 {
		return nil, ErrUnauthenticated
	}
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return profile, nil
}
