// internal/application/usecase/profile_usecase.go
package usecase

import (
	"context"
	"errors"
	"io"
	"strings"

	userdom "botparts/internal/domain/user"
)

var ErrProfileInvalidArgument = errors.New("profile_usecase: invalid argument")

// PhotoStorage is the profile photo object-storage port (GCS in production).
type PhotoStorage interface {
	Upload(ctx context.Context, uid, contentType string, body io.Reader) (url string, err error)
}

// ProfileUsecase manages the buyer profile document.
type ProfileUsecase struct {
	repo   userdom.Repository
	photos PhotoStorage // optional
	clock  Clock
}

func NewProfileUsecase(repo userdom.Repository) *ProfileUsecase {
	return &ProfileUsecase{repo: repo, clock: systemClock{}}
}

func (uc *ProfileUsecase) WithPhotoStorage(p PhotoStorage) *ProfileUsecase {
	uc.photos = p
	return uc
}

func (uc *ProfileUsecase) WithClock(c Clock) *ProfileUsecase {
	if c != nil {
		uc.clock = c
	}
	return uc
}

// Get returns the profile, or a stub carrying just uid/email when no
// document exists yet (first sign-in).
func (uc *ProfileUsecase) Get(ctx context.Context, uid, email string) (*userdom.User, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, ErrProfileInvalidArgument
	}

	u, err := uc.repo.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		u = &userdom.User{UID: uid, Email: strings.TrimSpace(email)}
	}
	return u, nil
}

// Update overwrites the editable profile fields.
func (uc *ProfileUsecase) Update(ctx context.Context, uid string, firstName, lastName, phone string) (*userdom.User, error) {
	u, err := uc.Get(ctx, uid, "")
	if err != nil {
		return nil, err
	}

	u.FirstName = strings.TrimSpace(firstName)
	u.LastName = strings.TrimSpace(lastName)
	u.Phone = strings.TrimSpace(phone)
	u.UpdatedAt = uc.clock.Now()

	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Upsert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPhoto uploads the photo and saves its public URL on the profile.
func (uc *ProfileUsecase) SetPhoto(ctx context.Context, uid, contentType string, body io.Reader) (*userdom.User, error) {
	if uc.photos == nil {
		return nil, errors.New("profile_usecase: photo storage is not configured")
	}
	u, err := uc.Get(ctx, uid, "")
	if err != nil {
		return nil, err
	}

	url, err := uc.photos.Upload(ctx, u.UID, contentType, body)
	if err != nil {
		return nil, err
	}

	u.PhotoURL = url
	u.UpdatedAt = uc.clock.Now()
	if err := uc.repo.Upsert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
