package usecase

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	userdom "botparts/internal/domain/user"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	byUID map[string]userdom.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byUID: map[string]userdom.User{}}
}

func (f *fakeUserRepo) GetByUID(ctx context.Context, uid string) (*userdom.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byUID[uid]; ok {
		cp := u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) Upsert(ctx context.Context, u *userdom.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byUID[u.UID] = *u
	return nil
}

type fakePhotoStorage struct {
	uploaded int
}

func (f *fakePhotoStorage) Upload(ctx context.Context, uid, contentType string, body io.Reader) (string, error) {
	f.uploaded++
	_, _ = io.Copy(io.Discard, body)
	return "https://storage.googleapis.com/test-bucket/" + uid + "/photo", nil
}

func TestProfileGetReturnsStubForNewUser(t *testing.T) {
	uc := NewProfileUsecase(newFakeUserRepo())

	u, err := uc.Get(context.Background(), "u1", "ada@example.com")
	require.NoError(t, err)
	require.Equal(t, "u1", u.UID)
	require.Equal(t, "ada@example.com", u.Email)
	require.Empty(t, u.FirstName)

	_, err = uc.Get(context.Background(), "  ", "")
	require.ErrorIs(t, err, ErrProfileInvalidArgument)
}

func TestProfileUpdate(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewProfileUsecase(repo).WithClock(fixedClock{t: testNow})

	u, err := uc.Update(context.Background(), "u1", " Ada ", "Robotnik", "555-0101")
	require.NoError(t, err)
	require.Equal(t, "Ada", u.FirstName)
	require.Equal(t, "Robotnik", u.LastName)
	require.Equal(t, testNow, u.UpdatedAt)

	stored, err := repo.GetByUID(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, "Ada", stored.FirstName)
}

func TestProfileSetPhoto(t *testing.T) {
	repo := newFakeUserRepo()
	photos := &fakePhotoStorage{}
	uc := NewProfileUsecase(repo).WithClock(fixedClock{t: testNow}).WithPhotoStorage(photos)

	u, err := uc.SetPhoto(context.Background(), "u1", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.Equal(t, 1, photos.uploaded)
	require.Contains(t, u.PhotoURL, "/u1/photo")

	stored, err := repo.GetByUID(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, u.PhotoURL, stored.PhotoURL)
}

func TestProfileSetPhotoWithoutStorage(t *testing.T) {
	uc := NewProfileUsecase(newFakeUserRepo())
	_, err := uc.SetPhoto(context.Background(), "u1", "image/png", strings.NewReader("x"))
	require.Error(t, err)
}
