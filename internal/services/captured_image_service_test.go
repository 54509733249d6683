package services

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/terraincognita07/moodtune/internal/metrics"
	"github.com/terraincognita07/moodtune/internal/models"
	"github.com/terraincognita07/moodtune/internal/storage"
	"github.com/terraincognita07/moodtune/internal/validation"
	"gorm.io/gorm"
)

type stubCapturedImageRepo struct {
	images     map[uint]models.CapturedImage
	nextID     uint
	saveErr    error
	lastFilter models.CapturedImageFilter
}

func newStubCapturedImageRepo(images ...models.CapturedImage) *stubCapturedImageRepo {
	repo := &stubCapturedImageRepo{images: make(map[uint]models.CapturedImage), nextID: 100}
	for _, image := range images {
		repo.images[image.ID] = image
	}
	return repo
}

func (stub *stubCapturedImageRepo) List(filter models.CapturedImageFilter) ([]models.CapturedImage, error) {
	stub.lastFilter = filter
	result := make([]models.CapturedImage, 0, len(stub.images))
	for _, image := range stub.images {
		if filter.UserID != nil && (image.UserID == nil || *image.UserID != *filter.UserID) {
			continue
		}
		result = append(result, image)
	}
	return result, nil
}

func (stub *stubCapturedImageRepo) FindByID(imageID uint) (models.CapturedImage, error) {
	image, ok := stub.images[imageID]
	if !ok {
		return models.CapturedImage{}, gorm.ErrRecordNotFound
	}
	return image, nil
}

func (stub *stubCapturedImageRepo) Create(image *models.CapturedImage) error {
	stub.nextID++
	image.ID = stub.nextID
	stub.images[image.ID] = *image
	return nil
}

func (stub *stubCapturedImageRepo) Save(image *models.CapturedImage) error {
	if stub.saveErr != nil {
		return stub.saveErr
	}
	stub.images[image.ID] = *image
	return nil
}

func (stub *stubCapturedImageRepo) Delete(imageID uint) error {
	if _, ok := stub.images[imageID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(stub.images, imageID)
	return nil
}

type stubBlobStore struct {
	stored  map[string]string
	counter int
	removed []string
}

func newStubBlobStore(existing ...string) *stubBlobStore {
	store := &stubBlobStore{stored: make(map[string]string)}
	for _, relative := range existing {
		store.stored[relative] = "existing"
	}
	return store
}

func (stub *stubBlobStore) SaveImage(reader io.Reader) (string, error) {
	payload, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(string(payload), "IMG") {
		return "", storage.ErrNotImage
	}
	stub.counter++
	relative := "captured_images/blob-" + string(rune('a'+stub.counter)) + ".png"
	stub.stored[relative] = string(payload)
	return relative, nil
}

func (stub *stubBlobStore) Remove(relative string) error {
	stub.removed = append(stub.removed, relative)
	delete(stub.stored, relative)
	return nil
}

func (stub *stubBlobStore) Exists(relative string) bool {
	_, ok := stub.stored[relative]
	return ok
}

func uintPointer(value uint) *uint {
	return &value
}

func TestCapturedImageServiceCreate(t *testing.T) {
	repo := newStubCapturedImageRepo()
	blobs := newStubBlobStore()
	service := NewCapturedImageService(repo, blobs)
	now := time.Date(2026, time.June, 1, 7, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }
	viewer := &models.User{ID: 9, IsActive: true}

	image, err := service.Create(viewer, CapturedImageInput{Mood: stringPointer(" happy "), Image: strings.NewReader("IMG-1")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if image.Mood != "happy" || !image.CapturedAt.Equal(now) {
		t.Fatalf("unexpected capture: %#v", image)
	}
	if image.UserID == nil || *image.UserID != 9 {
		t.Fatalf("expected owner 9, got %v", image.UserID)
	}
	if _, ok := blobs.stored[image.Image]; !ok {
		t.Fatalf("expected blob %q to be stored", image.Image)
	}
}

func TestCapturedImageServiceCreateValidates(t *testing.T) {
	service := NewCapturedImageService(newStubCapturedImageRepo(), newStubBlobStore())
	viewer := &models.User{ID: 1}

	if _, err := service.Create(viewer, CapturedImageInput{}); !errors.Is(err, validation.ErrInvalid) {
		t.Fatalf("expected validation error for missing mood, got %v", err)
	}

	_, err := service.Create(viewer, CapturedImageInput{Mood: stringPointer("sad"), Image: strings.NewReader("not an image")})
	var validationErr *validation.Error
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error for bad image, got %v", err)
	}
	if validationErr.Fields()["image"] != invalidImageMessage {
		t.Fatalf("unexpected image message: %#v", validationErr.Fields())
	}
}

func TestCapturedImageServiceUpdateReplacesBlob(t *testing.T) {
	oldBlob := "captured_images/old.png"
	repo := newStubCapturedImageRepo(models.CapturedImage{ID: 1, Image: oldBlob, Mood: "sad", UserID: uintPointer(5)})
	blobs := newStubBlobStore(oldBlob)
	service := NewCapturedImageService(repo, blobs)
	owner := &models.User{ID: 5}

	updated, err := service.Update(owner, 1, CapturedImageInput{Image: strings.NewReader("IMG-new")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Image == oldBlob || updated.Mood != "sad" {
		t.Fatalf("unexpected update result: %#v", updated)
	}
	if _, ok := blobs.stored[oldBlob]; ok {
		t.Fatal("expected previous blob to be removed")
	}
	if len(blobs.stored) != 1 {
		t.Fatalf("expected only the new blob to remain, got %v", blobs.stored)
	}
}

func TestCapturedImageServiceUpdateKeepsOldBlobWhenSaveFails(t *testing.T) {
	oldBlob := "captured_images/old.png"
	repo := newStubCapturedImageRepo(models.CapturedImage{ID: 1, Image: oldBlob, Mood: "sad", UserID: uintPointer(5)})
	repo.saveErr = errors.New("database is locked")
	blobs := newStubBlobStore(oldBlob)
	service := NewCapturedImageService(repo, blobs)

	if _, err := service.Update(&models.User{ID: 5}, 1, CapturedImageInput{Image: strings.NewReader("IMG-new")}); err == nil {
		t.Fatal("expected save error")
	}
	if _, ok := blobs.stored[oldBlob]; !ok {
		t.Fatal("expected previous blob to survive a failed save")
	}
	if len(blobs.stored) != 1 {
		t.Fatalf("expected the new blob to be cleaned up, got %v", blobs.stored)
	}
}

func TestCapturedImageServiceUpdateWithoutImageKeepsBlob(t *testing.T) {
	oldBlob := "captured_images/old.png"
	repo := newStubCapturedImageRepo(models.CapturedImage{ID: 1, Image: oldBlob, Mood: "sad", UserID: uintPointer(5)})
	blobs := newStubBlobStore(oldBlob)
	service := NewCapturedImageService(repo, blobs)

	updated, err := service.Update(&models.User{ID: 5}, 1, CapturedImageInput{Mood: stringPointer("calm")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Image != oldBlob || updated.Mood != "calm" {
		t.Fatalf("unexpected update result: %#v", updated)
	}
	if _, ok := blobs.stored[oldBlob]; !ok {
		t.Fatal("expected blob to be kept")
	}

	cleared, err := service.Update(&models.User{ID: 5}, 1, CapturedImageInput{ClearImage: true})
	if err != nil {
		t.Fatalf("clear image: %v", err)
	}
	if cleared.Image != "" || len(blobs.stored) != 0 {
		t.Fatalf("expected cleared image and no blobs, got %#v %v", cleared, blobs.stored)
	}
}

func TestCapturedImageServiceAccessControl(t *testing.T) {
	repo := newStubCapturedImageRepo(
		models.CapturedImage{ID: 1, Mood: "sad", UserID: uintPointer(5)},
		models.CapturedImage{ID: 2, Mood: "happy", UserID: uintPointer(6)},
		models.CapturedImage{ID: 3, Mood: "calm"},
	)
	service := NewCapturedImageService(repo, newStubBlobStore())
	owner := &models.User{ID: 5}
	staff := &models.User{ID: 1, IsStaff: true}

	if _, err := service.Get(owner, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for another user's capture, got %v", err)
	}
	if _, err := service.Get(owner, 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for an ownerless capture, got %v", err)
	}
	if _, err := service.Get(staff, 2); err != nil {
		t.Fatalf("expected staff access, got %v", err)
	}
	if err := service.Delete(owner, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting another user's capture, got %v", err)
	}

	images, err := service.List(owner, models.CapturedImageFilter{UserID: uintPointer(6)})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(images) != 1 || images[0].ID != 1 {
		t.Fatalf("expected only the owner's capture, got %#v", images)
	}

	all, err := service.List(staff, models.CapturedImageFilter{})
	if err != nil {
		t.Fatalf("staff list: %v", err)
	}
	if len(all) != 3 || repo.lastFilter.UserID != nil {
		t.Fatalf("expected unfiltered staff listing, got %d rows", len(all))
	}
}

func TestCapturedImageServiceDeleteRemovesBlob(t *testing.T) {
	blob := "captured_images/gone.png"
	repo := newStubCapturedImageRepo(models.CapturedImage{ID: 1, Image: blob, Mood: "sad", UserID: uintPointer(5)})
	blobs := newStubBlobStore(blob)
	service := NewCapturedImageService(repo, blobs)

	if err := service.Delete(&models.User{ID: 5}, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.images) != 0 || len(blobs.stored) != 0 {
		t.Fatalf("expected row and blob removed, got %v %v", repo.images, blobs.stored)
	}
}

func TestCapturedImageServiceDeleteSkipsMissingBlob(t *testing.T) {
	repo := newStubCapturedImageRepo(models.CapturedImage{ID: 1, Image: "captured_images/lost.png", Mood: "sad", UserID: uintPointer(5)})
	blobs := newStubBlobStore()
	service := NewCapturedImageService(repo, blobs)

	missing := metrics.ImageBlobsTotal.WithLabelValues(metrics.BlobMissing)
	before := testutil.ToFloat64(missing)

	if err := service.Delete(&models.User{ID: 5}, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.images) != 0 {
		t.Fatalf("expected row removed, got %v", repo.images)
	}
	if len(blobs.removed) != 0 {
		t.Fatalf("expected no remove call for a missing blob, got %v", blobs.removed)
	}
	if after := testutil.ToFloat64(missing); after != before+1 {
		t.Fatalf("expected missing blob counter to grow by one, before=%v after=%v", before, after)
	}
}
