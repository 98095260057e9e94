package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mpetrovs/trove/internal/common"
	"github.com/mpetrovs/trove/internal/server/models"
)

func newTroveService(m *fakeRepoManager, files *fakeStorage) *TroveService {
	return NewTroveService(nil, m, files)
}

func TestSave(t *testing.T) {
	m := newFakeRepoManager()
	svc := newTroveService(m, &fakeStorage{})

	trove, err := svc.Save(context.Background(), 7, "some secret payload")
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if trove.UserID != 7 || trove.Text != "some secret payload" {
		t.Fatalf("unexpected trove: %+v", trove)
	}
}

func TestSave_StoreError(t *testing.T) {
	m := newFakeRepoManager()
	m.troves.createErr = errors.New("db down")
	svc := newTroveService(m, &fakeStorage{})

	if _, err := svc.Save(context.Background(), 7, "text"); err == nil {
		t.Fatalf("expected store error")
	}
}

func TestCurrent(t *testing.T) {
	m := newFakeRepoManager()
	m.troves.latestOut = &models.Trove{ID: 11, Text: "latest", UserID: 7}
	svc := newTroveService(m, &fakeStorage{})

	trove, err := svc.Current(context.Background(), 7)
	if err != nil {
		t.Fatalf("Current error: %v", err)
	}
	if trove.ID != 11 {
		t.Fatalf("unexpected trove: %+v", trove)
	}
}

func TestCurrent_NoTrove(t *testing.T) {
	m := newFakeRepoManager()
	m.troves.latestErr = common.ErrNotFound
	svc := newTroveService(m, &fakeStorage{})

	_, err := svc.Current(context.Background(), 7)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestNewUploadURL(t *testing.T) {
	files := &fakeStorage{putURL: "https://s3.example/put"}
	svc := newTroveService(newFakeRepoManager(), files)

	key, url, err := svc.NewUploadURL(context.Background(), 7)
	if err != nil {
		t.Fatalf("NewUploadURL error: %v", err)
	}
	if !strings.HasPrefix(key, "users/7/") {
		t.Fatalf("key %q not under the user prefix", key)
	}
	if url != "https://s3.example/put" {
		t.Fatalf("unexpected url: %q", url)
	}
	if len(files.putKeys) != 1 || files.putKeys[0] != key {
		t.Fatalf("presigned key mismatch: %v", files.putKeys)
	}

	key2, _, err := svc.NewUploadURL(context.Background(), 7)
	if err != nil {
		t.Fatalf("NewUploadURL error: %v", err)
	}
	if key2 == key {
		t.Fatalf("keys must be unique per call")
	}
}

func TestDownloadURL_OwnKey(t *testing.T) {
	files := &fakeStorage{getURL: "https://s3.example/get"}
	svc := newTroveService(newFakeRepoManager(), files)

	url, err := svc.DownloadURL(context.Background(), 7, "users/7/abc")
	if err != nil {
		t.Fatalf("DownloadURL error: %v", err)
	}
	if url != "https://s3.example/get" {
		t.Fatalf("unexpected url: %q", url)
	}
}

func TestDownloadURL_ForeignKey(t *testing.T) {
	files := &fakeStorage{getURL: "https://s3.example/get"}
	svc := newTroveService(newFakeRepoManager(), files)

	for _, key := range []string{"users/8/abc", "users/77/abc", "abc", ""} {
		_, err := svc.DownloadURL(context.Background(), 7, key)
		if !errors.Is(err, common.ErrNotFound) {
			t.Fatalf("key %q: want common.ErrNotFound, got %v", key, err)
		}
	}
	if len(files.getKeys) != 0 {
		t.Fatalf("foreign keys must never reach the store: %v", files.getKeys)
	}
}
