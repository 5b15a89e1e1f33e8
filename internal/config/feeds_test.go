package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFeedsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cameras.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write feeds file: %v", err)
	}
	return path
}

func TestLoadFeeds(t *testing.T) {
	path := writeFeedsFile(t, `cam1,rtsp://host/stream1,rtmp://dest/live/cam1
cam2,rtsp://host/stream2,rtmp://dest/live/cam2
`)

	feeds, err := LoadFeeds(path)
	if err != nil {
		t.Fatalf("LoadFeeds failed: %v", err)
	}
	if len(feeds) != 2 {
		t.Fatalf("got %d feeds, want 2", len(feeds))
	}
	if feeds[0].ID != "cam1" || feeds[0].SourceURL != "rtsp://host/stream1" || feeds[0].DestinationURL != "rtmp://dest/live/cam1" {
		t.Errorf("unexpected first feed: %+v", feeds[0])
	}
	if feeds[1].ID != "cam2" {
		t.Errorf("feed order not preserved: %+v", feeds)
	}
}

func TestLoadFeedsSkipsShortRecords(t *testing.T) {
	path := writeFeedsFile(t, `cam1,rtsp://host/stream1,rtmp://dest/live/cam1
cam2,rtsp://host/stream2
cam3
cam4,rtsp://host/stream4,rtmp://dest/live/cam4
`)

	feeds, err := LoadFeeds(path)
	if err != nil {
		t.Fatalf("LoadFeeds failed: %v", err)
	}
	if len(feeds) != 2 {
		t.Fatalf("got %d feeds, want 2", len(feeds))
	}
	if feeds[0].ID != "cam1" || feeds[1].ID != "cam4" {
		t.Errorf("wrong feeds survived: %+v", feeds)
	}
}

func TestLoadFeedsAcceptsExtraFields(t *testing.T) {
	path := writeFeedsFile(t, "cam1,rtsp://host/stream1,rtmp://dest/live/cam1,comment,more\n")

	feeds, err := LoadFeeds(path)
	if err != nil {
		t.Fatalf("LoadFeeds failed: %v", err)
	}
	if len(feeds) != 1 {
		t.Fatalf("got %d feeds, want 1", len(feeds))
	}
	if feeds[0].DestinationURL != "rtmp://dest/live/cam1" {
		t.Errorf("extra fields leaked into feed: %+v", feeds[0])
	}
}

func TestLoadFeedsSkipsEmptyID(t *testing.T) {
	path := writeFeedsFile(t, `,rtsp://host/stream1,rtmp://dest/live/cam1
cam2,rtsp://host/stream2,rtmp://dest/live/cam2
`)

	feeds, err := LoadFeeds(path)
	if err != nil {
		t.Fatalf("LoadFeeds failed: %v", err)
	}
	if len(feeds) != 1 || feeds[0].ID != "cam2" {
		t.Errorf("expected only cam2 to survive, got %+v", feeds)
	}
}

func TestLoadFeedsMissingFile(t *testing.T) {
	_, err := LoadFeeds(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadFeedsEmptyFile(t *testing.T) {
	path := writeFeedsFile(t, "")

	_, err := LoadFeeds(path)
	if !errors.Is(err, ErrNoFeeds) {
		t.Errorf("expected ErrNoFeeds for empty file, got %v", err)
	}
}

func TestLoadFeedsOnlyUnusableRecords(t *testing.T) {
	path := writeFeedsFile(t, "cam1,rtsp://host/stream1\n,rtsp://host/stream2,rtmp://dest/live/x\n")

	_, err := LoadFeeds(path)
	if !errors.Is(err, ErrNoFeeds) {
		t.Errorf("expected ErrNoFeeds when nothing usable remains, got %v", err)
	}
}

func TestWriteExampleFeeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cameras.csv")

	if err := WriteExampleFeeds(path); err != nil {
		t.Fatalf("WriteExampleFeeds failed: %v", err)
	}

	feeds, err := LoadFeeds(path)
	if err != nil {
		t.Fatalf("generated file does not load: %v", err)
	}
	if len(feeds) == 0 {
		t.Error("generated file contains no feeds")
	}
}

func TestWriteExampleFeedsRefusesOverwrite(t *testing.T) {
	path := writeFeedsFile(t, "cam1,rtsp://host/stream1,rtmp://dest/live/cam1\n")

	if err := WriteExampleFeeds(path); err == nil {
		t.Fatal("expected error when file already exists")
	}
}
