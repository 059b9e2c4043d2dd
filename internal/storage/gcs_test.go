package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestObjectName(t *testing.T) {
	name := ObjectName("audio-transcripts/", "/tmp/work/audio.wav")

	if !strings.HasPrefix(name, "audio-transcripts/") {
		t.Errorf("ObjectName() = %q, want audio-transcripts/ prefix", name)
	}
	if !strings.HasSuffix(name, ".wav") {
		t.Errorf("ObjectName() = %q, want .wav suffix", name)
	}

	id := strings.TrimSuffix(strings.TrimPrefix(name, "audio-transcripts/"), ".wav")
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("ObjectName() id %q is not a uuid: %v", id, err)
	}

	if other := ObjectName("audio-transcripts/", "/tmp/work/audio.wav"); other == name {
		t.Errorf("ObjectName() returned the same name twice: %q", name)
	}
}

func TestObjectNameWithoutPrefix(t *testing.T) {
	name := ObjectName("", "audio.flac")
	if strings.Contains(name, "/") {
		t.Errorf("ObjectName() = %q, want no directory", name)
	}
}

func TestURI(t *testing.T) {
	if got := URI("bucket", "audio-transcripts/x.wav"); got != "gs://bucket/audio-transcripts/x.wav" {
		t.Errorf("URI() = %q", got)
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		"a.wav":  "audio/wav",
		"a.WAV":  "audio/wav",
		"a.flac": "audio/flac",
		"a.mp3":  "audio/mpeg",
		"a.bin":  "application/octet-stream",
	}
	for in, want := range tests {
		if got := contentType(in); got != want {
			t.Errorf("contentType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewGCSUploaderRequiresBucket(t *testing.T) {
	if _, err := NewGCSUploader(context.Background(), "", ""); err == nil {
		t.Error("expected error for empty bucket")
	}
}
