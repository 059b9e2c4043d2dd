package audio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestIsMediaFile(t *testing.T) {
	tests := []struct {
		path  string
		video bool
		audio bool
	}{
		{"talk.mp4", true, false},
		{"TALK.MKV", true, false},
		{"clip.webm", true, false},
		{"speech.wav", false, true},
		{"speech.FLAC", false, true},
		{"notes.txt", false, false},
		{"noext", false, false},
	}

	for _, tt := range tests {
		if got := IsVideoFile(tt.path); got != tt.video {
			t.Errorf("IsVideoFile(%q) = %v, want %v", tt.path, got, tt.video)
		}
		if got := IsAudioFile(tt.path); got != tt.audio {
			t.Errorf("IsAudioFile(%q) = %v, want %v", tt.path, got, tt.audio)
		}
		if got := IsMediaFile(tt.path); got != (tt.video || tt.audio) {
			t.Errorf("IsMediaFile(%q) = %v", tt.path, got)
		}
	}
}

func TestExtractOptions(t *testing.T) {
	def := DefaultExtractOptions()
	if def.Format != "wav" || def.SampleRate != 16000 || def.Channels != 1 {
		t.Errorf("DefaultExtractOptions() = %+v", def)
	}
	if def.Extension() != ".wav" {
		t.Errorf("default extension = %q", def.Extension())
	}

	comp := CompressedExtractOptions()
	if comp.Format != "mp3" || comp.Bitrate != "64k" {
		t.Errorf("CompressedExtractOptions() = %+v", comp)
	}
	if comp.Extension() != ".mp3" {
		t.Errorf("compressed extension = %q", comp.Extension())
	}
}

func TestExtractKwargs(t *testing.T) {
	tests := []struct {
		opts      ExtractOptions
		codec     string
		bitrate   any
		hasBitset bool
	}{
		{DefaultExtractOptions(), "pcm_s16le", nil, false},
		{CompressedExtractOptions(), "libmp3lame", "64k", true},
		{ExtractOptions{Format: "aac", Bitrate: "96k"}, "aac", "96k", true},
		{ExtractOptions{Format: "flac", Bitrate: "96k"}, "flac", nil, false},
	}

	for _, tt := range tests {
		kw := extractKwargs(tt.opts)
		if kw["acodec"] != tt.codec {
			t.Errorf("%s: acodec = %v, want %s", tt.opts.Format, kw["acodec"], tt.codec)
		}
		br, ok := kw["b:a"]
		if ok != tt.hasBitset || (ok && br != tt.bitrate) {
			t.Errorf("%s: b:a = %v (set %v)", tt.opts.Format, br, ok)
		}
		if _, ok := kw["vn"]; !ok {
			t.Errorf("%s: expected video stream to be dropped", tt.opts.Format)
		}
	}
}

func TestParseProbe(t *testing.T) {
	data := []byte(`{
		"streams": [{"codec_type": "video"}, {"codec_type": "audio"}],
		"format": {"duration": "12.500000"}
	}`)

	p, err := parseProbe(data)
	if err != nil {
		t.Fatalf("parseProbe returned error: %v", err)
	}
	if p.duration != 12500*time.Millisecond {
		t.Errorf("duration = %v, want 12.5s", p.duration)
	}
	if !p.hasAudio {
		t.Error("expected audio stream to be detected")
	}

	silent, err := parseProbe([]byte(`{"streams": [{"codec_type": "video"}], "format": {"duration": "3"}}`))
	if err != nil {
		t.Fatalf("parseProbe returned error: %v", err)
	}
	if silent.hasAudio {
		t.Error("expected no audio stream")
	}

	if _, err := parseProbe([]byte(`{"format": {"duration": "N/A"}}`)); err == nil {
		t.Error("expected error for unparseable duration")
	}
}

func TestPlanChunks(t *testing.T) {
	jobs := planChunks("/in/talk.mp3", "/out", 25*time.Minute, 10*time.Minute)
	if len(jobs) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(jobs))
	}

	last := jobs[2]
	if last.startSeconds != 1200 || last.endSeconds != 1500 {
		t.Errorf("last chunk = %+v", last)
	}
	if !strings.HasSuffix(last.chunkPath, "talk_chunk_002.mp3") {
		t.Errorf("chunk path = %q", last.chunkPath)
	}

	if jobs := planChunks("a.mp3", "/out", 0, time.Minute); len(jobs) != 0 {
		t.Errorf("expected no chunks for empty audio, got %d", len(jobs))
	}
}

func TestCleanupChunks(t *testing.T) {
	dir := t.TempDir()
	var chunks []ChunkInfo
	for i := 0; i < 2; i++ {
		path := filepath.Join(dir, "chunk"+string(rune('a'+i)))
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatalf("write chunk: %v", err)
		}
		chunks = append(chunks, ChunkInfo{Path: path, Index: i})
	}
	chunks = append(chunks, ChunkInfo{Path: filepath.Join(dir, "missing")})

	if err := CleanupChunks(chunks); err != nil {
		t.Fatalf("CleanupChunks returned error: %v", err)
	}
	for _, c := range chunks {
		if _, err := os.Stat(c.Path); !os.IsNotExist(err) {
			t.Errorf("chunk %s still exists", c.Path)
		}
	}
}
