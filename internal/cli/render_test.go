package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mgpai22/vid2srt/internal/config"
	"github.com/mgpai22/vid2srt/internal/logging"
)

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	transcriptPath := filepath.Join(dir, "talk.json")
	content := `{
		"language": "en-US",
		"results": [
			{"words": [
				{"word": "Hello", "start": 0.0, "end": 0.4},
				{"word": "world.", "start": 0.4, "end": 0.9}
			]},
			{"words": [
				{"word": "Bye", "start": 1.0, "end": 1.3}
			]}
		]
	}`
	if err := os.WriteFile(transcriptPath, []byte(content), 0644); err != nil {
		t.Fatalf("write transcript: %v", err)
	}

	cfg = config.Default()
	logger = logging.Nop()

	var out bytes.Buffer
	renderCmd.SetOut(&out)
	// merges the root's persistent --output into the command's flag set
	renderCmd.InheritedFlags()
	if err := renderCmd.Flags().Set("output", "-"); err != nil {
		t.Fatalf("set output: %v", err)
	}
	t.Cleanup(func() { _ = renderCmd.Flags().Set("output", "") })

	if err := runRender(renderCmd, []string{transcriptPath}); err != nil {
		t.Fatalf("runRender returned error: %v", err)
	}

	want := "1\n00:00:00,000 --> 00:00:00,900\nHello world.\n\n" +
		"2\n00:00:01,000 --> 00:00:01,300\nBye\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestRenderCommandMalformedTranscript(t *testing.T) {
	transcriptPath := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(transcriptPath, []byte(`{"results": [{"words": [{"word": "x"}]}]}`), 0644); err != nil {
		t.Fatalf("write transcript: %v", err)
	}

	cfg = config.Default()
	logger = logging.Nop()
	renderCmd.InheritedFlags()

	if err := runRender(renderCmd, []string{transcriptPath}); err == nil {
		t.Error("expected error for a word without timings")
	}
}
