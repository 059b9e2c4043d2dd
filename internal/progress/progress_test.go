package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestStepOutcomeWithoutTerminal(t *testing.T) {
	tests := []struct {
		name   string
		finish func(*Step)
		want   string
	}{
		{"succeed", func(s *Step) { s.Succeed("Audio extracted") }, "✔ Audio extracted\n"},
		{"fail", func(s *Step) { s.Fail("Upload failed") }, "✖ Upload failed\n"},
		{"warn", func(s *Step) { s.Warn("Cleanup skipped") }, "⚠ Cleanup skipped\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			step := StartOn(&buf, "working", false)
			tt.finish(step)
			if buf.String() != tt.want {
				t.Errorf("output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestStepFinishesOnce(t *testing.T) {
	var buf bytes.Buffer
	step := StartOn(&buf, "working", true)
	step.Succeed("done")
	step.Fail("ignored")

	out := buf.String()
	if !strings.Contains(out, "✔ done") {
		t.Errorf("expected success line in %q", out)
	}
	if strings.Contains(out, "ignored") {
		t.Errorf("second outcome should be ignored, got %q", out)
	}
}
