package ffmpeg

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

const (
	envFFmpegPath  = "VID2SRT_FFMPEG_PATH"
	envFFprobePath = "VID2SRT_FFPROBE_PATH"

	releaseVersion = "6.1"
	releaseBaseURL = "https://github.com/ffbinaries/ffbinaries-prebuilt/releases/download"
)

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

// locator resolves ffmpeg and ffprobe: explicit env paths first, then PATH,
// then a per-user cache populated from the ffbinaries release archive.
type locator struct {
	getenv   func(string) string
	lookPath func(string) (string, error)
	cacheDir func() (string, error)
	download func(assetName, installDir string) error
	goos     string
	goarch   string
}

func defaultLocator() locator {
	return locator{
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
		cacheDir: os.UserCacheDir,
		download: downloadAndExtract,
		goos:     runtime.GOOS,
		goarch:   runtime.GOARCH,
	}
}

var (
	ensureOnce sync.Once
	ensureErr  error
	ensurePath BinaryPaths
)

// Ensure resolves the binaries once per process.
func Ensure() (BinaryPaths, error) {
	ensureOnce.Do(func() {
		ensurePath, ensureErr = defaultLocator().resolve()
	})
	return ensurePath, ensureErr
}

func FFmpegPath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFmpeg, nil
}

func FFprobePath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFprobe, nil
}

func (l locator) resolve() (BinaryPaths, error) {
	paths := BinaryPaths{
		FFmpeg:  l.getenv(envFFmpegPath),
		FFprobe: l.getenv(envFFprobePath),
	}

	if paths.FFmpeg == "" {
		if found, err := l.lookPath("ffmpeg"); err == nil {
			paths.FFmpeg = found
		}
	}
	if paths.FFprobe == "" {
		if found, err := l.lookPath("ffprobe"); err == nil {
			paths.FFprobe = found
		}
	}
	if paths.FFmpeg != "" && paths.FFprobe != "" {
		return paths, nil
	}

	assetName, err := assetForPlatform(l.goos, l.goarch)
	if err != nil {
		return BinaryPaths{}, err
	}

	cacheDir, err := l.cacheDir()
	if err != nil || cacheDir == "" {
		cacheDir = os.TempDir()
	}
	installDir := filepath.Join(cacheDir, "vid2srt", "ffmpeg", releaseVersion, l.goos, l.goarch)

	suffix := executableSuffix(l.goos)
	cached := BinaryPaths{
		FFmpeg:  filepath.Join(installDir, "ffmpeg"+suffix),
		FFprobe: filepath.Join(installDir, "ffprobe"+suffix),
	}
	if binariesExist(cached) {
		return cached, nil
	}

	if err := os.MkdirAll(installDir, 0o755); err != nil {
		return BinaryPaths{}, fmt.Errorf("create ffmpeg cache dir: %w", err)
	}
	if err := l.download(assetName, installDir); err != nil {
		return BinaryPaths{}, err
	}
	if !binariesExist(cached) {
		return BinaryPaths{}, errors.New("ffmpeg binaries not found after extraction")
	}

	if l.goos != "windows" {
		for _, p := range []string{cached.FFmpeg, cached.FFprobe} {
			if err := os.Chmod(p, 0o755); err != nil {
				return BinaryPaths{}, fmt.Errorf("chmod %s: %w", filepath.Base(p), err)
			}
		}
	}

	return cached, nil
}

func assetForPlatform(goos, goarch string) (string, error) {
	var platform string
	switch {
	case goos == "linux" && goarch == "amd64":
		platform = "linux-64"
	case goos == "linux" && goarch == "arm64":
		platform = "linux-arm-64"
	case goos == "darwin" && goarch == "amd64":
		platform = "macos-64"
	case goos == "windows" && goarch == "amd64":
		platform = "win-64"
	default:
		return "", fmt.Errorf("unsupported platform for bundled ffmpeg: %s/%s", goos, goarch)
	}
	return "ffmpeg-" + releaseVersion + "-" + platform + ".zip", nil
}

func downloadAndExtract(assetName, installDir string) error {
	url := fmt.Sprintf("%s/v%s/%s", releaseBaseURL, releaseVersion, assetName)
	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("download ffmpeg bundle: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download ffmpeg bundle: unexpected status %s", resp.Status)
	}

	tmpFile, err := os.CreateTemp("", "vid2srt-ffmpeg-*.zip")
	if err != nil {
		return fmt.Errorf("create temp archive: %w", err)
	}
	archivePath := tmpFile.Name()
	defer func() { _ = os.Remove(archivePath) }()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write archive: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}

	if err := extractArchive(archivePath, installDir); err != nil {
		return fmt.Errorf("extract %s: %w", assetName, err)
	}
	return nil
}

// extractArchive copies the ffmpeg and ffprobe entries of a zip bundle into
// installDir, ignoring any directory structure inside the archive.
func extractArchive(archivePath, installDir string) error {
	zipReader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open ffmpeg archive: %w", err)
	}
	defer func() { _ = zipReader.Close() }()

	suffix := executableSuffix(runtime.GOOS)
	found := map[string]bool{}
	for _, file := range zipReader.File {
		name := binaryName(filepath.Base(file.Name))
		if name == "" {
			continue
		}
		dest := filepath.Join(installDir, name+suffix)
		if err := extractZipFile(file, dest); err != nil {
			return err
		}
		found[name] = true
	}

	if !found["ffmpeg"] || !found["ffprobe"] {
		return fmt.Errorf("ffmpeg archive missing required binaries")
	}
	return nil
}

func extractZipFile(file *zip.File, dest string) error {
	reader, err := file.Open()
	if err != nil {
		return fmt.Errorf("open ffmpeg archive entry: %w", err)
	}
	defer func() { _ = reader.Close() }()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create ffmpeg output dir: %w", err)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create ffmpeg binary: %w", err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, reader); err != nil {
		return fmt.Errorf("write ffmpeg binary: %w", err)
	}
	return nil
}

// binaryName maps an archive entry to "ffmpeg", "ffprobe" or "".
func binaryName(entry string) string {
	name := strings.TrimSuffix(strings.ToLower(entry), ".exe")
	if name == "ffmpeg" || name == "ffprobe" {
		return name
	}
	return ""
}

func binariesExist(paths BinaryPaths) bool {
	return fileExists(paths.FFmpeg) && fileExists(paths.FFprobe)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}

func executableSuffix(goos string) string {
	if goos == "windows" {
		return ".exe"
	}
	return ""
}
