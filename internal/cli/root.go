package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mgpai22/vid2srt/internal/config"
	"github.com/mgpai22/vid2srt/internal/logging"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "vid2srt",
	Short: "Speech-to-text subtitle generator for videos",
	Long: `vid2srt extracts the audio track of a video, transcribes it with a
speech-to-text provider and writes the words as SubRip (.srt) subtitles.

Cues are built from word timestamps: a cue closes at sentence-ending
punctuation, when its text no longer fits the line limits, or when it
would run longer than the maximum cue duration.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)
		loadEnvFiles()

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Close()
	},
}

// Execute runs the root command and cancels in-flight work on SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file (default ~/.config/vid2srt/config.toml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Language code (e.g., en-US, es-ES, fr-FR)")
}

// loadEnvFiles reads KEY=value files into the environment without
// overriding variables that are already set.
func loadEnvFiles() {
	envFiles := []string{".env", "vid2srt.env"}
	if homeDir, err := os.UserHomeDir(); err == nil {
		envFiles = append(envFiles, filepath.Join(homeDir, ".config", "vid2srt", "vid2srt.env"))
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		logger.Debugw("Loading environment file", "path", envFile)
		if err := godotenv.Load(envFile); err != nil {
			logger.Warnw("Failed to load environment file", "path", envFile, "error", err)
		}
	}
}
