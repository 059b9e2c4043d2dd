package transcribe

import (
	"context"
	"errors"
	"fmt"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"

	"github.com/mgpai22/vid2srt/internal/audio"
	"github.com/mgpai22/vid2srt/internal/logging"
	"github.com/mgpai22/vid2srt/internal/storage"
	"github.com/mgpai22/vid2srt/internal/subtitle"
)

const defaultGoogleTimeout = 900 * time.Second

// implements Transcriber using Cloud Speech-to-Text long-running recognition
// over audio staged in Cloud Storage
type GoogleTranscriber struct {
	client   *speech.Client
	uploader *storage.GCSUploader
	options  Options
}

func NewGoogleTranscriber(
	ctx context.Context,
	opts Options,
) (*GoogleTranscriber, error) {
	if opts.Google.Bucket == "" {
		return nil, fmt.Errorf("a Cloud Storage bucket is required for the google provider")
	}
	if opts.Google.Timeout <= 0 {
		opts.Google.Timeout = defaultGoogleTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}

	var clientOpts []option.ClientOption
	if opts.Google.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.Google.CredentialsFile))
	}

	client, err := speech.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}

	uploader, err := storage.NewGCSUploader(ctx, opts.Google.Bucket, opts.Google.CredentialsFile)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	return &GoogleTranscriber{
		client:   client,
		uploader: uploader,
		options:  opts,
	}, nil
}

// Upload stages the audio file and returns the object name and its gs:// URI.
func (t *GoogleTranscriber) Upload(
	ctx context.Context,
	audioPath string,
) (object, uri string, err error) {
	object = storage.ObjectName(t.options.Google.ObjectPrefix, audioPath)
	uri, err = t.uploader.Upload(ctx, audioPath, object)
	if err != nil {
		return "", "", err
	}
	return object, uri, nil
}

// Cleanup deletes a staged object. An object that is already gone is not an error.
func (t *GoogleTranscriber) Cleanup(ctx context.Context, object string) error {
	err := t.uploader.Delete(ctx, object)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	return err
}

// Recognize runs long-running recognition on a gs:// URI and waits up to
// the configured timeout.
func (t *GoogleTranscriber) Recognize(ctx context.Context, uri string) (*Result, error) {
	req := &speechpb.LongRunningRecognizeRequest{
		Config: recognitionConfig(t.options),
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Uri{Uri: uri},
		},
	}

	op, err := t.client.LongRunningRecognize(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to start recognition: %w", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, t.options.Google.Timeout)
	defer cancel()

	resp, err := op.Wait(waitCtx)
	if err != nil {
		if errors.Is(waitCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("recognition did not finish within %v: %w", t.options.Google.Timeout, err)
		}
		return nil, fmt.Errorf("recognition failed: %w", err)
	}

	results, err := convertSpeechResponse(resp)
	if err != nil {
		return nil, err
	}

	return &Result{
		Results:  results,
		Language: t.options.Language,
	}, nil
}

// transcribes single audio file: upload, recognize, delete. A failed delete
// is logged and does not fail the transcription.
func (t *GoogleTranscriber) Transcribe(
	ctx context.Context,
	audioPath string,
) (*Result, error) {
	run := stagedRun{
		upload:    t.Upload,
		recognize: t.Recognize,
		cleanup:   t.Cleanup,
		logger:    t.options.Logger,
	}
	result, err := run.transcribe(ctx, audioPath)
	if err != nil {
		return nil, err
	}
	if d, derr := audio.GetDuration(ctx, audioPath); derr == nil {
		result.Duration = d
	}
	return result, nil
}

// stagedRun sequences the upload, recognition and cleanup of one staged file.
type stagedRun struct {
	upload    func(ctx context.Context, audioPath string) (object, uri string, err error)
	recognize func(ctx context.Context, uri string) (*Result, error)
	cleanup   func(ctx context.Context, object string) error
	logger    *logging.Logger
}

func (r stagedRun) transcribe(ctx context.Context, audioPath string) (*Result, error) {
	object, uri, err := r.upload(ctx, audioPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		// a cancelled run still removes the object
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if cerr := r.cleanup(cleanupCtx, object); cerr != nil && r.logger != nil {
			r.logger.Warnw("Failed to delete staged audio", "uri", uri, "error", cerr)
		}
	}()

	return r.recognize(ctx, uri)
}

func (t *GoogleTranscriber) Close() error {
	return errors.Join(t.client.Close(), t.uploader.Close())
}

func recognitionConfig(opts Options) *speechpb.RecognitionConfig {
	extract := audio.DefaultExtractOptions()
	cfg := &speechpb.RecognitionConfig{
		Encoding:                   speechpb.RecognitionConfig_LINEAR16,
		SampleRateHertz:            int32(extract.SampleRate),
		AudioChannelCount:          int32(extract.Channels),
		LanguageCode:               opts.Language,
		EnableWordTimeOffsets:      true,
		EnableAutomaticPunctuation: true,
	}
	if opts.Model != "" {
		cfg.Model = opts.Model
	}
	return cfg
}

// convertSpeechResponse keeps the top alternative of every result. A result
// without alternatives or a word without offsets is malformed.
func convertSpeechResponse(
	resp *speechpb.LongRunningRecognizeResponse,
) ([]subtitle.RecognitionResult, error) {
	results := make([]subtitle.RecognitionResult, 0, len(resp.GetResults()))
	for i, r := range resp.GetResults() {
		alts := r.GetAlternatives()
		if len(alts) == 0 {
			return nil, subtitle.MalformedResult(i, "result has no alternatives")
		}

		infos := alts[0].GetWords()
		words := make([]subtitle.TimedWord, 0, len(infos))
		for j, w := range infos {
			if w.GetStartTime() == nil || w.GetEndTime() == nil {
				return nil, subtitle.MalformedWord(i, j, "word %q missing time offset", w.GetWord())
			}
			words = append(words, subtitle.TimedWord{
				Text:  w.GetWord(),
				Start: w.GetStartTime().AsDuration().Seconds(),
				End:   w.GetEndTime().AsDuration().Seconds(),
			})
		}
		results = append(results, subtitle.RecognitionResult{Words: words})
	}
	return results, nil
}
