package infrastructure

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/djdeck-go/pkg/workerpool"
)

// MediaEntry is the subset of yt-dlp's JSON output the adapters
// consume. yt-dlp emits the same shape for SoundCloud and YouTube
// extraction, so both adapters share it.
type MediaEntry struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Uploader    string           `json:"uploader"`
	Channel     string           `json:"channel"`
	Duration    float64          `json:"duration"`
	WebpageURL  string           `json:"webpage_url"`
	URL         string           `json:"url"`
	OriginalURL string           `json:"original_url"`
	Genre       string           `json:"genre"`
	Thumbnail   string           `json:"thumbnail"`
	Thumbnails  []MediaThumbnail `json:"thumbnails"`
}

// MediaThumbnail is one artwork variant reported by yt-dlp.
type MediaThumbnail struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// MediaRunner abstracts the external extraction tool so adapters can
// be exercised without spawning processes.
type MediaRunner interface {
	// ExtractFlat resolves a search target (e.g. "scsearch5:query")
	// into entries without downloading.
	ExtractFlat(ctx context.Context, target string) ([]MediaEntry, error)

	// Extract resolves a single URL into its entry.
	Extract(ctx context.Context, target string) (*MediaEntry, error)

	// DownloadAudio fetches the target and extracts mp3 audio to
	// basePath + ".<ext>".
	DownloadAudio(ctx context.Context, target, basePath string) error
}

// YTDLPRunner shells out to yt-dlp. Every invocation is submitted to
// the worker pool so a burst of fan-out searches cannot spawn an
// unbounded number of subprocesses, and is bound to the caller's
// context via exec.CommandContext.
type YTDLPRunner struct {
	binary string
	pool   *workerpool.Pool
	logger *zap.Logger
}

// NewYTDLPRunner creates a runner for the given yt-dlp binary.
func NewYTDLPRunner(binary string, pool *workerpool.Pool, logger *zap.Logger) *YTDLPRunner {
	if binary == "" {
		binary = "yt-dlp"
	}
	return &YTDLPRunner{binary: binary, pool: pool, logger: logger}
}

// ExtractFlat runs a flat-playlist extraction and parses one JSON
// entry per output line.
func (r *YTDLPRunner) ExtractFlat(ctx context.Context, target string) ([]MediaEntry, error) {
	args := []string{
		"--dump-json",
		"--flat-playlist",
		"--no-warnings",
		"--ignore-errors",
		"--quiet",
		target,
	}

	out, err := r.run(ctx, args)
	if err != nil {
		return nil, err
	}
	return parseEntryLines(out)
}

// Extract runs a single-target extraction.
func (r *YTDLPRunner) Extract(ctx context.Context, target string) (*MediaEntry, error) {
	args := []string{
		"--dump-json",
		"--no-warnings",
		"--no-playlist",
		"--quiet",
		target,
	}

	out, err := r.run(ctx, args)
	if err != nil {
		return nil, err
	}

	var entry MediaEntry
	if err := json.Unmarshal(bytes.TrimSpace(out), &entry); err != nil {
		return nil, fmt.Errorf("parse yt-dlp output: %w", err)
	}
	return &entry, nil
}

// DownloadAudio fetches best audio and converts to 320k mp3 at
// basePath.<ext>.
func (r *YTDLPRunner) DownloadAudio(ctx context.Context, target, basePath string) error {
	args := []string{
		"--format", "bestaudio/best",
		"--extract-audio",
		"--audio-format", "mp3",
		"--audio-quality", "320K",
		"--no-warnings",
		"--no-playlist",
		"--output", basePath + ".%(ext)s",
		target,
	}

	_, err := r.run(ctx, args)
	return err
}

// run executes yt-dlp under a pool slot and returns stdout. stderr is
// captured separately and carried in the error on failure.
func (r *YTDLPRunner) run(ctx context.Context, args []string) ([]byte, error) {
	var stdout, stderr bytes.Buffer

	err := r.pool.Do(ctx, func() error {
		r.logger.Debug("running yt-dlp",
			zap.String("cmd", commandLine(r.binary, args)))

		cmd := exec.CommandContext(ctx, r.binary, args...)
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		return cmd.Run()
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		msg := bytes.TrimSpace(stderr.Bytes())
		if len(msg) > 0 {
			return nil, fmt.Errorf("yt-dlp: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("yt-dlp: %w", err)
	}
	return stdout.Bytes(), nil
}

// commandLine renders an invocation as a copy-pastable shell line for
// debug logs. exec.Command itself needs no quoting.
func commandLine(binary string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	for _, p := range append([]string{binary}, args...) {
		parts = append(parts, shellQuote(p))
	}
	return strings.Join(parts, " ")
}

// shellChars are the characters that force quoting.
const shellChars = " \t\n\r'\"$`\\!*?[](){}|;<>&~#%"

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, shellChars) {
		return s
	}
	// Single quotes pass everything literally except a single quote,
	// which is closed, quoted, and reopened.
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// parseEntryLines decodes newline-delimited JSON entries, skipping
// lines that do not parse (yt-dlp interleaves them when
// --ignore-errors is set).
func parseEntryLines(out []byte) ([]MediaEntry, error) {
	var entries []MediaEntry

	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var entry MediaEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan yt-dlp output: %w", err)
	}
	return entries, nil
}
