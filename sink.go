package applogging

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Station-Manager/errors"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	fileStampLayout = "20060102_150405_"
	dirStampLayout  = "2006_01"
	logSubdir       = "log"
	maxNameAttempts = 1000
	bytesPerMB      = 1024 * 1024
)

// FileHandle is the live file destination returned by the sink.
type FileHandle interface {
	io.Writer
	Name() string
}

// SinkConfig describes where formatted lines go.
type SinkConfig struct {
	Destinations Destination
	// FileDir defaults to <exe-dir>/log/<yyyy_MM> when empty.
	FileDir string
	// FileNameHint replaces "<appname>(<pid>).txt" in generated names.
	FileNameHint string
	// MaxFileSizeBytes is the rotation threshold. Zero means
	// DefaultMaxFileSizeBytes.
	MaxFileSizeBytes uint32
	// Rolling keeps a stable file name and lets lumberjack rename full
	// files aside. The threshold is rounded up to whole megabytes.
	Rolling bool
}

// SinkManager owns the output configuration and the single open log
// file. All methods are safe for concurrent use.
type SinkManager struct {
	mu      sync.Mutex
	cfg     SinkConfig
	file    *os.File
	roller  *lumberjack.Logger
	lastErr error

	metrics *Metrics
	now     func() time.Time
	appDir  string
	appName string
	pid     int
}

// NewSinkManager returns a sink writing nowhere, with the default
// rotation threshold.
func NewSinkManager() *SinkManager {
	dir, name := executableIdentity()
	return &SinkManager{
		cfg:     SinkConfig{MaxFileSizeBytes: DefaultMaxFileSizeBytes},
		now:     time.Now,
		appDir:  dir,
		appName: name,
		pid:     os.Getpid(),
	}
}

func executableIdentity() (dir, name string) {
	exe, err := os.Executable()
	if err != nil || exe == emptyString {
		return ".", "app"
	}
	base := filepath.Base(exe)
	return filepath.Dir(exe), strings.TrimSuffix(base, filepath.Ext(base))
}

// Config returns a copy of the current configuration.
func (s *SinkManager) Config() SinkConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Configure replaces the configuration. When the file destination is
// switched on and no file is open, the file is created right away and a
// creation failure is returned; the destination then stays inert until a
// later rotation succeeds.
func (s *SinkManager) Configure(cfg SinkConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.configure(cfg)
}

func (s *SinkManager) configure(cfg SinkConfig) error {
	if cfg.MaxFileSizeBytes == 0 {
		cfg.MaxFileSizeBytes = DefaultMaxFileSizeBytes
	}
	prev := s.cfg
	s.cfg = cfg

	if prev.Rolling != cfg.Rolling {
		s.closeHandles()
	} else if cfg.Rolling && s.roller != nil && (prev.FileDir != cfg.FileDir ||
		prev.FileNameHint != cfg.FileNameHint || prev.MaxFileSizeBytes != cfg.MaxFileSizeBytes) {
		s.closeHandles()
	}

	if cfg.Destinations.HasFile() && !prev.Destinations.HasFile() && !s.hasOpenHandle() {
		return s.open()
	}
	return nil
}

// SetDestinations changes only the destination set.
func (s *SinkManager) SetDestinations(d Destination) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.cfg
	cfg.Destinations = d
	return s.configure(cfg)
}

func (s *SinkManager) Destinations() Destination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Destinations
}

// SetFilePath sets the file name hint and directory used by the next
// file the sink creates. An empty dir restores the default location.
func (s *SinkManager) SetFilePath(name, dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.cfg
	cfg.FileNameHint, cfg.FileDir = name, dir
	_ = s.configure(cfg)
}

func (s *SinkManager) SetMaxFileSize(n uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.cfg
	cfg.MaxFileSizeBytes = n
	_ = s.configure(cfg)
}

// AcquireFileHandle returns the open log file, creating a new one first
// when none is open or the current one has reached the size threshold.
// It returns nil when the file cannot be created.
func (s *SinkManager) AcquireFileHandle() FileHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acquire(0)
}

// acquire also rotates a non-empty file that pending more bytes would
// push past the threshold. The caller must hold the mutex.
func (s *SinkManager) acquire(pending int) FileHandle {
	if s.cfg.Rolling {
		if s.roller == nil {
			if err := s.openRoller(); err != nil {
				return nil
			}
		}
		return rollingHandle{s.roller}
	}

	if s.file == nil || s.needsRotation(pending) {
		_ = s.rotate()
	}
	if s.file == nil {
		return nil
	}
	return s.file
}

func (s *SinkManager) needsRotation(pending int) bool {
	pos, err := s.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return true
	}
	limit := int64(s.cfg.MaxFileSizeBytes)
	return pos >= limit || (pos > 0 && pos+int64(pending) > limit)
}

// writeFile writes one formatted line to the file destination.
func (s *SinkManager) writeFile(p []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.acquire(len(p))
	if h == nil {
		s.metrics.lineDropped(DestFile)
		return false
	}
	if _, err := h.Write(p); err != nil {
		s.lastErr = err
		s.metrics.lineDropped(DestFile)
		return false
	}
	s.metrics.lineWritten(DestFile)
	return true
}

func (s *SinkManager) open() error {
	if s.cfg.Rolling {
		return s.openRoller()
	}
	return s.rotate()
}

// rotate closes the current file, then creates the next one. On failure
// the sink is left without a file.
func (s *SinkManager) rotate() error {
	const op errors.Op = "applogging.SinkManager.rotate"

	if s.file != nil {
		if err := s.file.Close(); err != nil {
			s.lastErr = errors.New(op).Err(err).Msg(errMsgLogFileClose)
		}
		s.file = nil
	}

	now := s.now()
	dir := s.logDir(now)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.lastErr = errors.New(op).Err(err).Msg(errMsgLogDirCreate)
		return s.lastErr
	}

	name := now.Format(fileStampLayout)
	if s.cfg.FileNameHint != emptyString {
		name += s.cfg.FileNameHint
	} else {
		name += s.appName + "(" + strconv.Itoa(s.pid) + ").txt"
	}

	f, err := createUnique(filepath.Join(dir, name))
	if err != nil {
		s.lastErr = errors.New(op).Err(err).Msg(errMsgLogFileCreate)
		return s.lastErr
	}
	s.file = f
	s.metrics.rotated()
	return nil
}

func (s *SinkManager) logDir(now time.Time) string {
	if s.cfg.FileDir != emptyString {
		return s.cfg.FileDir
	}
	return filepath.Join(s.appDir, logSubdir, now.Format(dirStampLayout))
}

// createUnique creates path exclusively. Files created within the same
// second get _1, _2, ... before the extension instead of truncating the
// earlier file.
func createUnique(path string) (*os.File, error) {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	candidate := path
	for i := 1; ; i++ {
		f, err := os.OpenFile(candidate, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil || !os.IsExist(err) || i >= maxNameAttempts {
			return f, err
		}
		candidate = stem + "_" + strconv.Itoa(i) + ext
	}
}

func (s *SinkManager) openRoller() error {
	const op errors.Op = "applogging.SinkManager.openRoller"

	dir := s.logDir(s.now())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.lastErr = errors.New(op).Err(err).Msg(errMsgLogDirCreate)
		return s.lastErr
	}

	name := s.cfg.FileNameHint
	if name == emptyString {
		name = s.appName + ".log"
	}
	mb := int((int64(s.cfg.MaxFileSizeBytes) + bytesPerMB - 1) / bytesPerMB)
	if mb < 1 {
		mb = 1
	}
	roller := &lumberjack.Logger{
		Filename:  filepath.Join(dir, name),
		MaxSize:   mb,
		LocalTime: true,
	}
	// A zero-length write makes lumberjack open the file now.
	if _, err := roller.Write(nil); err != nil {
		s.lastErr = errors.New(op).Err(err).Msg(errMsgLogFileCreate)
		return s.lastErr
	}
	s.roller = roller
	s.metrics.rotated()
	return nil
}

func (s *SinkManager) hasOpenHandle() bool {
	return s.file != nil || s.roller != nil
}

func (s *SinkManager) closeHandles() error {
	const op errors.Op = "applogging.SinkManager.closeHandles"

	var err error
	if s.file != nil {
		if cerr := s.file.Close(); cerr != nil {
			err = errors.New(op).Err(cerr).Msg(errMsgLogFileClose)
		}
		s.file = nil
	}
	if s.roller != nil {
		if cerr := s.roller.Close(); cerr != nil {
			err = errors.New(op).Err(cerr).Msg(errMsgRollerClose)
		}
		s.roller = nil
	}
	return err
}

// CurrentFileName returns the path of the open log file, or "".
func (s *SinkManager) CurrentFileName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.file != nil:
		return s.file.Name()
	case s.roller != nil:
		return s.roller.Filename
	}
	return emptyString
}

// LastError returns the most recent file error the sink absorbed.
func (s *SinkManager) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Close closes the open file. The sink reopens on the next write.
func (s *SinkManager) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeHandles()
}

// rollingHandle adapts lumberjack to FileHandle.
type rollingHandle struct {
	*lumberjack.Logger
}

func (h rollingHandle) Name() string {
	return h.Filename
}
