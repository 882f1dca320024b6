//go:build linux

package logging

import (
	"bufio"
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// OutputCapture redirects process stdout/stderr at the file descriptor
// level so that output written by native code (libmpv, GL drivers) ends
// up in the structured log instead of the raw terminal.
type OutputCapture struct {
	originalStdout *os.File
	originalStderr *os.File
	stdoutRead     *os.File
	stdoutWrite    *os.File
	stderrRead     *os.File
	stderrWrite    *os.File
	logger         zerolog.Logger
	stopChan       chan struct{}
	started        bool
}

func NewOutputCapture(logger zerolog.Logger) *OutputCapture {
	return &OutputCapture{
		originalStdout: os.Stdout,
		originalStderr: os.Stderr,
		logger:         logger,
		stopChan:       make(chan struct{}),
	}
}

func (c *OutputCapture) Start() error {
	if c.started {
		return nil
	}

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return err
	}

	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		stdoutR.Close()
		stdoutW.Close()
		return err
	}

	c.stdoutRead = stdoutR
	c.stdoutWrite = stdoutW
	c.stderrRead = stderrR
	c.stderrWrite = stderrW

	os.Stdout = stdoutW
	os.Stderr = stderrW

	// Also redirect file descriptors at syscall level for C code
	if err := unix.Dup3(int(stdoutW.Fd()), 1, 0); err != nil {
		c.logger.Warn().Err(err).Msg("failed to redirect stdout")
	}
	if err := unix.Dup3(int(stderrW.Fd()), 2, 0); err != nil {
		c.logger.Warn().Err(err).Msg("failed to redirect stderr")
	}

	// The capture logger must write to the original fds, not the
	// redirected ones, or every log line would be re-captured.
	captureOut := zerolog.New(zerolog.ConsoleWriter{Out: c.originalStderr}).
		With().Timestamp().Str("component", "native").Logger().
		Level(c.logger.GetLevel())

	go c.pipeToLogger(stdoutR, captureOut, "stdout")
	go c.pipeToLogger(stderrR, captureOut, "stderr")

	c.started = true
	return nil
}

func (c *OutputCapture) Stop() {
	if !c.started {
		return
	}

	close(c.stopChan)

	os.Stdout = c.originalStdout
	os.Stderr = c.originalStderr

	if err := unix.Dup3(int(c.originalStdout.Fd()), 1, 0); err != nil {
		c.logger.Warn().Err(err).Msg("failed to restore stdout")
	}
	if err := unix.Dup3(int(c.originalStderr.Fd()), 2, 0); err != nil {
		c.logger.Warn().Err(err).Msg("failed to restore stderr")
	}

	for _, f := range []*os.File{c.stdoutWrite, c.stderrWrite, c.stdoutRead, c.stderrRead} {
		if f != nil {
			f.Close()
		}
	}

	c.started = false
}

func (c *OutputCapture) pipeToLogger(r io.Reader, logger zerolog.Logger, stream string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case <-c.stopChan:
			return
		default:
			line := scanner.Text()
			if line == "" {
				continue
			}
			logger.Info().Str("stream", stream).Msg(line)
		}
	}
}
