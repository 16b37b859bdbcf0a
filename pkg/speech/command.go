package speech

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/entrhq/nebula/pkg/logging"
)

// Command runs an external transcriber that prints one JSON object per line
// on stdout:
//
//	{"text": "call mom", "final": true}
//
// Lines with "final": false are interim results. A line with a non-empty
// "error" field ends the session with EventError. Process exit ends it with
// EventEnded, or EventError when the process failed.
type Command struct {
	name   string
	args   []string
	logger *logging.Logger
	events chan Event

	mu      sync.Mutex
	cmd     *exec.Cmd
	cancel  context.CancelFunc
	stopped bool
}

type transcriptLine struct {
	Text  string `json:"text"`
	Final bool   `json:"final"`
	Error string `json:"error,omitempty"`
}

// NewCommand creates a transcriber around the program name with args.
func NewCommand(name string, args []string, logger *logging.Logger) *Command {
	if logger == nil {
		logger = logging.Discard("speech")
	}
	return &Command{
		name:   name,
		args:   append([]string(nil), args...),
		logger: logger,
		events: make(chan Event, 16),
	}
}

// Available reports true; Detect only builds a Command after finding the program.
func (c *Command) Available() bool { return true }

// Events returns the event stream.
func (c *Command) Events() <-chan Event { return c.events }

// Start launches the program. Starting while a session runs is an error.
func (c *Command) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cmd != nil {
		return fmt.Errorf("speech: session already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(runCtx, c.name, c.args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return fmt.Errorf("speech: failed to open stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("speech: failed to start %s: %w", c.name, err)
	}

	c.cmd = cmd
	c.cancel = cancel
	c.stopped = false
	c.logger.Infof("transcriber %s started (pid %d)", c.name, cmd.Process.Pid)

	go c.run(cmd, stdout)
	return nil
}

// Stop terminates the running program. EventEnded follows once it exits.
func (c *Command) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cmd == nil {
		return nil
	}
	c.stopped = true
	c.cancel()
	return nil
}

func (c *Command) run(cmd *exec.Cmd, stdout io.Reader) {
	failure := c.scan(stdout)
	if failure != nil {
		c.mu.Lock()
		c.cancel()
		c.mu.Unlock()
	}
	waitErr := cmd.Wait()

	c.mu.Lock()
	stopped := c.stopped
	c.cmd = nil
	c.cancel = nil
	c.mu.Unlock()

	switch {
	case failure != nil:
		c.logger.Errorf("transcriber reported: %v", failure)
		c.events <- Event{Kind: EventError, Err: failure}
	case waitErr != nil && !stopped:
		c.logger.Errorf("transcriber exited: %v", waitErr)
		c.events <- Event{Kind: EventError, Err: waitErr}
	default:
		c.logger.Infof("transcriber ended")
		c.events <- Event{Kind: EventEnded}
	}
}

// scan forwards transcript lines until EOF or an error line.
func (c *Command) scan(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var tl transcriptLine
		if err := json.Unmarshal([]byte(line), &tl); err != nil {
			c.logger.Debugf("skipping malformed transcriber line: %q", line)
			continue
		}
		if tl.Error != "" {
			return fmt.Errorf("speech: %s", tl.Error)
		}
		if tl.Text == "" {
			continue
		}
		kind := EventInterim
		if tl.Final {
			kind = EventFinal
		}
		c.events <- Event{Kind: kind, Text: tl.Text}
	}
	return nil
}
