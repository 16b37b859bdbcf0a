package speech

import (
	"os/exec"

	"github.com/entrhq/nebula/pkg/logging"
)

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// Detect returns a Command transcriber when program resolves on PATH and
// Unavailable otherwise. An empty program means dictation is not configured.
func Detect(program string, args []string, logger *logging.Logger) Transcriber {
	if logger == nil {
		logger = logging.Discard("speech")
	}
	if program == "" {
		logger.Infof("no transcriber configured, dictation disabled")
		return NewUnavailable()
	}
	resolved, err := lookPath(program)
	if err != nil {
		logger.Warnf("transcriber %q not found, dictation disabled: %v", program, err)
		return NewUnavailable()
	}
	return NewCommand(resolved, args, logger)
}
