package config

import "sync"

// SectionIDSpeech is the identifier for the dictation section.
const SectionIDSpeech = "speech"

// SpeechSection names the external transcriber used for dictation. An empty
// command leaves dictation unavailable.
type SpeechSection struct {
	Command string
	Args    []string
	mu      sync.RWMutex
}

func NewSpeechSection() *SpeechSection {
	return &SpeechSection{}
}

func (s *SpeechSection) ID() string    { return SectionIDSpeech }
func (s *SpeechSection) Title() string { return "Dictation" }

func (s *SpeechSection) Description() string {
	return "Streaming transcriber for dictation. command must print one JSON object per line with text, final and error fields."
}

func (s *SpeechSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	args := make([]any, len(s.Args))
	for i, a := range s.Args {
		args[i] = a
	}
	return map[string]any{
		"command": s.Command,
		"args":    args,
	}
}

func (s *SpeechSection) SetData(data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if command, ok := data["command"].(string); ok {
		s.Command = command
	}
	switch args := data["args"].(type) {
	case []any:
		s.Args = s.Args[:0]
		for _, a := range args {
			if str, ok := a.(string); ok {
				s.Args = append(s.Args, str)
			}
		}
	case []string:
		s.Args = append([]string(nil), args...)
	}
	return nil
}

func (s *SpeechSection) Validate() error { return nil }

func (s *SpeechSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Command = ""
	s.Args = nil
}

// Settings returns the command and a copy of its arguments.
func (s *SpeechSection) Settings() (string, []string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Command, append([]string(nil), s.Args...)
}
