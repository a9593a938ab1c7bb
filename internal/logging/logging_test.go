package logging

import "testing"

func TestDefaultReturnsUsableLogger(t *testing.T) {
	logger := Default("test-component")
	if logger == nil {
		t.Fatal("Default returned nil")
	}
	// Must not panic when actually logging.
	logger.Info("probe message", "k", "v")
}

func TestDefaultSharesHandlerAcrossComponents(t *testing.T) {
	Default("component-a")
	first := handler
	Default("component-b")
	if handler != first {
		t.Fatal("Default allocated a distinct handler per call, want one shared handler")
	}
}

func TestLevelFromEnvDefaultsToInfo(t *testing.T) {
	if got := levelFromEnv(); got.String() == "" {
		t.Fatal("levelFromEnv returned an unrecognized level")
	}
}
