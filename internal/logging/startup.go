package logging

import (
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// StartupLogger collects a binary's identity, the resources it talks to,
// its model selection and feature flags, and emits them as one structured
// event when startup finishes.
type StartupLogger struct {
	name         string
	version      string
	initDuration time.Duration

	resources map[string]string
	models    map[string]string
	features  map[string]bool
	config    map[string]string
}

// NewStartupLogger creates a StartupLogger for the named binary
// (e.g. "studio-lambda", "studio-web").
func NewStartupLogger(name string) *StartupLogger {
	return &StartupLogger{
		name:      name,
		resources: make(map[string]string),
		models:    make(map[string]string),
		features:  make(map[string]bool),
		config:    make(map[string]string),
	}
}

// Version sets the build version string.
func (s *StartupLogger) Version(v string) *StartupLogger {
	s.version = v
	return s
}

// S3Bucket registers the media bucket.
func (s *StartupLogger) S3Bucket(name string) *StartupLogger {
	return s.resource("s3Bucket", name)
}

// DynamoTable registers the generation history table.
func (s *StartupLogger) DynamoTable(name string) *StartupLogger {
	return s.resource("dynamoTable", name)
}

// SSMParam registers the parameter the API key is read from. Only the path
// is logged, never the value.
func (s *StartupLogger) SSMParam(path string) *StartupLogger {
	return s.resource("ssmParam", path)
}

// EventBus registers the EventBridge bus completions are published to.
func (s *StartupLogger) EventBus(name string) *StartupLogger {
	return s.resource("eventBus", name)
}

func (s *StartupLogger) resource(key, value string) *StartupLogger {
	if value != "" {
		s.resources[key] = value
	}
	return s
}

// Model registers the model used for one provider call.
func (s *StartupLogger) Model(role, id string) *StartupLogger {
	s.models[role] = id
	return s
}

// Feature registers a boolean feature flag.
func (s *StartupLogger) Feature(name string, enabled bool) *StartupLogger {
	s.features[name] = enabled
	return s
}

// Config registers a non-sensitive configuration value.
func (s *StartupLogger) Config(key, value string) *StartupLogger {
	s.config[key] = value
	return s
}

// InitDuration records how long startup took.
func (s *StartupLogger) InitDuration(d time.Duration) *StartupLogger {
	s.initDuration = d
	return s
}

// Log emits a single INFO event with everything collected.
func (s *StartupLogger) Log() {
	runtimeDict := zerolog.Dict().
		Str("name", s.name).
		Str("goVersion", runtime.Version()).
		Str("arch", runtime.GOARCH).
		Str("logLevel", zerolog.GlobalLevel().String())
	if s.version != "" {
		runtimeDict = runtimeDict.Str("version", s.version)
	}
	if fn := os.Getenv("AWS_LAMBDA_FUNCTION_NAME"); fn != "" {
		runtimeDict = runtimeDict.
			Str("functionName", fn).
			Str("region", os.Getenv("AWS_REGION")).
			Str("memoryMB", os.Getenv("AWS_LAMBDA_FUNCTION_MEMORY_SIZE"))
	}

	evt := log.Info().Dict("runtime", runtimeDict)
	if len(s.resources) > 0 {
		evt = evt.Dict("resources", dictFromMap(s.resources))
	}
	if len(s.models) > 0 {
		evt = evt.Dict("models", dictFromMap(s.models))
	}
	if len(s.features) > 0 {
		d := zerolog.Dict()
		for k, v := range s.features {
			d = d.Bool(k, v)
		}
		evt = evt.Dict("features", d)
	}
	if len(s.config) > 0 {
		evt = evt.Dict("config", dictFromMap(s.config))
	}
	if s.initDuration > 0 {
		evt = evt.Dur("initDuration", s.initDuration)
	}
	evt.Msg("Startup complete")
}

func dictFromMap(m map[string]string) *zerolog.Event {
	d := zerolog.Dict()
	for k, v := range m {
		d = d.Str(k, v)
	}
	return d
}
