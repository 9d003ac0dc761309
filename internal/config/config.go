// Package config assembles Guardian's settings from defaults, an env file,
// the environment and command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"guardian/internal/assistant"
	"guardian/internal/ipc"
	"guardian/internal/llm"
	"guardian/internal/stt"
	"guardian/internal/tts"
)

const envPrefix = "GUARDIAN_"

type Config struct {
	EnvFile  string
	LogLevel string
	LogFile  string

	OllamaURL      string
	Proxy          string
	RequestTimeout time.Duration
	SkipModelCheck bool

	Name        string
	WakeWord    string
	FastModel   string
	SmartModel  string
	VisionModel string
	MaxHistory  int

	STTEngine     string
	STTModel      string
	Language      string
	ListenTimeout time.Duration
	PhraseLimit   time.Duration

	TTSVoice string
	TTSRate  int
	Mute     bool

	Text bool
	File string

	Bus           string
	Chime         string
	Notify        bool
	ScreenshotDir string
	Socket        string
}

func defaults() Config {
	return Config{
		EnvFile:        ".env",
		LogLevel:       "info",
		OllamaURL:      llm.DefaultURL,
		RequestTimeout: llm.DefaultTimeout,
		Name:           assistant.DefaultName,
		WakeWord:       assistant.DefaultWakeWord,
		FastModel:      assistant.DefaultFastModel,
		SmartModel:     assistant.DefaultSmartModel,
		VisionModel:    assistant.DefaultVisionModel,
		MaxHistory:     assistant.DefaultMaxHistory,
		STTEngine:      string(stt.EngineWhisper),
		STTModel:       "models/ggml-base.en.bin",
		Language:       "en",
		ListenTimeout:  10 * time.Second,
		PhraseLimit:    10 * time.Second,
		TTSVoice:       tts.DefaultVoice,
		TTSRate:        tts.DefaultRate,
		Socket:         ipc.SocketPath,
	}
}

// Load parses args (without the program name). getenv is usually os.Getenv.
func Load(args []string, getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := defaults()

	// The env file location is itself a flag, find it before anything else.
	pre := cli.NewFlagSet("pre", cli.ContinueOnError)
	pre.ParseErrorsWhitelist.UnknownFlags = true
	pre.Usage = func() {}
	pre.SetOutput(io.Discard)
	envFile := pre.StringP("env", "e", cfg.EnvFile, "")
	_ = pre.Parse(args)

	fileEnv, err := godotenv.Read(*envFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read env file %s: %w", *envFile, err)
	}
	lookup := func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return fileEnv[key]
	}

	if err := applyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}
	cfg.EnvFile = *envFile

	fs := cli.NewFlagSet("guardian", cli.ContinueOnError)
	fs.SortFlags = false
	bindFlags(fs, &cfg)

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	return cfg, cfg.validate()
}

func bindFlags(fs *cli.FlagSet, c *Config) {
	fs.StringVarP(&c.EnvFile, "env", "e", c.EnvFile, "Env file path")
	fs.StringVarP(&c.LogLevel, "log", "l", c.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "Also write JSON logs to this rotated file")

	fs.StringVar(&c.OllamaURL, "ollama", c.OllamaURL, "Ollama base URL")
	fs.StringVarP(&c.Proxy, "proxy", "p", c.Proxy, "SOCKS5 proxy for reaching Ollama")
	fs.DurationVar(&c.RequestTimeout, "timeout", c.RequestTimeout, "Per-request model timeout")
	fs.BoolVar(&c.SkipModelCheck, "skip-model-check", c.SkipModelCheck, "Do not check pulled models at boot")

	fs.StringVar(&c.Name, "name", c.Name, "Assistant name used in the persona and console")
	fs.StringVarP(&c.WakeWord, "wake-word", "w", c.WakeWord, "Wake word")
	fs.StringVar(&c.FastModel, "fast-model", c.FastModel, "Model for routing and simple queries")
	fs.StringVar(&c.SmartModel, "smart-model", c.SmartModel, "Model for complex queries")
	fs.StringVar(&c.VisionModel, "vision-model", c.VisionModel, "Model for describing images")
	fs.IntVar(&c.MaxHistory, "max-history", c.MaxHistory, "Conversation messages sent to the model")

	fs.StringVar(&c.STTEngine, "stt", c.STTEngine, "Speech recognition engine (whisper, vosk)")
	fs.StringVar(&c.STTModel, "stt-model", c.STTModel, "Speech recognition model path")
	fs.StringVar(&c.Language, "language", c.Language, "Speech language, or auto")
	fs.DurationVar(&c.ListenTimeout, "listen-timeout", c.ListenTimeout, "Wait this long for speech to start")
	fs.DurationVar(&c.PhraseLimit, "phrase-limit", c.PhraseLimit, "Longest phrase recorded")

	fs.StringVar(&c.TTSVoice, "tts-voice", c.TTSVoice, "espeak-ng voice")
	fs.IntVar(&c.TTSRate, "tts-rate", c.TTSRate, "Speech rate in words per minute")
	fs.BoolVar(&c.Mute, "mute", c.Mute, "Print replies without speaking them")

	fs.BoolVarP(&c.Text, "text", "t", c.Text, "Read commands from stdin instead of the microphone")
	fs.StringVarP(&c.File, "file", "f", c.File, "Answer a single recorded command (wav, mp3, ogg) and exit")

	fs.StringVar(&c.Bus, "bus", c.Bus, "Websocket hub to mirror transcripts and replies to")
	fs.StringVar(&c.Chime, "beep", c.Chime, "mp3 played when Guardian starts listening")
	fs.BoolVar(&c.Notify, "notify", c.Notify, "Show desktop notifications")
	fs.StringVar(&c.ScreenshotDir, "screenshot-dir", c.ScreenshotDir, "Where take_screenshot writes")
	fs.StringVar(&c.Socket, "socket", c.Socket, "Control socket path")
}

func applyEnv(c *Config, get func(string) string) error {
	str := func(dst *string, key string) {
		if v := get(envPrefix + key); v != "" {
			*dst = v
		}
	}
	var errs []error
	dur := func(dst *time.Duration, key string) {
		if v := get(envPrefix + key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
				return
			}
			*dst = d
		}
	}
	num := func(dst *int, key string) {
		if v := get(envPrefix + key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	flag := func(dst *bool, key string) {
		if v := get(envPrefix + key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
				return
			}
			*dst = b
		}
	}

	if host := get("OLLAMA_HOST"); host != "" {
		c.OllamaURL = normalizeHost(host)
	}

	str(&c.LogLevel, "LOG")
	str(&c.LogFile, "LOG_FILE")
	str(&c.OllamaURL, "OLLAMA")
	str(&c.Proxy, "PROXY")
	dur(&c.RequestTimeout, "TIMEOUT")
	str(&c.Name, "NAME")
	str(&c.WakeWord, "WAKE_WORD")
	str(&c.FastModel, "FAST_MODEL")
	str(&c.SmartModel, "SMART_MODEL")
	str(&c.VisionModel, "VISION_MODEL")
	num(&c.MaxHistory, "MAX_HISTORY")
	str(&c.STTEngine, "STT")
	str(&c.STTModel, "STT_MODEL")
	str(&c.Language, "LANGUAGE")
	dur(&c.ListenTimeout, "LISTEN_TIMEOUT")
	dur(&c.PhraseLimit, "PHRASE_LIMIT")
	str(&c.TTSVoice, "TTS_VOICE")
	num(&c.TTSRate, "TTS_RATE")
	flag(&c.Mute, "MUTE")
	str(&c.Bus, "BUS")
	str(&c.Chime, "BEEP")
	flag(&c.Notify, "NOTIFY")
	str(&c.ScreenshotDir, "SCREENSHOT_DIR")
	str(&c.Socket, "SOCKET")

	return errors.Join(errs...)
}

// normalizeHost accepts OLLAMA_HOST in the forms ollama itself does.
func normalizeHost(h string) string {
	h = strings.TrimSpace(h)
	if !strings.Contains(h, "://") {
		h = "http://" + h
	}
	scheme, rest, _ := strings.Cut(h, "://")
	if strings.HasPrefix(rest, "0.0.0.0") {
		rest = "127.0.0.1" + strings.TrimPrefix(rest, "0.0.0.0")
	}
	if !strings.Contains(rest, ":") {
		rest += ":11434"
	}
	return scheme + "://" + strings.TrimRight(rest, "/")
}

func (c Config) validate() error {
	switch {
	case strings.TrimSpace(c.WakeWord) == "":
		return errors.New("wake word must not be empty")
	case c.MaxHistory <= 0:
		return errors.New("max-history must be positive")
	case c.TTSRate <= 0:
		return errors.New("tts-rate must be positive")
	case c.Text && c.File != "":
		return errors.New("--text and --file are exclusive")
	}
	switch stt.Engine(c.STTEngine) {
	case stt.EngineWhisper, stt.EngineVosk:
	default:
		return fmt.Errorf("unknown stt engine %q", c.STTEngine)
	}
	return nil
}

// Models lists the model identifiers Guardian needs pulled.
func (c Config) Models() []string {
	return []string{c.FastModel, c.SmartModel, c.VisionModel}
}
