package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"guardian/internal/assistant"
	"guardian/internal/audio"
	"guardian/internal/bus"
	"guardian/internal/config"
	"guardian/internal/ipc"
	"guardian/internal/llm"
	"guardian/internal/logging"
	"guardian/internal/notify"
	"guardian/internal/proxy"
	"guardian/internal/stt"
	"guardian/internal/tools"
	"guardian/internal/tts"
	"guardian/pkg/audioconv"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logs := logging.Setup(cfg.LogLevel, cfg.LogFile)
	defer logs.Close()

	if err := run(cfg); err != nil {
		log.Error("Guardian stopped", "err", err)
		logs.Close()
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	log.Info("Booting up", "name", cfg.Name)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient, err := proxy.NewHTTPClient(cfg.Proxy, 0)
	if err != nil {
		return err
	}

	client := llm.New(llm.Config{
		URL:        cfg.OllamaURL,
		Timeout:    cfg.RequestTimeout,
		MaxRetries: 1,
	}, httpClient)

	if !cfg.SkipModelCheck {
		if err := checkModels(ctx, client, cfg.Models()); err != nil {
			return err
		}
	}

	reg := tools.NewRegistry()
	if err := tools.Builtins(reg, cfg.ScreenshotDir); err != nil {
		return err
	}

	engine, closeEngine := speechEngine(cfg)
	defer closeEngine()

	speaker := tts.NewSpeaker(engine, cfg.Name, os.Stdout)
	defer speaker.Close()

	notifier := notify.New(notify.Config{
		AppName: cfg.Name,
		Chime:   cfg.Chime,
		Desktop: cfg.Notify,
	})

	var events *bus.Bus
	if cfg.Bus != "" {
		if events, err = bus.Dial(cfg.Bus); err != nil {
			log.Warn("Bus unavailable, continuing without it", "url", cfg.Bus, "err", err)
		} else {
			defer events.Close()
		}
	}

	publish := func(kind, id, content string) {
		if kind == "reply" {
			notifier.Reply(content)
		}
		if events == nil {
			return
		}
		if err := events.Publish(kind, id, content); err != nil {
			log.Warn("Failed to publish event", "kind", kind, "err", err)
		}
	}

	var recognizer stt.Recognizer
	if !cfg.Text {
		recognizer, err = stt.New(stt.Config{
			Engine:    stt.Engine(cfg.STTEngine),
			ModelPath: cfg.STTModel,
			Whisper: stt.WhisperOptions{
				Language:      cfg.Language,
				InitialPrompt: cfg.WakeWord,
			},
		})
		if err != nil {
			return fmt.Errorf("load %s model %s: %w", cfg.STTEngine, cfg.STTModel, err)
		}
		defer recognizer.Close()
		log.Debug("Loaded recognizer", "engine", recognizer.Name())
	}

	asstCfg := assistant.Config{
		Name:     cfg.Name,
		WakeWord: cfg.WakeWord,
		Models: assistant.Models{
			Fast:   cfg.FastModel,
			Smart:  cfg.SmartModel,
			Vision: cfg.VisionModel,
		},
		MaxHistory: cfg.MaxHistory,
		Publish:    publish,
		Awake:      notifier.Listening,
	}

	if cfg.File != "" {
		a := assistant.New(asstCfg, client, nil, speaker, reg)
		return answerFile(ctx, a, recognizer, cfg)
	}

	var listener assistant.Listener
	if cfg.Text {
		listener = stt.NewConsoleListener(os.Stdin, os.Stdout)
	} else {
		rec := audio.NewRecorder()
		if err := rec.Init(); err != nil {
			return fmt.Errorf("init audio: %w", err)
		}
		defer rec.Close()

		listener = &stt.MicListener{
			Capture:    rec,
			Recognizer: recognizer,
			Options: audio.ListenOptions{
				Timeout:     cfg.ListenTimeout,
				PhraseLimit: cfg.PhraseLimit,
			},
		}
	}

	a := assistant.New(asstCfg, client, listener, speaker, reg)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv, err := ipc.StartServer(cfg.Socket, control(ctx, cancel, a))
	if err != nil {
		log.Warn("Control socket unavailable", "path", cfg.Socket, "err", err)
	} else {
		defer srv.Close()
	}

	log.Info("Boot up - successful")

	err = a.Run(ctx)
	switch {
	case err == nil, errors.Is(err, io.EOF), errors.Is(err, context.Canceled):
		log.Info("Shutting down")
		return nil
	default:
		return err
	}
}

func checkModels(ctx context.Context, client *llm.Client, want []string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	missing, err := client.Missing(ctx, want...)
	if err != nil {
		log.Warn("Could not list models, is Ollama running?", "err", err)
		return nil
	}
	if len(missing) == 0 {
		log.Debug("Models present", "models", want)
		return nil
	}

	for _, m := range missing {
		log.Error("Model not pulled", "model", m, "hint", "ollama pull "+m)
	}
	return fmt.Errorf("missing models: %s", strings.Join(missing, ", "))
}

// speechEngine falls back to printing only when espeak-ng cannot start.
func speechEngine(cfg config.Config) (tts.Engine, func()) {
	if cfg.Mute {
		return tts.Mute{}, func() {}
	}

	es, err := tts.NewEspeak(cfg.TTSVoice, cfg.TTSRate)
	if err != nil {
		log.Warn("Speech output unavailable, printing replies only", "err", err)
		return tts.Mute{}, func() {}
	}
	return es, func() { es.Close() }
}

func control(ctx context.Context, cancel context.CancelFunc, a *assistant.Assistant) ipc.Handler {
	return func(msg ipc.ControlMessage) error {
		log.Debug("Control message", "cmd", msg.Cmd)

		switch msg.Cmd {
		case ipc.CmdTrigger:
			a.Trigger()
		case ipc.CmdAsk:
			if strings.TrimSpace(msg.Text) == "" {
				return errors.New("ask needs text")
			}
			a.Ask(ctx, msg.Text)
		case ipc.CmdSay:
			a.Say(msg.Text)
		case ipc.CmdStop:
			cancel()
		default:
			return fmt.Errorf("unknown command %q", msg.Cmd)
		}
		return nil
	}
}

// answerFile runs a recorded utterance through the pipeline once.
func answerFile(ctx context.Context, a *assistant.Assistant, rec stt.Recognizer, cfg config.Config) error {
	pcm, err := audioconv.ConvertFileToPCM16k(ctx, cfg.File, audioconv.Options{
		MaxSamples: int(cfg.PhraseLimit.Seconds() * audioconv.TargetRate),
	})
	if err != nil {
		return err
	}

	text, err := rec.Transcribe(ctx, pcm)
	if err != nil {
		return fmt.Errorf("transcribe %s: %w", cfg.File, err)
	}
	text = strings.ToLower(strings.TrimSpace(text))
	log.Info("Heard", "text", text)

	if command, ok := assistant.ExtractCommand(text, cfg.WakeWord); ok {
		text = command
	}
	if text == "" {
		return errors.New("no speech in " + cfg.File)
	}

	a.Ask(ctx, text)
	a.Wait()
	return nil
}
