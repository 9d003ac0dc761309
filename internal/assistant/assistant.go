// Package assistant routes spoken queries between the local models and tools
// and runs the wake-word listen loop.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"guardian/internal/llm"
	"guardian/internal/tools"
)

const (
	DefaultFastModel   = "llama3.1:8b-instruct-q4_K_M"
	DefaultSmartModel  = "qwen2.5:32b-instruct-q4_K_M"
	DefaultVisionModel = "llama3.2-vision:11b"
	DefaultWakeWord    = "guardian"
	DefaultName        = "Guardian"
	DefaultMaxHistory  = 10

	routingTemperature = 0.1
	loopPause          = 100 * time.Millisecond
)

// Spoken fallbacks.
const (
	msgOnline        = "%s online."
	msgYes           = "Yes?"
	msgGoodbye       = "Goodbye!"
	msgThinking      = "This might take a moment."
	msgNoTool        = "I couldn't decide which tool to use."
	msgUnknownTool   = "Unknown tool requested."
	msgToolFailed    = "Tool execution failed."
	msgToolDone      = "Tool executed successfully."
	msgNoDescription = "Couldn't describe the image."
	msgNoResponse    = "No response."
	msgChatError     = "I encountered an error while thinking."
)

var DefaultExitWords = []string{"exit", "quit", "goodbye", "shutdown", "shut down"}

type Chatter interface {
	Chat(ctx context.Context, req llm.Request) (string, error)
}

// Listener returns one lower-cased utterance, or "" when nothing was heard.
type Listener interface {
	Listen(ctx context.Context) (string, error)
}

type Speaker interface {
	Say(text string)
}

type Models struct {
	Fast   string
	Smart  string
	Vision string
}

type Config struct {
	Name       string
	WakeWord   string
	Models     Models
	MaxHistory int
	ExitWords  []string

	// Publish, when set, receives transcripts and replies keyed by command id.
	Publish func(kind, id, content string)
	// Awake is called when Guardian starts waiting for a command.
	Awake func()
}

type Assistant struct {
	cfg      Config
	llm      Chatter
	listener Listener
	speaker  Speaker
	tools    *tools.Registry
	history  *History

	// turns keeps each user/assistant pair adjacent in the history.
	turns    sync.Mutex
	inflight sync.WaitGroup
	readFile func(string) ([]byte, error)

	// armed makes the next utterance a command even without the wake word.
	armed atomic.Bool
}

func New(cfg Config, chatter Chatter, listener Listener, speaker Speaker, reg *tools.Registry) *Assistant {
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	if cfg.WakeWord == "" {
		cfg.WakeWord = DefaultWakeWord
	}
	cfg.WakeWord = strings.ToLower(strings.TrimSpace(cfg.WakeWord))
	if cfg.Models.Fast == "" {
		cfg.Models.Fast = DefaultFastModel
	}
	if cfg.Models.Smart == "" {
		cfg.Models.Smart = DefaultSmartModel
	}
	if cfg.Models.Vision == "" {
		cfg.Models.Vision = DefaultVisionModel
	}
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = DefaultMaxHistory
	}
	if cfg.ExitWords == nil {
		cfg.ExitWords = DefaultExitWords
	}
	if reg == nil {
		reg = tools.NewRegistry()
	}

	return &Assistant{
		cfg:      cfg,
		llm:      chatter,
		listener: listener,
		speaker:  speaker,
		tools:    reg,
		history:  NewHistory(cfg.MaxHistory),
		readFile: os.ReadFile,
	}
}

func (a *Assistant) History() *History { return a.history }

func (a *Assistant) say(text string) {
	if text == "" || a.speaker == nil {
		return
	}
	a.speaker.Say(text)
}

func (a *Assistant) awake() {
	if a.cfg.Awake != nil {
		a.cfg.Awake()
	}
	a.say(msgYes)
}

func (a *Assistant) publish(kind, id, content string) {
	if a.cfg.Publish != nil {
		a.cfg.Publish(kind, id, content)
	}
}

// route runs a short low-temperature request on the fast model.
func (a *Assistant) route(ctx context.Context, system, query string) (string, error) {
	return a.llm.Chat(ctx, llm.Request{
		Model: a.cfg.Models.Fast,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: query},
		},
		Temperature: llm.Temperature(routingTemperature),
	})
}

func (a *Assistant) Classify(ctx context.Context, query string) Class {
	out, err := a.route(ctx, classifyPrompt, query)
	if err != nil {
		log.Error("Classification failed", "err", err)
		return ClassSimple
	}
	return ParseClass(out)
}

// SelectTool returns the registered tool the fast model picked, or "".
func (a *Assistant) SelectTool(ctx context.Context, query string) string {
	out, err := a.route(ctx, selectToolPrompt(a.tools.Names()), query)
	if err != nil {
		log.Error("Tool selection failed", "err", err)
		return ""
	}

	name := strings.ToLower(strings.Trim(strings.TrimSpace(out), "'\"`."))
	if a.tools.Has(name) {
		return name
	}

	log.Warn("Model picked unknown tool", "answer", out)
	return ""
}

func (a *Assistant) SelectToolArgs(ctx context.Context, query, name string) tools.Args {
	tool, ok := a.tools.Get(name)
	if !ok {
		return tools.Args{}
	}

	out, err := a.route(ctx, toolArgsPrompt(name, tool.Params), query)
	if err != nil {
		log.Error("Tool argument selection failed", "tool", name, "err", err)
		return tools.Args{}
	}

	return parseArgs(out, tool.Params)
}

func parseArgs(raw string, params []string) tools.Args {
	raw = stripFence(strings.TrimSpace(raw))

	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err == nil && obj != nil {
		return obj
	}

	if len(params) != 1 {
		return tools.Args{}
	}

	var s string
	if err := json.Unmarshal([]byte(raw), &s); err == nil {
		raw = s
	}
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "{}" {
		return tools.Args{}
	}
	return tools.Args{params[0]: raw}
}

// stripFence removes a markdown code fence some models wrap JSON in.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func (a *Assistant) ExecuteTool(ctx context.Context, name string, args tools.Args) string {
	tool, ok := a.tools.Get(name)
	if !ok {
		return msgUnknownTool
	}

	res, err := tool.Run(ctx, args)
	if err != nil {
		log.Error("Tool execution error", "tool", name, "err", err)
		return msgToolFailed
	}

	if res.ImagePath != "" {
		return a.DescribeImage(ctx, res.ImagePath)
	}
	if res.Text == "" {
		return msgToolDone
	}
	return res.Text
}

func (a *Assistant) DescribeImage(ctx context.Context, path string) string {
	data, err := a.readFile(path)
	if err != nil {
		log.Error("Image description failed", "path", path, "err", err)
		return msgNoDescription
	}

	out, err := a.llm.Chat(ctx, llm.Request{
		Model: a.cfg.Models.Vision,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: describeSystem},
			{Role: llm.RoleUser, Content: describeUser},
		},
		Images: [][]byte{data},
	})
	if err != nil {
		log.Error("Image description failed", "path", path, "err", err)
		return msgNoDescription
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return msgNoDescription
	}
	return out
}

// Chat answers query with model, keeping the exchange in the history.
func (a *Assistant) Chat(ctx context.Context, query, model string) string {
	if model == "" {
		model = a.cfg.Models.Fast
	}

	a.turns.Lock()
	defer a.turns.Unlock()

	seq := a.history.Add(llm.RoleUser, query)

	msgs := append([]llm.Message{{
		Role:    llm.RoleSystem,
		Content: fmt.Sprintf(personaPrompt, a.cfg.Name),
	}}, a.history.Window()...)

	out, err := a.llm.Chat(ctx, llm.Request{Model: model, Messages: msgs})
	if err != nil {
		log.Error("Chat error", "model", model, "err", err)
		a.history.Remove(seq)
		return msgChatError
	}

	reply := strings.TrimSpace(out)
	a.history.Add(llm.RoleAssistant, reply)

	if reply == "" {
		return msgNoResponse
	}
	return reply
}

// HandleQuery classifies query and answers it with the right model or tool.
func (a *Assistant) HandleQuery(ctx context.Context, query string) string {
	class := a.Classify(ctx, query)
	log.Info("Classified", "class", class, "query", query)

	switch class {
	case ClassTool:
		name := a.SelectTool(ctx, query)
		if name == "" {
			return msgNoTool
		}

		args := tools.Args{}
		tool, _ := a.tools.Get(name)
		if len(tool.Params) > 0 {
			args = a.SelectToolArgs(ctx, query, name)
			// A single-parameter tool falls back to the whole query.
			if len(tool.Params) == 1 && args.String(tool.Params[0]) == "" {
				args[tool.Params[0]] = query
			}
		}

		log.Info("Running tool", "tool", name, "args", args)
		return a.ExecuteTool(ctx, name, args)

	case ClassComplex:
		a.say(msgThinking)
		return a.Chat(ctx, query, a.cfg.Models.Smart)

	default:
		return a.Chat(ctx, query, a.cfg.Models.Fast)
	}
}

// Ask processes a typed command in the background as if it had been spoken.
func (a *Assistant) Ask(ctx context.Context, command string) {
	command = strings.TrimSpace(command)
	if command == "" {
		return
	}
	a.dispatch(ctx, command)
}

// Say speaks text directly.
func (a *Assistant) Say(text string) { a.say(text) }

// Trigger arms the running loop so the next thing heard is taken as a
// command without the wake word.
func (a *Assistant) Trigger() {
	a.armed.Store(true)
	a.awake()
}

func (a *Assistant) dispatch(ctx context.Context, command string) {
	id := uuid.NewString()
	a.publish("transcript", id, command)

	a.inflight.Add(1)
	go func() {
		defer a.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Error("Command processing failed", "id", id, "panic", r)
			}
		}()

		log.Info("Processing command", "id", id, "command", command)
		start := time.Now()

		reply := a.HandleQuery(ctx, command)
		log.Info("Replied", "id", id, "took", time.Since(start).Round(time.Millisecond))

		a.publish("reply", id, reply)
		a.say(reply)
	}()
}

// Wait blocks until every dispatched command has finished.
func (a *Assistant) Wait() { a.inflight.Wait() }

// Run listens for the wake word until ctx is cancelled or an exit word is heard.
func (a *Assistant) Run(ctx context.Context) error {
	defer a.inflight.Wait()

	a.say(fmt.Sprintf(msgOnline, a.cfg.Name))
	log.Info("Ready", "wake_word", a.cfg.WakeWord)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		done, err := a.step(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(loopPause):
		}
	}
}

// step handles one utterance. It reports true once an exit word was heard.
func (a *Assistant) step(ctx context.Context) (bool, error) {
	text, err := a.listen(ctx)
	if err != nil {
		return false, err
	}

	if text == "" {
		return false, nil
	}

	command, ok := ExtractCommand(text, a.cfg.WakeWord)
	if a.armed.Swap(false) && !ok {
		command, ok = text, true
	}
	if !ok {
		return false, nil
	}

	if command == "" {
		a.awake()
		command, err = a.listen(ctx)
		if err != nil {
			return false, err
		}
		if command == "" {
			return false, nil
		}
	}

	if IsExit(command, a.cfg.ExitWords) {
		a.inflight.Wait()
		a.say(msgGoodbye)
		return true, nil
	}

	a.dispatch(ctx, command)
	return false, nil
}

// listen swallows recognition errors. Only cancellation and io.EOF from a
// closed input end the loop.
func (a *Assistant) listen(ctx context.Context) (string, error) {
	text, err := a.listener.Listen(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if errors.Is(err, io.EOF) {
			return "", err
		}
		log.Error("Listen error", "err", err)
		return "", nil
	}

	text = strings.ToLower(strings.TrimSpace(text))
	if text != "" {
		log.Info("Heard", "text", text)
	}
	return text, nil
}
