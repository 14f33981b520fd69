// Package app wires the gateway pipeline together and owns its lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/corvidlabs/voicegate/config"
	"github.com/corvidlabs/voicegate/dispatch"
	"github.com/corvidlabs/voicegate/interfaces"
	"github.com/corvidlabs/voicegate/llm"
	"github.com/corvidlabs/voicegate/log"
	"github.com/corvidlabs/voicegate/router"
	"github.com/corvidlabs/voicegate/session"
	"github.com/corvidlabs/voicegate/status"
	"github.com/corvidlabs/voicegate/stt"
	"github.com/corvidlabs/voicegate/synth"
	"github.com/corvidlabs/voicegate/transport"
	"github.com/corvidlabs/voicegate/tts"
	"github.com/corvidlabs/voicegate/worker"
)

// queueSize buffers hand-offs between pipeline stages. Sized above the
// worker count so short bursts queue instead of dropping.
const queueSize = 64

// Listener is the inbound side of the transport.
type Listener interface {
	Listen(ctx context.Context, handler transport.ChunkHandler) error
	Ping() error
	Close() error
}

// Deps holds the external collaborators the pipeline runs against.
// Production wiring comes from NewFromConfig; tests inject fakes.
type Deps struct {
	Recognizer  interfaces.Recognizer
	Generator   interfaces.Generator
	Synthesizer interfaces.Synthesizer
	Publisher   interfaces.AudioPublisher
	Listener    Listener
}

// App is the assembled gateway.
type App struct {
	registry  *session.Registry
	router    *router.Router
	consumer  *dispatch.Consumer
	pool      *worker.Pool
	scheduler *synth.Scheduler
	status    *status.Server
	listener  Listener

	// closers releases clients owned by NewFromConfig, in order.
	closers []func()
}

// New assembles the pipeline around the given queue and collaborators.
func New(cfg *config.Config, queue *dispatch.Queue, deps Deps) *App {
	registry := session.NewRegistry(deps.Recognizer)
	scheduler := synth.New(deps.Synthesizer, deps.Publisher, queueSize)

	pool := worker.New(cfg.Workers, queueSize, func(task worker.Task) {
		reply := deps.Generator.Generate(context.Background(), task.Text)
		scheduler.Schedule(synth.Request{ClientID: task.ClientID, Text: reply})
	})

	return &App{
		registry:  registry,
		router:    router.New(registry),
		consumer:  dispatch.NewConsumer(queue, pool),
		pool:      pool,
		scheduler: scheduler,
		status:    status.NewServer(cfg.StatusPort, registry.Count, deps.Listener.Ping),
		listener:  deps.Listener,
	}
}

// NewFromConfig assembles the pipeline against the real services.
func NewFromConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	gateway, err := transport.New(cfg.Redis)
	if err != nil {
		return nil, err
	}

	queue := dispatch.NewQueue(queueSize)

	recognizer, err := stt.New(ctx, cfg.STT, queue)
	if err != nil {
		_ = gateway.Close()
		return nil, err
	}

	synthesizer, err := tts.New(ctx, cfg.TTS)
	if err != nil {
		recognizer.Close()
		_ = gateway.Close()
		return nil, err
	}

	a := New(cfg, queue, Deps{
		Recognizer:  recognizer,
		Generator:   llm.NewClient(cfg.LLM),
		Synthesizer: synthesizer,
		Publisher:   gateway,
		Listener:    gateway,
	})
	a.closers = append(a.closers,
		recognizer.Close,
		func() {
			if err := gateway.Close(); err != nil {
				log.Error("closing broker connection", err)
			}
		},
	)
	return a, nil
}

// Run starts the pipeline and blocks on the transport listener until the
// context is cancelled or the listener fails.
func (a *App) Run(ctx context.Context) error {
	a.pool.Start()
	a.scheduler.Start()
	go a.consumer.Run(ctx)
	a.status.Start()

	log.Info("voice gateway running")
	err := a.listener.Listen(ctx, a.router.OnAudioChunk)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("transport listener failed: %w", err)
	}
	return nil
}

// Shutdown drains the pipeline: sessions close first so recognition can
// finalize, then queued work runs to completion, then in-flight synthesis
// finishes and clients are released.
func (a *App) Shutdown() {
	log.Info("shutting down voice gateway")
	a.registry.EndAll()
	a.pool.Stop()
	a.scheduler.Stop()
	for _, close := range a.closers {
		close()
	}
	log.Info("voice gateway stopped")
}
