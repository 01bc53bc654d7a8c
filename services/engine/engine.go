package engine

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"carevox/hardware"
	"carevox/models"
	"carevox/services/intent"
	"carevox/services/memory"
	"carevox/services/router"
	"carevox/services/speech"
	"carevox/services/transcribe"
	"carevox/services/translate"
	"carevox/utils"

	"go.uber.org/zap"
)

const (
	welcomeResponse  = "Voice assistant started. Press the button to begin speaking."
	noSpeechResponse = "I didn't hear anything. Please press the button and speak clearly."
)

// Deps wires the collaborators of the interaction engine. All fields are
// required except StatusInterval, which defaults to five minutes.
type Deps struct {
	Capture     transcribe.SpeechCapture
	Transcriber transcribe.TranscriptionService
	Classifier  intent.Classifier
	Memory      *memory.ConversationMemory
	Router      *router.Router
	Translator  translate.Translator
	Synthesizer speech.Synthesizer
	Indicator   hardware.Indicator
	Trigger     hardware.Trigger

	DefaultLanguage string
	StatusInterval  time.Duration
}

// InteractionEngine drives the turn state machine:
// Idle -> Listening -> Processing -> Speaking -> Idle, with every failure
// path returning to Idle. One turn runs at a time; triggers arriving while
// a turn is in flight are discarded, never queued.
type InteractionEngine struct {
	capture     transcribe.SpeechCapture
	transcriber transcribe.TranscriptionService
	classifier  intent.Classifier
	memory      *memory.ConversationMemory
	router      *router.Router
	translator  translate.Translator
	synthesizer speech.Synthesizer
	indicator   hardware.Indicator
	trigger     hardware.Trigger

	defaultLanguage string
	statusInterval  time.Duration

	processing atomic.Bool
	total      atomic.Int64
	succeeded  atomic.Int64
	failed     atomic.Int64
	startTime  time.Time
}

// New validates the wiring. A missing collaborator is a startup failure;
// the engine never degrades around an absent dependency.
func New(deps Deps) (*InteractionEngine, error) {
	switch {
	case deps.Capture == nil:
		return nil, fmt.Errorf("engine: speech capture is required")
	case deps.Transcriber == nil:
		return nil, fmt.Errorf("engine: transcription service is required")
	case deps.Classifier == nil:
		return nil, fmt.Errorf("engine: intent classifier is required")
	case deps.Memory == nil:
		return nil, fmt.Errorf("engine: conversation memory is required")
	case deps.Router == nil:
		return nil, fmt.Errorf("engine: router is required")
	case deps.Translator == nil:
		return nil, fmt.Errorf("engine: translator is required")
	case deps.Synthesizer == nil:
		return nil, fmt.Errorf("engine: speech synthesizer is required")
	case deps.Indicator == nil:
		return nil, fmt.Errorf("engine: indicator is required")
	case deps.Trigger == nil:
		return nil, fmt.Errorf("engine: trigger is required")
	case deps.DefaultLanguage == "":
		return nil, fmt.Errorf("engine: default language is required")
	}
	if deps.StatusInterval <= 0 {
		deps.StatusInterval = 5 * time.Minute
	}

	return &InteractionEngine{
		capture:         deps.Capture,
		transcriber:     deps.Transcriber,
		classifier:      deps.Classifier,
		memory:          deps.Memory,
		router:          deps.Router,
		translator:      deps.Translator,
		synthesizer:     deps.Synthesizer,
		indicator:       deps.Indicator,
		trigger:         deps.Trigger,
		defaultLanguage: deps.DefaultLanguage,
		statusInterval:  deps.StatusInterval,
		startTime:       time.Now(),
	}, nil
}

// Run serializes turns from the trigger channel until the context is
// cancelled. Status snapshots are logged periodically.
func (e *InteractionEngine) Run(ctx context.Context) {
	logger := utils.GetLogger()
	logger.Info("Interaction engine ready, waiting for trigger")

	e.synthesizer.Speak(ctx, welcomeResponse, e.defaultLanguage)

	ticker := time.NewTicker(e.statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Interaction engine stopping")
			e.logStatus()
			return
		case <-e.trigger.Events():
			e.HandleInteraction(ctx)
			e.drainTriggers()
		case <-ticker.C:
			e.logStatus()
		}
	}
}

// HandleInteraction runs one complete turn. A call while another turn is
// in flight is logged and dropped without touching session state or the
// counters.
func (e *InteractionEngine) HandleInteraction(ctx context.Context) {
	logger := utils.GetLogger()

	if !e.processing.CompareAndSwap(false, true) {
		logger.Info("Trigger ignored, interaction already in flight")
		return
	}
	defer e.processing.Store(false)
	defer e.indicator.SetState(hardware.StateOff)

	turnStart := time.Now()

	e.indicator.SetState(hardware.StateListening)
	logger.Info("Listening for speech")

	transcript, language, err := e.listen(ctx)
	if err != nil || strings.TrimSpace(transcript) == "" {
		e.handleNoSpeech(ctx, err)
		return
	}
	if language == "" {
		language = e.defaultLanguage
	}

	e.indicator.SetState(hardware.StateProcessing)
	logger.Info("Processing speech",
		zap.String("transcript", transcript),
		zap.String("language", language))

	convContext := e.memory.ContextString()
	result := e.classifier.Classify(ctx, transcript, language, convContext)
	response := e.router.Route(result)

	spoken := response
	if language != e.defaultLanguage {
		spoken = e.translator.Translate(response, e.defaultLanguage, language)
	}

	var ok bool
	if result.Intent == models.IntentEmergency || result.Priority == models.PriorityUrgent {
		e.indicator.SetState(hardware.StateEmergency)
		e.indicator.EmergencySignal()
		ok = e.synthesizer.SpeakEmergency(ctx, spoken)
	} else {
		e.indicator.SetState(hardware.StateSpeaking)
		ok = e.synthesizer.Speak(ctx, spoken, language)
	}

	e.memory.AddTurn(transcript, result.Intent, spoken, language, result.Entities, result.Confidence)

	e.total.Add(1)
	if ok {
		e.succeeded.Add(1)
	} else {
		e.failed.Add(1)
		// Degraded mode: no tier produced audio, show the text instead.
		logger.Error("Synthesis failed on both tiers, displaying text response")
		fmt.Printf("\n[KIOSK RESPONSE]: %s\n\n", spoken)
	}

	logger.Info("Interaction completed",
		zap.String("intent", result.Intent),
		zap.Bool("spoken", ok),
		zap.Duration("took", time.Since(turnStart)))
}

func (e *InteractionEngine) listen(ctx context.Context) (string, string, error) {
	pcm, sampleRate, err := e.capture.Record(ctx)
	if err != nil {
		return "", "", err
	}
	return e.transcriber.Transcribe(ctx, pcm, sampleRate)
}

// handleNoSpeech covers both silent recordings and transcription failures:
// a canned response, a failure tick, no session mutation.
func (e *InteractionEngine) handleNoSpeech(ctx context.Context, err error) {
	utils.GetLogger().Warn("No usable speech for this turn", zap.Error(err))
	e.synthesizer.Speak(ctx, noSpeechResponse, e.defaultLanguage)
	e.total.Add(1)
	e.failed.Add(1)
}

// drainTriggers discards any presses that arrived while the last turn was
// running.
func (e *InteractionEngine) drainTriggers() {
	for {
		select {
		case <-e.trigger.Events():
			utils.GetLogger().Info("Discarding trigger received mid-turn")
		default:
			return
		}
	}
}

// ResetSession archives and clears the conversation memory. Counters are
// untouched; they reset only with the process.
func (e *InteractionEngine) ResetSession(ctx context.Context) {
	e.memory.Reset(ctx)
}

// Stats returns a snapshot of the interaction counters. Safe to call
// concurrently with a running turn.
func (e *InteractionEngine) Stats() models.EngineStats {
	return models.EngineStats{
		Total:         e.total.Load(),
		Succeeded:     e.succeeded.Load(),
		Failed:        e.failed.Load(),
		StartTime:     e.startTime,
		UptimeSeconds: time.Since(e.startTime).Seconds(),
	}
}

func (e *InteractionEngine) logStatus() {
	stats := e.Stats()
	general, emergency := e.router.QueueLengths()
	utils.GetLogger().Info("Engine status",
		zap.Int64("total", stats.Total),
		zap.Int64("succeeded", stats.Succeeded),
		zap.Int64("failed", stats.Failed),
		zap.Float64("successRate", stats.SuccessRate()),
		zap.Float64("uptimeMinutes", stats.UptimeSeconds/60),
		zap.Int("generalQueue", general),
		zap.Int("emergencyQueue", emergency),
		zap.Bool("processing", e.processing.Load()))
}
