package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"carevox/config"
	"carevox/hardware"
	"carevox/services/engine"
	"carevox/services/intent"
	"carevox/services/memory"
	"carevox/services/router"
	"carevox/services/speech"
	"carevox/services/transcribe"
	"carevox/services/translate"
	"carevox/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The archive sink is optional: a dead Redis must not keep the kiosk
	// from starting.
	var archive memory.ArchiveStore
	if err := utils.InitArchiveCache(); err != nil {
		logger.Sugar().Warnf("main: session archive unavailable, continuing without it: %v", err)
	} else {
		archive = memory.NewRedisArchiveStore(utils.GetArchiveCacheClient(), 7*24*time.Hour)
	}

	mic, err := hardware.NewMicrophone(config.AppConfig.SampleRate, config.AppConfig.RecordSeconds)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to open microphone: %v", err)
	}
	defer mic.Close()

	transcriber, err := transcribe.NewGoogleTranscriber(ctx,
		config.AppConfig.GoogleServiceAccountFile, config.AppConfig.DefaultLanguage)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize speech recognition: %v", err)
	}
	defer transcriber.Close()

	var classifier intent.Classifier
	if config.AppConfig.UseGeminiClassifier {
		gemini, err := intent.NewGeminiClassifier(ctx, config.AppConfig.GeminiAPIKey)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize AI classifier: %v", err)
		}
		defer gemini.Close()
		classifier = gemini
	} else {
		classifier = intent.NewRuleClassifier()
	}

	translator, err := translate.NewSarvamTranslator(config.AppConfig.SarvamAPIKey)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize translator: %v", err)
	}

	espeak, err := speech.NewEspeakEngine()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize local speech engine: %v", err)
	}
	synthesizer, err := speech.NewSarvamSynthesizer(config.AppConfig.SarvamAPIKey,
		speech.NewSpeakerSink(), espeak, config.AppConfig.DefaultLanguage)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize speech synthesizer: %v", err)
	}

	trigger := hardware.NewButtonTrigger()
	conversation := memory.New(archive, config.AppConfig.DefaultLanguage)

	eng, err := engine.New(engine.Deps{
		Capture:         mic,
		Transcriber:     transcriber,
		Classifier:      classifier,
		Memory:          conversation,
		Router:          router.New(),
		Translator:      translator,
		Synthesizer:     synthesizer,
		Indicator:       hardware.NewLogIndicator(),
		Trigger:         trigger,
		DefaultLanguage: config.AppConfig.DefaultLanguage,
		StatusInterval:  time.Duration(config.AppConfig.StatusIntervalMinutes) * time.Minute,
	})
	if err != nil {
		logger.Sugar().Fatalf("main: failed to assemble interaction engine: %v", err)
	}

	go eng.Run(ctx)

	// Console stand-in for the kiosk button: Enter triggers a turn,
	// "reset" archives the session, "quit" exits.
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
			case "":
				trigger.Press()
			case "reset":
				eng.ResetSession(ctx)
			case "quit", "exit":
				cancel()
				return
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}
	logger.Sugar().Info("main: kiosk is shutting down...")

	cancel()
	eng.ResetSession(context.Background())
	logger.Sugar().Info("main: kiosk stopped gracefully")
}
