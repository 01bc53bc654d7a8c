package hardware

import (
	"carevox/utils"

	"go.uber.org/zap"
)

// IndicatorState is the visible state of the kiosk's LED panel.
type IndicatorState string

const (
	StateListening  IndicatorState = "listening"
	StateProcessing IndicatorState = "processing"
	StateSpeaking   IndicatorState = "speaking"
	StateOff        IndicatorState = "off"
	StateEmergency  IndicatorState = "emergency"
)

// Indicator drives the kiosk status lights. Implementations must return
// immediately; the turn loop never waits on an indicator.
type Indicator interface {
	SetState(state IndicatorState)
	EmergencySignal()
}

// LogIndicator is the default indicator used when no LED hardware is
// attached. It only logs state changes.
type LogIndicator struct{}

func NewLogIndicator() *LogIndicator {
	return &LogIndicator{}
}

func (i *LogIndicator) SetState(state IndicatorState) {
	utils.GetLogger().Debug("Indicator state", zap.String("state", string(state)))
}

func (i *LogIndicator) EmergencySignal() {
	utils.GetLogger().Warn("Emergency indicator signal")
}
