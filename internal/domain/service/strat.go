package service

import "StratScan/internal/domain/models"

// CandleAnalyzer classifies raw candles and predicts the setup forming on the last bar.
type CandleAnalyzer interface {
	Analyze(raw []models.Candle) (models.StratAnalysis, error)
}

// SetupIdentifier matches closed three-bar setups on already classified candles.
type SetupIdentifier interface {
	IdentifyClosedSetup(candles []models.ClassifiedCandle) *models.ActionableSetup
}

// SignalEngine turns multi-timeframe analyses into a scored signal response.
type SignalEngine interface {
	BuildResponse(analyses []models.MultiTimeframeAnalysis) models.SignalResponse
}
