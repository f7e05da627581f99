package service

import "time"

const (
	// Parámetros del solver de tasa
	DefaultSolverTolerance     = 1e-10 // tolerancia relativa sobre el paso de Newton
	DefaultSolverMaxIterations = 100
	DefaultDerivativeThreshold = 1e-15
	DefaultResidualTolerance   = 1e-8 // |f(r)| relativo a |FV|
	DefaultRateGuess           = 0.1  // 10% por período

	// Decimales para el valor redondeado
	MoneyDecimals = 2
	RatioDecimals = 6 // periodos y tasas

	DefaultCacheTTL     = 10 * time.Minute
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 500
)
