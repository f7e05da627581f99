package service

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tvm-calculator/domain"
	"tvm-calculator/repository"
)

type TVMService struct {
	engine *TVMEngine
	repo   repository.CalculationRepository
	cache  repository.CacheRepository
	now    func() time.Time
}

// NewTVMService creates a new TVMService with the given engine, history
// repository and result cache.
func NewTVMService(engine *TVMEngine,
	repo repository.CalculationRepository,
	cache repository.CacheRepository,
) *TVMService {
	return &TVMService{engine: engine, repo: repo, cache: cache, now: time.Now}
}

// Calculate solves params for target. Results come from the cache when
// possible; only computed (non-cached) results are appended to the history.
func (s *TVMService) Calculate(
	target domain.Target,
	params domain.TVMParams,
) (domain.CalculationResult, error) {

	if !target.Valid() {
		return domain.CalculationResult{}, domain.InvalidInput("calculate", fmt.Sprintf("unknown target %q", target))
	}

	key := cacheKey(target, params, s.engine.SolverConfig())
	if raw, ok := s.cache.Get(key); ok {
		var cached domain.CalculationResult
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			cached.Cached = true
			return cached, nil
		}
		log.Printf("Warning: discarding unreadable cache entry %s", key)
	}

	result, err := s.compute(target, params)
	if err != nil {
		return domain.CalculationResult{}, err
	}

	// Cache e historial no son críticos
	if raw, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(key, string(raw)); err != nil {
			log.Printf("Warning: failed to cache calculation: %v", err)
		}
	}

	record := domain.CalculationRecord{
		ID:        uuid.New(),
		Target:    target,
		Params:    params,
		Result:    result,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Save(record); err != nil {
		log.Printf("Warning: failed to save calculation: %v", err)
	}

	return result, nil
}

// History returns the most recent calculations, newest first.
func (s *TVMService) History(limit int) ([]domain.CalculationRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return s.repo.Recent(limit)
}

func (s *TVMService) compute(
	target domain.Target,
	params domain.TVMParams,
) (domain.CalculationResult, error) {

	var (
		value      float64
		iterations int
		err        error
	)
	places := int32(MoneyDecimals)

	switch target {
	case domain.TargetFutureValue:
		value, err = s.engine.FutureValue(params)
	case domain.TargetPresentValue:
		value, err = s.engine.PresentValue(params)
	case domain.TargetPeriods:
		value, err = s.engine.Periods(params)
		places = RatioDecimals
	case domain.TargetRate:
		value, iterations, err = s.engine.Rate(params)
		places = RatioDecimals
	}
	if err != nil {
		return domain.CalculationResult{}, err
	}

	return domain.CalculationResult{
		Target:     target,
		Value:      value,
		Rounded:    decimal.NewFromFloat(value).Round(places),
		Iterations: iterations,
	}, nil
}

// cacheKey is stable for equal params: absent fields and zero are distinct.
// Rate keys also carry the solver settings, since they change the result.
func cacheKey(target domain.Target, p domain.TVMParams, solver SolverConfig) string {
	var b strings.Builder
	for _, v := range []*float64{p.Periods, p.Rate, p.PresentValue, p.FutureValue} {
		if v == nil {
			b.WriteString("-")
		} else {
			b.WriteString(strconv.FormatFloat(*v, 'g', -1, 64))
		}
		b.WriteByte('|')
	}
	b.WriteString(strconv.FormatFloat(p.Payment, 'g', -1, 64))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(p.Frequency()))

	if target == domain.TargetRate {
		fmt.Fprintf(&b, "|%g|%d|%g|%g|%g",
			solver.Tolerance, solver.MaxIterations, solver.DerivativeThreshold,
			solver.ResidualTolerance, solver.InitialGuess)
	}

	return "tvm:" + string(target) + ":" + strconv.FormatUint(xxhash.Sum64String(b.String()), 16)
}
