package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// driftTolerance absorbs float accumulation noise; anything above it is
// a real mismatch between stored plan_total and the monthly columns.
const driftTolerance = 0.005

// lastScanKey records the most recent scan result in redis so the ops
// dashboard can show when the integrity check last ran.
const lastScanKey = "psms:plan_integrity:last_scan"

// PlanIntegrityJob verifies that stored plan line totals still match
// the sum of their monthly columns. The aggregator always recomputes
// from the months, so drift never corrupts reports, but it flags rows
// written by older clients or manual fixes.
type PlanIntegrityJob struct {
	Pool   *pgxpool.Pool
	Redis  *redis.Client
	Logger *slog.Logger
	clock  func() time.Time
}

// NewPlanIntegrityJob initialises the integrity scan handler.
func NewPlanIntegrityJob(pool *pgxpool.Pool, rdb *redis.Client, logger *slog.Logger) *PlanIntegrityJob {
	return &PlanIntegrityJob{
		Pool:   pool,
		Redis:  rdb,
		Logger: logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

type driftRow struct {
	CompanyCode string
	PlanID      int64
	PlanLineID  int64
	PipelineID  string
	Stored      float64
	Computed    float64
}

// ScanResult summarizes one completed scan.
type ScanResult struct {
	ScanID     string    `json:"scan_id"`
	StartedAt  time.Time `json:"started_at"`
	Duration   string    `json:"duration"`
	Checked    int       `json:"checked"`
	DriftCount int       `json:"drift_count"`
}

// Handle executes the integrity scan.
func (j *PlanIntegrityJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Pool == nil {
		return errors.New("plan integrity: handler not configured")
	}
	var payload PlanIntegrityPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	start := j.now()
	logger := j.logger().With(
		slog.String("scan_id", payload.ScanID),
		slog.String("company", payload.CompanyCode),
		slog.Int("year", payload.PlanYear),
	)
	logger.Info("starting plan integrity scan")

	checked, drifts, err := j.scan(ctx, payload)
	if err != nil {
		logger.Error("scan failed", slog.Any("error", err))
		return err
	}

	for _, d := range drifts {
		logger.Warn("plan total drift detected",
			slog.String("company", d.CompanyCode),
			slog.Int64("plan_id", d.PlanID),
			slog.Int64("plan_line_id", d.PlanLineID),
			slog.String("pipeline_id", d.PipelineID),
			slog.Float64("stored", d.Stored),
			slog.Float64("computed", d.Computed),
		)
	}

	j.record(ctx, ScanResult{
		ScanID:     payload.ScanID,
		StartedAt:  start,
		Duration:   time.Since(start).String(),
		Checked:    checked,
		DriftCount: len(drifts),
	})

	logger.Info("completed plan integrity scan",
		slog.Int("checked", checked),
		slog.Int("drift_count", len(drifts)),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

func (j *PlanIntegrityJob) scan(ctx context.Context, payload PlanIntegrityPayload) (int, []driftRow, error) {
	sql := `
		SELECT spl.company_cd, spl.plan_id, spl.plan_line_id, spl.pipeline_id,
			COALESCE(spl.plan_total, 0),
			COALESCE(spl.plan_m01,0)+COALESCE(spl.plan_m02,0)+COALESCE(spl.plan_m03,0)+
			COALESCE(spl.plan_m04,0)+COALESCE(spl.plan_m05,0)+COALESCE(spl.plan_m06,0)+
			COALESCE(spl.plan_m07,0)+COALESCE(spl.plan_m08,0)+COALESCE(spl.plan_m09,0)+
			COALESCE(spl.plan_m10,0)+COALESCE(spl.plan_m11,0)+COALESCE(spl.plan_m12,0)
		FROM sales_plan_line spl
		JOIN sales_plan sp ON sp.company_cd = spl.company_cd AND sp.plan_id = spl.plan_id
		WHERE 1=1`
	args := []interface{}{}
	if payload.CompanyCode != "" {
		args = append(args, payload.CompanyCode)
		sql += fmt.Sprintf(" AND spl.company_cd = $%d", len(args))
	}
	if payload.PlanYear != 0 {
		args = append(args, payload.PlanYear)
		sql += fmt.Sprintf(" AND sp.plan_year = $%d", len(args))
	}

	rows, err := j.Pool.Query(ctx, sql, args...)
	if err != nil {
		return 0, nil, err
	}
	defer rows.Close()

	checked := 0
	var drifts []driftRow
	for rows.Next() {
		var d driftRow
		if err := rows.Scan(&d.CompanyCode, &d.PlanID, &d.PlanLineID, &d.PipelineID, &d.Stored, &d.Computed); err != nil {
			return 0, nil, err
		}
		checked++
		if math.Abs(d.Stored-d.Computed) > driftTolerance {
			drifts = append(drifts, d)
		}
	}
	return checked, drifts, rows.Err()
}

func (j *PlanIntegrityJob) record(ctx context.Context, result ScanResult) {
	if j.Redis == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := j.Redis.Set(ctx, lastScanKey, data, 0).Err(); err != nil {
		j.logger().Warn("record scan result", slog.Any("error", err))
	}
}

// LastScan loads the most recent scan result, if any.
func LastScan(ctx context.Context, rdb *redis.Client) (*ScanResult, error) {
	data, err := rdb.Get(ctx, lastScanKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var result ScanResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (j *PlanIntegrityJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}

func (j *PlanIntegrityJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
