// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"artvaluation-workers/internal/common/cache"
	"artvaluation-workers/internal/common/camunda"
	"artvaluation-workers/internal/common/config"
	"artvaluation-workers/internal/common/logger"
	"artvaluation-workers/internal/valuation"

	aggregateartistscore "artvaluation-workers/internal/workers/valuation/aggregate-artist-score"
	analyzegrowthsensitivity "artvaluation-workers/internal/workers/valuation/analyze-growth-sensitivity"
	buildvaluationreport "artvaluation-workers/internal/workers/valuation/build-valuation-report"
	projectcashflow "artvaluation-workers/internal/workers/valuation/project-cash-flow"
)

// E2E_ZEEBE_ADDRESS enables the broker tests, e.g. localhost:26500.
// E2E_REDIS_ADDRESS additionally enables the result cache.
const (
	zeebeAddressEnv = "E2E_ZEEBE_ADDRESS"
	redisAddressEnv = "E2E_REDIS_ADDRESS"
	processID       = "artist-valuation"
)

var (
	zeebeClient zbc.Client
	zapLog      *zap.Logger
)

func TestMain(m *testing.M) {
	zapLog, _ = zap.NewDevelopment()

	if address := os.Getenv(zeebeAddressEnv); address != "" {
		var err error
		zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         address,
			UsePlaintextConnection: true,
		})
		if err != nil {
			panic(fmt.Sprintf("failed to create Zeebe client: %v", err))
		}
	}

	code := m.Run()

	if zeebeClient != nil {
		zeebeClient.Close()
	}
	os.Exit(code)
}

func requireBroker(t testing.TB) {
	t.Helper()
	if zeebeClient == nil {
		t.Skipf("%s not set, skipping broker tests", zeebeAddressEnv)
	}
}

func TestFullE2E(t *testing.T) {
	requireBroker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg := testConfig()

	assertServicesConnectivity(t, ctx)
	deployAllBPMN(t, ctx)

	rdb := connectRedis(t, ctx)
	workers := startWorkers(t, cfg, rdb)
	defer func() {
		for _, w := range workers {
			w.Stop()
		}
	}()

	t.Run("reference valuation", func(t *testing.T) {
		vars := runProcess(t, ctx, map[string]interface{}{
			"artistId": "e2e-artist-1",
			"ratings":  []int{4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4},
		})

		assert.NotEmpty(t, vars["reportId"])
		assert.Equal(t, "A", vars["ratingTier"])

		projection := vars["projection"].(map[string]interface{})
		assert.Equal(t, float64(4), projection["paybackYear"])
		assert.Equal(t, "Year 4", projection["paybackLabel"])

		sensitivity := vars["sensitivity"].([]interface{})
		require.Len(t, sensitivity, 3)
		assert.Equal(t, "+5%", sensitivity[0].(map[string]interface{})["label"])

		report := vars["report"].(map[string]interface{})
		assert.Contains(t, report, "score")
		assert.Contains(t, report, "projection")
	})

	t.Run("overrides without payback", func(t *testing.T) {
		vars := runProcess(t, ctx, map[string]interface{}{
			"artistId":    "e2e-artist-2",
			"ratings":     []int{2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2},
			"assumptions": map[string]interface{}{"horizonYears": 2},
		})

		projection := vars["projection"].(map[string]interface{})
		assert.Nil(t, projection["paybackYear"])
		assert.Equal(t, valuation.NoPaybackLabel, projection["paybackLabel"])
		assert.Len(t, vars["yearLabels"], 2)
	})

	t.Run("invalid ratings end in rejection", func(t *testing.T) {
		vars := runProcess(t, ctx, map[string]interface{}{
			"artistId": "e2e-artist-3",
			"scores": valuation.ScoresFromRatings([]int{
				3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3,
			})[:11],
			"ratings": []int{3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3},
		})

		assert.NotContains(t, vars, "reportId")
	})
}

func testConfig() *config.Config {
	return &config.Config{
		Camunda: config.CamundaConfig{
			BrokerAddress:  os.Getenv(zeebeAddressEnv),
			UsePlaintext:   true,
			RequestTimeout: 10000,
		},
		Valuation: config.ValuationConfig{
			Assumptions: valuation.DefaultAssumptions(),
			Scenarios:   valuation.DefaultScenarios(),
			CacheTTL:    60000,
		},
		Workers: map[string]config.WorkerConfig{},
	}
}

func assertServicesConnectivity(t *testing.T, ctx context.Context) {
	t.Log("Checking service connectivity...")

	_, err := zeebeClient.NewTopologyCommand().Send(ctx)
	require.NoError(t, err, "Zeebe topology request failed")
	t.Log("Zeebe connected")
}

func connectRedis(t *testing.T, ctx context.Context) *redis.Client {
	address := os.Getenv(redisAddressEnv)
	if address == "" {
		t.Logf("%s not set, running without result cache", redisAddressEnv)
		return nil
	}

	client := cache.NewRedis(config.RedisConfig{Address: address})
	require.NoError(t, client.Ping(ctx), "Redis ping failed")
	t.Cleanup(func() { _ = client.Close() })
	t.Log("Redis connected")
	return client.Client
}

func deployAllBPMN(t *testing.T, ctx context.Context) {
	t.Log("Deploying BPMN files...")

	possiblePaths := []string{
		"bpmn",
		"../bpmn",
		"../../bpmn",
	}

	var bpmnDir string
	for _, path := range possiblePaths {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			bpmnDir = path
			break
		}
	}
	require.NotEmpty(t, bpmnDir, "BPMN directory not found")

	files, err := os.ReadDir(bpmnDir)
	require.NoError(t, err, "cannot read BPMN directory")

	deployed := 0
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(strings.ToLower(f.Name()), ".bpmn") {
			continue
		}

		path := filepath.Join(bpmnDir, f.Name())
		_, err := zeebeClient.NewDeployResourceCommand().AddResourceFile(path).Send(ctx)
		require.NoError(t, err, "failed to deploy %s", f.Name())
		t.Logf("Deployed: %s", f.Name())
		deployed++
	}
	require.Positive(t, deployed, "no BPMN files deployed")
}

func startWorkers(t *testing.T, cfg *config.Config, rdb *redis.Client) []*camunda.CamundaWorker {
	log := logger.NewZapAdapter(zapLog)

	score, err := aggregateartistscore.NewHandler(aggregateartistscore.HandlerOptions{AppConfig: cfg, Logger: log})
	require.NoError(t, err)
	projection, err := projectcashflow.NewHandler(projectcashflow.HandlerOptions{AppConfig: cfg, Logger: log, Redis: rdb})
	require.NoError(t, err)
	sensitivity, err := analyzegrowthsensitivity.NewHandler(analyzegrowthsensitivity.HandlerOptions{AppConfig: cfg, Logger: log, Redis: rdb})
	require.NoError(t, err)
	report, err := buildvaluationreport.NewHandler(buildvaluationreport.HandlerOptions{AppConfig: cfg, Logger: log})
	require.NoError(t, err)

	handlers := map[string]camunda.JobHandler{
		aggregateartistscore.TaskType:     score,
		projectcashflow.TaskType:          projection,
		analyzegrowthsensitivity.TaskType: sensitivity,
		buildvaluationreport.TaskType:     report,
	}

	workers := make([]*camunda.CamundaWorker, 0, len(handlers))
	for taskType, handler := range handlers {
		wcfg := config.GetWorkerConfig(cfg, taskType)
		workers = append(workers, camunda.NewWorker(zeebeClient, taskType, wcfg, handler, zapLog))
	}
	return workers
}

func runProcess(t *testing.T, ctx context.Context, variables map[string]interface{}) map[string]interface{} {
	t.Helper()

	cmd, err := zeebeClient.NewCreateInstanceCommand().
		BPMNProcessId(processID).
		LatestVersion().
		VariablesFromMap(variables)
	require.NoError(t, err)

	resp, err := cmd.WithResult().Send(ctx)
	require.NoError(t, err, "process instance did not complete")

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resp.GetVariables()), &out))
	return out
}

// ==========================
// Benchmarks
// ==========================

func BenchmarkHandler_AggregateArtistScore(b *testing.B) {
	handler, err := aggregateartistscore.NewHandler(aggregateartistscore.HandlerOptions{
		CustomConfig: aggregateartistscore.DefaultConfig(),
		Logger:       logger.NewNoOpLogger(),
	})
	require.NoError(b, err)

	input := &aggregateartistscore.Input{Ratings: []int{5, 4, 3, 2, 1, 5, 4, 3, 2, 1, 5, 4}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}

func BenchmarkHandler_ProjectCashFlow(b *testing.B) {
	handler, err := projectcashflow.NewHandler(projectcashflow.HandlerOptions{
		CustomConfig: projectcashflow.DefaultConfig(),
		Logger:       logger.NewNoOpLogger(),
	})
	require.NoError(b, err)

	horizon := 50
	input := &projectcashflow.Input{Assumptions: &valuation.AssumptionOverrides{HorizonYears: &horizon}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}

func BenchmarkHandler_AnalyzeGrowthSensitivity(b *testing.B) {
	handler, err := analyzegrowthsensitivity.NewHandler(analyzegrowthsensitivity.HandlerOptions{
		CustomConfig: analyzegrowthsensitivity.DefaultConfig(),
		Logger:       logger.NewNoOpLogger(),
	})
	require.NoError(b, err)

	input := &analyzegrowthsensitivity.Input{}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}

func BenchmarkHandler_BuildValuationReport(b *testing.B) {
	handler, err := buildvaluationreport.NewHandler(buildvaluationreport.HandlerOptions{
		CustomConfig: buildvaluationreport.DefaultConfig(),
		Logger:       logger.NewNoOpLogger(),
	})
	require.NoError(b, err)

	input := &buildvaluationreport.Input{
		ArtistID: "bench-artist",
		Ratings:  []int{4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}
