package observability

import (
	"context"
	"testing"

	"github.com/riskibarqy/prediction-cup/internal/config"
	"github.com/riskibarqy/prediction-cup/internal/platform/logging"
)

func TestInitUptrace_DisabledIsNoop(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
	}{
		{name: "flag off", cfg: config.Config{UptraceEnabled: false, UptraceDSN: "https://token@api.uptrace.dev/1"}},
		{name: "empty dsn", cfg: config.Config{UptraceEnabled: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.ServiceName = "prediction-cup-api"
			tt.cfg.AppEnv = config.EnvDev

			shutdown, err := InitUptrace(tt.cfg, logging.NewNop())
			if err != nil {
				t.Fatalf("init uptrace: %v", err)
			}
			if err := shutdown(context.Background()); err != nil {
				t.Fatalf("shutdown uptrace: %v", err)
			}
		})
	}
}

func TestInitPyroscope_Disabled(t *testing.T) {
	stop, err := InitPyroscope(config.Config{PyroscopeEnabled: false}, logging.NewNop())
	if err != nil {
		t.Fatalf("init pyroscope: %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop pyroscope: %v", err)
	}
}
