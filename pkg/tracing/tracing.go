package tracing

import (
	"fmt"

	"github.com/opentracing/opentracing-go"
	jCfg "github.com/uber/jaeger-client-go/config"
	"github.com/uber/jaeger-lib/metrics"
	"go.uber.org/zap"
)

type Config struct {
	ServiceName string
	Host        string
	Port        int
}

// InitTracer поднимает Jaeger-трейсер и делает его глобальным для opentracing.
// Возвращает функцию закрытия.
func InitTracer(conf Config, log *zap.Logger) (opentracing.Tracer, func(), error) {
	cfg := &jCfg.Configuration{
		ServiceName: conf.ServiceName,
		Sampler: &jCfg.SamplerConfig{
			Type:  "const",
			Param: 1,
		},
		Reporter: &jCfg.ReporterConfig{
			LogSpans:           true,
			LocalAgentHostPort: fmt.Sprintf("%s:%d", conf.Host, conf.Port),
		},
	}

	jMetricsFactory := metrics.NullFactory
	tracer, closer, err := cfg.NewTracer(
		jCfg.Metrics(jMetricsFactory),
	)
	if err != nil {
		return nil, nil, err
	}

	opentracing.SetGlobalTracer(tracer)
	return tracer, func() {
		if err := closer.Close(); err != nil {
			log.Error("closing jaeger tracer", zap.Error(err))
		}
	}, nil
}
