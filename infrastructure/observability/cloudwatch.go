package observability

import (
	"context"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"

	"github.com/Labib591/zyra/application/ports"
)

// PutMetricDataAPI is the slice of the CloudWatch client used here
type PutMetricDataAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatchMetrics sends business metrics to CloudWatch. Sending is best
// effort and bounded by a short timeout.
type CloudWatchMetrics struct {
	namespace string
	client    PutMetricDataAPI
	logger    *zap.Logger
	timeout   time.Duration
}

// NewCloudWatchMetrics creates a new metrics instance
func NewCloudWatchMetrics(namespace string, client PutMetricDataAPI, logger *zap.Logger) *CloudWatchMetrics {
	return &CloudWatchMetrics{
		namespace: namespace,
		client:    client,
		logger:    logger,
		timeout:   2 * time.Second,
	}
}

func (m *CloudWatchMetrics) IncrementCounter(name string, tags map[string]string) {
	m.put(name, 1, types.StandardUnitCount, tags)
}

func (m *CloudWatchMetrics) RecordDuration(name string, seconds float64, tags map[string]string) {
	m.put(name, seconds*1000, types.StandardUnitMilliseconds, tags)
}

func (m *CloudWatchMetrics) put(name string, value float64, unit types.StandardUnit, tags map[string]string) {
	if m.client == nil {
		return
	}

	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	dimensions := make([]types.Dimension, 0, len(keys))
	for _, k := range keys {
		dimensions = append(dimensions, types.Dimension{
			Name:  aws.String(k),
			Value: aws.String(tags[k]),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []types.MetricDatum{{
			MetricName: aws.String(name),
			Dimensions: dimensions,
			Value:      aws.Float64(value),
			Unit:       unit,
			Timestamp:  aws.Time(time.Now()),
		}},
	})
	if err != nil {
		m.logger.Warn("Failed to send metrics", zap.String("metric", name), zap.Error(err))
	}
}

// Fanout sends every measurement to all of its sinks
type Fanout []ports.Metrics

func (f Fanout) IncrementCounter(name string, tags map[string]string) {
	for _, m := range f {
		m.IncrementCounter(name, tags)
	}
}

func (f Fanout) RecordDuration(name string, seconds float64, tags map[string]string) {
	for _, m := range f {
		m.RecordDuration(name, seconds, tags)
	}
}
