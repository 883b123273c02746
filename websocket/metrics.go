// Package websocket - websocket/metrics.go
package websocket

import (
	"os"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"

	"nexus-events/logger"
)

// Namespace for all application metrics.
var metricsNamespace = "NexusEvents"

// Reuse a single CloudWatch client for all metrics calls.
var cwClient = cloudwatch.New(session.Must(session.NewSession()))

// metricsEnabled gates publishing; local development has no CloudWatch.
func metricsEnabled() bool {
	return os.Getenv("CLOUDWATCH_METRICS") == "enabled"
}

// PublishCheckIn pushes one check-in (value 1) or undo (value -1) for an event.
func PublishCheckIn(eventID string, delta float64) {
	putMetric("CheckIns", delta, "Count", eventID)
}

// PublishEmailBatch pushes the outcome counts of one batch email run.
func PublishEmailBatch(eventID string, sent, failed int) {
	putMetric("EmailsSent", float64(sent), "Count", eventID)
	putMetric("EmailsFailed", float64(failed), "Count", eventID)
}

// PublishDashboardConnections pushes the current dashboard feed client count.
func PublishDashboardConnections(count int) {
	putMetric("DashboardConnections", float64(count), "Count", "all")
}

// -----------------------------------------------------------
// internal helper function to package up CloudWatch calls
// -----------------------------------------------------------
func putMetric(metricName string, value float64, unit string, eventID string) {
	if !metricsEnabled() {
		return
	}

	_, err := cwClient.PutMetricData(&cloudwatch.PutMetricDataInput{
		Namespace: aws.String(metricsNamespace),
		MetricData: []*cloudwatch.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Dimensions: []*cloudwatch.Dimension{
					{
						Name:  aws.String("EventID"),
						Value: aws.String(eventID),
					},
				},
				Timestamp: aws.Time(time.Now()),
				Value:     aws.Float64(value),
				Unit:      aws.String(unit),
			},
		},
	})

	if err != nil {
		logger.Error.Printf("[putMetric] CloudWatch metric failed (%s): %v", metricName, err)
	}
}
