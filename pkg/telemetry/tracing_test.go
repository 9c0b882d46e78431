package telemetry

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestTraceContextRoundTripThroughSQSAttributes(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	defer tp.Shutdown(context.Background())

	ctx, parent := tp.Tracer("test").Start(context.Background(), "producer")
	attrs := InjectTraceContext(ctx)
	parent.End()

	msg := types.Message{
		MessageId:         aws.String("m-1"),
		Body:              aws.String(`{"jobId":"job-42"}`),
		MessageAttributes: attrs,
	}
	consumerCtx, span := StartSpanFromSQSMessage(context.Background(), msg)
	defer span.End()

	assert.Equal(t, parent.SpanContext().TraceID(), span.SpanContext().TraceID())
	assert.Equal(t, "job-42", GetJobIDFromContext(consumerCtx))
}

func TestStartSpanFromSQSMessage_NoBody(t *testing.T) {
	ctx, span := StartSpanFromSQSMessage(context.Background(), types.Message{})
	defer span.End()
	assert.Equal(t, "", GetJobIDFromContext(ctx))
}

func TestInitTracer_LocalStdout(t *testing.T) {
	shutdown, err := InitTracer("attendance-test", "", true)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestContextIdentifiers(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetJobIDFromContext(ctx))
	assert.Empty(t, GetEmployeeIDFromContext(ctx))

	ctx = WithEmployeeID(WithJobID(ctx, "job-9"), "emp-4")
	assert.Equal(t, "job-9", GetJobIDFromContext(ctx))
	assert.Equal(t, "emp-4", GetEmployeeIDFromContext(ctx))
}
