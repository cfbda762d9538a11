package alert

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	awsclient "admissions-tracker/internal/common/aws"
	apperrors "admissions-tracker/internal/common/errors"
	"admissions-tracker/internal/common/logger"
	"admissions-tracker/internal/models"
)

type mockSNS struct {
	input *sns.PublishInput
	err   error
}

func (m *mockSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.input = in
	if m.err != nil {
		return nil, m.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-1")}, nil
}

func TestApplicationComplete(t *testing.T) {
	api := &mockSNS{}
	a := NewAlerter(awsclient.NewSNSClientWith(api), "arn:aws:sns:us-east-1:1:admissions", logger.NewTestLogger(t))

	result := models.ClassificationResult{Level: models.LevelGraduate, Programs: []string{"Maestría en Teología"}, Confidence: 8}
	doc := &models.DocumentHandle{ObjectKey: "reports/ana@example.com/x.html"}
	require.NoError(t, a.ApplicationComplete(context.Background(), "ana@example.com", "Ana Ruiz", result, doc))

	require.NotNil(t, api.input)
	assert.Equal(t, "arn:aws:sns:us-east-1:1:admissions", aws.ToString(api.input.TopicArn))
	assert.Equal(t, "Solicitud completa: Ana Ruiz", aws.ToString(api.input.Subject))
	assert.Equal(t, "Postgrado", aws.ToString(api.input.MessageAttributes["level"].StringValue))

	var body CompletionAlert
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(api.input.Message)), &body))
	assert.Equal(t, "application_complete", body.Event)
	assert.Equal(t, "ana@example.com", body.Applicant)
	assert.False(t, body.NeedsReview)
	assert.Equal(t, doc.ObjectKey, body.ReportKey)
}

func TestApplicationCompleteFailure(t *testing.T) {
	api := &mockSNS{err: errors.New("throttled")}
	a := NewAlerter(awsclient.NewSNSClientWith(api), "arn", logger.NewNoOpLogger())

	err := a.ApplicationComplete(context.Background(), "a@b.com", "A", models.ClassificationResult{Fallback: true}, nil)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeAlertPublishFail))
}
