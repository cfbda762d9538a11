package aws

import (
	"context"
	"errors"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSES struct {
	input *ses.SendRawEmailInput
	err   error
}

func (m *mockSES) SendRawEmail(_ context.Context, in *ses.SendRawEmailInput, _ ...func(*ses.Options)) (*ses.SendRawEmailOutput, error) {
	m.input = in
	if m.err != nil {
		return nil, m.err
	}
	return &ses.SendRawEmailOutput{MessageId: awssdk.String("msg-1")}, nil
}

type mockSNS struct {
	input *sns.PublishInput
}

func (m *mockSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.input = in
	return &sns.PublishOutput{MessageId: awssdk.String("pub-1")}, nil
}

func TestSendRawEmail(t *testing.T) {
	mock := &mockSES{}
	id, err := NewSESClientWith(mock).SendRawEmail(context.Background(), []byte("Subject: hi\r\n\r\nbody"))
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
	assert.Equal(t, []byte("Subject: hi\r\n\r\nbody"), mock.input.RawMessage.Data)

	mock.err = errors.New("throttled")
	_, err = NewSESClientWith(mock).SendRawEmail(context.Background(), []byte("x"))
	assert.EqualError(t, err, "throttled")
}

func TestPublish(t *testing.T) {
	mock := &mockSNS{}
	id, err := NewSNSClientWith(mock).Publish(context.Background(), "arn:aws:sns:us-east-1:1:admissions", "subject", "body",
		map[string]string{"level": "Pregrado"})
	require.NoError(t, err)
	assert.Equal(t, "pub-1", id)
	assert.Equal(t, "arn:aws:sns:us-east-1:1:admissions", awssdk.ToString(mock.input.TopicArn))
	assert.Equal(t, "Pregrado", awssdk.ToString(mock.input.MessageAttributes["level"].StringValue))
}

func TestLoadConfigStaticCredentials(t *testing.T) {
	cfg, err := LoadConfig(context.Background(), Options{Region: "us-west-2", AccessKeyID: "AKID", SecretAccessKey: "SECRET"})
	require.NoError(t, err)
	assert.Equal(t, "us-west-2", cfg.Region)

	creds, err := cfg.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AKID", creds.AccessKeyID)
}
