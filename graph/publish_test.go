package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opendata-br/dcatbr/evaluate"
)

func TestNilPublisherIsNoOp(t *testing.T) {
	var p *Publisher
	err := p.PublishResult(context.Background(), evaluate.Result{DatasetID: "d1"})
	assert.NoError(t, err)
	p.Close()
}

func TestConnectEmptyURLDisablesPublishing(t *testing.T) {
	p, err := Connect("", nil)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestSubjectToken(t *testing.T) {
	assert.Equal(t, "unknown", subjectToken(""))
	assert.Equal(t, "abc-123", subjectToken("abc-123"))
	assert.Equal(t, "a-b-c", subjectToken("a.b c"))
	assert.Equal(t, "x-y", subjectToken("x>y"))
}

func TestPublishResultCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPublisher(nil, nil)
	// connection is nil, so the no-op path wins over the cancelled context
	assert.NoError(t, p.PublishResult(ctx, evaluate.Result{DatasetID: "d1"}))
}
