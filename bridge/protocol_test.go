package bridge

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendReceiveMessageRoundTrip(t *testing.T) {
	testCases := []Message{
		&ParseRequest{Source: "SELECT * WHERE { ?s ?p ?o }", BaseIRI: "http://example.org/", IsUpdate: false},
		&ParseResponse{OK: true, ResolvedBaseIRI: "http://example.org/"},
		&EvaluateRequest{Handle: "abc123", ResultFormat: "json"},
		&EvaluateResponse{Handle: "abc123", ResultFormat: "json", Payload: []byte(`{"head":{}}`)},
		&ErrorResponse{Message: "store unavailable"},
	}

	for _, msg := range testCases {
		var buf bytes.Buffer
		require.NoError(t, SendMessage(&buf, msg))

		got, err := ReceiveMessage(&buf)
		require.NoError(t, err)
		assert.Equal(t, msg, got)
	}
}

func TestSendMessageRejectsUnregisteredType(t *testing.T) {
	var buf bytes.Buffer
	err := SendMessage(&buf, unknownMessage{})
	assert.Error(t, err)
}

func TestReceiveMessageRejectsTruncatedHeader(t *testing.T) {
	buf := bytes.NewReader([]byte{0, 1, 2})
	_, err := ReceiveMessage(buf)
	assert.Error(t, err)
}

func TestReceiveMessageRejectsUnrecognizedType(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xFF, 0, 0, 0, 0})
	_, err := ReceiveMessage(&buf)
	assert.Error(t, err)
}

func TestSendMessageMultipleMessagesOnSharedStream(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SendMessage(&buf, &ParseRequest{Source: "ASK {}"}))
	require.NoError(t, SendMessage(&buf, &ErrorResponse{Message: "boom"}))

	first, err := ReceiveMessage(&buf)
	require.NoError(t, err)
	assert.Equal(t, &ParseRequest{Source: "ASK {}"}, first)

	second, err := ReceiveMessage(&buf)
	require.NoError(t, err)
	assert.Equal(t, &ErrorResponse{Message: "boom"}, second)
}

type unknownMessage struct{}

func (unknownMessage) isMessage() {}
