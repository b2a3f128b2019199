package core

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maepreville/psh/core/vos"
)

func TestRecordReplay(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	transcript := &bytes.Buffer{}

	vio := Record(vos.NewVIOAdapter(strings.NewReader("typed input"), stdout, stderr), transcript)

	// Traffic flows through unchanged.
	_, err := vio.Stdout().Write([]byte("out data "))
	require.Nil(t, err)
	_, err = vio.Stderr().Write([]byte("err data"))
	require.Nil(t, err)

	buf := make([]byte, 5)
	n, err := vio.Stdin().Read(buf)
	require.Nil(t, err)
	assert.Equal(t, "typed", string(buf[:n]))

	assert.Equal(t, "out data ", stdout.String())
	assert.Equal(t, "err data", stderr.String())
	assert.NotZero(t, transcript.Len())

	// Replay reproduces only the output direction; input is omitted.
	replayed := &bytes.Buffer{}
	require.Nil(t, Replay(bytes.NewReader(transcript.Bytes()), replayed, MaxSleep(0)))
	assert.Equal(t, "out data err data", replayed.String())
}

func TestReplay_emptyRecording(t *testing.T) {
	out := &bytes.Buffer{}
	assert.Nil(t, Replay(bytes.NewReader(nil), out, MaxSleep(0)))
	assert.Zero(t, out.Len())
}

func TestReplay_truncatedRecording(t *testing.T) {
	assert.NotNil(t, Replay(strings.NewReader("garbage"), &bytes.Buffer{}, MaxSleep(0)))
}
