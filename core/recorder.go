package core

import (
	"bytes"
	"encoding/binary"
	"io"
	"sync"
	"time"

	"github.com/maepreville/psh/core/vos"
)

type sessionFd int

const (
	fdStdin  sessionFd = 0
	fdStdout           = 1
	fdStderr           = 2
)

type sessionOp int

const (
	opOpen  sessionOp = 1
	opClose           = 2
	opWrite           = 3
)

type sessionDir int

const (
	dirRead  sessionDir = 1
	dirWrite sessionDir = 2
)

// Recorder wraps a VIO and writes every byte that crosses it to a transcript
// in the User Mode Linux tty log format, the same format Kippo uses, so
// existing playback tooling understands it.
type Recorder struct {
	*vos.VIOAdapter
	mutex  sync.Mutex
	output io.Writer
}

type transcriptEvent struct {
	Operation    int32  // Operation, maps into sessionOp.
	Tty          uint32 // Always 0.
	Size         int32  // Number of data bytes following this event.
	Direction    int32  // Data direction, maps into sessionDir.
	Seconds      uint32 // UNIX timestamp of the event.
	Microseconds uint32 // Microseconds after the timestamp of the event.
}

func logEvent(out io.Writer, timestamp time.Time, fd sessionFd, op sessionOp, data []byte) error {
	sec := timestamp.UnixNano() / int64(time.Second)
	usec := (timestamp.UnixNano() % int64(time.Second)) / int64(time.Microsecond)

	direction := dirWrite
	if fd == fdStdin {
		direction = dirRead
	}

	header := transcriptEvent{
		Operation:    int32(op),
		Tty:          0,
		Size:         int32(len(data)),
		Direction:    int32(direction),
		Seconds:      uint32(sec),
		Microseconds: uint32(usec),
	}

	if err := binary.Write(out, binary.LittleEndian, &header); err != nil {
		return err
	}

	if len(data) > 0 {
		if _, err := out.Write(data); err != nil {
			return err
		}
	}

	return nil
}

func (r *Recorder) record(fd sessionFd, data []byte) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	// Transcript failures never fail the session itself.
	_ = logEvent(r.output, time.Now(), fd, opWrite, data)
}

type recordedReader struct {
	r       *Recorder
	fd      sessionFd
	wrapped io.ReadCloser
}

var _ io.ReadCloser = (*recordedReader)(nil)

func (rc *recordedReader) Read(p []byte) (int, error) {
	n, err := rc.wrapped.Read(p)
	if n > 0 {
		rc.r.record(rc.fd, p[:n])
	}
	return n, err
}

func (rc *recordedReader) Close() error {
	return rc.wrapped.Close()
}

type recordedWriter struct {
	r       *Recorder
	fd      sessionFd
	wrapped io.WriteCloser
}

var _ io.WriteCloser = (*recordedWriter)(nil)

func (rc *recordedWriter) Write(p []byte) (int, error) {
	n, err := rc.wrapped.Write(p)
	if n > 0 {
		rc.r.record(rc.fd, p[:n])
	}
	return n, err
}

func (rc *recordedWriter) Close() error {
	return rc.wrapped.Close()
}

// Record wraps the VIO so the session transcript is written to output.
func Record(toWrap vos.VIO, output io.Writer) *Recorder {
	recorder := &Recorder{
		output: output,
	}

	recorder.VIOAdapter = vos.NewVIOAdapter(
		&recordedReader{fd: fdStdin, r: recorder, wrapped: toWrap.Stdin()},
		&recordedWriter{fd: fdStdout, r: recorder, wrapped: toWrap.Stdout()},
		&recordedWriter{fd: fdStderr, r: recorder, wrapped: toWrap.Stderr()},
	)

	return recorder
}

var _ vos.VIO = (*Recorder)(nil)

type replayOpts struct {
	maxSleep time.Duration
}

// ReplayOpt changes options for playback.
type ReplayOpt func(*replayOpts)

// MaxSleep caps the pause Replay inserts between events.
func MaxSleep(duration time.Duration) ReplayOpt {
	return func(r *replayOpts) {
		r.maxSleep = duration
	}
}

// Replay plays a recorded transcript to destination, pacing output by the
// original event timestamps.
func Replay(recording io.Reader, destination io.Writer, opts ...ReplayOpt) error {
	options := &replayOpts{
		maxSleep: 3 * time.Second,
	}

	for _, o := range opts {
		o(options)
	}

	var prevTime time.Time
	var once sync.Once
	eventPtr := &transcriptEvent{}
	buf := &bytes.Buffer{}

	for {
		if err := binary.Read(recording, binary.LittleEndian, eventPtr); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		buf.Reset()

		currTime := time.Unix(int64(eventPtr.Seconds), int64(eventPtr.Microseconds)*int64(time.Microsecond))
		once.Do(func() {
			prevTime = currTime
		})
		if _, err := io.CopyN(buf, recording, int64(eventPtr.Size)); err != nil {
			return err
		}

		if sessionOp(eventPtr.Operation) == opWrite && sessionDir(eventPtr.Direction) == dirWrite {
			sleepDuration := currTime.Sub(prevTime)
			if sleepDuration > options.maxSleep {
				sleepDuration = options.maxSleep
			}
			time.Sleep(sleepDuration)

			if _, err := destination.Write(buf.Bytes()); err != nil {
				return err
			}
		}

		prevTime = currTime
	}
}
