package voice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yungbote/studyquiz-backend/internal/platform/apierr"
)

// blockingRecognizer returns its transcript once release is closed, or the
// context error if the session is cancelled first.
type blockingRecognizer struct {
	transcript string
	err        error
	release    chan struct{}
	started    chan struct{}
}

func newBlocking(transcript string, err error) *blockingRecognizer {
	return &blockingRecognizer{
		transcript: transcript,
		err:        err,
		release:    make(chan struct{}),
		started:    make(chan struct{}, 8),
	}
}

func (b *blockingRecognizer) Recognize(ctx context.Context, audio []byte, mimeType, language string) (string, error) {
	b.started <- struct{}{}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-b.release:
		return b.transcript, b.err
	}
}

type outcome struct {
	result string
	err    error
	ended  chan struct{}
}

func collect() (*outcome, Handlers) {
	o := &outcome{ended: make(chan struct{})}
	return o, Handlers{
		OnResult: func(s string) { o.result = s },
		OnError:  func(err error) { o.err = err },
		OnEnd:    func() { close(o.ended) },
	}
}

func waitEnd(t *testing.T, o *outcome) {
	t.Helper()
	select {
	case <-o.ended:
	case <-time.After(2 * time.Second):
		t.Fatalf("session did not end")
	}
}

var clip = Clip{Audio: []byte{1, 2, 3}, MimeType: "audio/webm"}

func TestStartDeliversTrimmedTranscript(t *testing.T) {
	rec := newBlocking("  hello world \n", nil)
	m := NewManager(rec, nil)
	o, h := collect()

	if !m.Start(context.Background(), clip, h) {
		t.Fatalf("Start returned false")
	}
	<-rec.started
	if !m.IsListening() {
		t.Fatalf("IsListening should be true while recognising")
	}
	close(rec.release)
	waitEnd(t, o)

	if o.result != "hello world" || o.err != nil {
		t.Fatalf("outcome: result=%q err=%v", o.result, o.err)
	}
	if m.IsListening() {
		t.Fatalf("IsListening should be false after end")
	}
}

func TestStartTwiceStopsFirstSession(t *testing.T) {
	rec := newBlocking("second", nil)
	m := NewManager(rec, nil)

	first, h1 := collect()
	m.Start(context.Background(), clip, h1)
	<-rec.started

	second, h2 := collect()
	m.Start(context.Background(), clip, h2)
	waitEnd(t, first)
	if first.result != "" || first.err != nil {
		t.Fatalf("stopped session should not report: result=%q err=%v", first.result, first.err)
	}
	<-rec.started
	if !m.IsListening() {
		t.Fatalf("IsListening should reflect the second session")
	}

	close(rec.release)
	waitEnd(t, second)
	if second.result != "second" {
		t.Fatalf("second result: %q", second.result)
	}
}

func TestStopIsIdempotentAndKeepsOnEnd(t *testing.T) {
	rec := newBlocking("ignored", nil)
	m := NewManager(rec, nil)
	o, h := collect()
	m.Start(context.Background(), clip, h)
	<-rec.started

	m.Stop()
	m.Stop()
	waitEnd(t, o)
	if o.result != "" || o.err != nil {
		t.Fatalf("stopped session reported: %+v", o)
	}
	if m.IsListening() {
		t.Fatalf("IsListening after Stop")
	}
}

func TestSessionErrors(t *testing.T) {
	cases := []struct {
		name string
		clip Clip
		text string
		err  error
		want ErrorCode
	}{
		{"blank transcript", clip, "   ", nil, CodeNoSpeech},
		{"empty audio", Clip{}, "", nil, CodeNoMicrophone},
		{"permission", clip, "", status.Error(codes.PermissionDenied, "nope"), CodePermissionDenied},
		{"network", clip, "", status.Error(codes.Unavailable, "down"), CodeNetwork},
		{"other", clip, "", status.Error(codes.InvalidArgument, "bad encoding"), CodeRecognition},
	}
	for _, tc := range cases {
		rec := newBlocking(tc.text, tc.err)
		close(rec.release)
		m := NewManager(rec, nil)
		o, h := collect()
		m.Start(context.Background(), tc.clip, h)
		waitEnd(t, o)

		var ve *Error
		if !errors.As(o.err, &ve) || ve.Code != tc.want {
			t.Fatalf("%s: want=%s got=%v", tc.name, tc.want, o.err)
		}
		if o.result != "" {
			t.Fatalf("%s: unexpected result %q", tc.name, o.result)
		}
	}
}

func TestOtherErrorMessageCarriesDetail(t *testing.T) {
	err := Normalize(status.Error(codes.InvalidArgument, "bad encoding"))
	if err.Error() != "Speech recognition error: bad encoding" {
		t.Fatalf("message: %q", err.Error())
	}
}

func TestNilRecognizerIsUnavailable(t *testing.T) {
	m := NewManager(nil, nil)
	var got error
	ok := m.Start(context.Background(), clip, Handlers{OnError: func(err error) { got = err }})
	if ok {
		t.Fatalf("Start should fail without a recognizer")
	}
	ae, isAPI := apierr.As(got)
	if !isAPI || ae.Code != apierr.CodeUnavailable {
		t.Fatalf("expected capability_unavailable, got %v", got)
	}
	if m.IsListening() || m.Available() {
		t.Fatalf("manager should report idle and unavailable")
	}
}

// ctxRecognizer records the context of every recognition and blocks until it
// is cancelled.
type ctxRecognizer struct {
	mu      sync.Mutex
	ctxs    []context.Context
	started chan struct{}
}

func (r *ctxRecognizer) Recognize(ctx context.Context, audio []byte, mimeType, language string) (string, error) {
	r.mu.Lock()
	r.ctxs = append(r.ctxs, ctx)
	r.mu.Unlock()
	r.started <- struct{}{}
	<-ctx.Done()
	return "", ctx.Err()
}

func TestConcurrentStartsLeaveOneSession(t *testing.T) {
	const n = 32
	rec := &ctxRecognizer{started: make(chan struct{}, n)}
	m := NewManager(rec, nil)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Start(context.Background(), clip, Handlers{})
		}()
	}
	wg.Wait()
	for i := 0; i < n; i++ {
		select {
		case <-rec.started:
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d of %d recognitions started", i, n)
		}
	}

	rec.mu.Lock()
	live := 0
	for _, ctx := range rec.ctxs {
		if ctx.Err() == nil {
			live++
		}
	}
	rec.mu.Unlock()
	if live != 1 {
		t.Fatalf("live sessions=%d want 1", live)
	}
	if !m.IsListening() {
		t.Fatalf("IsListening should be true")
	}
	m.Stop()
}
