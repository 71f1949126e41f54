package gcp

import (
	"testing"

	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
)

func TestInferSpeechEncoding(t *testing.T) {
	cases := map[string]speechpb.RecognitionConfig_AudioEncoding{
		"audio/webm;codecs=opus": speechpb.RecognitionConfig_WEBM_OPUS,
		"audio/ogg":              speechpb.RecognitionConfig_OGG_OPUS,
		"audio/wav":              speechpb.RecognitionConfig_LINEAR16,
		"audio/mpeg":             speechpb.RecognitionConfig_MP3,
		"":                       speechpb.RecognitionConfig_ENCODING_UNSPECIFIED,
	}
	for mime, want := range cases {
		if got := inferSpeechEncoding(mime); got != want {
			t.Fatalf("inferSpeechEncoding(%q): want=%v got=%v", mime, want, got)
		}
	}
}

func TestTranscriptOfJoinsFirstAlternatives(t *testing.T) {
	resp := &speechpb.RecognizeResponse{Results: []*speechpb.SpeechRecognitionResult{
		{Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: " what is "}, {Transcript: "ignored"}}},
		nil,
		{Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: "photosynthesis"}}},
		{},
	}}
	if got := transcriptOf(resp); got != "what is photosynthesis" {
		t.Fatalf("transcriptOf: %q", got)
	}
	if got := transcriptOf(nil); got != "" {
		t.Fatalf("transcriptOf(nil): %q", got)
	}
	if cfg := recognitionConfig("audio/webm", ""); cfg.LanguageCode != "en-US" {
		t.Fatalf("default language: %q", cfg.LanguageCode)
	}
}
