// Package google provides a Google Cloud Speech-to-Text recognition engine
// adapter.
//
// Google Speech does not score fluency or prosody natively, so the adapter
// derives them from what the engine does report: fluency from the ratio of
// voiced time to the segment's span, prosody from the mean and spread of word
// confidences. Per-word accuracy is the word confidence scaled to [0,100].
package google

import (
	"context"
	"errors"
	"io"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "google.golang.org/genproto/googleapis/cloud/speech/v1"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"

	"speech-assessment-service/internal/models"
	"speech-assessment-service/internal/service/engine"
)

// Adapter implements engine.Adapter using Google Cloud Speech-to-Text.
type Adapter struct {
	client       *speech.Client
	stream       speechpb.Speech_StreamingRecognizeClient
	cb           engine.Callback
	languageCode string
	sampleRateHz int32
}

// New creates a new Google recognition engine adapter.
// Requires GOOGLE_APPLICATION_CREDENTIALS environment variable to be set.
func New(ctx context.Context, languageCode string, sampleRateHz int32) (*Adapter, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &Adapter{
		client:       c,
		languageCode: languageCode,
		sampleRateHz: sampleRateHz,
	}, nil
}

// Start begins a streaming recognition session, sends the initial config and
// spawns the receive loop.
func (a *Adapter) Start(ctx context.Context, cb engine.Callback) error {
	stream, err := a.client.StreamingRecognize(ctx)
	if err != nil {
		return err
	}
	a.stream = stream
	a.cb = cb

	// Send streaming config as the first message. Word time offsets and
	// word confidences are required to build segment payloads.
	err = stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config: &speechpb.RecognitionConfig{
					Encoding:              speechpb.RecognitionConfig_LINEAR16,
					SampleRateHertz:       a.sampleRateHz,
					LanguageCode:          a.languageCode,
					EnableWordTimeOffsets: true,
					EnableWordConfidence:  true,
				},
			},
		},
	})
	if err != nil {
		return err
	}

	go a.listen()
	return nil
}

// SendAudio sends audio bytes to Google Speech-to-Text.
func (a *Adapter) SendAudio(ctx context.Context, audio []byte) error {
	return a.stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
			AudioContent: audio,
		},
	})
}

// Close ends the streaming session. The receive loop delivers the terminal
// signal once Google drains its remaining results.
func (a *Adapter) Close() error {
	if a.stream != nil {
		return a.stream.CloseSend()
	}
	return nil
}

// listen receives recognition responses and invokes callbacks until the
// stream terminates.
func (a *Adapter) listen() {
	for {
		resp, err := a.stream.Recv()
		if err != nil {
			a.terminate(err)
			return
		}
		for _, r := range resp.Results {
			if !r.IsFinal || len(r.Alternatives) == 0 {
				continue
			}
			a.cb.OnSegment(segmentFromAlternative(r.Alternatives[0]))
		}
	}
}

// terminate maps the stream's final error onto the engine contract: EOF is a
// normal stop, a gRPC Canceled code is a non-error cancellation, anything
// else is a fatal cancellation.
func (a *Adapter) terminate(err error) {
	switch {
	case errors.Is(err, io.EOF):
		a.cb.OnSessionStopped()
	case status.Code(err) == codes.Canceled:
		a.cb.OnCanceled(nil)
	default:
		a.cb.OnCanceled(err)
	}
}

// segmentFromAlternative converts one final recognition result into a
// segment payload.
func segmentFromAlternative(alt *speechpb.SpeechRecognitionAlternative) models.Segment {
	words := make([]models.RecognizedWord, 0, len(alt.Words))

	var voicedTicks int64
	var firstStart, lastEnd int64
	var confSum float64
	minConf, maxConf := 1.0, 0.0

	for i, wi := range alt.Words {
		start := ticks(wi.StartTime)
		end := ticks(wi.EndTime)
		conf := float64(wi.Confidence)
		if conf == 0 {
			// Older models omit word confidence; fall back to the
			// alternative-level confidence.
			conf = float64(alt.Confidence)
		}

		words = append(words, models.RecognizedWord{
			Text:          wi.Word,
			AccuracyScore: 100 * conf,
			ErrorType:     models.ErrorNone,
			DurationTicks: end - start,
			OffsetTicks:   start,
		})

		voicedTicks += end - start
		if i == 0 {
			firstStart = start
		}
		lastEnd = end
		confSum += conf
		if conf < minConf {
			minConf = conf
		}
		if conf > maxConf {
			maxConf = conf
		}
	}

	var fluency, prosody float64
	if len(words) > 0 {
		span := lastEnd - firstStart
		if span > 0 {
			fluency = 100 * float64(voicedTicks) / float64(span)
		}
		mean := confSum / float64(len(words))
		prosody = 100*mean - 50*(maxConf-minConf)
		if prosody < 0 {
			prosody = 0
		}
	}

	return models.Segment{
		Words:              words,
		FluencyScore:       fluency,
		ProsodyScore:       prosody,
		TotalDurationTicks: voicedTicks,
		Succeeded:          true,
	}
}

// ticks converts a protobuf duration to 100-nanosecond ticks.
func ticks(d *durationpb.Duration) int64 {
	if d == nil {
		return 0
	}
	return d.AsDuration().Nanoseconds() / 100
}
