// Package speech holds the boundary to the external speech engines: the
// Deepgram transcription API, the OpenAI synthesis API, and the per
// connection relay session that forwards live audio chunks.
package speech

import "context"

// TranscriptResult is what the engine returns for one piece of audio. An
// empty transcript is success ("no speech detected"), not an error.
type TranscriptResult struct {
	Transcript string
	Confidence float64
}

// Transcriber converts audio bytes to text. Implementations must honor the
// context deadline; the engine is treated as fallible and possibly slow.
type Transcriber interface {
	// Transcribe handles a complete recording in a container format
	// (wav, webm, m4a, ...). The engine detects the encoding itself.
	Transcribe(ctx context.Context, audio []byte, language string) (TranscriptResult, error)

	// TranscribeChunk handles one raw PCM chunk from a live stream
	// (16-bit linear, 16 kHz) as an independent request.
	TranscribeChunk(ctx context.Context, audio []byte, language string) (TranscriptResult, error)
}
