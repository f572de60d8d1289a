// internal/speech/voices.go
package speech

import "github.com/meer-matthew/STT-Proto/internal/models"

// Voice is one of the fixed OpenAI TTS voices.
type Voice string

const (
	VoiceAlloy   Voice = "alloy"
	VoiceEcho    Voice = "echo"
	VoiceFable   Voice = "fable"
	VoiceOnyx    Voice = "onyx"
	VoiceNova    Voice = "nova"
	VoiceShimmer Voice = "shimmer"

	DefaultVoice = VoiceNova
)

// VoiceInfo describes a voice for the /voices listing.
type VoiceInfo struct {
	ID          Voice  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AvailableVoices is the fixed set exposed by the synthesis engine.
var AvailableVoices = []VoiceInfo{
	{VoiceAlloy, "Alloy", "Neutral and balanced"},
	{VoiceEcho, "Echo", "Male voice"},
	{VoiceFable, "Fable", "Warm and expressive"},
	{VoiceOnyx, "Onyx", "Deep male voice"},
	{VoiceNova, "Nova", "Female voice"},
	{VoiceShimmer, "Shimmer", "Bright female voice"},
}

// ValidVoice reports whether v names a known voice.
func ValidVoice(v Voice) bool {
	for _, info := range AvailableVoices {
		if info.ID == v {
			return true
		}
	}
	return false
}

// VoiceForSender picks the playback voice for a stored message. This is the
// single place the sender-type tag and gender hint affect behavior.
func VoiceForSender(senderType, senderGender string) Voice {
	switch senderType {
	case models.SenderTypeCaregiver:
		switch senderGender {
		case "male":
			return VoiceOnyx
		case "female":
			return VoiceShimmer
		default:
			return VoiceFable
		}
	case models.SenderTypeUser:
		switch senderGender {
		case "male":
			return VoiceEcho
		case "female":
			return VoiceNova
		default:
			return VoiceAlloy
		}
	default:
		return DefaultVoice
	}
}
