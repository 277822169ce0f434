package assistant

import "MediBot/internal/triage"

// Source tells the client where a reply came from.
type Source string

const (
	SourceCrisis    Source = "crisis"
	SourceEmergency Source = "emergency"
	SourceDistress  Source = "distress"
	SourceAIModel   Source = "ai_model"
	SourceFallback  Source = "fallback"
)

/* =================================================================================
								CANNED SAFETY MESSAGES
	Human-authored text returned verbatim. A model never edits these.
=================================================================================*/

const CrisisMessage = "🚨 It sounds like you might be in crisis or thinking about self-harm. " +
	"You're not alone — please reach out for immediate help:\n" +
	"📞 Call your local emergency number (e.g., 911 / 112 / 999), or\n" +
	"💬 Contact a suicide helpline such as 988 (US), Samaritans (UK: 116 123), or Befrienders (MY).\n" +
	"Please get help right now — you deserve care and safety."

const EmergencyMessage = "🚨 This sounds like a medical emergency. " +
	"Please call emergency services (911 / 112 / 999) or go to the nearest hospital immediately."

const DistressMessage = "💬 It sounds like you're going through a tough time. " +
	"You're not alone — reaching out to a trusted friend, counselor, or mental health professional can really help. " +
	"If things feel overwhelming, you can also contact a local helpline for support."

// FallbackMessages are used when the model is unavailable or returns nothing.
var FallbackMessages = []string{
	"I understand your concern. For proper medical care, please consult a healthcare professional.",
	"Thanks for reaching out. It's best to speak with a doctor for personalized advice.",
	"I appreciate your message. Please consult a licensed healthcare provider for detailed guidance.",
}

// cannedReply maps a triage category to its fixed reply. ok is false for None.
func cannedReply(c triage.Category) (reply Reply, ok bool) {
	switch c {
	case triage.Crisis:
		return Reply{Reply: CrisisMessage, Source: SourceCrisis}, true
	case triage.UrgentPhysical:
		return Reply{Reply: EmergencyMessage, Source: SourceEmergency}, true
	case triage.EmotionalDistress:
		return Reply{Reply: DistressMessage, Source: SourceDistress}, true
	default:
		return Reply{}, false
	}
}
